package services

import (
	"context"
	"testing"

	"docgen/internal/generate"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestValidateEntityCode(t *testing.T) {
	valid := []string{"{FIO}", "{DATE}", "{CONTRACT_NUM}", "{A1}", "{X_2_Y}"}
	for _, code := range valid {
		assert.NoError(t, validateEntityCode(code), "code %q", code)
	}

	invalid := []string{
		"FIO",          // no braces
		"{FIO",         // unclosed
		"FIO}",         // unopened
		"{fio}",        // lowercase
		"{FIO DATE}",   // space
		"{FIO}{DATE}",  // two keys in one code
		"{}",           // empty key
		"{ФИО}",        // non-latin
		"{FIO-NUM}",    // dash
		"",             // empty
	}
	for _, code := range invalid {
		err := validateEntityCode(code)
		assert.ErrorIs(t, err, ErrInvalidInput, "code %q", code)
	}
}

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	return db, mock
}

func countRows(n int64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"count(*)"}).AddRow(n)
}

func TestCreateEntityDuplicateCodeConflicts(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewCatalogService(db)

	mock.ExpectQuery("SELECT count").WillReturnRows(countRows(1))

	_, err := svc.CreateEntity(context.Background(), "Full name", "{FIO}")
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateClientDuplicateNameConflicts(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewCatalogService(db)

	mock.ExpectQuery("SELECT count").WillReturnRows(countRows(1))

	_, err := svc.CreateClient(context.Background(), "Acme")
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateValueDuplicatePairConflicts(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewCatalogService(db)

	// Entity and client exist; the pair is already bound.
	mock.ExpectQuery("SELECT count").WillReturnRows(countRows(1))
	mock.ExpectQuery("SELECT count").WillReturnRows(countRows(1))
	mock.ExpectQuery("SELECT count").WillReturnRows(countRows(1))

	_, err := svc.CreateValue(context.Background(), 1, 2, "text")
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateValueUnknownEntityRejected(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewCatalogService(db)

	mock.ExpectQuery("SELECT count").WillReturnRows(countRows(0))

	_, err := svc.CreateValue(context.Background(), 99, 2, "text")
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteEntityCascadesInOneTransaction(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewCatalogService(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `entities`").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM `entity_values`").WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	assert.NoError(t, svc.DeleteEntity(context.Background(), 1))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteEntityRollsBackWhenValueDeleteFails(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewCatalogService(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `entities`").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM `entity_values`").WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := svc.DeleteEntity(context.Background(), 1)
	assert.ErrorIs(t, err, generate.ErrStoreUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteClientCascadesInOneTransaction(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewCatalogService(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `clients`").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM `entity_values`").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	assert.NoError(t, svc.DeleteClient(context.Background(), 2))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteEntityMissingRowNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewCatalogService(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `entities`").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := svc.DeleteEntity(context.Background(), 404)
	var notFound *generate.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "Entity", notFound.Kind)
	assert.NoError(t, mock.ExpectationsWereMet())
}
