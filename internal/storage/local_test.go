package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStoreRoundtrip(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	payload := []byte("docx bytes")
	require.NoError(t, store.Put(ctx, "templates/u1/1_contract.docx", "application/octet-stream", payload))

	got, err := store.Get(ctx, "templates/u1/1_contract.docx")
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	require.NoError(t, store.Delete(ctx, "templates/u1/1_contract.docx"))
	_, err = store.Get(ctx, "templates/u1/1_contract.docx")
	assert.Error(t, err)
}

func TestLocalStoreNestedNames(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Put(context.Background(), "outputs/gen-1/contract_Acme.docx", "", []byte("x")))

	_, err = os.Stat(filepath.Join(dir, "outputs", "gen-1", "contract_Acme.docx"))
	assert.NoError(t, err)
}

func TestLocalStoreRejectsTraversal(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	for _, name := range []string{
		"../escape.docx",
		"outputs/../../escape.docx",
		"/etc/passwd",
		".",
		"",
	} {
		assert.Error(t, store.Put(ctx, name, "", []byte("x")), "name %q", name)
		_, err := store.Get(ctx, name)
		assert.Error(t, err, "name %q", name)
	}
}

func TestLocalStoreDeleteMissingIsNoop(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	assert.NoError(t, store.Delete(context.Background(), "outputs/never-written.docx"))
}
