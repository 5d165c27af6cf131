package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"docgen/internal/docx"
	"docgen/internal/generate"
	"docgen/internal/models"

	"gorm.io/gorm"
)

// CatalogService owns the entity/client/value CRUD and doubles as the
// generation engine's catalog source.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

func storeErr(err error) error {
	return fmt.Errorf("%w: %v", generate.ErrStoreUnavailable, err)
}

// -------- Entities --------

func validateEntityCode(code string) error {
	if !strings.HasPrefix(code, "{") || !strings.HasSuffix(code, "}") {
		return fmt.Errorf("%w: entity code must be braced, e.g. {FIO}", ErrInvalidInput)
	}
	if !docx.ValidKey(code) {
		return fmt.Errorf("%w: entity code may only contain A-Z, 0-9 and _ inside braces", ErrInvalidInput)
	}
	return nil
}

func (s *CatalogService) CreateEntity(ctx context.Context, name, code string) (*models.Entity, error) {
	name = strings.TrimSpace(name)
	code = strings.TrimSpace(code)
	if err := validateEntityCode(code); err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Entity{}).Where("code = ?", code).Count(&count).Error; err != nil {
		return nil, storeErr(err)
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: entity code %s already exists", ErrConflict, code)
	}

	entity := &models.Entity{Name: name, Code: code}
	if err := s.db.WithContext(ctx).Create(entity).Error; err != nil {
		return nil, storeErr(err)
	}
	return entity, nil
}

func (s *CatalogService) ListEntities(ctx context.Context) ([]models.Entity, error) {
	var entities []models.Entity
	if err := s.db.WithContext(ctx).Order("id").Find(&entities).Error; err != nil {
		return nil, storeErr(err)
	}
	return entities, nil
}

func (s *CatalogService) UpdateEntity(ctx context.Context, id uint, name, code *string) (*models.Entity, error) {
	var entity models.Entity
	if err := s.db.WithContext(ctx).First(&entity, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &generate.NotFoundError{Kind: "Entity", ID: id}
		}
		return nil, storeErr(err)
	}

	if name != nil {
		entity.Name = strings.TrimSpace(*name)
	}
	if code != nil {
		trimmed := strings.TrimSpace(*code)
		if err := validateEntityCode(trimmed); err != nil {
			return nil, err
		}
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.Entity{}).
			Where("code = ? AND id <> ?", trimmed, id).Count(&count).Error; err != nil {
			return nil, storeErr(err)
		}
		if count > 0 {
			return nil, fmt.Errorf("%w: entity code %s already exists", ErrConflict, trimmed)
		}
		entity.Code = trimmed
	}

	if err := s.db.WithContext(ctx).Save(&entity).Error; err != nil {
		return nil, storeErr(err)
	}
	return &entity, nil
}

func (s *CatalogService) DeleteEntity(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.Entity{}, id)
		if result.Error != nil {
			return storeErr(result.Error)
		}
		if result.RowsAffected == 0 {
			return &generate.NotFoundError{Kind: "Entity", ID: id}
		}
		// Bound values go with the entity.
		if err := tx.Where("entity_id = ?", id).Delete(&models.Value{}).Error; err != nil {
			return storeErr(err)
		}
		return nil
	})
}

// -------- Clients --------

func (s *CatalogService) CreateClient(ctx context.Context, name string) (*models.Client, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: client name is required", ErrInvalidInput)
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Client{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return nil, storeErr(err)
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: client %q already exists", ErrConflict, name)
	}

	client := &models.Client{Name: name}
	if err := s.db.WithContext(ctx).Create(client).Error; err != nil {
		return nil, storeErr(err)
	}
	return client, nil
}

func (s *CatalogService) ListClients(ctx context.Context) ([]models.Client, error) {
	var clients []models.Client
	if err := s.db.WithContext(ctx).Order("id").Find(&clients).Error; err != nil {
		return nil, storeErr(err)
	}
	return clients, nil
}

func (s *CatalogService) UpdateClient(ctx context.Context, id uint, name *string) (*models.Client, error) {
	var client models.Client
	if err := s.db.WithContext(ctx).First(&client, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &generate.NotFoundError{Kind: "Client", ID: id}
		}
		return nil, storeErr(err)
	}

	if name != nil {
		trimmed := strings.TrimSpace(*name)
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.Client{}).
			Where("name = ? AND id <> ?", trimmed, id).Count(&count).Error; err != nil {
			return nil, storeErr(err)
		}
		if count > 0 {
			return nil, fmt.Errorf("%w: client %q already exists", ErrConflict, trimmed)
		}
		client.Name = trimmed
	}

	if err := s.db.WithContext(ctx).Save(&client).Error; err != nil {
		return nil, storeErr(err)
	}
	return &client, nil
}

func (s *CatalogService) DeleteClient(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.Client{}, id)
		if result.Error != nil {
			return storeErr(result.Error)
		}
		if result.RowsAffected == 0 {
			return &generate.NotFoundError{Kind: "Client", ID: id}
		}
		if err := tx.Where("client_id = ?", id).Delete(&models.Value{}).Error; err != nil {
			return storeErr(err)
		}
		return nil
	})
}

// -------- Values --------

func (s *CatalogService) CreateValue(ctx context.Context, entityID, clientID uint, text string) (*models.Value, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Entity{}).Where("id = ?", entityID).Count(&count).Error; err != nil {
		return nil, storeErr(err)
	}
	if count == 0 {
		return nil, fmt.Errorf("%w: unknown entity_id %d", ErrInvalidInput, entityID)
	}
	if err := s.db.WithContext(ctx).Model(&models.Client{}).Where("id = ?", clientID).Count(&count).Error; err != nil {
		return nil, storeErr(err)
	}
	if count == 0 {
		return nil, fmt.Errorf("%w: unknown client_id %d", ErrInvalidInput, clientID)
	}

	if err := s.db.WithContext(ctx).Model(&models.Value{}).
		Where("entity_id = ? AND client_id = ?", entityID, clientID).Count(&count).Error; err != nil {
		return nil, storeErr(err)
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: value for this entity/client pair already exists", ErrConflict)
	}

	value := &models.Value{EntityID: entityID, ClientID: clientID, ValueText: text}
	if err := s.db.WithContext(ctx).Create(value).Error; err != nil {
		return nil, storeErr(err)
	}
	return value, nil
}

func (s *CatalogService) ListValues(ctx context.Context) ([]models.Value, error) {
	var values []models.Value
	if err := s.db.WithContext(ctx).Order("id").Find(&values).Error; err != nil {
		return nil, storeErr(err)
	}
	return values, nil
}

func (s *CatalogService) UpdateValue(ctx context.Context, id uint, text string) (*models.Value, error) {
	var value models.Value
	if err := s.db.WithContext(ctx).First(&value, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &generate.NotFoundError{Kind: "Value", ID: id}
		}
		return nil, storeErr(err)
	}

	value.ValueText = text
	if err := s.db.WithContext(ctx).Save(&value).Error; err != nil {
		return nil, storeErr(err)
	}
	return &value, nil
}

func (s *CatalogService) DeleteValue(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.Value{}, id)
	if result.Error != nil {
		return storeErr(result.Error)
	}
	if result.RowsAffected == 0 {
		return &generate.NotFoundError{Kind: "Value", ID: id}
	}
	return nil
}

// -------- generate.CatalogSource --------

func (s *CatalogService) Entities(ctx context.Context) ([]models.Entity, error) {
	return s.ListEntities(ctx)
}

func (s *CatalogService) ClientsByID(ctx context.Context, ids []uint) ([]models.Client, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var clients []models.Client
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&clients).Error; err != nil {
		return nil, storeErr(err)
	}
	return clients, nil
}

func (s *CatalogService) ValuesForClients(ctx context.Context, clientIDs []uint) ([]models.Value, error) {
	if len(clientIDs) == 0 {
		return nil, nil
	}
	var values []models.Value
	if err := s.db.WithContext(ctx).Where("client_id IN ?", clientIDs).Find(&values).Error; err != nil {
		return nil, storeErr(err)
	}
	return values, nil
}
