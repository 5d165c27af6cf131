package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"docgen/internal/docx"
	"docgen/internal/generate"
	"docgen/internal/models"
	"docgen/internal/storage"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

const docxMimeType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// TemplateService stores uploaded templates and serves their placeholder
// sets. Placeholders are extracted once at upload and cached on the row
// together with the content hash; templates are immutable after that.
type TemplateService struct {
	db    *gorm.DB
	store storage.Store
	log   zerolog.Logger
}

func NewTemplateService(db *gorm.DB, store storage.Store, log zerolog.Logger) *TemplateService {
	return &TemplateService{db: db, store: store, log: log}
}

func (s *TemplateService) Upload(ctx context.Context, filename string, file io.Reader) (*models.Template, error) {
	filename = filepath.Base(filename)
	if !strings.EqualFold(filepath.Ext(filename), ".docx") {
		return nil, fmt.Errorf("%w: only .docx templates are supported", ErrInvalidInput)
	}

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	// Reject templates the extractor cannot parse before storing anything.
	keys, err := docx.ExtractPlaceholders(content)
	if err != nil {
		return nil, err
	}
	keysJSON, err := json.Marshal(keys)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal placeholders: %w", err)
	}

	hash := sha256.Sum256(content)
	objectName := storage.TemplateObjectName(uuid.New().String(), filename)
	if err := s.store.Put(ctx, objectName, docxMimeType, content); err != nil {
		return nil, storeErr(err)
	}

	template := &models.Template{
		Filename:     filename,
		ObjectPath:   objectName,
		FileSize:     int64(len(content)),
		MimeType:     docxMimeType,
		ContentHash:  hex.EncodeToString(hash[:]),
		Placeholders: string(keysJSON),
	}
	if err := s.db.WithContext(ctx).Create(template).Error; err != nil {
		if delErr := s.store.Delete(ctx, objectName); delErr != nil {
			s.log.Warn().Err(delErr).Str("object", objectName).Msg("failed to clean up orphaned template blob")
		}
		return nil, storeErr(err)
	}

	s.log.Info().Uint("template_id", template.ID).Str("filename", filename).
		Int("placeholders", len(keys)).Msg("template uploaded")
	return template, nil
}

func (s *TemplateService) List(ctx context.Context) ([]models.Template, error) {
	var templates []models.Template
	if err := s.db.WithContext(ctx).Order("id").Find(&templates).Error; err != nil {
		return nil, storeErr(err)
	}
	return templates, nil
}

func (s *TemplateService) Get(ctx context.Context, id uint) (*models.Template, error) {
	var template models.Template
	if err := s.db.WithContext(ctx).First(&template, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &generate.NotFoundError{Kind: "Template", ID: id}
		}
		return nil, storeErr(err)
	}
	return &template, nil
}

// Placeholders returns the template's distinct placeholder keys, sorted.
// The cached set is trusted only while the stored content still matches
// the recorded hash; a missing, stale or corrupt cache falls back to
// re-extraction.
func (s *TemplateService) Placeholders(ctx context.Context, id uint) ([]string, error) {
	template, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	content, err := s.Content(ctx, template)
	if err != nil {
		return nil, err
	}

	if keys, ok := s.cachedPlaceholders(template, content); ok {
		return keys, nil
	}

	keys, err := docx.ExtractPlaceholders(content)
	if err != nil {
		return nil, err
	}
	s.cachePlaceholders(ctx, template, content, keys)
	return keys, nil
}

func (s *TemplateService) cachedPlaceholders(template *models.Template, content []byte) ([]string, bool) {
	if template.Placeholders == "" {
		return nil, false
	}
	hash := sha256.Sum256(content)
	if template.ContentHash != hex.EncodeToString(hash[:]) {
		s.log.Warn().Uint("template_id", template.ID).Msg("stored content changed since caching, re-extracting")
		return nil, false
	}
	var keys []string
	if err := json.Unmarshal([]byte(template.Placeholders), &keys); err != nil {
		s.log.Warn().Uint("template_id", template.ID).Msg("corrupt placeholder cache, re-extracting")
		return nil, false
	}
	return keys, true
}

func (s *TemplateService) cachePlaceholders(ctx context.Context, template *models.Template, content []byte, keys []string) {
	keysJSON, err := json.Marshal(keys)
	if err != nil {
		return
	}
	hash := sha256.Sum256(content)
	err = s.db.WithContext(ctx).Model(template).Updates(map[string]interface{}{
		"placeholders": string(keysJSON),
		"content_hash": hex.EncodeToString(hash[:]),
	}).Error
	if err != nil {
		s.log.Warn().Err(err).Uint("template_id", template.ID).Msg("failed to update placeholder cache")
	}
}

// -------- generate.TemplateSource --------

func (s *TemplateService) Template(ctx context.Context, id uint) (*models.Template, error) {
	return s.Get(ctx, id)
}

func (s *TemplateService) Content(ctx context.Context, template *models.Template) ([]byte, error) {
	content, err := s.store.Get(ctx, template.ObjectPath)
	if err != nil {
		return nil, storeErr(err)
	}
	return content, nil
}
