package service

import (
	"context"
	"fmt"
	"log"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"sleekinvoices/internal/config"
	"sleekinvoices/internal/domain"
	"sleekinvoices/internal/port"
)

// TemplateInput is the DTO for creating or updating a branding template.
type TemplateInput struct {
	Name        string `json:"name" binding:"required"`
	AccentColor string `json:"accent_color"`
	FooterNote  string `json:"footer_note"`
}

// LogoUploadInput carries a logo image for a template.
type LogoUploadInput struct {
	TemplateID uuid.UUID
	File       multipart.File
	Header     *multipart.FileHeader
}

var allowedLogoTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
}

// TemplateService defines the invoice branding template contract.
type TemplateService interface {
	Create(ctx context.Context, tenantID uuid.UUID, input TemplateInput) (*domain.Template, error)
	GetByID(ctx context.Context, tenantID, templateID uuid.UUID) (*domain.Template, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]domain.Template, error)
	Update(ctx context.Context, tenantID, templateID uuid.UUID, input TemplateInput) (*domain.Template, error)
	SetDefault(ctx context.Context, tenantID, templateID uuid.UUID) error
	Delete(ctx context.Context, tenantID, templateID uuid.UUID) error
	UploadLogo(ctx context.Context, tenantID uuid.UUID, input LogoUploadInput) (*domain.Template, error)
	LogoURL(ctx context.Context, tenantID, templateID uuid.UUID) (string, error)
}

type templateService struct {
	templateRepo port.TemplateRepository
	storage      port.ObjectStorage
	cfg          config.S3Config
}

// NewTemplateService creates a new TemplateService implementation.
func NewTemplateService(templateRepo port.TemplateRepository, storage port.ObjectStorage, cfg config.S3Config) TemplateService {
	return &templateService{
		templateRepo: templateRepo,
		storage:      storage,
		cfg:          cfg,
	}
}

func (s *templateService) Create(ctx context.Context, tenantID uuid.UUID, input TemplateInput) (*domain.Template, error) {
	existing, err := s.templateRepo.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	tpl := &domain.Template{
		TenantID:    tenantID,
		Name:        input.Name,
		AccentColor: input.AccentColor,
		FooterNote:  input.FooterNote,
		// First template becomes the tenant default automatically.
		IsDefault: len(existing) == 0,
	}
	if err := s.templateRepo.Create(ctx, tpl); err != nil {
		return nil, fmt.Errorf("creating template: %w", err)
	}
	return tpl, nil
}

func (s *templateService) GetByID(ctx context.Context, tenantID, templateID uuid.UUID) (*domain.Template, error) {
	return s.templateRepo.GetByID(ctx, tenantID, templateID)
}

func (s *templateService) List(ctx context.Context, tenantID uuid.UUID) ([]domain.Template, error) {
	return s.templateRepo.ListByTenant(ctx, tenantID)
}

func (s *templateService) Update(ctx context.Context, tenantID, templateID uuid.UUID, input TemplateInput) (*domain.Template, error) {
	tpl, err := s.templateRepo.GetByID(ctx, tenantID, templateID)
	if err != nil {
		return nil, err
	}

	tpl.Name = input.Name
	tpl.AccentColor = input.AccentColor
	tpl.FooterNote = input.FooterNote

	if err := s.templateRepo.Update(ctx, tpl); err != nil {
		return nil, err
	}
	return tpl, nil
}

func (s *templateService) SetDefault(ctx context.Context, tenantID, templateID uuid.UUID) error {
	return s.templateRepo.SetDefault(ctx, tenantID, templateID)
}

// Delete refuses to remove a template still referenced by invoices.
func (s *templateService) Delete(ctx context.Context, tenantID, templateID uuid.UUID) error {
	count, err := s.templateRepo.CountInvoicesUsing(ctx, tenantID, templateID)
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.ErrTemplateInUse
	}

	tpl, err := s.templateRepo.GetByID(ctx, tenantID, templateID)
	if err != nil {
		return err
	}
	if tpl.LogoKey != "" {
		if err := s.storage.Delete(ctx, tpl.LogoBucket, tpl.LogoKey); err != nil {
			log.Printf("templateService.Delete: orphaned logo %s/%s: %v", tpl.LogoBucket, tpl.LogoKey, err)
		}
	}
	return s.templateRepo.Delete(ctx, tenantID, templateID)
}

func (s *templateService) UploadLogo(ctx context.Context, tenantID uuid.UUID, input LogoUploadInput) (*domain.Template, error) {
	tpl, err := s.templateRepo.GetByID(ctx, tenantID, input.TemplateID)
	if err != nil {
		return nil, err
	}

	contentType := input.Header.Header.Get("Content-Type")
	if !allowedLogoTypes[contentType] {
		return nil, domain.ErrUnsupportedFileType
	}
	if input.Header.Size > s.cfg.MaxFileSizeMB*1024*1024 {
		return nil, &ValidationError{Fields: map[string]string{
			"file": fmt.Sprintf("logo exceeds the %d MB limit", s.cfg.MaxFileSizeMB),
		}}
	}

	ext := strings.ToLower(filepath.Ext(input.Header.Filename))
	key := fmt.Sprintf("logos/%s/%s%s", tenantID, uuid.New(), ext)

	out, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.cfg.Bucket,
		Key:         key,
		Body:        input.File,
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
	}

	oldBucket, oldKey := tpl.LogoBucket, tpl.LogoKey
	tpl.LogoBucket = s.cfg.Bucket
	tpl.LogoKey = key
	if err := s.templateRepo.Update(ctx, tpl); err != nil {
		return nil, err
	}

	if oldKey != "" {
		if err := s.storage.Delete(ctx, oldBucket, oldKey); err != nil {
			log.Printf("templateService.UploadLogo: stale logo %s/%s: %v", oldBucket, oldKey, err)
		}
	}

	log.Printf("templateService.UploadLogo: logo for template %s stored at %s (%s)", tpl.ID, out.Location, contentType)
	return tpl, nil
}

func (s *templateService) LogoURL(ctx context.Context, tenantID, templateID uuid.UUID) (string, error) {
	tpl, err := s.templateRepo.GetByID(ctx, tenantID, templateID)
	if err != nil {
		return "", err
	}
	if tpl.LogoKey == "" {
		return "", domain.ErrNotFound
	}
	return s.storage.PresignedURL(ctx, tpl.LogoBucket, tpl.LogoKey,
		time.Duration(s.cfg.PresignExpiry)*time.Second)
}
