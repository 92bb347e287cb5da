package service_test

import (
	"context"
	"mime/multipart"
	"net/textproto"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"sleekinvoices/internal/config"
	"sleekinvoices/internal/domain"
	"sleekinvoices/internal/port"
	"sleekinvoices/internal/service"
	"sleekinvoices/mocks"
)

func testS3Config() config.S3Config {
	return config.S3Config{
		Region:        "us-east-1",
		Bucket:        "test-assets",
		MaxFileSizeMB: 5,
		PresignExpiry: 3600,
	}
}

func logoHeader(filename, contentType string, size int64) *multipart.FileHeader {
	return &multipart.FileHeader{
		Filename: filename,
		Size:     size,
		Header:   textproto.MIMEHeader{"Content-Type": []string{contentType}},
	}
}

func TestTemplateService_FirstTemplateBecomesDefault(t *testing.T) {
	templateRepo := new(mocks.MockTemplateRepo)
	svc := service.NewTemplateService(templateRepo, new(mocks.MockObjectStorage), testS3Config())
	tenantID := uuid.New()

	templateRepo.On("ListByTenant", mock.Anything, tenantID).Return([]domain.Template{}, nil)
	templateRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Template")).Return(nil)

	tpl, err := svc.Create(context.Background(), tenantID, service.TemplateInput{Name: "Classic"})
	require.NoError(t, err)
	assert.True(t, tpl.IsDefault)
}

func TestTemplateService_SecondTemplateNotDefault(t *testing.T) {
	templateRepo := new(mocks.MockTemplateRepo)
	svc := service.NewTemplateService(templateRepo, new(mocks.MockObjectStorage), testS3Config())
	tenantID := uuid.New()

	existing := []domain.Template{{ID: uuid.New(), TenantID: tenantID, Name: "Classic", IsDefault: true}}
	templateRepo.On("ListByTenant", mock.Anything, tenantID).Return(existing, nil)
	templateRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Template")).Return(nil)

	tpl, err := svc.Create(context.Background(), tenantID, service.TemplateInput{Name: "Modern"})
	require.NoError(t, err)
	assert.False(t, tpl.IsDefault)
}

func TestTemplateService_DeleteInUseRefused(t *testing.T) {
	templateRepo := new(mocks.MockTemplateRepo)
	svc := service.NewTemplateService(templateRepo, new(mocks.MockObjectStorage), testS3Config())
	tenantID, templateID := uuid.New(), uuid.New()

	templateRepo.On("CountInvoicesUsing", mock.Anything, tenantID, templateID).Return(4, nil)

	err := svc.Delete(context.Background(), tenantID, templateID)
	assert.ErrorIs(t, err, domain.ErrTemplateInUse)
	templateRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestTemplateService_DeleteRemovesOrphanedLogo(t *testing.T) {
	templateRepo := new(mocks.MockTemplateRepo)
	storage := new(mocks.MockObjectStorage)
	svc := service.NewTemplateService(templateRepo, storage, testS3Config())
	tenantID := uuid.New()

	tpl := &domain.Template{
		ID:         uuid.New(),
		TenantID:   tenantID,
		Name:       "Classic",
		LogoBucket: "test-assets",
		LogoKey:    "logos/old.png",
	}
	templateRepo.On("CountInvoicesUsing", mock.Anything, tenantID, tpl.ID).Return(0, nil)
	templateRepo.On("GetByID", mock.Anything, tenantID, tpl.ID).Return(tpl, nil)
	storage.On("Delete", mock.Anything, "test-assets", "logos/old.png").Return(nil)
	templateRepo.On("Delete", mock.Anything, tenantID, tpl.ID).Return(nil)

	err := svc.Delete(context.Background(), tenantID, tpl.ID)
	require.NoError(t, err)
	storage.AssertExpectations(t)
	templateRepo.AssertExpectations(t)
}

func TestTemplateService_UploadLogoRejectsContentType(t *testing.T) {
	templateRepo := new(mocks.MockTemplateRepo)
	storage := new(mocks.MockObjectStorage)
	svc := service.NewTemplateService(templateRepo, storage, testS3Config())
	tenantID := uuid.New()

	tpl := &domain.Template{ID: uuid.New(), TenantID: tenantID, Name: "Classic"}
	templateRepo.On("GetByID", mock.Anything, tenantID, tpl.ID).Return(tpl, nil)

	_, err := svc.UploadLogo(context.Background(), tenantID, service.LogoUploadInput{
		TemplateID: tpl.ID,
		Header:     logoHeader("logo.gif", "image/gif", 1024),
	})
	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
	storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestTemplateService_UploadLogoRejectsOversized(t *testing.T) {
	templateRepo := new(mocks.MockTemplateRepo)
	svc := service.NewTemplateService(templateRepo, new(mocks.MockObjectStorage), testS3Config())
	tenantID := uuid.New()

	tpl := &domain.Template{ID: uuid.New(), TenantID: tenantID, Name: "Classic"}
	templateRepo.On("GetByID", mock.Anything, tenantID, tpl.ID).Return(tpl, nil)

	_, err := svc.UploadLogo(context.Background(), tenantID, service.LogoUploadInput{
		TemplateID: tpl.ID,
		Header:     logoHeader("logo.png", "image/png", 6*1024*1024),
	})

	var verr *service.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "file")
}

func TestTemplateService_UploadLogoReplacesOld(t *testing.T) {
	templateRepo := new(mocks.MockTemplateRepo)
	storage := new(mocks.MockObjectStorage)
	svc := service.NewTemplateService(templateRepo, storage, testS3Config())
	tenantID := uuid.New()

	tpl := &domain.Template{
		ID:         uuid.New(),
		TenantID:   tenantID,
		Name:       "Classic",
		LogoBucket: "test-assets",
		LogoKey:    "logos/old.png",
	}
	templateRepo.On("GetByID", mock.Anything, tenantID, tpl.ID).Return(tpl, nil)
	storage.On("Upload", mock.Anything, mock.MatchedBy(func(in port.UploadInput) bool {
		return in.Bucket == "test-assets" && in.ContentType == "image/png"
	})).Return(&port.UploadOutput{Location: "https://s3.example.test/new.png"}, nil)
	templateRepo.On("Update", mock.Anything, tpl).Return(nil)
	storage.On("Delete", mock.Anything, "test-assets", "logos/old.png").Return(nil)

	updated, err := svc.UploadLogo(context.Background(), tenantID, service.LogoUploadInput{
		TemplateID: tpl.ID,
		Header:     logoHeader("logo.png", "image/png", 1024),
	})
	require.NoError(t, err)
	assert.NotEqual(t, "logos/old.png", updated.LogoKey)
	storage.AssertExpectations(t)
}

func TestTemplateService_LogoURL(t *testing.T) {
	templateRepo := new(mocks.MockTemplateRepo)
	storage := new(mocks.MockObjectStorage)
	svc := service.NewTemplateService(templateRepo, storage, testS3Config())
	tenantID := uuid.New()

	tpl := &domain.Template{
		ID:         uuid.New(),
		TenantID:   tenantID,
		LogoBucket: "test-assets",
		LogoKey:    "logos/current.png",
	}
	templateRepo.On("GetByID", mock.Anything, tenantID, tpl.ID).Return(tpl, nil)
	storage.On("PresignedURL", mock.Anything, "test-assets", "logos/current.png", time.Hour).
		Return("https://s3.example.test/signed", nil)

	url, err := svc.LogoURL(context.Background(), tenantID, tpl.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://s3.example.test/signed", url)
}

func TestTemplateService_LogoURLWithoutLogo(t *testing.T) {
	templateRepo := new(mocks.MockTemplateRepo)
	svc := service.NewTemplateService(templateRepo, new(mocks.MockObjectStorage), testS3Config())
	tenantID := uuid.New()

	tpl := &domain.Template{ID: uuid.New(), TenantID: tenantID}
	templateRepo.On("GetByID", mock.Anything, tenantID, tpl.ID).Return(tpl, nil)

	_, err := svc.LogoURL(context.Background(), tenantID, tpl.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
