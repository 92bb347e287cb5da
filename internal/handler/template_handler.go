package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sleekinvoices/internal/service"
)

// TemplateHandler handles invoice template endpoints.
type TemplateHandler struct {
	templateService service.TemplateService
}

// NewTemplateHandler creates a new TemplateHandler.
func NewTemplateHandler(templateService service.TemplateService) *TemplateHandler {
	return &TemplateHandler{templateService: templateService}
}

// Create handles POST /api/v1/templates
// @Summary Create an invoice template
// @Description Creates a branding template. The tenant's first template becomes the default automatically.
// @Tags templates
// @Accept json
// @Produce json
// @Param request body service.TemplateInput true "Template payload"
// @Success 201 {object} Response{data=domain.Template} "Created template"
// @Security BearerAuth
// @Router /templates [post]
func (h *TemplateHandler) Create(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var input service.TemplateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	tpl, err := h.templateService.Create(c.Request.Context(), tenantID, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, tpl)
}

// List handles GET /api/v1/templates
// @Summary List invoice templates
// @Tags templates
// @Produce json
// @Success 200 {object} Response{data=[]domain.Template} "Templates"
// @Security BearerAuth
// @Router /templates [get]
func (h *TemplateHandler) List(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	templates, err := h.templateService.List(c.Request.Context(), tenantID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, templates)
}

// GetByID handles GET /api/v1/templates/:id
// @Summary Get an invoice template by ID
// @Tags templates
// @Produce json
// @Param id path string true "Template ID"
// @Success 200 {object} Response{data=domain.Template} "Template"
// @Failure 404 {object} ErrorResponseBody "Not found"
// @Security BearerAuth
// @Router /templates/{id} [get]
func (h *TemplateHandler) GetByID(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	templateID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	tpl, err := h.templateService.GetByID(c.Request.Context(), tenantID, templateID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, tpl)
}

// Update handles PUT /api/v1/templates/:id
// @Summary Update an invoice template
// @Tags templates
// @Accept json
// @Produce json
// @Param id path string true "Template ID"
// @Param request body service.TemplateInput true "Template payload"
// @Success 200 {object} Response{data=domain.Template} "Updated template"
// @Security BearerAuth
// @Router /templates/{id} [put]
func (h *TemplateHandler) Update(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	templateID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input service.TemplateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	tpl, err := h.templateService.Update(c.Request.Context(), tenantID, templateID, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, tpl)
}

// SetDefault handles POST /api/v1/templates/:id/default
// @Summary Make a template the tenant default
// @Tags templates
// @Produce json
// @Param id path string true "Template ID"
// @Success 200 {object} Response{data=MessageResponse} "Default changed"
// @Security BearerAuth
// @Router /templates/{id}/default [post]
func (h *TemplateHandler) SetDefault(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	templateID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.templateService.SetDefault(c.Request.Context(), tenantID, templateID); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "default template updated"})
}

// Delete handles DELETE /api/v1/templates/:id
// @Summary Delete an invoice template
// @Tags templates
// @Produce json
// @Param id path string true "Template ID"
// @Success 200 {object} Response{data=MessageResponse} "Deleted"
// @Failure 409 {object} ErrorResponseBody "Template is used by invoices"
// @Security BearerAuth
// @Router /templates/{id} [delete]
func (h *TemplateHandler) Delete(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	templateID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.templateService.Delete(c.Request.Context(), tenantID, templateID); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "template deleted"})
}

// UploadLogo handles POST /api/v1/templates/:id/logo
// @Summary Upload a logo image for a template
// @Description Accepts a multipart PNG or JPEG upload and stores it in object storage.
// @Tags templates
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Template ID"
// @Param file formData file true "Logo image (png or jpg)"
// @Success 200 {object} Response{data=domain.Template} "Updated template"
// @Failure 400 {object} ErrorResponseBody "Unsupported file type"
// @Security BearerAuth
// @Router /templates/{id}/logo [post]
func (h *TemplateHandler) UploadLogo(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	templateID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "file form field is required")
		return
	}
	defer file.Close()

	tpl, err := h.templateService.UploadLogo(c.Request.Context(), tenantID, service.LogoUploadInput{
		TemplateID: templateID,
		File:       file,
		Header:     header,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, tpl)
}

// LogoURL handles GET /api/v1/templates/:id/logo
// @Summary Get a presigned URL for a template's logo
// @Tags templates
// @Produce json
// @Param id path string true "Template ID"
// @Success 200 {object} Response{data=LogoURLResponse} "Presigned URL"
// @Failure 404 {object} ErrorResponseBody "Template has no logo"
// @Security BearerAuth
// @Router /templates/{id}/logo [get]
func (h *TemplateHandler) LogoURL(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	templateID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	url, err := h.templateService.LogoURL(c.Request.Context(), tenantID, templateID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"logo_url": url})
}
