package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/enrollhq/registration-api/internal/service"
	appErrors "github.com/enrollhq/registration-api/pkg/errors"
	"github.com/enrollhq/registration-api/pkg/response"
)

// RegistrationHandler exposes the full-form registration endpoints.
type RegistrationHandler struct {
	registrations *service.RegistrationService
	exports       *service.ExportService
}

// NewRegistrationHandler constructs RegistrationHandler. exports may be nil
// when the export endpoint is not mounted.
func NewRegistrationHandler(registrations *service.RegistrationService, exports *service.ExportService) *RegistrationHandler {
	return &RegistrationHandler{registrations: registrations, exports: exports}
}

// Create godoc
// @Summary Submit a registration
// @Tags Registrations
// @Accept json
// @Produce json
// @Param payload body service.CreateRegistrationRequest true "Registration payload"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /registrations [post]
func (h *RegistrationHandler) Create(c *gin.Context) {
	var req service.CreateRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "Invalid request payload"))
		return
	}
	rec, err := h.registrations.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{
		"message":      "Registration created successfully",
		"registration": rec,
	})
}

// List godoc
// @Summary List registrations
// @Tags Registrations
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /registrations [get]
func (h *RegistrationHandler) List(c *gin.Context) {
	recs, err := h.registrations.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{
		"registrations": recs,
		"count":         len(recs),
	})
}

// Stats godoc
// @Summary Registration stats
// @Tags Registrations
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /registrations/stats [get]
func (h *RegistrationHandler) Stats(c *gin.Context) {
	stats, err := h.registrations.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"stats": stats})
}

// Export godoc
// @Summary Export registrations
// @Tags Registrations
// @Produce text/csv
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Router /registrations/export [get]
func (h *RegistrationHandler) Export(c *gin.Context) {
	result, err := h.exports.Registrations(c.Request.Context(), service.ExportFormat(c.DefaultQuery("format", "csv")))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Data)
}

// Get godoc
// @Summary Get a registration
// @Tags Registrations
// @Produce json
// @Param id path string true "Registration ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /registrations/{id} [get]
func (h *RegistrationHandler) Get(c *gin.Context) {
	rec, err := h.registrations.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"registration": rec})
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus godoc
// @Summary Update registration status
// @Tags Registrations
// @Accept json
// @Produce json
// @Param id path string true "Registration ID"
// @Param payload body updateStatusRequest true "New status"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /registrations/{id} [patch]
func (h *RegistrationHandler) UpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.ErrInvalidStatus)
		return
	}
	if err := h.registrations.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "Registration status updated successfully")
}

// Delete godoc
// @Summary Delete a registration
// @Tags Registrations
// @Produce json
// @Param id path string true "Registration ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /registrations/{id} [delete]
func (h *RegistrationHandler) Delete(c *gin.Context) {
	if err := h.registrations.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "Registration deleted successfully")
}
