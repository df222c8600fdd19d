package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/enrollhq/registration-api/internal/service"
	appErrors "github.com/enrollhq/registration-api/pkg/errors"
	"github.com/enrollhq/registration-api/pkg/response"
)

// SimpleRegistrationHandler exposes the reduced-schema intake endpoints.
type SimpleRegistrationHandler struct {
	registrations *service.SimpleRegistrationService
}

// NewSimpleRegistrationHandler constructs SimpleRegistrationHandler.
func NewSimpleRegistrationHandler(registrations *service.SimpleRegistrationService) *SimpleRegistrationHandler {
	return &SimpleRegistrationHandler{registrations: registrations}
}

// Create godoc
// @Summary Submit a simple registration
// @Tags Simple Registrations
// @Accept json
// @Produce json
// @Param payload body service.CreateSimpleRegistrationRequest true "Intake payload"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /simple-registrations [post]
func (h *SimpleRegistrationHandler) Create(c *gin.Context) {
	var req service.CreateSimpleRegistrationRequest
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
		"message": "Registration created successfully",
		"id":      rec.ID,
	})
}

// List godoc
// @Summary List simple registrations
// @Tags Simple Registrations
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /simple-registrations [get]
func (h *SimpleRegistrationHandler) List(c *gin.Context) {
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
// @Summary Simple registration stats
// @Tags Simple Registrations
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /simple-registrations/stats [get]
func (h *SimpleRegistrationHandler) Stats(c *gin.Context) {
	stats, err := h.registrations.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"stats": stats})
}
