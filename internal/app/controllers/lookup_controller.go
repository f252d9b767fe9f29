package controllers

import (
	"net/http"

	"github.com/disa/mapa/internal/app/models"
	"github.com/disa/mapa/internal/app/models/dto"
	"github.com/disa/mapa/internal/app/services"
	"github.com/disa/mapa/internal/middleware"
	"github.com/gin-gonic/gin"
)

// LookupController serves one lookup table; routes mount one controller per kind
type LookupController struct {
	lookupService services.LookupService
	kind          models.LookupKind
	label         string
}

// NewLookupController creates a controller for kind. label names the entries in messages.
func NewLookupController(lookupService services.LookupService, kind models.LookupKind, label string) *LookupController {
	return &LookupController{lookupService: lookupService, kind: kind, label: label}
}

// List returns every entry
// @Summary List lookup entries
// @Description Lists personnel types (/personnel-types) or specialties (/specialties)
// @Tags lookups
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Lookup} "Entries retrieved successfully"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /personnel-types [get]
// @Router /specialties [get]
func (c *LookupController) List(ctx *gin.Context) {
	entries, err := c.lookupService.List(ctx, c.kind)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(entries))
}

// Create adds an entry
// @Summary Create lookup entry
// @Tags lookups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.LookupRequest true "Entry"
// @Success 201 {object} dto.APIResponse{data=models.Lookup} "Entry created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 409 {object} dto.ErrorResponse "Name already in use"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /personnel-types [post]
// @Router /specialties [post]
func (c *LookupController) Create(ctx *gin.Context) {
	var req dto.LookupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	entry := req.ToModel()
	if _, err := c.lookupService.Create(ctx, c.kind, entry); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(entry))
}

// Update overwrites an entry
// @Summary Update lookup entry
// @Tags lookups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Entry ID" Format(int64) minimum(1)
// @Param request body dto.LookupRequest true "Entry"
// @Success 200 {object} dto.APIResponse{data=models.Lookup} "Entry updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Entry not found"
// @Failure 409 {object} dto.ErrorResponse "Name already in use"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /personnel-types/{id} [put]
// @Router /specialties/{id} [put]
func (c *LookupController) Update(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", c.label)
	if !ok {
		return
	}

	var req dto.LookupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	entry := req.ToModel()
	entry.ID = id
	if err := c.lookupService.Update(ctx, c.kind, entry); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(entry))
}

// Delete removes an entry
// @Summary Delete lookup entry
// @Description Deleting a specialty clears it from the personnel that referenced it
// @Tags lookups
// @Produce json
// @Security BearerAuth
// @Param id path int true "Entry ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Entry deleted successfully"
// @Failure 404 {object} dto.ErrorResponse "Entry not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /personnel-types/{id} [delete]
// @Router /specialties/{id} [delete]
func (c *LookupController) Delete(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", c.label)
	if !ok {
		return
	}

	if err := c.lookupService.Delete(ctx, c.kind, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: c.label + " deleted successfully"}))
}
