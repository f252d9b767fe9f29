package controllers

import (
	"net/http"

	"github.com/disa/mapa/internal/app/models/dto"
	"github.com/disa/mapa/internal/app/services"
	"github.com/disa/mapa/internal/middleware"
	"github.com/gin-gonic/gin"
)

// InstitutionController handles institution-related operations
type InstitutionController struct {
	institutionService services.InstitutionService
}

// NewInstitutionController creates a new InstitutionController
func NewInstitutionController(institutionService services.InstitutionService) *InstitutionController {
	return &InstitutionController{institutionService: institutionService}
}

// CreateInstitution handles institution creation
// @Summary Create a new institution
// @Description Creates an institution. The destination code is stored uppercased and must be unique.
// @Tags institutions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.InstitutionRequest true "Institution information"
// @Success 201 {object} dto.APIResponse{data=models.Institution} "Institution created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 409 {object} dto.ErrorResponse "Destination code already in use"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /institutions [post]
func (c *InstitutionController) CreateInstitution(ctx *gin.Context) {
	var req dto.InstitutionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	inst := req.ToModel()
	if _, err := c.institutionService.CreateInstitution(ctx, inst); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(inst))
}

// GetInstitutionByID retrieves an institution by ID
// @Summary Get institution details
// @Tags institutions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Institution ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=models.Institution} "Institution retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid institution ID format"
// @Failure 404 {object} dto.ErrorResponse "Institution not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /institutions/{id} [get]
func (c *InstitutionController) GetInstitutionByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Institution")
	if !ok {
		return
	}

	inst, err := c.institutionService.GetInstitutionByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(inst))
}

// GetAllInstitutions retrieves all institutions
// @Summary Get all institutions
// @Tags institutions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Institution} "Institutions retrieved successfully"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /institutions [get]
func (c *InstitutionController) GetAllInstitutions(ctx *gin.Context) {
	institutions, err := c.institutionService.List(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(institutions))
}

// UpdateInstitution updates an existing institution
// @Summary Update an institution
// @Tags institutions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Institution ID" Format(int64) minimum(1)
// @Param request body dto.InstitutionRequest true "Updated institution information"
// @Success 200 {object} dto.APIResponse{data=models.Institution} "Institution updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Institution not found"
// @Failure 409 {object} dto.ErrorResponse "Destination code already in use"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /institutions/{id} [put]
func (c *InstitutionController) UpdateInstitution(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Institution")
	if !ok {
		return
	}

	var req dto.InstitutionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	inst := req.ToModel()
	inst.ID = id
	if err := c.institutionService.UpdateInstitution(ctx, inst); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(inst))
}

// DeleteInstitution deletes an institution
// @Summary Delete an institution
// @Description Deletes an institution. Personnel assigned to its code are kept.
// @Tags institutions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Institution ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Institution deleted successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid institution ID"
// @Failure 404 {object} dto.ErrorResponse "Institution not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /institutions/{id} [delete]
func (c *InstitutionController) DeleteInstitution(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Institution")
	if !ok {
		return
	}

	if err := c.institutionService.DeleteInstitution(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Institution deleted successfully"}))
}
