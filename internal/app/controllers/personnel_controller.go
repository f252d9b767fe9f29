package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/disa/mapa/internal/app/models/dto"
	"github.com/disa/mapa/internal/app/roster"
	"github.com/disa/mapa/internal/app/services"
	"github.com/disa/mapa/internal/middleware"
	"github.com/disa/mapa/internal/pkg/apperrors"
	"github.com/disa/mapa/internal/pkg/helpers"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// PersonnelController handles the personnel list, manual edits and spreadsheet imports
type PersonnelController struct {
	personnelService services.PersonnelService
	maxUploadBytes   int64
	logger           zerolog.Logger
}

// NewPersonnelController creates a new PersonnelController
func NewPersonnelController(personnelService services.PersonnelService, maxUploadBytes int64, logger zerolog.Logger) *PersonnelController {
	return &PersonnelController{
		personnelService: personnelService,
		maxUploadBytes:   maxUploadBytes,
		logger:           logger,
	}
}

// GetPersonnelView returns the filtered and ordered personnel list
// @Summary Personnel list
// @Description Filters by group and search term, then orders officers, noncommissioned and civilians (for type=all) by import sequence and surname. Counters always cover the whole list.
// @Tags personnel
// @Produce json
// @Security BearerAuth
// @Param type query string false "Group filter" Enums(all, officer, noncommissioned, civilian)
// @Param q query string false "Case-insensitive search term"
// @Param page query int false "Page number (1-based); omit for the whole list"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PersonnelViewResponse} "Personnel retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Unknown type filter"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /personnel/view [get]
func (c *PersonnelController) GetPersonnelView(ctx *gin.Context) {
	filter, err := roster.ParseTypeFilter(ctx.Query("type"))
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeBadRequest, "Invalid type filter").WithField("type").WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	view, err := c.personnelService.View(ctx, roster.Criteria{Type: filter, Search: ctx.Query("q")})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.PersonnelViewResponse{Items: view.Items, Counts: view.Counts}
	if page, size, ok := helpers.ParsePaginationParams(ctx); ok {
		start, end := helpers.CalculateSliceIndices(page, size, len(view.Items))
		resp.Items = view.Items[start:end]
		info := helpers.NewPaginationInfo(len(view.Items), page, size)
		resp.Pagination = &info
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(resp))
}

// GetAllPersonnel returns the stored list without filtering
// @Summary Raw personnel list
// @Tags personnel
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Personnel} "Personnel retrieved successfully"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /personnel [get]
func (c *PersonnelController) GetAllPersonnel(ctx *gin.Context) {
	list, err := c.personnelService.Load(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(list))
}

// GetPersonnelByID retrieves one record
// @Summary Get personnel record
// @Tags personnel
// @Produce json
// @Security BearerAuth
// @Param id path int true "Personnel ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=models.Personnel} "Personnel retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid personnel ID"
// @Failure 404 {object} dto.ErrorResponse "Personnel not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /personnel/{id} [get]
func (c *PersonnelController) GetPersonnelByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Personnel")
	if !ok {
		return
	}

	p, err := c.personnelService.GetPersonnelByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(p))
}

// CreatePersonnel creates a record entered by hand
// @Summary Create personnel record
// @Description Manual records have no import sequence. The destination code must belong to an institution.
// @Tags personnel
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.PersonnelRequest true "Personnel information"
// @Success 201 {object} dto.APIResponse{data=models.Personnel} "Personnel created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data or unknown destination"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /personnel [post]
func (c *PersonnelController) CreatePersonnel(ctx *gin.Context) {
	var req dto.PersonnelRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	id, err := c.personnelService.CreatePersonnel(ctx, req.ToModel())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	// Re-read so the response carries the joined specialty name, as update does
	created, err := c.personnelService.GetPersonnelByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(created))
}

// UpdatePersonnel updates a record, keeping its import sequence
// @Summary Update personnel record
// @Tags personnel
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Personnel ID" Format(int64) minimum(1)
// @Param request body dto.PersonnelRequest true "Updated personnel information"
// @Success 200 {object} dto.APIResponse{data=models.Personnel} "Personnel updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data or unknown destination"
// @Failure 404 {object} dto.ErrorResponse "Personnel not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /personnel/{id} [put]
func (c *PersonnelController) UpdatePersonnel(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Personnel")
	if !ok {
		return
	}

	var req dto.PersonnelRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	p := req.ToModel()
	p.ID = id
	if err := c.personnelService.UpdatePersonnel(ctx, p); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	updated, err := c.personnelService.GetPersonnelByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(updated))
}

// DeletePersonnel deletes a record
// @Summary Delete personnel record
// @Tags personnel
// @Produce json
// @Security BearerAuth
// @Param id path int true "Personnel ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Personnel deleted successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid personnel ID"
// @Failure 404 {object} dto.ErrorResponse "Personnel not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /personnel/{id} [delete]
func (c *PersonnelController) DeletePersonnel(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "Personnel")
	if !ok {
		return
	}

	if err := c.personnelService.DeletePersonnel(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Personnel deleted successfully"}))
}

// ImportPersonnel imports military personnel from an xlsx workbook
// @Summary Import personnel spreadsheet
// @Description Rows are validated and numbered in file order. Invalid rows are reported and skipped; a row that fails to save does not stop the rest. With dryRun=true nothing is written.
// @Tags personnel
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "xlsx workbook"
// @Param dryRun query bool false "Validate and number rows without saving"
// @Success 200 {object} dto.APIResponse{data=dto.BatchResult} "Import finished"
// @Failure 400 {object} dto.ErrorResponse "No file provided"
// @Failure 413 {object} dto.ErrorResponse "File too large"
// @Failure 422 {object} dto.ErrorResponse "Spreadsheet could not be read"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /personnel/import [post]
func (c *PersonnelController) ImportPersonnel(ctx *gin.Context) {
	dryRun, err := strconv.ParseBool(ctx.DefaultQuery("dryRun", "false"))
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeBadRequest, "Invalid dryRun flag").WithField("dryRun")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if ctx.Request.ContentLength > c.maxUploadBytes {
		c.uploadTooLarge(ctx)
		return
	}
	ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, c.maxUploadBytes)
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.uploadTooLarge(ctx)
			return
		}
		middleware.HandleAPIError(ctx, apperrors.ErrMissingUpload)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	defer file.Close()

	c.logger.Info().
		Str("filename", fileHeader.Filename).
		Int64("size", fileHeader.Size).
		Bool("dryRun", dryRun).
		Str("username", ctx.GetString(middleware.UsernameKey)).
		Msg("Personnel import requested")

	result, err := c.personnelService.ImportSpreadsheet(ctx, file, dryRun)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(result))
}

func (c *PersonnelController) uploadTooLarge(ctx *gin.Context) {
	errorDetail := dto.NewErrorDetail(dto.ErrorCodeUploadTooLarge, "File too large").
		WithDetails(map[string]interface{}{"limitBytes": c.maxUploadBytes})
	ctx.JSON(http.StatusRequestEntityTooLarge, dto.NewErrorResponse(errorDetail))
}
