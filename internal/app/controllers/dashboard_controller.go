package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/disa/mapa/internal/app/models"
	"github.com/disa/mapa/internal/app/models/dto"
	"github.com/disa/mapa/internal/app/roster"
	"github.com/disa/mapa/internal/app/services"
	"github.com/disa/mapa/internal/middleware"
	"github.com/gin-gonic/gin"
)

// DashboardController serves the read-only dashboard data: filter options, map markers and charts
type DashboardController struct {
	lookupService services.LookupService
	mapService    services.MapService
	statsService  services.StatsService
}

// NewDashboardController creates a new DashboardController
func NewDashboardController(lookupService services.LookupService, mapService services.MapService, statsService services.StatsService) *DashboardController {
	return &DashboardController{
		lookupService: lookupService,
		mapService:    mapService,
		statsService:  statsService,
	}
}

// GetFilterOptions returns personnel types and specialties for the filters
// @Summary Filter options
// @Description Never fails: an unreadable lookup is replaced by its fallback and named in warnings
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.FilterOptions} "Filter options"
// @Router /filter-options [get]
func (c *DashboardController) GetFilterOptions(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(c.lookupService.FilterOptions(ctx)))
}

// queryList collects a repeatable, comma separated query parameter
func queryList(ctx *gin.Context, key string) []string {
	var out []string
	for _, raw := range ctx.QueryArray(key) {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

// GetMarkers returns the mappable institutions with their personnel
// @Summary Map markers
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param institutionKind query []string false "Institution kinds" collectionFormat(csv)
// @Param personnelKind query []string false "Personnel kinds (military, civilian)" collectionFormat(csv)
// @Param specialtyId query []int false "Specialty IDs" collectionFormat(csv)
// @Success 200 {object} dto.APIResponse{data=[]roster.Marker} "Markers"
// @Failure 400 {object} dto.ErrorResponse "Invalid filter"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /map/markers [get]
func (c *DashboardController) GetMarkers(ctx *gin.Context) {
	var filter roster.MarkerFilter
	for _, v := range queryList(ctx, "institutionKind") {
		kind := models.InstitutionKind(v)
		if !kind.Valid() {
			c.badFilter(ctx, "institutionKind", v)
			return
		}
		filter.InstitutionKinds = append(filter.InstitutionKinds, kind)
	}
	for _, v := range queryList(ctx, "personnelKind") {
		kind := models.PersonnelKind(v)
		if !kind.Valid() {
			c.badFilter(ctx, "personnelKind", v)
			return
		}
		filter.PersonnelKinds = append(filter.PersonnelKinds, kind)
	}
	for _, v := range queryList(ctx, "specialtyId") {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			c.badFilter(ctx, "specialtyId", v)
			return
		}
		filter.SpecialtyIDs = append(filter.SpecialtyIDs, id)
	}

	markers, err := c.mapService.Markers(ctx, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(markers))
}

func (c *DashboardController) badFilter(ctx *gin.Context, field, value string) {
	errorDetail := dto.NewErrorDetail(dto.ErrorCodeBadRequest, "Invalid filter value").
		WithField(field).
		WithDetails(value)
	ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
}

// GetDistribution returns the chart aggregates
// @Summary Personnel distribution
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=roster.Distribution} "Distribution"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /stats/distribution [get]
func (c *DashboardController) GetDistribution(ctx *gin.Context) {
	d, err := c.statsService.Distribution(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(d))
}
