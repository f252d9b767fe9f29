package routes

import (
	"net/http"

	"github.com/disa/mapa/internal/app/controllers"
	"github.com/disa/mapa/internal/middleware"
	"github.com/disa/mapa/internal/pkg/metrics"
	"github.com/disa/mapa/internal/pkg/websocket"
	"github.com/gin-gonic/gin"
)

// Controllers groups the handlers mounted under /api/v1
type Controllers struct {
	Auth          *controllers.AuthController
	Institution   *controllers.InstitutionController
	Personnel     *controllers.PersonnelController
	PersonnelType *controllers.LookupController
	Specialty     *controllers.LookupController
	Dashboard     *controllers.DashboardController
	Events        *websocket.Handler
}

// HealthCheck reports whether the process can serve traffic
type HealthCheck func(c *gin.Context) error

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, ctrl Controllers, authMiddleware *middleware.AuthMiddleware, health HealthCheck) {
	router.GET("/health", func(c *gin.Context) {
		if health != nil {
			if err := health(c); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", ctrl.Auth.Login)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	institutions := authenticated.Group("/institutions")
	{
		institutions.GET("", ctrl.Institution.GetAllInstitutions)
		institutions.POST("", ctrl.Institution.CreateInstitution)
		institutions.GET("/:id", ctrl.Institution.GetInstitutionByID)
		institutions.PUT("/:id", ctrl.Institution.UpdateInstitution)
		institutions.DELETE("/:id", ctrl.Institution.DeleteInstitution)
	}

	personnel := authenticated.Group("/personnel")
	{
		personnel.GET("", ctrl.Personnel.GetAllPersonnel)
		personnel.POST("", ctrl.Personnel.CreatePersonnel)
		personnel.GET("/view", ctrl.Personnel.GetPersonnelView)
		personnel.POST("/import", ctrl.Personnel.ImportPersonnel)
		personnel.GET("/:id", ctrl.Personnel.GetPersonnelByID)
		personnel.PUT("/:id", ctrl.Personnel.UpdatePersonnel)
		personnel.DELETE("/:id", ctrl.Personnel.DeletePersonnel)
	}

	mountLookup(authenticated.Group("/personnel-types"), ctrl.PersonnelType)
	mountLookup(authenticated.Group("/specialties"), ctrl.Specialty)

	authenticated.GET("/filter-options", ctrl.Dashboard.GetFilterOptions)
	authenticated.GET("/map/markers", ctrl.Dashboard.GetMarkers)
	authenticated.GET("/stats/distribution", ctrl.Dashboard.GetDistribution)

	// Event feed; the token may come in the query string
	authenticated.GET("/events", ctrl.Events.HandleConnection)
}

func mountLookup(group *gin.RouterGroup, c *controllers.LookupController) {
	group.GET("", c.List)
	group.POST("", c.Create)
	group.PUT("/:id", c.Update)
	group.DELETE("/:id", c.Delete)
}
