package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/agcomphr25/Comprehensive-Training-App/internal/config"
	"github.com/agcomphr25/Comprehensive-Training-App/internal/domain"
	"github.com/agcomphr25/Comprehensive-Training-App/internal/logger"
	"github.com/agcomphr25/Comprehensive-Training-App/internal/service"
)

// Services bundles what the handlers call into.
type Services struct {
	Plans    service.TrainingPlanService
	Trainees service.TraineeService
	Sessions service.SessionService
}

// NewRouter builds the gin engine with middleware and every route registered.
func NewRouter(cfg config.Config, svc Services, log *logger.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Tracing.Enabled {
		router.Use(otelgin.Middleware(cfg.Tracing.ServiceName))
	}
	router.Use(RequestLogger(log.With("component", "http")))
	if len(cfg.CORS.AllowedOrigins) > 0 {
		router.Use(CORS(cfg.CORS.AllowedOrigins))
	}

	SetupRoutes(router, cfg.Auth, cfg.JWT.Secret, svc, log)
	return router
}

// SetupRoutes registers the health check and the /api/v1 surface. With auth disabled
// every route is open; otherwise trainers and admins may use the API and only admins
// may change a plan's status or delete it.
func SetupRoutes(router *gin.Engine, auth config.AuthConfig, jwtSecret string, svc Services, log *logger.Logger) {
	planHandler := NewPlanHandler(svc.Plans, log)
	traineeHandler := NewTraineeHandler(svc.Trainees, svc.Plans, log)
	sessionHandler := NewSessionHandler(svc.Sessions, log)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "time": time.Now().UTC()})
	})

	apiV1 := router.Group("/api/v1")
	staff := []gin.HandlerFunc{}
	adminOnly := []gin.HandlerFunc{}
	if auth.Enabled {
		apiV1.Use(AuthMiddleware(jwtSecret))
		staff = append(staff, RoleMiddleware(domain.RoleTrainer, domain.RoleAdmin))
		adminOnly = append(adminOnly, RoleMiddleware(domain.RoleAdmin))
	}

	// --- Plan Routes ---
	plans := apiV1.Group("/plans")
	{
		plans.GET("", with(staff, planHandler.ListPlans)...)
		plans.POST("", with(staff, planHandler.CreatePlan)...)
		plans.GET("/:planId", with(staff, planHandler.GetPlan)...)
		plans.PATCH("/:planId/status", with(adminOnly, planHandler.UpdatePlanStatus)...)
		plans.DELETE("/:planId", with(adminOnly, planHandler.DeletePlan)...)
		plans.POST("/:planId/days/:dayNumber/start", with(staff, planHandler.StartDay)...)
		plans.POST("/:planId/days/:dayNumber/complete", with(staff, planHandler.CompleteDay)...)
		plans.POST("/:planId/export", with(staff, planHandler.ExportPlan)...)
	}

	// --- Trainee Routes ---
	trainees := apiV1.Group("/trainees")
	trainees.Use(staff...)
	{
		trainees.GET("", traineeHandler.ListTrainees)
		trainees.POST("", traineeHandler.CreateTrainee)
		trainees.GET("/:traineeId", traineeHandler.GetTrainee)
		trainees.GET("/:traineeId/knowledge", traineeHandler.GetTraineeKnowledge)
	}

	// --- Session Routes ---
	sessions := apiV1.Group("")
	sessions.Use(staff...)
	{
		sessions.GET("/sessions/:sessionId", sessionHandler.GetSession)
		sessions.PATCH("/sessions/:sessionId/sign", sessionHandler.SignSession)
		sessions.PATCH("/task-blocks/:blockId", sessionHandler.UpdateTaskBlock)
	}
}

func with(middleware []gin.HandlerFunc, handler gin.HandlerFunc) []gin.HandlerFunc {
	chain := make([]gin.HandlerFunc, 0, len(middleware)+1)
	chain = append(chain, middleware...)
	return append(chain, handler)
}
