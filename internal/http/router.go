package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"github.com/badziek/logitrans-app/internal/config"
	"github.com/badziek/logitrans-app/internal/http/handlers"
	"github.com/badziek/logitrans-app/internal/http/middleware"
	"github.com/badziek/logitrans-app/internal/models"
	"github.com/badziek/logitrans-app/internal/repo"
	"github.com/badziek/logitrans-app/internal/services"
)

type Dependencies struct {
	Config      *config.Config
	UserRepo    *repo.UserRepo
	LoadRepo    *repo.LoadRepo
	AuthService *services.AuthService
	UserService *services.UserService
	Logger      *slog.Logger
	RateLimiter *middleware.RateLimiter
}

func NewRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(deps.Logger))
	router.Use(gin.Recovery())

	store := cookie.NewStore([]byte(deps.Config.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		HttpOnly: true,
		MaxAge:   12 * 60 * 60,
	})
	router.Use(sessions.Sessions("logitrans_session", store))

	if deps.Config.TemplateGlob != "" {
		router.LoadHTMLGlob(deps.Config.TemplateGlob)
	}

	authHandler := handlers.NewAuthHandler(deps.AuthService)
	loadHandler := handlers.NewLoadHandler(deps.LoadRepo)
	userHandler := handlers.NewUserHandler(deps.UserService)
	kpiHandler := handlers.NewKPIHandler()
	adminHandler := handlers.NewAdminHandler(deps.LoadRepo)

	router.GET("/healthz", handlers.Health)

	router.GET("/login", authHandler.ShowLogin)
	router.POST("/login", deps.RateLimiter.Middleware(), authHandler.Login)

	authed := router.Group("")
	authed.Use(middleware.RequireLogin(deps.UserRepo))
	{
		authed.GET("/", func(c *gin.Context) {
			c.Redirect(http.StatusFound, "/loads")
		})
		authed.GET("/logout", authHandler.Logout)

		authed.GET("/loads", middleware.NoCache(), loadHandler.Board)
		authed.POST("/loads", middleware.NoCache(), loadHandler.Create)
		authed.POST("/loads/:id/delete", middleware.NoCache(), loadHandler.Delete)

		authed.GET("/kpi", kpiHandler.View)
		authed.POST("/kpi", kpiHandler.Upload)

		// editing the board is off limits for plain USER accounts
		editors := authed.Group("")
		editors.Use(middleware.RequireRoles(models.RoleAdmin, models.RoleSupervisor), middleware.NoCache())
		{
			editors.POST("/loads/:id/edit", loadHandler.Edit)
			editors.POST("/loads/update_header", loadHandler.UpdateHeader)
			editors.POST("/loads/clear_lane", loadHandler.ClearLane)
		}

		management := authed.Group("")
		management.Use(middleware.RequireRoles(models.RoleAdmin, models.RoleSupervisor))
		{
			management.GET("/users", userHandler.List)
			management.POST("/users", userHandler.Manage)
		}

		admin := authed.Group("")
		admin.Use(middleware.RequireRoles(models.RoleAdmin))
		{
			admin.GET("/clear_all_data", adminHandler.ClearAllData)
			admin.GET("/add_test_data", adminHandler.AddTestData)
		}
	}

	return router
}
