package app

import (
	"Planner/internal/auth"
	"Planner/internal/cache"
	"Planner/internal/config"
	"Planner/internal/handlers"
	"Planner/internal/repo"
	"Planner/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"
)

// Services is everything the HTTP layer and the scheduler depend on.
type Services struct {
	Sessions  auth.SessionStore
	Users     *service.UserService
	Tasks     *service.TaskService
	Reminders *service.ReminderService
	Calendar  *service.CalendarService
}

// NewServices wires Postgres repositories and Redis caches into services.
func NewServices(cfg config.Config, db *pgxpool.Pool, rdb *redis.Client) Services {
	limits := service.Limits{
		MaxRangeDays:   cfg.Engine.MaxRangeDays,
		OverlapHorizon: cfg.Engine.OverlapHorizon(),
	}
	listCache := cache.NewListCache(rdb, cfg.Redis.DefaultTTL.Duration())

	tasks := service.NewTaskService(repo.NewPGTaskRepo(db), listCache, limits)
	reminders := service.NewReminderService(repo.NewPGReminderRepo(db), listCache, limits)
	return Services{
		Sessions:  auth.NewStore(rdb, cfg.Session.TTL.Duration()),
		Users:     service.NewUserService(repo.NewPGUserRepo(db)),
		Tasks:     tasks,
		Reminders: reminders,
		Calendar:  service.NewCalendarService(tasks, reminders),
	}
}

// Setup registers all routes on the given engine.
func Setup(r *gin.Engine, cfg config.Config, s Services) {
	r.GET("/", rootHandler(cfg))
	r.GET("/health", healthHandler(cfg))
	r.GET("/version", versionHandler(cfg))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(302, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
		ginSwagger.PersistAuthorization(true),
	))

	api := r.Group("/api/v1")

	authHandler := handlers.NewAuthHandler(s.Sessions, s.Users)
	registerAuthRoutes(api, authHandler)

	protected := api.Group("", auth.RequireSession(s.Sessions))
	protected.GET("/auth/me", authHandler.Me)
	registerTaskRoutes(protected, handlers.NewTaskHandler(s.Tasks))
	registerReminderRoutes(protected, handlers.NewReminderHandler(s.Reminders))
	protected.GET("/calendar.ics", handlers.NewCalendarHandler(s.Calendar).Export)
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service": "Planner API",
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
			"docs":    "/swagger/index.html",
			"spec":    "/swagger-doc.json",
			"health":  "/health",
			"api":     "/api/v1",
		})
	}
}

func healthHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true, "env": cfg.App.Env})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		c.Data(200, "application/json; charset=utf-8", []byte(doc))
	}
}

func registerTaskRoutes(api *gin.RouterGroup, h *handlers.TaskHandler) {
	api.POST("/tasks", h.Create)
	api.GET("/tasks", h.List)
	api.GET("/tasks/day", h.Day)
	api.GET("/tasks/range", h.Range)
	api.GET("/tasks/:id", h.GetByID)
	api.PATCH("/tasks/:id", h.Update)
	api.DELETE("/tasks/:id", h.Delete)
	api.GET("/tasks/:id/occurrences", h.Occurrences)
	api.DELETE("/tasks/:id/instances/:date", h.DeleteInstance)
	api.POST("/tasks/:id/complete", h.Complete)
}

func registerReminderRoutes(api *gin.RouterGroup, h *handlers.ReminderHandler) {
	api.POST("/reminders", h.Create)
	api.GET("/reminders", h.List)
	api.GET("/reminders/day", h.Day)
	api.GET("/reminders/range", h.Range)
	api.GET("/reminders/:id", h.GetByID)
	api.PATCH("/reminders/:id", h.Update)
	api.DELETE("/reminders/:id", h.Delete)
	api.GET("/reminders/:id/occurrences", h.Occurrences)
	api.DELETE("/reminders/:id/instances/:date", h.DeleteInstance)
}

func registerAuthRoutes(api *gin.RouterGroup, h *handlers.AuthHandler) {
	api.POST("/auth/login", h.Login)
	api.POST("/auth/register", h.Register)
	api.POST("/auth/logout", h.Logout)
}
