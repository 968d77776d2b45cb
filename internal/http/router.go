package httpserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"event_org/internal/auth"
	"event_org/internal/http/handlers"
	"event_org/internal/http/middleware"
	"event_org/internal/http/response"
	"event_org/internal/models"
	"event_org/internal/rbac"
)

type RouterConfig struct {
	CORSAllowedOrigins []string
}

// NewRouter mounts every route on a fresh engine. Request id runs first so
// everything after it can log the id; logging and metrics wrap recovery so a
// panicking request is still logged and counted as a 500.
func NewRouter(d *handlers.Deps, cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(d.Log.Named("http")))
	r.Use(middleware.Metrics())
	r.Use(middleware.Recovery(d.Log))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "Route not found")
	})

	r.GET("/health", func(c *gin.Context) {
		response.OK(c, "", gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authMW := auth.JWT(d.Tokens, d.Users)
	chk := rbac.Checker{Roles: d.Users}

	orgs := r.Group("/organizations")
	{
		orgs.GET("/all", handlers.ListOrganizations(d))
		orgs.GET("/:id", handlers.GetOrganization(d))
		orgs.GET("/:id/members", handlers.ListOrganizationMembers(d))
		orgs.POST("/add", handlers.CreateOrganization(d))
		orgs.PUT("/update/:id", handlers.UpdateOrganization(d))
		orgs.DELETE("/delete/:id", handlers.DeleteOrganization(d))
		orgs.PUT("/addUser", handlers.AddUserToOrganization(d))
	}

	users := r.Group("/users")
	{
		users.POST("/register", handlers.RegisterUser(d))
		users.POST("/login", handlers.LoginHandler(d))
		users.GET("/profile", authMW, handlers.GetProfile(d))
		users.PUT("/profile", authMW, handlers.UpdateProfile(d))
		users.GET("", handlers.ListUsers(d))
		users.GET("/:id", handlers.GetUser(d))
		users.PUT("/:id", authMW, handlers.UpdateUser(d))
		users.DELETE("/:id", authMW, handlers.DeleteUser(d))
	}

	roles := r.Group("/roles")
	{
		roles.GET("/all", handlers.ListRoles(d))
		roles.POST("/create", authMW, rbac.Require(chk, models.RoleAdmin), handlers.CreateRole(d))
	}

	events := r.Group("/events")
	{
		events.GET("/all", handlers.ListEvents(d))
		events.GET("/get/:id", handlers.GetEvent(d))
		events.POST("/create", handlers.CreateEvent(d))
		events.PUT("/update/:id", handlers.UpdateEvent(d))
		events.DELETE("/delete/:id", handlers.DeleteEvent(d))
	}

	r.GET("/audit", authMW, rbac.Require(chk, models.RoleAdmin), handlers.ListAudit(d))

	return r
}

// NewServer wraps the engine with the configured timeouts.
func NewServer(addr string, h http.Handler, read, write time.Duration, log *zap.Logger) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadTimeout:       read,
		ReadHeaderTimeout: read,
		WriteTimeout:      write,
		ErrorLog:          zap.NewStdLog(log.Named("http_server")),
	}
}
