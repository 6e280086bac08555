package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/bloghub/blog-api/docs"
	"github.com/bloghub/blog-api/internal/api/handler"
	"github.com/bloghub/blog-api/internal/api/middleware"
	"github.com/bloghub/blog-api/internal/core/domain"
	"github.com/bloghub/blog-api/internal/core/service"
	"github.com/bloghub/blog-api/internal/infrastructure/config"
	mongodb "github.com/bloghub/blog-api/internal/infrastructure/db/mongo"
	redisdb "github.com/bloghub/blog-api/internal/infrastructure/db/redis"
	"github.com/bloghub/blog-api/internal/pkg/token"
	"github.com/bloghub/blog-api/pkg/logger"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, codec *token.Codec, cfg *config.Config) *echo.Echo {
	log := logger.Get()

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log, cfg.Production())

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Secure())
	e.Use(echomiddleware.CORSWithConfig(corsConfig(cfg)))
	e.Use(echoprometheus.NewMiddleware("blog"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	blogRepo := mongodb.NewBlogRepository(db)
	sessions := redisdb.NewSessionStore(rdb)

	authService := service.NewAuthService(userRepo, sessions, codec, cfg.Session.TTL, log)
	userService := service.NewUserService(userRepo, log)
	blogService := service.NewBlogService(blogRepo, userRepo, log)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	blogHandler := handler.NewBlogHandler(blogService)

	authenticate := middleware.Authenticate(codec, sessions, authService)
	adminOnly := middleware.AuthorizeRoles(domain.RoleAdmin)

	// --- Auth routes ---
	auth := e.Group("/api/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh-token", authHandler.RefreshToken)
	auth.POST("/logout", authHandler.Logout)

	// --- User routes ---
	users := e.Group("/api/users", authenticate)
	users.GET("", userHandler.GetAll, adminOnly)
	users.GET("/:id", userHandler.GetByID)
	users.PUT("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete, adminOnly)

	// --- Blog routes ---
	blogs := e.Group("/api/blogs")
	blogs.GET("", blogHandler.GetAll)
	blogs.GET("/:id", blogHandler.GetByID)
	blogs.POST("", blogHandler.Create, authenticate)
	blogs.GET("/my/posts", blogHandler.GetMine, authenticate)
	blogs.PUT("/:id", blogHandler.Update, authenticate)
	blogs.DELETE("/:id", blogHandler.Delete, authenticate)

	// --- Observability and docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	return e
}

// corsConfig mirrors the frontend contract: the local dev origins plus an
// optional production origin, with the token headers exposed so browser
// clients can persist refreshed credentials.
func corsConfig(cfg *config.Config) echomiddleware.CORSConfig {
	origins := []string{"http://localhost:4200", "http://localhost:5000"}
	if cfg.FrontendURL != "" {
		origins = append(origins, cfg.FrontendURL)
	}
	return echomiddleware.CORSConfig{
		AllowOrigins:     origins,
		AllowCredentials: true,
		AllowMethods:     []string{echo.GET, echo.POST, echo.PUT, echo.DELETE, echo.PATCH, echo.OPTIONS},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization, middleware.HeaderRefreshToken},
		ExposeHeaders:    []string{echo.HeaderAuthorization, "X-Access-Token", middleware.HeaderRefreshToken, middleware.HeaderNewAccessToken},
		MaxAge:           86400,
	}
}
