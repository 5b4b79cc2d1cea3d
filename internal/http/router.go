package http

import (
	"github.com/gin-gonic/gin"

	"github.com/bookfriends/server/internal/auth"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware())
	if cfg.SecureCookies {
		router.Use(auth.StrictTransportSecurityMiddleware())
	}

	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
	}
	if cfg.AuthMiddleware != nil {
		router.Use(cfg.AuthMiddleware.Handler())
	}

	// Health endpoints
	health := NewHealthController(cfg.Database, cfg.BookCache, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	api := router.Group("/api")

	// Writes act on the session user once accounts are enabled.
	var writeGuard gin.HandlerFunc = func(c *gin.Context) { c.Next() }
	if cfg.authEnabled() {
		writeGuard = cfg.AuthMiddleware.RequireAuth()

		users := NewUsersController(cfg.AuthService, cfg.SessionManager, cfg.LoginLimiter)
		userGroup := api.Group("/user")
		userGroup.POST("/register", users.Register)
		userGroup.POST("/login", users.Login)
		userGroup.POST("/logout", users.Logout)
		userGroup.GET("/me", writeGuard, users.Me)
		userGroup.PUT("/info", writeGuard, users.UpdateInfo)
		userGroup.PUT("/password", writeGuard, users.ChangePassword)
	}

	if cfg.Resolver != nil {
		books := NewBooksController(cfg.Resolver)
		api.GET("/book/:isbn", books.GetBook)
	}

	if cfg.Collections != nil {
		userBooks := NewUserBooksController(cfg.Collections)
		userBookGroup := api.Group("/userbook")
		userBookGroup.POST("/store", writeGuard, userBooks.Store)
		userBookGroup.POST("/unstore", writeGuard, userBooks.Unstore)
		userBookGroup.GET("/books", userBooks.Books)
	}

	if cfg.Dynamics != nil && cfg.authEnabled() {
		dyn := NewDynamicsController(cfg.Dynamics)
		dynamicGroup := api.Group("/dynamic")
		dynamicGroup.POST("", writeGuard, dyn.Publish)
		dynamicGroup.GET("", dyn.ListAll)
		dynamicGroup.GET("/user/:userId", dyn.ListByUser)
		dynamicGroup.GET("/:id", dyn.Get)
		dynamicGroup.POST("/:id/like", writeGuard, dyn.Like)
		dynamicGroup.DELETE("/:id", writeGuard, dyn.Delete)
	}

	return router
}
