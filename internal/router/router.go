package router

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/afero"
	echoSwagger "github.com/swaggo/echo-swagger"

	"postboard/internal/auth"
	"postboard/internal/config"
	"postboard/internal/handler"
	"postboard/internal/middleware"
	"postboard/internal/observability"
)

// Register wires routes and middleware. uploads is the filesystem the upload
// receiver writes to; its UploadDir is served read-only under /uploads.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	logger *slog.Logger,
	tokens *auth.JWTService,
	uploads afero.Fs,
	authHandler *handler.AuthHandler,
	postHandler *handler.PostHandler,
	commentHandler *handler.CommentHandler,
	adminHandler *handler.AdminHandler,
) {
	e.Use(echomw.RequestID())
	e.Use(observability.RequestLogger(logger))
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(observability.Metrics())

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", observability.Handler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.StaticFS("/uploads", afero.NewIOFS(afero.NewReadOnlyFs(afero.NewBasePathFs(uploads, cfg.UploadDir))))

	requireAuth := middleware.RequireAuth(tokens)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/posts/posts", postHandler.ListPosts)
	api.GET("/posts/:postId/comments", commentHandler.ListComments)

	// Authenticated routes
	api.POST("/posts/create", postHandler.CreatePost,
		requireAuth, echomw.BodyLimit(strconv.Itoa(cfg.MaxUploadMB)+"M"))
	api.POST("/posts/:postId/comments", commentHandler.AddComment, requireAuth)

	// Moderation routes
	admin := api.Group("/admin", requireAuth, middleware.Authorize(middleware.AdminPolicy(cfg.AdminRequireRole)))
	admin.GET("/posts", adminHandler.ListPosts)
	admin.DELETE("/posts/:postId", adminHandler.DeletePost)
	admin.DELETE("/comments/:commentId", adminHandler.DeleteComment)
	admin.GET("/users", adminHandler.ListUsers)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
