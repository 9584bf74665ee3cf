package router

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	echoSwagger "github.com/swaggo/echo-swagger"

	"blogapi/internal/config"
	"blogapi/internal/handler"
	"blogapi/internal/logging"
)

// bodyLimit caps any request before the upload policies apply their own,
// tighter per-file limits.
const bodyLimit = "8M"

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	logger *logrus.Logger,
	authHandler *handler.AuthHandler,
	blogHandler *handler.BlogHandler,
	userHandler *handler.UserHandler,
) {
	e.Use(middleware.RequestID())
	e.Use(logging.RequestLogger(logger))
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(bodyLimit))

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Stored images are public; the staging area is not.
	files := e.Group("/uploads", hideStaging)
	files.Static("/", cfg.UploadDir)

	api := e.Group("/api")

	// Auth routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	// Blog routes
	api.GET("/blog", blogHandler.ListBlogs)
	api.POST("/blog/new", blogHandler.CreateBlog)
	api.GET("/blog/:id", blogHandler.GetBlog)
	api.PUT("/blog/edit/:id", blogHandler.UpdateBlog)
	api.DELETE("/blog/delete/:id", blogHandler.DeleteBlog)

	// User routes
	api.GET("/user/getuser/:id", userHandler.GetUser)
	api.PUT("/user/updateuser/:id", userHandler.UpdateUser)
	api.DELETE("/user/deleteuser/:id", userHandler.DeleteUser)
}

func hideStaging(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if strings.Contains(c.Request().URL.Path, "/.") {
			return echo.ErrNotFound
		}
		return next(c)
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
