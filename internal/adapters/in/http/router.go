package http

import (
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
)

const basePath = "/api/v1"

// RouterConfig holds what NewRouter needs besides the server itself.
type RouterConfig struct {
	Doc       *openapi3.T
	JWTSecret string
	Tenants   TenantResolver
}

// NewRouter builds the echo instance: health check, API docs and the
// authenticated, contract-validated API routes.
func NewRouter(server ServerInterface, cfg RouterConfig) (*echo.Echo, error) {
	validator, err := RequestValidator(cfg.Doc)
	if err != nil {
		return nil, err
	}
	if err := RegisterSwagger(cfg.Doc); err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = ErrorHandler
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group(basePath, JWTAuth(cfg.JWTSecret), ResolveTenant(cfg.Tenants), validator)
	RegisterHandlers(api, server, "")

	return e, nil
}
