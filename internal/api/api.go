package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/ougirez/keuda/internal/api/controller"
	"github.com/ougirez/keuda/internal/pkg/config"
	"github.com/ougirez/keuda/internal/pkg/logger"
)

type APIService struct {
	router *echo.Echo
}

// Serve blocks until the server stops. A shutdown is not an error.
func (svc *APIService) Serve(addr string) {
	if err := svc.router.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal(context.Background(), err)
	}
}

func (svc *APIService) Shutdown(ctx context.Context) error {
	return svc.router.Shutdown(ctx)
}

func (svc *APIService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	svc.router.ServeHTTP(w, r)
}

// NewAPIService builds the router. editor may be nil, then the admin dataset editing
// routes are left out and only the reload endpoint is guarded by the admin token.
func NewAPIService(cfg config.ServerConfig, indicators controller.IndicatorService, editor controller.EditorService) (*APIService, error) {
	svc := &APIService{router: echo.New()}
	svc.router.HideBanner = true

	uploadLimit, err := cfg.UploadLimitBytes()
	if err != nil {
		return nil, err
	}

	svc.router.Validator = NewValidator()
	svc.router.Binder = NewBinder()
	svc.router.JSONSerializer = sonicSerializer{}
	svc.router.HTTPErrorHandler = httpErrorHandler
	svc.router.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator:        uuid.NewString,
		RequestIDHandler: requestLogger,
	}))
	svc.router.Use(middleware.Logger())
	svc.router.Use(middleware.Recover())
	svc.router.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: []string{echo.GET, echo.PUT, echo.POST},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	svc.router.Use(middleware.BodyLimit(cfg.UploadLimit))

	api := svc.router.Group("/api/v1")
	cntrl := controller.NewController(indicators, editor, uploadLimit)

	options := api.Group("/options")
	options.GET("/levels", cntrl.GetLevels)
	options.GET("/themes", cntrl.GetThemes)
	options.GET("/chart-types", cntrl.GetChartTypes)
	options.GET("/palettes", cntrl.GetPalettes)
	options.GET("/indicators", cntrl.GetIndicators)
	options.GET("/clusters", cntrl.GetClusters)
	options.GET("/entities", cntrl.GetEntities)

	api.GET("/directory", cntrl.GetDirectory)
	api.GET("/indicators/description", cntrl.GetDescription)

	dashboard := api.Group("/dashboard")
	dashboard.GET("", cntrl.GetDashboard)
	dashboard.GET("/chart.png", cntrl.GetDashboardChart)

	api.POST("/dataset/reload", cntrl.ReloadDataset, svc.AdminMiddleware)

	if editor != nil {
		admin := api.Group("/admin", svc.AdminMiddleware)
		admin.GET("/dataset", cntrl.GetDatasetSnapshot)
		admin.GET("/dataset/backup", cntrl.GetDatasetBackup)
		admin.PUT("/dataset", cntrl.PutDataset)
		admin.PUT("/dataset/tables/:table", cntrl.PutDatasetTable)
	}

	return svc, nil
}
