package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/keuda/internal/domain"
	"github.com/ougirez/keuda/internal/domain/dto"
	"github.com/ougirez/keuda/internal/pkg/logger"
	"github.com/ougirez/keuda/internal/service/chart"
)

const mimeImagePNG = "image/png"

func (c *Controller) dashboard(ctx echo.Context) (*domain.Dashboard, error) {
	var req dto.SelectionRequest
	if err := ctx.Bind(&req); err != nil {
		return nil, err
	}

	sel, err := req.ToSelection()
	if err != nil {
		return nil, err
	}

	return c.service.Dashboard(ctx.Request().Context(), sel)
}

func (c *Controller) GetDashboard(ctx echo.Context) error {
	dashboard, err := c.dashboard(ctx)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, dashboard)
}

// GetDashboardChart renders the same dashboard as a PNG image. Placeholders are drawn
// as an empty plot carrying the message.
func (c *Controller) GetDashboardChart(ctx echo.Context) error {
	dashboard, err := c.dashboard(ctx)
	if err != nil {
		return err
	}

	var img []byte
	if dashboard.Placeholder != nil {
		img, err = chart.RenderPlaceholder(dashboard.Placeholder, chart.Options{})
	} else {
		img, err = chart.Render(dashboard.Chart, chart.Options{})
	}
	if err != nil {
		return err
	}

	logger.Debugf(ctx.Request().Context(), "rendered chart, %d bytes", len(img))
	if dashboard.Version != "" {
		ctx.Response().Header().Set("ETag", `"`+dashboard.Version+`"`)
	}
	return ctx.Blob(http.StatusOK, mimeImagePNG, img)
}
