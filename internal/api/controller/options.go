package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/keuda/internal/domain"
	"github.com/ougirez/keuda/internal/domain/dto"
)

func (c *Controller) GetLevels(ctx echo.Context) error {
	opts := make([]domain.Option, 0, len(domain.Levels))
	for _, l := range domain.Levels {
		opts = append(opts, domain.Option{Value: string(l), Label: l.Label()})
	}
	return ctx.JSON(http.StatusOK, opts)
}

func (c *Controller) GetThemes(ctx echo.Context) error {
	opts := make([]domain.Option, 0, len(domain.Themes))
	for _, t := range domain.Themes {
		opts = append(opts, domain.Option{Value: string(t), Label: t.Label()})
	}
	return ctx.JSON(http.StatusOK, opts)
}

func (c *Controller) GetChartTypes(ctx echo.Context) error {
	opts := make([]domain.Option, 0, len(domain.ChartTypes))
	for _, t := range domain.ChartTypes {
		opts = append(opts, domain.Option{Value: string(t), Label: t.Label()})
	}
	return ctx.JSON(http.StatusOK, opts)
}

func (c *Controller) GetPalettes(ctx echo.Context) error {
	opts := make([]domain.Option, 0, len(domain.PaletteNames))
	for _, name := range domain.PaletteNames {
		opts = append(opts, domain.Option{Value: name, Label: name})
	}
	return ctx.JSON(http.StatusOK, opts)
}

func (c *Controller) GetIndicators(ctx echo.Context) error {
	var req dto.ThemeRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	theme, err := req.ParseTheme()
	if err != nil {
		return err
	}

	names, err := c.service.Indicators(ctx.Request().Context(), theme)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, names)
}

func (c *Controller) GetClusters(ctx echo.Context) error {
	var req dto.LevelRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	level, err := req.ParseLevel()
	if err != nil {
		return err
	}

	clusters, err := c.service.Clusters(ctx.Request().Context(), level)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, clusters)
}

func (c *Controller) GetEntities(ctx echo.Context) error {
	var req dto.LevelRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	level, err := req.ParseLevel()
	if err != nil {
		return err
	}

	names, err := c.service.Entities(ctx.Request().Context(), level, req.Cluster)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, names)
}

func (c *Controller) GetDirectory(ctx echo.Context) error {
	var req dto.LevelRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	level, err := req.ParseLevel()
	if err != nil {
		return err
	}

	entries, err := c.service.Directory(ctx.Request().Context(), level, req.Search)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, entries)
}

func (c *Controller) GetDescription(ctx echo.Context) error {
	var req dto.DescriptionRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}

	def, err := c.service.Describe(ctx.Request().Context(), req.Name)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, def)
}
