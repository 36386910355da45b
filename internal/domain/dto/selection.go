package dto

import (
	"fmt"
	"strings"

	"github.com/ougirez/keuda/internal/domain"
	"github.com/ougirez/keuda/internal/pkg/constants"
)

// SelectionRequest is the dashboard query string. Every field may be left empty; an
// incomplete selection is answered with a placeholder.
type SelectionRequest struct {
	Level     string   `query:"level"`
	Theme     string   `query:"theme"`
	Indicator string   `query:"indicator" validate:"max=256"`
	Cluster   string   `query:"cluster" validate:"max=64"`
	Entities  []string `query:"entity" validate:"max=200,dive,max=256"`
	ChartType string   `query:"chart_type"`
	Palette   string   `query:"palette"`
}

// ToSelection checks the enumerated fields. Unknown values are a bad request, empty
// ones are passed on as empty.
func (r *SelectionRequest) ToSelection() (domain.Selection, error) {
	sel := domain.Selection{
		Indicator: domain.Clean(r.Indicator),
		Cluster:   domain.Clean(r.Cluster),
		Palette:   domain.Clean(r.Palette),
	}

	if strings.TrimSpace(r.Level) != "" {
		level, ok := domain.ParseLevel(r.Level)
		if !ok {
			return sel, fmt.Errorf("%w: unknown level %q", constants.ErrBadRequest, r.Level)
		}
		sel.Level = level
	}

	if strings.TrimSpace(r.Theme) != "" {
		theme, ok := domain.ParseTheme(r.Theme)
		if !ok {
			return sel, fmt.Errorf("%w: unknown theme %q", constants.ErrBadRequest, r.Theme)
		}
		sel.Theme = theme
	}

	chartType, ok := domain.ParseChartType(r.ChartType)
	if !ok {
		return sel, fmt.Errorf("%w: unknown chart type %q", constants.ErrBadRequest, r.ChartType)
	}
	sel.ChartType = chartType

	var entities []string
	for _, e := range r.Entities {
		if e = domain.Clean(e); e != "" {
			entities = append(entities, e)
		}
	}
	return sel.WithEntities(entities...), nil
}

// LevelRequest carries the optional level and cluster filters of the option lists.
type LevelRequest struct {
	Level   string `query:"level" validate:"required"`
	Cluster string `query:"cluster"`
	Search  string `query:"search" validate:"max=256"`
}

func (r *LevelRequest) ParseLevel() (domain.Level, error) {
	level, ok := domain.ParseLevel(r.Level)
	if !ok {
		return "", fmt.Errorf("%w: unknown level %q", constants.ErrBadRequest, r.Level)
	}
	return level, nil
}

type ThemeRequest struct {
	Theme string `query:"theme" validate:"required"`
}

func (r *ThemeRequest) ParseTheme() (domain.Theme, error) {
	theme, ok := domain.ParseTheme(r.Theme)
	if !ok {
		return "", fmt.Errorf("%w: unknown theme %q", constants.ErrBadRequest, r.Theme)
	}
	return theme, nil
}

type DescriptionRequest struct {
	Name string `query:"name" validate:"required"`
}
