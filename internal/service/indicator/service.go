package indicator

import (
	"context"
	"fmt"

	"github.com/ougirez/keuda/internal/domain"
	"github.com/ougirez/keuda/internal/pkg/constants"
	"github.com/ougirez/keuda/internal/pkg/logger"
)

// DatasetProvider hands out the current dataset; dataset.Cache implements it.
type DatasetProvider interface {
	Get(ctx context.Context) (*domain.Dataset, error)
	Reload(ctx context.Context) (*domain.Dataset, error)
}

type Service struct {
	datasets DatasetProvider
}

func NewService(datasets DatasetProvider) *Service {
	return &Service{datasets: datasets}
}

func (s *Service) dataset(ctx context.Context) (*domain.Dataset, error) {
	ds, err := s.datasets.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	return ds, nil
}

func (s *Service) Indicators(ctx context.Context, theme domain.Theme) ([]string, error) {
	ds, err := s.dataset(ctx)
	if err != nil {
		return nil, err
	}
	return Indicators(ds, theme), nil
}

func (s *Service) Clusters(ctx context.Context, level domain.Level) ([]string, error) {
	ds, err := s.dataset(ctx)
	if err != nil {
		return nil, err
	}
	return Clusters(ds, level), nil
}

func (s *Service) Entities(ctx context.Context, level domain.Level, cluster string) ([]string, error) {
	ds, err := s.dataset(ctx)
	if err != nil {
		return nil, err
	}
	return Entities(ds, level, cluster), nil
}

func (s *Service) Directory(ctx context.Context, level domain.Level, search string) ([]domain.DirectoryEntry, error) {
	ds, err := s.dataset(ctx)
	if err != nil {
		return nil, err
	}
	return Directory(ds, level, search), nil
}

func (s *Service) Describe(ctx context.Context, name string) (*domain.IndicatorDefinition, error) {
	ds, err := s.dataset(ctx)
	if err != nil {
		return nil, err
	}
	def, ok := Describe(ds, name)
	if !ok {
		return nil, fmt.Errorf("%w: indicator %q", constants.ErrNotFound, name)
	}
	return &def, nil
}

// Dashboard runs the whole pipeline for one selection: filter, build the chart and
// annotate trends. Incomplete selections yield a placeholder, not an error.
func (s *Service) Dashboard(ctx context.Context, sel domain.Selection) (*domain.Dashboard, error) {
	ds, err := s.dataset(ctx)
	if err != nil {
		return nil, err
	}

	out := &domain.Dashboard{Version: ds.Version}

	filtered, placeholder := Select(sel, ds)
	if filtered.Indicator.Name != "" {
		def := filtered.Indicator
		out.Description = &def
	}
	if placeholder != nil {
		logger.Debugf(ctx, "dashboard placeholder %s: %s", placeholder.Kind, placeholder.Message)
		out.Placeholder = placeholder
		return out, nil
	}

	out.Chart, err = BuildChart(filtered)
	if err != nil {
		return nil, err
	}
	out.Trends = Trends(filtered, ds)

	return out, nil
}

// Reload drops the cached dataset and loads it again from its source.
func (s *Service) Reload(ctx context.Context) (*domain.Dataset, error) {
	ds, err := s.datasets.Reload(ctx)
	if err != nil {
		return nil, fmt.Errorf("reload dataset: %w", err)
	}
	return ds, nil
}
