package controller

import (
	"context"

	"github.com/ougirez/keuda/internal/domain"
	"github.com/ougirez/keuda/internal/pkg/dataset"
)

type IndicatorService interface {
	Indicators(ctx context.Context, theme domain.Theme) ([]string, error)
	Clusters(ctx context.Context, level domain.Level) ([]string, error)
	Entities(ctx context.Context, level domain.Level, cluster string) ([]string, error)
	Directory(ctx context.Context, level domain.Level, search string) ([]domain.DirectoryEntry, error)
	Describe(ctx context.Context, name string) (*domain.IndicatorDefinition, error)
	Dashboard(ctx context.Context, sel domain.Selection) (*domain.Dashboard, error)
	Reload(ctx context.Context) (*domain.Dataset, error)
}

type EditorService interface {
	Snapshot(ctx context.Context) (*dataset.Workbook, error)
	Backup(ctx context.Context) ([]byte, string, error)
	ReplaceWorkbook(ctx context.Context, content []byte, version string) (string, error)
	ReplaceTable(ctx context.Context, table dataset.RawTable, version string) (string, error)
}

type Controller struct {
	service     IndicatorService
	editor      EditorService
	uploadLimit int64
}

// NewController wires the handlers. editor may be nil when no repository file is
// configured; the admin dataset handlers are not routed then.
func NewController(service IndicatorService, editor EditorService, uploadLimit int64) *Controller {
	return &Controller{service: service, editor: editor, uploadLimit: uploadLimit}
}
