package dataset

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ougirez/keuda/internal/domain"
	"github.com/ougirez/keuda/internal/pkg/logger"
	"golang.org/x/sync/singleflight"
)

// Load fetches the source and normalizes it against the schema.
func Load(ctx context.Context, src Source, schema Schema) (*domain.Dataset, error) {
	wb, err := src.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", src.Name(), err)
	}

	ds, err := Normalize(ctx, wb, schema)
	if err != nil {
		return nil, fmt.Errorf("normalize %s: %w", src.Name(), err)
	}
	ds.Source = src.Name()
	ds.LoadedAt = time.Now()

	logger.Infof(ctx, "loaded %s: %d entities, %d indicators, %d observations, %d statistics, %d trends",
		src.Name(), len(ds.Entities), len(ds.Definitions), len(ds.Observations), len(ds.Statistics), len(ds.Trends))
	return ds, nil
}

// Cache keeps the last successfully loaded dataset until Reload is called.
// Failed loads are not cached, so the next Get tries again.
type Cache struct {
	src    Source
	schema Schema

	mx    sync.RWMutex
	ds    *domain.Dataset
	group singleflight.Group
}

func NewCache(src Source, schema Schema) *Cache {
	return &Cache{src: src, schema: schema}
}

func (c *Cache) Get(ctx context.Context) (*domain.Dataset, error) {
	c.mx.RLock()
	ds := c.ds
	c.mx.RUnlock()
	if ds != nil {
		return ds, nil
	}
	return c.load(ctx)
}

// Reload drops the cached dataset and loads the source again.
func (c *Cache) Reload(ctx context.Context) (*domain.Dataset, error) {
	c.mx.Lock()
	c.ds = nil
	c.mx.Unlock()
	return c.load(ctx)
}

func (c *Cache) load(ctx context.Context) (*domain.Dataset, error) {
	v, err, _ := c.group.Do(c.src.Name(), func() (interface{}, error) {
		ds, err := Load(context.WithoutCancel(ctx), c.src, c.schema)
		if err != nil {
			logger.Errorf(ctx, "dataset load: %s", err.Error())
			return nil, err
		}

		c.mx.Lock()
		c.ds = ds
		c.mx.Unlock()
		return ds, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Dataset), nil
}
