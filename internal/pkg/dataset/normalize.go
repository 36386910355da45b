package dataset

import (
	"context"
	"fmt"

	"github.com/ougirez/keuda/internal/domain"
	"github.com/ougirez/keuda/internal/pkg/constants"
	"github.com/ougirez/keuda/internal/pkg/logger"
	"github.com/shopspring/decimal"
)

// Normalize validates the workbook against the schema and converts it into typed records
// with folded lookup keys. Any missing table or column fails the whole load.
func Normalize(ctx context.Context, wb *Workbook, schema Schema) (*domain.Dataset, error) {
	n := &normalizer{ctx: ctx, schema: schema, wb: wb}

	ds := &domain.Dataset{
		Version: wb.Version,
		Trends:  make(map[domain.PairKey]domain.TrendFlag),
	}

	var err error
	if ds.Entities, err = n.entities(); err != nil {
		return nil, err
	}
	if ds.Definitions, err = n.definitions(); err != nil {
		return nil, err
	}
	if ds.Observations, err = n.observations(); err != nil {
		return nil, err
	}
	if ds.Statistics, err = n.statistics(); err != nil {
		return nil, err
	}
	if ds.Trends, err = n.trends(); err != nil {
		return nil, err
	}

	return ds, nil
}

type normalizer struct {
	ctx    context.Context
	schema Schema
	wb     *Workbook
}

func (n *normalizer) table(name string) (*RawTable, columns, error) {
	t, ok := n.wb.Table(name)
	if !ok {
		return nil, nil, fmt.Errorf("%w: table %q not found", constants.ErrMissingDataSource, name)
	}
	return t, t.columns(), nil
}

// requireColumns resolves the named columns of t, failing on the first one that is absent.
func requireColumns(t *RawTable, cols columns, names ...string) ([]int, error) {
	idx := make([]int, len(names))
	for i, name := range names {
		j, ok := cols.find(name)
		if !ok {
			return nil, fmt.Errorf("%w: %w: table %q has no column %q",
				constants.ErrMissingDataSource, constants.ErrSchemaMismatch, t.Name, name)
		}
		idx[i] = j
	}
	return idx, nil
}

// optional resolves a column that may be absent; -1 makes cell return "".
func optional(cols columns, name string) int {
	if name == "" {
		return -1
	}
	if j, ok := cols.find(name); ok {
		return j
	}
	return -1
}

func rowError(t *RawTable, row int, column, format string, args ...interface{}) error {
	return fmt.Errorf("%w: table %q row %d column %q: %s",
		constants.ErrSchemaMismatch, t.Name, row+2, column, fmt.Sprintf(format, args...))
}

func (n *normalizer) level(raw string) (domain.Level, bool) {
	k := domain.Key(raw)
	for alias, code := range n.schema.LevelAliases {
		if domain.Key(alias) == k {
			return domain.ParseLevel(code)
		}
	}
	return domain.ParseLevel(raw)
}

// clusterID canonicalizes cluster identifiers so that 3, "3" and 3.0 join.
func clusterID(raw string) string {
	if d, err := decimal.NewFromString(raw); err == nil && d.Equal(d.Truncate(0)) {
		return d.Truncate(0).String()
	}
	return domain.Clean(raw)
}

func parseYear(raw string) (domain.Year, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, err
	}
	if !d.Equal(d.Truncate(0)) {
		return 0, fmt.Errorf("%s is not a whole year", raw)
	}
	return domain.Year(d.IntPart()), nil
}

func (n *normalizer) entities() ([]domain.Entity, error) {
	s := n.schema.Info
	t, cols, err := n.table(s.Table)
	if err != nil {
		return nil, err
	}

	if _, long := cols.find(s.Level); long || len(s.Wide) == 0 {
		return n.longEntities(t, cols)
	}
	return n.wideEntities(t, cols)
}

func (n *normalizer) longEntities(t *RawTable, cols columns) ([]domain.Entity, error) {
	s := n.schema.Info
	idx, err := requireColumns(t, cols, s.Name, s.Level, s.Cluster)
	if err != nil {
		return nil, err
	}

	acc := newEntitySet()
	for i, row := range t.Rows {
		name := cell(row, idx[0])
		if name == "" {
			continue
		}
		level, ok := n.level(cell(row, idx[1]))
		if !ok {
			return nil, rowError(t, i, s.Level, "unknown level %q", cell(row, idx[1]))
		}
		acc.add(name, level, cell(row, idx[2]))
	}

	return acc.list, nil
}

// wideEntities reshapes an info table holding one column group per level into one
// record per (entity, level).
func (n *normalizer) wideEntities(t *RawTable, cols columns) ([]domain.Entity, error) {
	type group struct {
		level         domain.Level
		name, cluster int
	}

	groups := make([]group, 0, len(n.schema.Info.Wide))
	for _, g := range n.schema.Info.Wide {
		level, ok := n.level(g.Level)
		if !ok {
			return nil, fmt.Errorf("%w: wide group level %q is not a known level", constants.ErrSchemaMismatch, g.Level)
		}
		idx, err := requireColumns(t, cols, g.Name, g.Cluster)
		if err != nil {
			return nil, err
		}
		groups = append(groups, group{level: level, name: idx[0], cluster: idx[1]})
	}

	acc := newEntitySet()
	for _, g := range groups {
		for _, row := range t.Rows {
			if name := cell(row, g.name); name != "" {
				acc.add(name, g.level, cell(row, g.cluster))
			}
		}
	}

	return acc.list, nil
}

type entitySet struct {
	seen map[string]struct{}
	list []domain.Entity
}

func newEntitySet() *entitySet {
	return &entitySet{seen: make(map[string]struct{})}
}

func (s *entitySet) add(name string, level domain.Level, cluster string) {
	key := domain.Key(name)
	if _, dup := s.seen[string(level)+"\x00"+key]; dup {
		return
	}
	s.seen[string(level)+"\x00"+key] = struct{}{}

	cluster = clusterID(cluster)
	s.list = append(s.list, domain.Entity{
		Name:       domain.Clean(name),
		Key:        key,
		Level:      level,
		Cluster:    cluster,
		ClusterKey: domain.Key(cluster),
	})
}

func (n *normalizer) definitions() ([]domain.IndicatorDefinition, error) {
	s := n.schema.Parameters
	t, cols, err := n.table(s.Table)
	if err != nil {
		return nil, err
	}
	idx, err := requireColumns(t, cols, s.Indicator, s.Theme)
	if err != nil {
		return nil, err
	}
	def, exp, formula := optional(cols, s.Definition), optional(cols, s.ExpectedValue), optional(cols, s.Formula)

	out := make([]domain.IndicatorDefinition, 0, len(t.Rows))
	seen := make(map[string]struct{}, len(t.Rows))
	for i, row := range t.Rows {
		name := cell(row, idx[0])
		if name == "" {
			continue
		}
		theme, ok := domain.ParseTheme(cell(row, idx[1]))
		if !ok {
			return nil, rowError(t, i, s.Theme, "unknown theme %q", cell(row, idx[1]))
		}
		key := domain.Key(name)
		if _, dup := seen[key]; dup {
			logger.Warnf(n.ctx, "duplicate indicator definition %q in table %q, keeping the first", name, t.Name)
			continue
		}
		seen[key] = struct{}{}

		out = append(out, domain.IndicatorDefinition{
			Name:          domain.Clean(name),
			Key:           key,
			Theme:         theme,
			Definition:    cell(row, def),
			ExpectedValue: cell(row, exp),
			Formula:       cell(row, formula),
		})
	}

	return out, nil
}

func (n *normalizer) observations() ([]domain.Observation, error) {
	s := n.schema.Observations
	t, cols, err := n.table(s.Table)
	if err != nil {
		return nil, err
	}
	idx, err := requireColumns(t, cols, s.Entity, s.Indicator, s.Year, s.Value)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Observation, 0, len(t.Rows))
	for i, row := range t.Rows {
		if blankRow(row) {
			continue
		}
		entity, indicator := cell(row, idx[0]), cell(row, idx[1])
		if entity == "" || indicator == "" {
			logger.Debugf(n.ctx, "skipping row %d of %q without entity or indicator", i+2, t.Name)
			continue
		}
		year, err := parseYear(cell(row, idx[2]))
		if err != nil {
			return nil, rowError(t, i, s.Year, "%v", err)
		}

		out = append(out, domain.Observation{
			Entity:       domain.Clean(entity),
			EntityKey:    domain.Key(entity),
			Indicator:    domain.Clean(indicator),
			IndicatorKey: domain.Key(indicator),
			Year:         year,
			Raw:          cell(row, idx[3]),
		})
	}

	return out, nil
}

func (n *normalizer) statistics() ([]domain.ClusterStatistic, error) {
	s := n.schema.Statistics
	t, cols, err := n.table(s.Table)
	if err != nil {
		return nil, err
	}
	idx, err := requireColumns(t, cols, s.Cluster, s.Indicator, s.Level, s.Year, s.Median)
	if err != nil {
		return nil, err
	}
	minIdx, maxIdx := optional(cols, s.Min), optional(cols, s.Max)

	out := make([]domain.ClusterStatistic, 0, len(t.Rows))
	for i, row := range t.Rows {
		if blankRow(row) {
			continue
		}
		level, ok := n.level(cell(row, idx[2]))
		if !ok {
			return nil, rowError(t, i, s.Level, "unknown level %q", cell(row, idx[2]))
		}
		year, err := parseYear(cell(row, idx[3]))
		if err != nil {
			return nil, rowError(t, i, s.Year, "%v", err)
		}

		cluster := clusterID(cell(row, idx[0]))
		out = append(out, domain.ClusterStatistic{
			Cluster:      cluster,
			ClusterKey:   domain.Key(cluster),
			Indicator:    domain.Clean(cell(row, idx[1])),
			IndicatorKey: domain.Key(cell(row, idx[1])),
			Level:        level,
			Year:         year,
			Min:          n.nullDecimal(t, i, cell(row, minIdx)),
			Max:          n.nullDecimal(t, i, cell(row, maxIdx)),
			Median:       n.nullDecimal(t, i, cell(row, idx[4])),
		})
	}

	return out, nil
}

func (n *normalizer) nullDecimal(t *RawTable, row int, raw string) decimal.NullDecimal {
	if raw == "" {
		return decimal.NullDecimal{}
	}
	d, ok := domain.ParseNumber(raw)
	if !ok {
		logger.Warnf(n.ctx, "table %q row %d: statistic %q is not a number, ignoring it", t.Name, row+2, raw)
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

func (n *normalizer) trends() (map[domain.PairKey]domain.TrendFlag, error) {
	s := n.schema.Trends
	t, cols, err := n.table(s.Table)
	if err != nil {
		return nil, err
	}
	idx, err := requireColumns(t, cols, s.Entity, s.Indicator, s.Value)
	if err != nil {
		return nil, err
	}

	out := make(map[domain.PairKey]domain.TrendFlag, len(t.Rows))
	for i, row := range t.Rows {
		entity, indicator := cell(row, idx[0]), cell(row, idx[1])
		if entity == "" || indicator == "" {
			continue
		}
		key := domain.PairKey{EntityKey: domain.Key(entity), IndicatorKey: domain.Key(indicator)}
		if _, dup := out[key]; dup {
			logger.Warnf(n.ctx, "table %q row %d: second trend flag for %s / %s ignored", t.Name, i+2, entity, indicator)
			continue
		}
		out[key] = domain.TrendFlag{
			Entity:    domain.Clean(entity),
			Indicator: domain.Clean(indicator),
			Raw:       cell(row, idx[2]),
		}
	}

	return out, nil
}
