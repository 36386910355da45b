package indicator

import (
	"fmt"
	"sort"

	"github.com/ougirez/keuda/internal/domain"
)

const (
	msgIncomplete     = "Silakan lengkapi semua filter untuk menampilkan data."
	msgNoClusters     = "Tidak ada klaster untuk tingkat %s."
	msgEmptyCluster   = "Tidak ada pemerintah daerah pada klaster %s."
	msgSelectEntities = "Silakan pilih minimal satu pemerintah daerah untuk menampilkan grafik."
)

func incomplete(format string, args ...interface{}) *domain.Placeholder {
	return &domain.Placeholder{Kind: domain.PlaceholderIncomplete, Message: fmt.Sprintf(format, args...)}
}

// Select narrows the dataset to the rows the selection asks for. When the selection
// cannot be plotted it returns a placeholder instead. Select does not modify ds and
// returns equal output for equal input.
func Select(sel domain.Selection, ds *domain.Dataset) (domain.Filtered, *domain.Placeholder) {
	out := domain.Filtered{Selection: sel}

	if !sel.Level.Valid() || sel.Theme == "" || sel.Indicator == "" {
		return out, incomplete(msgIncomplete)
	}
	if len(Clusters(ds, sel.Level)) == 0 {
		return out, incomplete(msgNoClusters, sel.Level.Label())
	}
	if sel.Cluster == "" {
		return out, incomplete(msgIncomplete)
	}

	def, ok := ds.Definition(sel.Indicator)
	if !ok || def.Theme != sel.Theme {
		return out, incomplete(msgIncomplete)
	}

	out.Indicator = def

	members := Members(ds, sel.Level, sel.Cluster)
	if len(members) == 0 {
		return out, incomplete(msgEmptyCluster, sel.Cluster)
	}

	out.Entities = pick(members, sel.Entities)
	if len(out.Entities) == 0 {
		return out, &domain.Placeholder{Kind: domain.PlaceholderNoneSelected, Message: msgSelectEntities}
	}

	rank := make(map[string]int, len(out.Entities))
	for i, e := range out.Entities {
		rank[e.Key] = i
	}

	for _, o := range ds.Observations {
		if o.IndicatorKey != def.Key {
			continue
		}
		if _, ok := rank[o.EntityKey]; ok {
			out.Observations = append(out.Observations, o)
		}
	}
	sort.SliceStable(out.Observations, func(i, j int) bool {
		a, b := out.Observations[i], out.Observations[j]
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		return rank[a.EntityKey] < rank[b.EntityKey]
	})

	clusterKey := domain.Key(sel.Cluster)
	for _, s := range ds.Statistics {
		if s.ClusterKey == clusterKey && s.IndicatorKey == def.Key && s.Level == sel.Level {
			out.Statistics = append(out.Statistics, s)
		}
	}
	sort.SliceStable(out.Statistics, func(i, j int) bool {
		return out.Statistics[i].Year < out.Statistics[j].Year
	})

	return out, nil
}

// pick keeps the requested entities that belong to the cluster, in request order,
// without duplicates.
func pick(members []domain.Entity, requested []string) []domain.Entity {
	byKey := make(map[string]domain.Entity, len(members))
	for _, m := range members {
		byKey[m.Key] = m
	}

	out := make([]domain.Entity, 0, len(requested))
	seen := make(map[string]struct{}, len(requested))
	for _, name := range requested {
		k := domain.Key(name)
		m, ok := byKey[k]
		if !ok {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, m)
	}
	return out
}
