package indicator

import (
	"sort"
	"strconv"
	"strings"

	"github.com/ougirez/keuda/internal/domain"
)

// Indicators lists the indicator names of a theme in definition order.
func Indicators(ds *domain.Dataset, theme domain.Theme) []string {
	out := make([]string, 0)
	for _, def := range ds.Definitions {
		if def.Theme == theme {
			out = append(out, def.Name)
		}
	}
	return out
}

// Clusters lists the non-blank cluster ids used at a level, sorted.
func Clusters(ds *domain.Dataset, level domain.Level) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, e := range ds.Entities {
		if e.Level != level || e.ClusterKey == "" {
			continue
		}
		if _, ok := seen[e.ClusterKey]; ok {
			continue
		}
		seen[e.ClusterKey] = struct{}{}
		out = append(out, e.Cluster)
	}
	sortClusters(out)
	return out
}

// sortClusters orders numeric ids numerically and puts them before other ids.
func sortClusters(ids []string) {
	sort.SliceStable(ids, func(i, j int) bool {
		a, aok := clusterNumber(ids[i])
		b, bok := clusterNumber(ids[j])
		switch {
		case aok && bok:
			return a < b
		case aok != bok:
			return aok
		default:
			return ids[i] < ids[j]
		}
	})
}

func clusterNumber(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	return n, err == nil
}

// Members returns the entities of a cluster at a level, sorted by name.
func Members(ds *domain.Dataset, level domain.Level, cluster string) []domain.Entity {
	key := domain.Key(cluster)
	out := make([]domain.Entity, 0)
	for _, e := range ds.Entities {
		if e.Level == level && e.ClusterKey == key && key != "" {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Entities lists the entity names of a cluster at a level, sorted.
func Entities(ds *domain.Dataset, level domain.Level, cluster string) []string {
	members := Members(ds, level, cluster)
	out := make([]string, len(members))
	for i, e := range members {
		out[i] = e.Name
	}
	return out
}

// Directory lists entities of a level with their cluster, optionally narrowed by a
// case-insensitive substring of the name.
func Directory(ds *domain.Dataset, level domain.Level, search string) []domain.DirectoryEntry {
	needle := domain.Key(search)
	out := make([]domain.DirectoryEntry, 0)
	for _, e := range ds.Entities {
		if e.Level != level {
			continue
		}
		if needle != "" && !strings.Contains(e.Key, needle) {
			continue
		}
		out = append(out, domain.DirectoryEntry{Name: e.Name, Cluster: e.Cluster})
	}
	return out
}

// Describe returns the definition of an indicator.
func Describe(ds *domain.Dataset, name string) (domain.IndicatorDefinition, bool) {
	return ds.Definition(name)
}
