package indicator

import (
	"fmt"

	"github.com/ougirez/keuda/internal/domain"
)

type trendTemplate struct {
	title   string
	message string
}

var trendTemplates = map[domain.TrendLabel]trendTemplate{
	domain.TrendFavorable: {
		title:   "Baik/Diharapkan (Favorable)",
		message: "Indikator %s pada %s menunjukkan tren kenaikan pada 3 tahun terakhir.",
	},
	domain.TrendUncertain: {
		title:   "Tidak Pasti (Uncertain)",
		message: "Indikator %s pada %s menunjukkan tren fluktuasi (naik dan turun) pada 3 tahun terakhir.",
	},
	domain.TrendUnfavorable: {
		title:   "Tidak Baik/Tidak Diharapkan (Unfavorable)",
		message: "Indikator %s pada %s menunjukkan tren penurunan pada 3 tahun terakhir.",
	},
}

const msgTrendUnavailable = "Analisis tren untuk %s pada indikator ini tidak tersedia."

// Lookup classifies the trend flag of an entity for an indicator.
func Lookup(ds *domain.Dataset, entity, indicator string) domain.TrendLabel {
	flag, ok := ds.Trends[domain.PairKey{EntityKey: domain.Key(entity), IndicatorKey: domain.Key(indicator)}]
	if !ok {
		return domain.TrendNoData
	}
	return domain.ParseTrendLabel(flag.Raw)
}

// Verdict renders the sentence for a trend label.
func Verdict(entity, indicator string, label domain.TrendLabel) domain.TrendVerdict {
	v := domain.TrendVerdict{Entity: entity, Indicator: indicator, Label: label}

	tmpl, ok := trendTemplates[label]
	if !ok {
		v.Label = domain.TrendNoData
		v.Message = fmt.Sprintf(msgTrendUnavailable, entity)
		return v
	}
	v.Title = tmpl.title
	v.Message = fmt.Sprintf(tmpl.message, indicator, entity)
	return v
}

// Trends annotates every selected entity with its trend verdict for the selected indicator.
func Trends(f domain.Filtered, ds *domain.Dataset) []domain.TrendVerdict {
	indicator := f.Indicator.Name
	if indicator == "" {
		indicator = f.Selection.Indicator
	}

	out := make([]domain.TrendVerdict, 0, len(f.Entities))
	for _, e := range f.Entities {
		out = append(out, Verdict(e.Name, indicator, Lookup(ds, e.Name, indicator)))
	}
	return out
}
