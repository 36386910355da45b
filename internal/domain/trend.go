package domain

// TrendLabel is the precomputed qualitative verdict for an entity and indicator.
type TrendLabel string

const (
	TrendFavorable   TrendLabel = "favorable"
	TrendUncertain   TrendLabel = "uncertain"
	TrendUnfavorable TrendLabel = "unfavorable"
	TrendNoData      TrendLabel = "no_data"
)

var trendAliases = map[string]TrendLabel{
	"hijau":       TrendFavorable,
	"kuning":      TrendUncertain,
	"merah":       TrendUnfavorable,
	"favorable":   TrendFavorable,
	"uncertain":   TrendUncertain,
	"unfavorable": TrendUnfavorable,
}

// ParseTrendLabel classifies a raw flag value. Anything unrecognized is TrendNoData.
func ParseTrendLabel(raw string) TrendLabel {
	if l, ok := trendAliases[Key(raw)]; ok {
		return l
	}
	return TrendNoData
}

type TrendVerdict struct {
	Entity    string     `json:"entity"`
	Indicator string     `json:"indicator"`
	Label     TrendLabel `json:"label"`
	Title     string     `json:"title,omitempty"`
	Message   string     `json:"message"`
}
