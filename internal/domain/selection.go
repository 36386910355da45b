package domain

type ChartType string

const (
	ChartLine ChartType = "line"
	ChartBar  ChartType = "bar"
	ChartArea ChartType = "area"
)

var ChartTypes = []ChartType{ChartLine, ChartBar, ChartArea}

var chartTypeLabels = map[ChartType]string{
	ChartLine: "Garis",
	ChartBar:  "Batang",
	ChartArea: "Area",
}

func (t ChartType) Label() string {
	return chartTypeLabels[t]
}

// ParseChartType accepts the chart code or its Indonesian label. Empty means line.
func ParseChartType(s string) (ChartType, bool) {
	switch Key(s) {
	case "", "line", "garis":
		return ChartLine, true
	case "bar", "batang":
		return ChartBar, true
	case "area":
		return ChartArea, true
	}
	return "", false
}

// Selection is everything the user picked on one dashboard tab. It is passed by value
// through the pipeline and never mutated.
type Selection struct {
	Level     Level
	Theme     Theme
	Indicator string
	Cluster   string
	Entities  []string
	ChartType ChartType
	Palette   string
}

// WithEntities returns a copy of s with its own entity slice.
func (s Selection) WithEntities(entities ...string) Selection {
	s.Entities = append([]string(nil), entities...)
	return s
}
