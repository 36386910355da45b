package domain

const (
	ReferenceTraceName  = "Profil Pemda Setara"
	ReferenceTraceColor = "rgba(200, 200, 200, 0.8)"

	AxisTitleYear  = "Tahun"
	AxisTitleValue = "Nilai"
)

type TraceKind string

const (
	TraceLine      TraceKind = "line"
	TraceBar       TraceKind = "bar"
	TraceArea      TraceKind = "area"
	TraceReference TraceKind = "reference"
)

type Trace struct {
	Name   string    `json:"name"`
	Kind   TraceKind `json:"kind"`
	Color  string    `json:"color"`
	Dashed bool      `json:"dashed,omitempty"`
	X      []Year    `json:"x"`
	Y      []float64 `json:"y"`
}

// Annotation marks a text observation on the x axis.
type Annotation struct {
	Entity string  `json:"entity"`
	X      Year    `json:"x"`
	Y      float64 `json:"y"`
	Text   string  `json:"text"`
}

type Chart struct {
	Title       string       `json:"title"`
	XAxisTitle  string       `json:"x_axis_title"`
	YAxisTitle  string       `json:"y_axis_title"`
	Type        ChartType    `json:"type"`
	Traces      []Trace      `json:"traces"`
	Annotations []Annotation `json:"annotations"`
}

type PlaceholderKind string

const (
	PlaceholderIncomplete   PlaceholderKind = "incomplete_selection"
	PlaceholderNoneSelected PlaceholderKind = "no_entity_selected"
)

// Placeholder replaces the chart when the selection cannot be plotted yet.
type Placeholder struct {
	Kind    PlaceholderKind `json:"kind"`
	Message string          `json:"message"`
}

// Filtered is the Filter Selector output.
type Filtered struct {
	Selection    Selection
	Indicator    IndicatorDefinition
	Entities     []Entity
	Observations []Observation
	Statistics   []ClusterStatistic
}

type Dashboard struct {
	Placeholder *Placeholder         `json:"placeholder,omitempty"`
	Chart       *Chart               `json:"chart,omitempty"`
	Trends      []TrendVerdict       `json:"trends,omitempty"`
	Description *IndicatorDefinition `json:"description,omitempty"`
	Version     string               `json:"version,omitempty"`
}
