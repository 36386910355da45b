package indicator

import (
	"fmt"

	"github.com/ougirez/keuda/internal/domain"
	"github.com/ougirez/keuda/internal/pkg/constants"
)

var traceKinds = map[domain.ChartType]domain.TraceKind{
	domain.ChartLine: domain.TraceLine,
	domain.ChartBar:  domain.TraceBar,
	domain.ChartArea: domain.TraceArea,
}

// Partition splits observations into those with a numeric value and those holding text.
// Every observation lands in exactly one of the two.
func Partition(obs []domain.Observation) (numeric, text []domain.Observation) {
	for _, o := range obs {
		if _, ok := o.Numeric(); ok {
			numeric = append(numeric, o)
		} else {
			text = append(text, o)
		}
	}
	return numeric, text
}

// BuildChart turns filtered rows into traces and annotations. The cluster median, when
// present, comes first so it is drawn behind the entity traces.
func BuildChart(f domain.Filtered) (*domain.Chart, error) {
	sel := f.Selection

	chartType := sel.ChartType
	if chartType == "" {
		chartType = domain.ChartLine
	}
	kind, ok := traceKinds[chartType]
	if !ok {
		return nil, fmt.Errorf("%w: unknown chart type %q", constants.ErrBadRequest, sel.ChartType)
	}
	colors, ok := domain.Palette(sel.Palette)
	if !ok {
		return nil, fmt.Errorf("%w: unknown palette %q", constants.ErrBadRequest, sel.Palette)
	}

	title := f.Indicator.Name
	if title == "" {
		title = sel.Indicator
	}

	chart := &domain.Chart{
		Title:       title,
		XAxisTitle:  domain.AxisTitleYear,
		YAxisTitle:  domain.AxisTitleValue,
		Type:        chartType,
		Traces:      make([]domain.Trace, 0, len(f.Entities)+1),
		Annotations: make([]domain.Annotation, 0),
	}

	if ref, ok := referenceTrace(f.Statistics); ok {
		chart.Traces = append(chart.Traces, ref)
	}

	byEntity := make(map[string][]domain.Observation, len(f.Entities))
	for _, o := range f.Observations {
		byEntity[o.EntityKey] = append(byEntity[o.EntityKey], o)
	}

	for i, e := range f.Entities {
		numeric, text := Partition(byEntity[e.Key])

		for _, o := range text {
			chart.Annotations = append(chart.Annotations, domain.Annotation{
				Entity: e.Name,
				X:      o.Year,
				Y:      0,
				Text:   fmt.Sprintf("%s: %s", e.Name, o.Raw),
			})
		}

		if len(numeric) == 0 {
			continue
		}
		trace := domain.Trace{
			Name:  e.Name,
			Kind:  kind,
			Color: domain.PaletteColor(colors, i),
			X:     make([]domain.Year, 0, len(numeric)),
			Y:     make([]float64, 0, len(numeric)),
		}
		for _, o := range numeric {
			v, _ := o.Numeric()
			trace.X = append(trace.X, o.Year)
			trace.Y = append(trace.Y, v.InexactFloat64())
		}
		chart.Traces = append(chart.Traces, trace)
	}

	return chart, nil
}

func referenceTrace(stats []domain.ClusterStatistic) (domain.Trace, bool) {
	ref := domain.Trace{
		Name:   domain.ReferenceTraceName,
		Kind:   domain.TraceReference,
		Color:  domain.ReferenceTraceColor,
		Dashed: true,
	}
	for _, s := range stats {
		if !s.Median.Valid {
			continue
		}
		ref.X = append(ref.X, s.Year)
		ref.Y = append(ref.Y, s.Median.Decimal.InexactFloat64())
	}
	return ref, len(ref.X) > 0
}
