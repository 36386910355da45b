package chart

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"github.com/ougirez/keuda/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleChart(kind domain.TraceKind) *domain.Chart {
	return &domain.Chart{
		Title:      "Ratio X",
		XAxisTitle: domain.AxisTitleYear,
		YAxisTitle: domain.AxisTitleValue,
		Traces: []domain.Trace{
			{Name: domain.ReferenceTraceName, Kind: domain.TraceReference, Color: domain.ReferenceTraceColor, Dashed: true, X: []domain.Year{2021, 2022}, Y: []float64{4.5, 5}},
			{Name: "EntityA", Kind: kind, Color: "#636EFA", X: []domain.Year{2021}, Y: []float64{5.2}},
			{Name: "EntityB", Kind: kind, Color: "#EF553B", X: []domain.Year{2021, 2023}, Y: []float64{6.5, 7}},
		},
		Annotations: []domain.Annotation{{Entity: "EntityA", X: 2022, Y: 0, Text: "EntityA: tidak WTP"}},
	}
}

func decode(t *testing.T, b []byte) {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(b))
	require.NoError(t, err)
	assert.Greater(t, img.Bounds().Dx(), 0)
}

func TestRender_AllKinds(t *testing.T) {
	for _, kind := range []domain.TraceKind{domain.TraceLine, domain.TraceBar, domain.TraceArea} {
		t.Run(string(kind), func(t *testing.T) {
			b, err := Render(sampleChart(kind), Options{})
			require.NoError(t, err)
			decode(t, b)
		})
	}
}

func TestRender_OnlyAnnotations(t *testing.T) {
	c := sampleChart(domain.TraceLine)
	c.Traces = nil

	b, err := Render(c, Options{})
	require.NoError(t, err)
	decode(t, b)
}

func TestBuildPlot_AreaStartsAtZero(t *testing.T) {
	c := sampleChart(domain.TraceArea)
	c.Annotations = nil

	p, err := buildPlot(c)
	require.NoError(t, err)
	assert.Equal(t, 0.0, p.Y.Min)

	c = sampleChart(domain.TraceLine)
	c.Annotations = nil

	p, err = buildPlot(c)
	require.NoError(t, err)
	assert.Equal(t, 4.5, p.Y.Min, "line charts keep the data range")
}

func TestRender_BadColor(t *testing.T) {
	c := sampleChart(domain.TraceLine)
	c.Traces[1].Color = "blue-ish"

	_, err := Render(c, Options{})
	assert.Error(t, err)
}

func TestRenderPlaceholder(t *testing.T) {
	b, err := RenderPlaceholder(&domain.Placeholder{
		Kind:    domain.PlaceholderNoneSelected,
		Message: "Silakan pilih minimal satu pemerintah daerah untuk menampilkan grafik.",
	}, Options{Width: DefaultWidth / 2, Height: DefaultHeight / 2})
	require.NoError(t, err)
	decode(t, b)
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#636EFA")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 0x63, G: 0x6e, B: 0xfa, A: 0xff}, c)

	c, err = ParseColor("rgba(200, 200, 200, 0.8)")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 200, G: 200, B: 200, A: 204}, c)

	c, err = ParseColor("rgb(27,158,119)")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 27, G: 158, B: 119, A: 0xff}, c)

	for _, bad := range []string{"", "#12345", "rgb(1,2)", "rgb(300,0,0)", "rgba(1,2,3,2)"} {
		_, err := ParseColor(bad)
		assert.Error(t, err, bad)
	}
}

func TestYearTicks(t *testing.T) {
	ticks := yearTicks{}.Ticks(2020.5, 2023.2)
	var labels []string
	for _, tk := range ticks {
		labels = append(labels, tk.Label)
	}
	assert.Equal(t, []string{"2021", "2022", "2023"}, labels)

	assert.LessOrEqual(t, len(yearTicks{}.Ticks(1900, 2024)), 16)
}
