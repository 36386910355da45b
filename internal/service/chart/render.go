package chart

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/ougirez/keuda/internal/domain"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const (
	DefaultWidth  = 12 * vg.Inch
	DefaultHeight = 6 * vg.Inch

	barWidth = vg.Points(14)
)

type Options struct {
	Width  vg.Length
	Height vg.Length
}

func (o Options) size() (vg.Length, vg.Length) {
	w, h := o.Width, o.Height
	if w <= 0 {
		w = DefaultWidth
	}
	if h <= 0 {
		h = DefaultHeight
	}
	return w, h
}

// Render draws a dashboard chart as PNG. Traces are drawn in order, so the reference
// trace that comes first ends up behind the entity traces.
func Render(c *domain.Chart, opts Options) ([]byte, error) {
	p, err := buildPlot(c)
	if err != nil {
		return nil, err
	}
	return encode(p, opts)
}

func buildPlot(c *domain.Chart) (*plot.Plot, error) {
	p := newPlot(c.Title)
	p.X.Label.Text = c.XAxisTitle
	p.Y.Label.Text = c.YAxisTitle
	p.X.Tick.Marker = yearTicks{}

	bars, area := 0, false
	for _, tr := range c.Traces {
		switch tr.Kind {
		case domain.TraceBar:
			bars++
		case domain.TraceArea:
			area = true
		}
	}

	barIdx := 0
	for _, tr := range c.Traces {
		col, err := ParseColor(tr.Color)
		if err != nil {
			return nil, fmt.Errorf("trace %s: %w", tr.Name, err)
		}

		switch tr.Kind {
		case domain.TraceBar:
			if err := addBars(p, tr, col, barOffset(barIdx, bars)); err != nil {
				return nil, err
			}
			barIdx++
		default:
			if err := addLine(p, tr, col); err != nil {
				return nil, err
			}
		}
	}

	if len(c.Annotations) > 0 {
		labels := plotter.XYLabels{
			XYs:    make(plotter.XYs, len(c.Annotations)),
			Labels: make([]string, len(c.Annotations)),
		}
		for i, a := range c.Annotations {
			labels.XYs[i] = plotter.XY{X: float64(a.X), Y: a.Y}
			labels.Labels[i] = a.Text
		}
		l, err := plotter.NewLabels(labels)
		if err != nil {
			return nil, fmt.Errorf("plotter.NewLabels: %w", err)
		}
		p.Add(l)
	}

	// gonum fills an area down to the axis minimum, so keep zero in range
	if area {
		p.Y.Min = math.Min(p.Y.Min, 0)
	}

	return p, nil
}

// RenderPlaceholder draws an empty chart carrying the placeholder message as its title.
func RenderPlaceholder(ph *domain.Placeholder, opts Options) ([]byte, error) {
	p := newPlot(ph.Message)
	p.HideAxes()
	return encode(p, opts)
}

func newPlot(title string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.Legend.Top = true
	p.Add(plotter.NewGrid())
	return p
}

func encode(p *plot.Plot, opts Options) ([]byte, error) {
	w, h := opts.size()
	wt, err := p.WriterTo(w, h, "png")
	if err != nil {
		return nil, fmt.Errorf("plot.WriterTo: %w", err)
	}

	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write png: %w", err)
	}
	return buf.Bytes(), nil
}

func points(tr domain.Trace) plotter.XYs {
	xys := make(plotter.XYs, len(tr.X))
	for i := range tr.X {
		xys[i] = plotter.XY{X: float64(tr.X[i]), Y: tr.Y[i]}
	}
	return xys
}

func addLine(p *plot.Plot, tr domain.Trace, col color.Color) error {
	xys := points(tr)

	if tr.Kind == domain.TraceLine {
		line, scatter, err := plotter.NewLinePoints(xys)
		if err != nil {
			return fmt.Errorf("plotter.NewLinePoints: %w", err)
		}
		line.Color = col
		line.Width = vg.Points(2)
		scatter.GlyphStyle.Color = col
		scatter.GlyphStyle.Shape = draw.CircleGlyph{}
		scatter.GlyphStyle.Radius = vg.Points(3)
		p.Add(line, scatter)
		p.Legend.Add(tr.Name, line, scatter)
		return nil
	}

	line, err := plotter.NewLine(xys)
	if err != nil {
		return fmt.Errorf("plotter.NewLine: %w", err)
	}
	line.Color = col
	line.Width = vg.Points(2)
	if tr.Dashed {
		line.Dashes = []vg.Length{vg.Points(5), vg.Points(5)}
	}
	if tr.Kind == domain.TraceArea {
		line.FillColor = withAlpha(col, 0x55)
	}
	p.Add(line)
	p.Legend.Add(tr.Name, line)
	return nil
}

// addBars draws one bar per year so that gaps between years stay visible.
func addBars(p *plot.Plot, tr domain.Trace, col color.Color, offset vg.Length) error {
	for i := range tr.X {
		bar, err := plotter.NewBarChart(plotter.Values{tr.Y[i]}, barWidth)
		if err != nil {
			return fmt.Errorf("plotter.NewBarChart: %w", err)
		}
		bar.XMin = float64(tr.X[i])
		bar.Offset = offset
		bar.Color = col
		bar.LineStyle.Width = vg.Length(0)
		p.Add(bar)
		if i == 0 {
			p.Legend.Add(tr.Name, bar)
		}
	}
	return nil
}

// barOffset centers n bar groups around the year tick.
func barOffset(i, n int) vg.Length {
	return vg.Length(float64(i)-float64(n-1)/2) * barWidth
}

type yearTicks struct{}

func (yearTicks) Ticks(min, max float64) []plot.Tick {
	first, last := math.Ceil(min), math.Floor(max)
	step := math.Max(1, math.Ceil((last-first)/15))

	var ticks []plot.Tick
	for y := first; y <= last; y += step {
		ticks = append(ticks, plot.Tick{Value: y, Label: strconv.Itoa(int(y))})
	}
	return ticks
}

func withAlpha(c color.Color, a uint8) color.Color {
	r, g, b, _ := c.RGBA()
	return color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: a}
}

// ParseColor reads "#rrggbb" and "rgb(r, g, b)" / "rgba(r, g, b, a)" colors.
func ParseColor(s string) (color.Color, error) {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "#") && len(s) == 7 {
		v, err := strconv.ParseUint(s[1:], 16, 32)
		if err != nil {
			return nil, fmt.Errorf("bad color %q: %w", s, err)
		}
		return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
	}

	lp, rp := strings.IndexByte(s, '('), strings.LastIndexByte(s, ')')
	if lp < 0 || rp < lp {
		return nil, fmt.Errorf("bad color %q", s)
	}
	parts := strings.Split(s[lp+1:rp], ",")
	if len(parts) != 3 && len(parts) != 4 {
		return nil, fmt.Errorf("bad color %q", s)
	}

	var rgb [3]uint8
	for i := 0; i < 3; i++ {
		v, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil || v < 0 || v > 255 {
			return nil, fmt.Errorf("bad color %q", s)
		}
		rgb[i] = uint8(v)
	}
	alpha := uint8(0xff)
	if len(parts) == 4 {
		a, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil || a < 0 || a > 1 {
			return nil, fmt.Errorf("bad color %q", s)
		}
		alpha = uint8(math.Round(a * 255))
	}

	return color.NRGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: alpha}, nil
}
