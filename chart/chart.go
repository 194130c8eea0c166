package chart

import (
	"cmp"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	m "moodindex/internal/model"
	"moodindex/internal/util"

	"github.com/rs/zerolog"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Point is a record placed on the time axis.
type Point struct {
	Time      time.Time
	Value     float64
	Reference *float64
}

type Renderer struct {
	width  int
	height int
	now    func() time.Time
	lg     zerolog.Logger
}

type RendererConfig struct {
	Width  int
	Height int
}

func NewRenderer(conf RendererConfig) *Renderer {
	r := &Renderer{
		width:  conf.Width,
		height: conf.Height,
		now:    time.Now,
		lg:     zerolog.New(os.Stdout).With().Str("Module", "Chart").Timestamp().Logger(),
	}
	if r.width <= 0 {
		r.width = 1000
	}
	if r.height <= 0 {
		r.height = 600
	}
	return r
}

// Window keeps the points strictly newer than now-days, sorted by time.
// Records whose timestamp cannot be parsed are dropped.
func Window(history []m.Record, days int, now time.Time) ([]Point, []string) {
	cutoff := now.Add(-time.Duration(days) * 24 * time.Hour)

	var skipped []string
	points := make([]Point, 0, len(history))
	for _, rec := range history {
		t, err := m.ParseTimestamp(rec.Timestamp)
		if err != nil {
			skipped = append(skipped, rec.Timestamp)
			continue
		}
		if !t.After(cutoff) {
			continue
		}
		points = append(points, Point{Time: t, Value: rec.Value, Reference: rec.RawData.Nifty})
	}

	slices.SortStableFunc(points, func(a, b Point) int {
		return a.Time.Compare(b.Time)
	})
	return points, skipped
}

// Render draws the trailing window of the history to outPath as a PNG. When
// the window is empty nothing is written and false is returned; an existing
// chart stays as it was.
func (r *Renderer) Render(history []m.Record, windowDays int, outPath string) (bool, error) {
	points, skipped := Window(history, windowDays, r.now())
	for _, ts := range skipped {
		r.lg.Warn().Str("timestamp", ts).Msg("Unparseable timestamp, record left out of chart")
	}

	if len(points) == 0 {
		r.lg.Info().Int("window_days", windowDays).Msg("No data in window to plot")
		return false, nil
	}

	graph := r.build(points, windowDays)

	err := util.WriteFileAtomic(outPath, func(w io.Writer) error {
		return graph.Render(gochart.PNG, w)
	})
	if err != nil {
		return false, fmt.Errorf("render chart %s: %w", outPath, err)
	}

	r.lg.Info().Str("path", outPath).Int("points", len(points)).Msg("Chart saved")
	return true, nil
}

var (
	mmiColor       = drawing.ColorFromHex("800080")
	referenceColor = drawing.ColorFromHex("1f77b4")

	// zone colors blended at 10% over white so the stacked fills stay opaque
	zoneColors = map[m.Mood]drawing.Color{
		m.ExtremeFear:  drawing.ColorFromHex("e6f2e6"),
		m.Fear:         drawing.ColorFromHex("e6ffe6"),
		m.Greed:        drawing.ColorFromHex("fff6e6"),
		m.ExtremeGreed: drawing.ColorFromHex("ffe6e6"),
	}
)

func (r *Renderer) build(points []Point, windowDays int) gochart.Chart {
	lo, hi := points[0].Time, points[len(points)-1].Time
	if !hi.After(lo) {
		lo, hi = lo.Add(-12*time.Hour), hi.Add(12*time.Hour)
	}

	series := bandSeries(lo, hi)

	mmi := gochart.TimeSeries{
		Name: "MMI",
		Style: gochart.Style{
			StrokeColor: mmiColor,
			StrokeWidth: 2,
			DotColor:    mmiColor,
			DotWidth:    3,
		},
	}
	ref := gochart.TimeSeries{
		Name:  "Nifty",
		YAxis: gochart.YAxisSecondary,
		Style: gochart.Style{
			StrokeColor:     referenceColor.WithAlpha(180),
			StrokeWidth:     1.5,
			StrokeDashArray: []float64{6, 4},
		},
	}
	for _, p := range points {
		mmi.XValues = append(mmi.XValues, p.Time)
		mmi.YValues = append(mmi.YValues, p.Value)
		if p.Reference != nil {
			ref.XValues = append(ref.XValues, p.Time)
			ref.YValues = append(ref.YValues, *p.Reference)
		}
	}

	series = append(series, mmi)
	legend := []gochart.Series{mmi}
	if len(ref.XValues) > 0 {
		series = append(series, ref)
		legend = append(legend, ref)
	}

	graph := gochart.Chart{
		Title:  fmt.Sprintf("Market Mood Index (MMI) vs Nifty - Last %d Days", windowDays),
		Width:  r.width,
		Height: r.height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: gochart.XAxis{
			Name:           "Date",
			ValueFormatter: gochart.TimeDateValueFormatter,
		},
		YAxis: gochart.YAxis{
			Name:      "MMI Value",
			NameStyle: gochart.Style{FontColor: mmiColor},
			Range:     &gochart.ContinuousRange{Min: 0, Max: 100},
		},
		YAxisSecondary: gochart.YAxis{
			Name:      "Nifty Index",
			NameStyle: gochart.Style{FontColor: referenceColor},
			Range:     referenceRange(ref.YValues),
		},
		Series: series,
	}

	legendSource := gochart.Chart{Series: legend}
	graph.Elements = []gochart.Renderable{gochart.Legend(&legendSource)}
	return graph
}

// bandSeries fills each mood zone from its upper bound down to the axis
// floor; drawing the highest zone first leaves every band visible.
func bandSeries(lo, hi time.Time) []gochart.Series {
	zones := m.Zones()
	slices.SortFunc(zones, func(a, b m.Zone) int { return cmp.Compare(b.Upper, a.Upper) })

	series := make([]gochart.Series, 0, len(zones))
	for _, z := range zones {
		c := zoneColors[z.Mood]
		series = append(series, gochart.TimeSeries{
			Name:    z.Mood.String(),
			XValues: []time.Time{lo, hi},
			YValues: []float64{z.Upper, z.Upper},
			Style: gochart.Style{
				StrokeColor: c,
				StrokeWidth: 0.5,
				FillColor:   c,
			},
		})
	}
	return series
}

// referenceRange returns nil to auto-scale, except when every value is equal
// and the chart would otherwise have a zero-height secondary axis.
func referenceRange(values []float64) gochart.Range {
	if len(values) == 0 {
		return nil
	}
	lo, hi := slices.Min(values), slices.Max(values)
	if lo != hi {
		return nil
	}
	pad := max(1, lo*0.01)
	if lo < 0 {
		pad = max(1, -lo*0.01)
	}
	return &gochart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}
