package publish

import (
	_ "embed"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"text/template"

	m "moodindex/internal/model"
	"moodindex/internal/util"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

//go:embed status.md.tmpl
var statusTemplate string

type Link struct {
	Name string `yaml:"name"`
	Url  string `yaml:"url"`
}

type PublisherConfig struct {
	Path        string
	Title       string
	Logo        string
	HistoryLink string
	WindowDays  int
	ApiLinks    []Link
}

type Publisher struct {
	conf PublisherConfig
	tmpl *template.Template
	lg   zerolog.Logger
}

func NewPublisher(conf PublisherConfig) (*Publisher, error) {
	tmpl, err := template.New("status").Parse(statusTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse status template: %w", err)
	}
	if conf.Title == "" {
		conf.Title = "Market Mood Index Tracker"
	}
	return &Publisher{
		conf: conf,
		tmpl: tmpl,
		lg:   zerolog.New(os.Stdout).With().Str("Module", "Publisher").Timestamp().Logger(),
	}, nil
}

type zoneRow struct {
	Mood  string
	Range string
}

type statusData struct {
	PublisherConfig
	Value     string
	Mood      string
	Updated   string
	ChartPath string
	Zones     []zoneRow
}

// Publish rewrites the status document for latest. A nil record is skipped.
func (p *Publisher) Publish(latest *m.Record, chartPath string) error {
	if latest == nil {
		p.lg.Info().Msg("No latest record, status document left as is")
		return nil
	}

	data := statusData{
		PublisherConfig: p.conf,
		Value:           FormatValue(latest.Value),
		Mood:            latest.Mood.String(),
		Updated:         m.ReadableTime(latest.Timestamp),
		ChartPath:       chartPath,
		Zones:           zoneLegend(),
	}

	err := util.WriteFileAtomic(p.conf.Path, func(w io.Writer) error {
		return p.tmpl.Execute(w, data)
	})
	if err != nil {
		return fmt.Errorf("publish status %s: %w", p.conf.Path, err)
	}

	p.lg.Info().Str("path", p.conf.Path).Str("value", data.Value).Str("mood", data.Mood).Msg("Status document updated")
	return nil
}

// FormatValue renders a reading with exactly two decimals. Rounding works on
// the exact binary value with ties to even, so 2.675 (stored as
// 2.67499999...) prints as 2.67 and 62.125 as 62.12.
func FormatValue(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', 2, 64)
	}
	exact := decimal.RequireFromString(strconv.FormatFloat(v, 'f', exactDigits, 64))
	return exact.StringFixedBank(2)
}

// float64 values have at most 1074 fractional decimal digits.
const exactDigits = 1074

func zoneLegend() []zoneRow {
	zones := m.Zones()
	rows := make([]zoneRow, len(zones))
	for i, z := range zones {
		var r string
		switch i {
		case 0:
			r = fmt.Sprintf("< %g", z.Upper)
		case len(zones) - 1:
			r = fmt.Sprintf("> %g", z.Lower)
		default:
			r = fmt.Sprintf("%g - %g", z.Lower, z.Upper)
		}
		rows[i] = zoneRow{Mood: z.Mood.String(), Range: r}
	}
	return rows
}
