package scrape

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/PuerkitoBio/goquery"
)

type ProbeConfig struct {
	HistoryUrl string
	PageUrl    string
}

func WithProbe(conf *ProbeConfig) Option {
	return func(s *Scraper) error {
		if conf == nil || conf.PageUrl == "" {
			return errors.New("probe page url is empty")
		}
		s.probe = conf
		return nil
	}
}

// ProbeReport describes what the upstream exposes besides the current reading.
type ProbeReport struct {
	HistoryStatus int
	HistoryError  string
	History       any

	NextData      bool
	TopKeys       []string
	PropsKeys     []string
	PagePropsKeys []string
}

const nextDataCss = `script#__NEXT_DATA__`

// ProbeHistory looks for a history endpoint and for the Next.js data blob
// embedded in the market mood web page. Only a page failure is an error.
func (s *Scraper) ProbeHistory(ctx context.Context) (*ProbeReport, error) {
	if s.probe == nil {
		return nil, errors.New("probe not configured")
	}
	s.lg.Info().Msg("Starting ProbeHistory")

	report := &ProbeReport{}
	if s.probe.HistoryUrl != "" {
		s.probeHistoryEndpoint(ctx, report)
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8").
		Get(s.probe.PageUrl)
	if err != nil {
		return report, fmt.Errorf("error requesting page\n%w", err)
	}
	if !resp.IsSuccess() {
		return report, fmt.Errorf("status code error: %s", resp.Status())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
	if err != nil {
		return report, fmt.Errorf("error creating document\n%w", err)
	}

	sel := doc.Find(nextDataCss).First()
	if sel.Length() == 0 {
		s.lg.Info().Msg("No NEXT_DATA found")
		return report, nil
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(sel.Text()), &data); err != nil {
		return report, fmt.Errorf("error decoding NEXT_DATA\n%w", err)
	}
	report.NextData = true
	report.TopKeys = keys(data)

	if props, ok := data["props"].(map[string]any); ok {
		report.PropsKeys = keys(props)
		if pageProps, ok := props["pageProps"].(map[string]any); ok {
			report.PagePropsKeys = keys(pageProps)
		}
	}

	return report, nil
}

func (s *Scraper) probeHistoryEndpoint(ctx context.Context, report *ProbeReport) {
	resp, err := s.client.R().SetContext(ctx).Get(s.probe.HistoryUrl)
	if err != nil {
		report.HistoryError = err.Error()
		s.lg.Warn().Err(err).Msg("History endpoint error")
		return
	}

	report.HistoryStatus = resp.StatusCode()
	if !resp.IsSuccess() {
		report.HistoryError = fmt.Sprintf("status code error: %s", resp.Status())
		return
	}

	var body any
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		report.HistoryError = err.Error()
		return
	}
	report.History = body
}

func keys(obj map[string]any) []string {
	rtn := make([]string, 0, len(obj))
	for k := range obj {
		rtn = append(rtn, k)
	}
	sort.Strings(rtn)
	return rtn
}
