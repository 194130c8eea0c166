package scrape

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	m "moodindex/internal/model"

	"github.com/go-playground/validator/v10"
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

const defaultTimeout = 10 * time.Second

type Scraper struct {
	client   *resty.Client
	mmiUrl   string
	probe    *ProbeConfig
	validate *validator.Validate
	lg       zerolog.Logger
}

// MmiConfig holds the endpoint and the opaque header/cookie bundle it requires.
type MmiConfig struct {
	Url     string
	Timeout time.Duration
	Headers map[string]string
	Cookies map[string]string
}

type Option func(*Scraper) error

// Functional Option Pattern
func NewScraper(conf *MmiConfig, options ...Option) (*Scraper, error) {
	if conf == nil || conf.Url == "" {
		return nil, errors.New("mmi url is empty")
	}

	timeout := conf.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	lg := zerolog.New(os.Stdout).With().Str("Module", "Scraper").Timestamp().Logger()

	client := resty.New().
		SetTimeout(timeout).
		SetHeaders(conf.Headers).
		SetLogger(restyLogger{lg: lg})

	cookies := make([]*http.Cookie, 0, len(conf.Cookies))
	for name, value := range conf.Cookies {
		cookies = append(cookies, &http.Cookie{Name: name, Value: value})
	}
	client.SetCookies(cookies)

	s := &Scraper{
		client:   client,
		mmiUrl:   conf.Url,
		validate: validator.New(),
		lg:       lg,
	}
	for _, opt := range options {
		if err := opt(s); err != nil {
			return nil, fmt.Errorf("failed to create Scraper %w", err)
		}
	}
	return s, nil
}

type mmiEnvelope struct {
	Success bool       `json:"success"`
	Data    *m.Payload `json:"data"`
}

// MarketMoodIndex fetches the current reading. It never retries; any failure
// is returned as a *FetchError.
func (s *Scraper) MarketMoodIndex(ctx context.Context) (*m.Payload, error) {
	s.lg.Info().Str("url", s.mmiUrl).Msg("Starting MarketMoodIndex")

	resp, err := s.client.R().SetContext(ctx).Get(s.mmiUrl)
	if err != nil {
		return nil, &FetchError{Stage: StageTransport, Err: err}
	}

	if !resp.IsSuccess() {
		return nil, &FetchError{Stage: StageStatus, Err: fmt.Errorf("status code error: %s", resp.Status())}
	}

	var env mmiEnvelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return nil, &FetchError{Stage: StageDecode, Err: err}
	}

	if !env.Success {
		return nil, &FetchError{Stage: StageEnvelope, Err: fmt.Errorf("%w: %s", ErrUnsuccessful, snippet(resp.Body()))}
	}

	if env.Data == nil {
		return nil, &FetchError{Stage: StagePayload, Err: errors.New("missing data object")}
	}
	if err := s.validate.Struct(env.Data); err != nil {
		return nil, &FetchError{Stage: StagePayload, Err: err}
	}

	s.lg.Info().Str("date", env.Data.Date).Float64("value", *env.Data.CurrentValue).Msg("MarketMoodIndex fetched")
	return env.Data, nil
}

func snippet(b []byte) string {
	const max = 200
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}

type restyLogger struct {
	lg zerolog.Logger
}

func (l restyLogger) Errorf(format string, v ...interface{}) { l.lg.Error().Msgf(format, v...) }
func (l restyLogger) Warnf(format string, v ...interface{})  { l.lg.Warn().Msgf(format, v...) }
func (l restyLogger) Debugf(format string, v ...interface{}) { l.lg.Debug().Msgf(format, v...) }
