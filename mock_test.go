package moodindex

import (
	"context"

	m "moodindex/internal/model"
)

type fetcherMock struct {
	p   *m.Payload
	err error
	n   int
	ctx context.Context
}

func (f *fetcherMock) MarketMoodIndex(ctx context.Context) (*m.Payload, error) {
	f.n++
	f.ctx = ctx
	if f.err != nil {
		return nil, f.err
	}
	return f.p, nil
}

// storageMock mimics the file store's last-timestamp dedupe in memory.
type storageMock struct {
	history []m.Record
	err     error
	n       int
}

func (s *storageMock) Append(p m.Payload) ([]m.Record, bool, error) {
	s.n++
	if s.err != nil {
		return s.history, false, s.err
	}
	if len(s.history) > 0 && s.history[len(s.history)-1].Timestamp == p.Date {
		return s.history, false, nil
	}
	s.history = append(s.history, m.NewRecord(p))
	return s.history, true, nil
}

type rendererMock struct {
	rendered bool
	err      error
	n        int
	got      []m.Record
	window   int
	path     string
}

func (r *rendererMock) Render(history []m.Record, windowDays int, outPath string) (bool, error) {
	r.n++
	r.got = history
	r.window = windowDays
	r.path = outPath
	if r.err != nil {
		return false, r.err
	}
	return r.rendered, nil
}

type publisherMock struct {
	err    error
	n      int
	latest *m.Record
	chart  string
}

func (p *publisherMock) Publish(latest *m.Record, chartPath string) error {
	p.n++
	p.latest = latest
	p.chart = chartPath
	return p.err
}

type messengerMock struct {
	msgs []string
	err  error
}

func (mm *messengerMock) SendMessage(msg string) error {
	mm.msgs = append(mm.msgs, msg)
	return mm.err
}
