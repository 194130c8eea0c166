package moodindex

import (
	"context"

	m "moodindex/internal/model"
)

type fetcher interface {
	MarketMoodIndex(ctx context.Context) (*m.Payload, error)
}

type storage interface {
	Append(p m.Payload) ([]m.Record, bool, error)
}

type renderer interface {
	Render(history []m.Record, windowDays int, outPath string) (bool, error)
}

type publisher interface {
	Publish(latest *m.Record, chartPath string) error
}

type messenger interface {
	SendMessage(msg string) error
}
