package moodindex

import (
	"context"
	"errors"
	"testing"

	m "moodindex/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(f float64) *float64 { return &f }

type fixture struct {
	ft  *fetcherMock
	stg *storageMock
	rd  *rendererMock
	pb  *publisherMock
	msg *messengerMock
	mi  *MoodIndex
}

func newFixture() *fixture {
	f := &fixture{
		ft: &fetcherMock{p: &m.Payload{
			Date:         "2026-02-16T14:20:00.086Z",
			CurrentValue: ptr(62.5),
			Nifty:        ptr(23400.1),
		}},
		stg: &storageMock{},
		rd:  &rendererMock{rendered: true},
		pb:  &publisherMock{},
		msg: &messengerMock{},
	}
	f.mi = NewMoodIndex(MoodIndexConfig{
		Fetcher:    f.ft,
		Storage:    f.stg,
		Renderer:   f.rd,
		Publisher:  f.pb,
		Messenger:  f.msg,
		ChartPath:  "mmi_chart.png",
		WindowDays: 180,
	})
	return f
}

func TestRun(t *testing.T) {

	t.Run("Full pipeline", func(t *testing.T) {
		f := newFixture()

		require.NoError(t, f.mi.Run(context.Background()))

		require.Len(t, f.stg.history, 1)
		assert.Equal(t, m.Greed, f.stg.history[0].Mood)

		assert.Equal(t, 1, f.rd.n)
		assert.Equal(t, f.stg.history, f.rd.got)
		assert.Equal(t, 180, f.rd.window)
		assert.Equal(t, "mmi_chart.png", f.rd.path)

		require.NotNil(t, f.pb.latest)
		assert.Equal(t, f.stg.history[0], *f.pb.latest)
		assert.Equal(t, "mmi_chart.png", f.pb.chart)

		assert.Equal(t, []string{"[MMI] 62.50 (Greed)\n2026-02-16 14:20 UTC"}, f.msg.msgs)
	})

	t.Run("Fetch failure writes nothing", func(t *testing.T) {
		f := newFixture()
		f.ft.err = errors.New("connection refused")

		err := f.mi.Run(context.Background())
		assert.ErrorIs(t, err, ErrFetch)
		assert.Zero(t, f.stg.n)
		assert.Zero(t, f.rd.n)
		assert.Zero(t, f.pb.n)
		assert.Empty(t, f.msg.msgs)
	})

	t.Run("History failure stops the run", func(t *testing.T) {
		f := newFixture()
		f.stg.err = errors.New("disk full")

		err := f.mi.Run(context.Background())
		assert.ErrorIs(t, err, ErrHistory)
		assert.Zero(t, f.rd.n)
		assert.Zero(t, f.pb.n)
	})

	t.Run("Repeated reading is not appended or notified", func(t *testing.T) {
		f := newFixture()

		require.NoError(t, f.mi.Run(context.Background()))
		require.NoError(t, f.mi.Run(context.Background()))

		assert.Len(t, f.stg.history, 1)
		assert.Len(t, f.msg.msgs, 1)
		assert.Equal(t, 2, f.rd.n)
		assert.Equal(t, 2, f.pb.n)
	})

	t.Run("Chart skipped is success", func(t *testing.T) {
		f := newFixture()
		f.rd.rendered = false

		require.NoError(t, f.mi.Run(context.Background()))
		assert.Equal(t, 1, f.pb.n)
	})

	t.Run("Chart failure still publishes", func(t *testing.T) {
		f := newFixture()
		f.rd.err = errors.New("font missing")

		err := f.mi.Run(context.Background())
		assert.ErrorIs(t, err, ErrRender)
		assert.Equal(t, 1, f.pb.n)
		assert.Len(t, f.stg.history, 1)
	})

	t.Run("Publish failure", func(t *testing.T) {
		f := newFixture()
		f.pb.err = errors.New("read-only file system")

		err := f.mi.Run(context.Background())
		assert.ErrorIs(t, err, ErrPublish)
		assert.NotErrorIs(t, err, ErrRender)
		assert.Len(t, f.stg.history, 1)
	})

	t.Run("Chart and publish failure", func(t *testing.T) {
		f := newFixture()
		f.rd.err = errors.New("font missing")
		f.pb.err = errors.New("read-only file system")

		err := f.mi.Run(context.Background())
		assert.ErrorIs(t, err, ErrPublish)
		assert.ErrorIs(t, err, ErrRender)
	})

	t.Run("Notification failure is ignored", func(t *testing.T) {
		f := newFixture()
		f.msg.err = errors.New("telegram down")

		require.NoError(t, f.mi.Run(context.Background()))
		assert.Equal(t, 1, f.pb.n)
	})

	t.Run("Without messenger", func(t *testing.T) {
		f := newFixture()
		mi := NewMoodIndex(MoodIndexConfig{
			Fetcher:    f.ft,
			Storage:    f.stg,
			Renderer:   f.rd,
			Publisher:  f.pb,
			ChartPath:  "mmi_chart.png",
			WindowDays: 30,
		})

		require.NoError(t, mi.Run(context.Background()))
		assert.Equal(t, 30, f.rd.window)
	})
}
