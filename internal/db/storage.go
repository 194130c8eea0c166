package db

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	m "moodindex/internal/model"
	"moodindex/internal/util"

	"github.com/rs/zerolog"
)

// Storage keeps the MMI history as one JSON array file. Every append rewrites
// the whole file, which is fine for a few thousand points.
type Storage struct {
	path     string
	readFile func(name string) ([]byte, error)
	lg       zerolog.Logger
}

func NewStorage(path string) *Storage {
	return &Storage{
		path:     path,
		readFile: os.ReadFile,
		lg:       zerolog.New(os.Stdout).With().Str("Module", "Storage").Timestamp().Logger(),
	}
}

func (s Storage) Path() string {
	return s.path
}

// Load never fails: a missing file is an empty history and an unreadable or
// malformed one is logged and treated as empty.
func (s Storage) Load() []m.Record {
	history, err := s.load()
	if err != nil {
		s.lg.Error().Err(err).Str("path", s.path).Msg("failed to read history, starting empty")
		return []m.Record{}
	}
	return history
}

// load degrades only a missing or malformed file to an empty history. Read
// errors are returned.
func (s Storage) load() ([]m.Record, error) {
	b, err := s.readFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.lg.Debug().Str("path", s.path).Msg("history file absent, starting empty")
		return []m.Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read history %s: %w", s.path, err)
	}

	var history []m.Record
	if err := json.Unmarshal(b, &history); err != nil {
		s.lg.Warn().Err(err).Str("path", s.path).Msg("malformed history file, starting empty")
		return []m.Record{}, nil
	}
	if history == nil {
		history = []m.Record{}
	}
	return history, nil
}

// Append stores the payload as a new record unless its timestamp equals the
// last stored one. It returns the resulting history and whether it grew.
func (s Storage) Append(p m.Payload) ([]m.Record, bool, error) {
	history, err := s.load()
	if err != nil {
		return nil, false, err
	}
	rec := m.NewRecord(p)

	if n := len(history); n > 0 && history[n-1].Timestamp == rec.Timestamp {
		s.lg.Info().Str("timestamp", rec.Timestamp).Msg("Data for this timestamp already exists. Skipping append")
		return history, false, nil
	}

	history = append(history, rec)
	if err := s.save(history); err != nil {
		return history[:len(history)-1], false, err
	}

	s.lg.Info().Float64("value", rec.Value).Str("mood", rec.Mood.String()).Str("timestamp", rec.Timestamp).Msg("Appended new data point")
	return history, true, nil
}

func (s Storage) save(history []m.Record) error {
	err := util.WriteFileAtomic(s.path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "    ")
		return enc.Encode(history)
	})
	if err != nil {
		return fmt.Errorf("save history %s: %w", s.path, err)
	}
	return nil
}
