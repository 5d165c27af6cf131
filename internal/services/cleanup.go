package services

import (
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// OutputSweeper deletes stored generation outputs older than the retention
// age. Only meaningful for the local storage backend; bucket lifecycles
// cover GCS.
type OutputSweeper struct {
	outputDir string
	maxAge    time.Duration
	interval  time.Duration
	ticker    *time.Ticker
	done      chan struct{}
	log       zerolog.Logger
}

func NewOutputSweeper(storageDir string, maxAge time.Duration, log zerolog.Logger) *OutputSweeper {
	return &OutputSweeper{
		outputDir: filepath.Join(storageDir, "outputs"),
		maxAge:    maxAge,
		interval:  time.Hour,
		done:      make(chan struct{}),
		log:       log,
	}
}

func (s *OutputSweeper) Start() {
	s.ticker = time.NewTicker(s.interval)
	go func() {
		for {
			select {
			case <-s.done:
				return
			case <-s.ticker.C:
				s.sweep()
			}
		}
	}()
	s.log.Info().Str("dir", s.outputDir).Dur("max_age", s.maxAge).Msg("output sweeper started")
}

func (s *OutputSweeper) Stop() {
	if s.ticker != nil {
		s.ticker.Stop()
	}
	close(s.done)
	s.log.Info().Msg("output sweeper stopped")
}

func (s *OutputSweeper) sweep() {
	if _, err := os.Stat(s.outputDir); os.IsNotExist(err) {
		return
	}

	err := filepath.Walk(s.outputDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && time.Since(info.ModTime()) > s.maxAge {
			s.log.Debug().Str("path", path).Msg("removing expired output")
			return os.Remove(path)
		}
		return nil
	})
	if err != nil {
		s.log.Warn().Err(err).Str("dir", s.outputDir).Msg("output sweep failed")
	}
}
