package progrock

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/vito/progrock"
	"go.trai.ch/skeleton/internal/core/ports"
)

var _ progrock.Writer = (*Summary)(nil)

// Summary is a progrock.Writer that reports every vertex through a logger once
// it completes, and a totals line when the session is closed.
type Summary struct {
	logger ports.Logger

	mu       sync.Mutex
	notes    map[string]string
	reported map[string]struct{}
	built    int
	cached   int
	failed   int
}

// NewSummary creates a Summary reporting to logger.
func NewSummary(logger ports.Logger) *Summary {
	return &Summary{
		logger:   logger,
		notes:    make(map[string]string),
		reported: make(map[string]struct{}),
	}
}

// WriteStatus consumes a status update. The last line logged against a vertex
// is kept as its note and shown next to cache hits.
func (s *Summary) WriteStatus(update *progrock.StatusUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, l := range update.Logs {
		if line := lastLine(l.Data); line != "" {
			s.notes[l.Vertex] = line
		}
	}

	for _, v := range update.Vertexes {
		if v.Completed == nil {
			continue
		}
		if _, ok := s.reported[v.Id]; ok {
			continue
		}
		s.reported[v.Id] = struct{}{}
		s.report(v)
	}
	return nil
}

// Close logs the totals of the session.
func (s *Summary) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.reported) == 0 {
		return nil
	}
	s.logger.Info(fmt.Sprintf("%d built, %d cached, %d failed", s.built, s.cached, s.failed))
	return nil
}

func (s *Summary) report(v *progrock.Vertex) {
	took := elapsed(v)
	switch {
	case v.Error != nil:
		s.failed++
		s.logger.Warn(fmt.Sprintf("%s: failed after %s: %s", v.Name, took, *v.Error))
	case v.Canceled:
		s.failed++
		s.logger.Warn(fmt.Sprintf("%s: canceled after %s", v.Name, took))
	case v.Cached:
		s.cached++
		msg := v.Name + ": cached"
		if note := s.notes[v.Id]; note != "" {
			msg += " (" + note + ")"
		}
		s.logger.Info(msg)
	default:
		s.built++
		s.logger.Info(fmt.Sprintf("%s: built in %s", v.Name, took))
	}
}

func elapsed(v *progrock.Vertex) time.Duration {
	if v.Started == nil || v.Completed == nil {
		return 0
	}
	return v.Completed.AsTime().Sub(v.Started.AsTime()).Round(time.Millisecond)
}

func lastLine(data []byte) string {
	text := strings.TrimSpace(string(data))
	if i := strings.LastIndexByte(text, '\n'); i >= 0 {
		text = text[i+1:]
	}
	return strings.TrimSpace(text)
}
