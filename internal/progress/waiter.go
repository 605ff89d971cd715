// Package progress shows feedback while the assistant is waiting on a reply.
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Waiter signals that a blocking call is in flight.
type Waiter interface {
	Start(message string)
	Stop()
}

// NewWaiter returns a SpinnerWaiter for interactive terminals, or a
// LineWaiter if the CI environment variable is set.
func NewWaiter(w io.Writer) Waiter {
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return &LineWaiter{w: w}
	}
	return &SpinnerWaiter{w: w, interval: 100 * time.Millisecond}
}

// SpinnerWaiter animates an indeterminate spinner until stopped.
type SpinnerWaiter struct {
	w        io.Writer
	interval time.Duration

	mu   sync.Mutex
	bar  *progressbar.ProgressBar
	done chan struct{}
	wg   sync.WaitGroup
}

func (s *SpinnerWaiter) Start(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bar != nil {
		return
	}

	s.bar = progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(s.w),
		progressbar.OptionSetDescription(message),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
	s.done = make(chan struct{})

	bar, done := s.bar, s.done
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				_ = bar.Add(1)
			}
		}
	}()
}

func (s *SpinnerWaiter) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bar == nil {
		return
	}

	close(s.done)
	s.wg.Wait()
	_ = s.bar.Finish()
	s.bar = nil
}

// LineWaiter prints one line per call, suitable for CI logs.
type LineWaiter struct {
	w     io.Writer
	start time.Time
}

func (l *LineWaiter) Start(message string) {
	l.start = time.Now()
	fmt.Fprintln(l.w, message)
}

func (l *LineWaiter) Stop() {
	fmt.Fprintf(l.w, "done in %s\n", time.Since(l.start).Round(time.Millisecond))
}
