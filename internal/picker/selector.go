package picker

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/example/drawer/internal/sketch"
)

// Selection is the outcome of one Pick.
type Selection struct {
	Token sketch.LoadToken
	Data  []byte
	Err   error
}

// Selector runs picks in the background. Starting a new pick cancels the
// previous one so at most one selection is live at a time.
type Selector struct {
	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Select runs src.Pick on its own goroutine and passes the outcome to
// deliver. deliver is always called exactly once, from that goroutine.
func (s *Selector) Select(ctx context.Context, token sketch.LoadToken, src Source, deliver func(Selection)) {
	cctx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.cancel = cancel
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()
		data, err := src.Pick(cctx)
		if err == nil && cctx.Err() != nil {
			data, err = nil, fmt.Errorf("%w: %v", ErrCancelled, cctx.Err())
		}
		if err != nil && !errors.Is(err, ErrCancelled) && cctx.Err() != nil {
			err = fmt.Errorf("%w: %v", ErrCancelled, err)
		}
		deliver(Selection{Token: token, Data: data, Err: err})
	}()
}

// Cancel stops the in-flight pick, if any.
func (s *Selector) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Wait blocks until every started pick has delivered.
func (s *Selector) Wait() { s.wg.Wait() }
