package terminal

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// TerminalService owns the terminal lifecycle for one viewer session
// Termination signals become EventClosed so the frame loop exits through its normal path
type TerminalService struct {
	term      Terminal
	colorMode ColorMode
	sigCh     chan os.Signal
	stopCh    chan struct{}
	doneCh    chan struct{}
	mu        sync.Mutex
	running   bool
}

// NewService creates a service that will drive a terminal in the given color mode
func NewService(mode ColorMode) *TerminalService {
	return &TerminalService{
		colorMode: mode,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start initializes the terminal and begins watching termination signals
func (s *TerminalService) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return nil
	}

	if s.term == nil {
		s.term = New(s.colorMode)
	}
	if err := s.term.Init(); err != nil {
		return fmt.Errorf("terminal init: %w", err)
	}

	s.sigCh = make(chan os.Signal, 1)
	signal.Notify(s.sigCh, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGINT)
	go s.watch()

	s.running = true
	return nil
}

// watch turns the first termination signal into EventClosed
// Later signals get default handling again so a stuck session can still be killed
func (s *TerminalService) watch() {
	defer close(s.doneCh)
	select {
	case <-s.stopCh:
	case <-s.sigCh:
		signal.Stop(s.sigCh)
		s.postClosed()
	}
}

// postClosed delivers EventClosed even when the queue is full, waiting for the loop to drain
func (s *TerminalService) postClosed() {
	ev := Event{Type: EventClosed}
	t, ok := s.term.(*termImpl)
	if !ok {
		s.term.PostEvent(ev)
		return
	}
	select {
	case t.eventCh <- ev:
	case <-s.stopCh:
	}
}

// Stop restores the terminal. Safe to call multiple times
func (s *TerminalService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.running = false

	signal.Stop(s.sigCh)
	close(s.stopCh)
	<-s.doneCh

	s.term.Fini()
}

// Terminal returns the wrapped terminal instance
func (s *TerminalService) Terminal() Terminal {
	return s.term
}
