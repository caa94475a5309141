package tracelog

import (
	"sync"

	"deploytrace/internal/constants"
)

// Session is the state shared by consecutive dispatch calls of one process.
type Session struct {
	mu sync.Mutex

	phase           string
	fileDisabled    bool
	relaunchPending bool
}

// NewSession starts a session in phase. relaunched marks a process that was
// re-invoked by the toolkit itself; its first Initialization call is
// suppressed so the startup banner is not written twice.
func NewSession(phase string, relaunched bool) *Session {
	return &Session{
		phase:           phase,
		relaunchPending: relaunched,
	}
}

// Phase is the section used when a call does not name one.
func (s *Session) Phase() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// SetPhase changes the current phase.
func (s *Session) SetPhase(phase string) {
	s.mu.Lock()
	s.phase = phase
	s.mu.Unlock()
}

// FileLoggingDisabled reports whether file output was switched off.
func (s *Session) FileLoggingDisabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fileDisabled
}

// DisableFileLogging switches file output off for the rest of the session.
func (s *Session) DisableFileLogging() {
	s.mu.Lock()
	s.fileDisabled = true
	s.mu.Unlock()
}

// suppressRelaunchBanner consumes the relaunch latch on the first
// Initialization call and reports whether that call must be dropped.
func (s *Session) suppressRelaunchBanner(section string) bool {
	if section != constants.PhaseInitialization {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.relaunchPending {
		return false
	}
	s.relaunchPending = false
	return true
}
