package status

import (
	"sync/atomic"
)

// MaxStringLen bounds stored strings, longer values are cut at a byte boundary
const MaxStringLen = 64

// AtomicString provides atomic string access
// Zero value is ready to use and reads ""
type AtomicString struct {
	ptr atomic.Pointer[string]
}

// Store sets the string value, truncating to MaxStringLen
func (s *AtomicString) Store(val string) {
	if len(val) > MaxStringLen {
		val = val[:MaxStringLen]
	}
	s.ptr.Store(&val)
}

func (s *AtomicString) Load() string {
	if p := s.ptr.Load(); p != nil {
		return *p
	}
	return ""
}
