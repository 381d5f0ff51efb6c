// Package growing tracks whether objects with appendable series are
// currently growing. State is corrected lazily when an object is next read
// or updated; nothing runs in the background.
package growing

import (
	"time"

	"github.com/Sjoshi-TYCS/witsml"
	"github.com/Sjoshi-TYCS/witsml/logger"
)

// Manager applies the per-type growing timeout policy.
type Manager struct {
	timeouts map[witsml.ObjectType]time.Duration

	// Now is the clock; tests replace it.
	Now func() time.Time

	logger logger.Logger
}

// ManagerOption is a functional option for NewManager.
type ManagerOption func(*Manager)

func OptManagerLogger(l logger.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = l
	}
}

func OptManagerClock(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.Now = now
	}
}

// NewManager returns a manager using timeouts per object type. Types without
// a timeout, or with a zero one, never time out.
func NewManager(timeouts map[witsml.ObjectType]time.Duration, opts ...ManagerOption) *Manager {
	m := &Manager{
		timeouts: make(map[witsml.ObjectType]time.Duration, len(timeouts)),
		Now:      time.Now,
		logger:   logger.NopLogger,
	}
	for typ, d := range timeouts {
		m.timeouts[typ] = d
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Timeout returns the timeout period for typ.
func (m *Manager) Timeout(typ witsml.ObjectType) time.Duration {
	return m.timeouts[typ]
}

// Initial returns the state of a newly added object, which is never growing.
func (m *Manager) Initial(typ witsml.ObjectType) witsml.GrowingState {
	return witsml.GrowingState{TimeoutPeriod: m.Timeout(typ)}
}

// Refresh returns the state as observed now: a growing object whose last
// append is older than its timeout is reported not growing. changed is true
// when the state was reclassified.
func (m *Manager) Refresh(typ witsml.ObjectType, s witsml.GrowingState) (out witsml.GrowingState, changed bool) {
	if !s.IsGrowing {
		return s, false
	}
	timeout := s.TimeoutPeriod
	if timeout == 0 {
		timeout = m.Timeout(typ)
	}
	if timeout <= 0 || m.Now().Sub(s.LastAppend) <= timeout {
		return s, false
	}
	m.logger.Debugf("%s stopped growing, last append %s", typ, s.LastAppend.Format(time.RFC3339))
	s.IsGrowing = false
	return s, true
}

// Append marks the object growing as of now.
func (m *Manager) Append(typ witsml.ObjectType, s witsml.GrowingState) witsml.GrowingState {
	s.IsGrowing = true
	s.LastAppend = m.Now().UTC()
	s.TimeoutPeriod = m.Timeout(typ)
	return s
}

// IsAppend reports whether an update reaching newMax extends a series whose
// previous extreme was prevMax, in the series direction. A series with no
// previous data is not appended to; it is being populated.
func IsAppend(prevMax *float64, newMax float64, increasing bool) bool {
	if prevMax == nil {
		return false
	}
	if increasing {
		return newMax > *prevMax
	}
	return newMax < *prevMax
}

// Update returns the state after an update that may have appended data:
// stale state is refreshed first, then an append marks the object growing.
func (m *Manager) Update(typ witsml.ObjectType, s witsml.GrowingState, appended bool) witsml.GrowingState {
	s, _ = m.Refresh(typ, s)
	if appended {
		return m.Append(typ, s)
	}
	return s
}
