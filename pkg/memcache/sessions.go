// Package memcache keeps visitor sessions in process memory.
package memcache

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"wisdomcard/internal/session"
)

var ErrSessionNotFound = errors.New("session not found")

type SessionStore interface {
	// Create registers a fresh IDLE controller and returns its id.
	Create() (string, *session.Controller)

	// Get returns the controller for id and refreshes its expiry.
	Get(id string) (*session.Controller, error)

	Delete(id string) bool
	Len() int
	Close()
}

type entry struct {
	ctrl     *session.Controller
	lastSeen time.Time
}

type Sessions struct {
	mu      sync.Mutex
	data    map[string]*entry
	newCtrl func() *session.Controller
	ttl     time.Duration
	active  prometheus.Gauge
	now     func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewSessions starts a janitor that sweeps sessions idle for longer than ttl
// every interval. active may be nil.
func NewSessions(newCtrl func() *session.Controller, ttl, interval time.Duration, active prometheus.Gauge) *Sessions {
	s := &Sessions{
		data:    make(map[string]*entry),
		newCtrl: newCtrl,
		ttl:     ttl,
		active:  active,
		now:     time.Now,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go s.janitor(interval)
	return s
}

func (s *Sessions) Create() (string, *session.Controller) {
	id := uuid.New().String()
	ctrl := s.newCtrl()

	s.mu.Lock()
	s.data[id] = &entry{ctrl: ctrl, lastSeen: s.now()}
	s.setGaugeLocked()
	s.mu.Unlock()
	return id, ctrl
}

func (s *Sessions) Get(id string) (*session.Controller, error) {
	s.mu.Lock()
	e, ok := s.data[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	if s.expiredLocked(e) {
		delete(s.data, id)
		s.setGaugeLocked()
		s.mu.Unlock()
		e.ctrl.Close()
		return nil, ErrSessionNotFound
	}
	e.lastSeen = s.now()
	s.mu.Unlock()
	return e.ctrl, nil
}

func (s *Sessions) Delete(id string) bool {
	s.mu.Lock()
	e, ok := s.data[id]
	if ok {
		delete(s.data, id)
		s.setGaugeLocked()
	}
	s.mu.Unlock()

	if ok {
		e.ctrl.Close()
	}
	return ok
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}

// Sweep drops expired sessions and returns how many were removed.
func (s *Sessions) Sweep() int {
	s.mu.Lock()
	var expired []*session.Controller
	for id, e := range s.data {
		if s.expiredLocked(e) {
			expired = append(expired, e.ctrl)
			delete(s.data, id)
		}
	}
	s.setGaugeLocked()
	s.mu.Unlock()

	for _, c := range expired {
		c.Close()
	}
	return len(expired)
}

// Close stops the janitor and closes every session.
func (s *Sessions) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
	<-s.done

	s.mu.Lock()
	all := make([]*session.Controller, 0, len(s.data))
	for id, e := range s.data {
		all = append(all, e.ctrl)
		delete(s.data, id)
	}
	s.setGaugeLocked()
	s.mu.Unlock()

	for _, c := range all {
		c.Close()
	}
}

func (s *Sessions) janitor(interval time.Duration) {
	defer close(s.done)
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			s.Sweep()
		case <-s.stop:
			return
		}
	}
}

func (s *Sessions) expiredLocked(e *entry) bool {
	return s.now().Sub(e.lastSeen) > s.ttl
}

func (s *Sessions) setGaugeLocked() {
	if s.active != nil {
		s.active.Set(float64(len(s.data)))
	}
}
