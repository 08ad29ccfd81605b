package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/platecut/pkg/interact"
)

// session is one drag in progress.
type session struct {
	id       string
	ctrl     *interact.Controller
	lastSeen time.Time
}

// sessions holds open drags. Sessions idle longer than ttl are dropped
// without committing.
type sessions struct {
	mu  sync.Mutex
	ttl time.Duration
	now func() time.Time
	m   map[string]*session
}

func newSessions(ttl time.Duration) *sessions {
	return &sessions{ttl: ttl, now: time.Now, m: make(map[string]*session)}
}

func (ss *sessions) add(ctrl *interact.Controller) *session {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.expireLocked()
	s := &session{id: uuid.NewString(), ctrl: ctrl, lastSeen: ss.now()}
	ss.m[s.id] = s
	return s
}

func (ss *sessions) get(id string) (*session, bool) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.expireLocked()
	s, ok := ss.m[id]
	if ok {
		s.lastSeen = ss.now()
	}
	return s, ok
}

func (ss *sessions) remove(id string) (*session, bool) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	s, ok := ss.m[id]
	if ok {
		delete(ss.m, id)
	}
	return s, ok
}

func (ss *sessions) len() int {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return len(ss.m)
}

func (ss *sessions) expireLocked() {
	cutoff := ss.now().Add(-ss.ttl)
	for id, s := range ss.m {
		if s.lastSeen.Before(cutoff) {
			s.ctrl.Close()
			delete(ss.m, id)
		}
	}
}

func (ss *sessions) closeAll() {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	for id, s := range ss.m {
		s.ctrl.Close()
		delete(ss.m, id)
	}
}
