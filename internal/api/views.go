package api

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Roelanb/studyplan/internal/submission"
)

// viewSession is one mounted study plan page: its element state and the
// controller that drives it.
type viewSession struct {
	id           string
	rec          *submission.Recorder
	ctrl         *submission.Controller
	presentation string

	mu       sync.Mutex
	lastSeen time.Time
}

func (v *viewSession) touch(now time.Time) {
	v.mu.Lock()
	v.lastSeen = now
	v.mu.Unlock()
}

func (v *viewSession) idleSince(now time.Time) time.Duration {
	v.mu.Lock()
	defer v.mu.Unlock()
	return now.Sub(v.lastSeen)
}

type viewRegistry struct {
	mu    sync.Mutex
	views map[string]*viewSession
	now   func() time.Time
}

func newViewRegistry() *viewRegistry {
	return &viewRegistry{views: map[string]*viewSession{}, now: time.Now}
}

// mount allocates a view and wires a controller to it.
func (r *viewRegistry) mount(newCtrl func(view submission.View, id string) *submission.Controller, presentation string) *viewSession {
	id := uuid.NewString()
	rec := submission.NewRecorder()
	v := &viewSession{
		id:           id,
		rec:          rec,
		ctrl:         newCtrl(rec, id),
		presentation: presentation,
		lastSeen:     r.now(),
	}
	r.mu.Lock()
	r.views[id] = v
	r.mu.Unlock()
	return v
}

func (r *viewRegistry) get(id string) (*viewSession, bool) {
	r.mu.Lock()
	v, ok := r.views[id]
	r.mu.Unlock()
	if ok {
		v.touch(r.now())
	}
	return v, ok
}

// sweep drops idle views whose controller is not in flight and returns how many were removed.
func (r *viewRegistry) sweep(ttl time.Duration) int {
	now := r.now()
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, v := range r.views {
		if v.ctrl.State() == submission.InFlight {
			continue
		}
		if v.idleSince(now) >= ttl {
			delete(r.views, id)
			n++
		}
	}
	return n
}

func (r *viewRegistry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}
