package conversation

import "sync"

// lockRegistry hands out one mutex per session id so concurrent calls on
// the same session serialize while distinct sessions proceed in parallel.
type lockRegistry struct {
	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func (r *lockRegistry) init() {
	r.locks = make(map[string]*sessionLock)
}

// lock acquires the mutex for sessionID and returns the matching unlock.
// The entry is reference-counted so release can drop it once no caller
// holds or waits on it.
func (r *lockRegistry) lock(sessionID string) func() {
	r.mu.Lock()
	l, ok := r.locks[sessionID]
	if !ok {
		l = &sessionLock{}
		r.locks[sessionID] = l
	}
	l.refs++
	r.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		r.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(r.locks, sessionID)
		}
		r.mu.Unlock()
	}
}
