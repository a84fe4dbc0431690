package server

import (
	"sort"
	"sync"
	"time"
)

// Entry is a registered session.
type Entry struct {
	*Conn
	Expires time.Time
}

// Registry holds live sessions by id.
//
// Entries expire TTL after they were last touched unless they are
// attached to a live websocket.  Expired entries are removed (and
// their connections closed) by Get and Sweep.
type Registry struct {
	TTL time.Duration

	sync.Mutex
	entries map[string]*Entry

	// now is time.Now except in tests.
	now func() time.Time
}

func NewRegistry(ttl time.Duration, size int) *Registry {
	return &Registry{
		TTL:     ttl,
		entries: make(map[string]*Entry, size),
		now:     time.Now,
	}
}

func (r *Registry) expires() time.Time {
	if r.TTL <= 0 {
		return time.Time{}
	}
	return r.now().Add(r.TTL)
}

func (r *Registry) expired(e *Entry, now time.Time) bool {
	if e.Attached() {
		return false
	}
	return !e.Expires.IsZero() && now.After(e.Expires)
}

func (r *Registry) Put(c *Conn) {
	r.Lock()
	r.entries[c.ID] = &Entry{
		Conn:    c,
		Expires: r.expires(),
	}
	r.Unlock()
}

// Rem removes the entry without closing its connection.
func (r *Registry) Rem(id string) {
	r.Lock()
	delete(r.entries, id)
	r.Unlock()
}

// Get returns the live connection and extends its life.
func (r *Registry) Get(id string) *Conn {
	r.Lock()
	e, have := r.entries[id]
	if !have {
		r.Unlock()
		return nil
	}
	if r.expired(e, r.now()) {
		delete(r.entries, id)
		r.Unlock()
		e.Close()
		return nil
	}
	e.Expires = r.expires()
	r.Unlock()
	return e.Conn
}

// Touch extends the entry's life.
func (r *Registry) Touch(id string) {
	r.Lock()
	if e, have := r.entries[id]; have {
		e.Expires = r.expires()
	}
	r.Unlock()
}

// Sweep closes and removes expired entries and returns their ids.
func (r *Registry) Sweep() []string {
	now := r.now()
	var dead []*Entry
	r.Lock()
	for id, e := range r.entries {
		if r.expired(e, now) {
			delete(r.entries, id)
			dead = append(dead, e)
		}
	}
	r.Unlock()

	acc := make([]string, 0, len(dead))
	for _, e := range dead {
		e.Close()
		acc = append(acc, e.ID)
	}
	sort.Strings(acc)
	return acc
}

// IDs returns the sorted ids of the registered sessions.
func (r *Registry) IDs() []string {
	r.Lock()
	acc := make([]string, 0, len(r.entries))
	for id := range r.entries {
		acc = append(acc, id)
	}
	r.Unlock()
	sort.Strings(acc)
	return acc
}

func (r *Registry) Len() int {
	r.Lock()
	defer r.Unlock()
	return len(r.entries)
}
