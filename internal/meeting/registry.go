package meeting

import "sync"

// Registry tracks which Sessions are live in each meeting. It holds
// non-owning references only; a Session is owned by its connection.
type Registry struct {
	mu       sync.RWMutex
	meetings map[string][]*Session
}

func NewRegistry() *Registry {
	return &Registry{meetings: make(map[string][]*Session)}
}

// Join adds s to the meeting, preserving insertion order. No-op if s is
// already a member.
func (r *Registry) Join(meetingID string, s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range r.meetings[meetingID] {
		if m == s {
			return
		}
	}
	r.meetings[meetingID] = append(r.meetings[meetingID], s)
}

// Leave removes s from the meeting. Safe to call for an unknown meeting or a
// Session that never joined, and safe to call twice.
func (r *Registry) Leave(meetingID string, s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.meetings[meetingID]
	if !ok {
		return
	}

	kept := members[:0]
	for _, m := range members {
		if m != s {
			kept = append(kept, m)
		}
	}
	if len(kept) == 0 {
		delete(r.meetings, meetingID)
		return
	}
	r.meetings[meetingID] = kept
}

// MembersOf returns a snapshot of the meeting's members in join order.
// Returns an empty slice for an unknown meeting.
func (r *Registry) MembersOf(meetingID string) []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members := r.meetings[meetingID]
	out := make([]*Session, len(members))
	copy(out, members)
	return out
}
