package game

// DefaultMaxFollowers is the stock roster capacity.
const DefaultMaxFollowers = 50

// Roster is a leader's ordered, capacity-bounded list of followers. A
// member's position in the list is its formation slot index. Only the
// owning leader mutates it.
type Roster struct {
	members  []Handle
	capacity int
}

// NewRoster creates an empty roster holding at most capacity members.
func NewRoster(capacity int) *Roster {
	if capacity < 0 {
		capacity = 0
	}
	return &Roster{capacity: capacity}
}

// Add appends h. It returns false when the roster is full, h is already a
// member, or h is NoHandle.
func (r *Roster) Add(h Handle) bool {
	if h == NoHandle || len(r.members) >= r.capacity {
		return false
	}
	if _, ok := r.IndexOf(h); ok {
		return false
	}
	r.members = append(r.members, h)
	return true
}

// Remove deletes h, shifting later members forward one slot. It returns
// false when h is not a member.
func (r *Roster) Remove(h Handle) bool {
	i, ok := r.IndexOf(h)
	if !ok {
		return false
	}
	r.members = append(r.members[:i], r.members[i+1:]...)
	return true
}

// IndexOf returns the slot index of h.
func (r *Roster) IndexOf(h Handle) (int, bool) {
	for i, m := range r.members {
		if m == h {
			return i, true
		}
	}
	return -1, false
}

// Contains reports whether h is a member.
func (r *Roster) Contains(h Handle) bool {
	_, ok := r.IndexOf(h)
	return ok
}

// Count returns the number of members.
func (r *Roster) Count() int { return len(r.members) }

// Capacity returns the maximum number of members.
func (r *Roster) Capacity() int { return r.capacity }

// Members returns a copy of the members in slot order.
func (r *Roster) Members() []Handle {
	out := make([]Handle, len(r.members))
	copy(out, r.members)
	return out
}
