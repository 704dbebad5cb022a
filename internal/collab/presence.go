package collab

import (
	"slices"
	"sync"
)

// Peer is what a room knows about one connected user: where their pointer
// is, which shape it is over and which shapes they have selected.
type Peer struct {
	UserID      string     `json:"userId"`
	DisplayName string     `json:"displayName"`
	Cursor      *CursorPos `json:"cursor,omitempty"`
	Hover       string     `json:"hover,omitempty"`
	Selection   []string   `json:"selection,omitempty"`
}

func (p Peer) clone() Peer {
	if p.Cursor != nil {
		c := *p.Cursor
		p.Cursor = &c
	}
	p.Selection = slices.Clone(p.Selection)
	return p
}

// roster holds the peers of one board. Every change merges into the stored
// peer, so a pointer move keeps the selection and a select keeps the
// pointer.
type roster struct {
	mu    sync.Mutex
	peers map[string]*Peer // userID -> peer
}

func newRoster() *roster {
	return &roster{peers: make(map[string]*Peer)}
}

// join adds the user, keeping an existing entry when the user is already
// connected from another client.
func (r *roster) join(userID, displayName string) Peer {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.peers[userID]
	if !ok {
		p = &Peer{UserID: userID}
		r.peers[userID] = p
	}
	p.DisplayName = displayName
	return p.clone()
}

func (r *roster) leave(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.peers, userID)
}

// update applies fn to the user's peer and returns the result. Unknown
// users are ignored.
func (r *roster) update(userID string, fn func(p *Peer)) (Peer, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.peers[userID]
	if !ok {
		return Peer{}, false
	}
	fn(p)
	return p.clone(), true
}

// point records a pointer position and the shape found under it.
func (r *roster) point(userID string, pos CursorPos, target string) (Peer, bool) {
	return r.update(userID, func(p *Peer) {
		p.Cursor = &pos
		p.Hover = target
	})
}

// selectShapes replaces the user's selection. An empty list clears it.
func (r *roster) selectShapes(userID string, ids []string) (Peer, bool) {
	return r.update(userID, func(p *Peer) {
		if len(ids) == 0 {
			p.Selection = nil
			return
		}
		p.Selection = slices.Clone(ids)
	})
}

// snapshot copies every peer, keyed by user ID.
func (r *roster) snapshot() map[string]Peer {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]Peer, len(r.peers))
	for id, p := range r.peers {
		out[id] = p.clone()
	}
	return out
}
