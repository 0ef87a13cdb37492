// Finplay - Desktop Media Client Core for Jellyfin
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finplay

package playback

import (
	"sync"
	"time"
)

// Player is the slice of the video engine the playback core needs.
type Player interface {
	Position() time.Duration
	SetMute(muted bool)
	IsMuted() bool
}

// Seeker is implemented by players that can jump to a position.
type Seeker interface {
	Seek(position time.Duration) error
}

// Pauser is implemented by players that expose their pause state.
type Pauser interface {
	IsPaused() bool
}

// Registry owns the live players. Sessions hold a Handle instead of the
// player itself, so a player torn down by the UI is never called again.
type Registry struct {
	mu      sync.RWMutex
	nextID  uint64
	players map[uint64]Player
}

// NewRegistry creates an empty player registry.
func NewRegistry() *Registry {
	return &Registry{players: make(map[uint64]Player)}
}

// Register adds p and returns a handle to it.
func (r *Registry) Register(p Player) Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	r.players[r.nextID] = p
	return Handle{ID: r.nextID, registry: r}
}

// Unregister removes the player behind h. Handles to it report not alive.
func (r *Registry) Unregister(h Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.players, h.ID)
}

// Len returns the number of live players.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.players)
}

func (r *Registry) lookup(id uint64) (Player, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.players[id]
	return p, ok
}

// Handle is a non-owning reference to a registered player.
type Handle struct {
	ID       uint64
	registry *Registry
}

// Player returns the player if it is still registered.
func (h Handle) Player() (Player, bool) {
	if h.registry == nil {
		return nil, false
	}
	return h.registry.lookup(h.ID)
}

// Alive reports whether the player is still registered.
func (h Handle) Alive() bool {
	_, ok := h.Player()
	return ok
}
