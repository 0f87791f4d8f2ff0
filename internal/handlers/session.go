package handlers

import (
	"fmt"
	"sync"

	"github.com/vancomm/minesweeper-agent/internal/player"
)

/*
A Session is one live playout. The agent serializes one
AddKnowledge/query cycle at a time, so all access to the player
goes through the session lock.
*/
type Session struct {
	mu        sync.Mutex
	PlayoutId int64
	Player    *player.Player
}

// Do runs fn with exclusive access to the session's player.
func (s *Session) Do(fn func(p *player.Player)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.Player)
}

// Sessions keeps live playouts in memory; finished ones survive
// only as database rows.
type Sessions struct {
	mu sync.Mutex
	m  map[int64]*Session
}

func NewSessions() *Sessions {
	return &Sessions{m: make(map[int64]*Session)}
}

func (ss *Sessions) Add(playoutId int64, p *player.Player) *Session {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	session := &Session{PlayoutId: playoutId, Player: p}
	ss.m[playoutId] = session
	return session
}

func (ss *Sessions) Get(playoutId int64) (*Session, error) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	session, ok := ss.m[playoutId]
	if !ok {
		return nil, fmt.Errorf("no live playout %d", playoutId)
	}
	return session, nil
}

func (ss *Sessions) Remove(playoutId int64) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	delete(ss.m, playoutId)
}
