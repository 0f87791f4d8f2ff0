package player

import (
	"encoding/json"
	"math/rand/v2"
	"time"

	"github.com/gammazero/deque"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-agent/internal/board"
	"github.com/vancomm/minesweeper-agent/internal/knowledge"
)

var Log *logrus.Logger

func init() {
	Log = logrus.New()
}

type Status int8

const (
	Playing Status = iota
	Won
	Lost
	Stalled // no cell left to play
)

func (s Status) String() string {
	switch s {
	case Playing:
		return "playing"
	case Won:
		return "won"
	case Lost:
		return "lost"
	case Stalled:
		return "stalled"
	default:
		return "?"
	}
}

// [Status] implements [json.Marshaler]
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Turn records a single move the player made.
type Turn struct {
	Cell   knowledge.Cell `json:"cell"`
	Guess  bool           `json:"guess"`
	Count  int            `json:"count"` // adjacency count, -1 on a mine
	Status Status         `json:"status"`
}

/*
A Player drives one agent against one board: it asks the agent
for a move, opens the cell, and feeds the adjacency count back.
Safe cells the agent proves along the way are queued up and
played before any guessing happens.
*/
type Player struct {
	board *board.Board
	agent *knowledge.Agent

	pending deque.Deque[knowledge.Cell]
	queued  map[knowledge.Cell]struct{}

	status    Status
	turns     []Turn
	guesses   int
	startedAt time.Time
}

func New(b *board.Board, r *rand.Rand) *Player {
	return &Player{
		board:     b,
		agent:     knowledge.NewAgent(b.Height, b.Width, r),
		queued:    make(map[knowledge.Cell]struct{}),
		startedAt: time.Now().UTC(),
	}
}

func (p *Player) Status() Status {
	return p.status
}

func (p *Player) Board() *board.Board {
	return p.board
}

func (p *Player) Agent() *knowledge.Agent {
	return p.agent
}

func (p *Player) Turns() []Turn {
	return p.turns
}

func (p *Player) Guesses() int {
	return p.guesses
}

func (p *Player) StartedAt() time.Time {
	return p.startedAt
}

// nextMove pops the pending queue down to the first still
// unplayed cell, then falls back to the agent's queries.
func (p *Player) nextMove() (move knowledge.Cell, guess, ok bool) {
	for p.pending.Len() > 0 {
		c := p.pending.PopFront()
		delete(p.queued, c)
		if !p.agent.HasPlayed(c) {
			return c, false, true
		}
	}
	if move, ok := p.agent.SafeMove(); ok {
		return move, false, true
	}
	if move, ok := p.agent.RandomMove(); ok {
		return move, true, true
	}
	return knowledge.Cell{}, false, false
}

func (p *Player) enqueueSafes() {
	for _, c := range p.agent.KnownSafes() {
		if p.agent.HasPlayed(c) {
			continue
		}
		if _, ok := p.queued[c]; ok {
			continue
		}
		p.queued[c] = struct{}{}
		p.pending.PushBack(c)
	}
}

// flagMines mirrors the agent's proven mines onto the board,
// which is what the flag-based win condition checks.
func (p *Player) flagMines() {
	for _, c := range p.agent.KnownMines() {
		p.board.Flag(c)
	}
}

/*
Step plays a single turn and returns its record. Once the game
has reached a terminal state further calls return ok=false.
*/
func (p *Player) Step() (turn Turn, ok bool) {
	if p.status != Playing {
		return Turn{}, false
	}

	move, guess, ok := p.nextMove()
	if !ok {
		p.status = Stalled
		Log.Warn("no cell left to play")
		return Turn{Status: p.status}, false
	}

	return p.play(move, guess)
}

// PlayCell plays a specific cell, e.g. a caller-chosen starting
// position. Cells already played are rejected.
func (p *Player) PlayCell(move knowledge.Cell) (turn Turn, ok bool) {
	if p.status != Playing || !p.board.InBounds(move) || p.agent.HasPlayed(move) {
		return Turn{}, false
	}
	return p.play(move, false)
}

func (p *Player) play(move knowledge.Cell, guess bool) (turn Turn, ok bool) {
	if guess {
		p.guesses++
	}

	count, mined := p.board.Open(move)
	if mined {
		p.status = Lost
		turn = Turn{Cell: move, Guess: guess, Count: -1, Status: p.status}
		p.turns = append(p.turns, turn)
		Log.WithFields(logrus.Fields{
			"cell": move, "guess": guess,
		}).Info("opened a mine")
		return turn, true
	}

	p.agent.AddKnowledge(move, count)
	p.enqueueSafes()
	p.flagMines()

	if p.board.Won() {
		p.status = Won
	}

	turn = Turn{Cell: move, Guess: guess, Count: count, Status: p.status}
	p.turns = append(p.turns, turn)
	Log.WithFields(logrus.Fields{
		"cell":   move,
		"guess":  guess,
		"count":  count,
		"status": p.status,
	}).Debug("turn played")
	return turn, true
}

// Play runs the game to a terminal state and returns it.
func (p *Player) Play() Status {
	for p.status == Playing {
		if _, ok := p.Step(); !ok {
			break
		}
	}
	return p.status
}

// Summary of a finished (or abandoned) playout, the shape that
// gets persisted.
type Summary struct {
	Status    Status        `json:"status"`
	Turns     int           `json:"turns"`
	Guesses   int           `json:"guesses"`
	Duration  time.Duration `json:"duration"`
	MinesLeft int           `json:"mines_left"`
}

func (p *Player) Summary() Summary {
	return Summary{
		Status:    p.status,
		Turns:     len(p.turns),
		Guesses:   p.guesses,
		Duration:  time.Since(p.startedAt),
		MinesLeft: p.board.MineCount - len(p.agent.KnownMines()),
	}
}
