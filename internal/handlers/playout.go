package handlers

import (
	"errors"
	"hash/maphash"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vancomm/minesweeper-agent/internal/board"
	"github.com/vancomm/minesweeper-agent/internal/config"
	"github.com/vancomm/minesweeper-agent/internal/middleware"
	"github.com/vancomm/minesweeper-agent/internal/player"
	"github.com/vancomm/minesweeper-agent/internal/repository"
)

type PlayoutHandler struct {
	logger   *slog.Logger
	repo     *repository.Queries
	ws       *config.WebSocket
	sessions *Sessions
}

func NewPlayoutHandler(
	logger *slog.Logger,
	db *pgxpool.Pool,
	ws *config.WebSocket,
) *PlayoutHandler {
	return &PlayoutHandler{
		logger:   logger,
		repo:     repository.New(db),
		ws:       ws,
		sessions: NewSessions(),
	}
}

func newRand(seed *uint64) *rand.Rand {
	if seed != nil {
		return rand.New(rand.NewPCG(*seed, *seed))
	}
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

func (h *PlayoutHandler) Create(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	dto, err := ParseCreatePlayoutDTO(query)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, h.logger, wrapError(err))
		return
	}

	start, err := ParseStartCellDTO(query)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, h.logger, wrapError(err))
		return
	}

	rnd := newRand(dto.Seed)
	b, err := board.New(dto.BoardParams(), rnd)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, h.logger, wrapError(err))
		return
	}

	p := player.New(b, rnd)
	if start != nil {
		if _, ok := p.PlayCell(*start); !ok {
			w.WriteHeader(http.StatusBadRequest)
			sendJSONOrLog(w, h.logger, wrapError(
				errors.New("invalid starting cell"),
			))
			return
		}
	}

	state, err := b.Bytes()
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("unable to encode board state", "error", err)
		return
	}

	params := repository.CreatePlayoutParams{
		Width:     b.Width,
		Height:    b.Height,
		MineCount: b.MineCount,
		State:     state,
	}
	if claims, ok := middleware.AccountClaims(r.Context()); ok {
		params.AccountId = &claims.AccountId
	}

	playout, err := h.repo.CreatePlayout(r.Context(), params)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("unable to insert playout", "error", err)
		return
	}

	h.sessions.Add(playout.PlayoutId, p)

	sendJSONOrLog(w, h.logger, NewPlayoutDTO(playout.PlayoutId, p))
}

func (h *PlayoutHandler) session(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	playoutId, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return nil, false
	}
	session, err := h.sessions.Get(playoutId)
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		sendJSONOrLog(w, h.logger, wrapError(err))
		return nil, false
	}
	return session, true
}

// Fetch reports a live session when one exists, otherwise falls
// back to the persisted playout row.
func (h *PlayoutHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	playoutId, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if session, err := h.sessions.Get(playoutId); err == nil {
		var dto *PlayoutDTO
		session.Do(func(p *player.Player) {
			dto = NewPlayoutDTO(session.PlayoutId, p)
		})
		sendJSONOrLog(w, h.logger, dto)
		return
	}

	playout, err := h.repo.FetchPlayout(r.Context(), playoutId)
	if errors.Is(err, pgx.ErrNoRows) {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("unable to fetch playout", "error", err)
		return
	}
	sendJSONOrLog(w, h.logger, NewPlayoutRecordDTO(playout))
}

func (h *PlayoutHandler) Step(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var dto *PlayoutDTO
	session.Do(func(p *player.Player) {
		p.Step()
		dto = NewPlayoutDTO(session.PlayoutId, p)
	})

	h.persist(r, session)
	sendJSONOrLog(w, h.logger, dto)
}

func (h *PlayoutHandler) Run(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var dto *PlayoutDTO
	session.Do(func(p *player.Player) {
		p.Play()
		dto = NewPlayoutDTO(session.PlayoutId, p)
	})

	h.persist(r, session)
	sendJSONOrLog(w, h.logger, dto)
}

// persist mirrors the session's progress into its playout row
// and drops finished sessions from memory.
func (h *PlayoutHandler) persist(r *http.Request, session *Session) {
	var (
		status   string
		turns    int
		guesses  int
		state    []byte
		finished bool
	)
	session.Do(func(p *player.Player) {
		var err error
		if state, err = p.Board().Bytes(); err != nil {
			h.logger.Error("unable to encode board state", "error", err)
		}
		status = p.Status().String()
		turns = len(p.Turns())
		guesses = p.Guesses()
		finished = p.Status() != player.Playing
	})

	params := repository.UpdatePlayoutParams{
		Status:  &status,
		Turns:   &turns,
		Guesses: &guesses,
	}
	if state != nil {
		params.State = &state
	}
	if finished {
		endedAt := time.Now().UTC()
		params.EndedAt = &endedAt
	}

	if _, err := h.repo.UpdatePlayout(
		r.Context(), session.PlayoutId, params,
	); err != nil && !errors.Is(err, pgx.ErrNoRows) {
		h.logger.Error("unable to update playout", "error", err)
	}

	if finished {
		h.sessions.Remove(session.PlayoutId)
	}
}

func (h *PlayoutHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	filter, err := ParseLeaderboardDTO(r.URL.Query())
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, h.logger, wrapError(err))
		return
	}

	entries, err := h.repo.GetLeaderboard(r.Context(), filter)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("unable to query leaderboard", "error", err)
		return
	}

	sendJSONOrLog(w, h.logger, entries)
}
