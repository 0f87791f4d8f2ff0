package handlers

import (
	"net/url"
	"strconv"

	"github.com/gorilla/schema"

	"github.com/vancomm/minesweeper-agent/internal/board"
	"github.com/vancomm/minesweeper-agent/internal/knowledge"
	"github.com/vancomm/minesweeper-agent/internal/player"
	"github.com/vancomm/minesweeper-agent/internal/repository"
)

type CreatePlayoutDTO struct {
	Height    int     `schema:"height,required"`
	Width     int     `schema:"width,required"`
	MineCount int     `schema:"mine_count,required"`
	Seed      *uint64 `schema:"seed"`
}

func ParseCreatePlayoutDTO(src url.Values) (CreatePlayoutDTO, error) {
	var dto CreatePlayoutDTO
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	err := dec.Decode(&dto, src)
	return dto, err
}

func (dto CreatePlayoutDTO) BoardParams() board.Params {
	return board.Params{
		Height:    dto.Height,
		Width:     dto.Width,
		MineCount: dto.MineCount,
	}
}

type StartCellDTO struct {
	Row *int `schema:"row"`
	Col *int `schema:"col"`
}

func ParseStartCellDTO(src url.Values) (*knowledge.Cell, error) {
	var dto StartCellDTO
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	if err := dec.Decode(&dto, src); err != nil {
		return nil, err
	}
	if dto.Row == nil || dto.Col == nil {
		return nil, nil
	}
	return &knowledge.Cell{Row: *dto.Row, Col: *dto.Col}, nil
}

type LeaderboardDTO struct {
	Username  *string `schema:"username"`
	Width     *int    `schema:"width"`
	Height    *int    `schema:"height"`
	MineCount *int    `schema:"mine_count"`
}

func ParseLeaderboardDTO(src url.Values) (repository.LeaderboardFilter, error) {
	var dto LeaderboardDTO
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	err := dec.Decode(&dto, src)
	return repository.LeaderboardFilter(dto), err
}

type PlayoutDTO struct {
	PlayoutId  string           `json:"playout_id"`
	Height     int              `json:"height"`
	Width      int              `json:"width"`
	MineCount  int              `json:"mine_count"`
	Status     string           `json:"status"`
	Turns      []player.Turn    `json:"turns"`
	Guesses    int              `json:"guesses"`
	Grid       string           `json:"grid"`
	KnownMines []knowledge.Cell `json:"known_mines"`
	KnownSafes []knowledge.Cell `json:"known_safes"`
}

// PlayoutRecordDTO is the persisted view of a playout, served
// once its live session is gone.
type PlayoutRecordDTO struct {
	PlayoutId string `json:"playout_id"`
	Height    int    `json:"height"`
	Width     int    `json:"width"`
	MineCount int    `json:"mine_count"`
	Status    string `json:"status"`
	Turns     int    `json:"turns"`
	Guesses   int    `json:"guesses"`
	StartedAt int64  `json:"started_at"`
	EndedAt   *int64 `json:"ended_at,omitempty"`
}

func NewPlayoutRecordDTO(p *repository.Playout) *PlayoutRecordDTO {
	dto := &PlayoutRecordDTO{
		PlayoutId: strconv.FormatInt(p.PlayoutId, 10),
		Height:    p.Height,
		Width:     p.Width,
		MineCount: p.MineCount,
		Status:    p.Status,
		Turns:     p.Turns,
		Guesses:   p.Guesses,
		StartedAt: p.StartedAt.Time.UnixMilli(),
	}
	if p.EndedAt.Valid {
		endedAt := p.EndedAt.Time.UnixMilli()
		dto.EndedAt = &endedAt
	}
	return dto
}

func NewPlayoutDTO(playoutId int64, p *player.Player) *PlayoutDTO {
	b := p.Board()
	return &PlayoutDTO{
		PlayoutId:  strconv.FormatInt(playoutId, 10),
		Height:     b.Height,
		Width:      b.Width,
		MineCount:  b.MineCount,
		Status:     p.Status().String(),
		Turns:      p.Turns(),
		Guesses:    p.Guesses(),
		Grid:       b.String(),
		KnownMines: p.Agent().KnownMines(),
		KnownSafes: p.Agent().KnownSafes(),
	}
}
