package repository

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// Playout is one persisted agent run: the board parameters, the
// outcome so far, and a gob snapshot of the board for resuming.
type Playout struct {
	PlayoutId int64
	AccountId *int64
	Width     int
	Height    int
	MineCount int
	Status    string
	Turns     int
	Guesses   int
	State     []byte
	StartedAt pgtype.Timestamptz
	EndedAt   pgtype.Timestamptz
	CreatedAt pgtype.Timestamptz
	UpdatedAt pgtype.Timestamptz
}

type CreatePlayoutParams struct {
	AccountId *int64
	Width     int
	Height    int
	MineCount int
	State     []byte
}

func (q *Queries) CreatePlayout(ctx context.Context, params CreatePlayoutParams) (*Playout, error) {
	args := pgx.NamedArgs{
		"width":      params.Width,
		"height":     params.Height,
		"mine_count": params.MineCount,
		"status":     "playing",
		"state":      params.State,
	}
	if params.AccountId != nil {
		args["account_id"] = *params.AccountId
	}
	rows, _ := q.db.Query(
		ctx,
		`INSERT INTO playout (
			account_id, width, height, mine_count, status, state
		)
		VALUES (
			@account_id, @width, @height, @mine_count, @status, @state
		)
		RETURNING *;`,
		args,
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[Playout])
}

func (q *Queries) FetchPlayout(ctx context.Context, playoutId int64) (*Playout, error) {
	rows, _ := q.db.Query(
		ctx, "SELECT * FROM playout WHERE playout_id = $1", playoutId,
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[Playout])
}

type UpdatePlayoutParams struct {
	Status  *string
	Turns   *int
	Guesses *int
	State   *[]byte
	EndedAt *time.Time
}

func (p UpdatePlayoutParams) SetClause() (string, map[string]any) {
	parts := make([]string, 0)
	args := make(map[string]any)

	if p.Status != nil {
		parts = append(parts, "status = @status")
		args["status"] = *p.Status
	}
	if p.Turns != nil {
		parts = append(parts, "turns = @turns")
		args["turns"] = *p.Turns
	}
	if p.Guesses != nil {
		parts = append(parts, "guesses = @guesses")
		args["guesses"] = *p.Guesses
	}
	if p.State != nil {
		parts = append(parts, "state = @state")
		args["state"] = *p.State
	}
	if p.EndedAt != nil {
		parts = append(parts, "ended_at = @ended_at")
		args["ended_at"] = *p.EndedAt
	}

	return strings.Join(parts, ", "), args
}

func (q *Queries) UpdatePlayout(
	ctx context.Context, playoutId int64, params UpdatePlayoutParams,
) (*Playout, error) {
	setClause, args := params.SetClause()
	args["playout_id"] = playoutId
	rows, _ := q.db.Query(
		ctx,
		"UPDATE playout SET "+setClause+", updated_at = now() WHERE playout_id = @playout_id RETURNING *",
		pgx.NamedArgs(args),
	)
	return pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[Playout])
}
