package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
)

type LeaderboardEntry struct {
	PlayoutId  int64   `json:"playout_id"`
	Username   *string `json:"username"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	MineCount  int     `json:"mine_count"`
	Turns      int     `json:"turns"`
	Guesses    int     `json:"guesses"`
	PlaytimeMs float64 `json:"playtime_ms"`
}

type LeaderboardFilter struct {
	Username  *string
	Width     *int
	Height    *int
	MineCount *int
}

func (f LeaderboardFilter) WhereClause() (string, pgx.NamedArgs) {
	clauses := make([]string, 0)
	args := pgx.NamedArgs{}
	if f.Username != nil {
		clauses = append(clauses, "username = @username")
		args["username"] = *f.Username
	}
	if f.Width != nil {
		clauses = append(clauses, "width = @width")
		args["width"] = *f.Width
	}
	if f.Height != nil {
		clauses = append(clauses, "height = @height")
		args["height"] = *f.Height
	}
	if f.MineCount != nil {
		clauses = append(clauses, "mine_count = @mine_count")
		args["mine_count"] = *f.MineCount
	}
	return strings.Join(clauses, " AND "), args
}

// GetLeaderboard lists won playouts, fewest guesses first, then
// fewest turns, then fastest.
func (q *Queries) GetLeaderboard(
	ctx context.Context, filter LeaderboardFilter,
) ([]LeaderboardEntry, error) {
	query := `
	SELECT
		playout_id,
		username,
		width,
		height,
		mine_count,
		turns,
		guesses,
		(
			extract('epoch' from ended_at) -
			extract('epoch' from started_at)
		) * 1000 playtime_ms
	FROM playout
		LEFT OUTER JOIN account using (account_id)
	WHERE
		status = 'won'
		AND ended_at IS NOT NULL
	`

	whereClause, args := filter.WhereClause()
	if whereClause != "" {
		query += " AND " + whereClause
	}

	query += " ORDER BY guesses, turns, playtime_ms;"

	rows, err := q.db.Query(ctx, query, args)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[LeaderboardEntry])
}
