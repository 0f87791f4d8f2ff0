package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/vancomm/minesweeper-agent/internal/config"
)

type ctxKey int

const CtxAccountClaims ctxKey = iota

/*
Auth parses a bearer token into account claims and stores them in
the request context. Requests without a (valid) token pass
through anonymous; handlers that care check the context.
*/
func Auth(logger *slog.Logger, tokens *config.Tokens) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := tokens.Parse(token)
			if err != nil {
				logger.Debug("unable to parse bearer token", slog.Any("error", err))
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), CtxAccountClaims, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AccountClaims extracts the claims Auth stored, if any.
func AccountClaims(ctx context.Context) (*config.AccountClaims, bool) {
	claims, ok := ctx.Value(CtxAccountClaims).(*config.AccountClaims)
	return claims, ok
}
