package app

import (
	"github.com/vancomm/minesweeper-agent/internal/handlers"
)

func (a *App) loadRoutes() {
	auth := handlers.NewAuthHandler(a.logger, a.db, a.tokens)
	playout := handlers.NewPlayoutHandler(a.logger, a.db, a.ws)

	a.router.HandleFunc("POST /register", auth.Register)
	a.router.HandleFunc("POST /login", auth.Login)
	a.router.HandleFunc("GET /status", auth.Status)

	a.router.HandleFunc("POST /playout", playout.Create)
	a.router.HandleFunc("GET /playout/{id}", playout.Fetch)
	a.router.HandleFunc("POST /playout/{id}/step", playout.Step)
	a.router.HandleFunc("POST /playout/{id}/run", playout.Run)
	a.router.HandleFunc("/playout/{id}/watch", playout.Watch)

	a.router.HandleFunc("GET /leaderboard", playout.Leaderboard)
}
