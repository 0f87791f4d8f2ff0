package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/vancomm/minesweeper-agent/internal/config"
	"github.com/vancomm/minesweeper-agent/internal/middleware"
	"github.com/vancomm/minesweeper-agent/internal/repository"
)

type AuthHandler struct {
	logger *slog.Logger
	repo   *repository.Queries
	tokens *config.Tokens
}

func NewAuthHandler(
	logger *slog.Logger,
	db *pgxpool.Pool,
	tokens *config.Tokens,
) *AuthHandler {
	return &AuthHandler{
		logger: logger,
		repo:   repository.New(db),
		tokens: tokens,
	}
}

var (
	ErrBadAuthBody        = fmt.Errorf("request body must contain url-encoded username and password")
	ErrBadPasswordTooLong = fmt.Errorf("password too long")
	ErrUsernameTaken      = fmt.Errorf("username taken")
	ErrBadCredentials     = fmt.Errorf("invalid username or password")
)

type tokenResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

func credentials(r *http.Request) (username, password string, err error) {
	if err := r.ParseForm(); err != nil {
		return "", "", err
	}
	username = r.FormValue("username")
	password = r.FormValue("password")
	if username == "" || password == "" {
		return "", "", ErrBadAuthBody
	}
	if len(password) > 72 { // bcrypt input limit
		return "", "", ErrBadPasswordTooLong
	}
	return username, password, nil
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	username, password, err := credentials(r)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, h.logger, wrapError(err))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("unable to hash password", "error", err)
		return
	}

	account, err := h.repo.CreateAccount(r.Context(), repository.CreateAccountParams{
		Username:     username,
		PasswordHash: hash,
	})
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) &&
		pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
		w.WriteHeader(http.StatusConflict)
		sendJSONOrLog(w, h.logger, wrapError(ErrUsernameTaken))
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("unable to insert account", "error", err)
		return
	}

	h.sendToken(w, account)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	username, password, err := credentials(r)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, h.logger, wrapError(err))
		return
	}

	account, err := h.repo.FetchAccount(r.Context(), username)
	if errors.Is(err, pgx.ErrNoRows) {
		w.WriteHeader(http.StatusUnauthorized)
		sendJSONOrLog(w, h.logger, wrapError(ErrBadCredentials))
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("unable to fetch account", "error", err)
		return
	}

	if bcrypt.CompareHashAndPassword(account.PasswordHash, []byte(password)) != nil {
		w.WriteHeader(http.StatusUnauthorized)
		sendJSONOrLog(w, h.logger, wrapError(ErrBadCredentials))
		return
	}

	h.sendToken(w, account)
}

func (h *AuthHandler) sendToken(w http.ResponseWriter, account *repository.Account) {
	token, err := h.tokens.Sign(account.AccountId, account.Username)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		h.logger.Error("unable to sign token", "error", err)
		return
	}
	sendJSONOrLog(w, h.logger, tokenResponse{
		Token:    token,
		Username: account.Username,
	})
}

type statusResponse struct {
	LoggedIn bool    `json:"logged_in"`
	Username *string `json:"username,omitempty"`
}

func (h *AuthHandler) Status(w http.ResponseWriter, r *http.Request) {
	if claims, ok := middleware.AccountClaims(r.Context()); ok {
		sendJSONOrLog(w, h.logger, statusResponse{
			LoggedIn: true,
			Username: &claims.Username,
		})
		return
	}
	sendJSONOrLog(w, h.logger, statusResponse{LoggedIn: false})
}
