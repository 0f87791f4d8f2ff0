package config

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

/*
Tokens signs and verifies the bearer tokens the API hands out on
register/login. HS256 with a shared secret from the environment;
signed-in state only gates playout ownership and leaderboard
attribution, nothing that warrants a key pair.
*/
type Tokens struct {
	secret        []byte
	signingMethod jwt.SigningMethod
	tokenLifetime time.Duration
}

type AccountClaims struct {
	AccountId int64  `json:"account_id"`
	Username  string `json:"username"`
	jwt.RegisteredClaims
}

func NewTokens() (*Tokens, error) {
	secret, ok := os.LookupEnv("TOKEN_SECRET")
	if !ok {
		return nil, fmt.Errorf("no TOKEN_SECRET env variable set")
	}

	lifetime := time.Hour * 24 * 30
	if lifetimeStr, ok := os.LookupEnv("TOKEN_LIFETIME"); ok {
		parsed, err := time.ParseDuration(lifetimeStr)
		if err != nil {
			return nil, fmt.Errorf("unable to parse TOKEN_LIFETIME: %w", err)
		}
		lifetime = parsed
	}

	return &Tokens{
		secret:        []byte(secret),
		signingMethod: jwt.GetSigningMethod("HS256"),
		tokenLifetime: lifetime,
	}, nil
}

func (t *Tokens) Sign(accountId int64, username string) (string, error) {
	now := time.Now()
	claims := &AccountClaims{
		AccountId: accountId,
		Username:  username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.tokenLifetime)),
		},
	}
	return jwt.NewWithClaims(t.signingMethod, claims).SignedString(t.secret)
}

func (t *Tokens) Parse(tokenString string) (*AccountClaims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&AccountClaims{},
		func(token *jwt.Token) (interface{}, error) {
			return t.secret, nil
		},
		jwt.WithValidMethods([]string{t.signingMethod.Alg()}),
	)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*AccountClaims)
	if !ok {
		return nil, fmt.Errorf("malformed claims")
	}
	return claims, nil
}
