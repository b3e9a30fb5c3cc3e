package app

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"time"

	"github.com/ddshop/reports-manager/internal/auth/jwt"
	"github.com/go-chi/jwtauth/v5"
	"github.com/go-chi/render"
)

const refreshTokenSub = "refresh"

type AuthRequest struct {
	Password     string `json:"password,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

func (ar *AuthRequest) Bind(r *http.Request) error {
	if ar.Password == "" && ar.RefreshToken == "" {
		return fmt.Errorf("either password or refresh token is required")
	}
	return nil
}

type AuthResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func (ar *AuthResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

func (s *Server) issueTokens() (*AuthResponse, error) {
	ts, err := jwt.NewToken(s.jwtAuth, s.c.JWTTTL)
	if err != nil {
		return nil, err
	}
	rts, err := jwt.NewTokenWithSubject(s.jwtAuth, 24*time.Hour, refreshTokenSub)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{
		AccessToken:  ts,
		RefreshToken: rts,
	}, nil
}

// auth issues an access/refresh token pair for the master password or a
// valid refresh token.
func (s *Server) auth(w http.ResponseWriter, r *http.Request) {
	ar := &AuthRequest{}
	if err := render.Bind(r, ar); err != nil {
		_ = render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	authorized := false
	if ar.Password != "" {
		if subtle.ConstantTimeCompare([]byte(ar.Password), []byte(s.c.MasterPassword)) == 1 {
			authorized = true
		}
	}
	if !authorized && ar.RefreshToken != "" {
		sub, err := jwt.VerifyToken(s.jwtAuth, ar.RefreshToken)
		if err == nil && sub == refreshTokenSub {
			authorized = true
		}
	}
	if !authorized {
		_ = render.Render(w, r, ErrUnauthorized(fmt.Errorf("invalid credentials")))
		return
	}

	tokens, err := s.issueTokens()
	if err != nil {
		_ = render.Render(w, r, ErrInternalServerError(err))
		return
	}
	_ = render.Render(w, r, tokens)
}

// Authenticator rejects requests without a valid, unexpired access token.
// Refresh tokens are not accepted on API routes.
func (s *Server) Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, _, err := jwtauth.FromContext(r.Context())
		if err != nil || token == nil {
			_ = render.Render(w, r, ErrUnauthorized(fmt.Errorf("missing or invalid token")))
			return
		}
		if token.Subject() == refreshTokenSub {
			_ = render.Render(w, r, ErrUnauthorized(fmt.Errorf("refresh token not accepted here")))
			return
		}
		next.ServeHTTP(w, r)
	})
}
