package app

import (
	"fmt"
	"time"

	"github.com/ddshop/reports-manager/internal/auth"
	"github.com/ddshop/reports-manager/internal/dependency"
	"github.com/ddshop/reports-manager/internal/ratelimit"
	"github.com/go-chi/jwtauth/v5"
)

// Server holds the API handlers and their collaborators.
type Server struct {
	db      dependency.Repository
	stats   dependency.Stats
	jwtAuth *jwtauth.JWTAuth
	limiter *ratelimit.Limiter
	c       *auth.Config
}

func NewServer(c *auth.Config, db dependency.Repository, engine dependency.Stats) (*Server, error) {
	if c.JWTSecret == "" {
		return nil, fmt.Errorf("jwt secret is empty")
	}
	if c.JWTTTL == 0 {
		c.JWTTTL = 15 * time.Minute
	}
	return &Server{
		db:      db,
		stats:   engine,
		jwtAuth: jwtauth.New("HS256", []byte(c.JWTSecret), nil),
		limiter: ratelimit.NewLimiter(time.Minute, 120),
		c:       c,
	}, nil
}
