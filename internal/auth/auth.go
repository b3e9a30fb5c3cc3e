package auth

import "time"

// Config configures token issuing for the admin API.
type Config struct {
	JWTSecret      string        `mapstructure:"jwt_secret"`
	MasterPassword string        `mapstructure:"master_password"`
	JWTTTL         time.Duration `mapstructure:"jwt_ttl"`
}
