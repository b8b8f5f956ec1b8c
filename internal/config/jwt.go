package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// JWT defaults. JWT_TTL wins over JWT_EXPIRATION_HOURS when both are set.
const (
	DefaultJWTTTL    = 24 * time.Hour
	DefaultJWTIssuer = "resume-tailor"
	MinJWTSecretLen  = 32
)

// JWTConfig holds the signing secret and token policy for the HTTP API.
type JWTConfig struct {
	Secret string        `validate:"required,min=32"`
	TTL    time.Duration `validate:"min=1m"`
	Issuer string        `validate:"required"`
	// Leeway tolerates clock skew between this service and its clients.
	Leeway time.Duration `validate:"min=0,max=5m"`
}

// NewJWTConfig builds a JWTConfig from JWT_SECRET (required), JWT_TTL or
// JWT_EXPIRATION_HOURS, JWT_ISSUER and JWT_LEEWAY.
func NewJWTConfig() (*JWTConfig, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required but not set")
	}

	cfg := &JWTConfig{
		Secret: secret,
		TTL:    DefaultJWTTTL,
		Issuer: DefaultJWTIssuer,
		Leeway: 30 * time.Second,
	}

	switch {
	case os.Getenv("JWT_TTL") != "":
		ttl, err := time.ParseDuration(os.Getenv("JWT_TTL"))
		if err != nil {
			return nil, fmt.Errorf("invalid JWT_TTL: %w", err)
		}
		cfg.TTL = ttl
	case os.Getenv("JWT_EXPIRATION_HOURS") != "":
		hours, err := strconv.Atoi(os.Getenv("JWT_EXPIRATION_HOURS"))
		if err != nil {
			return nil, fmt.Errorf("invalid JWT_EXPIRATION_HOURS: %w", err)
		}
		cfg.TTL = time.Duration(hours) * time.Hour
	}
	if issuer := strings.TrimSpace(os.Getenv("JWT_ISSUER")); issuer != "" {
		cfg.Issuer = issuer
	}
	if raw := os.Getenv("JWT_LEEWAY"); raw != "" {
		leeway, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid JWT_LEEWAY: %w", err)
		}
		cfg.Leeway = leeway
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// OptionalJWTConfig is NewJWTConfig for deployments where authentication is
// opt-in: it returns nil without error when JWT_SECRET is unset.
func OptionalJWTConfig() (*JWTConfig, error) {
	if os.Getenv("JWT_SECRET") == "" {
		return nil, nil
	}
	return NewJWTConfig()
}

// Validate reports the first policy violation in environment-variable terms.
func (c *JWTConfig) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	fe := fieldErrs[0]
	switch fe.Field() {
	case "Secret":
		return fmt.Errorf("JWT_SECRET must be at least %d bytes", MinJWTSecretLen)
	case "TTL":
		return fmt.Errorf("JWT_TTL must be at least 1m, got %v", c.TTL)
	case "Issuer":
		return fmt.Errorf("JWT_ISSUER cannot be blank")
	case "Leeway":
		return fmt.Errorf("JWT_LEEWAY must be between 0 and 5m, got %v", c.Leeway)
	}
	return fmt.Errorf("invalid JWT configuration: %s", fe.Error())
}
