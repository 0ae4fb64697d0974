package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() Config {
	return Config{
		Address:          "localhost:8080",
		DBPath:           "acefreelance.db",
		JWTSecret:        "secret",
		LogLevel:         "info",
		ActivationFee:    500,
		TrainingFee:      300,
		MpesaLatency:     3 * time.Second,
		MpesaSuccessRate: 0.8,
	}
}

func TestCheck(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.check())

	cfg = validConfig()
	cfg.Address = ""
	assert.ErrorIs(t, cfg.check(), ErrAddressEmpty)

	cfg = validConfig()
	cfg.DBPath = ""
	assert.ErrorIs(t, cfg.check(), ErrDBPathEmpty)

	cfg = validConfig()
	cfg.JWTSecret = ""
	assert.ErrorIs(t, cfg.check(), ErrJWTSecretEmpty)

	cfg = validConfig()
	cfg.ActivationFee = 0
	assert.ErrorIs(t, cfg.check(), ErrFeeNotPositive)

	cfg = validConfig()
	cfg.MpesaSuccessRate = 1.5
	assert.ErrorIs(t, cfg.check(), ErrBadSuccessRate)

	cfg = validConfig()
	cfg.MpesaLatency = -time.Second
	assert.ErrorIs(t, cfg.check(), ErrLatencyNegative)
}
