package config

import (
	"errors"
	"flag"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Address          string        `env:"RUN_ADDRESS"`
	DBPath           string        `env:"DATABASE_PATH"`
	JWTSecret        string        `env:"JWT_SECRET"`
	LogLevel         string        `env:"LOG_LEVEL"`
	ActivationFee    int64         `env:"ACTIVATION_FEE"`
	TrainingFee      int64         `env:"TRAINING_FEE"`
	MpesaLatency     time.Duration `env:"MPESA_LATENCY"`
	MpesaSuccessRate float64       `env:"MPESA_SUCCESS_RATE"`
}

var (
	ErrAddressEmpty    = errors.New("address is an empty string")
	ErrDBPathEmpty     = errors.New("database path is an empty string")
	ErrJWTSecretEmpty  = errors.New("jwt secret is an empty string")
	ErrFeeNotPositive  = errors.New("fees must be positive")
	ErrBadSuccessRate  = errors.New("mpesa success rate must be within [0, 1]")
	ErrLatencyNegative = errors.New("mpesa latency must not be negative")
)

func (cfg *Config) check() error {
	var errs []error

	if len(cfg.Address) == 0 {
		errs = append(errs, ErrAddressEmpty)
	}
	if len(cfg.DBPath) == 0 {
		errs = append(errs, ErrDBPathEmpty)
	}
	if len(cfg.JWTSecret) == 0 {
		errs = append(errs, ErrJWTSecretEmpty)
	}
	if cfg.ActivationFee <= 0 || cfg.TrainingFee <= 0 {
		errs = append(errs, ErrFeeNotPositive)
	}
	if cfg.MpesaSuccessRate < 0 || cfg.MpesaSuccessRate > 1 {
		errs = append(errs, ErrBadSuccessRate)
	}
	if cfg.MpesaLatency < 0 {
		errs = append(errs, ErrLatencyNegative)
	}
	return errors.Join(errs...)
}

// ParseFlags fills the config from command-line flags, then lets environment
// variables override them.
func (cfg *Config) ParseFlags() error {
	flag.StringVar(&cfg.Address, "a", "localhost:8080", "Service address and port")
	flag.StringVar(&cfg.DBPath, "d", "acefreelance.db", "Path to the sqlite database file")
	flag.StringVar(&cfg.JWTSecret, "s", "supersecretkey", "Signing secret for session tokens")
	flag.StringVar(&cfg.LogLevel, "l", "info", "Log level (debug, info, warn, error)")
	flag.Int64Var(&cfg.ActivationFee, "activation-fee", 500, "Account activation fee, KES")
	flag.Int64Var(&cfg.TrainingFee, "training-fee", 300, "Training enrollment fee, KES")
	flag.DurationVar(&cfg.MpesaLatency, "mpesa-latency", 3*time.Second, "Simulated STK push latency")
	flag.Float64Var(&cfg.MpesaSuccessRate, "mpesa-success-rate", 0.8, "Simulated STK push success probability")

	flag.Parse()

	if err := env.Parse(cfg); err != nil {
		return err
	}
	return cfg.check()
}
