// Package mpesa simulates the M-Pesa STK push flow: a prompt is "sent" to the
// customer's phone, the call resolves after a fixed latency, and the outcome
// is drawn from a configurable random source. No real gateway is involved.
package mpesa

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"acefreelance/internal/logging"
	"acefreelance/internal/model"

	luhn "github.com/EClaesson/go-luhn"
)

const (
	DefaultLatency     = 3 * time.Second
	DefaultSuccessRate = 0.8

	referencePrefix = "MPESA_"
)

type Result struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Reference string `json:"reference,omitempty"`
}

type Simulator struct {
	latency     time.Duration
	successRate float64
	randFloat   func() float64
}

// NewSimulator builds a simulator. A nil randFloat gets a time-seeded source,
// matching the original behavior; tests inject a deterministic one.
func NewSimulator(latency time.Duration, successRate float64, randFloat func() float64) *Simulator {
	if randFloat == nil {
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		randFloat = rng.Float64
	}
	return &Simulator{
		latency:     latency,
		successRate: successRate,
		randFloat:   randFloat,
	}
}

// ValidatePhone enforces the caller-side precondition: local mobile prefix
// "07" and exactly 10 characters. Anything else fails before any timer cost.
func ValidatePhone(phone string) error {
	if !strings.HasPrefix(phone, "07") || len(phone) != 10 {
		return model.ErrInvalidPhoneNumber
	}
	return nil
}

// Push validates the phone number, waits out the simulated latency and
// resolves the payment. A failed outcome carries no reference and leaves the
// caller free to retry immediately.
func (s *Simulator) Push(ctx context.Context, phone string, amount int64, description string) (*Result, error) {
	if err := ValidatePhone(phone); err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, model.ErrInvalidAmount
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(s.latency):
	}

	if s.randFloat() >= s.successRate {
		logging.Logg.Info("STK push declined", "phone", phone, "amount", amount)
		return &Result{
			Success: false,
			Message: "Payment failed. Please try again.",
		}, nil
	}

	ref := NewReference()
	logging.Logg.Info("STK push accepted", "phone", phone, "amount", amount, "reference", ref)
	return &Result{
		Success:   true,
		Message:   "Payment initiated successfully",
		Reference: ref,
	}, nil
}

// NewReference generates a provider transaction id: a millisecond timestamp
// body with a Luhn check digit, under the MPESA_ prefix.
func NewReference() string {
	body := fmt.Sprintf("%d", time.Now().UnixMilli())
	for d := 0; d < 10; d++ {
		candidate := body + strconv.Itoa(d)
		if ok, err := luhn.IsValid(candidate); err == nil && ok {
			return referencePrefix + candidate
		}
	}
	// unreachable: exactly one check digit satisfies Luhn
	return referencePrefix + body + "0"
}

// ValidReference reports whether ref looks like a reference this simulator
// issued: the prefix plus a Luhn-valid digit string.
func ValidReference(ref string) bool {
	body, found := strings.CutPrefix(ref, referencePrefix)
	if !found || body == "" {
		return false
	}
	ok, err := luhn.IsValid(body)
	return err == nil && ok
}
