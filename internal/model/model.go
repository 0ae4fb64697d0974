package model

import "time"

type User struct {
	ID           string    `json:"id"`     // canonical string identifier
	Name         string    `json:"name"`   // display name
	Email        string    `json:"email"`  // unique, compared case-sensitively
	Phone        string    `json:"phone"`  // Safaricom format 07XXXXXXXX
	PasswordHash string    `json:"-"`      // bcrypt hash, never serialized
	Active       bool      `json:"active"` // flipped by the activation payment
	CreatedAt    time.Time `json:"created_at"`
}

// Task is a catalog entry. The catalog is seeded once and read-only.
type Task struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       int64  `json:"price"` // KES
	Category    string `json:"category"`
	Complexity  string `json:"complexity"`
	Deadline    string `json:"deadline"` // calendar date, YYYY-MM-DD
	Words       int    `json:"words"`
}

// AwardedTask pairs a catalog task with the user it was assigned to.
// It is removed exactly once, together with the earning transaction.
type AwardedTask struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	TaskID      string    `json:"task_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       int64     `json:"price"`
	Deadline    string    `json:"deadline"`
	AwardedAt   time.Time `json:"awarded_at"`
}

type TxKind string

const (
	KindDeposit TxKind = "deposit" // money in
	KindEarning TxKind = "earning" // task completion payout
	KindExpense TxKind = "expense" // fees paid out via M-Pesa
)

type Transaction struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Kind        TxKind    `json:"kind"`
	Amount      int64     `json:"amount"` // always positive, sign comes from the kind
	Description string    `json:"description"`
	Method      string    `json:"method"`              // "system" or "mpesa"
	Phone       string    `json:"phone,omitempty"`     // payer phone for mpesa entries
	Reference   string    `json:"reference,omitempty"` // provider transaction id
	CreatedAt   time.Time `json:"created_at"`
}

// Balance is the dashboard figure set, always derived, never stored.
type Balance struct {
	Earnings int64 `json:"earnings"`
	Deposits int64 `json:"deposits"`
	Expenses int64 `json:"expenses"`
	Balance  int64 `json:"balance"`
}

// PaymentType scopes the side effect of a completed payment.
type PaymentType string

const (
	PaymentActivation PaymentType = "activation" // flips the user to active
	PaymentTraining   PaymentType = "training"
	PaymentNone       PaymentType = "none"
)

func (p PaymentType) Valid() bool {
	switch p {
	case PaymentActivation, PaymentTraining, PaymentNone:
		return true
	}
	return false
}
