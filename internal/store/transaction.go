package store

import (
	"time"

	"acefreelance/internal/logging"
	"acefreelance/internal/model"

	"github.com/google/uuid"
)

// CreateTransaction appends one ledger entry. Entries are never updated or
// deleted; every balance figure is derived from them on demand.
func (ms *Database) CreateTransaction(userID string, kind model.TxKind, amount int64, description, method, phone, reference string) (*model.Transaction, error) {
	if amount <= 0 {
		return nil, model.ErrInvalidAmount
	}

	t := &model.Transaction{
		ID:          uuid.NewString(),
		UserID:      userID,
		Kind:        kind,
		Amount:      amount,
		Description: description,
		Method:      method,
		Phone:       phone,
		Reference:   reference,
		CreatedAt:   time.Now().UTC(),
	}

	_, err := ms.DB.Exec(
		"INSERT INTO transactions (id, user_id, kind, amount, description, method, phone, reference, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		t.ID, t.UserID, t.Kind, t.Amount, t.Description, t.Method, t.Phone, t.Reference, t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (ms *Database) sumOfKind(userID string, kind model.TxKind) (int64, error) {
	var sum int64
	err := ms.DB.QueryRow(
		"SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE user_id = ? AND kind = ?",
		userID, kind).Scan(&sum)
	return sum, err
}

func (ms *Database) EarningsOf(userID string) (int64, error) {
	return ms.sumOfKind(userID, model.KindEarning)
}

func (ms *Database) DepositsOf(userID string) (int64, error) {
	return ms.sumOfKind(userID, model.KindDeposit)
}

func (ms *Database) ExpensesOf(userID string) (int64, error) {
	return ms.sumOfKind(userID, model.KindExpense)
}

// BalanceOf is deposits + earnings - expenses, recomputed on every call.
func (ms *Database) BalanceOf(userID string) (int64, error) {
	b, err := ms.GetBalance(userID)
	if err != nil {
		return 0, err
	}
	return b.Balance, nil
}

func (ms *Database) GetBalance(userID string) (*model.Balance, error) {
	var b model.Balance
	var err error

	if b.Earnings, err = ms.EarningsOf(userID); err != nil {
		return nil, err
	}
	if b.Deposits, err = ms.DepositsOf(userID); err != nil {
		return nil, err
	}
	if b.Expenses, err = ms.ExpensesOf(userID); err != nil {
		return nil, err
	}
	b.Balance = b.Deposits + b.Earnings - b.Expenses
	return &b, nil
}

// GetTransactions returns the user's ledger, newest first.
func (ms *Database) GetTransactions(userID string) ([]model.Transaction, error) {
	rows, err := ms.DB.Query(
		"SELECT id, user_id, kind, amount, description, method, phone, reference, created_at FROM transactions WHERE user_id = ? ORDER BY rowid DESC",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []model.Transaction
	for rows.Next() {
		var t model.Transaction
		err := rows.Scan(&t.ID, &t.UserID, &t.Kind, &t.Amount, &t.Description, &t.Method, &t.Phone, &t.Reference, &t.CreatedAt)
		if err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

// CommitPayment applies a successful M-Pesa payment: the expense entry and,
// for an activation payment, the active flag flip land in one database
// transaction, so a partial application cannot be observed.
func (ms *Database) CommitPayment(userID string, amount int64, description, phone, reference string, paymentType model.PaymentType) (*model.Transaction, error) {
	if amount <= 0 {
		return nil, model.ErrInvalidAmount
	}

	tx, err := ms.DB.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	expense := &model.Transaction{
		ID:          uuid.NewString(),
		UserID:      userID,
		Kind:        model.KindExpense,
		Amount:      amount,
		Description: description,
		Method:      "mpesa",
		Phone:       phone,
		Reference:   reference,
		CreatedAt:   time.Now().UTC(),
	}
	_, err = tx.Exec(
		"INSERT INTO transactions (id, user_id, kind, amount, description, method, phone, reference, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		expense.ID, expense.UserID, expense.Kind, expense.Amount, expense.Description, expense.Method, expense.Phone, expense.Reference, expense.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if paymentType == model.PaymentActivation {
		res, err := tx.Exec("UPDATE users SET active = 1 WHERE id = ?", userID)
		if err != nil {
			return nil, err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return nil, err
		}
		if affected == 0 {
			return nil, model.ErrUserNotFound
		}
	}

	if err = tx.Commit(); err != nil {
		logging.Logg.Error("Failed to commit payment", "user", userID, "error", err)
		return nil, err
	}
	return expense, nil
}
