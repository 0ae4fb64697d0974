package store

import (
	"database/sql"
	"errors"
	"time"

	"acefreelance/internal/model"

	"github.com/google/uuid"
)

// CreateUser registers a new, inactive account. Email equality is
// case-sensitive, matching the registration check the catalog UI relies on.
func (ms *Database) CreateUser(name, email, phone, passwordHash string) (*model.User, error) {
	if _, err := ms.GetUserByEmail(email); err == nil {
		return nil, model.ErrDuplicateEmail
	} else if !errors.Is(err, model.ErrUserNotFound) {
		return nil, err
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		Phone:        phone,
		PasswordHash: passwordHash,
		Active:       false,
		CreatedAt:    time.Now().UTC(),
	}

	_, err := ms.DB.Exec(
		"INSERT INTO users (id, name, email, phone, password_hash, active, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		user.ID, user.Name, user.Email, user.Phone, user.PasswordHash, user.Active, user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (ms *Database) GetUserByEmail(email string) (*model.User, error) {
	return ms.scanUser(ms.DB.QueryRow(
		"SELECT id, name, email, phone, password_hash, active, created_at FROM users WHERE email = ?", email))
}

func (ms *Database) GetUserByID(id string) (*model.User, error) {
	return ms.scanUser(ms.DB.QueryRow(
		"SELECT id, name, email, phone, password_hash, active, created_at FROM users WHERE id = ?", id))
}

func (ms *Database) scanUser(row *sql.Row) (*model.User, error) {
	var user model.User
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.Phone, &user.PasswordHash, &user.Active, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// ActivateUser flips the account to active. Idempotent.
func (ms *Database) ActivateUser(id string) error {
	res, err := ms.DB.Exec("UPDATE users SET active = 1 WHERE id = ?", id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

func (ms *Database) UserCount() (int, error) {
	var count int
	err := ms.DB.QueryRow("SELECT COUNT(*) FROM users").Scan(&count)
	return count, err
}
