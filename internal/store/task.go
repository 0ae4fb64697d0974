package store

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"acefreelance/internal/logging"
	"acefreelance/internal/model"

	"github.com/google/uuid"
)

func (ms *Database) GetTasks() ([]model.Task, error) {
	rows, err := ms.DB.Query(
		"SELECT id, title, description, price, category, complexity, deadline, words FROM tasks ORDER BY rowid")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		var t model.Task
		err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Price, &t.Category, &t.Complexity, &t.Deadline, &t.Words)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (ms *Database) GetTaskByID(id string) (*model.Task, error) {
	var t model.Task
	err := ms.DB.QueryRow(
		"SELECT id, title, description, price, category, complexity, deadline, words FROM tasks WHERE id = ?", id).
		Scan(&t.ID, &t.Title, &t.Description, &t.Price, &t.Category, &t.Complexity, &t.Deadline, &t.Words)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrTaskNotFound
		}
		return nil, err
	}
	return &t, nil
}

// AwardTask assigns a catalog task to a user. At most one outstanding award
// per (user, task) pair.
func (ms *Database) AwardTask(userID, taskID string) (*model.AwardedTask, error) {
	task, err := ms.GetTaskByID(taskID)
	if err != nil {
		return nil, err
	}

	award := &model.AwardedTask{
		ID:          uuid.NewString(),
		UserID:      userID,
		TaskID:      task.ID,
		Title:       task.Title,
		Description: task.Description,
		Price:       task.Price,
		Deadline:    task.Deadline,
		AwardedAt:   time.Now().UTC(),
	}

	_, err = ms.DB.Exec(
		"INSERT INTO awarded_tasks (id, user_id, task_id, title, description, price, deadline, awarded_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		award.ID, award.UserID, award.TaskID, award.Title, award.Description, award.Price, award.Deadline, award.AwardedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, model.ErrAlreadyAwarded
		}
		return nil, err
	}
	return award, nil
}

// GetAwardedTasks returns the user's outstanding awards in insertion order.
func (ms *Database) GetAwardedTasks(userID string) ([]model.AwardedTask, error) {
	rows, err := ms.DB.Query(
		"SELECT id, user_id, task_id, title, description, price, deadline, awarded_at FROM awarded_tasks WHERE user_id = ? ORDER BY rowid",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var awards []model.AwardedTask
	for rows.Next() {
		var a model.AwardedTask
		err := rows.Scan(&a.ID, &a.UserID, &a.TaskID, &a.Title, &a.Description, &a.Price, &a.Deadline, &a.AwardedAt)
		if err != nil {
			return nil, err
		}
		awards = append(awards, a)
	}
	return awards, rows.Err()
}

// CompleteAward removes the award and appends the matching earning in one
// database transaction. A missing or foreign award is ErrAwardNotFound, never
// a silent no-op.
func (ms *Database) CompleteAward(awardID, userID string) (*model.Transaction, error) {
	tx, err := ms.DB.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var award model.AwardedTask
	err = tx.QueryRow(
		"SELECT id, user_id, task_id, title, price FROM awarded_tasks WHERE id = ? AND user_id = ?",
		awardID, userID).
		Scan(&award.ID, &award.UserID, &award.TaskID, &award.Title, &award.Price)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrAwardNotFound
		}
		return nil, err
	}

	if _, err = tx.Exec("DELETE FROM awarded_tasks WHERE id = ?", award.ID); err != nil {
		return nil, err
	}

	earning := &model.Transaction{
		ID:          uuid.NewString(),
		UserID:      userID,
		Kind:        model.KindEarning,
		Amount:      award.Price,
		Description: "Task completion payment",
		Method:      "system",
		CreatedAt:   time.Now().UTC(),
	}
	_, err = tx.Exec(
		"INSERT INTO transactions (id, user_id, kind, amount, description, method, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		earning.ID, earning.UserID, earning.Kind, earning.Amount, earning.Description, earning.Method, earning.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		logging.Logg.Error("Failed to commit task completion", "award", awardID, "error", err)
		return nil, err
	}
	return earning, nil
}
