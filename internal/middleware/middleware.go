package middleware

import (
	"errors"
	"net/http"

	"acefreelance/internal/logging"
)

type contextKey string

const UserContextKey contextKey = "userID"

func ExtractUserFromContext(r *http.Request) (string, error) {
	userID, ok := r.Context().Value(UserContextKey).(string)
	if !ok {
		logging.Logg.Error("User not found in context")
		return "", errors.New("user not found in context")
	}
	return userID, nil
}
