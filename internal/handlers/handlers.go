package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"acefreelance/internal/auth"
	"acefreelance/internal/config"
	"acefreelance/internal/middleware"
	"acefreelance/internal/model"
	"acefreelance/internal/mpesa"
	"acefreelance/internal/store"

	"github.com/go-chi/chi"
)

type Server struct {
	Store  store.Database
	Config config.Config
	Mpesa  *mpesa.Simulator

	mux      sync.Mutex
	inflight map[string]struct{} // users with a pending STK push
}

func NewServer(cfg config.Config, sim *mpesa.Simulator) (*Server, error) {
	var s store.Database
	if err := s.NewStorage(cfg.DBPath); err != nil {
		return nil, err
	}
	if sim == nil {
		sim = mpesa.NewSimulator(cfg.MpesaLatency, cfg.MpesaSuccessRate, nil)
	}
	return &Server{
		Store:    s,
		Config:   cfg,
		Mpesa:    sim,
		inflight: make(map[string]struct{}),
	}, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// notify is the JSON shape of the §6-style notification event: a message
// plus a severity the client renders.
func notify(w http.ResponseWriter, status int, severity, message string) {
	writeJSON(w, status, map[string]string{
		"status":  severity,
		"message": message,
	})
}

type registerRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (s *Server) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		notify(w, http.StatusBadRequest, "error", "Bad request format")
		return
	}
	if req.Name == "" || req.Email == "" || req.Phone == "" || req.Password == "" {
		notify(w, http.StatusBadRequest, "error", "All fields are required")
		return
	}
	if req.ConfirmPassword != "" && req.ConfirmPassword != req.Password {
		notify(w, http.StatusBadRequest, "error", "Passwords do not match. Please try again.")
		return
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		notify(w, http.StatusInternalServerError, "error", "Failed to hash the password")
		return
	}

	user, err := s.Store.CreateUser(req.Name, req.Email, req.Phone, passwordHash)
	if err != nil {
		if errors.Is(err, model.ErrDuplicateEmail) {
			notify(w, http.StatusConflict, "error", model.ErrDuplicateEmail.Error())
			return
		}
		notify(w, http.StatusInternalServerError, "error", "Failed to register user")
		return
	}

	authToken, err := auth.GenerateToken(user.ID, s.Config.JWTSecret)
	if err != nil {
		notify(w, http.StatusInternalServerError, "error", "Failed generation token")
		return
	}
	w.Header().Set("Authorization", fmt.Sprintf("Bearer %s", authToken))

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"message": "Registration successful! Welcome to Ace Freelancing.",
		"token":   authToken,
		"user":    user,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) LoginUser(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		notify(w, http.StatusBadRequest, "error", "Bad request format")
		return
	}

	user, err := s.Store.GetUserByEmail(req.Email)
	if err != nil {
		notify(w, http.StatusUnauthorized, "error", model.ErrAuthFailure.Error())
		return
	}
	if err := auth.CheckPass(user.PasswordHash, req.Password); err != nil {
		notify(w, http.StatusUnauthorized, "error", model.ErrAuthFailure.Error())
		return
	}

	authToken, err := auth.GenerateToken(user.ID, s.Config.JWTSecret)
	if err != nil {
		notify(w, http.StatusInternalServerError, "error", "Failed generation token")
		return
	}
	w.Header().Set("Authorization", fmt.Sprintf("Bearer %s", authToken))

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"message": "Login successful! Welcome back to Ace Freelancing.",
		"token":   authToken,
		"user":    user,
	})
}

// ForgotPassword acknowledges without revealing whether the email exists.
// The demo never sends mail.
func (s *Server) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		notify(w, http.StatusBadRequest, "error", "Bad request format")
		return
	}
	notify(w, http.StatusOK, "success", "Password reset link has been sent to your email.")
}

// Logout acknowledges the client-side token discard. The ledgers are not
// touched.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	notify(w, http.StatusOK, "success", "Logged out.")
}

func (s *Server) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.ExtractUserFromContext(r)
	if err != nil {
		notify(w, http.StatusUnauthorized, "error", "User not found in context")
		return
	}

	user, err := s.Store.GetUserByID(userID)
	if err != nil {
		notify(w, http.StatusUnauthorized, "error", "The user does not exist")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) GetTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.Store.GetTasks()
	if err != nil {
		notify(w, http.StatusInternalServerError, "error", "Failed fetching tasks")
		return
	}
	if len(tasks) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) AwardTask(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.ExtractUserFromContext(r)
	if err != nil {
		notify(w, http.StatusUnauthorized, "error", "User not found in context")
		return
	}

	user, err := s.Store.GetUserByID(userID)
	if err != nil {
		notify(w, http.StatusUnauthorized, "error", "The user does not exist")
		return
	}
	if !user.Active {
		notify(w, http.StatusForbidden, "error", model.ErrAccountInactive.Error())
		return
	}

	award, err := s.Store.AwardTask(userID, chi.URLParam(r, "taskID"))
	if err != nil {
		switch {
		case errors.Is(err, model.ErrTaskNotFound):
			notify(w, http.StatusNotFound, "error", model.ErrTaskNotFound.Error())
		case errors.Is(err, model.ErrAlreadyAwarded):
			notify(w, http.StatusConflict, "error", model.ErrAlreadyAwarded.Error())
		default:
			notify(w, http.StatusInternalServerError, "error", "Failed to award task")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"message": "Task awarded. Find it under your awarded tasks.",
		"award":   award,
	})
}

func (s *Server) GetAwardedTasks(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.ExtractUserFromContext(r)
	if err != nil {
		notify(w, http.StatusUnauthorized, "error", "User not found in context")
		return
	}

	awards, err := s.Store.GetAwardedTasks(userID)
	if err != nil {
		notify(w, http.StatusInternalServerError, "error", "Failed fetching awarded tasks")
		return
	}
	if len(awards) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, awards)
}

type submitRequest struct {
	FilePresent bool   `json:"file_present"`
	Notes       string `json:"notes"`
}

// SubmitTask completes an awarded task: the award row disappears and the
// earning lands in the ledger, atomically. A stale award id is a 404 so the
// client never believes an unrecorded submission went through.
func (s *Server) SubmitTask(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.ExtractUserFromContext(r)
	if err != nil {
		notify(w, http.StatusUnauthorized, "error", "User not found in context")
		return
	}

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		notify(w, http.StatusBadRequest, "error", "Bad request format")
		return
	}
	if !req.FilePresent {
		notify(w, http.StatusBadRequest, "error", "Upload a file with your completed work")
		return
	}

	earning, err := s.Store.CompleteAward(chi.URLParam(r, "awardID"), userID)
	if err != nil {
		if errors.Is(err, model.ErrAwardNotFound) {
			notify(w, http.StatusNotFound, "error", model.ErrAwardNotFound.Error())
			return
		}
		notify(w, http.StatusInternalServerError, "error", "Failed to record the submission")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "success",
		"message":     "Work submitted successfully! It will be reviewed within 24 hours.",
		"transaction": earning,
	})
}

func (s *Server) GetBalance(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.ExtractUserFromContext(r)
	if err != nil {
		notify(w, http.StatusUnauthorized, "error", "User not found in context")
		return
	}

	balance, err := s.Store.GetBalance(userID)
	if err != nil {
		notify(w, http.StatusInternalServerError, "error", "Failed computing the balance")
		return
	}
	writeJSON(w, http.StatusOK, balance)
}

func (s *Server) GetTransactions(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.ExtractUserFromContext(r)
	if err != nil {
		notify(w, http.StatusUnauthorized, "error", "User not found in context")
		return
	}

	txs, err := s.Store.GetTransactions(userID)
	if err != nil {
		notify(w, http.StatusInternalServerError, "error", "Failed fetching transactions")
		return
	}
	if len(txs) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, txs)
}
