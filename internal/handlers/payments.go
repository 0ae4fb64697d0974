package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"acefreelance/internal/logging"
	"acefreelance/internal/middleware"
	"acefreelance/internal/model"
	"acefreelance/internal/mpesa"
)

type stkPushRequest struct {
	Phone       string            `json:"phone"`
	Amount      int64             `json:"amount"`
	Description string            `json:"description"`
	Type        model.PaymentType `json:"type"`
}

// beginPayment marks the user as having an STK push in flight. It reports
// false when one is already pending, so a user cannot be double-charged by
// submitting the prompt twice.
func (s *Server) beginPayment(userID string) bool {
	s.mux.Lock()
	defer s.mux.Unlock()
	if _, pending := s.inflight[userID]; pending {
		return false
	}
	s.inflight[userID] = struct{}{}
	return true
}

func (s *Server) endPayment(userID string) {
	s.mux.Lock()
	defer s.mux.Unlock()
	delete(s.inflight, userID)
}

// StkPush drives the whole payment flow: phone precondition, the simulated
// push, and on success the atomic commit of the expense plus any activation
// side effect. A failed push changes nothing and may be retried at once.
func (s *Server) StkPush(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.ExtractUserFromContext(r)
	if err != nil {
		notify(w, http.StatusUnauthorized, "error", "User not found in context")
		return
	}

	var req stkPushRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		notify(w, http.StatusBadRequest, "error", "Bad request format")
		return
	}

	if req.Type == "" {
		req.Type = model.PaymentNone
	}
	if !req.Type.Valid() {
		notify(w, http.StatusBadRequest, "error", "Unknown payment type")
		return
	}

	// the activation and training prompts carry fixed fees
	if req.Amount == 0 {
		switch req.Type {
		case model.PaymentActivation:
			req.Amount = s.Config.ActivationFee
		case model.PaymentTraining:
			req.Amount = s.Config.TrainingFee
		}
	}
	if req.Description == "" {
		switch req.Type {
		case model.PaymentActivation:
			req.Description = "Account activation"
		case model.PaymentTraining:
			req.Description = "Training enrollment"
		default:
			req.Description = "M-Pesa payment"
		}
	}

	if err := mpesa.ValidatePhone(req.Phone); err != nil {
		notify(w, http.StatusUnprocessableEntity, "error", "Please enter a valid Safaricom number (07XXXXXXXX).")
		return
	}
	if req.Amount <= 0 {
		notify(w, http.StatusUnprocessableEntity, "error", model.ErrInvalidAmount.Error())
		return
	}

	if !s.beginPayment(userID) {
		notify(w, http.StatusConflict, "error", model.ErrPaymentInFlight.Error())
		return
	}
	defer s.endPayment(userID)

	result, err := s.Mpesa.Push(r.Context(), req.Phone, req.Amount, req.Description)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrInvalidPhoneNumber):
			notify(w, http.StatusUnprocessableEntity, "error", err.Error())
		case errors.Is(err, model.ErrInvalidAmount):
			notify(w, http.StatusUnprocessableEntity, "error", err.Error())
		default:
			logging.Logg.Error("STK push aborted", "user", userID, "error", err)
			notify(w, http.StatusInternalServerError, "error", "Payment could not be completed")
		}
		return
	}

	if !result.Success {
		notify(w, http.StatusPaymentRequired, "error", result.Message)
		return
	}

	if !mpesa.ValidReference(result.Reference) {
		logging.Logg.Error("Simulator issued a bad reference", "reference", result.Reference)
		notify(w, http.StatusInternalServerError, "error", model.ErrInvalidReference.Error())
		return
	}

	expense, err := s.Store.CommitPayment(userID, req.Amount, req.Description, req.Phone, result.Reference, req.Type)
	if err != nil {
		logging.Logg.Error("Failed to commit payment", "user", userID, "error", err)
		notify(w, http.StatusInternalServerError, "error", "Payment could not be recorded")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "success",
		"message":     "Payment successful! Your request has been processed.",
		"reference":   result.Reference,
		"transaction": expense,
	})
}
