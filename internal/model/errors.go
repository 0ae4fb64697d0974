package model

import "errors"

var (
	ErrDuplicateEmail     = errors.New("an account with this email already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrAuthFailure        = errors.New("invalid email or password")
	ErrTaskNotFound       = errors.New("task not found")
	ErrAwardNotFound      = errors.New("awarded task not found")
	ErrAlreadyAwarded     = errors.New("task already awarded to this user")
	ErrAccountInactive    = errors.New("account is not activated")
	ErrInvalidAmount      = errors.New("amount must be a positive number")
	ErrInvalidPhoneNumber = errors.New("invalid Safaricom number (07XXXXXXXX)")
	ErrInvalidReference   = errors.New("invalid payment reference")
	ErrPaymentInFlight    = errors.New("a payment is already in progress")
)
