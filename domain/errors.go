package domain

import "errors"

// Error taxonomy shared by services and handlers. Handlers map these with
// errors.Is: ErrInvalidInput -> 400, the NotFound pair -> 404,
// ErrRepositoryUnavailable -> 503. "No eligible cards" is deliberately not
// here: that is a successful result with an empty list.
var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrCategoryNotFound      = errors.New("category not found")
	ErrCardNotFound          = errors.New("card not found")
	ErrBankNotFound          = errors.New("bank not found")
	ErrRuleNotFound          = errors.New("cashback rule not found")
	ErrUserCardNotFound      = errors.New("card not in user wallet")
	ErrRepositoryUnavailable = errors.New("rule repository unavailable")
)
