package ledger

import "errors"

// Expected outcomes of ledger operations. Callers match them with errors.Is;
// anything else returned by the service is an infrastructure failure.
var (
	ErrValidationFailed = errors.New("validation failed")
	ErrAccountExists    = errors.New("account already exists")
	ErrAccountNotExist  = errors.New("account does not exist")
	ErrReceiverNotExist = errors.New("receiver does not exist")
	ErrBalanceNotEnough = errors.New("balance not enough")
)
