package domain

import "errors"

var (
	ErrInvalidReceiver   = errors.New("invalid receiver address")
	ErrInvalidAmount     = errors.New("invalid usd amount")
	ErrInvalidCollateral = errors.New("invalid collateral amount")
	ErrOrderNotFound     = errors.New("order not found")
	ErrAlreadyExecuted   = errors.New("order already executed")
	ErrTriggerNotMet     = errors.New("trigger condition not met")
	ErrUnauthorized      = errors.New("caller is not the order payer")
	ErrOrderExpired      = errors.New("order expired")
	ErrVaultConflict     = errors.New("collateral already disbursed")
	ErrNoCollateral      = errors.New("no collateral escrowed for order")
)
