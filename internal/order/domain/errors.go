package domain

import (
	"errors"
	"fmt"
)

// ErrorCode buckets every placement or cancellation failure so the client
// knows whether to retry, adjust the cart, or re-attempt payment.
type ErrorCode string

const (
	CodeValidation       ErrorCode = "VALIDATION_ERROR"
	CodeStock            ErrorCode = "STOCK_ERROR"
	CodeWallet           ErrorCode = "WALLET_ERROR"
	CodePayment          ErrorCode = "PAYMENT_ERROR"
	CodeCoupon           ErrorCode = "COUPON_ERROR"
	CodeDuplicatePayment ErrorCode = "DUPLICATE_PAYMENT"
	CodeServer           ErrorCode = "SERVER_ERROR"
)

// Retryable reports whether resubmitting the same request can succeed.
// Payment failures need a fresh payment attempt, not a retry.
func (c ErrorCode) Retryable() bool {
	return c != CodePayment
}

// TypedError pairs a failure with its taxonomy bucket.
type TypedError struct {
	Code ErrorCode
	Err  error
}

func (e *TypedError) Error() string {
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

func (e *TypedError) Unwrap() error {
	return e.Err
}

// NewTypedError wraps err under the given code.
func NewTypedError(code ErrorCode, err error) *TypedError {
	return &TypedError{Code: code, Err: err}
}

// CodeOf extracts the taxonomy bucket from an error, defaulting to
// SERVER_ERROR for anything unclassified.
func CodeOf(err error) ErrorCode {
	var typed *TypedError
	if errors.As(err, &typed) {
		return typed.Code
	}
	return CodeServer
}

// Cancellation precondition failures.
var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrNotOwned       = errors.New("order belongs to a different customer")
	ErrNotCancellable = errors.New("order is not in a cancellable state")
)
