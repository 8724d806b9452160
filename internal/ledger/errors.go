package ledger

import (
	"errors"
	"fmt"
)

// Code categorizes operation rejections. Every failure aborts the
// operation with no state change; callers resubmit with corrected
// input, there is no retry layer in the core.
type Code string

const (
	// CodeInvalidAccount indicates a blank account identifier was
	// supplied to a grant.
	CodeInvalidAccount Code = "INVALID_ACCOUNT"

	// CodeUnauthorized indicates the caller failed the administrator
	// check (admin operations) or the recognized-employee check
	// (employee operations).
	CodeUnauthorized Code = "UNAUTHORIZED"

	// CodeScheduleInPast indicates a requested vesting deadline not
	// strictly after the current time.
	CodeScheduleInPast Code = "SCHEDULE_IN_PAST"

	// CodeUnknownEmployee indicates an operation on an account with
	// no outstanding grant.
	CodeUnknownEmployee Code = "UNKNOWN_EMPLOYEE"

	// CodeScheduleNotSet indicates a self-vest or countdown while the
	// account has no At(t) deadline.
	CodeScheduleNotSet Code = "SCHEDULE_NOT_SET"

	// CodeInsufficientVested indicates a transfer or exercise amount
	// exceeding the available vested balance.
	CodeInsufficientVested Code = "INSUFFICIENT_VESTED_BALANCE"

	// CodeUnknownRecipient indicates a transfer target that is not a
	// known account.
	CodeUnknownRecipient Code = "UNKNOWN_RECIPIENT"

	// CodeInvalidAmount indicates a zero transfer amount.
	CodeInvalidAmount Code = "INVALID_AMOUNT"
)

// Error is a rejected ledger operation. It carries the code for
// programmatic matching and the account it concerns for diagnostics.
type Error struct {
	Code    Code
	Message string
	Account string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Account != "" {
		return fmt.Sprintf("%s: %s (account=%s)", e.Code, e.Message, e.Account)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// CodeOf extracts the rejection code from an error, unwrapping as
// needed. Returns "" for nil and for non-ledger errors.
func CodeOf(err error) Code {
	var le *Error
	if errors.As(err, &le) {
		return le.Code
	}
	return ""
}

// IsCode reports whether err is a ledger rejection with the given
// code. Uses errors.As to handle wrapped errors.
func IsCode(err error, code Code) bool {
	return CodeOf(err) == code
}

func newError(code Code, account, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Account: account,
	}
}
