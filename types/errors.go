package types

import (
	"errors"
	"fmt"
)

// Error codes
const (
	ErrCodeInvalidHexEncoding    = "INVALID_HEX_ENCODING"
	ErrCodeEmptyCalldata         = "EMPTY_CALLDATA"
	ErrCodeAddressLengthMismatch = "ADDRESS_LENGTH_MISMATCH"
	ErrCodeMalformedChainTail    = "MALFORMED_CHAIN_TAIL"

	ErrCodeNetworkError = "NETWORK_ERROR"
	ErrCodeInvalidRange = "INVALID_RANGE"
	ErrCodeConfigError  = "CONFIG_ERROR"
)

// DecodeError is returned by every failing decode. Callers branch on Code,
// or compare against the sentinels below with errors.Is.
type DecodeError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *DecodeError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return e.Message
}

// Is matches any DecodeError carrying the same code.
func (e *DecodeError) Is(target error) bool {
	t, ok := target.(*DecodeError)
	return ok && t.Code == e.Code
}

var (
	ErrInvalidHexEncoding    = &DecodeError{Code: ErrCodeInvalidHexEncoding, Message: "invalid hex encoding"}
	ErrEmptyCalldata         = &DecodeError{Code: ErrCodeEmptyCalldata, Message: "empty calldata"}
	ErrAddressLengthMismatch = &DecodeError{Code: ErrCodeAddressLengthMismatch, Message: "address length mismatch"}
	ErrMalformedChainTail    = &DecodeError{Code: ErrCodeMalformedChainTail, Message: "malformed chain id tail"}
)

// NewDecodeError builds a DecodeError with a formatted message.
func NewDecodeError(code string, format string, args ...any) *DecodeError {
	return &DecodeError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// ClientError is returned by the fetch layer.
type ClientError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *ClientError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Err
}

// CodeOf returns the code of a DecodeError or ClientError anywhere in err's
// chain, or "" when there is none.
func CodeOf(err error) string {
	var de *DecodeError
	if errors.As(err, &de) {
		return de.Code
	}
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}
