package clients

import (
	"fmt"

	"github.com/vitwit/gaszip/types"
)

func networkError(err error, format string, args ...any) error {
	return &types.ClientError{
		Code:    types.ErrCodeNetworkError,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

func rangeError(format string, args ...any) error {
	return &types.ClientError{
		Code:    types.ErrCodeInvalidRange,
		Message: fmt.Sprintf(format, args...),
	}
}

func configError(err error, format string, args ...any) error {
	return &types.ClientError{
		Code:    types.ErrCodeConfigError,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}
