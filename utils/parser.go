package utils

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/vitwit/gaszip/types"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// ValidateScanConfig validates a ScanConfig using its struct tags. Failures
// are CONFIG_ERROR client errors.
func ValidateScanConfig(config *types.ScanConfig) error {
	if err := validate.Struct(config); err != nil {
		return &types.ClientError{
			Code:    types.ErrCodeConfigError,
			Message: "validation failed",
			Err:     err,
		}
	}
	return nil
}

// NormalizeJSON formats JSON with consistent indentation
func NormalizeJSON(data interface{}) ([]byte, error) {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode json: %w", err)
	}
	return b, nil
}
