package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vitwit/gaszip/types"
)

func TestIsEmptyCalldata(t *testing.T) {
	assert.True(t, IsEmptyCalldata(""))
	assert.True(t, IsEmptyCalldata("0x"))
	assert.False(t, IsEmptyCalldata("0x01"))
}

func TestValidateContractAddress(t *testing.T) {
	assert.NoError(t, ValidateContractAddress("0x391e7c679d29bd940d63be94ad22a25d25b5a604"))
	assert.Error(t, ValidateContractAddress(""))
	assert.Error(t, ValidateContractAddress("0x1234"))
}

func TestFormatWei(t *testing.T) {
	assert.Equal(t, "1", FormatWei("1000000000000000000"))
	assert.Equal(t, "0.0015", FormatWei("1500000000000000"))
	assert.Equal(t, "0", FormatWei("0"))
	assert.Equal(t, "", FormatWei("abc"))
	assert.Equal(t, "", FormatWei(""))
}

func validScanConfig() types.ScanConfig {
	return types.ScanConfig{
		RPCUrl:   "https://rpc.example.org",
		Contract: "0x391e7c679d29bd940d63be94ad22a25d25b5a604",
	}
}

func TestValidateScanConfig(t *testing.T) {
	cfg := validScanConfig()
	cfg.FromBlock = 100
	cfg.ToBlock = 200
	cfg.Workers = 2
	assert.NoError(t, ValidateScanConfig(&cfg))

	zero := 0
	cfg.RetryCount = &zero
	assert.NoError(t, ValidateScanConfig(&cfg))
}

func TestValidateScanConfigInvalid(t *testing.T) {
	tooMany := 21
	tests := map[string]func(c *types.ScanConfig){
		"missing rpc":   func(c *types.ScanConfig) { c.RPCUrl = "" },
		"bad contract":  func(c *types.ScanConfig) { c.Contract = "0x12" },
		"reverse range": func(c *types.ScanConfig) { c.FromBlock, c.ToBlock = 10, 5 },
		"bad level":     func(c *types.ScanConfig) { c.LogLevel = "loud" },
		"retries":       func(c *types.ScanConfig) { c.RetryCount = &tooMany },
		"metrics addr":  func(c *types.ScanConfig) { c.MetricsAddr = "not an address" },
	}

	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := validScanConfig()
			mutate(&cfg)
			err := ValidateScanConfig(&cfg)
			assert.Error(t, err)
			assert.Equal(t, types.ErrCodeConfigError, types.CodeOf(err))
		})
	}
}
