package utils

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// IsEmptyCalldata reports whether input carries no payload bytes, as for
// value-only transfers.
func IsEmptyCalldata(input string) bool {
	return input == "" || input == "0x" || input == "0X"
}

// ValidateContractAddress validates an EVM contract address.
func ValidateContractAddress(address string) error {
	if address == "" {
		return fmt.Errorf("address cannot be empty")
	}
	if !common.IsHexAddress(address) {
		return fmt.Errorf("invalid EVM address: %s", address)
	}
	return nil
}

// ValidateBigInt checks if a string is a valid base 10 big integer
func ValidateBigInt(value string) (*big.Int, error) {
	if value == "" {
		return nil, fmt.Errorf("value cannot be empty")
	}

	bigInt := new(big.Int)
	_, success := bigInt.SetString(value, 10)
	if !success {
		return nil, fmt.Errorf("invalid big integer format")
	}

	return bigInt, nil
}

// FormatAmountFromBigInt formats a big.Int amount to decimal string with specified decimals
func FormatAmountFromBigInt(amount *big.Int, decimals int) string {
	dec := decimal.NewFromBigInt(amount, -int32(decimals))
	return dec.String()
}

// FormatWei renders a base 10 wei amount in ether. Invalid input yields "".
func FormatWei(wei string) string {
	v, err := ValidateBigInt(wei)
	if err != nil {
		return ""
	}
	return FormatAmountFromBigInt(v, 18)
}
