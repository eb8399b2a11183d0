package utils

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/shopspring/decimal"
)

var (
	maxU256 = abi.MaxUint256
	ether   = decimal.New(1, 18)
)

func StringToBigint(data string) (*big.Int, error) {
	if strings.HasPrefix(data, "-") {
		return nil, fmt.Errorf("%s invaild, can not support neg", data)
	}

	if data == "" {
		return new(big.Int), nil
	}

	bigint, ok := new(big.Int).SetString(data, 10)
	if !ok {
		return nil, fmt.Errorf("%s invaild, can not parse to bigint", data)
	}

	if bigint.Cmp(maxU256) > 0 {
		return nil, fmt.Errorf("%s invaild, overflows uint256", data)
	}

	return bigint, nil
}

// ParseEther converts a decimal ether amount such as "0.000777" to wei.
func ParseEther(data string) (*big.Int, error) {
	d, err := decimal.NewFromString(data)
	if err != nil {
		return nil, err
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("%s invaild, can not support neg", data)
	}
	wei := d.Mul(ether)
	if !wei.Equal(wei.Truncate(0)) {
		return nil, fmt.Errorf("%s invaild, more than 18 decimals", data)
	}
	return wei.BigInt(), nil
}

// FormatEther renders wei as a decimal ether amount.
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	return decimal.NewFromBigInt(wei, -18).String()
}

func IsValidERCAddress(address string) (string, bool) {
	if address == "" {
		return "", false
	}
	res := common.HexToAddress(address).Hex()
	if strings.EqualFold(res, address) {
		return strings.ToLower(address), true
	}
	return "", false
}

// ParseAddress accepts a 0x prefixed address in any case.
func ParseAddress(field, address string) (common.Address, error) {
	if _, ok := IsValidERCAddress(address); !ok {
		return common.Address{}, fmt.Errorf("%s: invalid address %q", field, address)
	}
	return common.HexToAddress(address), nil
}

// ParseHex decodes 0x prefixed hex. Length checks are left to the caller.
func ParseHex(field, data string) ([]byte, error) {
	b, err := hexutil.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", field, err)
	}
	return b, nil
}
