// Package premint implements the typed-data authorization a creator signs so
// that anyone can later create their collection and token on chain.
package premint

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// ContractCreationConfig describes a collection that may not be deployed yet.
type ContractCreationConfig struct {
	ContractAdmin common.Address `json:"contractAdmin" abi:"contractAdmin"`
	ContractURI   string         `json:"contractURI" abi:"contractURI"`
	ContractName  string         `json:"contractName" abi:"contractName"`
}

// TokenCreationConfig describes a token to create inside a collection. Field
// types follow the solidity struct so the value can be abi packed as is.
type TokenCreationConfig struct {
	TokenURI            string         `json:"tokenURI" abi:"tokenURI"`
	MaxSupply           *big.Int       `json:"maxSupply" abi:"maxSupply"`
	MaxTokensPerAddress uint64         `json:"maxTokensPerAddress" abi:"maxTokensPerAddress"`
	PricePerToken       *big.Int       `json:"pricePerToken" abi:"pricePerToken"`
	SaleDuration        uint64         `json:"saleDuration" abi:"saleDuration"`
	RoyaltyMintSchedule uint32         `json:"royaltyMintSchedule" abi:"royaltyMintSchedule"`
	RoyaltyBPS          uint32         `json:"royaltyBPS" abi:"royaltyBPS"`
	RoyaltyRecipient    common.Address `json:"royaltyRecipient" abi:"royaltyRecipient"`
	Uid                 *big.Int       `json:"uid" abi:"uid"`
}

// Normalized returns a copy with nil integers replaced by zero, which is what
// both hashing and abi packing expect.
func (c TokenCreationConfig) Normalized() TokenCreationConfig {
	c.MaxSupply = orZero(c.MaxSupply)
	c.PricePerToken = orZero(c.PricePerToken)
	c.Uid = orZero(c.Uid)
	return c
}

// FundsRecipient is where the sale price goes.
func (c TokenCreationConfig) FundsRecipient(contract ContractCreationConfig) common.Address {
	if c.RoyaltyRecipient == (common.Address{}) {
		return contract.ContractAdmin
	}
	return c.RoyaltyRecipient
}

// RequiredValue is (mintFee + pricePerToken) * quantity.
func (c TokenCreationConfig) RequiredValue(mintFee, quantity *big.Int) *big.Int {
	perToken := new(big.Int).Add(orZero(mintFee), orZero(c.PricePerToken))
	return perToken.Mul(perToken, orZero(quantity))
}

func (c ContractCreationConfig) message() map[string]interface{} {
	return map[string]interface{}{
		"contractAdmin": c.ContractAdmin.Hex(),
		"contractURI":   c.ContractURI,
		"contractName":  c.ContractName,
	}
}

func (c TokenCreationConfig) message() map[string]interface{} {
	c = c.Normalized()
	return map[string]interface{}{
		"tokenURI":            c.TokenURI,
		"maxSupply":           c.MaxSupply,
		"maxTokensPerAddress": new(big.Int).SetUint64(c.MaxTokensPerAddress),
		"pricePerToken":       c.PricePerToken,
		"saleDuration":        new(big.Int).SetUint64(c.SaleDuration),
		"royaltyMintSchedule": big.NewInt(int64(c.RoyaltyMintSchedule)),
		"royaltyBPS":          big.NewInt(int64(c.RoyaltyBPS)),
		"royaltyRecipient":    c.RoyaltyRecipient.Hex(),
		"uid":                 c.Uid,
	}
}

// Validate checks the integers against their solidity widths. abi packing
// does not, so a config that fails here would revert on chain.
func (c TokenCreationConfig) Validate() error {
	for _, f := range []struct {
		name  string
		value *big.Int
		bits  int
	}{
		{"maxSupply", c.MaxSupply, 256},
		{"pricePerToken", c.PricePerToken, 96},
		{"uid", c.Uid, 256},
	} {
		if f.value == nil {
			continue
		}
		if f.value.Sign() < 0 || f.value.BitLen() > f.bits {
			return fmt.Errorf("%w: %s does not fit uint%d", ErrInvalidTokenConfig, f.name, f.bits)
		}
	}
	return nil
}

func orZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}
