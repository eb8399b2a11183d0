package contracts

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/thisislithium/zora-protocol/pkg/premint"
)

type PremintArgs struct {
	ContractConfig premint.ContractCreationConfig
	TokenConfig    premint.TokenCreationConfig
	Signature      []byte
	Quantity       *big.Int
	Comment        string
}

func (a PremintArgs) Values() []interface{} {
	quantity := a.Quantity
	if quantity == nil {
		quantity = new(big.Int)
	}
	return []interface{}{a.ContractConfig, a.TokenConfig.Normalized(), a.Signature, quantity, a.Comment}
}

type RecoverSignerArgs struct {
	ContractConfig premint.ContractCreationConfig
	TokenConfig    premint.TokenCreationConfig
	Signature      []byte
}

func (a PremintArgs) Validate() error {
	return a.TokenConfig.Validate()
}

func (a RecoverSignerArgs) Validate() error {
	return a.TokenConfig.Validate()
}

func (a RecoverSignerArgs) Values() []interface{} {
	return []interface{}{a.ContractConfig, a.TokenConfig.Normalized(), a.Signature}
}

type ContractDataHashArgs struct {
	ContractConfig premint.ContractCreationConfig
}

func (a ContractDataHashArgs) Values() []interface{} {
	return []interface{}{a.ContractConfig}
}

type ContractAddressesArgs struct {
	Hash common.Hash
}

func (a ContractAddressesArgs) Values() []interface{} {
	return []interface{}{[32]byte(a.Hash)}
}

type BalanceOfArgs struct {
	Owner   common.Address
	TokenId *big.Int
}

func (a BalanceOfArgs) Values() []interface{} {
	tokenId := a.TokenId
	if tokenId == nil {
		tokenId = new(big.Int)
	}
	return []interface{}{a.Owner, tokenId}
}

// Premint is the relayer call. value must cover (mintFee + price) * quantity.
func Premint(preminter, relayer common.Address, args PremintArgs, value *big.Int) Call[PremintArgs] {
	call := newCall(PreminterABI, "premint", preminter, args)
	call.Account = relayer
	if value != nil {
		call.Value = value
	}
	return call
}

func RecoverSigner(preminter common.Address, args RecoverSignerArgs) Call[RecoverSignerArgs] {
	return newCall(PreminterABI, "recoverSigner", preminter, args)
}

func ContractDataHash(preminter common.Address, config premint.ContractCreationConfig) Call[ContractDataHashArgs] {
	return newCall(PreminterABI, "contractDataHash", preminter, ContractDataHashArgs{ContractConfig: config})
}

func ContractAddresses(preminter common.Address, hash common.Hash) Call[ContractAddressesArgs] {
	return newCall(PreminterABI, "contractAddresses", preminter, ContractAddressesArgs{Hash: hash})
}

// BalanceOf reads an ERC-1155 balance on a created collection.
func BalanceOf(collection, owner common.Address, tokenId *big.Int) Call[BalanceOfArgs] {
	return newCall(Creator1155ABI, "balanceOf", collection, BalanceOfArgs{Owner: owner, TokenId: tokenId})
}
