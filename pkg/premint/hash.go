package premint

import (
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

var contractDataArgs = abi.Arguments{
	{Type: mustNewType("address")},
	{Type: mustNewType("string")},
	{Type: mustNewType("string")},
}

func mustNewType(t string) abi.Type {
	typ, err := abi.NewType(t, "", nil)
	if err != nil {
		panic(err)
	}
	return typ
}

// Hash returns the digest that is signed: keccak256("\x19\x01" || domainSeparator || hashStruct(message)).
func Hash(typedData apitypes.TypedData) (common.Hash, error) {
	digest, _, err := apitypes.TypedDataAndHash(typedData)
	if err != nil {
		return common.Hash{}, err
	}
	return common.BytesToHash(digest), nil
}

// ContractDataHash is the content address of a collection config and the key
// its deployed address is stored under.
func ContractDataHash(config ContractCreationConfig) common.Hash {
	packed, err := contractDataArgs.Pack(config.ContractAdmin, config.ContractURI, config.ContractName)
	if err != nil {
		// address and string arguments always pack
		panic(err)
	}
	return crypto.Keccak256Hash(packed)
}

// TokenConfigHash is the struct hash of a token config. Two requests with the
// same uid are the same intent only when this hash matches.
func TokenConfigHash(config TokenCreationConfig) (common.Hash, error) {
	if err := config.Validate(); err != nil {
		return common.Hash{}, err
	}
	// the domain is not part of a struct hash, EncodeData only requires one
	typedData := apitypes.TypedData{
		Types:  premintTypes,
		Domain: apitypes.TypedDataDomain{Name: DomainName},
	}
	hash, err := typedData.HashStruct(tokenConfigType, config.message())
	if err != nil {
		return common.Hash{}, err
	}
	return common.BytesToHash(hash), nil
}
