package premint

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

const (
	DomainName    = "Preminter"
	DomainVersion = "0.0.1"
	PrimaryType   = "ContractAndToken"

	domainType         = "EIP712Domain"
	contractConfigType = "ContractCreationConfig"
	tokenConfigType    = "TokenCreationConfig"
)

// The field order and widths must match the verifying contract byte for byte.
// A mismatch does not fail, the signature just recovers to another address.
var premintTypes = apitypes.Types{
	domainType: {
		{Name: "name", Type: "string"},
		{Name: "version", Type: "string"},
		{Name: "chainId", Type: "uint256"},
		{Name: "verifyingContract", Type: "address"},
	},
	PrimaryType: {
		{Name: "contractConfig", Type: contractConfigType},
		{Name: "tokenConfig", Type: tokenConfigType},
	},
	contractConfigType: {
		{Name: "contractAdmin", Type: "address"},
		{Name: "contractURI", Type: "string"},
		{Name: "contractName", Type: "string"},
	},
	tokenConfigType: {
		{Name: "tokenURI", Type: "string"},
		{Name: "maxSupply", Type: "uint256"},
		{Name: "maxTokensPerAddress", Type: "uint64"},
		{Name: "pricePerToken", Type: "uint96"},
		{Name: "saleDuration", Type: "uint64"},
		{Name: "royaltyMintSchedule", Type: "uint32"},
		{Name: "royaltyBPS", Type: "uint32"},
		{Name: "royaltyRecipient", Type: "address"},
		{Name: "uid", Type: "uint256"},
	},
}

// Types returns a copy of the premint schema.
func Types() apitypes.Types {
	types := make(apitypes.Types, len(premintTypes))
	for name, fields := range premintTypes {
		types[name] = append([]apitypes.Type(nil), fields...)
	}
	return types
}

// Domain binds a signature to one preminter instance on one chain.
type Domain struct {
	Name              string
	Version           string
	ChainId           *big.Int
	VerifyingContract common.Address
}

// NewDomain returns the canonical domain for a preminter deployment.
func NewDomain(preminterAddress common.Address, chainId *big.Int) Domain {
	return Domain{
		Name:              DomainName,
		Version:           DomainVersion,
		ChainId:           chainId,
		VerifyingContract: preminterAddress,
	}
}

func (d Domain) typedDataDomain() apitypes.TypedDataDomain {
	return apitypes.TypedDataDomain{
		Name:              d.Name,
		Version:           d.Version,
		ChainId:           (*math.HexOrDecimal256)(orZero(d.ChainId)),
		VerifyingContract: d.VerifyingContract.Hex(),
	}
}

// TypedData is the envelope a creator signs for (contractConfig, tokenConfig).
func (d Domain) TypedData(contractConfig ContractCreationConfig, tokenConfig TokenCreationConfig) apitypes.TypedData {
	return BuildTypedData(Types(), d, contractConfig, tokenConfig)
}

// TypedDataDefinition builds the typed data for the canonical domain.
func TypedDataDefinition(preminterAddress common.Address, chainId *big.Int, contractConfig ContractCreationConfig, tokenConfig TokenCreationConfig) apitypes.TypedData {
	return NewDomain(preminterAddress, chainId).TypedData(contractConfig, tokenConfig)
}

// BuildTypedData assembles typed data over an arbitrary schema. Only the
// canonical schema from Types verifies on chain.
func BuildTypedData(types apitypes.Types, domain Domain, contractConfig ContractCreationConfig, tokenConfig TokenCreationConfig) apitypes.TypedData {
	return apitypes.TypedData{
		Types:       types,
		PrimaryType: PrimaryType,
		Domain:      domain.typedDataDomain(),
		Message: apitypes.TypedDataMessage{
			"contractConfig": contractConfig.message(),
			"tokenConfig":    tokenConfig.message(),
		},
	}
}
