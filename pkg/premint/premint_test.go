package premint

import (
	"crypto/ecdsa"
	"encoding/json"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
	"github.com/status-im/keycard-go/hexutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	// anvil's second and third default accounts
	creatorKeyHex   = "59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d"
	collectorKeyHex = "5de4111afa1a4b94908f83103eb1f1706367c2e68ca870fc3fb9a804cdab365a"

	preminterAddress = common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
	foundryChainId   = big.NewInt(31337)
)

func mustKey(t *testing.T, hexKey string) *ecdsa.PrivateKey {
	key, err := crypto.ToECDSA(hexutils.HexToBytes(hexKey))
	require.NoError(t, err)
	return key
}

func ether(t *testing.T, wei string) *big.Int {
	v, ok := new(big.Int).SetString(wei, 10)
	require.True(t, ok)
	return v
}

func testConfigs(t *testing.T, creator common.Address) (ContractCreationConfig, TokenCreationConfig) {
	contractConfig := ContractCreationConfig{
		ContractAdmin: creator,
		ContractURI:   "ipfs://asdfasdfasdf",
		ContractName:  "My fun NFT",
	}
	tokenConfig := TokenCreationConfig{
		TokenURI:            "ipfs://tokenIpfsId0",
		MaxSupply:           big.NewInt(100),
		MaxTokensPerAddress: 10,
		PricePerToken:       ether(t, "100000000000000000"),
		SaleDuration:        100,
		RoyaltyMintSchedule: 30,
		RoyaltyBPS:          200,
		RoyaltyRecipient:    creator,
		Uid:                 big.NewInt(1),
	}
	return contractConfig, tokenConfig
}

func TestKnownAccounts(t *testing.T) {
	creator := crypto.PubkeyToAddress(mustKey(t, creatorKeyHex).PublicKey)
	collector := crypto.PubkeyToAddress(mustKey(t, collectorKeyHex).PublicKey)
	assert.Equal(t, common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8"), creator)
	assert.Equal(t, common.HexToAddress("0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC"), collector)
}

func TestSignAndRecover(t *testing.T) {
	key := mustKey(t, creatorKeyHex)
	creator := crypto.PubkeyToAddress(key.PublicKey)
	contractConfig, tokenConfig := testConfigs(t, creator)

	typedData := TypedDataDefinition(preminterAddress, foundryChainId, contractConfig, tokenConfig)
	sig, err := Sign(typedData, key)
	require.NoError(t, err)
	require.Len(t, sig, 65)
	assert.Contains(t, []byte{27, 28}, sig[64])

	recovered, err := RecoverSigner(typedData, sig)
	require.NoError(t, err)
	assert.Equal(t, creator, recovered)

	ok, err := Verify(typedData, sig, creator)
	require.NoError(t, err)
	assert.True(t, ok)

	// a fresh build of the same inputs recovers the same signer
	again, err := RecoverSigner(TypedDataDefinition(preminterAddress, foundryChainId, contractConfig, tokenConfig), sig)
	require.NoError(t, err)
	assert.Equal(t, creator, again)
}

func TestRecoverAcceptsRawRecoveryId(t *testing.T) {
	key := mustKey(t, creatorKeyHex)
	creator := crypto.PubkeyToAddress(key.PublicKey)
	contractConfig, tokenConfig := testConfigs(t, creator)
	typedData := TypedDataDefinition(preminterAddress, foundryChainId, contractConfig, tokenConfig)

	sig, err := Sign(typedData, key)
	require.NoError(t, err)
	sig[64] -= 27

	recovered, err := RecoverSigner(typedData, sig)
	require.NoError(t, err)
	assert.Equal(t, creator, recovered)
}

func TestRecoverRejectsMalformedSignature(t *testing.T) {
	contractConfig, tokenConfig := testConfigs(t, common.HexToAddress("0x01"))
	typedData := TypedDataDefinition(preminterAddress, foundryChainId, contractConfig, tokenConfig)

	_, err := RecoverSigner(typedData, []byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrInvalidSignatureLength)

	sig := make([]byte, 65)
	sig[64] = 9
	_, err = RecoverSigner(typedData, sig)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestChangedMessageRecoversOtherAddress(t *testing.T) {
	key := mustKey(t, creatorKeyHex)
	creator := crypto.PubkeyToAddress(key.PublicKey)
	contractConfig, tokenConfig := testConfigs(t, creator)

	sig, err := Sign(TypedDataDefinition(preminterAddress, foundryChainId, contractConfig, tokenConfig), key)
	require.NoError(t, err)

	cheaper := tokenConfig
	cheaper.PricePerToken = big.NewInt(1)
	recovered, err := RecoverSigner(TypedDataDefinition(preminterAddress, foundryChainId, contractConfig, cheaper), sig)
	require.NoError(t, err)
	assert.NotEqual(t, creator, recovered)

	renamed := contractConfig
	renamed.ContractName = "My other NFT"
	recovered, err = RecoverSigner(TypedDataDefinition(preminterAddress, foundryChainId, renamed, tokenConfig), sig)
	require.NoError(t, err)
	assert.NotEqual(t, creator, recovered)
}

func swapFields(types apitypes.Types, typeName string, i, j int) apitypes.Types {
	types[typeName][i], types[typeName][j] = types[typeName][j], types[typeName][i]
	return types
}

func retype(types apitypes.Types, typeName, field, newType string) apitypes.Types {
	for i := range types[typeName] {
		if types[typeName][i].Name == field {
			types[typeName][i].Type = newType
		}
	}
	return types
}

func TestAlteredSchemaOrDomainRecoversOtherAddress(t *testing.T) {
	key := mustKey(t, creatorKeyHex)
	creator := crypto.PubkeyToAddress(key.PublicKey)
	contractConfig, tokenConfig := testConfigs(t, creator)

	sig, err := Sign(TypedDataDefinition(preminterAddress, foundryChainId, contractConfig, tokenConfig), key)
	require.NoError(t, err)

	canonical := NewDomain(preminterAddress, foundryChainId)
	otherChain := NewDomain(preminterAddress, big.NewInt(1))
	otherContract := NewDomain(common.HexToAddress("0x9fE46736679d2D9a65F0992F2272dE9f3c7fa6e0"), foundryChainId)
	otherName := canonical
	otherName.Name = "ZoraCreator1155Preminter"
	otherVersion := canonical
	otherVersion.Version = "1"

	cases := []struct {
		name   string
		types  apitypes.Types
		domain Domain
	}{
		{"swapped royalty fields", swapFields(Types(), tokenConfigType, 5, 6), canonical},
		{"swapped contract strings", swapFields(Types(), contractConfigType, 1, 2), canonical},
		{"swapped top level configs", swapFields(Types(), PrimaryType, 0, 1), canonical},
		{"narrowed price", retype(Types(), tokenConfigType, "pricePerToken", "uint64"), canonical},
		{"widened price", retype(Types(), tokenConfigType, "pricePerToken", "uint256"), canonical},
		{"narrowed uid", retype(Types(), tokenConfigType, "uid", "uint32"), canonical},
		{"widened max per address", retype(Types(), tokenConfigType, "maxTokensPerAddress", "uint256"), canonical},
		{"other chain id", Types(), otherChain},
		{"other verifying contract", Types(), otherContract},
		{"other domain name", Types(), otherName},
		{"other domain version", Types(), otherVersion},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			typedData := BuildTypedData(c.types, c.domain, contractConfig, tokenConfig)
			recovered, err := RecoverSigner(typedData, sig)
			require.NoError(t, err)
			assert.NotEqual(t, creator, recovered)
		})
	}
}

func TestEncodeTypeMatchesContract(t *testing.T) {
	typedData := apitypes.TypedData{Types: Types()}
	assert.Equal(t,
		"ContractAndToken(ContractCreationConfig contractConfig,TokenCreationConfig tokenConfig)"+
			"ContractCreationConfig(address contractAdmin,string contractURI,string contractName)"+
			"TokenCreationConfig(string tokenURI,uint256 maxSupply,uint64 maxTokensPerAddress,uint96 pricePerToken,"+
			"uint64 saleDuration,uint32 royaltyMintSchedule,uint32 royaltyBPS,address royaltyRecipient,uint256 uid)",
		string(typedData.EncodeType(PrimaryType)),
	)
}

func TestDigestLayout(t *testing.T) {
	creator := common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	contractConfig, tokenConfig := testConfigs(t, creator)
	typedData := TypedDataDefinition(preminterAddress, foundryChainId, contractConfig, tokenConfig)

	domainTypeHash := crypto.Keccak256([]byte("EIP712Domain(string name,string version,uint256 chainId,address verifyingContract)"))
	domainSeparator := crypto.Keccak256(
		domainTypeHash,
		crypto.Keccak256([]byte(DomainName)),
		crypto.Keccak256([]byte(DomainVersion)),
		common.LeftPadBytes(foundryChainId.Bytes(), 32),
		common.LeftPadBytes(preminterAddress.Bytes(), 32),
	)
	messageHash, err := typedData.HashStruct(PrimaryType, typedData.Message)
	require.NoError(t, err)

	expected := crypto.Keccak256Hash([]byte("\x19\x01"), domainSeparator, messageHash)
	digest, err := Hash(typedData)
	require.NoError(t, err)
	assert.Equal(t, expected, digest)
}

func TestPriceWiderThanSchemaIsRejected(t *testing.T) {
	contractConfig, tokenConfig := testConfigs(t, common.HexToAddress("0x01"))
	tokenConfig.PricePerToken = new(big.Int).Lsh(big.NewInt(1), 96)

	_, err := Hash(TypedDataDefinition(preminterAddress, foundryChainId, contractConfig, tokenConfig))
	assert.Error(t, err)

	_, err = TokenConfigHash(tokenConfig)
	assert.ErrorIs(t, err, ErrInvalidTokenConfig)
	assert.ErrorIs(t, tokenConfig.Validate(), ErrInvalidTokenConfig)

	tokenConfig.PricePerToken = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 96), big.NewInt(1))
	assert.NoError(t, tokenConfig.Validate())
	_, err = TokenConfigHash(tokenConfig)
	assert.NoError(t, err)

	tokenConfig.Uid = big.NewInt(-1)
	assert.ErrorIs(t, tokenConfig.Validate(), ErrInvalidTokenConfig)
}

func abiString(s string) []byte {
	padded := make([]byte, (len(s)+31)/32*32)
	copy(padded, s)
	return append(common.LeftPadBytes(big.NewInt(int64(len(s))).Bytes(), 32), padded...)
}

func TestContractDataHash(t *testing.T) {
	creator := common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	contractConfig, _ := testConfigs(t, creator)

	uri := abiString(contractConfig.ContractURI)
	encoded := append([]byte{}, common.LeftPadBytes(creator.Bytes(), 32)...)
	encoded = append(encoded, common.LeftPadBytes(big.NewInt(96).Bytes(), 32)...)
	encoded = append(encoded, common.LeftPadBytes(big.NewInt(int64(96+len(uri))).Bytes(), 32)...)
	encoded = append(encoded, uri...)
	encoded = append(encoded, abiString(contractConfig.ContractName)...)

	hash := ContractDataHash(contractConfig)
	assert.Equal(t, crypto.Keccak256Hash(encoded), hash)

	same := ContractCreationConfig{
		ContractAdmin: creator,
		ContractURI:   "ipfs://asdfasdfasdf",
		ContractName:  "My fun NFT",
	}
	assert.Equal(t, hash, ContractDataHash(same))

	same.ContractURI = "ipfs://other"
	assert.NotEqual(t, hash, ContractDataHash(same))
}

func TestTokenConfigHash(t *testing.T) {
	_, tokenConfig := testConfigs(t, common.HexToAddress("0x01"))
	first, err := TokenConfigHash(tokenConfig)
	require.NoError(t, err)

	second, err := TokenConfigHash(tokenConfig)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	tokenConfig.PricePerToken = big.NewInt(5)
	changed, err := TokenConfigHash(tokenConfig)
	require.NoError(t, err)
	assert.NotEqual(t, first, changed)
}

func TestTypedDataJSON(t *testing.T) {
	creator := common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	contractConfig, tokenConfig := testConfigs(t, creator)

	data, err := json.Marshal(TypedDataDefinition(preminterAddress, foundryChainId, contractConfig, tokenConfig))
	require.NoError(t, err)

	var decoded struct {
		PrimaryType string                     `json:"primaryType"`
		Domain      map[string]interface{}     `json:"domain"`
		Types       map[string][]apitypes.Type `json:"types"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, PrimaryType, decoded.PrimaryType)
	assert.Equal(t, DomainName, decoded.Domain["name"])
	assert.Equal(t, DomainVersion, decoded.Domain["version"])
	assert.Equal(t, preminterAddress.Hex(), decoded.Domain["verifyingContract"])
	assert.Len(t, decoded.Types[tokenConfigType], 9)
}

func TestRequiredValue(t *testing.T) {
	_, tokenConfig := testConfigs(t, common.HexToAddress("0x01"))
	fee := ether(t, "777000000000000")

	assert.Equal(t, ether(t, "201554000000000000"), tokenConfig.RequiredValue(fee, big.NewInt(2)))
	assert.Equal(t, 0, tokenConfig.RequiredValue(fee, nil).Sign())

	tokenConfig.PricePerToken = nil
	assert.Equal(t, ether(t, "3108000000000000"), tokenConfig.RequiredValue(fee, big.NewInt(4)))
}

func TestFundsRecipient(t *testing.T) {
	admin := common.HexToAddress("0x01")
	contractConfig, tokenConfig := testConfigs(t, admin)

	tokenConfig.RoyaltyRecipient = common.HexToAddress("0x02")
	assert.Equal(t, common.HexToAddress("0x02"), tokenConfig.FundsRecipient(contractConfig))

	tokenConfig.RoyaltyRecipient = common.Address{}
	assert.Equal(t, admin, tokenConfig.FundsRecipient(contractConfig))
}
