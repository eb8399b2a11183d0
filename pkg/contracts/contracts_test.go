package contracts

import (
	"context"
	"encoding/json"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thisislithium/zora-protocol/pkg/global"
	"github.com/thisislithium/zora-protocol/pkg/premint"
)

var (
	preminter = common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
	creator   = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	collector = common.HexToAddress("0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC")
)

func testConfigs() (premint.ContractCreationConfig, premint.TokenCreationConfig) {
	price, _ := new(big.Int).SetString("100000000000000000", 10)
	return premint.ContractCreationConfig{
			ContractAdmin: creator,
			ContractURI:   "ipfs://asdfasdfasdf",
			ContractName:  "My fun NFT",
		}, premint.TokenCreationConfig{
			TokenURI:            "ipfs://tokenIpfsId0",
			MaxSupply:           big.NewInt(100),
			MaxTokensPerAddress: 10,
			PricePerToken:       price,
			SaleDuration:        100,
			RoyaltyMintSchedule: 30,
			RoyaltyBPS:          200,
			RoyaltyRecipient:    creator,
			Uid:                 big.NewInt(1),
		}
}

func selector(signature string) []byte {
	return crypto.Keccak256([]byte(signature))[:4]
}

func TestEmbeddedABIs(t *testing.T) {
	assert.Equal(t, []string{"ERC20Factory", "ProtocolRewards", "ZoraCreator1155Impl", "ZoraCreator1155Preminter"}, Names())

	_, ok := ABI(PreminterABIName)
	assert.True(t, ok)
	_, ok = ABI("Unknown")
	assert.False(t, ok)

	assert.Contains(t, PreminterABI.Methods, "premint")
	assert.Contains(t, Creator1155ABI.Methods, "balanceOf")
	assert.Contains(t, WowFactoryABI.Methods, "deploy")
	assert.Contains(t, ProtocolRewardsABI.Methods, "withdraw")
}

func TestExtractABIs(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "abis")

	written, err := ExtractABIs(dir)
	require.NoError(t, err)
	require.Len(t, written, len(Names()))

	for _, name := range Names() {
		data, err := os.ReadFile(filepath.Join(dir, name+".json"))
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(data), "[\n  {"), name)

		var entries []map[string]interface{}
		require.NoError(t, json.Unmarshal(data, &entries))
		assert.NotEmpty(t, entries)
	}

	// a second run overwrites in place
	_, err = ExtractABIs(dir)
	assert.NoError(t, err)
}

func TestPremintCall(t *testing.T) {
	contractConfig, tokenConfig := testConfigs()
	sig := make([]byte, 65)
	value := big.NewInt(12345)

	call := Premint(preminter, collector, PremintArgs{
		ContractConfig: contractConfig,
		TokenConfig:    tokenConfig,
		Signature:      sig,
		Quantity:       big.NewInt(2),
		Comment:        "I love this!",
	}, value)

	assert.Equal(t, "premint", call.FunctionName())
	assert.Equal(t, preminter, call.Address)
	assert.Equal(t, collector, call.Account)
	assert.Equal(t, value, call.Value)

	expected := selector("premint((address,string,string),(string,uint256,uint64,uint96,uint64,uint32,uint32,address,uint256),bytes,uint256,string)")
	s := call.Selector()
	assert.Equal(t, expected, s[:])

	data, err := call.Data()
	require.NoError(t, err)
	assert.Equal(t, expected, data[:4])

	decoded, err := call.Method.Inputs.Unpack(data[4:])
	require.NoError(t, err)
	require.Len(t, decoded, 5)
	assert.Equal(t, sig, decoded[2])
	assert.Equal(t, big.NewInt(2), decoded[3])
	assert.Equal(t, "I love this!", decoded[4])

	msg, err := call.CallMsg()
	require.NoError(t, err)
	assert.Equal(t, preminter, *msg.To)
	assert.Equal(t, collector, msg.From)
	assert.Equal(t, data, msg.Data)
}

func TestPremintCallRejectsOversizedPrice(t *testing.T) {
	contractConfig, tokenConfig := testConfigs()
	tokenConfig.PricePerToken = new(big.Int).Lsh(big.NewInt(1), 96)

	_, err := Premint(preminter, collector, PremintArgs{
		ContractConfig: contractConfig,
		TokenConfig:    tokenConfig,
		Signature:      make([]byte, 65),
		Quantity:       big.NewInt(1),
	}, nil).Data()
	assert.ErrorIs(t, err, premint.ErrInvalidTokenConfig)

	_, err = RecoverSigner(preminter, RecoverSignerArgs{
		ContractConfig: contractConfig,
		TokenConfig:    tokenConfig,
		Signature:      make([]byte, 65),
	}).CallMsg()
	assert.ErrorIs(t, err, premint.ErrInvalidTokenConfig)
}

func TestLookupCalls(t *testing.T) {
	contractConfig, tokenConfig := testConfigs()

	hashCall := ContractDataHash(preminter, contractConfig)
	data, err := hashCall.Data()
	require.NoError(t, err)
	assert.Equal(t, selector("contractDataHash((address,string,string))"), data[:4])

	hash := premint.ContractDataHash(contractConfig)
	addrCall := ContractAddresses(preminter, hash)
	data, err = addrCall.Data()
	require.NoError(t, err)
	assert.Equal(t, selector("contractAddresses(bytes32)"), data[:4])
	assert.Equal(t, hash.Bytes(), data[4:])

	recoverCall := RecoverSigner(preminter, RecoverSignerArgs{ContractConfig: contractConfig, TokenConfig: tokenConfig, Signature: make([]byte, 65)})
	data, err = recoverCall.Data()
	require.NoError(t, err)
	assert.Equal(t, selector("recoverSigner((address,string,string),(string,uint256,uint64,uint96,uint64,uint32,uint32,address,uint256),bytes)"), data[:4])

	balanceCall := BalanceOf(common.HexToAddress("0x01"), collector, big.NewInt(1))
	data, err = balanceCall.Data()
	require.NoError(t, err)
	assert.Equal(t, selector("balanceOf(address,uint256)"), data[:4])
}

type fakeCaller struct {
	msg    ethereum.CallMsg
	output []byte
}

func (f *fakeCaller) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	f.msg = msg
	return f.output, nil
}

func TestRead(t *testing.T) {
	contractConfig, tokenConfig := testConfigs()
	call := RecoverSigner(preminter, RecoverSignerArgs{ContractConfig: contractConfig, TokenConfig: tokenConfig, Signature: make([]byte, 65)})

	addressType, err := abi.NewType("address", "", nil)
	require.NoError(t, err)
	output, err := abi.Arguments{{Type: addressType}}.Pack(creator)
	require.NoError(t, err)

	caller := &fakeCaller{output: output}
	values, err := Read(context.Background(), caller, call)
	require.NoError(t, err)
	require.Len(t, values, 1)
	assert.Equal(t, creator, values[0])
	assert.Equal(t, preminter, *caller.msg.To)
}

func TestDeployTokenParameters(t *testing.T) {
	args := DeployWowTokenArgs{
		ChainId:     global.BaseChainId,
		UserAddress: creator,
		Cid:         "ipfs://bafkreihdwdcefgh4dqkjv67uzcmw7ojee6xedzdetojuzjevtenxquvyku",
		Name:        "Wow",
		Symbol:      "WOW",
	}

	call, err := DeployTokenParameters(args)
	require.NoError(t, err)
	assert.Equal(t, WowFactories[global.BaseChainId], call.Address)
	assert.Equal(t, creator, call.Account)
	assert.Equal(t, "deploy", call.FunctionName())
	assert.Equal(t, 0, call.Value.Sign())
	assert.Equal(t, []interface{}{creator, common.Address{}, args.Cid, "Wow", "WOW"}, call.Args.Values())

	data, err := call.Data()
	require.NoError(t, err)
	assert.Equal(t, selector("deploy(address,address,string,string,string)"), data[:4])

	desc, err := call.Descriptor()
	require.NoError(t, err)
	require.NotNil(t, desc.Account)
	assert.Equal(t, creator, *desc.Account)
	assert.Equal(t, "deploy", desc.FunctionName)

	args.ChainId = global.BaseSepoliaChainId
	args.Value = big.NewInt(1000)
	call, err = DeployTokenParameters(args)
	require.NoError(t, err)
	assert.Equal(t, WowFactories[global.BaseSepoliaChainId], call.Address)
	assert.Equal(t, big.NewInt(1000), call.Value)
}

func TestDeployTokenParametersValidation(t *testing.T) {
	valid := DeployWowTokenArgs{
		ChainId:     global.BaseChainId,
		UserAddress: creator,
		Cid:         "ipfs://cid",
		Name:        "Wow",
		Symbol:      "WOW",
	}

	cases := map[string]func(a *DeployWowTokenArgs){
		"unsupported chain": func(a *DeployWowTokenArgs) { a.ChainId = 1 },
		"missing user":      func(a *DeployWowTokenArgs) { a.UserAddress = common.Address{} },
		"non ipfs cid":      func(a *DeployWowTokenArgs) { a.Cid = "https://example.com/meta.json" },
		"missing name":      func(a *DeployWowTokenArgs) { a.Name = "" },
		"missing symbol":    func(a *DeployWowTokenArgs) { a.Symbol = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			args := valid
			mutate(&args)
			_, err := DeployTokenParameters(args)
			assert.Error(t, err)
		})
	}
}
