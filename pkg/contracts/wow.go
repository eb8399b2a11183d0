package contracts

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-playground/validator/v10"
	"github.com/thisislithium/zora-protocol/pkg/global"
)

// WowFactories maps the supported chains to their token factory.
var WowFactories = map[uint64]common.Address{
	global.BaseChainId:        common.HexToAddress("0x997020E5F59cCB79C74D527Be492Cc610CB9fA2B"),
	global.BaseSepoliaChainId: common.HexToAddress("0x04870e22fa217Cb16aa00501D7D5253B8838C1eA"),
}

var validate = validator.New()

type DeployWowTokenArgs struct {
	ChainId     uint64         `json:"chain_id" validate:"required,oneof=8453 84532"`
	UserAddress common.Address `json:"user_address" validate:"required"`
	Cid         string         `json:"cid" validate:"required,startswith=ipfs://"`
	Name        string         `json:"name" validate:"required"`
	Symbol      string         `json:"symbol" validate:"required"`
	Value       *big.Int       `json:"value"`
}

// DeployArgs is the argument tuple of ERC20Factory.deploy.
type DeployArgs struct {
	TokenCreator     common.Address
	PlatformReferrer common.Address
	TokenURI         string
	Name             string
	Symbol           string
}

func (a DeployArgs) Values() []interface{} {
	return []interface{}{a.TokenCreator, a.PlatformReferrer, a.TokenURI, a.Name, a.Symbol}
}

// DeployTokenParameters maps deploy arguments onto a factory call sent from
// the user's account. The platform referrer is always the zero address.
func DeployTokenParameters(args DeployWowTokenArgs) (Call[DeployArgs], error) {
	if err := validate.Struct(args); err != nil {
		return Call[DeployArgs]{}, err
	}
	factory, ok := WowFactories[args.ChainId]
	if !ok {
		return Call[DeployArgs]{}, fmt.Errorf("no wow factory on chain %d", args.ChainId)
	}

	call := newCall(WowFactoryABI, "deploy", factory, DeployArgs{
		TokenCreator:     args.UserAddress,
		PlatformReferrer: common.Address{},
		TokenURI:         args.Cid,
		Name:             args.Name,
		Symbol:           args.Symbol,
	})
	call.Account = args.UserAddress
	if args.Value != nil {
		call.Value = new(big.Int).Set(args.Value)
	}
	return call, nil
}
