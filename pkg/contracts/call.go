package contracts

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Args is the typed argument tuple of one contract function.
type Args interface {
	Values() []interface{}
}

// Call is a fully resolved contract call: target, function, typed arguments
// and attached value.
type Call[A Args] struct {
	Account common.Address
	Address common.Address
	Method  abi.Method
	Args    A
	Value   *big.Int
}

func newCall[A Args](contractABI abi.ABI, method string, address common.Address, args A) Call[A] {
	m, ok := contractABI.Methods[method]
	if !ok {
		// methods are looked up by constant names against embedded abis
		panic(fmt.Sprintf("contracts: unknown method %s", method))
	}
	return Call[A]{
		Address: address,
		Method:  m,
		Args:    args,
		Value:   new(big.Int),
	}
}

func (c Call[A]) FunctionName() string {
	return c.Method.Name
}

// Selector is the 4 byte function selector.
func (c Call[A]) Selector() [4]byte {
	var selector [4]byte
	copy(selector[:], c.Method.ID)
	return selector
}

// Validator is implemented by args with fields narrower than their go type.
type Validator interface {
	Validate() error
}

// Data returns selector || abi.encode(args).
func (c Call[A]) Data() ([]byte, error) {
	if v, ok := any(c.Args).(Validator); ok {
		if err := v.Validate(); err != nil {
			return nil, fmt.Errorf("pack %s: %w", c.Method.Name, err)
		}
	}
	packed, err := c.Method.Inputs.Pack(c.Args.Values()...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", c.Method.Name, err)
	}
	return append(append([]byte{}, c.Method.ID...), packed...), nil
}

// CallMsg turns the call into a message for eth_call or gas estimation.
func (c Call[A]) CallMsg() (ethereum.CallMsg, error) {
	data, err := c.Data()
	if err != nil {
		return ethereum.CallMsg{}, err
	}
	to := c.Address
	return ethereum.CallMsg{
		From:  c.Account,
		To:    &to,
		Value: c.Value,
		Data:  data,
	}, nil
}

// Unpack decodes return data of this call.
func (c Call[A]) Unpack(output []byte) ([]interface{}, error) {
	return c.Method.Outputs.Unpack(output)
}

// Descriptor is the JSON shape handed to wallets and scripts.
type Descriptor struct {
	Account      *common.Address `json:"account,omitempty"`
	Address      common.Address  `json:"address"`
	FunctionName string          `json:"functionName"`
	Selector     hexutil.Bytes   `json:"selector"`
	Args         []interface{}   `json:"args"`
	Value        *hexutil.Big    `json:"value"`
	Data         hexutil.Bytes   `json:"data"`
}

func (c Call[A]) Descriptor() (Descriptor, error) {
	data, err := c.Data()
	if err != nil {
		return Descriptor{}, err
	}
	selector := c.Selector()
	d := Descriptor{
		Address:      c.Address,
		FunctionName: c.Method.Name,
		Selector:     selector[:],
		Args:         c.Args.Values(),
		Value:        (*hexutil.Big)(c.Value),
		Data:         data,
	}
	if c.Account != (common.Address{}) {
		account := c.Account
		d.Account = &account
	}
	return d, nil
}

// Read executes a view call and returns its decoded outputs.
func Read[A Args](ctx context.Context, caller ethereum.ContractCaller, call Call[A]) ([]interface{}, error) {
	msg, err := call.CallMsg()
	if err != nil {
		return nil, err
	}
	output, err := caller.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", call.Method.Name, err)
	}
	return call.Unpack(output)
}
