// Package ledger defines the persistent state behind premint execution: the
// contractDataHash -> collection mapping, tokens, balances and credits.
package ledger

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/thisislithium/zora-protocol/pkg/premint"
)

type Collection struct {
	Address      common.Address
	ContractHash common.Hash
	Admin        common.Address
	URI          string
	Name         string
	NextTokenId  uint64
	CreatedAt    int64
}

type Token struct {
	Collection  common.Address
	TokenId     uint64
	Uid         *big.Int
	ConfigHash  common.Hash
	Config      premint.TokenCreationConfig
	TotalMinted *big.Int
	SaleStart   int64

	// SaleEnd is zero for open ended sales.
	SaleEnd   int64
	CreatedAt int64
}

type PremintedEvent struct {
	Collection         common.Address
	ContractHash       common.Hash
	TokenId            uint64
	Uid                *big.Int
	CreatedNewContract bool
	CreatedNewToken    bool
	Minter             common.Address
	Quantity           *big.Int
	Value              *big.Int
	Comment            string
	Timestamp          int64
}

// Tx is a view of the ledger inside one transaction. Getters return nil (or
// the zero address / zero amount) for missing entries.
type Tx interface {
	ContractAddress(hash common.Hash) (common.Address, error)
	Collection(address common.Address) (*Collection, error)
	// CreateCollection stores c unless a collection already exists under
	// c.ContractHash. It returns the stored collection and whether c was the
	// one created.
	CreateCollection(c *Collection) (*Collection, bool, error)
	SaveCollection(c *Collection) error

	Token(collection common.Address, uid *big.Int) (*Token, error)
	SaveToken(t *Token) error

	BalanceOf(collection, owner common.Address, tokenId uint64) (*big.Int, error)
	AddBalance(collection, owner common.Address, tokenId uint64, amount *big.Int) error

	IsCreator(collection, account common.Address) (bool, error)
	AddCreator(collection, account common.Address) error

	Withdrawable(account common.Address) (*big.Int, error)
	Credit(account common.Address, amount *big.Int) error

	AppendEvent(e *PremintedEvent) error
	Events(collection common.Address) ([]*PremintedEvent, error)
}

// Ledger runs functions against a consistent snapshot. Update applies all of
// fn's writes or none of them.
type Ledger interface {
	View(ctx context.Context, fn func(tx Tx) error) error
	Update(ctx context.Context, fn func(tx Tx) error) error
	Close() error
}
