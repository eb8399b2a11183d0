package store

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/thisislithium/zora-protocol/ledger"
	"github.com/thisislithium/zora-protocol/pkg/premint"
)

// msgpack records keep addresses, hashes and big integers as strings.

type collectionRecord struct {
	Address      string `msgpack:"address"`
	ContractHash string `msgpack:"contract_hash"`
	Admin        string `msgpack:"admin"`
	URI          string `msgpack:"uri"`
	Name         string `msgpack:"name"`
	NextTokenId  uint64 `msgpack:"next_token_id"`
	CreatedAt    int64  `msgpack:"created_at"`
}

func newCollectionRecord(c *ledger.Collection) collectionRecord {
	return collectionRecord{
		Address:      c.Address.Hex(),
		ContractHash: c.ContractHash.Hex(),
		Admin:        c.Admin.Hex(),
		URI:          c.URI,
		Name:         c.Name,
		NextTokenId:  c.NextTokenId,
		CreatedAt:    c.CreatedAt,
	}
}

func (r collectionRecord) collection() *ledger.Collection {
	return &ledger.Collection{
		Address:      common.HexToAddress(r.Address),
		ContractHash: common.HexToHash(r.ContractHash),
		Admin:        common.HexToAddress(r.Admin),
		URI:          r.URI,
		Name:         r.Name,
		NextTokenId:  r.NextTokenId,
		CreatedAt:    r.CreatedAt,
	}
}

type tokenRecord struct {
	Collection  string `msgpack:"collection"`
	TokenId     uint64 `msgpack:"token_id"`
	Uid         string `msgpack:"uid"`
	ConfigHash  string `msgpack:"config_hash"`
	TotalMinted string `msgpack:"total_minted"`
	SaleStart   int64  `msgpack:"sale_start"`
	SaleEnd     int64  `msgpack:"sale_end"`
	CreatedAt   int64  `msgpack:"created_at"`

	TokenURI            string `msgpack:"token_uri"`
	MaxSupply           string `msgpack:"max_supply"`
	MaxTokensPerAddress uint64 `msgpack:"max_tokens_per_address"`
	PricePerToken       string `msgpack:"price_per_token"`
	SaleDuration        uint64 `msgpack:"sale_duration"`
	RoyaltyMintSchedule uint32 `msgpack:"royalty_mint_schedule"`
	RoyaltyBPS          uint32 `msgpack:"royalty_bps"`
	RoyaltyRecipient    string `msgpack:"royalty_recipient"`
}

func bigString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

func parseBig(field, s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("store: invalid %s %q", field, s)
	}
	return v, nil
}

func newTokenRecord(t *ledger.Token) tokenRecord {
	return tokenRecord{
		Collection:          t.Collection.Hex(),
		TokenId:             t.TokenId,
		Uid:                 bigString(t.Uid),
		ConfigHash:          t.ConfigHash.Hex(),
		TotalMinted:         bigString(t.TotalMinted),
		SaleStart:           t.SaleStart,
		SaleEnd:             t.SaleEnd,
		CreatedAt:           t.CreatedAt,
		TokenURI:            t.Config.TokenURI,
		MaxSupply:           bigString(t.Config.MaxSupply),
		MaxTokensPerAddress: t.Config.MaxTokensPerAddress,
		PricePerToken:       bigString(t.Config.PricePerToken),
		SaleDuration:        t.Config.SaleDuration,
		RoyaltyMintSchedule: t.Config.RoyaltyMintSchedule,
		RoyaltyBPS:          t.Config.RoyaltyBPS,
		RoyaltyRecipient:    t.Config.RoyaltyRecipient.Hex(),
	}
}

func (r tokenRecord) token() (*ledger.Token, error) {
	uid, err := parseBig("uid", r.Uid)
	if err != nil {
		return nil, err
	}
	minted, err := parseBig("total_minted", r.TotalMinted)
	if err != nil {
		return nil, err
	}
	maxSupply, err := parseBig("max_supply", r.MaxSupply)
	if err != nil {
		return nil, err
	}
	price, err := parseBig("price_per_token", r.PricePerToken)
	if err != nil {
		return nil, err
	}
	return &ledger.Token{
		Collection:  common.HexToAddress(r.Collection),
		TokenId:     r.TokenId,
		Uid:         uid,
		ConfigHash:  common.HexToHash(r.ConfigHash),
		TotalMinted: minted,
		SaleStart:   r.SaleStart,
		SaleEnd:     r.SaleEnd,
		CreatedAt:   r.CreatedAt,
		Config: premint.TokenCreationConfig{
			TokenURI:            r.TokenURI,
			MaxSupply:           maxSupply,
			MaxTokensPerAddress: r.MaxTokensPerAddress,
			PricePerToken:       price,
			SaleDuration:        r.SaleDuration,
			RoyaltyMintSchedule: r.RoyaltyMintSchedule,
			RoyaltyBPS:          r.RoyaltyBPS,
			RoyaltyRecipient:    common.HexToAddress(r.RoyaltyRecipient),
			Uid:                 uid,
		},
	}, nil
}

type eventRecord struct {
	Collection         string `msgpack:"collection"`
	ContractHash       string `msgpack:"contract_hash"`
	TokenId            uint64 `msgpack:"token_id"`
	Uid                string `msgpack:"uid"`
	CreatedNewContract bool   `msgpack:"created_new_contract"`
	CreatedNewToken    bool   `msgpack:"created_new_token"`
	Minter             string `msgpack:"minter"`
	Quantity           string `msgpack:"quantity"`
	Value              string `msgpack:"value"`
	Comment            string `msgpack:"comment"`
	Timestamp          int64  `msgpack:"timestamp"`
}

func newEventRecord(e *ledger.PremintedEvent) eventRecord {
	return eventRecord{
		Collection:         e.Collection.Hex(),
		ContractHash:       e.ContractHash.Hex(),
		TokenId:            e.TokenId,
		Uid:                bigString(e.Uid),
		CreatedNewContract: e.CreatedNewContract,
		CreatedNewToken:    e.CreatedNewToken,
		Minter:             e.Minter.Hex(),
		Quantity:           bigString(e.Quantity),
		Value:              bigString(e.Value),
		Comment:            e.Comment,
		Timestamp:          e.Timestamp,
	}
}

func (r eventRecord) event() (*ledger.PremintedEvent, error) {
	uid, err := parseBig("uid", r.Uid)
	if err != nil {
		return nil, err
	}
	quantity, err := parseBig("quantity", r.Quantity)
	if err != nil {
		return nil, err
	}
	value, err := parseBig("value", r.Value)
	if err != nil {
		return nil, err
	}
	return &ledger.PremintedEvent{
		Collection:         common.HexToAddress(r.Collection),
		ContractHash:       common.HexToHash(r.ContractHash),
		TokenId:            r.TokenId,
		Uid:                uid,
		CreatedNewContract: r.CreatedNewContract,
		CreatedNewToken:    r.CreatedNewToken,
		Minter:             common.HexToAddress(r.Minter),
		Quantity:           quantity,
		Value:              value,
		Comment:            r.Comment,
		Timestamp:          r.Timestamp,
	}, nil
}
