package types

import (
	"fmt"

	"github.com/thisislithium/zora-protocol/pkg/premint"
	"github.com/thisislithium/zora-protocol/pkg/utils"
)

// Integers wider than 64 bits travel as decimal strings.

type ContractConfigReq struct {
	ContractAdmin string `json:"contractAdmin" yaml:"contractAdmin" binding:"required"`
	ContractURI   string `json:"contractURI" yaml:"contractURI"`
	ContractName  string `json:"contractName" yaml:"contractName"`
}

func (r ContractConfigReq) Config() (premint.ContractCreationConfig, error) {
	admin, err := utils.ParseAddress("contractAdmin", r.ContractAdmin)
	if err != nil {
		return premint.ContractCreationConfig{}, err
	}
	return premint.ContractCreationConfig{
		ContractAdmin: admin,
		ContractURI:   r.ContractURI,
		ContractName:  r.ContractName,
	}, nil
}

type TokenConfigReq struct {
	TokenURI            string `json:"tokenURI" yaml:"tokenURI"`
	MaxSupply           string `json:"maxSupply" yaml:"maxSupply"`
	MaxTokensPerAddress uint64 `json:"maxTokensPerAddress" yaml:"maxTokensPerAddress"`
	PricePerToken       string `json:"pricePerToken" yaml:"pricePerToken"`
	SaleDuration        uint64 `json:"saleDuration" yaml:"saleDuration"`
	RoyaltyMintSchedule uint32 `json:"royaltyMintSchedule" yaml:"royaltyMintSchedule"`
	RoyaltyBPS          uint32 `json:"royaltyBPS" yaml:"royaltyBPS"`
	RoyaltyRecipient    string `json:"royaltyRecipient" yaml:"royaltyRecipient"`
	Uid                 string `json:"uid" yaml:"uid" binding:"required"`
}

func (r TokenConfigReq) Config() (premint.TokenCreationConfig, error) {
	var (
		c   premint.TokenCreationConfig
		err error
	)

	c.TokenURI = r.TokenURI
	c.MaxTokensPerAddress = r.MaxTokensPerAddress
	c.SaleDuration = r.SaleDuration
	c.RoyaltyMintSchedule = r.RoyaltyMintSchedule
	c.RoyaltyBPS = r.RoyaltyBPS

	if c.MaxSupply, err = utils.StringToBigint(r.MaxSupply); err != nil {
		return c, fmt.Errorf("maxSupply: %w", err)
	}
	if c.PricePerToken, err = utils.StringToBigint(r.PricePerToken); err != nil {
		return c, fmt.Errorf("pricePerToken: %w", err)
	}
	if c.Uid, err = utils.StringToBigint(r.Uid); err != nil {
		return c, fmt.Errorf("uid: %w", err)
	}
	if r.RoyaltyRecipient != "" {
		if c.RoyaltyRecipient, err = utils.ParseAddress("royaltyRecipient", r.RoyaltyRecipient); err != nil {
			return c, err
		}
	}
	return c, nil
}

// TypedDataReq selects the domain with ChainId and PreminterAddress, both
// falling back to the configured defaults when empty.
type TypedDataReq struct {
	ChainId          uint64            `json:"chainId" yaml:"chainId"`
	PreminterAddress string            `json:"preminterAddress" yaml:"preminterAddress"`
	ContractConfig   ContractConfigReq `json:"contractConfig" yaml:"contractConfig" binding:"required"`
	TokenConfig      TokenConfigReq    `json:"tokenConfig" yaml:"tokenConfig" binding:"required"`
}

type RecoverReq struct {
	TypedDataReq `yaml:",inline"`
	Signature    string `json:"signature" yaml:"signature" binding:"required"`
}

type RecoverRsp struct {
	Signer string `json:"signer"`
	Digest string `json:"digest"`
}

type PremintReq struct {
	ContractConfig ContractConfigReq `json:"contractConfig" binding:"required"`
	TokenConfig    TokenConfigReq    `json:"tokenConfig" binding:"required"`
	Signature      string            `json:"signature" binding:"required"`
	Quantity       string            `json:"quantity" binding:"required"`
	Comment        string            `json:"comment"`

	// Caller receives the minted tokens, Value is the attached payment in wei.
	Caller string `json:"caller" binding:"required"`
	Value  string `json:"value"`
}

type PremintRsp struct {
	ContractAddress    string `json:"contractAddress"`
	ContractHash       string `json:"contractHash"`
	TokenId            uint64 `json:"tokenId"`
	CreatedNewContract bool   `json:"createdNewContract"`
	CreatedNewToken    bool   `json:"createdNewToken"`
	Balance            string `json:"balance"`
}

type ContractHashRsp struct {
	ContractHash string `json:"contractHash"`
}

type ContractAddressReq struct {
	ContractHash string `form:"contract_hash" json:"contractHash" binding:"required"`
}

type ContractAddressRsp struct {
	ContractHash    string `json:"contractHash"`
	ContractAddress string `json:"contractAddress"`
	Deployed        bool   `json:"deployed"`
}

type BalanceReq struct {
	Collection string `form:"collection" json:"collection" binding:"required"`
	Owner      string `form:"owner" json:"owner" binding:"required"`
	TokenId    uint64 `form:"token_id" json:"tokenId" binding:"required"`
}

type BalanceRsp struct {
	Balance string `json:"balance"`
}

type GrantCreatorReq struct {
	Collection string `json:"collection" binding:"required"`
	Caller     string `json:"caller" binding:"required"`
	Account    string `json:"account" binding:"required"`
}

type AccountReq struct {
	Account string `form:"account" json:"account" binding:"required"`
}

type WithdrawableRsp struct {
	Account string `json:"account"`
	Wei     string `json:"wei"`
	Ether   string `json:"ether"`
}

type CollectionReq struct {
	Collection string `form:"collection" json:"collection" binding:"required"`
}

type PremintedEventRsp struct {
	ContractAddress    string `json:"contractAddress"`
	ContractHash       string `json:"contractHash"`
	TokenId            uint64 `json:"tokenId"`
	Uid                string `json:"uid"`
	CreatedNewContract bool   `json:"createdNewContract"`
	CreatedNewToken    bool   `json:"createdNewToken"`
	Type               string `json:"type"`
	Minter             string `json:"minter"`
	Quantity           string `json:"quantity"`
	Value              string `json:"value"`
	Comment            string `json:"comment"`
	Timestamp          int64  `json:"timestamp"`
}

type ListEventsRsp struct {
	Count int64                `json:"count"`
	List  []*PremintedEventRsp `json:"list"`
}
