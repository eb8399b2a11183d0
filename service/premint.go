package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/thisislithium/zora-protocol/config"
	"github.com/thisislithium/zora-protocol/ledger"
	"github.com/thisislithium/zora-protocol/pkg/log"
	"github.com/thisislithium/zora-protocol/pkg/metrics"
	"github.com/thisislithium/zora-protocol/pkg/premint"
	"github.com/thisislithium/zora-protocol/pkg/utils"
)

// collectionCodeHash stands in for the init code hash of the collection
// implementation when deriving CREATE2 addresses.
var collectionCodeHash = crypto.Keccak256([]byte("ZoraCreator1155Impl"))

type PremintOptions struct {
	Preminter common.Address
	ChainId   *big.Int

	// DomainName and DomainVersion override the canonical domain when set.
	DomainName    string
	DomainVersion string

	MintFee      *big.Int
	FeeRecipient common.Address

	// Now defaults to time.Now.
	Now func() time.Time
}

// PremintService executes signed premints against a ledger. Each call is
// one ledger transaction, failures leave no trace.
type PremintService struct {
	ledger ledger.Ledger
	opts   PremintOptions
	domain premint.Domain
}

func NewPremintService(l ledger.Ledger, opts PremintOptions) *PremintService {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.MintFee == nil {
		opts.MintFee = new(big.Int)
	}
	if opts.ChainId == nil {
		opts.ChainId = new(big.Int)
	}
	domain := premint.NewDomain(opts.Preminter, opts.ChainId)
	if opts.DomainName != "" {
		domain.Name = opts.DomainName
	}
	if opts.DomainVersion != "" {
		domain.Version = opts.DomainVersion
	}
	return &PremintService{
		ledger: l,
		opts:   opts,
		domain: domain,
	}
}

func PremintOptionsFromConfig(conf config.PremintConfig) (PremintOptions, error) {
	var (
		opts PremintOptions
		err  error
	)

	if opts.Preminter, err = utils.ParseAddress("preminter_address", conf.PreminterAddress); err != nil {
		return opts, err
	}
	if opts.FeeRecipient, err = utils.ParseAddress("fee_recipient", conf.FeeRecipient); err != nil {
		return opts, err
	}
	if opts.MintFee, err = utils.ParseEther(conf.MintFee); err != nil {
		return opts, fmt.Errorf("mint_fee: %w", err)
	}
	opts.ChainId = new(big.Int).SetUint64(conf.ChainId)
	opts.DomainName = conf.DomainName
	opts.DomainVersion = conf.DomainVersion
	return opts, nil
}

type PremintCall struct {
	ContractConfig premint.ContractCreationConfig
	TokenConfig    premint.TokenCreationConfig
	Signature      []byte
	Quantity       *big.Int
	Comment        string

	// Caller relays the call and receives the minted tokens.
	Caller common.Address
	Value  *big.Int
}

type PremintResult struct {
	ContractAddress    common.Address
	ContractHash       common.Hash
	TokenId            uint64
	CreatedNewContract bool
	CreatedNewToken    bool

	// Balance is the caller's balance of TokenId after the mint.
	Balance *big.Int
}

func (s *PremintService) Domain() premint.Domain {
	return s.domain
}

func (s *PremintService) MintFee() *big.Int {
	return new(big.Int).Set(s.opts.MintFee)
}

func (s *PremintService) ContractDataHash(cc premint.ContractCreationConfig) common.Hash {
	return premint.ContractDataHash(cc)
}

// ContractAddress is where the collection for cc lives once deployed.
func (s *PremintService) ContractAddress(cc premint.ContractCreationConfig) common.Address {
	return crypto.CreateAddress2(s.opts.Preminter, premint.ContractDataHash(cc), collectionCodeHash)
}

// DeployedAddress looks up the collection stored under hash. The zero
// address means nothing was deployed yet.
func (s *PremintService) DeployedAddress(ctx context.Context, hash common.Hash) (common.Address, error) {
	var addr common.Address
	err := s.ledger.View(ctx, func(tx ledger.Tx) error {
		var err error
		addr, err = tx.ContractAddress(hash)
		return err
	})
	return addr, err
}

func (s *PremintService) BalanceOf(ctx context.Context, collection, owner common.Address, tokenId uint64) (*big.Int, error) {
	var balance *big.Int
	err := s.ledger.View(ctx, func(tx ledger.Tx) error {
		var err error
		balance, err = tx.BalanceOf(collection, owner, tokenId)
		return err
	})
	return balance, err
}

func (s *PremintService) Withdrawable(ctx context.Context, account common.Address) (*big.Int, error) {
	var amount *big.Int
	err := s.ledger.View(ctx, func(tx ledger.Tx) error {
		var err error
		amount, err = tx.Withdrawable(account)
		return err
	})
	return amount, err
}

func (s *PremintService) Events(ctx context.Context, collection common.Address) ([]*ledger.PremintedEvent, error) {
	var events []*ledger.PremintedEvent
	err := s.ledger.View(ctx, func(tx ledger.Tx) error {
		var err error
		events, err = tx.Events(collection)
		return err
	})
	return events, err
}

// GrantCreator lets account sign premints for collection. Only the
// collection admin may grant.
func (s *PremintService) GrantCreator(ctx context.Context, collection, caller, account common.Address) error {
	return s.ledger.Update(ctx, func(tx ledger.Tx) error {
		c, err := tx.Collection(collection)
		if err != nil {
			return err
		}
		if c == nil {
			return fmt.Errorf("%s: %w", collection.Hex(), premint.ErrContractNotDeployed)
		}
		if c.Admin != caller {
			return fmt.Errorf("%s: %w", caller.Hex(), premint.ErrNotAdmin)
		}
		return tx.AddCreator(collection, account)
	})
}

// Premint verifies call and, in one ledger transaction, deploys the
// collection when needed, creates or reuses the token, mints to the caller
// and books the payment.
func (s *PremintService) Premint(ctx context.Context, call *PremintCall) (*PremintResult, error) {
	res, err := s.premint(ctx, call)
	metrics.PremintsTotal.WithLabelValues(metrics.Outcome(err)).Inc()
	if err != nil {
		log.Sugar.Debugf("premint: caller: %s, error: %s", call.Caller.Hex(), err)
		return nil, err
	}

	if res.CreatedNewContract {
		metrics.CollectionsDeployed.Inc()
	}
	quantity, _ := new(big.Float).SetInt(call.Quantity).Float64()
	metrics.TokensMinted.Add(quantity)
	log.Sugar.Infof("premint: contract: %s, token: %d, caller: %s, quantity: %s", res.ContractAddress.Hex(), res.TokenId, call.Caller.Hex(), call.Quantity)
	return res, nil
}

func (s *PremintService) premint(ctx context.Context, call *PremintCall) (*PremintResult, error) {
	if call.Quantity == nil || call.Quantity.Sign() <= 0 {
		return nil, premint.ErrInvalidQuantity
	}

	tc := call.TokenConfig.Normalized()
	cc := call.ContractConfig
	if err := tc.Validate(); err != nil {
		return nil, err
	}
	value := call.Value
	if value == nil {
		value = new(big.Int)
	}

	required := tc.RequiredValue(s.opts.MintFee, call.Quantity)
	if value.Cmp(required) < 0 {
		return nil, fmt.Errorf("need %s wei, got %s: %w", required, value, premint.ErrInsufficientPayment)
	}

	signer, err := premint.RecoverSigner(s.domain.TypedData(cc, tc), call.Signature)
	if err != nil {
		return nil, err
	}
	configHash, err := premint.TokenConfigHash(tc)
	if err != nil {
		return nil, err
	}

	var (
		hash    = premint.ContractDataHash(cc)
		now     = s.opts.Now().Unix()
		fee     = new(big.Int).Mul(s.opts.MintFee, call.Quantity)
		price   = new(big.Int).Mul(tc.PricePerToken, call.Quantity)
		excess  = new(big.Int).Sub(value, required)
		funds   = tc.FundsRecipient(cc)
		address = s.ContractAddress(cc)
		res     *PremintResult
	)

	err = s.ledger.Update(ctx, func(tx ledger.Tx) error {
		// replays after a conflict start over
		res = &PremintResult{ContractHash: hash}

		collection, err := s.collection(tx, hash, address, cc, signer, now, res)
		if err != nil {
			return err
		}
		res.ContractAddress = collection.Address

		if signer != collection.Admin {
			ok, err := tx.IsCreator(collection.Address, signer)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("recovered %s: %w", signer.Hex(), premint.ErrInvalidSignature)
			}
		}

		token, err := s.token(tx, collection, tc, configHash, now, res)
		if err != nil {
			return err
		}
		res.TokenId = token.TokenId

		if token.SaleEnd != 0 && now > token.SaleEnd {
			return premint.ErrSaleEnded
		}

		minted := new(big.Int).Add(token.TotalMinted, call.Quantity)
		if minted.Cmp(token.Config.MaxSupply) > 0 {
			return fmt.Errorf("minted %s of %s: %w", token.TotalMinted, token.Config.MaxSupply, premint.ErrMaxSupplyExceeded)
		}

		balance, err := tx.BalanceOf(collection.Address, call.Caller, token.TokenId)
		if err != nil {
			return err
		}
		balance = new(big.Int).Add(balance, call.Quantity)
		if limit := token.Config.MaxTokensPerAddress; limit > 0 && balance.Cmp(new(big.Int).SetUint64(limit)) > 0 {
			return fmt.Errorf("limit %d: %w", limit, premint.ErrMaxPerAddressExceeded)
		}

		token.TotalMinted = minted
		if err := tx.SaveToken(token); err != nil {
			return err
		}
		if err := tx.AddBalance(collection.Address, call.Caller, token.TokenId, call.Quantity); err != nil {
			return err
		}
		res.Balance = balance

		if err := tx.Credit(s.opts.FeeRecipient, fee); err != nil {
			return err
		}
		if err := tx.Credit(funds, price); err != nil {
			return err
		}
		if err := tx.Credit(call.Caller, excess); err != nil {
			return err
		}

		return tx.AppendEvent(&ledger.PremintedEvent{
			Collection:         collection.Address,
			ContractHash:       hash,
			TokenId:            token.TokenId,
			Uid:                tc.Uid,
			CreatedNewContract: res.CreatedNewContract,
			CreatedNewToken:    res.CreatedNewToken,
			Minter:             call.Caller,
			Quantity:           call.Quantity,
			Value:              value,
			Comment:            call.Comment,
			Timestamp:          now,
		})
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// collection returns the deployed collection for hash, deploying it when
// none exists. Only the admin's own signature may deploy.
func (s *PremintService) collection(tx ledger.Tx, hash common.Hash, address common.Address, cc premint.ContractCreationConfig, signer common.Address, now int64, res *PremintResult) (*ledger.Collection, error) {
	existing, err := tx.ContractAddress(hash)
	if err != nil {
		return nil, err
	}
	if existing != (common.Address{}) {
		c, err := tx.Collection(existing)
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, fmt.Errorf("collection %s missing for %s", existing.Hex(), hash.Hex())
		}
		return c, nil
	}

	if signer != cc.ContractAdmin {
		return nil, fmt.Errorf("recovered %s: %w", signer.Hex(), premint.ErrInvalidSignature)
	}
	c, created, err := tx.CreateCollection(&ledger.Collection{
		Address:      address,
		ContractHash: hash,
		Admin:        cc.ContractAdmin,
		URI:          cc.ContractURI,
		Name:         cc.ContractName,
		NextTokenId:  1,
		CreatedAt:    now,
	})
	if err != nil {
		return nil, err
	}
	res.CreatedNewContract = created
	return c, nil
}

// token returns the token for tc.Uid, creating it under the next token id
// when the uid is new. A known uid must carry the same config.
func (s *PremintService) token(tx ledger.Tx, collection *ledger.Collection, tc premint.TokenCreationConfig, configHash common.Hash, now int64, res *PremintResult) (*ledger.Token, error) {
	token, err := tx.Token(collection.Address, tc.Uid)
	if err != nil {
		return nil, err
	}
	if token != nil {
		if token.ConfigHash != configHash {
			return nil, fmt.Errorf("uid %s: %w", tc.Uid, premint.ErrTokenConfigConflict)
		}
		return token, nil
	}

	token = &ledger.Token{
		Collection:  collection.Address,
		TokenId:     collection.NextTokenId,
		Uid:         tc.Uid,
		ConfigHash:  configHash,
		Config:      tc,
		TotalMinted: new(big.Int),
		SaleStart:   now,
		CreatedAt:   now,
	}
	// durations past the int64 horizon never end
	if tc.SaleDuration > 0 && tc.SaleDuration <= uint64(math.MaxInt64-now) {
		token.SaleEnd = now + int64(tc.SaleDuration)
	}

	collection.NextTokenId++
	if err := tx.SaveCollection(collection); err != nil {
		return nil, err
	}
	res.CreatedNewToken = true
	return token, nil
}

// IsRejection reports whether err is a premint rule violation rather than
// an infrastructure failure.
func IsRejection(err error) bool {
	for _, target := range []error{
		premint.ErrInvalidSignature,
		premint.ErrInvalidSignatureLength,
		premint.ErrInsufficientPayment,
		premint.ErrMaxSupplyExceeded,
		premint.ErrMaxPerAddressExceeded,
		premint.ErrSaleEnded,
		premint.ErrInvalidQuantity,
		premint.ErrTokenConfigConflict,
		premint.ErrNotAdmin,
		premint.ErrContractNotDeployed,
		premint.ErrInvalidTokenConfig,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
