package dao

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-sql-driver/mysql"
	"github.com/thisislithium/zora-protocol/ledger"
	"github.com/thisislithium/zora-protocol/pkg/log"
	"github.com/thisislithium/zora-protocol/pkg/premint"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	defaultDeadlockRetries = 8

	errDeadlock    uint16 = 1213
	errLockTimeout uint16 = 1205
)

// GormLedger keeps the ledger in mysql. Update runs inside one sql
// transaction and takes row locks on everything it reads.
type GormLedger struct {
	db      *gorm.DB
	retries int

	collectionHandler ICollection
	tokenHandler      IToken
	balanceHandler    IBalance
	creatorHandler    ICreator
	creditHandler     ICredit
	recordHandler     IPremintRecord
}

// NewGormLedger replays an Update up to retries times when innodb picks it as
// a deadlock victim or times out on a lock.
func NewGormLedger(db *gorm.DB, retries int) *GormLedger {
	if retries <= 0 {
		retries = defaultDeadlockRetries
	}
	return &GormLedger{
		db:                db,
		retries:           retries,
		collectionHandler: &CollectionHandler{},
		tokenHandler:      &TokenHandler{},
		balanceHandler:    &BalanceHandler{},
		creatorHandler:    &CreatorHandler{},
		creditHandler:     &CreditHandler{},
		recordHandler:     &PremintRecordHandler{},
	}
}

func (l *GormLedger) View(ctx context.Context, fn func(tx ledger.Tx) error) error {
	return fn(&gormTx{l: l, db: l.db.WithContext(ctx)})
}

func (l *GormLedger) Update(ctx context.Context, fn func(tx ledger.Tx) error) error {
	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := l.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
			return fn(&gormTx{l: l, db: db, lock: true})
		})
		if retryable(err) && attempt < l.retries {
			log.Log.Debug("ledger deadlock, replaying", zap.Int("attempt", attempt+1), zap.Error(err))
			continue
		}
		return err
	}
}

// retryable reports innodb lock errors. The transaction is rolled back by
// then and may run again. Concurrent first deploys of one collection hit 1213
// through the gap locks of their locking reads.
func retryable(err error) bool {
	var myErr *mysql.MySQLError
	if !errors.As(err, &myErr) {
		return false
	}
	return myErr.Number == errDeadlock || myErr.Number == errLockTimeout
}

func (l *GormLedger) Close() error {
	sqlDB, err := l.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

type gormTx struct {
	l    *GormLedger
	db   *gorm.DB
	lock bool
}

func (tx *gormTx) read() *gorm.DB {
	if tx.lock {
		return tx.db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx.db
}

func notFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func parseAmount(field, s string) (*big.Int, error) {
	if s == "" {
		return new(big.Int), nil
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("dao: invalid %s %q", field, s)
	}
	return v, nil
}

func amountString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

func (tx *gormTx) ContractAddress(hash common.Hash) (common.Address, error) {
	model, err := tx.l.collectionHandler.SelectByHash(tx.read(), hash.Hex())
	if notFound(err) {
		return common.Address{}, nil
	} else if err != nil {
		return common.Address{}, err
	}
	return common.HexToAddress(model.Address), nil
}

func toCollection(m *CollectionModel) *ledger.Collection {
	return &ledger.Collection{
		Address:      common.HexToAddress(m.Address),
		ContractHash: common.HexToHash(m.ContractHash),
		Admin:        common.HexToAddress(m.Admin),
		URI:          m.Uri,
		Name:         m.Name,
		NextTokenId:  m.NextTokenId,
		CreatedAt:    m.CreateAt,
	}
}

func (tx *gormTx) Collection(address common.Address) (*ledger.Collection, error) {
	model, err := tx.l.collectionHandler.SelectByAddress(tx.read(), address.Hex())
	if notFound(err) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return toCollection(model), nil
}

func (tx *gormTx) CreateCollection(c *ledger.Collection) (*ledger.Collection, bool, error) {
	created, err := tx.l.collectionHandler.Create(tx.db, &CollectionModel{
		Address:      c.Address.Hex(),
		ContractHash: c.ContractHash.Hex(),
		Admin:        c.Admin.Hex(),
		Uri:          c.URI,
		Name:         c.Name,
		NextTokenId:  c.NextTokenId,
		CreateAt:     c.CreatedAt,
	})
	if err != nil {
		return nil, false, err
	}
	if created {
		return c, true, nil
	}

	// lost the race, the unique index on contract_hash kept the first row
	model, err := tx.l.collectionHandler.SelectByHash(tx.read(), c.ContractHash.Hex())
	if err != nil {
		return nil, false, err
	}
	return toCollection(model), false, nil
}

func (tx *gormTx) SaveCollection(c *ledger.Collection) error {
	model, err := tx.l.collectionHandler.SelectByAddress(tx.read(), c.Address.Hex())
	if err != nil {
		return err
	}
	return tx.l.collectionHandler.Update(tx.db, model.Id, map[string]interface{}{
		"next_token_id": c.NextTokenId,
	})
}

func toToken(m *TokenModel) (*ledger.Token, error) {
	uid, err := parseAmount("uid", m.Uid)
	if err != nil {
		return nil, err
	}
	minted, err := parseAmount("total_minted", m.TotalMinted)
	if err != nil {
		return nil, err
	}
	maxSupply, err := parseAmount("max_supply", m.MaxSupply)
	if err != nil {
		return nil, err
	}
	price, err := parseAmount("price_per_token", m.PricePerToken)
	if err != nil {
		return nil, err
	}
	return &ledger.Token{
		Collection:  common.HexToAddress(m.Collection),
		TokenId:     m.TokenId,
		Uid:         uid,
		ConfigHash:  common.HexToHash(m.ConfigHash),
		TotalMinted: minted,
		SaleStart:   m.SaleStart,
		SaleEnd:     m.SaleEnd,
		CreatedAt:   m.CreateAt,
		Config: premint.TokenCreationConfig{
			TokenURI:            m.TokenUri,
			MaxSupply:           maxSupply,
			MaxTokensPerAddress: m.MaxTokensPerAddress,
			PricePerToken:       price,
			SaleDuration:        m.SaleDuration,
			RoyaltyMintSchedule: m.RoyaltyMintSchedule,
			RoyaltyBPS:          m.RoyaltyBps,
			RoyaltyRecipient:    common.HexToAddress(m.RoyaltyRecipient),
			Uid:                 uid,
		},
	}, nil
}

func (tx *gormTx) Token(collection common.Address, uid *big.Int) (*ledger.Token, error) {
	model, err := tx.l.tokenHandler.Select(tx.read(), collection.Hex(), amountString(uid))
	if notFound(err) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return toToken(model)
}

func (tx *gormTx) SaveToken(t *ledger.Token) error {
	model, err := tx.l.tokenHandler.Select(tx.read(), t.Collection.Hex(), amountString(t.Uid))
	if err == nil {
		return tx.l.tokenHandler.Update(tx.db, model.Id, map[string]interface{}{
			"total_minted": amountString(t.TotalMinted),
		})
	} else if !notFound(err) {
		return err
	}

	return tx.l.tokenHandler.Create(tx.db, &TokenModel{
		Collection:          t.Collection.Hex(),
		Uid:                 amountString(t.Uid),
		TokenId:             t.TokenId,
		ConfigHash:          t.ConfigHash.Hex(),
		TotalMinted:         amountString(t.TotalMinted),
		SaleStart:           t.SaleStart,
		SaleEnd:             t.SaleEnd,
		TokenUri:            t.Config.TokenURI,
		MaxSupply:           amountString(t.Config.MaxSupply),
		MaxTokensPerAddress: t.Config.MaxTokensPerAddress,
		PricePerToken:       amountString(t.Config.PricePerToken),
		SaleDuration:        t.Config.SaleDuration,
		RoyaltyMintSchedule: t.Config.RoyaltyMintSchedule,
		RoyaltyBps:          t.Config.RoyaltyBPS,
		RoyaltyRecipient:    t.Config.RoyaltyRecipient.Hex(),
		CreateAt:            t.CreatedAt,
	})
}

func (tx *gormTx) BalanceOf(collection, owner common.Address, tokenId uint64) (*big.Int, error) {
	model, err := tx.l.balanceHandler.Select(tx.read(), collection.Hex(), owner.Hex(), tokenId)
	if notFound(err) {
		return new(big.Int), nil
	} else if err != nil {
		return nil, err
	}
	return parseAmount("amount", model.Amount)
}

func (tx *gormTx) AddBalance(collection, owner common.Address, tokenId uint64, amount *big.Int) error {
	if amount == nil || amount.Sign() == 0 {
		return nil
	}
	model, err := tx.l.balanceHandler.Select(tx.read(), collection.Hex(), owner.Hex(), tokenId)
	if notFound(err) {
		return tx.l.balanceHandler.Create(tx.db, &BalanceModel{
			Collection: collection.Hex(),
			TokenId:    tokenId,
			Owner:      owner.Hex(),
			Amount:     amount.String(),
		})
	} else if err != nil {
		return err
	}
	current, err := parseAmount("amount", model.Amount)
	if err != nil {
		return err
	}
	return tx.l.balanceHandler.Update(tx.db, model.Id, map[string]interface{}{
		"amount": current.Add(current, amount).String(),
	})
}

func (tx *gormTx) IsCreator(collection, account common.Address) (bool, error) {
	return tx.l.creatorHandler.Exists(tx.db, collection.Hex(), account.Hex())
}

func (tx *gormTx) AddCreator(collection, account common.Address) error {
	return tx.l.creatorHandler.Create(tx.db, &CreatorModel{
		Collection: collection.Hex(),
		Account:    account.Hex(),
	})
}

func (tx *gormTx) Withdrawable(account common.Address) (*big.Int, error) {
	model, err := tx.l.creditHandler.Select(tx.read(), account.Hex())
	if notFound(err) {
		return new(big.Int), nil
	} else if err != nil {
		return nil, err
	}
	return parseAmount("amount", model.Amount)
}

func (tx *gormTx) Credit(account common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() == 0 {
		return nil
	}
	model, err := tx.l.creditHandler.Select(tx.read(), account.Hex())
	if notFound(err) {
		return tx.l.creditHandler.Create(tx.db, &CreditModel{
			Account: account.Hex(),
			Amount:  amount.String(),
		})
	} else if err != nil {
		return err
	}
	current, err := parseAmount("amount", model.Amount)
	if err != nil {
		return err
	}
	return tx.l.creditHandler.Update(tx.db, model.Id, map[string]interface{}{
		"amount": current.Add(current, amount).String(),
	})
}

func (tx *gormTx) AppendEvent(e *ledger.PremintedEvent) error {
	return tx.l.recordHandler.Create(tx.db, &PremintRecordModel{
		Collection:         e.Collection.Hex(),
		ContractHash:       e.ContractHash.Hex(),
		TokenId:            e.TokenId,
		Uid:                amountString(e.Uid),
		CreatedNewContract: e.CreatedNewContract,
		CreatedNewToken:    e.CreatedNewToken,
		Minter:             e.Minter.Hex(),
		Quantity:           amountString(e.Quantity),
		Value:              amountString(e.Value),
		Comment:            e.Comment,
		BlockAt:            e.Timestamp,
	})
}

func (tx *gormTx) Events(collection common.Address) ([]*ledger.PremintedEvent, error) {
	records, err := tx.l.recordHandler.Find(tx.db, collection.Hex())
	if err != nil {
		return nil, err
	}

	events := make([]*ledger.PremintedEvent, 0, len(records))
	for _, r := range records {
		uid, err := parseAmount("uid", r.Uid)
		if err != nil {
			return nil, err
		}
		quantity, err := parseAmount("quantity", r.Quantity)
		if err != nil {
			return nil, err
		}
		value, err := parseAmount("value", r.Value)
		if err != nil {
			return nil, err
		}
		events = append(events, &ledger.PremintedEvent{
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
			Timestamp:          r.BlockAt,
		})
	}
	return events, nil
}
