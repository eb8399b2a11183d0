package store

import (
	"encoding/binary"
	"errors"
	"math/big"

	"github.com/dgraph-io/badger/v4"
	"github.com/ethereum/go-ethereum/common"
	"github.com/thisislithium/zora-protocol/ledger"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	prefixContractAddress = "PREMINT:CONTRACT:"
	prefixCollection      = "PREMINT:COLLECTION:"
	prefixToken           = "PREMINT:TOKEN:"
	prefixBalance         = "PREMINT:BALANCE:"
	prefixCreator         = "PREMINT:CREATOR:"
	prefixCredit          = "PREMINT:CREDIT:"
	prefixEvent           = "PREMINT:EVENT:"
	prefixEventSequence   = "PREMINT:EVENT_SEQUENCE:"
)

type badgerTx struct {
	txn *badger.Txn
}

func key(prefix string, parts ...[]byte) []byte {
	k := []byte(prefix)
	for _, p := range parts {
		k = append(k, p...)
	}
	return k
}

func uint64Bytes(v uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, v)
	return buf
}

func (tx *badgerTx) get(k []byte) ([]byte, error) {
	item, err := tx.txn.Get(k)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return item.ValueCopy(nil)
}

func (tx *badgerTx) getRecord(k []byte, out interface{}) (bool, error) {
	val, err := tx.get(k)
	if err != nil || val == nil {
		return false, err
	}
	return true, msgpack.Unmarshal(val, out)
}

func (tx *badgerTx) setRecord(k []byte, v interface{}) error {
	val, err := msgpack.Marshal(v)
	if err != nil {
		return err
	}
	return tx.txn.Set(k, val)
}

func (tx *badgerTx) getAmount(k []byte) (*big.Int, error) {
	val, err := tx.get(k)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(val), nil
}

func (tx *badgerTx) addAmount(k []byte, amount *big.Int) error {
	if amount == nil || amount.Sign() == 0 {
		return nil
	}
	current, err := tx.getAmount(k)
	if err != nil {
		return err
	}
	current.Add(current, amount)
	if current.Sign() < 0 {
		return errors.New("store: negative amount")
	}
	return tx.txn.Set(k, current.Bytes())
}

func (tx *badgerTx) ContractAddress(hash common.Hash) (common.Address, error) {
	val, err := tx.get(key(prefixContractAddress, hash.Bytes()))
	if err != nil {
		return common.Address{}, err
	}
	return common.BytesToAddress(val), nil
}

func (tx *badgerTx) Collection(address common.Address) (*ledger.Collection, error) {
	var r collectionRecord
	found, err := tx.getRecord(key(prefixCollection, address.Bytes()), &r)
	if err != nil || !found {
		return nil, err
	}
	return r.collection(), nil
}

func (tx *badgerTx) CreateCollection(c *ledger.Collection) (*ledger.Collection, bool, error) {
	existing, err := tx.ContractAddress(c.ContractHash)
	if err != nil {
		return nil, false, err
	}
	if existing != (common.Address{}) {
		stored, err := tx.Collection(existing)
		return stored, false, err
	}
	if err := tx.txn.Set(key(prefixContractAddress, c.ContractHash.Bytes()), c.Address.Bytes()); err != nil {
		return nil, false, err
	}
	if err := tx.SaveCollection(c); err != nil {
		return nil, false, err
	}
	return c, true, nil
}

func (tx *badgerTx) SaveCollection(c *ledger.Collection) error {
	return tx.setRecord(key(prefixCollection, c.Address.Bytes()), newCollectionRecord(c))
}

func (tx *badgerTx) Token(collection common.Address, uid *big.Int) (*ledger.Token, error) {
	var r tokenRecord
	found, err := tx.getRecord(key(prefixToken, collection.Bytes(), common.BigToHash(uid).Bytes()), &r)
	if err != nil || !found {
		return nil, err
	}
	return r.token()
}

func (tx *badgerTx) SaveToken(t *ledger.Token) error {
	return tx.setRecord(key(prefixToken, t.Collection.Bytes(), common.BigToHash(t.Uid).Bytes()), newTokenRecord(t))
}

func (tx *badgerTx) BalanceOf(collection, owner common.Address, tokenId uint64) (*big.Int, error) {
	return tx.getAmount(key(prefixBalance, collection.Bytes(), uint64Bytes(tokenId), owner.Bytes()))
}

func (tx *badgerTx) AddBalance(collection, owner common.Address, tokenId uint64, amount *big.Int) error {
	return tx.addAmount(key(prefixBalance, collection.Bytes(), uint64Bytes(tokenId), owner.Bytes()), amount)
}

func (tx *badgerTx) IsCreator(collection, account common.Address) (bool, error) {
	val, err := tx.get(key(prefixCreator, collection.Bytes(), account.Bytes()))
	return val != nil, err
}

func (tx *badgerTx) AddCreator(collection, account common.Address) error {
	return tx.txn.Set(key(prefixCreator, collection.Bytes(), account.Bytes()), []byte{1})
}

func (tx *badgerTx) Withdrawable(account common.Address) (*big.Int, error) {
	return tx.getAmount(key(prefixCredit, account.Bytes()))
}

func (tx *badgerTx) Credit(account common.Address, amount *big.Int) error {
	return tx.addAmount(key(prefixCredit, account.Bytes()), amount)
}

// AppendEvent keeps one sequence per collection so premints against
// different collections never conflict.
func (tx *badgerTx) AppendEvent(e *ledger.PremintedEvent) error {
	seqKey := key(prefixEventSequence, e.Collection.Bytes())
	seqVal, err := tx.get(seqKey)
	if err != nil {
		return err
	}
	var seq uint64
	if len(seqVal) == 8 {
		seq = binary.BigEndian.Uint64(seqVal)
	}
	seq++
	if err := tx.txn.Set(seqKey, uint64Bytes(seq)); err != nil {
		return err
	}
	return tx.setRecord(key(prefixEvent, e.Collection.Bytes(), uint64Bytes(seq)), newEventRecord(e))
}

func (tx *badgerTx) Events(collection common.Address) ([]*ledger.PremintedEvent, error) {
	prefix := key(prefixEvent, collection.Bytes())
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	it := tx.txn.NewIterator(opts)
	defer it.Close()

	var events []*ledger.PremintedEvent
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		val, err := it.Item().ValueCopy(nil)
		if err != nil {
			return nil, err
		}
		var r eventRecord
		if err := msgpack.Unmarshal(val, &r); err != nil {
			return nil, err
		}
		e, err := r.event()
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, nil
}
