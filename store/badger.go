package store

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/thisislithium/zora-protocol/ledger"
	"github.com/thisislithium/zora-protocol/pkg/log"
	"go.uber.org/zap"
)

const defaultConflictRetries = 8

// BadgerStore is the embedded ledger. Transactions are serializable, a commit
// that raced another writer fails with badger.ErrConflict and is replayed.
type BadgerStore struct {
	db      *badger.DB
	retries int
	stop    chan struct{}
}

type badgerLogger struct{}

func (badgerLogger) Errorf(format string, v ...interface{})   { log.Sugar.Errorf(format, v...) }
func (badgerLogger) Warningf(format string, v ...interface{}) { log.Sugar.Warnf(format, v...) }
func (badgerLogger) Infof(format string, v ...interface{})    { log.Sugar.Debugf(format, v...) }
func (badgerLogger) Debugf(format string, v ...interface{})   { log.Sugar.Debugf(format, v...) }

// OpenBadger opens the ledger at path, an empty path keeps it in memory.
func OpenBadger(path string, retries int) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(badgerLogger{})
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	if retries <= 0 {
		retries = defaultConflictRetries
	}

	bs := &BadgerStore{
		db:      db,
		retries: retries,
		stop:    make(chan struct{}),
	}
	if path != "" {
		go bs.collectGarbage()
	}
	return bs, nil
}

func (bs *BadgerStore) collectGarbage() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-bs.stop:
			return
		case <-ticker.C:
		}
		lsm, vlog := bs.db.Size()
		log.Log.Debug("badger size", zap.Int64("lsm", lsm), zap.Int64("vlog", vlog))
		if lsm > 1024*1024*8 || vlog > 1024*1024*32 {
			if err := bs.db.RunValueLogGC(0.5); err != nil && !errors.Is(err, badger.ErrNoRewrite) {
				log.Log.Warn("badger value log gc", zap.Error(err))
			}
		}
	}
}

func (bs *BadgerStore) Close() error {
	close(bs.stop)
	return bs.db.Close()
}

func (bs *BadgerStore) View(ctx context.Context, fn func(tx ledger.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return bs.db.View(func(txn *badger.Txn) error {
		return fn(&badgerTx{txn: txn})
	})
}

func (bs *BadgerStore) Update(ctx context.Context, fn func(tx ledger.Tx) error) error {
	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := bs.db.Update(func(txn *badger.Txn) error {
			return fn(&badgerTx{txn: txn})
		})
		if errors.Is(err, badger.ErrConflict) && attempt < bs.retries {
			log.Log.Debug("ledger conflict, replaying", zap.Int("attempt", attempt+1))
			continue
		}
		return err
	}
}
