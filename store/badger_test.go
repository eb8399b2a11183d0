package store

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thisislithium/zora-protocol/ledger"
	"github.com/thisislithium/zora-protocol/pkg/premint"
)

func openMemory(t *testing.T) *BadgerStore {
	bs, err := OpenBadger("", 32)
	require.NoError(t, err)
	t.Cleanup(func() { _ = bs.Close() })
	return bs
}

func testCollection(address string) *ledger.Collection {
	return &ledger.Collection{
		Address:      common.HexToAddress(address),
		ContractHash: common.HexToHash("0xabcdef"),
		Admin:        common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8"),
		URI:          "ipfs://asdfasdfasdf",
		Name:         "My fun NFT",
		NextTokenId:  1,
		CreatedAt:    1700000000,
	}
}

func TestCreateCollectionIsIdempotent(t *testing.T) {
	bs := openMemory(t)
	ctx := context.Background()

	err := bs.Update(ctx, func(tx ledger.Tx) error {
		stored, created, err := tx.CreateCollection(testCollection("0x01"))
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, common.HexToAddress("0x01"), stored.Address)

		stored, created, err = tx.CreateCollection(testCollection("0x02"))
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, common.HexToAddress("0x01"), stored.Address)
		return nil
	})
	require.NoError(t, err)

	err = bs.View(ctx, func(tx ledger.Tx) error {
		addr, err := tx.ContractAddress(common.HexToHash("0xabcdef"))
		require.NoError(t, err)
		assert.Equal(t, common.HexToAddress("0x01"), addr)

		missing, err := tx.ContractAddress(common.HexToHash("0x01"))
		require.NoError(t, err)
		assert.Equal(t, common.Address{}, missing)

		c, err := tx.Collection(addr)
		require.NoError(t, err)
		assert.Equal(t, testCollection("0x01"), c)
		return nil
	})
	require.NoError(t, err)
}

func TestUpdateRollsBackOnError(t *testing.T) {
	bs := openMemory(t)
	ctx := context.Background()
	owner := common.HexToAddress("0x03")
	boom := errors.New("boom")

	err := bs.Update(ctx, func(tx ledger.Tx) error {
		if _, _, err := tx.CreateCollection(testCollection("0x01")); err != nil {
			return err
		}
		if err := tx.AddBalance(common.HexToAddress("0x01"), owner, 1, big.NewInt(5)); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	err = bs.View(ctx, func(tx ledger.Tx) error {
		addr, err := tx.ContractAddress(common.HexToHash("0xabcdef"))
		require.NoError(t, err)
		assert.Equal(t, common.Address{}, addr)

		balance, err := tx.BalanceOf(common.HexToAddress("0x01"), owner, 1)
		require.NoError(t, err)
		assert.Equal(t, 0, balance.Sign())
		return nil
	})
	require.NoError(t, err)
}

func TestTokenRoundTrip(t *testing.T) {
	bs := openMemory(t)
	ctx := context.Background()
	collection := common.HexToAddress("0x01")

	token := &ledger.Token{
		Collection:  collection,
		TokenId:     1,
		Uid:         big.NewInt(7),
		ConfigHash:  common.HexToHash("0x1234"),
		TotalMinted: big.NewInt(2),
		SaleStart:   100,
		SaleEnd:     200,
		CreatedAt:   100,
		Config: premint.TokenCreationConfig{
			TokenURI:            "ipfs://tokenIpfsId0",
			MaxSupply:           big.NewInt(100),
			MaxTokensPerAddress: 10,
			PricePerToken:       big.NewInt(1000),
			SaleDuration:        100,
			RoyaltyMintSchedule: 30,
			RoyaltyBPS:          200,
			RoyaltyRecipient:    common.HexToAddress("0x02"),
			Uid:                 big.NewInt(7),
		},
	}

	require.NoError(t, bs.Update(ctx, func(tx ledger.Tx) error {
		return tx.SaveToken(token)
	}))

	require.NoError(t, bs.View(ctx, func(tx ledger.Tx) error {
		got, err := tx.Token(collection, big.NewInt(7))
		require.NoError(t, err)
		assert.Equal(t, token, got)

		missing, err := tx.Token(collection, big.NewInt(8))
		require.NoError(t, err)
		assert.Nil(t, missing)
		return nil
	}))
}

func TestCreditsCreatorsAndEvents(t *testing.T) {
	bs := openMemory(t)
	ctx := context.Background()
	collection := common.HexToAddress("0x01")
	account := common.HexToAddress("0x02")

	require.NoError(t, bs.Update(ctx, func(tx ledger.Tx) error {
		require.NoError(t, tx.Credit(account, big.NewInt(10)))
		require.NoError(t, tx.Credit(account, big.NewInt(5)))
		require.NoError(t, tx.AddCreator(collection, account))
		for i := 1; i <= 3; i++ {
			require.NoError(t, tx.AppendEvent(&ledger.PremintedEvent{
				Collection: collection,
				TokenId:    uint64(i),
				Uid:        big.NewInt(int64(i)),
				Minter:     account,
				Quantity:   big.NewInt(1),
				Value:      big.NewInt(0),
				Comment:    "I love this!",
			}))
		}
		return nil
	}))

	require.NoError(t, bs.View(ctx, func(tx ledger.Tx) error {
		credit, err := tx.Withdrawable(account)
		require.NoError(t, err)
		assert.Equal(t, big.NewInt(15), credit)

		ok, err := tx.IsCreator(collection, account)
		require.NoError(t, err)
		assert.True(t, ok)
		ok, err = tx.IsCreator(collection, collection)
		require.NoError(t, err)
		assert.False(t, ok)

		events, err := tx.Events(collection)
		require.NoError(t, err)
		require.Len(t, events, 3)
		for i, e := range events {
			assert.Equal(t, uint64(i+1), e.TokenId)
			assert.Equal(t, "I love this!", e.Comment)
		}

		none, err := tx.Events(account)
		require.NoError(t, err)
		assert.Empty(t, none)
		return nil
	}))
}

func TestConcurrentCreateCollection(t *testing.T) {
	bs := openMemory(t)
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		created int32
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var won bool
			err := bs.Update(ctx, func(tx ledger.Tx) error {
				c := testCollection(common.BigToAddress(big.NewInt(int64(i + 1))).Hex())
				_, ok, err := tx.CreateCollection(c)
				won = ok
				return err
			})
			assert.NoError(t, err)
			if err == nil && won {
				atomic.AddInt32(&created, 1)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&created))
	require.NoError(t, bs.View(ctx, func(tx ledger.Tx) error {
		addr, err := tx.ContractAddress(common.HexToHash("0xabcdef"))
		require.NoError(t, err)
		assert.NotEqual(t, common.Address{}, addr)
		return nil
	}))
}

func TestCanceledContext(t *testing.T) {
	bs := openMemory(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := bs.Update(ctx, func(tx ledger.Tx) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}
