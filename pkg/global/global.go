package global

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/ethclient"
)

const (
	BaseChainId        uint64 = 8453
	BaseSepoliaChainId uint64 = 84532

	// FoundryRpcUrl is where anvil listens by default.
	FoundryRpcUrl = "http://127.0.0.1:8545"
)

var (
	clientsMu sync.Mutex
	clients   = map[string]*ethclient.Client{}
)

// Client dials rpcUrl once and reuses the connection afterwards.
func Client(ctx context.Context, rpcUrl string) (*ethclient.Client, error) {
	clientsMu.Lock()
	defer clientsMu.Unlock()

	if c, ok := clients[rpcUrl]; ok {
		return c, nil
	}
	c, err := ethclient.DialContext(ctx, rpcUrl)
	if err != nil {
		return nil, err
	}
	clients[rpcUrl] = c
	return c, nil
}

func CloseClients() {
	clientsMu.Lock()
	defer clientsMu.Unlock()

	for url, c := range clients {
		c.Close()
		delete(clients, url)
	}
}
