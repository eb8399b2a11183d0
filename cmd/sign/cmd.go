package sign

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
	"github.com/thisislithium/zora-protocol/config"
	"github.com/thisislithium/zora-protocol/pkg/global"
	"github.com/thisislithium/zora-protocol/pkg/log"
	"github.com/thisislithium/zora-protocol/pkg/premint"
	ptypes "github.com/thisislithium/zora-protocol/pkg/types"
	"github.com/thisislithium/zora-protocol/service"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// output is printed as json, MintFee is the per token fee in wei.
type output struct {
	Signer    string      `json:"signer"`
	Digest    string      `json:"digest"`
	Signature string      `json:"signature"`
	MintFee   string      `json:"mintFee"`
	TypedData interface{} `json:"typedData"`
}

func NewCommand() *cobra.Command {
	var (
		key string
		rpc string
	)
	cmd := &cobra.Command{
		Use:   "sign <premint.yaml>",
		Short: "sign a premint with a private key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Init("")
			return run(cmd.Context(), args[0], key, rpc)
		},
	}
	cmd.Flags().StringVar(&key, "key", "", "hex encoded private key of the creator")
	cmd.Flags().StringVar(&rpc, "rpc", "", "rpc url, the chain id is read from the node when set")
	_ = cmd.MarkFlagRequired("key")
	return cmd
}

// LoadRequest reads a premint request from a yaml file.
func LoadRequest(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, out)
}

func newSignService() (*service.SignService, service.PremintOptions, error) {
	conf := config.GetConfig()
	opts, err := service.PremintOptionsFromConfig(conf.Premint)
	if err != nil {
		return nil, opts, err
	}
	signS, err := service.NewSignService(premint.NewDomain(opts.Preminter, opts.ChainId), conf.Chains)
	return signS, opts, err
}

func run(ctx context.Context, path, hexKey, rpc string) error {
	var req ptypes.TypedDataReq
	if err := LoadRequest(path, &req); err != nil {
		return err
	}

	if rpc != "" {
		client, err := global.Client(ctx, rpc)
		if err != nil {
			return err
		}
		defer global.CloseClients()
		chainId, err := client.ChainID(ctx)
		if err != nil {
			return err
		}
		req.ChainId = chainId.Uint64()
	}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(hexKey, "0x"))
	if err != nil {
		return fmt.Errorf("key: %w", err)
	}

	signS, opts, err := newSignService()
	if err != nil {
		return err
	}
	fee, ok := signS.MintFee(&req)
	if !ok {
		fee = opts.MintFee
	}
	typedData, err := signS.TypedData(&req)
	if err != nil {
		return err
	}
	digest, err := premint.Hash(typedData)
	if err != nil {
		return err
	}
	sig, err := premint.Sign(typedData, key)
	if err != nil {
		return err
	}

	signer := crypto.PubkeyToAddress(key.PublicKey)
	log.Log.Info("premint signed",
		zap.String("signer", signer.Hex()),
		zap.Uint64("chain_id", (*big.Int)(typedData.Domain.ChainId).Uint64()),
		zap.String("uid", req.TokenConfig.Uid),
	)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(output{
		Signer:    signer.Hex(),
		Digest:    digest.Hex(),
		Signature: hexutil.Encode(sig),
		MintFee:   fee.String(),
		TypedData: typedData,
	})
}
