package recover_signer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"github.com/thisislithium/zora-protocol/config"
	"github.com/thisislithium/zora-protocol/pkg/contracts"
	"github.com/thisislithium/zora-protocol/pkg/global"
	"github.com/thisislithium/zora-protocol/pkg/log"
	"github.com/thisislithium/zora-protocol/pkg/premint"
	ptypes "github.com/thisislithium/zora-protocol/pkg/types"
	"github.com/thisislithium/zora-protocol/pkg/utils"
	"github.com/thisislithium/zora-protocol/service"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type output struct {
	Signer        string `json:"signer"`
	Digest        string `json:"digest"`
	OnchainSigner string `json:"onchainSigner,omitempty"`
}

func NewCommand() *cobra.Command {
	var rpc string
	cmd := &cobra.Command{
		Use:   "recover <signed-premint.yaml>",
		Short: "recover the signer of a premint signature",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Init("")
			return run(cmd.Context(), args[0], rpc)
		},
	}
	cmd.Flags().StringVar(&rpc, "rpc", "", "rpc url, also asks the preminter contract when set")
	return cmd
}

func run(ctx context.Context, path, rpc string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var req ptypes.RecoverReq
	if err := yaml.Unmarshal(data, &req); err != nil {
		return err
	}

	conf := config.GetConfig()
	opts, err := service.PremintOptionsFromConfig(conf.Premint)
	if err != nil {
		return err
	}
	signS, err := service.NewSignService(premint.NewDomain(opts.Preminter, opts.ChainId), conf.Chains)
	if err != nil {
		return err
	}

	rsp, err := signS.Recover(&req)
	if err != nil {
		return err
	}
	out := output{Signer: rsp.Signer, Digest: rsp.Digest}

	if rpc != "" {
		signer, err := onchainSigner(ctx, signS, &req, rpc)
		if err != nil {
			return err
		}
		out.OnchainSigner = signer.Hex()
		if signer.Hex() != rsp.Signer {
			log.Log.Warn("onchain signer differs",
				zap.String("local", rsp.Signer),
				zap.String("onchain", signer.Hex()),
			)
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// onchainSigner asks the preminter deployed on the rpc's chain to recover the
// signer, which checks the local digest against the contract's.
func onchainSigner(ctx context.Context, signS *service.SignService, req *ptypes.RecoverReq, rpc string) (common.Address, error) {
	client, err := global.Client(ctx, rpc)
	if err != nil {
		return common.Address{}, err
	}
	defer global.CloseClients()

	domain, err := signS.Domain(&req.TypedDataReq)
	if err != nil {
		return common.Address{}, err
	}
	cc, err := req.ContractConfig.Config()
	if err != nil {
		return common.Address{}, err
	}
	tc, err := req.TokenConfig.Config()
	if err != nil {
		return common.Address{}, err
	}
	sig, err := utils.ParseHex("signature", req.Signature)
	if err != nil {
		return common.Address{}, err
	}

	res, err := contracts.Read(ctx, client, contracts.RecoverSigner(domain.VerifyingContract, contracts.RecoverSignerArgs{
		ContractConfig: cc,
		TokenConfig:    tc,
		Signature:      sig,
	}))
	if err != nil {
		return common.Address{}, err
	}
	if len(res) != 1 {
		return common.Address{}, fmt.Errorf("recoverSigner: unexpected %d outputs", len(res))
	}
	signer, ok := res[0].(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("recoverSigner: unexpected output %T", res[0])
	}
	return signer, nil
}
