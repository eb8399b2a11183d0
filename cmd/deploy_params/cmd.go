package deploy_params

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"github.com/thisislithium/zora-protocol/pkg/contracts"
	"github.com/thisislithium/zora-protocol/pkg/global"
	"github.com/thisislithium/zora-protocol/pkg/log"
	"github.com/thisislithium/zora-protocol/pkg/utils"
	"go.uber.org/zap"
)

func NewCommand() *cobra.Command {
	var (
		args  contracts.DeployWowTokenArgs
		user  string
		value string
	)
	cmd := &cobra.Command{
		Use:   "deploy-params",
		Short: "print the call that deploys a wow token from a user's account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			log.Init("")
			var err error
			if args.UserAddress, err = utils.ParseAddress("user", user); err != nil {
				return err
			}
			if args.Value, err = utils.ParseEther(value); err != nil {
				return err
			}

			call, err := contracts.DeployTokenParameters(args)
			if err != nil {
				return err
			}
			d, err := call.Descriptor()
			if err != nil {
				return err
			}
			log.Log.Info("deploy parameters built",
				zap.Uint64("chain_id", args.ChainId),
				zap.String("factory", call.Address.Hex()),
			)

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(d)
		},
	}
	cmd.Flags().Uint64Var(&args.ChainId, "chain-id", global.BaseChainId, "chain to deploy on")
	cmd.Flags().StringVar(&user, "user", "", "account that creates the token")
	cmd.Flags().StringVar(&args.Cid, "cid", "", "ipfs:// token uri")
	cmd.Flags().StringVar(&args.Name, "name", "", "token name")
	cmd.Flags().StringVar(&args.Symbol, "symbol", "", "token symbol")
	cmd.Flags().StringVar(&value, "value", "0", "initial buy in ether")
	return cmd
}
