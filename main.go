package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/thisislithium/zora-protocol/cmd/api"
	"github.com/thisislithium/zora-protocol/cmd/deploy_params"
	"github.com/thisislithium/zora-protocol/cmd/extract_abis"
	"github.com/thisislithium/zora-protocol/cmd/migrate"
	"github.com/thisislithium/zora-protocol/cmd/recover_signer"
	"github.com/thisislithium/zora-protocol/cmd/sign"
)

func newCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "premint",
		Short: "premint",
	}

	cmd.AddCommand(api.NewCommand())
	cmd.AddCommand(sign.NewCommand())
	cmd.AddCommand(recover_signer.NewCommand())
	cmd.AddCommand(extract_abis.NewCommand())
	cmd.AddCommand(deploy_params.NewCommand())
	cmd.AddCommand(migrate.NewCommand())
	return cmd
}

func main() {
	cmd := newCommand()
	if err := cmd.Execute(); err != nil {
		os.Exit(-1)
	}
}
