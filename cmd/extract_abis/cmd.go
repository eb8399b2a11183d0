package extract_abis

import (
	"github.com/spf13/cobra"
	"github.com/thisislithium/zora-protocol/pkg/contracts"
	"github.com/thisislithium/zora-protocol/pkg/log"
	"go.uber.org/zap"
)

func NewCommand() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "extract-abis",
		Short: "write the embedded contract abis to a directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Init("")
			files, err := contracts.ExtractABIs(out)
			if err != nil {
				return err
			}
			for _, f := range files {
				log.Log.Info("abi written", zap.String("file", f))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "abis", "output directory")
	return cmd
}
