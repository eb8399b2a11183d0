package migrate

import (
	"github.com/spf13/cobra"
	"github.com/thisislithium/zora-protocol/dao"
	"github.com/thisislithium/zora-protocol/pkg/database"
	"github.com/thisislithium/zora-protocol/pkg/log"
)

func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "create or upgrade the mysql ledger tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Init("")
			database.NewMysql()
			defer database.DisconnectMysql()

			if err := dao.Migrate(database.Mysql()); err != nil {
				return err
			}
			log.Sugar.Info("migrate ledger tables success")
			return nil
		},
	}
}
