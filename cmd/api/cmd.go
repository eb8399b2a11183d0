package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/thisislithium/zora-protocol/config"
	"github.com/thisislithium/zora-protocol/dao"
	"github.com/thisislithium/zora-protocol/ledger"
	"github.com/thisislithium/zora-protocol/pkg/database"
	"github.com/thisislithium/zora-protocol/pkg/log"
	"github.com/thisislithium/zora-protocol/router"
	"github.com/thisislithium/zora-protocol/service"
	"github.com/thisislithium/zora-protocol/store"
	"go.uber.org/zap"
)

func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "api",
		Short: "serve the premint api",
		Run: func(cmd *cobra.Command, args []string) {
			setup()
		},
	}
}

// OpenLedger opens the ledger backend named by conf.Ledger.Driver.
func OpenLedger(conf config.Config) (ledger.Ledger, error) {
	switch conf.Ledger.Driver {
	case "", "badger":
		bs, err := store.OpenBadger(conf.Ledger.Dir, conf.Ledger.ConflictRetries)
		if err != nil {
			return nil, err
		}
		return bs, nil
	case "mysql":
		db, err := database.Open(conf.Mysql)
		if err != nil {
			return nil, err
		}
		return dao.NewGormLedger(db, conf.Ledger.ConflictRetries), nil
	default:
		return nil, fmt.Errorf("unknown ledger driver %q", conf.Ledger.Driver)
	}
}

func setup() {
	conf := config.GetConfig()
	log.Init("api.log")

	l, err := OpenLedger(conf)
	if err != nil {
		log.Log.Fatal("failed to open ledger", zap.Error(err))
	}
	defer func() {
		if err := l.Close(); err != nil {
			log.Log.Error("failed to close ledger", zap.Error(err))
		}
	}()

	opts, err := service.PremintOptionsFromConfig(conf.Premint)
	if err != nil {
		log.Log.Fatal("invalid premint config", zap.Error(err))
	}
	premintS := service.NewPremintService(l, opts)
	signS, err := service.NewSignService(premintS.Domain(), conf.Chains)
	if err != nil {
		log.Log.Fatal("invalid chain config", zap.Error(err))
	}

	gin.DefaultWriter = log.Write
	r := router.NewRoute(premintS, signS)
	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", conf.App.Port),
		Handler: r,
	}

	log.Log.Info("premint api started",
		zap.Int("port", conf.App.Port),
		zap.String("ledger", conf.Ledger.Driver),
		zap.Uint64("chain_id", conf.Premint.ChainId),
	)

	go func() {
		WaitForSignal(func() {
			ctx, cancel := context.WithTimeout(context.TODO(), 5*time.Second)
			defer cancel()
			if err := httpSrv.Shutdown(ctx); err != nil {
				log.Log.Error("failed to shutdown http server",
					zap.Error(err),
				)
			}
		})
	}()

	if err := httpSrv.ListenAndServe(); err != nil {
		if err != http.ErrServerClosed {
			log.Log.Fatal("failed to run api server",
				zap.Error(err),
			)
		}
	}
}

func WaitForSignal(callback func()) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGINT)

	sig := <-sigCh
	log.Log.Info("signal arrived",
		zap.String("signal", sig.String()),
	)

	callback()
}
