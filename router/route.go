package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/thisislithium/zora-protocol/config"
	"github.com/thisislithium/zora-protocol/controler"
	"github.com/thisislithium/zora-protocol/pkg/metrics"
	"github.com/thisislithium/zora-protocol/router/cache"
	"github.com/thisislithium/zora-protocol/service"
)

const defaultCacheTTL = 20 * time.Second

func NewRoute(premintS *service.PremintService, signS *service.SignService) *gin.Engine {
	r := gin.Default()
	app := config.GetConfig().App
	root := r.Group(app.RoutePrefix)

	premintC := controler.NewPremintController(premintS, signS)
	contractC := controler.NewContractController(premintS)

	// hashes and typed data are pure functions of the request
	ttl := time.Duration(app.CacheSeconds) * time.Second
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	lookup := cache.Middleware(ttl)

	v1 := root.Group("/v1")
	v1.POST("/premint/typed_data", lookup, premintC.TypedData)
	v1.POST("/premint/recover", premintC.Recover)
	v1.POST("/premint/execute", premintC.Execute)
	v1.POST("/premint/creator", premintC.GrantCreator)
	v1.POST("/contract/hash", lookup, contractC.Hash)
	v1.GET("/contract/address", contractC.Address)
	v1.GET("/contract/events", contractC.Events)
	v1.GET("/balance", contractC.Balance)
	v1.GET("/withdrawable", contractC.Withdrawable)

	r.GET("/metrics", metrics.Handler())

	return r
}
