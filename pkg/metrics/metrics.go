// Package metrics holds the prometheus collectors of the premint service.
package metrics

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/thisislithium/zora-protocol/pkg/premint"
)

var (
	PremintsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "premint_executions_total",
			Help: "Premint executions by outcome",
		},
		[]string{"outcome"},
	)

	CollectionsDeployed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "premint_collections_deployed_total",
			Help: "Collections created by a first premint",
		},
	)

	TokensMinted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "premint_tokens_minted_total",
			Help: "Token quantity minted across all collections",
		},
	)

	SignaturesRecovered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "premint_signatures_recovered_total",
			Help: "Typed data signatures recovered",
		},
	)
)

var outcomes = []struct {
	err   error
	label string
}{
	{premint.ErrInvalidSignature, "invalid_signature"},
	{premint.ErrInvalidSignatureLength, "invalid_signature"},
	{premint.ErrNotAdmin, "unauthorized"},
	{premint.ErrInsufficientPayment, "insufficient_payment"},
	{premint.ErrMaxSupplyExceeded, "cap_exceeded"},
	{premint.ErrMaxPerAddressExceeded, "cap_exceeded"},
	{premint.ErrSaleEnded, "sale_ended"},
	{premint.ErrInvalidQuantity, "invalid_quantity"},
	{premint.ErrTokenConfigConflict, "uid_conflict"},
	{premint.ErrInvalidTokenConfig, "invalid_token_config"},
}

// Outcome maps a premint result to its counter label.
func Outcome(err error) string {
	if err == nil {
		return "ok"
	}
	for _, o := range outcomes {
		if errors.Is(err, o.err) {
			return o.label
		}
	}
	return "error"
}

func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
