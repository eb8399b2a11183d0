package controler

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gin-gonic/gin"
	"github.com/thisislithium/zora-protocol/pkg/helper"
	ptypes "github.com/thisislithium/zora-protocol/pkg/types"
	"github.com/thisislithium/zora-protocol/pkg/utils"
	"github.com/thisislithium/zora-protocol/service"
)

type ContractController struct {
	premintS *service.PremintService
}

func NewContractController(premintS *service.PremintService) *ContractController {
	return &ContractController{
		premintS: premintS,
	}
}

func (c *ContractController) Hash(ctx *gin.Context) {
	var req ptypes.ContractConfigReq
	if err := ctx.ShouldBind(&req); err != nil {
		utils.FailResponse(ctx, err.Error())
		return
	}

	cc, err := req.Config()
	if err != nil {
		utils.FailResponse(ctx, err.Error())
		return
	}

	utils.SuccessResponse(ctx, &ptypes.ContractHashRsp{
		ContractHash: c.premintS.ContractDataHash(cc).Hex(),
	})
}

func (c *ContractController) Address(ctx *gin.Context) {
	var req ptypes.ContractAddressReq
	if err := ctx.ShouldBind(&req); err != nil {
		utils.FailResponse(ctx, err.Error())
		return
	}

	raw, err := hexutil.Decode(req.ContractHash)
	if err != nil || len(raw) != common.HashLength {
		utils.FailResponse(ctx, "contract_hash: must be 32 bytes of hex")
		return
	}
	hash := common.BytesToHash(raw)

	addr, err := c.premintS.DeployedAddress(ctx.Request.Context(), hash)
	if err != nil {
		utils.FailResponse(ctx, err.Error())
		return
	}

	utils.SuccessResponse(ctx, &ptypes.ContractAddressRsp{
		ContractHash:    hash.Hex(),
		ContractAddress: addr.Hex(),
		Deployed:        addr != (common.Address{}),
	})
}

func (c *ContractController) Balance(ctx *gin.Context) {
	var req ptypes.BalanceReq
	if err := ctx.ShouldBind(&req); err != nil {
		utils.FailResponse(ctx, err.Error())
		return
	}

	collection, err := utils.ParseAddress("collection", req.Collection)
	if err != nil {
		utils.FailResponse(ctx, err.Error())
		return
	}
	owner, err := utils.ParseAddress("owner", req.Owner)
	if err != nil {
		utils.FailResponse(ctx, err.Error())
		return
	}

	balance, err := c.premintS.BalanceOf(ctx.Request.Context(), collection, owner, req.TokenId)
	if err != nil {
		utils.FailResponse(ctx, err.Error())
		return
	}

	utils.SuccessResponse(ctx, &ptypes.BalanceRsp{Balance: balance.String()})
}

func (c *ContractController) Withdrawable(ctx *gin.Context) {
	var req ptypes.AccountReq
	if err := ctx.ShouldBind(&req); err != nil {
		utils.FailResponse(ctx, err.Error())
		return
	}

	account, err := utils.ParseAddress("account", req.Account)
	if err != nil {
		utils.FailResponse(ctx, err.Error())
		return
	}

	amount, err := c.premintS.Withdrawable(ctx.Request.Context(), account)
	if err != nil {
		utils.FailResponse(ctx, err.Error())
		return
	}

	utils.SuccessResponse(ctx, &ptypes.WithdrawableRsp{
		Account: account.Hex(),
		Wei:     amount.String(),
		Ether:   utils.FormatEther(amount),
	})
}

func (c *ContractController) Events(ctx *gin.Context) {
	var req ptypes.CollectionReq
	if err := ctx.ShouldBind(&req); err != nil {
		utils.FailResponse(ctx, err.Error())
		return
	}

	collection, err := utils.ParseAddress("collection", req.Collection)
	if err != nil {
		utils.FailResponse(ctx, err.Error())
		return
	}

	events, err := c.premintS.Events(ctx.Request.Context(), collection)
	if err != nil {
		utils.FailResponse(ctx, err.Error())
		return
	}

	res := &ptypes.ListEventsRsp{
		Count: int64(len(events)),
		List:  make([]*ptypes.PremintedEventRsp, 0, len(events)),
	}
	for _, e := range events {
		res.List = append(res.List, &ptypes.PremintedEventRsp{
			ContractAddress:    e.Collection.Hex(),
			ContractHash:       e.ContractHash.Hex(),
			TokenId:            e.TokenId,
			Uid:                e.Uid.String(),
			CreatedNewContract: e.CreatedNewContract,
			CreatedNewToken:    e.CreatedNewToken,
			Type:               helper.NewPremintRecordsType(e.CreatedNewContract, e.CreatedNewToken).String(),
			Minter:             e.Minter.Hex(),
			Quantity:           e.Quantity.String(),
			Value:              e.Value.String(),
			Comment:            e.Comment,
			Timestamp:          e.Timestamp,
		})
	}

	utils.SuccessResponse(ctx, res)
}
