package controler

import (
	"github.com/gin-gonic/gin"
	"github.com/thisislithium/zora-protocol/pkg/log"
	"github.com/thisislithium/zora-protocol/pkg/metrics"
	ptypes "github.com/thisislithium/zora-protocol/pkg/types"
	"github.com/thisislithium/zora-protocol/pkg/utils"
	"github.com/thisislithium/zora-protocol/service"
)

type PremintController struct {
	premintS *service.PremintService
	signS    *service.SignService
}

func NewPremintController(premintS *service.PremintService, signS *service.SignService) *PremintController {
	return &PremintController{
		premintS: premintS,
		signS:    signS,
	}
}

// TypedData returns the envelope the creator has to sign.
func (c *PremintController) TypedData(ctx *gin.Context) {
	var req ptypes.TypedDataReq
	if err := ctx.ShouldBind(&req); err != nil {
		utils.FailResponse(ctx, err.Error())
		return
	}

	res, err := c.signS.TypedData(&req)
	if err != nil {
		utils.FailResponse(ctx, err.Error())
		return
	}

	utils.SuccessResponse(ctx, res)
}

func (c *PremintController) Recover(ctx *gin.Context) {
	var req ptypes.RecoverReq
	if err := ctx.ShouldBind(&req); err != nil {
		utils.FailResponse(ctx, err.Error())
		return
	}

	res, err := c.signS.Recover(&req)
	if err != nil {
		utils.FailResponse(ctx, err.Error())
		return
	}

	utils.SuccessResponse(ctx, res)
}

func (c *PremintController) Execute(ctx *gin.Context) {
	var req ptypes.PremintReq
	if err := ctx.ShouldBind(&req); err != nil {
		utils.FailResponse(ctx, err.Error())
		return
	}

	call, err := premintCall(&req)
	if err != nil {
		utils.FailResponse(ctx, err.Error())
		return
	}

	res, err := c.premintS.Premint(ctx.Request.Context(), call)
	if err != nil {
		if !service.IsRejection(err) {
			log.Sugar.Error(err)
			utils.FailResponse(ctx, err.Error())
			return
		}
		utils.RejectResponse(ctx, metrics.Outcome(err), err.Error())
		return
	}

	utils.SuccessResponse(ctx, &ptypes.PremintRsp{
		ContractAddress:    res.ContractAddress.Hex(),
		ContractHash:       res.ContractHash.Hex(),
		TokenId:            res.TokenId,
		CreatedNewContract: res.CreatedNewContract,
		CreatedNewToken:    res.CreatedNewToken,
		Balance:            res.Balance.String(),
	})
}

func (c *PremintController) GrantCreator(ctx *gin.Context) {
	var req ptypes.GrantCreatorReq
	if err := ctx.ShouldBind(&req); err != nil {
		utils.FailResponse(ctx, err.Error())
		return
	}

	collection, err := utils.ParseAddress("collection", req.Collection)
	if err != nil {
		utils.FailResponse(ctx, err.Error())
		return
	}
	caller, err := utils.ParseAddress("caller", req.Caller)
	if err != nil {
		utils.FailResponse(ctx, err.Error())
		return
	}
	account, err := utils.ParseAddress("account", req.Account)
	if err != nil {
		utils.FailResponse(ctx, err.Error())
		return
	}

	if err := c.premintS.GrantCreator(ctx.Request.Context(), collection, caller, account); err != nil {
		utils.FailResponse(ctx, err.Error())
		return
	}

	utils.SuccessResponse(ctx, nil)
}

func premintCall(req *ptypes.PremintReq) (*service.PremintCall, error) {
	var (
		call service.PremintCall
		err  error
	)

	if call.ContractConfig, err = req.ContractConfig.Config(); err != nil {
		return nil, err
	}
	if call.TokenConfig, err = req.TokenConfig.Config(); err != nil {
		return nil, err
	}
	if call.Signature, err = utils.ParseHex("signature", req.Signature); err != nil {
		return nil, err
	}
	if call.Quantity, err = utils.StringToBigint(req.Quantity); err != nil {
		return nil, err
	}
	if call.Value, err = utils.StringToBigint(req.Value); err != nil {
		return nil, err
	}
	if call.Caller, err = utils.ParseAddress("caller", req.Caller); err != nil {
		return nil, err
	}
	call.Comment = req.Comment

	return &call, nil
}
