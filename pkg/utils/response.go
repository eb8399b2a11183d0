package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type ResponseFormat struct {
	Code int    `json:"code"` // 0 ok, 1 failed
	Msg  string `json:"msg"`

	// Reason classifies rejected premints, e.g. insufficient_payment.
	Reason string      `json:"reason,omitempty"`
	Data   interface{} `json:"data"`
}

func FailResponse(context *gin.Context, msg string) {
	format := ResponseFormat{
		Code: 1,
		Msg:  msg,
	}

	context.JSON(http.StatusOK, format)
}

// RejectResponse is a FailResponse carrying a machine readable reason.
func RejectResponse(context *gin.Context, reason, msg string) {
	context.JSON(http.StatusOK, ResponseFormat{
		Code:   1,
		Msg:    msg,
		Reason: reason,
	})
}

func SuccessResponse(context *gin.Context, data interface{}) {
	resp := ResponseFormat{
		Code: 0,
		Msg:  "ok",
		Data: data,
	}
	context.JSON(http.StatusOK, resp)
}
