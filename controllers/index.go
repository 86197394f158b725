package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	svc "github.com/prateushsharma/sei-Firewall/services"
	streamSvc "github.com/prateushsharma/sei-Firewall/services/stream"
	"github.com/prateushsharma/sei-Firewall/types"
	u "github.com/prateushsharma/sei-Firewall/utils"
	"github.com/prateushsharma/sei-Firewall/utils/logger"
)

// Controller is the default controller for the one-shot endpoints
type Controller struct {
	transferService *svc.TransferService
	gateway         *streamSvc.Gateway
}

// NewController creates a new instance of Controller
func NewController(gateway *streamSvc.Gateway) *Controller {
	return &Controller{
		transferService: svc.NewTransferService(),
		gateway:         gateway,
	}
}

// GetTokenTransfers controller fetches the ERC-20 transfer history of a
// token contract
func (ctrl *Controller) GetTokenTransfers(ctx *gin.Context) {
	var payload types.TokenTransfersPayload
	if err := ctx.ShouldBindQuery(&payload); err != nil {
		u.APIResponse(ctx, http.StatusBadRequest, "error",
			"Failed to validate payload", u.GetErrorData(err))
		return
	}

	query := types.TokenTransfersQuery{
		ContractAddress: ctx.Param("address"),
		FromDate:        payload.FromDate,
		ToDate:          payload.ToDate,
	}

	response, err := ctrl.transferService.GetTokenTransfers(ctx.Request.Context(), query)
	if err != nil {
		kind := types.KindOf(err)
		logger.WithFields(logger.Fields{
			"TokenAddress": query.ContractAddress,
			"Kind":         string(kind),
		}).Errorf("Failed to fetch token transfers: %v", err)
		u.APIResponse(ctx, kind.HTTPStatus(), "error", err.Error(), map[string]interface{}{
			"kind": string(kind),
		})
		return
	}

	u.APIResponse(ctx, http.StatusOK, "success", "OK", response)
}

// GetNFTTransfers controller fetches the ERC-721 transfer history of a
// collection
func (ctrl *Controller) GetNFTTransfers(ctx *gin.Context) {
	var payload types.NFTTransfersPayload
	if err := ctx.ShouldBindQuery(&payload); err != nil {
		u.APIResponse(ctx, http.StatusBadRequest, "error",
			"Failed to validate payload", u.GetErrorData(err))
		return
	}

	query := types.NFTTransfersQuery{
		ContractAddress: ctx.Param("address"),
		TokenID:         payload.TokenID,
		FromDate:        payload.FromDate,
		ToDate:          payload.ToDate,
	}

	response, err := ctrl.transferService.GetNFTTransfers(ctx.Request.Context(), query)
	if err != nil {
		kind := types.KindOf(err)
		logger.WithFields(logger.Fields{
			"ContractAddress": query.ContractAddress,
			"TokenID":         query.TokenID,
			"Kind":            string(kind),
		}).Errorf("Failed to fetch NFT transfers: %v", err)
		u.APIResponse(ctx, kind.HTTPStatus(), "error", err.Error(), map[string]interface{}{
			"kind": string(kind),
		})
		return
	}

	u.APIResponse(ctx, http.StatusOK, "success", "OK", response)
}

// Health controller reports server liveness and gateway counters
func (ctrl *Controller) Health(ctx *gin.Context) {
	u.APIResponse(ctx, http.StatusOK, "success", "OK", map[string]interface{}{
		"status":  "healthy",
		"gateway": ctrl.gateway.Stats(),
	})
}
