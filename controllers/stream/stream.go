package stream

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/prateushsharma/sei-Firewall/config"
	streamSvc "github.com/prateushsharma/sei-Firewall/services/stream"
	"github.com/prateushsharma/sei-Firewall/types"
	u "github.com/prateushsharma/sei-Firewall/utils"
	"github.com/prateushsharma/sei-Firewall/utils/logger"
)

// Controller is the controller for the streaming endpoints
type Controller struct {
	gateway *streamSvc.Gateway
	config  *config.GatewayConfiguration
}

// NewController creates a new instance of the streaming Controller
func NewController(gateway *streamSvc.Gateway) *Controller {
	return &Controller{
		gateway: gateway,
		config:  config.GatewayConfig(),
	}
}

// OpenStream controller opens an SSE session. The first frame carries
// the endpoint calls should be posted to; results and keep-alives follow
// on the same stream.
func (ctrl *Controller) OpenStream(ctx *gin.Context) {
	registry := ctrl.gateway.Registry()
	session := registry.Register()
	defer registry.Unregister(session.ID)

	ctx.Writer.Header().Set("Content-Type", "text/event-stream")
	ctx.Writer.Header().Set("Cache-Control", "no-cache")
	ctx.Writer.Header().Set("Connection", "keep-alive")
	ctx.Writer.Header().Set("X-Accel-Buffering", "no")

	ctx.SSEvent("endpoint", fmt.Sprintf("/v1/stream/messages?session_id=%s", session.ID))
	ctx.Writer.Flush()

	logger.WithFields(logger.Fields{
		"SessionID": session.ID,
		"ClientIP":  ctx.ClientIP(),
	}).Infof("Streaming session opened")

	keepAlive := time.NewTicker(ctrl.config.KeepAliveInterval)
	defer keepAlive.Stop()

	clientGone := ctx.Request.Context().Done()
	for {
		select {
		case frame, ok := <-session.Frames():
			if !ok {
				return
			}
			ctx.SSEvent(frame.Event, frame.Data)
			ctx.Writer.Flush()
			keepAlive.Reset(ctrl.config.KeepAliveInterval)
		case <-keepAlive.C:
			ctx.SSEvent("ping", time.Now().UTC().Format(time.RFC3339))
			ctx.Writer.Flush()
		case <-clientGone:
			logger.WithFields(logger.Fields{
				"SessionID": session.ID,
			}).Infof("Streaming session closed by client")
			return
		}
	}
}

// SubmitMessage controller accepts a call for an open session. The
// response arrives on the session's stream; this endpoint only acks.
func (ctrl *Controller) SubmitMessage(ctx *gin.Context) {
	sessionID := ctx.Query("session_id")

	raw, err := io.ReadAll(ctx.Request.Body)
	if err != nil || len(raw) == 0 {
		u.APIResponse(ctx, http.StatusBadRequest, "error",
			"Failed to read request body", nil)
		return
	}

	receipt, err := ctrl.gateway.Submit(sessionID, raw)
	if err != nil {
		kind := types.KindOf(err)
		u.APIResponse(ctx, kind.HTTPStatus(), "error", err.Error(), map[string]interface{}{
			"kind": string(kind),
		})
		return
	}

	u.APIResponse(ctx, http.StatusAccepted, "success", "Call accepted", receipt)
}
