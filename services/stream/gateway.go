package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/prateushsharma/sei-Firewall/config"
	"github.com/prateushsharma/sei-Firewall/services"
	"github.com/prateushsharma/sei-Firewall/types"
	"github.com/prateushsharma/sei-Firewall/utils/logger"
)

// Gateway accepts calls posted against a streaming session, executes
// them asynchronously, and pushes the correlated result frame back over
// the session the call targeted
type Gateway struct {
	registry   Registry
	correlator *Correlator
	tools      *ToolSet
	config     *config.GatewayConfiguration
}

// NewGateway creates a gateway serving calls over the given registry
func NewGateway(registry Registry) *Gateway {
	conf := config.GatewayConfig()
	return &Gateway{
		registry:   registry,
		correlator: NewCorrelator(conf.CallTimeout),
		tools:      NewToolSet(services.NewTransferService()),
		config:     conf,
	}
}

// Registry exposes the session registry to the transport
func (g *Gateway) Registry() Registry {
	return g.registry
}

// Submit accepts a raw call envelope for the session, schedules its
// execution, and returns a receipt. The result arrives later as a frame
// on the session's stream.
func (g *Gateway) Submit(sessionID string, raw []byte) (*types.CallReceipt, error) {
	session, err := g.registry.Resolve(sessionID)
	if err != nil {
		return nil, err
	}
	session.Touch()

	var envelope types.CallEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, types.WrapGatewayError(types.ErrKindValidation, "malformed call envelope", err)
	}
	if envelope.Method == "" {
		return nil, types.NewGatewayError(types.ErrKindValidation, "method is required")
	}
	if envelope.ID == nil {
		envelope.ID = uuid.New().String()
	}

	callID := callKey(envelope.ID)
	call := g.correlator.Register(callID, session.ID)

	go g.await(session, envelope.ID, call)
	go g.execute(callID, envelope)

	return &types.CallReceipt{
		ID:        envelope.ID,
		SessionID: session.ID,
	}, nil
}

// await blocks on the call outcome and pushes the result frame to the
// session that issued the call
func (g *Gateway) await(session *Session, id interface{}, call *PendingCall) {
	outcome := <-call.Outcome()

	// a frame carries either result or error, never both
	result := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      id,
	}
	if outcome.Err != nil {
		kind := types.KindOf(outcome.Err)
		result["error"] = &types.CallError{
			Code:    kind.RPCCode(),
			Message: outcome.Err.Error(),
			Kind:    string(kind),
		}
	} else {
		result["result"] = outcome.Result
	}

	payload, err := json.Marshal(result)
	if err != nil {
		logger.Errorf("Failed to marshal result frame for call %v: %v", id, err)
		return
	}

	if !session.Push(types.StreamFrame{Event: "message", Data: string(payload)}) {
		logger.WithFields(logger.Fields{
			"SessionID": session.ID,
			"CallID":    call.ID,
		}).Warnf("Dropped result frame, session buffer full or closed")
	}
}

// execute runs the call and settles it through the correlator
func (g *Gateway) execute(callID string, envelope types.CallEnvelope) {
	ctx, cancel := context.WithTimeout(context.Background(), g.config.CallTimeout)
	defer cancel()

	switch envelope.Method {
	case "ping":
		g.correlator.Resolve(callID, map[string]interface{}{})
	case "tools/list":
		g.correlator.Resolve(callID, map[string]interface{}{
			"tools": g.tools.Descriptors(),
		})
	case "tools/call":
		result, err := g.tools.Call(ctx, envelope.Params)
		if err != nil {
			g.correlator.Reject(callID, err)
			return
		}
		g.correlator.Resolve(callID, result)
	default:
		g.correlator.Reject(callID, types.NewGatewayError(types.ErrKindValidation, "method not found: %s", envelope.Method))
	}
}

// Stats reports live gateway counters
func (g *Gateway) Stats() types.GatewayStats {
	return types.GatewayStats{
		ActiveSessions: g.registry.Len(),
		PendingCalls:   g.correlator.Pending(),
	}
}

// SweepIdleSessions drops sessions past the idle TTL
func (g *Gateway) SweepIdleSessions() int {
	return g.registry.SweepIdle(g.config.SessionTTL)
}

// Shutdown closes every open session
func (g *Gateway) Shutdown() {
	g.registry.Close()
}

// callKey normalizes a client supplied call id into a map key. JSON
// numbers decode as float64.
func callKey(id interface{}) string {
	switch v := id.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
