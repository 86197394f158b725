package types

import (
	"encoding/json"
	"time"
)

// Response is the generic envelope returned by the REST endpoints
type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// ErrorData is the struct for error data i.e when Status is "error"
type ErrorData struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// TokenTransfersPayload is the query payload for the one-shot ERC-20 transfers endpoint
type TokenTransfersPayload struct {
	FromDate string `json:"from_date" form:"from_date" binding:"omitempty,datetime=2006-01-02"`
	ToDate   string `json:"to_date" form:"to_date" binding:"omitempty,datetime=2006-01-02"`
}

// NFTTransfersPayload is the query payload for the one-shot ERC-721 transfers endpoint
type NFTTransfersPayload struct {
	TokenID  string `json:"token_id" form:"token_id"`
	FromDate string `json:"from_date" form:"from_date" binding:"omitempty,datetime=2006-01-02"`
	ToDate   string `json:"to_date" form:"to_date" binding:"omitempty,datetime=2006-01-02"`
}

// TokenTransfersQuery holds the parameters of an ERC-20 transfer aggregation
type TokenTransfersQuery struct {
	ContractAddress string
	FromDate        string
	ToDate          string
}

// NFTTransfersQuery holds the parameters of an ERC-721 transfer aggregation
type NFTTransfersQuery struct {
	ContractAddress string
	TokenID         string
	FromDate        string
	ToDate          string
}

// TransferHistory is the merged result of a paginated transfer fetch
type TransferHistory struct {
	Items        []map[string]interface{}
	PagesFetched int
	Truncated    bool
}

// TransferMetadata describes how a transfer history was assembled
type TransferMetadata struct {
	ChainID      string    `json:"chainId"`
	PageLimit    int       `json:"pageLimit"`
	PagesFetched int       `json:"pagesFetched"`
	Truncated    bool      `json:"truncated"`
	FromDate     string    `json:"fromDate,omitempty"`
	ToDate       string    `json:"toDate,omitempty"`
	TotalVolume  string    `json:"totalVolume,omitempty"`
	FetchedAt    time.Time `json:"fetchedAt"`
}

// TokenTransfersResponse is the full ERC-20 transfer history returned to clients
type TokenTransfersResponse struct {
	Success        bool                     `json:"success"`
	TokenAddress   string                   `json:"tokenAddress"`
	TotalTransfers int                      `json:"totalTransfers"`
	Transfers      []map[string]interface{} `json:"transfers"`
	Metadata       TransferMetadata         `json:"metadata"`
}

// NFTTransfersResponse is the full ERC-721 transfer history returned to clients
type NFTTransfersResponse struct {
	Success         bool                     `json:"success"`
	ContractAddress string                   `json:"contractAddress"`
	TokenID         string                   `json:"tokenId,omitempty"`
	TotalTransfers  int                      `json:"totalTransfers"`
	Transfers       []map[string]interface{} `json:"transfers"`
	Metadata        TransferMetadata         `json:"metadata"`
}

// StreamFrame is one server-to-client event on a streaming session.
// Data carries the serialized payload for the SSE data field.
type StreamFrame struct {
	Event string
	Data  string
}

// CallEnvelope is a client request submitted on the message endpoint.
// ID is kept untyped so numeric and string ids round-trip unchanged.
type CallEnvelope struct {
	JSONRPC string          `json:"jsonrpc,omitempty"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// ToolCallParams are the params of a tools/call envelope
type ToolCallParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// CallError is the error member of a failed call frame
type CallError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Kind    string `json:"kind,omitempty"`
}

// CallResult is the frame payload delivered for a completed call,
// correlated by the id the client supplied
type CallResult struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *CallError  `json:"error,omitempty"`
}

// CallReceipt acknowledges that a stream call was accepted for processing
type CallReceipt struct {
	ID        interface{} `json:"id"`
	SessionID string      `json:"sessionId"`
}

// ToolDescriptor describes one callable tool exposed over the stream
type ToolDescriptor struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	InputSchema interface{} `json:"inputSchema"`
}

// GatewayStats is the live state snapshot reported by the health endpoint
type GatewayStats struct {
	ActiveSessions int `json:"activeSessions"`
	PendingCalls   int `json:"pendingCalls"`
}
