package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/prateushsharma/sei-Firewall/services"
	"github.com/prateushsharma/sei-Firewall/types"
)

const tokenTransfersSchema = `{
	"type": "object",
	"properties": {
		"token_address": {
			"type": "string",
			"description": "ERC-20 token contract address"
		},
		"from_date": {
			"type": "string",
			"description": "Start date filter, YYYY-MM-DD"
		},
		"to_date": {
			"type": "string",
			"description": "End date filter, YYYY-MM-DD"
		}
	},
	"required": ["token_address"],
	"additionalProperties": false
}`

const nftTransfersSchema = `{
	"type": "object",
	"properties": {
		"contract_address": {
			"type": "string",
			"description": "ERC-721 collection contract address"
		},
		"token_id": {
			"type": "string",
			"description": "Restrict the history to a single token id"
		},
		"from_date": {
			"type": "string",
			"description": "Start date filter, YYYY-MM-DD"
		},
		"to_date": {
			"type": "string",
			"description": "End date filter, YYYY-MM-DD"
		}
	},
	"required": ["contract_address"],
	"additionalProperties": false
}`

// Tool is one callable operation exposed over the stream
type Tool struct {
	Name        string
	Description string

	schema    *gojsonschema.Schema
	rawSchema map[string]interface{}
	handler   func(ctx context.Context, args map[string]interface{}) (interface{}, error)
}

// ToolSet holds the tools the gateway dispatches tools/call requests to
type ToolSet struct {
	tools  []*Tool
	byName map[string]*Tool
}

// NewToolSet registers the transfer history tools
func NewToolSet(transfers *services.TransferService) *ToolSet {
	set := &ToolSet{
		byName: make(map[string]*Tool),
	}

	set.mustAdd(&Tool{
		Name:        "get_token_transfers",
		Description: "Fetch the full ERC-20 transfer history for a token contract on Sei",
		handler: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			return transfers.GetTokenTransfers(ctx, types.TokenTransfersQuery{
				ContractAddress: stringArg(args, "token_address"),
				FromDate:        stringArg(args, "from_date"),
				ToDate:          stringArg(args, "to_date"),
			})
		},
	}, tokenTransfersSchema)

	set.mustAdd(&Tool{
		Name:        "get_nft_transfers",
		Description: "Fetch the ERC-721 transfer history for a collection on Sei, optionally for one token id",
		handler: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			return transfers.GetNFTTransfers(ctx, types.NFTTransfersQuery{
				ContractAddress: stringArg(args, "contract_address"),
				TokenID:         stringArg(args, "token_id"),
				FromDate:        stringArg(args, "from_date"),
				ToDate:          stringArg(args, "to_date"),
			})
		},
	}, nftTransfersSchema)

	return set
}

func (t *ToolSet) mustAdd(tool *Tool, rawSchema string) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(rawSchema))
	if err != nil {
		panic(fmt.Sprintf("invalid schema for tool %s: %s", tool.Name, err))
	}
	tool.schema = schema
	if err := json.Unmarshal([]byte(rawSchema), &tool.rawSchema); err != nil {
		panic(fmt.Sprintf("invalid schema for tool %s: %s", tool.Name, err))
	}

	t.tools = append(t.tools, tool)
	t.byName[tool.Name] = tool
}

// Call validates the arguments against the tool's schema and runs it
func (t *ToolSet) Call(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var call types.ToolCallParams
	if err := json.Unmarshal(params, &call); err != nil {
		return nil, types.WrapGatewayError(types.ErrKindValidation, "malformed tools/call params", err)
	}
	if call.Name == "" {
		return nil, types.NewGatewayError(types.ErrKindValidation, "tool name is required")
	}

	tool, ok := t.byName[call.Name]
	if !ok {
		return nil, types.NewGatewayError(types.ErrKindNotFound, "unknown tool: %s", call.Name)
	}

	arguments := call.Arguments
	if len(arguments) == 0 {
		arguments = json.RawMessage(`{}`)
	}

	result, err := tool.schema.Validate(gojsonschema.NewBytesLoader(arguments))
	if err != nil {
		return nil, types.WrapGatewayError(types.ErrKindValidation, "malformed tool arguments", err)
	}
	if !result.Valid() {
		return nil, types.NewGatewayError(types.ErrKindValidation, "invalid arguments: %s", formatSchemaErrors(result))
	}

	var args map[string]interface{}
	if err := json.Unmarshal(arguments, &args); err != nil {
		return nil, types.WrapGatewayError(types.ErrKindValidation, "malformed tool arguments", err)
	}

	return tool.handler(ctx, args)
}

// Descriptors lists the registered tools for tools/list
func (t *ToolSet) Descriptors() []types.ToolDescriptor {
	descriptors := make([]types.ToolDescriptor, 0, len(t.tools))
	for _, tool := range t.tools {
		descriptors = append(descriptors, types.ToolDescriptor{
			Name:        tool.Name,
			Description: tool.Description,
			InputSchema: tool.rawSchema,
		})
	}
	return descriptors
}

func formatSchemaErrors(result *gojsonschema.Result) string {
	messages := make([]string, 0, len(result.Errors()))
	for _, err := range result.Errors() {
		messages = append(messages, err.String())
	}
	return strings.Join(messages, "; ")
}

func stringArg(args map[string]interface{}, key string) string {
	value, _ := args[key].(string)
	return value
}
