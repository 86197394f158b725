package services

import (
	"context"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/prateushsharma/sei-Firewall/config"
	"github.com/prateushsharma/sei-Firewall/types"
	u "github.com/prateushsharma/sei-Firewall/utils"
	"github.com/prateushsharma/sei-Firewall/utils/logger"
)

// TransferService aggregates paginated transfer history from Seitrace
// into a single response
type TransferService struct {
	seitrace *SeitraceService
	config   *config.SeitraceConfiguration
}

// NewTransferService creates a new instance of TransferService
func NewTransferService() *TransferService {
	return &TransferService{
		seitrace: NewSeitraceService(),
		config:   config.SeitraceConfig(),
	}
}

// GetTokenTransfers returns the full ERC-20 transfer history for a token
// contract, walking upstream pages until they run out or the cap hits
func (s *TransferService) GetTokenTransfers(ctx context.Context, query types.TokenTransfersQuery) (*types.TokenTransfersResponse, error) {
	address, err := u.NormalizeAddress(query.ContractAddress)
	if err != nil {
		return nil, err
	}
	if err := u.ValidateDateParam(query.FromDate, "from_date"); err != nil {
		return nil, err
	}
	if err := u.ValidateDateParam(query.ToDate, "to_date"); err != nil {
		return nil, err
	}

	params := map[string]string{
		"chain_id":         s.config.ChainID,
		"contract_address": address,
	}
	if query.FromDate != "" {
		params["from_date"] = query.FromDate
	}
	if query.ToDate != "" {
		params["to_date"] = query.ToDate
	}

	history, err := s.collectPages(ctx, AssetERC20, params)
	if err != nil {
		return nil, err
	}

	volume := sumTransferAmounts(history.Items)

	logger.WithFields(logger.Fields{
		"TokenAddress": address,
		"Transfers":    len(history.Items),
		"Pages":        history.PagesFetched,
		"Truncated":    history.Truncated,
	}).Infof("Fetched ERC-20 transfer history")

	return &types.TokenTransfersResponse{
		Success:        true,
		TokenAddress:   address,
		TotalTransfers: len(history.Items),
		Transfers:      history.Items,
		Metadata:       s.buildMetadata(history, query.FromDate, query.ToDate, volume),
	}, nil
}

// GetNFTTransfers returns the ERC-721 transfer history for a collection,
// optionally narrowed to a single token id
func (s *TransferService) GetNFTTransfers(ctx context.Context, query types.NFTTransfersQuery) (*types.NFTTransfersResponse, error) {
	address, err := u.NormalizeAddress(query.ContractAddress)
	if err != nil {
		return nil, err
	}
	if err := u.ValidateDateParam(query.FromDate, "from_date"); err != nil {
		return nil, err
	}
	if err := u.ValidateDateParam(query.ToDate, "to_date"); err != nil {
		return nil, err
	}

	params := map[string]string{
		"chain_id":         s.config.ChainID,
		"contract_address": address,
	}
	if query.TokenID != "" {
		params["token_id"] = query.TokenID
	}
	if query.FromDate != "" {
		params["from_date"] = query.FromDate
	}
	if query.ToDate != "" {
		params["to_date"] = query.ToDate
	}

	history, err := s.collectPages(ctx, AssetERC721, params)
	if err != nil {
		return nil, err
	}

	logger.WithFields(logger.Fields{
		"ContractAddress": address,
		"TokenID":         query.TokenID,
		"Transfers":       len(history.Items),
		"Pages":           history.PagesFetched,
		"Truncated":       history.Truncated,
	}).Infof("Fetched ERC-721 transfer history")

	return &types.NFTTransfersResponse{
		Success:         true,
		ContractAddress: address,
		TokenID:         query.TokenID,
		TotalTransfers:  len(history.Items),
		Transfers:       history.Items,
		Metadata:        s.buildMetadata(history, query.FromDate, query.ToDate, decimal.Zero),
	}, nil
}

// collectPages walks offset pagination until a short page, the page cap,
// or a failed fetch. Any page failure discards the partial history.
func (s *TransferService) collectPages(ctx context.Context, asset string, params map[string]string) (*types.TransferHistory, error) {
	history := &types.TransferHistory{
		Items: []map[string]interface{}{},
	}
	limit := s.config.PageLimit

	for page := 0; page < s.config.MaxPages; page++ {
		pageParams := map[string]string{}
		for key, value := range params {
			pageParams[key] = value
		}
		pageParams["limit"] = strconv.Itoa(limit)
		if offset := page * limit; offset > 0 {
			pageParams["offset"] = strconv.Itoa(offset)
		}

		items, err := s.seitrace.FetchTransferPage(ctx, asset, pageParams)
		if err != nil {
			return nil, err
		}
		history.PagesFetched++

		for _, item := range items {
			if transfer, ok := item.(map[string]interface{}); ok {
				history.Items = append(history.Items, transfer)
			}
		}

		if len(items) < limit {
			return history, nil
		}
		if history.PagesFetched == s.config.MaxPages {
			history.Truncated = true
			return history, nil
		}

		// courtesy delay between page fetches
		if err := sleepContext(ctx, s.config.PageDelay); err != nil {
			return nil, types.WrapGatewayError(types.ErrKindTimeout, "aggregation canceled between pages", err)
		}
	}

	return history, nil
}

// sumTransferAmounts totals the amount field across transfers, skipping
// entries without a parsable amount
func sumTransferAmounts(items []map[string]interface{}) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		raw, ok := item["amount"].(string)
		if !ok {
			continue
		}
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			continue
		}
		total = total.Add(amount)
	}
	return total
}

func (s *TransferService) buildMetadata(history *types.TransferHistory, fromDate, toDate string, volume decimal.Decimal) types.TransferMetadata {
	metadata := types.TransferMetadata{
		ChainID:      s.config.ChainID,
		PageLimit:    s.config.PageLimit,
		PagesFetched: history.PagesFetched,
		Truncated:    history.Truncated,
		FromDate:     fromDate,
		ToDate:       toDate,
		FetchedAt:    time.Now().UTC(),
	}
	if !volume.IsZero() {
		metadata.TotalVolume = volume.String()
	}
	return metadata
}
