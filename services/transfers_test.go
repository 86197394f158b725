package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"

	"github.com/prateushsharma/sei-Firewall/types"
)

const nftTransfersURL = "https://seitrace.com/insights/api/v2/token/erc721/transfers"

const daiAddress = "0x6b175474e89094c44da98b954eedeac495271d0f"

// newTestTransferService shrinks page sizes so pagination is cheap to
// exercise
func newTestTransferService(t *testing.T, overrides map[string]interface{}) *TransferService {
	t.Helper()

	viper.Set("SEITRACE_PAGE_LIMIT", 2)
	viper.Set("SEITRACE_MAX_PAGES", 3)
	viper.Set("SEITRACE_PAGE_DELAY", 0)
	viper.Set("SEITRACE_MAX_ATTEMPTS", 1)
	for key, value := range overrides {
		viper.Set(key, value)
	}

	return NewTransferService()
}

func transferPage(amounts ...string) map[string]interface{} {
	items := make([]map[string]interface{}, 0, len(amounts))
	for _, amount := range amounts {
		items = append(items, map[string]interface{}{"amount": amount})
	}
	return map[string]interface{}{"items": items}
}

func TestGetTokenTransfers(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	query := types.TokenTransfersQuery{ContractAddress: daiAddress}

	// Pages are walked until a short page ends the history
	t.Run("AggregatesAcrossPages", func(t *testing.T) {
		service := newTestTransferService(t, nil)

		httpmock.RegisterResponder("GET", transfersURL,
			func(r *http.Request) (*http.Response, error) {
				switch r.URL.Query().Get("offset") {
				case "":
					return httpmock.NewJsonResponse(200, transferPage("1.5", "2.5"))
				default:
					return httpmock.NewJsonResponse(200, transferPage("3"))
				}
			})

		response, err := service.GetTokenTransfers(context.Background(), query)
		assert.NoError(t, err)
		assert.True(t, response.Success)
		assert.Equal(t, daiAddress, response.TokenAddress)
		assert.Equal(t, 3, response.TotalTransfers)
		assert.Equal(t, 2, response.Metadata.PagesFetched)
		assert.False(t, response.Metadata.Truncated)
		assert.Equal(t, "7", response.Metadata.TotalVolume)
		assert.Equal(t, "pacific-1", response.Metadata.ChainID)
	})

	// An empty first page is a valid, empty history
	t.Run("EmptyFirstPage", func(t *testing.T) {
		service := newTestTransferService(t, nil)

		httpmock.RegisterResponder("GET", transfersURL,
			httpmock.NewJsonResponderOrPanic(200, transferPage()))

		response, err := service.GetTokenTransfers(context.Background(), query)
		assert.NoError(t, err)
		assert.True(t, response.Success)
		assert.Equal(t, 0, response.TotalTransfers)
		assert.Equal(t, 1, response.Metadata.PagesFetched)
		assert.NotNil(t, response.Transfers)
	})

	// The page cap ends a long history and flags the truncation
	t.Run("PageCapTruncates", func(t *testing.T) {
		service := newTestTransferService(t, nil)

		calls := 0
		httpmock.RegisterResponder("GET", transfersURL,
			func(r *http.Request) (*http.Response, error) {
				calls++
				return httpmock.NewJsonResponse(200, transferPage("1", "1"))
			})

		response, err := service.GetTokenTransfers(context.Background(), query)
		assert.NoError(t, err)
		assert.Equal(t, 3, calls)
		assert.Equal(t, 6, response.TotalTransfers)
		assert.Equal(t, 3, response.Metadata.PagesFetched)
		assert.True(t, response.Metadata.Truncated)
	})

	// A failed page discards everything fetched before it
	t.Run("PageFailureDiscardsPartialProgress", func(t *testing.T) {
		service := newTestTransferService(t, nil)

		httpmock.RegisterResponder("GET", transfersURL,
			func(r *http.Request) (*http.Response, error) {
				if r.URL.Query().Get("offset") == "" {
					return httpmock.NewJsonResponse(200, transferPage("1", "1"))
				}
				return httpmock.NewStringResponse(500, `{"message": "internal error"}`), nil
			})

		response, err := service.GetTokenTransfers(context.Background(), query)
		assert.Error(t, err)
		assert.Nil(t, response)
		assert.Equal(t, types.ErrKindUpstream, types.KindOf(err))
	})

	// Offsets advance by the page limit
	t.Run("OffsetsAdvanceByPageLimit", func(t *testing.T) {
		service := newTestTransferService(t, nil)

		var offsets []string
		httpmock.RegisterResponder("GET", transfersURL,
			func(r *http.Request) (*http.Response, error) {
				offsets = append(offsets, r.URL.Query().Get("offset"))
				return httpmock.NewJsonResponse(200, transferPage("1", "1"))
			})

		_, err := service.GetTokenTransfers(context.Background(), query)
		assert.NoError(t, err)
		assert.Equal(t, []string{"", "2", "4"}, offsets)
	})

	t.Run("InvalidContractAddress", func(t *testing.T) {
		service := newTestTransferService(t, nil)

		_, err := service.GetTokenTransfers(context.Background(), types.TokenTransfersQuery{
			ContractAddress: "not-an-address",
		})
		assert.Error(t, err)
		assert.Equal(t, types.ErrKindValidation, types.KindOf(err))
	})

	t.Run("InvalidDateRejected", func(t *testing.T) {
		service := newTestTransferService(t, nil)

		_, err := service.GetTokenTransfers(context.Background(), types.TokenTransfersQuery{
			ContractAddress: daiAddress,
			FromDate:        "01-01-2024",
		})
		assert.Error(t, err)
		assert.Equal(t, types.ErrKindValidation, types.KindOf(err))
	})

	// Date filters pass through to the upstream query
	t.Run("DateFiltersForwarded", func(t *testing.T) {
		service := newTestTransferService(t, nil)

		httpmock.RegisterResponder("GET", transfersURL,
			func(r *http.Request) (*http.Response, error) {
				assert.Equal(t, "2024-01-01", r.URL.Query().Get("from_date"))
				assert.Equal(t, "2024-06-30", r.URL.Query().Get("to_date"))
				return httpmock.NewJsonResponse(200, transferPage("1"))
			})

		response, err := service.GetTokenTransfers(context.Background(), types.TokenTransfersQuery{
			ContractAddress: daiAddress,
			FromDate:        "2024-01-01",
			ToDate:          "2024-06-30",
		})
		assert.NoError(t, err)
		assert.Equal(t, "2024-01-01", response.Metadata.FromDate)
		assert.Equal(t, "2024-06-30", response.Metadata.ToDate)
	})
}

func TestGetNFTTransfers(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	t.Run("ForwardsTokenID", func(t *testing.T) {
		service := newTestTransferService(t, nil)

		httpmock.RegisterResponder("GET", nftTransfersURL,
			func(r *http.Request) (*http.Response, error) {
				assert.Equal(t, "42", r.URL.Query().Get("token_id"))
				return httpmock.NewJsonResponse(200, map[string]interface{}{
					"items": []map[string]interface{}{{"token_id": "42"}},
				})
			})

		response, err := service.GetNFTTransfers(context.Background(), types.NFTTransfersQuery{
			ContractAddress: daiAddress,
			TokenID:         "42",
		})
		assert.NoError(t, err)
		assert.True(t, response.Success)
		assert.Equal(t, "42", response.TokenID)
		assert.Equal(t, 1, response.TotalTransfers)
		assert.Empty(t, response.Metadata.TotalVolume)
	})

	t.Run("WholeCollectionWithoutTokenID", func(t *testing.T) {
		service := newTestTransferService(t, map[string]interface{}{
			"SEITRACE_PAGE_LIMIT": 10,
		})

		httpmock.RegisterResponder("GET", nftTransfersURL,
			func(r *http.Request) (*http.Response, error) {
				assert.False(t, r.URL.Query().Has("token_id"))
				return httpmock.NewJsonResponse(200, map[string]interface{}{
					"items": []map[string]interface{}{{"token_id": "1"}, {"token_id": "2"}},
				})
			})

		response, err := service.GetNFTTransfers(context.Background(), types.NFTTransfersQuery{
			ContractAddress: daiAddress,
		})
		assert.NoError(t, err)
		assert.Equal(t, 2, response.TotalTransfers)
	})

	t.Run("InvalidContractAddress", func(t *testing.T) {
		service := newTestTransferService(t, nil)

		_, err := service.GetNFTTransfers(context.Background(), types.NFTTransfersQuery{
			ContractAddress: "0xnope",
		})
		assert.Error(t, err)
		assert.Equal(t, types.ErrKindValidation, types.KindOf(err))
	})
}
