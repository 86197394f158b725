package routers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"

	streamSvc "github.com/prateushsharma/sei-Firewall/services/stream"
	"github.com/prateushsharma/sei-Firewall/types"
	"github.com/prateushsharma/sei-Firewall/utils/test"
)

func TestRoutes(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	viper.Set("SEITRACE_MAX_ATTEMPTS", 1)

	router := Routes(streamSvc.NewGateway(streamSvc.NewMemoryRegistry(4)))

	t.Run("UnknownRoute", func(t *testing.T) {
		res, err := test.PerformRequest(t, "GET", "/definitely-not-a-route", nil, nil, router)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, res.Code)

		var response types.Response
		err = json.Unmarshal(res.Body.Bytes(), &response)
		assert.NoError(t, err)
		assert.Equal(t, "Route not found", response.Message)
	})

	t.Run("HealthIsUnthrottled", func(t *testing.T) {
		res, err := test.PerformRequest(t, "GET", "/health", nil, nil, router)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, res.Code)
	})

	t.Run("MetricsExposed", func(t *testing.T) {
		res, err := test.PerformRequest(t, "GET", "/metrics", nil, nil, router)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, res.Code)
		assert.Contains(t, res.Body.String(), "gateway_active_sessions")
	})

	t.Run("CORSHeadersPresent", func(t *testing.T) {
		res, err := test.PerformRequest(t, "GET", "/health", nil, nil, router)
		assert.NoError(t, err)
		assert.Equal(t, "*", res.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("PreflightShortCircuits", func(t *testing.T) {
		res, err := test.PerformRequest(t, "OPTIONS", "/v1/stream/messages", nil, nil, router)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, res.Code)
	})

	// A burst past the per-second limit gets throttled. The default
	// limit is 20/s; even a burst straddling a window reset admits at
	// most twice that.
	t.Run("BurstThrottled", func(t *testing.T) {
		httpmock.RegisterResponder("GET", "https://seitrace.com/insights/api/v2/token/erc20/transfers",
			httpmock.NewJsonResponderOrPanic(200, map[string]interface{}{
				"items": []map[string]interface{}{},
			}))

		throttled := 0
		for i := 0; i < 50; i++ {
			res, err := test.PerformRequest(t, "GET",
				"/v1/token/0x6b175474e89094c44da98b954eedeac495271d0f/transfers", nil, nil, router)
			assert.NoError(t, err)
			if res.Code == http.StatusTooManyRequests {
				throttled++
			}
		}
		assert.Greater(t, throttled, 0)
	})
}
