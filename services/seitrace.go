package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	fastshot "github.com/opus-domini/fast-shot"
	"github.com/opus-domini/fast-shot/constant/header"

	"github.com/prateushsharma/sei-Firewall/config"
	"github.com/prateushsharma/sei-Firewall/types"
	u "github.com/prateushsharma/sei-Firewall/utils"
	"github.com/prateushsharma/sei-Firewall/utils/logger"
)

// Asset kinds understood by the Seitrace insights API
const (
	AssetERC20  = "erc20"
	AssetERC721 = "erc721"
)

// SeitraceService fetches transfer pages from the Seitrace insights API,
// absorbing rate limits and transient upstream failures
type SeitraceService struct {
	config *config.SeitraceConfiguration
	client fastshot.ClientHttpMethods
}

// NewSeitraceService creates a new instance of SeitraceService
func NewSeitraceService() *SeitraceService {
	conf := config.SeitraceConfig()
	client := fastshot.NewClient(conf.BaseURL).
		Config().SetTimeout(conf.Timeout).
		Header().AddAll(map[header.Type]string{
			"X-Api-Key": conf.ApiKey,
			"Accept":    "application/json",
		}).
		Build()

	return &SeitraceService{
		config: conf,
		client: client,
	}
}

// upstreamFailure is one classified page fetch failure
type upstreamFailure struct {
	Kind      types.ErrorKind
	Message   string
	Retryable bool

	// RetryAfter is zero unless the upstream scheduled an unblock time
	RetryAfter time.Time
}

func (f *upstreamFailure) toError() error {
	return types.NewGatewayError(f.Kind, "%s", f.Message)
}

// FetchTransferPage fetches one page of transfers, retrying rate limits
// and transient failures until the attempt budget is spent
func (s *SeitraceService) FetchTransferPage(ctx context.Context, asset string, params map[string]string) ([]interface{}, error) {
	var lastErr error

	for attempt := 1; attempt <= s.config.MaxAttempts; attempt++ {
		items, failure := s.fetchPage(asset, params)
		if failure == nil {
			return items, nil
		}
		lastErr = failure.toError()

		if !failure.Retryable {
			return nil, lastErr
		}
		if attempt == s.config.MaxAttempts {
			break
		}

		var wait time.Duration
		if failure.Kind == types.ErrKindRateLimited {
			wait = s.rateLimitWait(failure.RetryAfter)
		} else {
			wait = s.backoffWait(attempt, failure.Kind)
		}

		logger.WithFields(logger.Fields{
			"Asset":   asset,
			"Attempt": attempt,
			"Wait":    wait.String(),
			"Kind":    string(failure.Kind),
		}).Warnf("Seitrace request failed, retrying: %s", failure.Message)

		if err := sleepContext(ctx, wait); err != nil {
			return nil, types.WrapGatewayError(types.ErrKindTimeout, "fetch canceled while waiting to retry", err)
		}
	}

	return nil, lastErr
}

// fetchPage performs exactly one request against the insights API
func (s *SeitraceService) fetchPage(asset string, params map[string]string) ([]interface{}, *upstreamFailure) {
	endpoint := fmt.Sprintf("/insights/api/v2/token/%s/transfers", asset)

	res, err := s.client.GET(endpoint).
		Query().AddParams(params).
		Send()
	if err != nil {
		return nil, &upstreamFailure{
			Kind:      types.ErrKindNetwork,
			Message:   fmt.Sprintf("failed to reach Seitrace: %v", err),
			Retryable: true,
		}
	}

	statusCode := res.Status().Code()
	if res.Status().Is2xxSuccessful() {
		data, err := u.ParseJSONResponse(res.Raw())
		if err != nil {
			return nil, &upstreamFailure{
				Kind:    types.ErrKindUpstream,
				Message: fmt.Sprintf("malformed Seitrace response: %v", err),
			}
		}
		items, ok := data["items"].([]interface{})
		if !ok {
			return []interface{}{}, nil
		}
		return items, nil
	}

	body, _ := res.Body().AsString()
	failure := classifyResponse(statusCode, body, res.Raw().Header.Get("Retry-After"))
	return nil, failure
}

// classifyResponse maps an upstream status and body to a failure class.
// 429s carry the time the block lifts when the upstream exposes one.
func classifyResponse(statusCode int, body string, retryAfterHeader string) *upstreamFailure {
	switch {
	case statusCode == 429:
		failure := &upstreamFailure{
			Kind:      types.ErrKindRateLimited,
			Message:   upstreamMessage(body, statusCode),
			Retryable: true,
		}
		if unblock, ok := parseUnblockTime(body); ok {
			failure.RetryAfter = unblock
		} else if seconds, ok := parseRetryAfter(retryAfterHeader); ok {
			failure.RetryAfter = time.Now().Add(seconds)
		}
		return failure
	case statusCode == 408 || statusCode >= 500:
		return &upstreamFailure{
			Kind:      types.ErrKindUpstream,
			Message:   upstreamMessage(body, statusCode),
			Retryable: true,
		}
	default:
		return &upstreamFailure{
			Kind:    types.ErrKindUpstream,
			Message: upstreamMessage(body, statusCode),
		}
	}
}

// parseUnblockTime extracts the scheduled unblock timestamp from a rate
// limit body
func parseUnblockTime(body string) (time.Time, bool) {
	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return time.Time{}, false
	}

	for _, key := range []string{"unblock_date", "unblock_time"} {
		raw, ok := payload[key].(string)
		if !ok {
			continue
		}
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05"} {
			if ts, err := time.Parse(layout, raw); err == nil {
				return ts, true
			}
		}
	}

	return time.Time{}, false
}

// parseRetryAfter reads a Retry-After header given in seconds
func parseRetryAfter(header string) (time.Duration, bool) {
	if header == "" {
		return 0, false
	}
	var seconds int
	if _, err := fmt.Sscanf(header, "%d", &seconds); err != nil || seconds <= 0 {
		return 0, false
	}
	return time.Duration(seconds) * time.Second, true
}

// upstreamMessage pulls a usable error message out of the response body
func upstreamMessage(body string, statusCode int) string {
	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(body), &payload); err == nil {
		if msg, ok := payload["message"].(string); ok && msg != "" {
			return msg
		}
		if msg, ok := payload["error"].(string); ok && msg != "" {
			return msg
		}
	}

	trimmed := strings.TrimSpace(body)
	if trimmed != "" && len(trimmed) <= 200 {
		return trimmed
	}
	return fmt.Sprintf("Seitrace request failed with status %d", statusCode)
}

// rateLimitWait decides how long to hold off after a 429. Waits beyond
// the ceiling fall back to the fixed cooldown.
func (s *SeitraceService) rateLimitWait(until time.Time) time.Duration {
	if until.IsZero() {
		return s.config.RateLimitCooldown
	}
	wait := time.Until(until) + s.config.RateLimitBuffer
	if wait > 0 && wait <= s.config.RateLimitCeiling {
		return wait
	}
	return s.config.RateLimitCooldown
}

// backoffWait grows exponentially per attempt up to the ceiling for the
// failure class. Connection failures cap lower than server errors.
func (s *SeitraceService) backoffWait(attempt int, kind types.ErrorKind) time.Duration {
	ceiling := s.config.BackoffCeiling
	if kind == types.ErrKindNetwork {
		ceiling = s.config.NetworkBackoffCeiling
	}
	wait := s.config.RetryBackoff << uint(attempt-1)
	if wait > ceiling {
		wait = ceiling
	}
	return wait
}

// sleepContext waits out the delay unless the context ends first
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
