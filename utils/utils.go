package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/prateushsharma/sei-Firewall/types"
)

// APIResponse is a helper function to generate a JSON response
func APIResponse(ctx *gin.Context, httpCode int, status string, message string, data interface{}) {
	ctx.JSON(httpCode, types.Response{
		Status:  status,
		Message: message,
		Data:    data,
	})
}

// GetErrorData extracts field-level validation failures into the response shape
func GetErrorData(err error) []types.ErrorData {
	var errorData []types.ErrorData

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, fieldError := range validationErrors {
			errorData = append(errorData, types.ErrorData{
				Field:   fieldError.Field(),
				Message: fmt.Sprintf("This field is %s", fieldError.Tag()),
			})
		}
	} else {
		errorData = append(errorData, types.ErrorData{
			Field:   "",
			Message: err.Error(),
		})
	}

	return errorData
}

// ParseJSONResponse reads and decodes a JSON response body.
// Non-2xx statuses are returned as errors with the decoded body preserved.
func ParseJSONResponse(res *http.Response) (map[string]interface{}, error) {
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	var data map[string]interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %v", err)
	}

	if res.StatusCode >= 400 {
		return data, fmt.Errorf("API request failed with status %d", res.StatusCode)
	}

	return data, nil
}

// IsValidEthereumAddress checks if a string is a valid EVM address
func IsValidEthereumAddress(address string) bool {
	return common.IsHexAddress(address)
}

// NormalizeAddress validates a hex contract address and returns its
// canonical lowercase form
func NormalizeAddress(address string) (string, error) {
	if !common.IsHexAddress(address) {
		return "", types.NewGatewayError(types.ErrKindValidation, "invalid contract address: %s", address)
	}
	return strings.ToLower(common.HexToAddress(address).Hex()), nil
}

// ValidateDateParam checks an optional YYYY-MM-DD parameter value
func ValidateDateParam(value, name string) error {
	if value == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", value); err != nil {
		return types.NewGatewayError(types.ErrKindValidation, "%s must be formatted as YYYY-MM-DD", name)
	}
	return nil
}

// Retry is a function that attempts to execute a given function multiple times until it succeeds or the maximum number of attempts is reached.
// It sleeps for a specified duration between each attempt.
// Parameters:
// - attempts: The maximum number of attempts to execute the function.
// - sleep: The duration to sleep between each attempt.
// - fn: The function to be executed.
// Returns:
// - error: The error returned by the function, if any.
func Retry(attempts int, sleep time.Duration, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		err = fn()
		if err == nil {
			return nil
		}
		time.Sleep(sleep)
	}
	return err
}
