package utils

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/prateushsharma/sei-Firewall/types"
)

func TestNormalizeAddress(t *testing.T) {
	t.Run("LowercasesChecksummedAddress", func(t *testing.T) {
		address, err := NormalizeAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F")
		assert.NoError(t, err)
		assert.Equal(t, "0x6b175474e89094c44da98b954eedeac495271d0f", address)
	})

	t.Run("RejectsGarbage", func(t *testing.T) {
		_, err := NormalizeAddress("not-an-address")
		assert.Error(t, err)
		assert.Equal(t, types.ErrKindValidation, types.KindOf(err))
	})

	t.Run("RejectsShortHex", func(t *testing.T) {
		_, err := NormalizeAddress("0x1234")
		assert.Error(t, err)
	})
}

func TestValidateDateParam(t *testing.T) {
	assert.NoError(t, ValidateDateParam("", "from_date"))
	assert.NoError(t, ValidateDateParam("2024-02-29", "from_date"))

	err := ValidateDateParam("29-02-2024", "from_date")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "from_date")
	assert.Equal(t, types.ErrKindValidation, types.KindOf(err))
}

func TestGetErrorData(t *testing.T) {
	data := GetErrorData(errors.New("something broke"))
	assert.Len(t, data, 1)
	assert.Equal(t, "something broke", data[0].Message)
}

func TestParseJSONResponse(t *testing.T) {
	t.Run("ParsesBody", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		recorder.WriteString(`{"items": [], "next_page_params": null}`)

		data, err := ParseJSONResponse(recorder.Result())
		assert.NoError(t, err)
		assert.Contains(t, data, "items")
	})

	t.Run("ErrorStatusSurfaces", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		recorder.WriteHeader(500)
		recorder.WriteString(`{"message": "boom"}`)

		data, err := ParseJSONResponse(recorder.Result())
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "status 500")
		assert.Equal(t, "boom", data["message"])
	})

	t.Run("InvalidJSON", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		recorder.WriteString(`<html>`)

		_, err := ParseJSONResponse(recorder.Result())
		assert.Error(t, err)
	})
}
