package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/drapequote/internal/catalog"
	"github.com/roach88/drapequote/internal/errs"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	err := formatter.Success(priceList{{ID: "p1", Fabric: "紗", Method: "打摺", UnitPrice: 333.33}})
	require.NoError(t, err)

	var resp struct {
		Status string           `json:"status"`
		Data   []catalog.Record `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, 333.33, resp.Data[0].UnitPrice)
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	err := formatter.Error("NOT_FOUND", `price "p9" not found`, nil)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
	assert.Equal(t, `price "p9" not found`, resp.Error.Message)
	assert.Nil(t, resp.Data)
}

func TestOutputFormatter_TextSuccessUsesRenderer(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, formatter.Success(deletedView{Kind: "price", ID: "p1"}))
	assert.Equal(t, "Deleted price p1\n", buf.String())
}

func TestOutputFormatter_TextSuccessPlain(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, formatter.Success("done"))
	assert.Equal(t, "done\n", buf.String())
}

func TestOutputFormatter_TextError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, formatter.Error("VALIDATION", "bad price", map[string]string{"row": "2"}))
	assert.Equal(t, "Error [VALIDATION]: bad price\n", buf.String())
}

func TestOutputFormatter_TextErrorVerbose(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf, Verbose: true}

	require.NoError(t, formatter.Error("VALIDATION", "bad price", map[string]string{"row": "2"}))
	assert.Contains(t, buf.String(), "Details:")
}

func TestFail_ExitCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"validation", errs.Validation("bad"), ExitFailure},
		{"not found", errs.NotFound("price", "p1"), ExitFailure},
		{"price not found", errs.PriceNotFound("紗", "打摺"), ExitFailure},
		{"storage decode", errs.StorageDecode("x.json", errors.New("eof")), ExitCommandError},
		{"other", errors.New("disk full"), ExitCommandError},
		{"wrapped", fmt.Errorf("outer: %w", errs.Validation("bad")), ExitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, GetExitCode(fail("failed", tt.err)))
		})
	}
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, "PRICE_NOT_FOUND", ErrorCode(fail("x", errs.PriceNotFound("a", "b"))))
	assert.Equal(t, "COMMAND_ERROR", ErrorCode(errors.New("boom")))
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad flag")))
}

func TestExitError_Message(t *testing.T) {
	assert.Equal(t, "bad flag", NewExitError(ExitCommandError, "bad flag").Error())
	err := WrapExitError(ExitFailure, "failed to add price", errors.New("boom"))
	assert.Equal(t, "failed to add price: boom", err.Error())
	assert.EqualError(t, errors.Unwrap(err), "boom")
}

func TestFormatRate(t *testing.T) {
	assert.Equal(t, "5%", formatRate(0.05))
	assert.Equal(t, "0%", formatRate(0))
	assert.Equal(t, "12.5%", formatRate(0.125))
	assert.Equal(t, "100%", formatRate(1))
}
