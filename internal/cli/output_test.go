package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/message"

	"github.com/roach88/vestd/internal/ledger"
)

func TestExitError_Error(t *testing.T) {
	err := NewExitError(ExitCommandError, "bad arguments")
	assert.Equal(t, "bad arguments", err.Error())
	assert.Equal(t, ExitCommandError, err.Code)

	wrapped := WrapExitError(ExitFailure, "operation rejected", errors.New("boom"))
	assert.Equal(t, "operation rejected: boom", wrapped.Error())
}

func TestExitError_Unwrap(t *testing.T) {
	inner := errors.New("inner")
	err := WrapExitError(ExitFailure, "outer", inner)
	assert.ErrorIs(t, err, inner)
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "x")))
	assert.Equal(t, ExitFailure, GetExitCode(NewExitError(ExitFailure, "x")))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("untyped")))

	// Wrapped ExitErrors still resolve.
	wrapped := fmt.Errorf("context: %w", NewExitError(ExitCommandError, "x"))
	assert.Equal(t, ExitCommandError, GetExitCode(wrapped))
}

func TestWrapLedgerError(t *testing.T) {
	rejection := &ledger.Error{Code: ledger.CodeUnauthorized, Message: "nope"}
	assert.Equal(t, ExitFailure, GetExitCode(wrapLedgerError(rejection)))

	infra := errors.New("disk on fire")
	assert.Equal(t, ExitCommandError, GetExitCode(wrapLedgerError(infra)))
}

func TestOutputFormatter_JSON(t *testing.T) {
	buf := &bytes.Buffer{}
	out := NewOutputFormatter("json", buf)

	v := struct {
		Account string `json:"account"`
		Granted uint64 `json:"granted"`
	}{Account: "alice", Granted: 1000}
	err := out.Emit(v, func(p *message.Printer, w io.Writer) {
		t.Fatal("text renderer must not run in json mode")
	})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "alice", decoded["account"])
	assert.Equal(t, float64(1000), decoded["granted"])
}

func TestOutputFormatter_TextGroupsDigits(t *testing.T) {
	buf := &bytes.Buffer{}
	out := NewOutputFormatter("text", buf)

	err := out.Emit(nil, func(p *message.Printer, w io.Writer) {
		p.Fprintf(w, "granted %d options to %s\n", uint64(1000000), "alice")
	})
	require.NoError(t, err)
	assert.Equal(t, "granted 1,000,000 options to alice\n", buf.String())
}
