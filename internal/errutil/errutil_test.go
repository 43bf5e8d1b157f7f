package errutil_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/homebase/internal/errutil"
)

func TestCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"plain error", errors.New("boom"), errutil.CodeInternal},
		{"validation", oops.Code(errutil.CodeValidation).Errorf("bad"), errutil.CodeValidation},
		{"conflict", oops.Code(errutil.CodeConflict).Errorf("dup"), errutil.CodeConflict},
		{"unknown code", oops.Code("SOMETHING_ELSE").Errorf("x"), errutil.CodeInternal},
		{"wrapped with fmt", fmt.Errorf("ctx: %w", oops.Code(errutil.CodeNotFound).Errorf("gone")), errutil.CodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errutil.Code(tt.err))
		})
	}
}

func TestStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, errutil.Status(errutil.CodeValidation))
	assert.Equal(t, http.StatusConflict, errutil.Status(errutil.CodeConflict))
	assert.Equal(t, http.StatusUnauthorized, errutil.Status(errutil.CodeAuthentication))
	assert.Equal(t, http.StatusUnauthorized, errutil.Status(errutil.CodeUnauthorized))
	assert.Equal(t, http.StatusNotFound, errutil.Status(errutil.CodeNotFound))
	assert.Equal(t, http.StatusInternalServerError, errutil.Status(errutil.CodeInternal))
}

func TestLogError_WithOopsError(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	err := oops.Code(errutil.CodeInternal).
		With("operation", "insert user").
		Errorf("disk full")

	errutil.LogError(logger, "register failed", err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, "register failed", entry["msg"])
	assert.Equal(t, errutil.CodeInternal, entry["code"])
	assert.Contains(t, entry["context"], "operation")
}

func TestLogError_WithStandardError(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	errutil.LogError(logger, "operation failed", errors.New("standard error"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Contains(t, entry["error"], "standard error")
	assert.NotContains(t, entry, "code")
}
