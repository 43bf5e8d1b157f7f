// Package handler implements the JSON endpoints of the API.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/dukerupert/homebase/internal/errutil"
	"github.com/dukerupert/homebase/internal/respond"
)

const maxBodyBytes = 1 << 20

var errInvalidJSON = errors.New("invalid JSON body")

func writeJSON(w http.ResponseWriter, status int, v any) {
	respond.JSON(w, status, v)
}

// decodeJSON reads a single JSON object from the request body.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return errInvalidJSON
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errInvalidJSON
	}
	return nil
}

// writeError maps err to a status and body. Internal errors are logged and
// answered with fallback so that no detail reaches the client.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error, fallback string) {
	code := errutil.Code(err)
	if code == errutil.CodeInternal {
		errutil.LogError(logger, fallback, err)
		respond.Error(w, http.StatusInternalServerError, errutil.Title(code), fallback)
		return
	}
	respond.Error(w, errutil.Status(code), errutil.Title(code), err.Error())
}
