package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/vytor/folio/internal/errors"
	"github.com/vytor/folio/internal/logger"
	"github.com/vytor/folio/internal/services"
)

const maxBodyBytes = 1 << 20

type pinger interface {
	PingContext(ctx context.Context) error
}

type Server struct {
	Auth           services.AuthService
	Folders        services.FolderService
	Cards          services.CardService
	ContextReading services.ContextReadingService
	DB             pinger

	ContextReadingMaxLimit int
	RequestTimeout         time.Duration
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.FromContext(r.Context()).Warn("failed to encode response: %v", err)
	}
}

// decodeJSON reads a JSON body into dst and runs its validate tags.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		logger.FromContext(r.Context()).Debug("invalid request body: %v", err)
		return errors.NewBadRequestError("invalid JSON body")
	}
	return validateStruct(dst)
}
