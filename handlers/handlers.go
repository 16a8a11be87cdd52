// handlers/handlers.go
package handlers

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/beratech/payhero-backend/config"
	"github.com/beratech/payhero-backend/models"
	"github.com/beratech/payhero-backend/services"
	"github.com/beratech/payhero-backend/store"
)

// Handlers holds all HTTP handlers and their dependencies
type Handlers struct {
	config  *config.Config
	gateway *services.PayHeroClient
	Store   store.TransactionStore
}

// NewHandlers creates a new Handlers instance
func NewHandlers(cfg *config.Config, gateway *services.PayHeroClient, txStore store.TransactionStore) *Handlers {
	return &Handlers{
		config:  cfg,
		gateway: gateway,
		Store:   txStore,
	}
}

func respondWithError(w http.ResponseWriter, code int, kind models.ErrorKind, message string) {
	respondWithJSON(w, code, models.ErrorResponse{
		Success: false,
		Kind:    kind,
		Error:   message,
	})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Error("Failed to marshal response payload: ", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"success":false,"error":"Internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
