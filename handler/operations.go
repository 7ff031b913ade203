package handler

import (
	"net/http"
	"strconv"

	"github.com/gomexpay/edenred/infra/config"
	"github.com/gomexpay/edenred/infra/response"
	"github.com/gomexpay/edenred/infra/store"
)

// OperationsHandler serves the recorded gateway operations
type OperationsHandler struct {
	store *store.SQLiteStore
}

// NewOperationsHandler creates a new operations handler
func NewOperationsHandler(s *store.SQLiteStore) *OperationsHandler {
	return &OperationsHandler{store: s}
}

// ListOperations returns the most recent operations.
// GET /v1/operations?provider=edenred&limit=50
func (h *OperationsHandler) ListOperations(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		response.Error(w, http.StatusServiceUnavailable, "Operation store not configured", nil)
		return
	}

	providerName := r.URL.Query().Get("provider")
	limit := config.GetIntEnv("OPERATIONS_DEFAULT_LIMIT", 100)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit = parseLimit(raw, limit)
	}

	entries, err := h.store.ListOperations(r.Context(), providerName, limit)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to list operations", err)
		return
	}

	response.Success(w, http.StatusOK, "Operations retrieved", map[string]any{
		"count":      len(entries),
		"operations": entries,
	})
}

func parseLimit(raw string, fallback int) int {
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return fallback
	}
	if limit > 1000 {
		return 1000
	}
	return limit
}
