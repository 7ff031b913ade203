package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gomexpay/edenred/infra/response"
	"github.com/gomexpay/edenred/provider"
)

func TestCheckHealth(t *testing.T) {
	provider.Register("health-test", func() provider.GatewayProvider { return nil })

	h := NewHealthHandler(newOperationsStore(t))

	rec := httptest.NewRecorder()
	h.CheckHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "healthy", data["status"])
	assert.Equal(t, "healthy", data["store"])
	assert.NotEmpty(t, data["providers"])
}

func TestCheckHealthWithoutStore(t *testing.T) {
	provider.Register("health-test", func() provider.GatewayProvider { return nil })

	h := NewHealthHandler(nil)

	rec := httptest.NewRecorder()
	h.CheckHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "not_configured", data["store"])
}
