package app

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_MissingConfig(t *testing.T) {
	t.Setenv("GOOGLE_SHEET_ID", "")
	t.Setenv("EMAIL_USER", "")

	_, err := Build(prometheus.NewRegistry())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GOOGLE_SHEET_ID")
}

func TestBuild_WiresRouter(t *testing.T) {
	t.Setenv("GOOGLE_SHEET_ID", "sheet-123")
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_EMAIL", "svc@project.iam.gserviceaccount.com")
	t.Setenv("GOOGLE_PRIVATE_KEY", "unused-in-this-test")
	t.Setenv("EMAIL_USER", "forge@example.com")
	t.Setenv("EMAIL_PASS", "app-password")
	t.Setenv("MAILERLITE_API_KEY", "")
	t.Setenv("APP_ENV", "development")

	deps, err := Build(prometheus.NewRegistry())
	require.NoError(t, err)
	assert.True(t, deps.Config.IsDevelopment())

	w := httptest.NewRecorder()
	deps.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	deps.Router.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/submit", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
