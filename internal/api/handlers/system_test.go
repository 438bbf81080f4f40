package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dcamoon/trading-backend/internal/api/handlers"
	"github.com/dcamoon/trading-backend/internal/service"
	"github.com/dcamoon/trading-backend/internal/testutil"
	"github.com/dcamoon/trading-backend/internal/version"
)

// TestSystemHandler_Health tests the health endpoint.
//
// WHY: Deploy tooling polls this endpoint; it must report a healthy
// database with 200 and an unreachable one with 503.
func TestSystemHandler_Health(t *testing.T) {
	t.Run("reports healthy with working database", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		handler := handlers.NewSystemHandler(service.NewSystemService(db))

		req := httptest.NewRequest(http.MethodGet, "/api/system/health", nil)

		// Execute
		w := httptest.NewRecorder()
		handler.Health(w, req)

		// Assert
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", w.Code)
		}

		var body handlers.HealthResponse
		testutil.DecodeResponse(t, w, &body)
		if body.Status != "healthy" || body.Database != "connected" {
			t.Errorf("Unexpected health response %+v", body)
		}
	})

	t.Run("reports unhealthy with closed database", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		db.Close()
		handler := handlers.NewSystemHandler(service.NewSystemService(db))

		req := httptest.NewRequest(http.MethodGet, "/api/system/health", nil)

		// Execute
		w := httptest.NewRecorder()
		handler.Health(w, req)

		// Assert
		if w.Code != http.StatusServiceUnavailable {
			t.Fatalf("Expected 503, got %d", w.Code)
		}
	})
}

// TestSystemHandler_Version tests the version endpoint.
func TestSystemHandler_Version(t *testing.T) {
	// Setup
	db := testutil.SetupTestDB(t)
	handler := handlers.NewSystemHandler(service.NewSystemService(db))

	req := httptest.NewRequest(http.MethodGet, "/api/system/version", nil)

	// Execute
	w := httptest.NewRecorder()
	handler.Version(w, req)

	// Assert
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var body handlers.VersionResponse
	testutil.DecodeResponse(t, w, &body)
	if body.Version != version.Version {
		t.Errorf("Expected version %s, got %s", version.Version, body.Version)
	}
}
