package router

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/deppfellow/hms-backend/internal/config"
	"github.com/deppfellow/hms-backend/internal/errs"
	"github.com/deppfellow/hms-backend/internal/handler"
	"github.com/deppfellow/hms-backend/internal/metrics"
	"github.com/deppfellow/hms-backend/internal/model"
	"github.com/deppfellow/hms-backend/internal/repository"
	"github.com/deppfellow/hms-backend/internal/server"
	"github.com/deppfellow/hms-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, store repository.DocumentStore, configure func(*config.Config)) *echo.Echo {
	t.Helper()

	cfg := config.Default()
	if configure != nil {
		configure(cfg)
	}

	log := zerolog.Nop()
	s := &server.Server{Config: cfg, Logger: &log, Metrics: metrics.New()}

	services := service.NewServices(s, &repository.Repositories{Store: store})
	return NewRouter(s, handler.NewHandlers(s, services))
}

func do(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestRoot(t *testing.T) {
	e := newTestApp(t, repository.NewMemoryStore("hms"), nil)

	rec := do(e, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]string{"message": "HMS Backend running"}, decode[map[string]string](t, rec))
}

func TestConnectionCheck(t *testing.T) {
	t.Run("connected", func(t *testing.T) {
		e := newTestApp(t, repository.NewMemoryStore("hms"), nil)

		rec := do(e, http.MethodGet, "/test", "")
		require.Equal(t, http.StatusOK, rec.Code)

		body := decode[map[string]any](t, rec)
		assert.Equal(t, "✅ Running", body["backend"])
		assert.Equal(t, "✅ Connected", body["database"])
		assert.Equal(t, "hms", body["database_name"])
	})

	t.Run("not connected", func(t *testing.T) {
		e := newTestApp(t, repository.NewMongoStore(nil), nil)

		rec := do(e, http.MethodGet, "/test", "")
		require.Equal(t, http.StatusOK, rec.Code)

		body := decode[map[string]any](t, rec)
		assert.Equal(t, "❌ Not Connected", body["database"])
		assert.Contains(t, body, "database_name")
		assert.Nil(t, body["database_name"])
	})
}

func TestReferenceLists(t *testing.T) {
	e := newTestApp(t, repository.NewMemoryStore("hms"), nil)

	tests := []struct {
		path  string
		count int
		first string
	}{
		{"/api/services", 4, `"title":"Emergency Care"`},
		{"/api/departments", 6, `"name":"Cardiology"`},
		{"/api/doctors", 4, `"name":"Dr. Sarah Johnson"`},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			first := do(e, http.MethodGet, tt.path, "")
			second := do(e, http.MethodGet, tt.path, "")

			require.Equal(t, http.StatusOK, first.Code)
			assert.Len(t, decode[[]map[string]string](t, first), tt.count)
			assert.Contains(t, first.Body.String(), tt.first)
			assert.JSONEq(t, first.Body.String(), second.Body.String())
		})
	}

	t.Run("request body is ignored", func(t *testing.T) {
		rec := do(e, http.MethodGet, "/api/services?x=1", `{"broken":`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Len(t, decode[[]model.Service](t, rec), 4)
	})

	t.Run("doctor fields", func(t *testing.T) {
		doctors := decode[[]model.Doctor](t, do(e, http.MethodGet, "/api/doctors", ""))
		assert.Equal(t, model.Doctor{
			Name:           "Dr. Emily Chen",
			Specialization: "Pediatrician",
			Photo:          "https://images.unsplash.com/photo-1551601651-2a8555f1a136?w=640&q=80",
		}, doctors[2])
	})
}

func TestCreateContactMessage(t *testing.T) {
	store := repository.NewMemoryStore("hms")
	e := newTestApp(t, store, nil)

	rec := do(e, http.MethodPost, "/api/contact", `{"name":"Jane Doe","email":"jane@example.com","message":"Need info"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	res := decode[model.SubmissionResponse](t, rec)
	assert.True(t, res.OK)
	assert.Len(t, res.ID, 24)

	docs := store.Documents(model.ContactMessageCollection)
	require.Len(t, docs, 1)
	assert.Equal(t, "Jane Doe", docs[0]["name"])
	assert.Equal(t, "Need info", docs[0]["message"])
	assert.Contains(t, docs[0], "phone")
	assert.Nil(t, docs[0]["phone"])
}

func TestCreateAppointment(t *testing.T) {
	t.Run("stored with optional fields", func(t *testing.T) {
		store := repository.NewMemoryStore("hms")
		e := newTestApp(t, store, nil)

		rec := do(e, http.MethodPost, "/api/appointment",
			`{"name":"John","email":"john@example.com","phone":"123","department":"Cardiology","doctor":"Dr. Sarah Johnson","extra":"ignored"}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		docs := store.Documents(model.AppointmentCollection)
		require.Len(t, docs, 1)
		assert.Equal(t, "Dr. Sarah Johnson", docs[0]["doctor"])
		assert.Nil(t, docs[0]["message"])
		assert.NotContains(t, docs[0], "extra")
	})

	t.Run("malformed email is rejected", func(t *testing.T) {
		store := repository.NewMemoryStore("hms")
		e := newTestApp(t, store, nil)

		rec := do(e, http.MethodPost, "/api/appointment",
			`{"name":"John","email":"bad","phone":"123","department":"Cardiology"}`)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		body := decode[errs.HTTPError](t, rec)
		assert.Equal(t, []errs.FieldError{{Field: "email", Error: "must be a valid email address"}}, body.Errors)
		assert.Empty(t, store.Documents(model.AppointmentCollection))
	})

	t.Run("trailing data is rejected", func(t *testing.T) {
		store := repository.NewMemoryStore("hms")
		e := newTestApp(t, store, nil)

		rec := do(e, http.MethodPost, "/api/appointment",
			`{"name":"J","email":"j@example.com","phone":"1","department":"x"}{"x":1}`)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
		assert.Empty(t, store.Documents(model.AppointmentCollection))
	})

	t.Run("missing department is rejected", func(t *testing.T) {
		e := newTestApp(t, repository.NewMemoryStore("hms"), nil)

		rec := do(e, http.MethodPost, "/api/appointment", `{"name":"John","email":"john@example.com","phone":"123"}`)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, []errs.FieldError{{Field: "department", Error: "is required"}}, decode[errs.HTTPError](t, rec).Errors)
	})

	t.Run("store unavailable", func(t *testing.T) {
		e := newTestApp(t, repository.NewMongoStore(nil), nil)

		rec := do(e, http.MethodPost, "/api/appointment",
			`{"name":"John","email":"john@example.com","phone":"123","department":"Cardiology"}`)
		require.Equal(t, http.StatusInternalServerError, rec.Code)

		body := decode[errs.HTTPError](t, rec)
		assert.Equal(t, "APPOINTMENT_STORE_UNAVAILABLE", body.Code)
		assert.Equal(t, "Database not available. Check DATABASE_URL and DATABASE_NAME environment variables", body.Message)
	})
}

func TestConcurrentSubmissionsDoNotShareState(t *testing.T) {
	store := repository.NewMemoryStore("hms")
	e := newTestApp(t, store, nil)

	const n = 25
	var wg sync.WaitGroup
	codes := make([]int, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			body := fmt.Sprintf(`{"name":"Patient %d","email":"p%d@example.com","message":"msg %d"}`, i, i, i)
			codes[i] = do(e, http.MethodPost, "/api/contact", body).Code
		}(i)
	}
	wg.Wait()

	for _, code := range codes {
		assert.Equal(t, http.StatusOK, code)
	}

	docs := store.Documents(model.ContactMessageCollection)
	require.Len(t, docs, n)
	for _, doc := range docs {
		var i int
		_, err := fmt.Sscanf(doc["name"].(string), "Patient %d", &i)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("p%d@example.com", i), doc["email"])
		assert.Equal(t, fmt.Sprintf("msg %d", i), doc["message"])
	}
}

func TestSubmissionRateLimit(t *testing.T) {
	e := newTestApp(t, repository.NewMemoryStore("hms"), func(cfg *config.Config) {
		cfg.RateLimit = config.RateLimitConfig{Enabled: true, RequestsPerMinute: 1, Burst: 1}
	})

	body := `{"name":"Jane","email":"jane@example.com","message":"hi"}`
	assert.Equal(t, http.StatusOK, do(e, http.MethodPost, "/api/contact", body).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(e, http.MethodPost, "/api/contact", body).Code)

	// Reads are never limited.
	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/api/doctors", "").Code)
}

func TestStatus(t *testing.T) {
	t.Run("database check fails without a store", func(t *testing.T) {
		e := newTestApp(t, repository.NewMongoStore(nil), nil)

		rec := do(e, http.MethodGet, "/status", "")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

		body := decode[handler.HealthResponse](t, rec)
		assert.Equal(t, "unhealthy", body.Status)
		assert.Equal(t, "unhealthy", body.Checks["database"].Status)
		assert.Equal(t, "not_configured", body.Checks["redis"].Status)
	})

	t.Run("healthy when checks disabled", func(t *testing.T) {
		e := newTestApp(t, repository.NewMongoStore(nil), func(cfg *config.Config) {
			cfg.Observability.HealthChecks.Enabled = false
		})

		rec := do(e, http.MethodGet, "/status", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, decode[handler.HealthResponse](t, rec).Checks)
	})
}

func TestMetricsEndpoint(t *testing.T) {
	e := newTestApp(t, repository.NewMemoryStore("hms"), nil)

	do(e, http.MethodPost, "/api/contact", `{"name":"Jane","email":"jane@example.com","message":"hi"}`)
	do(e, http.MethodPost, "/api/contact", `{"name":"Jane","email":"nope","message":"hi"}`)

	rec := do(e, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `hms_submissions_total{collection="contactmessage",outcome="stored"} 1`)
	assert.Contains(t, rec.Body.String(), `hms_validation_failures_total{collection="contactmessage"} 1`)
}

func TestDocsAndStatic(t *testing.T) {
	e := newTestApp(t, repository.NewMemoryStore("hms"), nil)

	docs := do(e, http.MethodGet, "/docs", "")
	assert.Equal(t, http.StatusOK, docs.Code)
	assert.Contains(t, docs.Header().Get(echo.HeaderContentType), echo.MIMETextHTML)
	assert.Equal(t, "no-cache", docs.Header().Get("Cache-Control"))

	spec := do(e, http.MethodGet, "/static/openapi.json", "")
	assert.Equal(t, http.StatusOK, spec.Code)
	assert.Contains(t, spec.Body.String(), `"/api/appointment"`)
}

func TestUnknownRoute(t *testing.T) {
	e := newTestApp(t, repository.NewMemoryStore("hms"), nil)

	rec := do(e, http.MethodGet, "/api/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Route not found", decode[errs.HTTPError](t, rec).Message)
}
