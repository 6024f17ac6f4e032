// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-time-sync/internal/config"
	"github.com/MKhiriev/go-time-sync/internal/logger"
	"github.com/MKhiriev/go-time-sync/internal/utils"
	"github.com/MKhiriev/go-time-sync/models"
)

const testToken = "opaque-test-token"

// newTestAdapter создаёт RemoteAPI, направленный на тестовый сервер
func newTestAdapter(t *testing.T, serverURL, token string) *RemoteAPI {
	t.Helper()

	api, err := NewHTTPServerAdapter(
		config.ClientAdapter{HTTPAddress: serverURL, RequestTimeout: 2 * time.Second, MaxRetries: 2},
		config.ClientApp{APIToken: token},
		logger.Nop(),
	)
	require.NoError(t, err)

	// no real waiting between retries in tests
	api.Projects.(*httpEntityAPI[models.Project]).newBackOff = func() backoff.BackOff {
		return backoff.NewConstantBackOff(time.Millisecond)
	}
	return api
}

// ── construction ────────────────────────────────────────────────────────────

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{raw: "localhost:8080", want: "http://localhost:8080"},
		{raw: " https://api.example.com/ ", want: "https://api.example.com"},
		{raw: "", wantErr: true},
		{raw: "http://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := normalizeBaseURL(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// ── GetSince ────────────────────────────────────────────────────────────────

func TestGetSince_FullFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/projects", r.URL.Path)
		assert.Empty(t, r.URL.Query().Get("since"))
		assert.Equal(t, "Bearer "+testToken, r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]models.Project{
			{SyncMeta: models.SyncMeta{ID: 1}, WorkspaceID: 9, Name: "Site"},
			{SyncMeta: models.SyncMeta{ID: 2, IsDeleted: true}, WorkspaceID: 9, Name: "Old"},
		})
	}))
	defer srv.Close()

	api := newTestAdapter(t, srv.URL, testToken)
	got, err := api.Projects.GetSince(context.Background(), nil)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Site", got[0].Name)
	assert.True(t, got[1].IsDeleted)
}

func TestGetSince_SendsSinceParameter(t *testing.T) {
	since := time.Date(2026, 3, 2, 10, 11, 12, 500, time.UTC)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, err := time.Parse(time.RFC3339Nano, r.URL.Query().Get("since"))
		assert.NoError(t, err)
		assert.True(t, since.Equal(got))
		_, _ = w.Write([]byte("[]"))
	}))
	defer srv.Close()

	api := newTestAdapter(t, srv.URL, testToken)
	got, err := api.Tags.GetSince(context.Background(), &since)

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGetSince_Singleton(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/me", r.URL.Path)
		_ = json.NewEncoder(w).Encode(models.User{SyncMeta: models.SyncMeta{ID: 3}, Email: "a@b.c"})
	}))
	defer srv.Close()

	api := newTestAdapter(t, srv.URL, testToken)
	got, err := api.Users.GetSince(context.Background(), nil)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a@b.c", got[0].Email)
}

func TestGetSince_SingletonNotModified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	api := newTestAdapter(t, srv.URL, testToken)
	since := time.Now()
	got, err := api.Preferences.GetSince(context.Background(), &since)

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGetSince_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("[]"))
	}))
	defer srv.Close()

	api := newTestAdapter(t, srv.URL, testToken)
	_, err := api.Projects.GetSince(context.Background(), nil)

	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestGetSince_GivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	api := newTestAdapter(t, srv.URL, testToken)
	_, err := api.Projects.GetSince(context.Background(), nil)

	assert.ErrorIs(t, err, ErrTooManyRequests)
	assert.Equal(t, int32(3), calls.Load())
}

func TestGetSince_DoesNotRetryUnauthorized(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	api := newTestAdapter(t, srv.URL, testToken)
	_, err := api.Projects.GetSince(context.Background(), nil)

	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.True(t, IsAuthorizationFailure(err))
	assert.Equal(t, int32(1), calls.Load())
}

func TestGetSince_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	api := newTestAdapter(t, url, testToken)
	_, err := api.Projects.GetSince(context.Background(), nil)

	assert.ErrorIs(t, err, ErrTransport)
}

// ── Create / Update / Delete ────────────────────────────────────────────────

func TestCreate_ReturnsServerCopy(t *testing.T) {
	serverAt := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/clients", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var in models.Client
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, int64(-1), in.ID)

		in.ID = 700
		in.At = serverAt
		_ = json.NewEncoder(w).Encode(in)
	}))
	defer srv.Close()

	api := newTestAdapter(t, srv.URL, testToken)
	got, err := api.Clients.Create(context.Background(), models.Client{SyncMeta: models.SyncMeta{ID: -1}, Name: "Acme"})

	require.NoError(t, err)
	assert.Equal(t, int64(700), got.ID)
	assert.True(t, serverAt.Equal(got.At))
}

func TestCreate_SingletonUsesPut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/v1/preferences", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":1,"date_format":"MM/DD/YYYY"}`))
	}))
	defer srv.Close()

	api := newTestAdapter(t, srv.URL, testToken)
	got, err := api.Preferences.Create(context.Background(), models.Preferences{DateFormat: "MM/DD/YYYY"})

	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ID)
}

func TestUpdate_PaymentRequired(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/v1/projects/12", r.URL.Path)
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte("custom colors require a premium workspace"))
	}))
	defer srv.Close()

	api := newTestAdapter(t, srv.URL, testToken)
	_, err := api.Projects.Update(context.Background(), models.Project{SyncMeta: models.SyncMeta{ID: 12}, Color: "#ff0000"})

	require.Error(t, err)
	assert.True(t, IsFeatureRestriction(err))
	assert.Contains(t, err.Error(), "premium")
}

func TestDelete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/v1/time_entries/44", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	api := newTestAdapter(t, srv.URL, testToken)
	require.NoError(t, api.TimeEntries.Delete(context.Background(), 44))
}

func TestDelete_SingletonUnsupported(t *testing.T) {
	api := newTestAdapter(t, "http://localhost:1", testToken)
	err := api.Users.Delete(context.Background(), 1)
	assert.ErrorIs(t, err, ErrUnsupportedOperation)
}

// ── auth ────────────────────────────────────────────────────────────────────

func TestExpiredTokenIsRejectedLocally(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	expired, err := utils.GenerateJWTToken("go-time-sync", 1, -time.Minute, "secret")
	require.NoError(t, err)

	api := newTestAdapter(t, srv.URL, expired.SignedString)
	_, err = api.Tasks.Create(context.Background(), models.Task{Name: "x"})

	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Zero(t, calls.Load())
}

func TestMissingTokenIsUnauthorized(t *testing.T) {
	api := newTestAdapter(t, "http://localhost:1", "")
	_, err := api.Workspaces.GetSince(context.Background(), nil)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

// ── error mapping ───────────────────────────────────────────────────────────

func TestMapHTTPError(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusBadRequest, ErrBadRequest},
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusPaymentRequired, ErrPaymentRequired},
		{http.StatusForbidden, ErrForbidden},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusConflict, ErrConflict},
		{http.StatusTooManyRequests, ErrTooManyRequests},
		{http.StatusInternalServerError, ErrInternalServerError},
		{http.StatusBadGateway, ErrBadGateway},
		{http.StatusTeapot, ErrUnexpectedStatus},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			api := newTestAdapter(t, srv.URL, testToken)
			err := api.Clients.Delete(context.Background(), 1)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
