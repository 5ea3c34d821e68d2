package wastedata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	appErrors "binday/internal/pkg/errors"
	"binday/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchSchedule_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/schedule", r.URL.Path)
		assert.Equal(t, "42", r.URL.Query().Get("location_id"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"kind": "recycling", "collection_date": "2024-03-04"},
			{"kind": "general", "collection_date": "2024-03-11"}
		]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, testutil.NopLogger{})
	raw, err := client.FetchSchedule(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, raw, 2)
	assert.Equal(t, "recycling", raw[0].Kind)
	assert.Equal(t, "2024-03-04", raw[0].CollectionDate)
}

func TestFetchSchedule_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, testutil.NopLogger{})
	_, err := client.FetchSchedule(context.Background(), 42)
	assert.ErrorIs(t, err, appErrors.ErrNetworkUnavailable)
}

func TestFetchSchedule_MalformedPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"unexpected": "shape"`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, testutil.NopLogger{})
	_, err := client.FetchSchedule(context.Background(), 42)
	assert.ErrorIs(t, err, appErrors.ErrNetworkUnavailable)
}

func TestFetchSchedule_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewClient(srv.URL, testutil.NopLogger{})
	_, err := client.FetchSchedule(context.Background(), 42)
	assert.ErrorIs(t, err, appErrors.ErrNetworkUnavailable)
}
