package uploader

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jotbook-dev/jotbook/internal/model"
)

func batch(n int) []model.Record {
	recs := make([]model.Record, 0, n)
	for i := 0; i < n; i++ {
		amt := decimal.NewFromInt(int64(100 + i))
		recs = append(recs, model.Record{
			ID:          string(rune('a' + i)),
			Title:       "晚餐",
			OccursAt:    time.Date(2025, time.March, 16, 19, 30, 0, 0, time.UTC),
			Amount:      &amt,
			Category:    model.CategoryFood,
			IsExpense:   true,
			ShareSize:   2,
			SplitMethod: model.SplitEqual,
			GroupID:     "trip",
			UpdatedAt:   time.Date(2025, time.March, 16, 20, 0, 0, 0, time.UTC),
			SyncStatus:  model.StatusSynced,
		})
	}
	return recs
}

func TestUpload_PostsBatch(t *testing.T) {
	var got struct {
		Events      []model.Record `json:"events"`
		GeneratedAt string         `json:"generatedAt"`
	}
	var contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	u := New(srv.URL)
	at := time.Date(2025, time.March, 17, 8, 0, 0, 0, time.UTC)
	n, err := u.Upload(context.Background(), batch(3), at)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, "application/json", contentType)
	assert.Len(t, got.Events, 3)
	assert.Equal(t, "2025-03-17T08:00:00Z", got.GeneratedAt)
	assert.Equal(t, "晚餐", got.Events[0].Title)
}

func TestUpload_NoEndpoint(t *testing.T) {
	u := New("")
	_, err := u.Upload(context.Background(), batch(1), time.Now())
	assert.ErrorIs(t, err, ErrNoEndpoint)
}

func TestUpload_EmptyBatch(t *testing.T) {
	u := New("http://localhost:0")
	_, err := u.Upload(context.Background(), nil, time.Now())
	assert.ErrorIs(t, err, ErrNothingToUpload)
}

func TestUpload_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusForbidden)
	}))
	defer srv.Close()

	u := New(srv.URL)
	_, err := u.Upload(context.Background(), batch(1), time.Now())

	var srvErr *ServerError
	require.ErrorAs(t, err, &srvErr)
	assert.Equal(t, http.StatusForbidden, srvErr.Status)
	assert.Contains(t, srvErr.Body, "quota exceeded")
}

func TestUpload_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	u := New(srv.URL)
	_, err := u.Upload(context.Background(), batch(1), time.Now())
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoEndpoint)
}
