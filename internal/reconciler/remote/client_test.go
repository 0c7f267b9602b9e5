package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you-humble/stockledger/internal/model"
)

func TestClientPull(t *testing.T) {
	t.Parallel()

	token := gofakeit.UUID()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/sync/full", r.URL.Path)
		assert.Equal(t, "Bearer "+token, r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"products":[{"id":4,"name":"Cable","minStock":2,"aliases":[],"accessories":[],
			"stock":{"onHand":"3","reserved":"0","debt":"0","balance":"3","available":"3"}}],
			"operations":[],"reservations":[],"reminders":[],"bundles":[]}`))
	}))
	t.Cleanup(srv.Close)

	s, err := New(srv.URL+"/", token, srv.Client()).Pull(context.Background())
	require.NoError(t, err)
	require.Len(t, s.Products, 1)
	assert.Equal(t, "Cable", s.Products[0].Name)
	assert.True(t, decimal.NewFromInt(3).Equal(s.Products[0].Stock.Available))
}

func TestClientPush(t *testing.T) {
	t.Parallel()

	var got model.Snapshot
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)

	err := New(srv.URL, "", srv.Client()).Push(context.Background(), model.Snapshot{
		Reminders: []model.Reminder{{ID: -1760000000000, Title: "Call back"}},
	})
	require.NoError(t, err)
	require.Len(t, got.Reminders, 1)
	assert.Equal(t, int64(-1760000000000), got.Reminders[0].ID)
}

func TestClientStatusMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{name: "bad request", status: http.StatusBadRequest, body: `{"code":400,"message":"invalid input: quantity must be positive"}`, want: model.ErrInvalidInput},
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{"code":401,"message":"unauthorized"}`, want: model.ErrUnauthorized},
		{name: "forbidden", status: http.StatusForbidden, want: model.ErrForbidden},
		{name: "not found", status: http.StatusNotFound, want: model.ErrNotFound},
		{name: "conflict", status: http.StatusConflict, want: model.ErrConflict},
		{name: "server error", status: http.StatusInternalServerError, want: model.ErrUnavailable},
		{name: "not serving", status: http.StatusServiceUnavailable, body: `NOT_SERVING`, want: model.ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			t.Cleanup(srv.Close)

			err := New(srv.URL, "t", srv.Client()).DeleteOperation(context.Background(), 9)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestClientUnreachable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := New(url, "t", nil).Ping(context.Background())
	assert.ErrorIs(t, err, model.ErrUnavailable)
}

func TestClientEntityPaths(t *testing.T) {
	t.Parallel()

	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(srv.Close)

	c := New(srv.URL, "t", srv.Client())
	ctx := context.Background()

	_, err := c.UpdateProduct(ctx, model.UpdateProductParams{ID: -5})
	require.NoError(t, err)
	_, err = c.UpdateReservation(ctx, model.UpdateReservationParams{ID: 6})
	require.NoError(t, err)
	_, err = c.UpdateReminder(ctx, model.UpdateReminderParams{ID: 7})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"PUT /api/v1/products/-5",
		"PUT /api/v1/reservations/6",
		"PUT /api/v1/reminders/7",
	}, paths)
}
