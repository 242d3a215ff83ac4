package main

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/ironbank-snapshot-go/bank"
	"github.com/AntonStoeckl/ironbank-snapshot-go/internal/config"
)

type memoryRepository struct {
	latest map[string]bank.Snapshot
}

func (r *memoryRepository) Save(_ context.Context, snapshot bank.Snapshot) (uuid.UUID, error) {
	r.latest[snapshot.PlayerName] = snapshot
	return uuid.NewV7()
}

func (r *memoryRepository) LoadLatest(_ context.Context, playerName string) (bank.Snapshot, bool, error) {
	snapshot, found := r.latest[playerName]
	return snapshot, found, nil
}

func Test_NewMux_ServesBankItems(t *testing.T) {
	// setup
	repo := &memoryRepository{latest: map[string]bank.Snapshot{}}
	mux, err := newMux(repo, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	server := httptest.NewServer(mux)
	defer server.Close()

	// act
	postResp, err := http.Post(
		server.URL+"/api/bank-items",
		"application/json; utf-8",
		strings.NewReader(`{"player_name":"Zezima","bank_items":[{"id":4151,"quantity":1,"name":"Abyssal whip"}]}`),
	)
	require.NoError(t, err)
	_ = postResp.Body.Close()

	getResp, err := http.Get(server.URL + "/api/bank-items?player_name=Zezima")
	require.NoError(t, err)
	_ = getResp.Body.Close()

	// assert
	assert.Equal(t, http.StatusCreated, postResp.StatusCode)
	assert.Equal(t, http.StatusOK, getResp.StatusCode)
	assert.Equal(t, bank.ItemRecords{{ID: 4151, Quantity: 1, Name: "Abyssal whip"}}, repo.latest["Zezima"].Items)
}

func Test_OpenStore_RejectsUnknownDriver(t *testing.T) {
	cfg := config.ServerConfig{DatabaseDSN: "postgres://localhost/ironbank", DBDriver: "mysql", TableName: "bank_snapshots"}

	_, _, err := openStore(context.Background(), cfg, slog.New(slog.DiscardHandler))

	assert.ErrorIs(t, err, config.ErrUnknownDBDriver)
}
