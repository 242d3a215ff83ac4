package httpreceiver_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/ironbank-snapshot-go/bank"
	. "github.com/AntonStoeckl/ironbank-snapshot-go/bank/httpreceiver"
	"github.com/AntonStoeckl/ironbank-snapshot-go/testutil/helper"
)

var fixedSnapshotID = uuid.MustParse("01890a5d-ac96-774b-bcce-b302099a8057")

type fakeRepository struct {
	mu      sync.Mutex
	saved   []bank.Snapshot
	latest  map[string]bank.Snapshot
	saveErr error
	loadErr error
}

func (r *fakeRepository) Save(_ context.Context, snapshot bank.Snapshot) (uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.saveErr != nil {
		return uuid.Nil, r.saveErr
	}

	r.saved = append(r.saved, snapshot)

	return fixedSnapshotID, nil
}

func (r *fakeRepository) LoadLatest(_ context.Context, playerName string) (bank.Snapshot, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.loadErr != nil {
		return bank.Snapshot{}, false, r.loadErr
	}

	snapshot, found := r.latest[playerName]

	return snapshot, found, nil
}

func givenServer(t *testing.T, repo *fakeRepository, options ...Option) *httptest.Server {
	t.Helper()

	handler, err := NewHandler(repo, options...)
	require.NoError(t, err)

	mux := http.NewServeMux()
	handler.Routes(mux)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return server
}

func post(t *testing.T, server *httptest.Server, body string) (int, string) {
	t.Helper()

	resp, err := http.Post(server.URL+Path, "application/json; utf-8", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	return resp.StatusCode, readBody(t, resp)
}

func get(t *testing.T, server *httptest.Server, query string) (int, string) {
	t.Helper()

	resp, err := http.Get(server.URL + Path + query)
	require.NoError(t, err)
	defer resp.Body.Close()

	return resp.StatusCode, readBody(t, resp)
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()

	var sb bytes.Buffer
	_, err := sb.ReadFrom(resp.Body)
	require.NoError(t, err)

	return sb.String()
}

func Test_NewHandler_RejectsNilRepository(t *testing.T) {
	_, err := NewHandler(nil)

	assert.ErrorIs(t, err, ErrNilRepository)
}

func Test_Post_StoresSnapshot(t *testing.T) {
	// setup
	repo := &fakeRepository{}
	receivedAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	logger, spy := helper.NewSpyLogger()
	server := givenServer(t, repo, WithLogger(logger), WithClock(func() time.Time { return receivedAt }))

	// act
	status, body := post(t, server,
		`{"player_name":"Zezima","bank_items":[{"id":995,"quantity":1000000,"name":"Coins"},{"id":4151,"quantity":1,"name":"Abyssal whip"}]}`)

	// assert
	assert.Equal(t, http.StatusCreated, status)
	assert.JSONEq(t, `{"snapshot_id":"01890a5d-ac96-774b-bcce-b302099a8057","item_count":2}`, body)
	require.Len(t, repo.saved, 1)
	assert.Equal(t, "Zezima", repo.saved[0].PlayerName)
	assert.Equal(t, receivedAt, repo.saved[0].TakenAt)
	assert.Equal(t, bank.ItemRecords{
		{ID: 995, Quantity: 1000000, Name: "Coins"},
		{ID: 4151, Quantity: 1, Name: "Abyssal whip"},
	}, repo.saved[0].Items)
	assert.True(t, spy.HasLog(slog.LevelInfo, "bank snapshot received"))
}

func Test_Post_EmptyBank(t *testing.T) {
	repo := &fakeRepository{}
	server := givenServer(t, repo)

	status, body := post(t, server, `{"player_name":"Zezima","bank_items":[]}`)

	assert.Equal(t, http.StatusCreated, status)
	assert.JSONEq(t, `{"snapshot_id":"01890a5d-ac96-774b-bcce-b302099a8057","item_count":0}`, body)
	require.Len(t, repo.saved, 1)
	assert.Empty(t, repo.saved[0].Items)
	assert.NotNil(t, repo.saved[0].Items)
}

func Test_Post_RejectsBadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"player_name":`},
		{name: "items encoded as string", body: `{"player_name":"Zezima","bank_items":"[]"}`},
		{name: "missing player name", body: `{"bank_items":[]}`},
		{name: "empty player name", body: `{"player_name":"","bank_items":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRepository{}
			server := givenServer(t, repo)

			status, body := post(t, server, tt.body)

			assert.Equal(t, http.StatusBadRequest, status)
			assert.Contains(t, body, `"error"`)
			assert.Empty(t, repo.saved)
		})
	}
}

func Test_Post_RejectsInvalidItemRecords(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "negative id", body: `{"player_name":"Zezima","bank_items":[{"id":-1,"quantity":1,"name":"x"}]}`},
		{name: "negative quantity", body: `{"player_name":"Zezima","bank_items":[{"id":995,"quantity":-5,"name":"Coins"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// setup
			repo := &fakeRepository{}
			logger, spy := helper.NewSpyLogger()
			server := givenServer(t, repo, WithLogger(logger))

			// act
			status, body := post(t, server, tt.body)

			// assert
			assert.Equal(t, http.StatusBadRequest, status)
			assert.JSONEq(t, `{"error":"bank_items contains invalid item records"}`, body)
			assert.Empty(t, repo.saved)
			assert.True(t, spy.HasWarnLog("rejected bank items envelope with invalid item records"))
		})
	}
}

func Test_Post_When_StoreFails(t *testing.T) {
	// setup
	repo := &fakeRepository{saveErr: errors.New("connection refused")}
	logger, spy := helper.NewSpyLogger()
	server := givenServer(t, repo, WithLogger(logger))

	// act
	status, body := post(t, server, `{"player_name":"Zezima","bank_items":[]}`)

	// assert
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.JSONEq(t, `{"error":"snapshot could not be stored"}`, body)
	assert.True(t, spy.HasErrorLog("failed to store bank snapshot"))
}

func Test_Get_ReturnsLatestEnvelope(t *testing.T) {
	// setup
	repo := &fakeRepository{latest: map[string]bank.Snapshot{
		"Zezima": {
			PlayerName: "Zezima",
			Items:      bank.ItemRecords{{ID: 10, Quantity: 3, Name: "Coins"}},
			TakenAt:    time.Now(),
		},
	}}
	server := givenServer(t, repo)

	// act
	status, body := get(t, server, "?player_name=Zezima")

	// assert
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"player_name":"Zezima","bank_items":[{"id":10,"quantity":3,"name":"Coins"}]}`, body)
}

func Test_Get_StatusCodes(t *testing.T) {
	tests := []struct {
		name           string
		repo           *fakeRepository
		query          string
		expectedStatus int
	}{
		{
			name:           "missing player name",
			repo:           &fakeRepository{},
			query:          "",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown player",
			repo:           &fakeRepository{},
			query:          "?player_name=Lynx+Titan",
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "store fails",
			repo:           &fakeRepository{loadErr: errors.New("timeout")},
			query:          "?player_name=Zezima",
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := givenServer(t, tt.repo)

			status, _ := get(t, server, tt.query)

			assert.Equal(t, tt.expectedStatus, status)
		})
	}
}

func Test_OtherMethods_AreNotAllowed(t *testing.T) {
	server := givenServer(t, &fakeRepository{})

	for _, method := range []string{http.MethodPut, http.MethodDelete, http.MethodPatch} {
		req, err := http.NewRequest(method, server.URL+Path, nil)
		require.NoError(t, err)

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		_ = resp.Body.Close()

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode, method)
		assert.Equal(t, "GET, POST", resp.Header.Get("Allow"), method)
	}
}
