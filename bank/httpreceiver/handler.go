package httpreceiver

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/ironbank-snapshot-go/bank"
	"github.com/AntonStoeckl/ironbank-snapshot-go/bank/httppublisher"
)

const (
	// Path is the route of the bank-items endpoint.
	Path = "/api/bank-items"

	maxBodyBytes           = 4 << 20
	queryParamPlayerName   = "player_name"
	headerContentType      = "Content-Type"
	contentTypeJSON        = "application/json"
	logMsgDecodeFailed     = "failed to decode bank items envelope"
	logMsgInvalidItems     = "rejected bank items envelope with invalid item records"
	logMsgStoreFailed      = "failed to store bank snapshot"
	logMsgLoadFailed       = "failed to load bank snapshot"
	logMsgSnapshotStored   = "bank snapshot received"
	logMsgEncodeFailed     = "failed to encode response"
	logAttrError           = "error"
	logAttrPlayerName      = "player_name"
	logAttrItemCount       = "item_count"
	logAttrSnapshotID      = "snapshot_id"
	errMsgInvalidJSON      = "invalid bank items envelope"
	errMsgMissingPlayer    = "player_name is required"
	errMsgInvalidItems     = "bank_items contains invalid item records"
	errMsgStoreFailed      = "snapshot could not be stored"
	errMsgLoadFailed       = "snapshot could not be loaded"
	errMsgNotFound         = "no snapshot for player"
	errMsgMethodNotAllowed = "method not allowed"
)

// ErrNilRepository is returned when a nil repository is supplied.
var ErrNilRepository = errors.New("nil snapshot repository supplied")

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Repository stores and reads received snapshots. It is satisfied by postgresengine.SnapshotStore.
type Repository interface {
	Save(ctx context.Context, snapshot bank.Snapshot) (uuid.UUID, error)
	LoadLatest(ctx context.Context, playerName string) (bank.Snapshot, bool, error)
}

// Logger interface for operational logging, warnings, and error reporting.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// StoredResponse is the body of a successful POST.
type StoredResponse struct {
	SnapshotID string `json:"snapshot_id"`
	ItemCount  int    `json:"item_count"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Handler serves POST and GET on the bank-items endpoint.
type Handler struct {
	repo   Repository
	logger Logger
	now    func() time.Time
}

// Option defines a functional option for configuring Handler.
type Option func(*Handler) error

// WithLogger sets the logger for the Handler.
func WithLogger(logger Logger) Option {
	return func(h *Handler) error {
		h.logger = logger
		return nil
	}
}

// WithClock overrides time.Now for the receive timestamp of stored snapshots.
func WithClock(now func() time.Time) Option {
	return func(h *Handler) error {
		h.now = now
		return nil
	}
}

// NewHandler creates a new Handler with optional configuration.
func NewHandler(repo Repository, options ...Option) (*Handler, error) {
	if repo == nil {
		return nil, ErrNilRepository
	}

	h := &Handler{repo: repo, now: time.Now}
	for _, option := range options {
		if err := option(h); err != nil {
			return nil, err
		}
	}

	return h, nil
}

// Routes registers the handler on mux under Path.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.Handle(Path, h)
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.handlePost(w, r)
	case http.MethodGet:
		h.handleGet(w, r)
	default:
		w.Header().Set("Allow", http.MethodGet+", "+http.MethodPost)
		h.writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: errMsgMethodNotAllowed})
	}
}

func (h *Handler) handlePost(w http.ResponseWriter, r *http.Request) {
	body, readErr := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if readErr != nil {
		h.warn(logMsgDecodeFailed, readErr)
		h.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: errMsgInvalidJSON})
		return
	}

	envelope, decodeErr := httppublisher.UnmarshalEnvelope(body)
	if decodeErr != nil {
		h.warn(logMsgDecodeFailed, decodeErr)
		h.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: errMsgInvalidJSON})
		return
	}

	snapshot, buildErr := bank.BuildSnapshot(envelope.PlayerName, envelope.BankItems, h.now())
	if buildErr != nil {
		if errors.Is(buildErr, bank.ErrEmptyPlayerName) {
			h.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: errMsgMissingPlayer})
			return
		}

		h.warn(logMsgInvalidItems, buildErr)
		h.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: errMsgInvalidItems})
		return
	}

	snapshotID, saveErr := h.repo.Save(r.Context(), snapshot)
	if saveErr != nil {
		if h.logger != nil {
			h.logger.Error(logMsgStoreFailed, logAttrError, saveErr.Error(), logAttrPlayerName, snapshot.PlayerName)
		}
		h.writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: errMsgStoreFailed})
		return
	}

	if h.logger != nil {
		h.logger.Info(
			logMsgSnapshotStored,
			logAttrSnapshotID, snapshotID.String(),
			logAttrPlayerName, snapshot.PlayerName,
			logAttrItemCount, snapshot.ItemCount(),
		)
	}

	h.writeJSON(w, http.StatusCreated, StoredResponse{SnapshotID: snapshotID.String(), ItemCount: snapshot.ItemCount()})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	playerName := r.URL.Query().Get(queryParamPlayerName)
	if playerName == "" {
		h.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: errMsgMissingPlayer})
		return
	}

	snapshot, found, loadErr := h.repo.LoadLatest(r.Context(), playerName)
	if loadErr != nil {
		if h.logger != nil {
			h.logger.Error(logMsgLoadFailed, logAttrError, loadErr.Error(), logAttrPlayerName, playerName)
		}
		h.writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: errMsgLoadFailed})
		return
	}

	if !found {
		h.writeJSON(w, http.StatusNotFound, ErrorResponse{Error: errMsgNotFound})
		return
	}

	h.writeJSON(w, http.StatusOK, httppublisher.BuildEnvelope(snapshot))
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set(headerContentType, contentTypeJSON)
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.warn(logMsgEncodeFailed, err)
	}
}

func (h *Handler) warn(msg string, err error) {
	if h.logger != nil {
		h.logger.Warn(msg, logAttrError, err.Error())
	}
}
