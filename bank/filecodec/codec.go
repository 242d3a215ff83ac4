package filecodec

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/ironbank-snapshot-go/bank"
)

const (
	dataDirName            = ".runelite"
	dataFileName           = "ironBankSharingData.json"
	dirPerm                = 0o755
	filePerm               = 0o644
	logMsgReadFailed       = "failed to read bank snapshot file"
	logMsgDecodeFailed     = "failed to decode bank snapshot file"
	logMsgInvalidRecords   = "bank snapshot file contains invalid item records"
	logMsgSnapshotSaved    = "bank snapshot saved"
	logMsgSnapshotLoaded   = "bank snapshot loaded"
	logMsgSnapshotNotFound = "no saved bank snapshot"
	logAttrError           = "error"
	logAttrPath            = "path"
	logAttrItemCount       = "item_count"
)

var (
	// ErrEmptyPath is returned when an empty snapshot file path is supplied.
	ErrEmptyPath = errors.New("empty snapshot file path supplied")

	// ErrResolvingHomeDirFailed is returned when the user's home directory cannot be determined.
	ErrResolvingHomeDirFailed = errors.New("resolving home directory failed")

	// ErrSavingSnapshotFailed is returned when the snapshot file cannot be written.
	ErrSavingSnapshotFailed = errors.New("saving snapshot file failed")
)

// json mirrors encoding/json behaviour so the file stays readable by any JSON tooling.
var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Logger interface for operational logging, warnings, and error reporting.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Codec round-trips bank.ItemRecords to and from the snapshot file.
type Codec struct {
	path   string
	logger Logger
}

// Option defines a functional option for configuring Codec.
type Option func(*Codec) error

// WithPath overrides the snapshot file location.
func WithPath(path string) Option {
	return func(c *Codec) error {
		if path == "" {
			return ErrEmptyPath
		}

		c.path = path

		return nil
	}
}

// WithLogger sets the logger for the Codec.
//
// Debug level: saved/loaded item counts, absent file
// Warn level: unreadable or corrupt snapshot file.
func WithLogger(logger Logger) Option {
	return func(c *Codec) error {
		c.logger = logger
		return nil
	}
}

// DefaultPath returns <home>/.runelite/ironBankSharingData.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Join(ErrResolvingHomeDirFailed, err)
	}

	return filepath.Join(home, dataDirName, dataFileName), nil
}

// NewCodec creates a new Codec with optional configuration.
// The home directory is only resolved when no WithPath option is given.
func NewCodec(options ...Option) (Codec, error) {
	c := Codec{}

	for _, option := range options {
		if err := option(&c); err != nil {
			return Codec{}, err
		}
	}

	if c.path == "" {
		path, err := DefaultPath()
		if err != nil {
			return Codec{}, err
		}

		c.path = path
	}

	return c, nil
}

// Path returns the snapshot file location.
func (c Codec) Path() string {
	return c.path
}

// Save overwrites the snapshot file with records.
// The file handle is closed on every path, a failing close is reported as a save failure.
func (c Codec) Save(records bank.ItemRecords) (err error) {
	if records == nil {
		records = bank.ItemRecords{}
	}

	if mkdirErr := os.MkdirAll(filepath.Dir(c.path), dirPerm); mkdirErr != nil {
		return errors.Join(ErrSavingSnapshotFailed, mkdirErr)
	}

	file, openErr := os.OpenFile(c.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, filePerm)
	if openErr != nil {
		return errors.Join(ErrSavingSnapshotFailed, openErr)
	}

	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			err = errors.Join(err, ErrSavingSnapshotFailed, closeErr)
		}
	}()

	if encodeErr := json.NewEncoder(file).Encode(records); encodeErr != nil {
		return errors.Join(ErrSavingSnapshotFailed, encodeErr)
	}

	if c.logger != nil {
		c.logger.Debug(logMsgSnapshotSaved, logAttrPath, c.path, logAttrItemCount, len(records))
	}

	return nil
}

// Load reads the snapshot file.
//
// A missing file yields an empty sequence. An unreadable or corrupt file yields an empty
// sequence and a single warning. Load never returns an error to the caller.
func (c Codec) Load() bank.ItemRecords {
	empty := make(bank.ItemRecords, 0)

	data, readErr := os.ReadFile(c.path)
	if readErr != nil {
		if errors.Is(readErr, fs.ErrNotExist) {
			if c.logger != nil {
				c.logger.Debug(logMsgSnapshotNotFound, logAttrPath, c.path)
			}

			return empty
		}

		c.warn(logMsgReadFailed, readErr)

		return empty
	}

	var records bank.ItemRecords
	if decodeErr := json.Unmarshal(data, &records); decodeErr != nil {
		c.warn(logMsgDecodeFailed, decodeErr)

		return empty
	}

	if validateErr := bank.ValidateItemRecords(records); validateErr != nil {
		c.warn(logMsgInvalidRecords, validateErr)

		return empty
	}

	if records == nil {
		records = empty
	}

	if c.logger != nil {
		c.logger.Debug(logMsgSnapshotLoaded, logAttrPath, c.path, logAttrItemCount, len(records))
	}

	return records
}

func (c Codec) warn(msg string, err error) {
	if c.logger != nil {
		c.logger.Warn(msg, logAttrPath, c.path, logAttrError, err.Error())
	}
}
