package filecodec_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/ironbank-snapshot-go/bank"
	. "github.com/AntonStoeckl/ironbank-snapshot-go/bank/filecodec"
	"github.com/AntonStoeckl/ironbank-snapshot-go/testutil/helper"
)

func Test_SaveAndLoad_RoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		records bank.ItemRecords
	}{
		{name: "empty sequence", records: bank.ItemRecords{}},
		{name: "single record", records: bank.ItemRecords{{ID: 995, Quantity: 1000000, Name: "Coins"}}},
		{name: "record with empty name", records: bank.ItemRecords{{ID: 0, Quantity: 0, Name: ""}}},
		{name: "60 records with duplicate ids", records: helper.GivenItemRecords(60)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// setup
			codec, err := NewCodec(WithPath(helper.GivenSnapshotPath(t)))
			require.NoError(t, err)

			// act
			saveErr := codec.Save(tt.records)
			loaded := codec.Load()

			// assert
			assert.NoError(t, saveErr)
			assert.Equal(t, tt.records, loaded)
		})
	}
}

func Test_Save_NilRecords_WritesEmptyArray(t *testing.T) {
	// setup
	path := helper.GivenSnapshotPath(t)
	codec, err := NewCodec(WithPath(path))
	require.NoError(t, err)

	// act
	saveErr := codec.Save(nil)

	// assert
	assert.NoError(t, saveErr)
	data, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.JSONEq(t, `[]`, string(data))
}

func Test_Save_WritesFieldTaggedJSON(t *testing.T) {
	// setup
	path := helper.GivenSnapshotPath(t)
	codec, err := NewCodec(WithPath(path))
	require.NoError(t, err)

	// act
	saveErr := codec.Save(bank.ItemRecords{{ID: 10, Quantity: 3, Name: "Coins"}})

	// assert
	assert.NoError(t, saveErr)
	data, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.JSONEq(t, `[{"id":10,"quantity":3,"name":"Coins"}]`, string(data))
}

func Test_Save_OverwritesPreviousSnapshot(t *testing.T) {
	// setup
	codec, err := NewCodec(WithPath(helper.GivenSnapshotPath(t)))
	require.NoError(t, err)
	require.NoError(t, codec.Save(helper.GivenItemRecords(20)))

	// act
	saveErr := codec.Save(bank.ItemRecords{{ID: 1, Quantity: 2, Name: "Toolkit"}})

	// assert
	assert.NoError(t, saveErr)
	assert.Equal(t, bank.ItemRecords{{ID: 1, Quantity: 2, Name: "Toolkit"}}, codec.Load())
}

func Test_Save_When_DirectoryCannotBeCreated(t *testing.T) {
	// setup
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))
	codec, err := NewCodec(WithPath(filepath.Join(blocker, "ironBankSharingData.json")))
	require.NoError(t, err)

	// act
	saveErr := codec.Save(helper.GivenItemRecords(1))

	// assert
	assert.ErrorIs(t, saveErr, ErrSavingSnapshotFailed)
}

func Test_Load_When_FileDoesNotExist(t *testing.T) {
	// setup
	logger, spy := helper.NewSpyLogger()
	codec, err := NewCodec(WithPath(helper.GivenSnapshotPath(t)), WithLogger(logger))
	require.NoError(t, err)

	// act
	records := codec.Load()

	// assert
	assert.NotNil(t, records)
	assert.Empty(t, records)
	assert.Zero(t, spy.CountLevel(slog.LevelWarn), "absence of the file is not a warning")
}

func Test_Load_When_FileIsMalformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "truncated array", content: `[{"id":10,"quantity":3,`},
		{name: "object instead of array", content: `{"id":10}`},
		{name: "wrong field type", content: `[{"id":"ten","quantity":3,"name":"Coins"}]`},
		{name: "garbage", content: `not json at all`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// setup
			path := helper.GivenSnapshotPath(t)
			require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))
			logger, spy := helper.NewSpyLogger()
			codec, err := NewCodec(WithPath(path), WithLogger(logger))
			require.NoError(t, err)

			// act
			records := codec.Load()

			// assert
			assert.NotNil(t, records)
			assert.Empty(t, records)
			assert.Equal(t, 1, spy.GetRecordCount(), "exactly one diagnostic must be emitted")
			assert.True(t, spy.HasWarnLog("failed to decode bank snapshot file"))
		})
	}
}

func Test_Load_When_RecordsAreInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "negative id and quantity", content: `[{"id":-1,"quantity":-5,"name":"x"}]`},
		{name: "negative id after a valid record", content: `[{"id":995,"quantity":1,"name":"Coins"},{"id":-1,"quantity":0}]`},
		{name: "negative quantity", content: `[{"id":4151,"quantity":-1,"name":"Abyssal whip"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// setup
			path := helper.GivenSnapshotPath(t)
			require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))
			logger, spy := helper.NewSpyLogger()
			codec, err := NewCodec(WithPath(path), WithLogger(logger))
			require.NoError(t, err)

			// act
			records := codec.Load()

			// assert
			assert.NotNil(t, records)
			assert.Empty(t, records)
			assert.Equal(t, 1, spy.GetRecordCount(), "exactly one diagnostic must be emitted")
			assert.True(t, spy.HasWarnLog("bank snapshot file contains invalid item records"))
		})
	}
}

func Test_Load_When_PathIsADirectory(t *testing.T) {
	// setup
	logger, spy := helper.NewSpyLogger()
	codec, err := NewCodec(WithPath(t.TempDir()), WithLogger(logger))
	require.NoError(t, err)

	// act
	records := codec.Load()

	// assert
	assert.Empty(t, records)
	assert.Equal(t, 1, spy.CountLevel(slog.LevelWarn))
	assert.True(t, spy.HasWarnLog("failed to read bank snapshot file"))
}

func Test_Load_IgnoresUnknownFields(t *testing.T) {
	// setup
	path := helper.GivenSnapshotPath(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	content := `[{"id":4151,"quantity":1,"name":"Abyssal whip","description":"A weapon from the abyss."}]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	codec, err := NewCodec(WithPath(path))
	require.NoError(t, err)

	// act
	records := codec.Load()

	// assert
	assert.Equal(t, bank.ItemRecords{{ID: 4151, Quantity: 1, Name: "Abyssal whip"}}, records)
}

func Test_Load_When_NameIsAbsent(t *testing.T) {
	// setup
	path := helper.GivenSnapshotPath(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":995,"quantity":12}]`), 0o600))
	codec, err := NewCodec(WithPath(path))
	require.NoError(t, err)

	// act
	records := codec.Load()

	// assert
	assert.Equal(t, bank.ItemRecords{{ID: 995, Quantity: 12}}, records)
}

func Test_DefaultPath(t *testing.T) {
	// setup
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	// act
	path, err := DefaultPath()
	codec, codecErr := NewCodec()

	// assert
	assert.NoError(t, err)
	assert.NoError(t, codecErr)
	assert.Equal(t, filepath.Join(home, ".runelite", "ironBankSharingData.json"), path)
	assert.Equal(t, path, codec.Path())
}

func Test_WithPath_Empty(t *testing.T) {
	_, err := NewCodec(WithPath(""))

	assert.ErrorIs(t, err, ErrEmptyPath)
}
