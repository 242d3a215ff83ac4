package bank

import (
	"errors"
	"time"
)

// ErrEmptyPlayerName is returned when a snapshot is built without an owning player.
var ErrEmptyPlayerName = errors.New("player name must not be empty")

// Snapshot is the ordered bank content of one player captured at one point in time.
type Snapshot struct {
	PlayerName string
	Items      ItemRecords
	TakenAt    time.Time
}

// Validate ensures the snapshot has an owner and only well-formed item records.
func (s Snapshot) Validate() error {
	if s.PlayerName == "" {
		return ErrEmptyPlayerName
	}

	return ValidateItemRecords(s.Items)
}

// ItemCount returns the number of records in the snapshot.
func (s Snapshot) ItemCount() int {
	return len(s.Items)
}

// BuildSnapshot creates a new Snapshot with validation.
// A nil items slice is normalized to an empty one.
func BuildSnapshot(playerName string, items ItemRecords, takenAt time.Time) (Snapshot, error) {
	if items == nil {
		items = ItemRecords{}
	}

	snapshot := Snapshot{
		PlayerName: playerName,
		Items:      items,
		TakenAt:    takenAt,
	}

	if err := snapshot.Validate(); err != nil {
		return Snapshot{}, err
	}

	return snapshot, nil
}
