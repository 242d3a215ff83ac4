package bank

import (
	"errors"
	"fmt"
)

var ErrNegativeItemID = errors.New("item id must not be negative")
var ErrNegativeQuantity = errors.New("item quantity must not be negative")

// ItemRecords is an alias type for a slice of ItemRecord
type ItemRecords = []ItemRecord

// ItemRecord is one occupied bank slot.
//
// The JSON field names are part of the local snapshot file format and the transport envelope,
// fields are keyed by name so that adding fields later does not break old files.
type ItemRecord struct {
	ID       int    `json:"id"`
	Quantity int    `json:"quantity"`
	Name     string `json:"name"`
}

// BuildItemRecord is a factory method for ItemRecord.
//
// Returns an error if id or quantity are negative, negative ids denote empty slots
// and must be filtered out before a record is built.
func BuildItemRecord(id int, quantity int, name string) (ItemRecord, error) {
	if id < 0 {
		return ItemRecord{}, ErrNegativeItemID
	}

	if quantity < 0 {
		return ItemRecord{}, ErrNegativeQuantity
	}

	return ItemRecord{
		ID:       id,
		Quantity: quantity,
		Name:     name,
	}, nil
}

// ValidateItemRecords checks every record against the BuildItemRecord rules.
// The returned error names the position of the first offending record.
func ValidateItemRecords(records ItemRecords) error {
	for i, record := range records {
		if _, err := BuildItemRecord(record.ID, record.Quantity, record.Name); err != nil {
			return errors.Join(err, fmt.Errorf("item record at index %d", i))
		}
	}

	return nil
}
