package httppublisher

import (
	"errors"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/ironbank-snapshot-go/bank"
)

// ErrMarshalingEnvelopeFailed is returned when the envelope cannot be encoded.
var ErrMarshalingEnvelopeFailed = errors.New("marshaling envelope failed")

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Envelope is the transport object sent to the bank-items endpoint.
type Envelope struct {
	PlayerName string           `json:"player_name"`
	BankItems  bank.ItemRecords `json:"bank_items"`
}

// BuildEnvelope wraps the snapshot's records and owner into an Envelope.
// The records are embedded as they are, nil records become an empty array.
func BuildEnvelope(snapshot bank.Snapshot) Envelope {
	items := snapshot.Items
	if items == nil {
		items = bank.ItemRecords{}
	}

	return Envelope{
		PlayerName: snapshot.PlayerName,
		BankItems:  items,
	}
}

// Marshal encodes the envelope as JSON.
func (e Envelope) Marshal() ([]byte, error) {
	if e.BankItems == nil {
		e.BankItems = bank.ItemRecords{}
	}

	body, err := json.Marshal(e)
	if err != nil {
		return nil, errors.Join(ErrMarshalingEnvelopeFailed, err)
	}

	return body, nil
}

// UnmarshalEnvelope decodes an Envelope from JSON.
func UnmarshalEnvelope(data []byte) (Envelope, error) {
	var envelope Envelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return Envelope{}, err
	}

	if envelope.BankItems == nil {
		envelope.BankItems = bank.ItemRecords{}
	}

	return envelope, nil
}
