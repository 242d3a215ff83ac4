package bank

import (
	"errors"
)

var ErrNilWidgetSource = errors.New("nil widget source supplied")
var ErrNilNameResolver = errors.New("nil name resolver supplied")

const (
	// BankGroupID is the widget group id of the bank interface.
	BankGroupID = 12

	// BankItemContainerID is the packed widget id (group << 16 | child) of the bank item container.
	BankItemContainerID = BankGroupID<<16 | 13
)
