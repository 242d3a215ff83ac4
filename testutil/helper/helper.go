package helper

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/AntonStoeckl/ironbank-snapshot-go/bank"
)

// FakeContainer is a bank.Container with fixed children.
type FakeContainer struct {
	Slots []bank.Slot
}

// Children implements bank.Container.
func (c FakeContainer) Children() []bank.Slot {
	return c.Slots
}

// FakeWidgetSource is a bank.WidgetSource serving a map of containers.
// A nil map or a missing key behaves like a closed interface.
type FakeWidgetSource struct {
	Containers map[int]bank.Container
}

// GivenOpenBank returns a FakeWidgetSource with the bank item container showing the given slots.
func GivenOpenBank(slots ...bank.Slot) FakeWidgetSource {
	return FakeWidgetSource{
		Containers: map[int]bank.Container{
			bank.BankItemContainerID: FakeContainer{Slots: slots},
		},
	}
}

// GivenClosedBank returns a FakeWidgetSource without any rendered container.
func GivenClosedBank() FakeWidgetSource {
	return FakeWidgetSource{}
}

// Container implements bank.WidgetSource.
func (s FakeWidgetSource) Container(containerID int) (bank.Container, bool) {
	container, ok := s.Containers[containerID]

	return container, ok
}

// Slot builds a bank.Slot whose slot id equals its item id, as used by most fixtures.
func Slot(itemID int, quantity int) bank.Slot {
	return bank.Slot{ID: itemID, ItemID: itemID, Quantity: quantity}
}

// FixtureNames is a small name table for fixtures.
func FixtureNames() bank.StaticNameResolver {
	return bank.StaticNameResolver{
		10:   "Coins",
		20:   "Rune scimitar",
		995:  "Coins",
		4151: "Abyssal whip",
	}
}

// RecordingNameResolver wraps a bank.NameResolver and records the ids it was asked for.
type RecordingNameResolver struct {
	Resolver bank.NameResolver

	mu  sync.Mutex
	ids []int
}

// ResolveName implements bank.NameResolver.
func (r *RecordingNameResolver) ResolveName(ctx context.Context, itemID int) (string, error) {
	r.mu.Lock()
	r.ids = append(r.ids, itemID)
	r.mu.Unlock()

	return r.Resolver.ResolveName(ctx, itemID)
}

// ResolvedIDs returns a copy of the ids passed to ResolveName so far.
func (r *RecordingNameResolver) ResolvedIDs() []int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]int(nil), r.ids...)
}

// GivenItemRecords builds count records cycling over a handful of item ids so that ids repeat.
func GivenItemRecords(count int) bank.ItemRecords {
	ids := []int{995, 4151, 561, 995, 1513, 4151, 0}
	records := make(bank.ItemRecords, 0, count)

	for i := 0; i < count; i++ {
		id := ids[i%len(ids)]
		records = append(records, bank.ItemRecord{
			ID:       id,
			Quantity: i * 7,
			Name:     fmt.Sprintf("Item %d #%d", id, i),
		})
	}

	return records
}

// GivenSnapshotPath returns a snapshot file path inside a per-test temporary directory.
func GivenSnapshotPath(t testing.TB) string {
	return filepath.Join(t.TempDir(), ".runelite", "ironBankSharingData.json")
}
