package portfolio

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

func lotAt(t *testing.T, day int, shares int, price float64) Lot {
	t.Helper()
	return Lot{
		ID:                  newID(),
		AcquisitionTime:     time.Date(2025, 1, day, 0, 0, 0, 0, time.UTC),
		Shares:              Q(shares),
		CostPerShareNative:  M(price, "TWD"),
		FXRateAtAcquisition: one,
	}
}

func TestLots_ConsumeFIFO(t *testing.T) {
	held := lots{
		lotAt(t, 1, 100, 10),
		lotAt(t, 2, 100, 20),
	}

	testCases := []struct {
		name          string
		sell          int
		wantCost      float64
		wantLots      int
		wantRemaining float64
	}{
		{name: "partial oldest lot", sell: 50, wantCost: 500, wantLots: 2, wantRemaining: 150},
		{name: "exactly the oldest lot", sell: 100, wantCost: 1000, wantLots: 1, wantRemaining: 100},
		{name: "across lots", sell: 150, wantCost: 100*10 + 50*20, wantLots: 1, wantRemaining: 50},
		{name: "everything", sell: 200, wantCost: 3000, wantLots: 0, wantRemaining: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			remaining, cost := held.consume(Q(tc.sell), "TWD")
			if !cost.Equal(M(tc.wantCost, "TWD")) {
				t.Errorf("consume(%d) cost = %s, want %v", tc.sell, cost, tc.wantCost)
			}
			if len(remaining) != tc.wantLots {
				t.Fatalf("consume(%d) left %d lots, want %d", tc.sell, len(remaining), tc.wantLots)
			}
			if !remaining.totalShares().Equal(Q(tc.wantRemaining)) {
				t.Errorf("consume(%d) remaining shares = %s, want %v", tc.sell, remaining.totalShares(), tc.wantRemaining)
			}
		})
	}
}

func TestLots_ConsumeNeverMutatesInput(t *testing.T) {
	held := lots{lotAt(t, 1, 100, 10), lotAt(t, 2, 100, 20)}

	held.consume(Q(150), "TWD")

	if !held[0].Shares.Equal(Q(100)) || !held[1].Shares.Equal(Q(100)) {
		t.Errorf("consume mutated its input: %s and %s shares", held[0].Shares, held[1].Shares)
	}
}

func TestLots_ConsumePartialKeepsUnitCost(t *testing.T) {
	held := lots{lotAt(t, 1, 100, 10), lotAt(t, 2, 100, 20)}

	remaining, _ := held.consume(Q(150), "TWD")

	// The surviving half-lot keeps its original per-share cost.
	if !remaining[0].CostPerShareNative.Equal(M(20, "TWD")) {
		t.Errorf("remaining lot cost per share = %s, want 20", remaining[0].CostPerShareNative)
	}
	if !remaining[0].CostBase("TWD").Equal(M(1000, "TWD")) {
		t.Errorf("remaining lot cost basis = %s, want 1000", remaining[0].CostBase("TWD"))
	}
}

func TestLots_InsertSorted(t *testing.T) {
	held := lots{lotAt(t, 1, 10, 10), lotAt(t, 10, 10, 10)}

	held = held.insertSorted(lotAt(t, 5, 10, 10))

	for i := 1; i < len(held); i++ {
		if held[i].AcquisitionTime.Before(held[i-1].AcquisitionTime) {
			t.Fatalf("lots out of order at %d: %v before %v", i, held[i].AcquisitionTime, held[i-1].AcquisitionTime)
		}
	}
	if len(held) != 3 {
		t.Fatalf("got %d lots, want 3", len(held))
	}
}

func TestLots_RemoveByID(t *testing.T) {
	a, b := lotAt(t, 1, 10, 10), lotAt(t, 2, 20, 20)
	held := lots{a, b}

	rest, removed, found := held.removeByID(b.ID)
	if !found {
		t.Fatal("lot not found")
	}
	if removed.ID != b.ID {
		t.Errorf("removed lot %s, want %s", removed.ID, b.ID)
	}
	if len(rest) != 1 || rest[0].ID != a.ID {
		t.Errorf("unexpected remaining lots: %v", rest)
	}

	if _, _, found := held.removeByID("nope"); found {
		t.Error("removeByID found a lot that does not exist")
	}
}

func TestLot_CostBaseUsesAcquisitionRate(t *testing.T) {
	l := Lot{
		Shares:              Q(10),
		CostPerShareNative:  M(100, "USD"),
		FXRateAtAcquisition: decimal.NewFromFloat(32.5),
	}
	if got := l.CostBase("TWD"); !got.Equal(M(32500, "TWD")) {
		t.Errorf("CostBase = %s, want 32500 TWD", got)
	}
}
