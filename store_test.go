package portfolio

import (
	"path/filepath"
	"testing"
	"time"
)

func TestStore_SaveFlushLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portfolio.json")
	st := NewStore(path)

	s := growthState()
	s = mustApply(t, s, NewBuy(day(2), "", "growth", "2330", Q(10), M(600, "TWD"), one, M(0, "TWD"), M(0, "TWD")))

	st.Save(s)
	if err := st.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	got, err := st.Load("TWD")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got.Records) != 1 {
		t.Errorf("got %d records, want 1", len(got.Records))
	}
	if !instrumentIn(t, got, "growth", "2330").Shares.Equal(Q(10)) {
		t.Error("loaded state lost the position")
	}
}

func TestStore_LoadMissingFileIsEmptyState(t *testing.T) {
	st := NewStore(filepath.Join(t.TempDir(), "absent.json"))

	got, err := st.Load("TWD")
	if err != nil {
		t.Fatalf("Load of a missing file failed: %v", err)
	}
	if got.BaseCurrency != "TWD" || len(got.Records) != 0 {
		t.Errorf("expected an empty TWD state, got %+v", got)
	}
}

func TestStore_SaveCoalescesWithinDebounce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portfolio.json")
	st := NewStore(path)
	st.Debounce = time.Hour // never fires during the test

	s := growthState()
	st.Save(s)
	s2 := mustApply(t, s, NewAddCapital(day(2), "", KindDeposit, M(5, "TWD")))
	st.Save(s2)

	if err := st.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	got, err := st.Load("TWD")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	// Only the latest state survives the window.
	if !got.TotalCapital().Equal(s2.TotalCapital()) {
		t.Errorf("total capital = %s, want %s", got.TotalCapital(), s2.TotalCapital())
	}

	// A second flush with nothing pending is a no-op.
	if err := st.Flush(); err != nil {
		t.Fatalf("idle Flush failed: %v", err)
	}
}

func TestResolve_LastWriteWins(t *testing.T) {
	older := NewState("TWD")
	older.LastModified = day(1)
	newer := NewState("TWD")
	newer.LastModified = day(2)

	if got := Resolve(older, newer); !got.LastModified.Equal(day(2)) {
		t.Error("remote newer state should win")
	}
	if got := Resolve(newer, older); !got.LastModified.Equal(day(2)) {
		t.Error("local newer state should win")
	}
	// Ties keep the local state wholesale.
	if got := Resolve(newer, newer); !got.LastModified.Equal(day(2)) {
		t.Error("tie should keep local")
	}
}
