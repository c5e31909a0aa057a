package portfolio

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestProjectedInvestment_Floors(t *testing.T) {
	testCases := []struct {
		total   float64
		percent Percent
		want    float64
	}{
		{1_000_000, 60, 600_000},
		{1_000_001, 60, 600_000}, // 600000.6 floors
		{999_999, 33, 329_999},   // 329999.67 floors
		{0, 60, 0},
	}
	for _, tc := range testCases {
		got := projectedInvestment(M(tc.total, "TWD"), tc.percent)
		if !got.Equal(M(tc.want, "TWD")) {
			t.Errorf("projectedInvestment(%v, %v) = %s, want %v", tc.total, tc.percent, got, tc.want)
		}
	}
}

func TestValuate_MarketValueAndUnrealized(t *testing.T) {
	s := growthState()
	s = mustApply(t, s, NewBuy(day(2), "", "us", "VOO", Q(10), M(400, "USD"), decimal.NewFromInt(30), M(0, "USD"), M(0, "USD")))

	// Current price 450 USD at a current rate of 32, against an acquisition
	// at 400 USD and rate 30.
	snap := NewPriceSnapshot().
		WithPrice("VOO", M(450, "USD")).
		WithRate("USD", decimal.NewFromInt(32))

	view := new(Valuator).Valuate(s, snap)

	var iv InstrumentValue
	for _, cv := range view.Categories {
		for _, v := range cv.Instruments {
			if v.Symbol == "VOO" {
				iv = v
			}
		}
	}
	if !iv.MarketValueBase.Equal(M(10*450*32, "TWD")) {
		t.Errorf("market value = %s, want %d (current price and current rate)", iv.MarketValueBase, 10*450*32)
	}
	if !iv.CostBase.Equal(M(10*400*30, "TWD")) {
		t.Errorf("cost basis = %s, want %d (acquisition rate)", iv.CostBase, 10*400*30)
	}
	if !iv.UnrealizedPnLBase.Equal(M(144000-120000, "TWD")) {
		t.Errorf("unrealized = %s, want 24000", iv.UnrealizedPnLBase)
	}
}

func TestValuate_RemainingCash(t *testing.T) {
	s := growthState() // growth budget: 60% of 1,000,000 = 600,000
	s = mustApply(t, s, NewBuy(day(2), "", "growth", "2330", Q(100), M(600, "TWD"), one, M(25, "TWD"), M(0, "TWD")))
	s = mustApply(t, s, NewSell(day(3), "", "growth", "2330", Q(40), M(650, "TWD"), one, M(10, "TWD"), M(78, "TWD")))
	s = mustApply(t, s, NewDividend(day(4), "", "growth", "2330", Q(60), M(5, "TWD"), one, M(30, "TWD")))

	view := new(Valuator).Valuate(s, NewPriceSnapshot())

	// 600000 − (60000+25) + (26000−10−78) + (300−30) = 566157
	want := M(566_157, "TWD")
	if got := view.Categories[0].RemainingCash; !got.Equal(want) {
		t.Errorf("remaining cash = %s, want %s", got, want)
	}
}

func TestValuate_OverAllocationFlag(t *testing.T) {
	s := growthState()
	// growth budget is 600,000; invest 650,000 at cost.
	s = mustApply(t, s, NewBuy(day(2), "", "growth", "2330", Q(1000), M(650, "TWD"), one, M(0, "TWD"), M(0, "TWD")))

	view := new(Valuator).Valuate(s, NewPriceSnapshot())

	cv := view.Categories[0]
	if !cv.OverAllocated {
		t.Error("category above budget not flagged as over-allocated")
	}
	if cv.Instruments[0].PortfolioRatio < 100 {
		t.Errorf("ratio = %v, expected above 100", cv.Instruments[0].PortfolioRatio)
	}

	// Flagging is report-only: the buy itself was accepted.
	if len(s.Records) != 1 {
		t.Error("over-allocated buy was rejected")
	}
}

func TestValuate_MemoizesOnVersions(t *testing.T) {
	s := growthState()
	s = mustApply(t, s, NewBuy(day(2), "", "growth", "2330", Q(10), M(600, "TWD"), one, M(0, "TWD"), M(0, "TWD")))
	snap := NewPriceSnapshot().WithPrice("2330", M(620, "TWD"))

	v := new(Valuator)
	first := v.Valuate(s, snap)
	if second := v.Valuate(s, snap); second != first {
		t.Error("same versions recomputed the view")
	}

	s2 := mustApply(t, s, NewAddCapital(day(3), "", KindDeposit, M(1, "TWD")))
	third := v.Valuate(s2, snap)
	if third == first {
		t.Error("state change did not invalidate the memo")
	}

	snap2 := snap.WithPrice("2330", M(640, "TWD"))
	if fourth := v.Valuate(s2, snap2); fourth == third {
		t.Error("price change did not invalidate the memo")
	}
}

func TestValuate_FallsBackToLastRecordedPrice(t *testing.T) {
	s := growthState()
	s = mustApply(t, s, NewBuy(day(2), "", "growth", "2330", Q(10), M(600, "TWD"), one, M(0, "TWD"), M(0, "TWD")))

	// Seed the instrument's stored price and valuate with an empty snapshot.
	ci := s.categoryIndex("growth")
	ii := s.Categories[ci].instrumentIndex("2330")
	s.Categories[ci].Instruments[ii].CurrentPriceNative = M(610, "TWD")

	view := new(Valuator).Valuate(s, NewPriceSnapshot())
	iv := view.Categories[0].Instruments[0]
	if !iv.MarketValueBase.Equal(M(6100, "TWD")) {
		t.Errorf("market value = %s, want 6100 from the stored price", iv.MarketValueBase)
	}
}

func TestRealizedReports(t *testing.T) {
	s := growthState()
	s = mustApply(t, s, NewBuy(day(2), "", "growth", "2330", Q(100), M(10, "TWD"), one, M(0, "TWD"), M(0, "TWD")))
	s = mustApply(t, s, NewSell(day(3), "", "growth", "2330", Q(50), M(14, "TWD"), one, M(0, "TWD"), M(0, "TWD")))
	s = mustApply(t, s, NewDividend(day(4), "", "growth", "2330", Q(50), M(1, "TWD"), one, M(0, "TWD")))

	byMonth := RealizedByMonth(s)
	if len(byMonth) != 1 || byMonth[0].Key != "2025-03" {
		t.Fatalf("unexpected month rows: %v", byMonth)
	}
	// sell: 50·14 − 50·10 = 200; dividend: 50·1 = 50
	if !byMonth[0].Realized.Equal(M(250, "TWD")) {
		t.Errorf("March realized = %s, want 250", byMonth[0].Realized)
	}

	bySector := RealizedBySector(s)
	if len(bySector) != 1 || bySector[0].Key != "Other" {
		t.Fatalf("unexpected sector rows: %v", bySector)
	}
	if !bySector[0].Realized.Equal(M(250, "TWD")) {
		t.Errorf("sector realized = %s, want 250", bySector[0].Realized)
	}
}
