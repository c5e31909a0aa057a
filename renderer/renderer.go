// Package renderer converts derived portfolio views into markdown for
// terminal display. It is strictly presentational: nothing here feeds back
// into the ledger.
package renderer

import (
	"fmt"
	"strings"

	portfolio "github.com/MINGYU-1120/Libao-Finance-Portfolio-Manager-sub001"
)

// table accumulates markdown table rows with a fixed header.
type table struct {
	sb strings.Builder
}

func newTable(headers ...string) *table {
	t := &table{}
	t.row(headers...)
	sep := make([]string, len(headers))
	for i := range sep {
		sep[i] = "---"
	}
	t.row(sep...)
	return t
}

func (t *table) row(cells ...string) {
	t.sb.WriteString("| ")
	t.sb.WriteString(strings.Join(cells, " | "))
	t.sb.WriteString(" |\n")
}

func (t *table) String() string { return t.sb.String() }

// Record renders a single transaction record to a one-line description.
func Record(r portfolio.TransactionRecord) string {
	switch r.Kind {
	case portfolio.KindBuy:
		return fmt.Sprintf("Bought %s of %s at %s", r.Shares, r.Symbol, r.PriceNative)
	case portfolio.KindSell:
		return fmt.Sprintf("Sold %s of %s at %s, realized %s", r.Shares, r.Symbol, r.PriceNative, r.RealizedPnLBase.SignedString())
	case portfolio.KindDividend:
		return fmt.Sprintf("Dividend of %s per share on %s", r.PriceNative, r.Symbol)
	default:
		return string(r.Kind)
	}
}

// Records renders the transaction ledger as a markdown table, newest last.
func Records(records []portfolio.TransactionRecord) string {
	t := newTable("Time", "Kind", "Category", "Symbol", "Shares", "Price", "Gross", "Realized", "Id")
	for _, r := range records {
		t.row(
			r.Time.Format("2006-01-02 15:04"),
			string(r.Kind),
			r.CategoryID,
			r.Symbol,
			r.Shares.String(),
			r.PriceNative.String(),
			r.GrossAmountBase.String(),
			r.RealizedPnLBase.SignedString(),
			r.ID,
		)
	}
	return "# Transactions\n\n" + t.String()
}

// Summary renders the full calculated view as markdown.
func Summary(view *portfolio.CalculatedView) string {
	var sb strings.Builder
	sb.WriteString("# Portfolio Summary\n\n")
	fmt.Fprintf(&sb, "Total capital %s, market value %s, unrealized %s, realized %s\n\n",
		view.TotalCapital, view.TotalMarketValue,
		view.TotalUnrealized.SignedString(), view.TotalRealized.SignedString())

	for _, cv := range view.Categories {
		fmt.Fprintf(&sb, "## %s (%s of capital)\n\n", cv.Name, cv.AllocationPercent)
		fmt.Fprintf(&sb, "Budget %s, invested %s, cash %s\n", cv.ProjectedInvestment, cv.InvestedAmount, cv.RemainingCash)
		if cv.OverAllocated {
			sb.WriteString("\n**Over-allocated**: holdings exceed this category's budget.\n")
		}
		sb.WriteString("\n")

		if len(cv.Instruments) == 0 {
			sb.WriteString("No holdings.\n\n")
			continue
		}
		t := newTable("Symbol", "Shares", "Avg Cost", "Cost", "Market", "Unrealized", "Ratio")
		for _, iv := range cv.Instruments {
			t.row(
				iv.Symbol,
				iv.Shares.String(),
				iv.AvgCostBase.String(),
				iv.CostBase.String(),
				iv.MarketValueBase.String(),
				iv.UnrealizedPnLBase.SignedString(),
				iv.PortfolioRatio.String(),
			)
		}
		sb.WriteString(t.String())
		sb.WriteString("\n")
	}
	return sb.String()
}

// RealizedRows renders an aggregate realized-P&L report as a markdown table.
func RealizedRows(title string, rows []portfolio.RealizedPnL) string {
	t := newTable(title, "Realized")
	for _, row := range rows {
		t.row(row.Key, row.Realized.SignedString())
	}
	return fmt.Sprintf("# Realized P&L by %s\n\n%s", strings.ToLower(title), t.String())
}
