package portfolio

import (
	"slices"
)

// Aggregate P&L reports. These group realized-P&L-bearing records for display
// and never feed back into the ledger.

// RealizedPnL is one row of an aggregate realized-P&L report.
type RealizedPnL struct {
	Key      string // sector name or YYYY-MM month
	Realized Money
}

// RealizedBySector groups realized P&L from sells and dividends by the
// instrument's sector. Records whose instrument is no longer held (or that
// never declared a sector) fall under "Other". Rows are sorted by key.
func RealizedBySector(s State) []RealizedPnL {
	sectors := make(map[string]string) // symbol -> sector
	for _, cat := range s.Categories {
		for _, ins := range cat.Instruments {
			if ins.Sector != "" {
				sectors[ins.Symbol] = ins.Sector
			}
		}
	}

	groups := make(map[string]Money)
	for _, r := range s.Records {
		if r.Kind == KindBuy {
			continue
		}
		sector, ok := sectors[r.Symbol]
		if !ok {
			sector = "Other"
		}
		groups[sector] = groups[sector].Add(r.RealizedPnLBase)
	}
	return sortedRows(groups)
}

// RealizedByMonth groups realized P&L from sells and dividends by calendar
// month (YYYY-MM). Rows are sorted chronologically.
func RealizedByMonth(s State) []RealizedPnL {
	groups := make(map[string]Money)
	for _, r := range s.Records {
		if r.Kind == KindBuy {
			continue
		}
		month := r.Time.UTC().Format("2006-01")
		groups[month] = groups[month].Add(r.RealizedPnLBase)
	}
	return sortedRows(groups)
}

func sortedRows(groups map[string]Money) []RealizedPnL {
	rows := make([]RealizedPnL, 0, len(groups))
	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		rows = append(rows, RealizedPnL{Key: key, Realized: groups[key].Round()})
	}
	return rows
}
