package selection

import (
	"sort"
	"strings"

	"github.com/lucasrodor/projeto-financeiro/internal/contracts"
)

// Deduplicate keeps one row per base ticker: the one with the highest volume.
// ⭐ SSOT: regra de uma classe de ação por empresa só aqui
//
// Rows are stable-sorted by volume descending first, so ties keep input order
// and the output is volume-descending. Missing volume sorts last.
func Deduplicate(rows []contracts.StockRow) []contracts.StockRow {
	if len(rows) == 0 {
		return []contracts.StockRow{}
	}

	sorted := make([]contracts.StockRow, len(rows))
	copy(sorted, rows)

	sort.SliceStable(sorted, func(i, j int) bool {
		return greaterNaNLast(sorted[i].Volume, sorted[j].Volume)
	})

	seen := make(map[string]struct{}, len(sorted))
	result := make([]contracts.StockRow, 0, len(sorted))
	for _, row := range sorted {
		base := row.BaseTicker()
		if _, dup := seen[base]; dup {
			continue
		}
		seen[base] = struct{}{}
		result = append(result, row)
	}

	return result
}

// FilterSectors keeps rows whose sector is in the allow-set.
// An empty allow-set keeps every row.
func FilterSectors(rows []contracts.StockRow, sectors []string) []contracts.StockRow {
	if len(sectors) == 0 {
		return rows
	}

	allowed := make(map[string]struct{}, len(sectors))
	for _, s := range sectors {
		allowed[normalizeSector(s)] = struct{}{}
	}

	result := make([]contracts.StockRow, 0, len(rows))
	for _, row := range rows {
		if _, ok := allowed[normalizeSector(row.Sector)]; ok {
			result = append(result, row)
		}
	}
	return result
}

func normalizeSector(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// greaterNaNLast orders a before b when a > b; NaN goes after any number
func greaterNaNLast(a, b contracts.Number) bool {
	if a.IsNaN() {
		return false
	}
	if b.IsNaN() {
		return true
	}
	return a > b
}
