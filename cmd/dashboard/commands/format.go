package commands

import (
	"fmt"
	"strconv"

	"github.com/lucasrodor/projeto-financeiro/internal/contracts"
	"github.com/lucasrodor/projeto-financeiro/internal/dashboard"
)

// ═══════════════════════════════════════════════════════════
// Common Formatting Utilities
// todas as saídas de terminal usam o mesmo formato
// ═══════════════════════════════════════════════════════════

// PrintHeader prints a formatted command header
func PrintHeader(title string, fields [][2]string) {
	fmt.Println()
	PrintDoubleSeparator()
	fmt.Printf("  %s\n", title)
	PrintSeparator()
	for _, f := range fields {
		fmt.Printf("  %-14s: %s\n", f[0], f[1])
	}
	PrintSeparator()
}

// PrintProgress prints a progress step with counter
// Example: [Preços] PETR4 [1/10]
func PrintProgress(tag string, message string, current int, total int) {
	fmt.Printf("[%s] %s [%d/%d]\n", tag, message, current, total)
}

// PrintSeparator prints a visual separator
func PrintSeparator() {
	fmt.Println("───────────────────────────────────────────────────────────")
}

// PrintDoubleSeparator prints a double-line separator
func PrintDoubleSeparator() {
	fmt.Println("═══════════════════════════════════════════════════════════")
}

// PrintWarning prints a warning message
func PrintWarning(message string) {
	fmt.Println()
	fmt.Printf("⚠️  %s\n", message)
	fmt.Println()
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	fmt.Printf("✅ %s\n", message)
}

// PrintError prints an error message
func PrintError(message string) {
	fmt.Printf("❌ %s\n", message)
}

// PrintActionError prints the user message of an action error by its kind
// and returns err so RunE exits non-zero
func PrintActionError(err error) error {
	if dashboard.Classify(err) == dashboard.KindWarning {
		PrintWarning(dashboard.Message(err))
	} else {
		PrintError(dashboard.Message(err))
	}
	return err
}

// PrintTableHeader prints a table header
func PrintTableHeader(columns []string, widths []int) {
	for i, col := range columns {
		fmt.Printf("%-*s", widths[i], col)
		if i < len(columns)-1 {
			fmt.Print("  ")
		}
	}
	fmt.Println()

	// Separator line
	totalWidth := 0
	for i, width := range widths {
		totalWidth += width
		if i < len(widths)-1 {
			totalWidth += 2 // spacing
		}
	}
	for i := 0; i < totalWidth; i++ {
		fmt.Print("─")
	}
	fmt.Println()
}

// PrintTableRow prints a table row
func PrintTableRow(values []string, widths []int) {
	for i, val := range values {
		fmt.Printf("%-*s", widths[i], val)
		if i < len(values)-1 {
			fmt.Print("  ")
		}
	}
	fmt.Println()
}

// PrintList prints a bulleted list
func PrintList(items []string) {
	for _, item := range items {
		fmt.Printf("   • %s\n", item)
	}
}

// PrintKeyValue prints key-value pairs
func PrintKeyValue(key string, value string, keyWidth int) {
	fmt.Printf("   %-*s : %s\n", keyWidth, key, value)
}

// FormatNumber renders a metric, "-" for missing values
func FormatNumber(n contracts.Number) string {
	if n.IsNaN() {
		return "-"
	}
	return strconv.FormatFloat(n.Float(), 'f', 4, 64)
}

// FormatPercent renders a fraction as a percentage
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.2f%%", f*100)
}
