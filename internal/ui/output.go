package ui

import "fmt"

// Status symbols.
const (
	SymbolSuccess = "✓"
	SymbolError   = "✗"
	SymbolWarning = "⚠"
)

func withSymbol(symbol, msg string) string {
	return symbol + " " + msg
}

// Successf formats a message prefixed with a checkmark.
func Successf(format string, args ...any) string {
	return withSymbol(SymbolSuccess, fmt.Sprintf(format, args...))
}

// Errorf formats a message prefixed with a cross.
func Errorf(format string, args ...any) string {
	return withSymbol(SymbolError, fmt.Sprintf(format, args...))
}

// Warning prefixes msg with the warning symbol.
func Warning(msg string) string {
	return withSymbol(SymbolWarning, msg)
}

// Warningf is Warning with formatting.
func Warningf(format string, args ...any) string {
	return Warning(fmt.Sprintf(format, args...))
}

// Header renders a bold section header.
func Header(msg string) string {
	return Bold.Render(msg)
}

// DatasetID renders a dataset id in the accent color.
func DatasetID(id string) string {
	return Accent.Render(id)
}

// Hint renders muted secondary text.
func Hint(msg string) string {
	return Muted.Render(msg)
}

// Count renders a badge such as "(3 datasets)".
func Count(n int, singular, plural string) string {
	noun := plural
	if n == 1 {
		noun = singular
	}
	return fmt.Sprintf("(%d %s)", n, noun)
}

// Verdict is a checkmark for true and a cross for false.
func Verdict(ok bool) string {
	if ok {
		return SymbolSuccess
	}
	return SymbolError
}
