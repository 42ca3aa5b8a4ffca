package ui

// Unicode symbols for status indicators.
const (
	SymbolSuccess = "✓" // Healthy server, completed action
	SymbolFail    = "✗" // Unhealthy server, failed action
)
