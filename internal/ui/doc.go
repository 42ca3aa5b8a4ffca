// Package ui provides terminal UI components for lbdash's CLI output and the
// dashboard.
//
// The package includes the server table, load bars, sparklines, spinners and
// number formatting, styled with Lip Gloss.
//
// # Color Scheme
//
// Colors are defined as ANSI codes for broad terminal compatibility:
//
//	ColorSuccess   (green)  - Healthy servers, normal load
//	ColorWarning   (yellow) - Elevated load, warning health
//	ColorError     (red)    - Critical load, unhealthy servers
//	ColorInfo      (cyan)   - Informational messages
//	ColorMuted     (gray)   - Secondary text, timestamps
//	ColorSecondary (blue)   - In-progress indicators
//
// Load colors follow status.LoadBand: above 60% is elevated, above 80% is
// critical. Use DisableColors() or ApplyColorMode() for --no-color and piped
// output.
//
// # Load Bars
//
//	ui.RenderBar(67.5, ui.LoadBarConfig(10))  // ███████░░░ 67.50%
//
// The bar is clamped to 0-100 but the printed number is the raw value.
package ui
