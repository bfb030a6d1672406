// Package ui manages terminal color themes shared by the CLI and the TUI
// dashboard. It honors the NO_COLOR convention (https://no-color.org/).
package ui
