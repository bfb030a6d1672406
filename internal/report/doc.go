// Package report turns accumulation records and fit results into their
// on-disk representations, and implements the holdings-comparison report.
//
// Naming follows the cli conventions: Write* functions create files,
// Read* functions parse them, and plain functions are pure.
package report
