// Package catalog holds the static table of known battery-reporting
// HID devices.
//
// The table is compiled in and never mutated at runtime. Matching a
// bus device against the table requires every descriptor field to
// agree, not just the product ID, because wireless mice expose several
// logical endpoints under one product ID and only the control endpoint
// answers battery queries.
package catalog
