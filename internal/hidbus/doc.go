// Package hidbus provides access to USB HID peripherals through the
// platform hidapi library, plus a controller that speaks the Razer
// feature-report protocol for battery queries.
//
// The package exposes two seams for the monitor layer: Bus, which
// enumerates attached HID interfaces and opens device handles, and
// Controller, which answers battery and charging queries for a single
// opened device. Production code uses the hidapi-backed implementations
// via OpenBus; tests substitute fakes.
//
// Hardware quirks handled here:
//
//   - Linux hidraw does not expose usage page metadata, so enumeration
//     marks usage fields as unreliable and the catalog match relaxes
//     accordingly.
//   - Wireless dongles answer with stale frames when polled too fast;
//     a short delay separates each command from its response read.
package hidbus
