// Package provider defines the contract every webhook source implements and the
// registry the dispatcher resolves them from.
//
// A Provider is stateless. It verifies inbound payloads against the secret derived
// for the recipient, names the event kind carried by a request, and exposes a static
// table of Handlers keyed by that kind. Handlers are pure: they decode a payload and
// return the message to deliver, or report that the event produces nothing.
//
// # Unknown events
//
// Providers send many kinds the relay does not model. Dispatch treats an unknown
// kind, or a handler reporting ok=false, as a silent no-op rather than an error.
package provider
