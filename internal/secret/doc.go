// Package secret derives per-recipient webhook secrets from a process-wide base secret.
//
// No secret table is stored. The secret for a recipient is recomputed on demand:
//
//	secret = hex(HMAC-SHA1(key = recipient, message = base))
//
// The same derivation feeds both the instruction message shown to a chat user and
// the signature check performed on inbound webhooks, so a user who pastes the shown
// value into a provider's webhook settings produces signatures the server accepts.
package secret
