// Package webhook is the HTTP front of hookbot: it receives provider webhooks,
// verifies them, and forwards the rendered message to the chat named in the
// URL.
//
// # Routes
//
//	POST /webhooks/{provider}/{recipient}   provider delivery
//	POST /bot                               Telegram bot updates (optional)
//	GET  /healthz                           liveness
//
// The recipient segment is a chat identifier, path-escaped. Each provider
// derives its shared secret from the recipient, so a URL handed to one chat
// cannot be replayed against another.
//
// # Request Flow
//
//  1. Recipient taken from the path (400 if missing)
//  2. Provider looked up by name, case-insensitive (404 if unknown)
//  3. Body size checked (413 if too large)
//  4. Provider-specific verification (400 if it fails, nothing rendered)
//  5. Event kind resolved and rendered; unknown kinds render nothing
//  6. Message sent through the configured transport
//  7. 200 "Ok" returned
//
// Steps 5 and 6 never change the response. A payload that fails to decode, an
// event with no renderer and a failed delivery are all logged and answered
// with 200.
//
// # Error Responses
//
// All bodies are JSON strings and never carry details:
//
//   - 400 "Bad Request": missing recipient or failed verification
//   - 404 "Not Found": unknown provider or path
//   - 413 "Payload Too Large": body exceeds max_body_size
//
// # Example Usage
//
//	srv := webhook.New(webhook.Config{Listen: "0.0.0.0:8080"}, registry, notifier, bot, logger)
//	if err := srv.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
//		log.Fatal(err)
//	}
package webhook
