// Package chat answers bot commands. A user sends /webhook in a chat and gets
// back the URL and secret to paste into a provider's webhook settings.
//
// The Router is transport-neutral and talks to the chat through a Replier.
// TelegramBot adapts telego updates onto the Router and doubles as the
// notify.Transport for outbound messages.
package chat
