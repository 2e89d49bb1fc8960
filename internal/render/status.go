package render

// Icons prefixed to status-style events.
const (
	IconSuccess = "☀"
	IconFailure = "🌩"
)

// StatusIcon maps a provider terminal state onto a pictorial prefix. States
// outside the fixed set report false and produce no message.
func StatusIcon(state string) (string, bool) {
	switch state {
	case "success", "ready":
		return IconSuccess, true
	case "failure", "failed", "error", "action_required":
		return IconFailure, true
	default:
		return "", false
	}
}
