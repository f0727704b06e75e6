package domain

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// DisplayRole maps a provider role onto the role shown in the transcript.
// Gemini calls the assistant "model".
func DisplayRole(providerRole string) Role {
	switch providerRole {
	case "model", "assistant":
		return RoleAssistant
	default:
		return Role(providerRole)
	}
}
