package model

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatTurn is one entry of a chat transcript
type ChatTurn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}
