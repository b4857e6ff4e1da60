package domain

const RoleUser = "user"

// ChatMessage is a single role/content pair in a chat-completion request.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the body sent to the chat-completion endpoint. Only one user
// message is ever sent; no history is kept between runs.
type ChatRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
}

// NewUserRequest builds a single-message request for model.
func NewUserRequest(model, content string) ChatRequest {
	return ChatRequest{
		Model:    model,
		Messages: []ChatMessage{{Role: RoleUser, Content: content}},
	}
}
