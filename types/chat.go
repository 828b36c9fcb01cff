package types

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of a document chat transcript.
type Message struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

type DocumentChatRequest struct {
	DocumentID string `json:"document_id"`
	Question   string `json:"question"`
}

type DocumentChatResponse struct {
	Answer string `json:"answer"`
}
