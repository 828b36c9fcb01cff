package types

// QuizItem is one generated question. An item without options is a sentinel
// carrying an error message in Prompt.
type QuizItem struct {
	Prompt        string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"answer"`
}

func (q QuizItem) IsSentinel() bool { return len(q.Options) == 0 }

// HasOption reports whether option is one of the item's choices.
func (q QuizItem) HasOption(option string) bool {
	for _, o := range q.Options {
		if o == option {
			return true
		}
	}
	return false
}

type QuizGenerateRequest struct {
	FilePath string `json:"file_path"`
	FileName string `json:"file_name"`
}
