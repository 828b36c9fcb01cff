package config

// History configuration
const (
	DefaultHistoryLimit = 200
	// question prefix kept in a document chat history title
	ChatTitleRunes = 40
)

// Activity types constants
const (
	ActivityTypeDocumentChat = "document_chat"
	ActivityTypeCodeAnalysis = "code_analysis"
	ActivityTypeVideo        = "video_analysis"
	ActivityTypeQuiz         = "quiz_generated"
	ActivityTypeOther        = "activity"
)

// Fixed keys for on-device state. There is no schema versioning.
const (
	KeyTheme       = "theme"
	KeyWorkspaces  = "workspaces"
	KeyAuthSession = "auth.session"
)
