package analysis

import (
	"context"
	"strings"
	"sync"

	"clementus360/study-assistant/types"
)

// Result is what a submit function hands back on success.
type Result struct {
	Artifact string
	Session  *types.AnalysisSession
	Title    string
}

type SubmitFunc func(ctx context.Context, content string) (Result, error)

type FollowUpFunc func(ctx context.Context, sessionID, question string) (string, error)

// Recorder receives a history title after each successful analysis.
type Recorder interface {
	Record(title string) types.HistoryEntry
}

// Controller drives a single-input analysis panel. The artifact is a single
// text block; follow-ups extend it and never replace it.
type Controller struct {
	submit    SubmitFunc
	followUp  FollowUpFunc
	failure   func(error) string
	history   Recorder
	kindTitle func(Result) string

	mu       sync.Mutex
	artifact string
	session  *types.AnalysisSession
	loading  bool
	closed   bool
	onChange func()
}

func (c *Controller) OnChange(fn func()) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

func (c *Controller) changed() {
	c.mu.Lock()
	fn := c.onChange
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Submit runs the analysis for content. Blank content, a request already in
// flight, or a closed controller make it a no-op returning false.
func (c *Controller) Submit(ctx context.Context, content string) bool {
	if strings.TrimSpace(content) == "" {
		return false
	}

	c.mu.Lock()
	if c.loading || c.closed {
		c.mu.Unlock()
		return false
	}
	c.loading = true
	c.artifact = ""
	c.session = nil
	c.mu.Unlock()
	c.changed()

	result, err := c.submit(ctx, content)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return true
	}
	c.loading = false
	if err != nil {
		c.artifact = c.failure(err)
	} else {
		c.artifact = result.Artifact
		c.session = result.Session
	}
	c.mu.Unlock()

	if err == nil && c.history != nil {
		c.history.Record(c.kindTitle(result))
	}
	c.changed()
	return true
}

// AskFollowUp appends the answer to question below the current artifact.
func (c *Controller) AskFollowUp(ctx context.Context, question string) bool {
	if c.followUp == nil || strings.TrimSpace(question) == "" {
		return false
	}

	c.mu.Lock()
	if c.session == nil || c.session.ID == "" || c.loading || c.closed {
		c.mu.Unlock()
		return false
	}
	sessionID := c.session.ID
	c.loading = true
	c.mu.Unlock()
	c.changed()

	answer, err := c.followUp(ctx, sessionID, question)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return true
	}
	c.loading = false
	if err != nil {
		c.artifact += "\n\n" + types.ErrorText(err)
	} else {
		c.artifact += "\n\nFollow-up answer:\n" + answer
	}
	c.mu.Unlock()
	c.changed()
	return true
}

func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

func (c *Controller) Artifact() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.artifact
}

// Session returns the follow-up scope of the last successful analysis, if any.
func (c *Controller) Session() (types.AnalysisSession, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return types.AnalysisSession{}, false
	}
	return *c.session, true
}

// CanFollowUp reports whether the follow-up input should be enabled.
func (c *Controller) CanFollowUp() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.followUp != nil && c.session != nil && c.session.ID != "" && !c.loading && !c.closed
}

func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.loading = false
	c.onChange = nil
	c.mu.Unlock()
}
