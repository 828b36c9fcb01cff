package conversation

import (
	"context"
	"strings"
	"sync"

	"clementus360/study-assistant/config"
	"clementus360/study-assistant/types"
)

// Chatter answers a question about a processed document.
type Chatter interface {
	Chat(ctx context.Context, documentID types.ContentHandle, question string) (string, error)
}

// Recorder receives a history title after each successful exchange.
type Recorder interface {
	Record(title string) types.HistoryEntry
}

// Controller owns the transcript for the document chat panel. Failures never
// escape Send: they land in the transcript as assistant messages.
type Controller struct {
	api     Chatter
	history Recorder

	resetOnHandleChange bool

	mu       sync.Mutex
	handle   types.ContentHandle
	messages []types.Message
	pending  bool
	closed   bool
	onChange func()

	// generation changes whenever the transcript is cleared; replies started
	// under an older generation are dropped.
	generation uint64
}

type Option func(*Controller)

// WithResetOnHandleChange clears the transcript whenever a different
// document handle is set.
func WithResetOnHandleChange(reset bool) Option {
	return func(c *Controller) {
		c.resetOnHandleChange = reset
	}
}

func New(api Chatter, history Recorder, opts ...Option) *Controller {
	c := &Controller{api: api, history: history}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnChange registers a callback fired after every state change.
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

func (c *Controller) SetHandle(handle types.ContentHandle) {
	c.mu.Lock()
	if c.resetOnHandleChange && handle != c.handle {
		c.clear()
	}
	c.handle = handle
	c.mu.Unlock()
	c.changed()
}

func (c *Controller) Handle() types.ContentHandle {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handle
}

// CanSend reports whether the input should be enabled.
func (c *Controller) CanSend() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handle.Valid() && !c.pending && !c.closed
}

// Send posts text as a question about the current document. It returns false
// without doing anything when text is blank, there is no document, a request
// is already in flight, or the controller is closed.
func (c *Controller) Send(ctx context.Context, text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}

	c.mu.Lock()
	if !c.handle.Valid() || c.pending || c.closed {
		c.mu.Unlock()
		return false
	}
	handle := c.handle
	generation := c.generation
	c.messages = append(c.messages, types.Message{Role: types.RoleUser, Text: text})
	c.pending = true
	c.mu.Unlock()
	c.changed()

	answer, err := c.api.Chat(ctx, handle, text)

	c.mu.Lock()
	if c.closed || c.generation != generation {
		c.mu.Unlock()
		return true
	}
	if err != nil {
		c.messages = append(c.messages, types.Message{Role: types.RoleAssistant, Text: types.ErrorText(err)})
	} else {
		c.messages = append(c.messages, types.Message{Role: types.RoleAssistant, Text: answer})
	}
	c.pending = false
	c.mu.Unlock()

	if err == nil && c.history != nil {
		c.history.Record(historyTitle(text))
	}
	c.changed()
	return true
}

func historyTitle(question string) string {
	runes := []rune(question)
	if len(runes) > config.ChatTitleRunes {
		runes = runes[:config.ChatTitleRunes]
	}
	return "Doc Q&A: " + string(runes) + "..."
}

// Messages returns a copy of the transcript in order.
func (c *Controller) Messages() []types.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]types.Message(nil), c.messages...)
}

func (c *Controller) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// Reset clears the transcript but keeps the document handle. A reply still in
// flight is dropped.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.clear()
	c.mu.Unlock()
	c.changed()
}

// clear must be called with mu held.
func (c *Controller) clear() {
	c.messages = nil
	c.pending = false
	c.generation++
}

// Close marks the controller as torn down. Replies still in flight are dropped.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.pending = false
	c.onChange = nil
	c.mu.Unlock()
}
