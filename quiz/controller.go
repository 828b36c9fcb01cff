package quiz

import (
	"context"
	"sort"
	"sync"

	"clementus360/study-assistant/types"
)

type Generator interface {
	GenerateQuiz(ctx context.Context, ref types.ContentRef) ([]types.QuizItem, error)
}

type Recorder interface {
	Record(title string) types.HistoryEntry
}

// Score counts correct answers over the real (non-sentinel) questions.
type Score struct {
	Correct int
	Total   int
}

type Controller struct {
	api     Generator
	history Recorder

	mu       sync.Mutex
	items    []types.QuizItem
	answers  map[int]string
	score    *Score
	loading  bool
	closed   bool
	onChange func()
}

func New(api Generator, history Recorder) *Controller {
	return &Controller{api: api, history: history, answers: map[int]string{}}
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

// Generate replaces the current quiz with one built from ref. On failure the
// quiz holds a single sentinel item whose prompt is the error text.
func (c *Controller) Generate(ctx context.Context, ref types.ContentRef) bool {
	c.mu.Lock()
	if c.loading || c.closed {
		c.mu.Unlock()
		return false
	}
	c.loading = true
	c.items = nil
	c.answers = map[int]string{}
	c.score = nil
	c.mu.Unlock()
	c.changed()

	items, err := c.api.GenerateQuiz(ctx, ref)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return true
	}
	c.loading = false
	if err != nil {
		c.items = []types.QuizItem{{Prompt: types.ErrorText(err)}}
	} else {
		c.items = items
	}
	c.mu.Unlock()

	if err == nil && c.history != nil {
		c.history.Record("Quiz: " + ref.FileName)
	}
	c.changed()
	return true
}

// RecordAnswer sets the chosen option for the item at index, replacing any
// earlier choice.
func (c *Controller) RecordAnswer(index int, option string) error {
	c.mu.Lock()
	if c.loading {
		c.mu.Unlock()
		return types.NewValidationError("The quiz is still being generated.")
	}
	if index < 0 || index >= len(c.items) {
		c.mu.Unlock()
		return types.NewValidationError("Question %d does not exist.", index+1)
	}
	item := c.items[index]
	if item.IsSentinel() {
		c.mu.Unlock()
		return types.NewValidationError("Question %d cannot be answered.", index+1)
	}
	if !item.HasOption(option) {
		c.mu.Unlock()
		return types.NewValidationError("%q is not an option for question %d.", option, index+1)
	}
	c.answers[index] = option
	c.mu.Unlock()
	c.changed()
	return nil
}

// SubmitQuiz scores the recorded answers. Calling it again without new
// answers yields the same score. Nothing is scored while a quiz is generating.
func (c *Controller) SubmitQuiz() Score {
	c.mu.Lock()
	if c.loading {
		c.mu.Unlock()
		return Score{}
	}
	var s Score
	for i, item := range c.items {
		if item.IsSentinel() {
			continue
		}
		s.Total++
		if answer, ok := c.answers[i]; ok && answer == item.CorrectAnswer {
			s.Correct++
		}
	}
	c.score = &s
	c.mu.Unlock()
	c.changed()
	return s
}

func (c *Controller) Score() (Score, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.score == nil {
		return Score{}, false
	}
	return *c.score, true
}

func (c *Controller) Items() []types.QuizItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]types.QuizItem(nil), c.items...)
}

// Answers returns the recorded choices keyed by question index.
func (c *Controller) Answers() map[int]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[int]string, len(c.answers))
	for k, v := range c.answers {
		out[k] = v
	}
	return out
}

// AnsweredIndexes lists the answered question indexes in ascending order.
func (c *Controller) AnsweredIndexes() []int {
	answers := c.Answers()
	indexes := make([]int, 0, len(answers))
	for i := range answers {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)
	return indexes
}

func (c *Controller) HasQuestions() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items) > 0
}

func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.loading = false
	c.onChange = nil
	c.mu.Unlock()
}
