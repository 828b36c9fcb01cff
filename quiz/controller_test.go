package quiz

import (
	"context"
	"errors"
	"testing"

	"clementus360/study-assistant/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	items []types.QuizItem
	err   error
	gate  chan struct{}
	seen  chan struct{}
}

func (f *fakeGenerator) GenerateQuiz(ctx context.Context, ref types.ContentRef) ([]types.QuizItem, error) {
	if f.seen != nil {
		f.seen <- struct{}{}
	}
	if f.gate != nil {
		<-f.gate
	}
	return f.items, f.err
}

type recorder struct {
	titles []string
}

func (r *recorder) Record(title string) types.HistoryEntry {
	r.titles = append(r.titles, title)
	return types.HistoryEntry{Title: title}
}

var ref = types.ContentRef{Path: "1234-notes.pdf", FileName: "notes.pdf"}

func arithmetic() []types.QuizItem {
	return []types.QuizItem{
		{Prompt: "2+2?", Options: []string{"3", "4"}, CorrectAnswer: "4"},
	}
}

func TestGenerateAndScore(t *testing.T) {
	history := &recorder{}
	c := New(&fakeGenerator{items: arithmetic()}, history)

	require.True(t, c.Generate(context.Background(), ref))
	require.True(t, c.HasQuestions())
	assert.Equal(t, []string{"Quiz: notes.pdf"}, history.titles)

	_, scored := c.Score()
	assert.False(t, scored)

	require.NoError(t, c.RecordAnswer(0, "4"))
	assert.Equal(t, Score{Correct: 1, Total: 1}, c.SubmitQuiz())

	s, scored := c.Score()
	assert.True(t, scored)
	assert.Equal(t, Score{Correct: 1, Total: 1}, s)
}

func TestSubmitQuizIsIdempotent(t *testing.T) {
	c := New(&fakeGenerator{items: []types.QuizItem{
		{Prompt: "a", Options: []string{"x", "y"}, CorrectAnswer: "x"},
		{Prompt: "b", Options: []string{"x", "y"}, CorrectAnswer: "y"},
		{Prompt: "c", Options: []string{"x", "y"}, CorrectAnswer: "y"},
	}}, &recorder{})
	c.Generate(context.Background(), ref)

	require.NoError(t, c.RecordAnswer(0, "x"))
	require.NoError(t, c.RecordAnswer(1, "x"))

	first := c.SubmitQuiz()
	assert.Equal(t, Score{Correct: 1, Total: 3}, first)
	assert.Equal(t, first, c.SubmitQuiz())
}

func TestRecordAnswerOverwrites(t *testing.T) {
	c := New(&fakeGenerator{items: arithmetic()}, &recorder{})
	c.Generate(context.Background(), ref)

	require.NoError(t, c.RecordAnswer(0, "3"))
	require.NoError(t, c.RecordAnswer(0, "4"))
	assert.Equal(t, map[int]string{0: "4"}, c.Answers())
	assert.Equal(t, []int{0}, c.AnsweredIndexes())
	assert.Equal(t, 1, c.SubmitQuiz().Correct)
}

func TestRecordAnswerValidation(t *testing.T) {
	c := New(&fakeGenerator{items: arithmetic()}, &recorder{})
	c.Generate(context.Background(), ref)

	testCases := []struct {
		name   string
		index  int
		option string
	}{
		{name: "negative index", index: -1, option: "4"},
		{name: "past the end", index: 1, option: "4"},
		{name: "unknown option", index: 0, option: "5"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			err := c.RecordAnswer(testCase.index, testCase.option)
			var validation *types.ValidationError
			assert.True(t, errors.As(err, &validation))
		})
	}
	assert.Empty(t, c.Answers())
}

func TestGenerateFailureYieldsSentinel(t *testing.T) {
	history := &recorder{}
	netErr := &types.NetworkError{Endpoint: "/quiz/generate", Err: errors.New("connection refused")}
	c := New(&fakeGenerator{err: netErr}, history)

	require.True(t, c.Generate(context.Background(), ref))
	items := c.Items()
	require.Len(t, items, 1)
	assert.True(t, items[0].IsSentinel())
	assert.Equal(t, "Network error: connection refused", items[0].Prompt)
	assert.Empty(t, history.titles)

	var validation *types.ValidationError
	assert.True(t, errors.As(c.RecordAnswer(0, ""), &validation))
	assert.Equal(t, Score{Correct: 0, Total: 0}, c.SubmitQuiz())
}

func TestGenerateResetsAnswersAndScore(t *testing.T) {
	api := &fakeGenerator{items: arithmetic()}
	c := New(api, &recorder{})
	c.Generate(context.Background(), ref)
	require.NoError(t, c.RecordAnswer(0, "4"))
	c.SubmitQuiz()

	api.items = []types.QuizItem{{Prompt: "Capital of France?", Options: []string{"Paris", "Rome"}, CorrectAnswer: "Paris"}}
	c.Generate(context.Background(), ref)

	assert.Empty(t, c.Answers())
	_, scored := c.Score()
	assert.False(t, scored)
	assert.Equal(t, "Capital of France?", c.Items()[0].Prompt)
}

func TestAnswersRejectedWhileGenerating(t *testing.T) {
	api := &fakeGenerator{items: arithmetic()}
	c := New(api, &recorder{})
	c.Generate(context.Background(), ref)

	api.items = []types.QuizItem{{Prompt: "Capital of France?", Options: []string{"Paris", "4"}, CorrectAnswer: "4"}}
	api.gate, api.seen = make(chan struct{}), make(chan struct{}, 1)
	done := make(chan bool)
	go func() { done <- c.Generate(context.Background(), ref) }()
	<-api.seen

	assert.False(t, c.HasQuestions())
	var validation *types.ValidationError
	assert.True(t, errors.As(c.RecordAnswer(0, "4"), &validation))
	assert.Equal(t, Score{}, c.SubmitQuiz())
	_, scored := c.Score()
	assert.False(t, scored)

	close(api.gate)
	require.True(t, <-done)

	assert.Empty(t, c.Answers())
	assert.Equal(t, Score{Correct: 0, Total: 1}, c.SubmitQuiz())
}

func TestSubmitWithoutAnswers(t *testing.T) {
	c := New(&fakeGenerator{items: arithmetic()}, &recorder{})
	c.Generate(context.Background(), ref)

	assert.Equal(t, Score{Correct: 0, Total: 1}, c.SubmitQuiz())
}
