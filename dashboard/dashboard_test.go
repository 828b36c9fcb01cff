package dashboard

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"clementus360/study-assistant/config"
	"clementus360/study-assistant/history"
	"clementus360/study-assistant/session"
	"clementus360/study-assistant/types"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	processed []types.ContentRef
	quizRefs  []types.ContentRef
}

func (f *fakeAPI) ProcessDocument(ctx context.Context, ref types.ContentRef) (types.ContentHandle, error) {
	f.processed = append(f.processed, ref)
	return types.ContentHandle("doc-" + ref.FileName), nil
}

func (f *fakeAPI) Chat(ctx context.Context, documentID types.ContentHandle, question string) (string, error) {
	return "answer about " + string(documentID), nil
}

func (f *fakeAPI) AnalyzeCode(ctx context.Context, content string) (string, error) {
	return "explained", nil
}

func (f *fakeAPI) AnalyzeVideo(ctx context.Context, videoURL string) (types.VideoAnalysis, error) {
	return types.VideoAnalysis{Summary: "summary", AnalysisID: "an-1"}, nil
}

func (f *fakeAPI) FollowUpVideo(ctx context.Context, analysisID, question string) (string, error) {
	return "follow-up", nil
}

func (f *fakeAPI) GenerateQuiz(ctx context.Context, ref types.ContentRef) ([]types.QuizItem, error) {
	f.quizRefs = append(f.quizRefs, ref)
	return []types.QuizItem{{Prompt: "2+2?", Options: []string{"3", "4"}, CorrectAnswer: "4"}}, nil
}

type fakeStorage struct {
	err  error
	keys []string
}

func (f *fakeStorage) Upload(ctx context.Context, key string, data io.Reader, contentType string) error {
	if f.err != nil {
		return f.err
	}
	f.keys = append(f.keys, key)
	return nil
}

type staticAuth struct {
	mu       sync.Mutex
	current  *types.Session
	listener func(*types.Session)
}

func (a *staticAuth) SignIn(ctx context.Context, email, password string) error { return nil }
func (a *staticAuth) SignUp(ctx context.Context, email, password string, profile types.Profile) error {
	return nil
}

func (a *staticAuth) SignOut(ctx context.Context) error {
	a.mu.Lock()
	a.current = nil
	l := a.listener
	a.mu.Unlock()
	if l != nil {
		l(nil)
	}
	return nil
}

func (a *staticAuth) CurrentSession(ctx context.Context) (*types.Session, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current, nil
}

func (a *staticAuth) OnChange(listener func(*types.Session)) func() {
	a.mu.Lock()
	a.listener = listener
	a.mu.Unlock()
	return func() {
		a.mu.Lock()
		a.listener = nil
		a.mu.Unlock()
	}
}

func newTestDashboard(t *testing.T) (*Dashboard, *fakeAPI, *fakeStorage) {
	auth := &staticAuth{current: &types.Session{UserID: "u-1", Email: "ada@example.com"}}
	store, err := session.NewStore(context.Background(), auth)
	require.NoError(t, err)
	t.Cleanup(store.Close)

	logger, _ := test.NewNullLogger()
	api := &fakeAPI{}
	storage := &fakeStorage{}
	d := New(Deps{
		Session:  store,
		API:      api,
		Storage:  storage,
		History:  history.New(10),
		Settings: config.Settings{HistoryLimit: 10},
		Log:      logger,
	})
	t.Cleanup(d.Close)
	return d, api, storage
}

func writeTempFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestUploadDocumentEnablesChat(t *testing.T) {
	d, api, storage := newTestDashboard(t)
	d.Select(FeatureUpload)

	ref, err := d.UploadDocument(context.Background(), writeTempFile(t, "notes.txt", "cells"))
	require.NoError(t, err)
	assert.Equal(t, "notes.txt", ref.FileName)
	require.Len(t, storage.keys, 1)
	assert.Equal(t, []types.ContentRef{ref}, api.processed)
	assert.Equal(t, types.ContentHandle("doc-notes.txt"), d.Chat.Handle())

	require.True(t, d.Chat.Send(context.Background(), "What is a cell?"))
	assert.Len(t, d.Chat.Messages(), 2)
	assert.Equal(t, "Doc Q&A: What is a cell?...", d.History.Entries()[0].Title)
}

func TestUploadDocumentFailureLeavesChatDisabled(t *testing.T) {
	d, api, storage := newTestDashboard(t)
	storage.err = errors.New("bucket unavailable")

	_, err := d.UploadDocument(context.Background(), writeTempFile(t, "notes.txt", "cells"))
	assert.Error(t, err)
	assert.Empty(t, api.processed)
	assert.False(t, d.Chat.CanSend())
}

func TestSelectClearsDocument(t *testing.T) {
	d, _, _ := newTestDashboard(t)
	d.Select(FeatureUpload)
	_, err := d.UploadDocument(context.Background(), writeTempFile(t, "notes.txt", "x"))
	require.NoError(t, err)

	d.Select(FeaturePaste)
	assert.Equal(t, FeaturePaste, d.Active())
	assert.False(t, d.Chat.Handle().Valid())

	d.Back()
	assert.Equal(t, FeatureNone, d.Active())
}

func TestGenerateQuizUploadsFirst(t *testing.T) {
	d, api, storage := newTestDashboard(t)
	d.Select(FeatureQuiz)

	require.NoError(t, d.GenerateQuiz(context.Background(), writeTempFile(t, "math.pdf", "2+2")))
	require.Len(t, api.quizRefs, 1)
	assert.Equal(t, storage.keys[0], api.quizRefs[0].Path)
	assert.True(t, d.Quiz.HasQuestions())
	assert.Equal(t, "Quiz: math.pdf", d.History.Entries()[0].Title)
}

func TestSignOutEndsDashboard(t *testing.T) {
	d, _, _ := newTestDashboard(t)
	d.Select(FeatureLink)
	assert.False(t, d.SignedOut())

	require.NoError(t, d.Session.SignOut(context.Background()))
	assert.True(t, d.SignedOut())
	assert.Equal(t, FeatureNone, d.Active())
}

func TestParseFeature(t *testing.T) {
	f, err := ParseFeature(" Quiz ")
	require.NoError(t, err)
	assert.Equal(t, FeatureQuiz, f)

	_, err = ParseFeature("calendar")
	var validation *types.ValidationError
	assert.True(t, errors.As(err, &validation))
}
