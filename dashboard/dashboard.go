package dashboard

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"clementus360/study-assistant/analysis"
	"clementus360/study-assistant/config"
	"clementus360/study-assistant/conversation"
	"clementus360/study-assistant/history"
	"clementus360/study-assistant/quiz"
	"clementus360/study-assistant/session"
	"clementus360/study-assistant/types"
	"clementus360/study-assistant/upload"

	"github.com/sirupsen/logrus"
)

type Feature string

const (
	FeatureNone   Feature = ""
	FeatureUpload Feature = "upload"
	FeatureLink   Feature = "link"
	FeaturePaste  Feature = "paste"
	FeatureQuiz   Feature = "quiz"
)

// Features lists the feature grid in display order.
var Features = []Feature{FeatureUpload, FeatureLink, FeaturePaste, FeatureQuiz}

func (f Feature) Title() string {
	switch f {
	case FeatureUpload:
		return "Chat with a document"
	case FeatureLink:
		return "Summarize a YouTube video"
	case FeaturePaste:
		return "Explain code"
	case FeatureQuiz:
		return "Generate a quiz"
	}
	return "Dashboard"
}

func ParseFeature(s string) (Feature, error) {
	f := Feature(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Features {
		if f == known {
			return f, nil
		}
	}
	return FeatureNone, types.NewValidationError("Unknown feature %q.", s)
}

// API is every backend operation the panels use.
type API interface {
	upload.Processor
	conversation.Chatter
	analysis.CodeAnalyzer
	analysis.VideoAnalyzer
	quiz.Generator
}

type Deps struct {
	Session  *session.Store
	API      API
	Storage  upload.Storage
	History  *history.Log
	Settings config.Settings
	Log      logrus.FieldLogger
}

// Dashboard is the explicit context shared by the panels: one owner for the
// session, the history log, the upload coordinator and a controller per panel.
type Dashboard struct {
	Session *session.Store
	History *history.Log
	Uploads *upload.Coordinator
	Chat    *conversation.Controller
	Code    *analysis.Controller
	Video   *analysis.Controller
	Quiz    *quiz.Controller

	log logrus.FieldLogger

	mu          sync.Mutex
	active      Feature
	signedOut   bool
	unsubscribe func()
}

func New(deps Deps) *Dashboard {
	log := deps.Log
	if log == nil {
		log = config.Logger
	}
	hist := deps.History
	if hist == nil {
		hist = history.New(deps.Settings.HistoryLimit)
	}

	d := &Dashboard{
		Session: deps.Session,
		History: hist,
		Uploads: upload.New(deps.Storage, deps.API, upload.WithLogger(log)),
		Chat:    conversation.New(deps.API, hist, conversation.WithResetOnHandleChange(deps.Settings.ChatResetOnNewDocument)),
		Code:    analysis.NewCodeExplainer(deps.API, hist),
		Video:   analysis.NewVideoSummarizer(deps.API, hist),
		Quiz:    quiz.New(deps.API, hist),
		log:     log,
	}

	if deps.Session != nil {
		d.signedOut = !deps.Session.SignedIn()
		d.unsubscribe = deps.Session.Subscribe(func(s *types.Session) {
			d.mu.Lock()
			d.signedOut = s == nil
			if s == nil {
				d.active = FeatureNone
			}
			d.mu.Unlock()
		})
	}
	return d
}

// SignedOut reports whether the session ended; callers leave the dashboard.
func (d *Dashboard) SignedOut() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.signedOut
}

func (d *Dashboard) Active() Feature {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.active
}

// Select switches to a feature panel. Any document chosen for the previous
// panel is forgotten.
func (d *Dashboard) Select(f Feature) {
	d.mu.Lock()
	d.active = f
	d.mu.Unlock()
	d.Chat.SetHandle("")
}

// Back returns to the feature grid.
func (d *Dashboard) Back() {
	d.mu.Lock()
	d.active = FeatureNone
	d.mu.Unlock()
}

// UploadDocument uploads and processes the file at path, then points the
// chat panel at the new handle.
func (d *Dashboard) UploadDocument(ctx context.Context, path string) (types.ContentRef, error) {
	ref, handle, err := d.Uploads.UploadFileAndProcess(ctx, path)
	if err != nil {
		return ref, err
	}
	d.Chat.SetHandle(handle)
	d.log.WithFields(logrus.Fields{
		"file":        ref.FileName,
		"document_id": handle,
	}).Info("Document ready")
	return ref, nil
}

// GenerateQuiz uploads the file at path and builds a quiz from it. Upload
// failures are returned; generation failures show up as a sentinel item.
func (d *Dashboard) GenerateQuiz(ctx context.Context, path string) error {
	ref, err := d.Uploads.UploadFile(ctx, path)
	if err != nil {
		return err
	}
	if !d.Quiz.Generate(ctx, ref) {
		return fmt.Errorf("quiz generation already in progress")
	}
	return nil
}

// Close tears down every panel. Results still in flight are dropped.
func (d *Dashboard) Close() {
	d.Chat.Close()
	d.Code.Close()
	d.Video.Close()
	d.Quiz.Close()

	d.mu.Lock()
	unsubscribe := d.unsubscribe
	d.unsubscribe = nil
	d.mu.Unlock()
	if unsubscribe != nil {
		unsubscribe()
	}
}
