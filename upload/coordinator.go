package upload

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"clementus360/study-assistant/config"
	"clementus360/study-assistant/types"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Storage is the object store holding raw uploads. Upload must not
// overwrite an existing key.
type Storage interface {
	Upload(ctx context.Context, key string, data io.Reader, contentType string) error
}

// Processor turns a stored object into a backend content handle.
type Processor interface {
	ProcessDocument(ctx context.Context, ref types.ContentRef) (types.ContentHandle, error)
}

// Coordinator runs the two-phase upload: bytes to storage, then the storage
// reference to the backend.
type Coordinator struct {
	storage   Storage
	processor Processor
	log       logrus.FieldLogger
	newKey    func(fileName string) string

	mu     sync.Mutex
	handle types.ContentHandle
}

type Option func(*Coordinator)

func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Coordinator) {
		if log != nil {
			c.log = log
		}
	}
}

// WithKeyFunc overrides how storage keys are generated.
func WithKeyFunc(fn func(fileName string) string) Option {
	return func(c *Coordinator) {
		if fn != nil {
			c.newKey = fn
		}
	}
}

func New(storage Storage, processor Processor, opts ...Option) *Coordinator {
	c := &Coordinator{
		storage:   storage,
		processor: processor,
		log:       config.Logger,
		newKey:    uniqueKey,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func uniqueKey(fileName string) string {
	return uuid.NewString() + "-" + fileName
}

// Upload stores data under a freshly generated key.
func (c *Coordinator) Upload(ctx context.Context, fileName string, data io.Reader) (types.ContentRef, error) {
	fileName = strings.TrimSpace(fileName)
	if fileName == "" {
		return types.ContentRef{}, types.NewValidationError("Choose a file to upload.")
	}

	key := c.newKey(fileName)
	contentType := mime.TypeByExtension(filepath.Ext(fileName))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if err := c.storage.Upload(ctx, key, data, contentType); err != nil {
		return types.ContentRef{}, fmt.Errorf("upload %s: %w", fileName, err)
	}

	c.log.WithFields(logrus.Fields{"path": key, "file": fileName}).Debug("uploaded file to storage")
	return types.ContentRef{Path: key, FileName: fileName}, nil
}

// UploadFile opens a local file and uploads it under its base name.
func (c *Coordinator) UploadFile(ctx context.Context, path string) (types.ContentRef, error) {
	f, err := os.Open(path)
	if err != nil {
		return types.ContentRef{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return c.Upload(ctx, filepath.Base(path), f)
}

// Process sends ref to the backend. The returned handle becomes the
// coordinator's current handle.
func (c *Coordinator) Process(ctx context.Context, ref types.ContentRef) (types.ContentHandle, error) {
	handle, err := c.processor.ProcessDocument(ctx, ref)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.handle = handle
	c.mu.Unlock()
	return handle, nil
}

// UploadAndProcess runs both phases. A storage failure never reaches the
// backend. A backend failure leaves the stored object behind; it is logged
// and the error returned without a handle.
func (c *Coordinator) UploadAndProcess(ctx context.Context, fileName string, data io.Reader) (types.ContentRef, types.ContentHandle, error) {
	ref, err := c.Upload(ctx, fileName, data)
	if err != nil {
		return types.ContentRef{}, "", err
	}

	handle, err := c.Process(ctx, ref)
	if err != nil {
		c.log.WithFields(logrus.Fields{
			"path":  ref.Path,
			"file":  ref.FileName,
			"error": err.Error(),
		}).Warn("document processing failed, storage object left orphaned")
		return ref, "", err
	}
	return ref, handle, nil
}

// UploadFileAndProcess is UploadAndProcess for a local path.
func (c *Coordinator) UploadFileAndProcess(ctx context.Context, path string) (types.ContentRef, types.ContentHandle, error) {
	f, err := os.Open(path)
	if err != nil {
		return types.ContentRef{}, "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return c.UploadAndProcess(ctx, filepath.Base(path), f)
}

// Handle is the handle from the most recent successful Process call.
func (c *Coordinator) Handle() types.ContentHandle {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handle
}
