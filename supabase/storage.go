package supabase

import (
	"context"
	"fmt"
	"io"

	"clementus360/study-assistant/config"

	"github.com/sirupsen/logrus"
	storage_go "github.com/supabase-community/storage-go"
	"github.com/supabase-community/supabase-go"
)

const uploadCacheControl = "3600"

// Storage is the upload.Storage backed by a Supabase bucket.
type Storage struct {
	client *supabase.Client
	bucket string
	log    logrus.FieldLogger
}

func NewStorage(client *supabase.Client, bucket string) *Storage {
	return &Storage{client: client, bucket: bucket, log: config.Logger}
}

// Upload stores data under key. Existing objects are never overwritten.
func (s *Storage) Upload(ctx context.Context, key string, data io.Reader, contentType string) error {
	upsert := false
	cacheControl := uploadCacheControl
	opts := storage_go.FileOptions{
		CacheControl: &cacheControl,
		Upsert:       &upsert,
	}
	if contentType != "" {
		opts.ContentType = &contentType
	}

	// read the field on every call, UpdateAuthSession swaps the storage client
	if _, err := s.client.Storage.UploadFile(s.bucket, key, data, opts); err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, storageError(err))
	}

	s.log.WithFields(logrus.Fields{
		"bucket": s.bucket,
		"path":   key,
	}).Debug("Uploaded object")
	return nil
}
