package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
)

const (
	keyPrefix      = "reports/"
	payloadObject  = "report.zip"
	metadataObject = "metadata.json"
)

type objectAPI interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error)
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
	ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
}

// Store persists each report as a two-object namespace under a
// deterministic key scheme: reports/{id}/report.zip and
// reports/{id}/metadata.json.
type Store struct {
	objects objectAPI
	bucket  string
}

// NewStore constructs a report store on top of an object-store client.
func NewStore(objects objectAPI, bucket string) *Store {
	return &Store{objects: objects, bucket: bucket}
}

func payloadKey(id string) string {
	return keyPrefix + id + "/" + payloadObject
}

func metadataKey(id string) string {
	return keyPrefix + id + "/" + metadataObject
}

// Put stores a report's payload and metadata as a pair. The payload is
// committed first so metadata never points at a missing archive.
func (s *Store) Put(ctx context.Context, meta Metadata, payload []byte) error {
	payloadOpts := minio.PutObjectOptions{
		ContentType: "application/zip",
		UserMetadata: map[string]string{
			"title":      meta.Title,
			"type":       meta.Type,
			"created-at": meta.CreatedAt.Format(time.RFC3339),
		},
	}
	if _, err := s.objects.PutObject(ctx, s.bucket, payloadKey(meta.ID), bytes.NewReader(payload), int64(len(payload)), payloadOpts); err != nil {
		return fmt.Errorf("store payload: %w", err)
	}

	doc, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}

	metaOpts := minio.PutObjectOptions{ContentType: "application/json"}
	if _, err := s.objects.PutObject(ctx, s.bucket, metadataKey(meta.ID), bytes.NewReader(doc), int64(len(doc)), metaOpts); err != nil {
		return fmt.Errorf("store metadata: %w", err)
	}

	return nil
}

// GetMetadata fetches and decodes a report's metadata record.
func (s *Store) GetMetadata(ctx context.Context, id string) (Metadata, error) {
	obj, err := s.objects.GetObject(ctx, s.bucket, metadataKey(id), minio.GetObjectOptions{})
	if err != nil {
		return Metadata{}, translateObjectError(err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return Metadata{}, translateObjectError(err)
	}

	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return Metadata{}, fmt.Errorf("%w: %s", ErrCorruptMetadata, id)
	}

	return meta, nil
}

// GetPayload opens a report's archive for streaming and returns its size.
func (s *Store) GetPayload(ctx context.Context, id string) (io.ReadCloser, int64, error) {
	info, err := s.objects.StatObject(ctx, s.bucket, payloadKey(id), minio.StatObjectOptions{})
	if err != nil {
		return nil, 0, translateObjectError(err)
	}

	obj, err := s.objects.GetObject(ctx, s.bucket, payloadKey(id), minio.GetObjectOptions{})
	if err != nil {
		return nil, 0, translateObjectError(err)
	}

	return obj, info.Size, nil
}

// List enumerates report-id groups without descending into their
// contents. It returns at most max ids starting after the opaque cursor,
// the cursor to continue from, and whether more groups remain.
func (s *Store) List(ctx context.Context, cursor string, max int) ([]string, string, bool, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	listing := s.objects.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:     keyPrefix,
		Recursive:  false,
		StartAfter: cursor,
	})

	ids := make([]string, 0, max)
	next := ""
	truncated := false

	for obj := range listing {
		if obj.Err != nil {
			return nil, "", false, fmt.Errorf("list reports: %w", obj.Err)
		}
		// non-recursive listing yields one common prefix per report id
		if !strings.HasSuffix(obj.Key, "/") {
			continue
		}
		if len(ids) == max {
			truncated = true
			break
		}
		ids = append(ids, strings.TrimSuffix(strings.TrimPrefix(obj.Key, keyPrefix), "/"))
		next = obj.Key
	}

	if !truncated {
		next = ""
	}

	return ids, next, truncated, nil
}

// Delete removes both objects of a report namespace. Deleting an id that
// was never stored is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.objects.RemoveObject(ctx, s.bucket, payloadKey(id), minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove payload: %w", err)
	}
	if err := s.objects.RemoveObject(ctx, s.bucket, metadataKey(id), minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove metadata: %w", err)
	}
	return nil
}

func translateObjectError(err error) error {
	if errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return ErrNotFound
	}
	return err
}
