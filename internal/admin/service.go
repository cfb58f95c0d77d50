package admin

import (
	"context"
	"errors"
	"io"

	"go.uber.org/zap"

	"github.com/openakita/feedback-gateway/internal/report"
)

const (
	defaultPageSize = 50
	maxPageSize     = 100

	// When a type filter is applied after fetching, the underlying page
	// is over-fetched to reduce the chance of a short result page. This
	// is best-effort: callers must follow the cursor until truncated is
	// false to see every matching report.
	filterOverFetch = 3
)

type reportStore interface {
	List(ctx context.Context, cursor string, max int) ([]string, string, bool, error)
	GetMetadata(ctx context.Context, id string) (report.Metadata, error)
	GetPayload(ctx context.Context, id string) (io.ReadCloser, int64, error)
	Delete(ctx context.Context, id string) error
}

// Service exposes the moderation operations over the report store.
type Service struct {
	store reportStore
	log   *zap.Logger
}

// NewService constructs an admin service.
func NewService(store reportStore, log *zap.Logger) *Service {
	return &Service{store: store, log: log}
}

// ListResult is one page of the report listing.
type ListResult struct {
	Reports   []report.Metadata `json:"reports"`
	Total     int               `json:"total"`
	Truncated bool              `json:"truncated"`
	Cursor    *string           `json:"cursor"`
}

// List returns a page of report metadata, optionally filtered by type.
// Filtering happens after the underlying page is fetched, so a filtered
// page may hold fewer than limit entries while more matches remain
// beyond the cursor.
func (s *Service) List(ctx context.Context, typeFilter, cursor string, limit int) (ListResult, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	fetchLimit := limit
	if typeFilter != "" {
		fetchLimit = limit * filterOverFetch
	}

	ids, next, truncated, err := s.store.List(ctx, cursor, fetchLimit)
	if err != nil {
		return ListResult{}, err
	}

	reports := make([]report.Metadata, 0, len(ids))
	for _, id := range ids {
		meta, err := s.store.GetMetadata(ctx, id)
		switch {
		case err == nil:
			reports = append(reports, meta)
		case errors.Is(err, report.ErrNotFound):
			// payload without metadata: surface the id, not an error
			s.log.Warn("report metadata missing", zap.String("report_id", id))
			reports = append(reports, report.Metadata{ID: id, Type: report.TypeBug, Title: "(unknown)"})
		case errors.Is(err, report.ErrCorruptMetadata):
			s.log.Warn("report metadata corrupt", zap.String("report_id", id))
			reports = append(reports, report.Metadata{ID: id, Type: report.TypeBug, Title: "(parse error)"})
		default:
			return ListResult{}, err
		}
	}

	if typeFilter != "" {
		filtered := reports[:0]
		for _, meta := range reports {
			if meta.Type == typeFilter {
				filtered = append(filtered, meta)
			}
		}
		reports = filtered
		if len(reports) > limit {
			reports = reports[:limit]
		}
	}

	result := ListResult{
		Reports:   reports,
		Total:     len(reports),
		Truncated: truncated,
	}
	if truncated {
		result.Cursor = &next
	}

	return result, nil
}

// Get fetches a single report's metadata.
func (s *Service) Get(ctx context.Context, id string) (report.Metadata, error) {
	return s.store.GetMetadata(ctx, id)
}

// Download opens a report's archive for streaming.
func (s *Service) Download(ctx context.Context, id string) (io.ReadCloser, int64, error) {
	return s.store.GetPayload(ctx, id)
}

// Delete removes a report. Deletion is idempotent: a nonexistent id
// succeeds.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}
