package editor

import (
	"bytes"
	"context"
	"fmt"

	"github.com/ougirez/keuda/internal/pkg/constants"
	"github.com/ougirez/keuda/internal/pkg/dataset"
	"github.com/ougirez/keuda/internal/pkg/github"
	"github.com/ougirez/keuda/internal/pkg/logger"
)

const DefaultCommitMessage = "Update dataset"

// Remote is the repository file the editor maintains.
type Remote interface {
	Get(ctx context.Context) (*github.File, error)
	Put(ctx context.Context, content []byte, sha, message string) (string, error)
}

// Service edits the remote workbook with optimistic concurrency: every write names the
// version it was based on and is refused when the remote moved on since.
type Service struct {
	remote  Remote
	message string
}

func NewService(remote Remote, message string) *Service {
	if message == "" {
		message = DefaultCommitMessage
	}
	return &Service{remote: remote, message: message}
}

// Snapshot returns the current tables together with the version token to write against.
func (s *Service) Snapshot(ctx context.Context) (*dataset.Workbook, error) {
	f, err := s.remote.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("remote.Get: %w", err)
	}

	wb, err := dataset.ReadXLSX(bytes.NewReader(f.Content))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", constants.ErrMissingDataSource, f.Path, err)
	}
	wb.Version = f.SHA
	return wb, nil
}

// Backup returns the raw workbook bytes and their version.
func (s *Service) Backup(ctx context.Context) ([]byte, string, error) {
	f, err := s.remote.Get(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("remote.Get: %w", err)
	}
	return f.Content, f.SHA, nil
}

// ReplaceWorkbook overwrites the whole workbook. The content must be a readable xlsx file.
func (s *Service) ReplaceWorkbook(ctx context.Context, content []byte, version string) (string, error) {
	if _, err := dataset.ReadXLSX(bytes.NewReader(content)); err != nil {
		return "", fmt.Errorf("%w: not an xlsx workbook: %v", constants.ErrBadRequest, err)
	}

	current, err := s.current(ctx, version)
	if err != nil {
		return "", err
	}

	return s.write(ctx, content, current.SHA)
}

// ReplaceTable rewrites one sheet and leaves every other sheet as it is.
func (s *Service) ReplaceTable(ctx context.Context, table dataset.RawTable, version string) (string, error) {
	if table.Name == "" || len(table.Header) == 0 {
		return "", fmt.Errorf("%w: table name and header are required", constants.ErrBadRequest)
	}

	current, err := s.current(ctx, version)
	if err != nil {
		return "", err
	}

	content, err := dataset.ReplaceTableXLSX(current.Content, table)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", constants.ErrMissingDataSource, current.Path, err)
	}

	return s.write(ctx, content, current.SHA)
}

// current re-reads the file right before a write and checks the caller's version.
func (s *Service) current(ctx context.Context, version string) (*github.File, error) {
	f, err := s.remote.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("remote.Get: %w", err)
	}
	if version != f.SHA {
		return nil, fmt.Errorf("%w: edit is based on %q, current version is %q", constants.ErrVersionConflict, version, f.SHA)
	}
	return f, nil
}

func (s *Service) write(ctx context.Context, content []byte, sha string) (string, error) {
	newSHA, err := s.remote.Put(ctx, content, sha, s.message)
	if err != nil {
		logger.Warnf(ctx, "dataset write based on %s failed: %v", sha, err)
		return "", err
	}
	return newSHA, nil
}
