package dataset

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ougirez/keuda/internal/pkg/constants"
	"github.com/ougirez/keuda/internal/pkg/github"
)

// Source produces the raw multi-table content of the dataset.
type Source interface {
	Name() string
	Fetch(ctx context.Context) (*Workbook, error)
}

// FileSource reads an xlsx workbook from the local disk.
type FileSource struct {
	Path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (s *FileSource) Name() string {
	return "file:" + s.Path
}

func (s *FileSource) Fetch(_ context.Context) (*Workbook, error) {
	content, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: file %s does not exist", constants.ErrMissingDataSource, s.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.Path, err)
	}

	wb, err := ReadXLSX(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", constants.ErrMissingDataSource, s.Path, err)
	}

	sum := sha256.Sum256(content)
	wb.Version = hex.EncodeToString(sum[:])
	return wb, nil
}

// RemoteFile is the read side of the repository client.
type RemoteFile interface {
	Name() string
	Get(ctx context.Context) (*github.File, error)
}

// RemoteSource reads the xlsx workbook the admin editor maintains in a remote repository.
type RemoteSource struct {
	remote RemoteFile
}

func NewRemoteSource(remote RemoteFile) *RemoteSource {
	return &RemoteSource{remote: remote}
}

func (s *RemoteSource) Name() string {
	return s.remote.Name()
}

func (s *RemoteSource) Fetch(ctx context.Context) (*Workbook, error) {
	f, err := s.remote.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("remote.Get: %w", err)
	}

	wb, err := ReadXLSX(bytes.NewReader(f.Content))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", constants.ErrMissingDataSource, f.Path, err)
	}
	wb.Version = f.SHA
	return wb, nil
}
