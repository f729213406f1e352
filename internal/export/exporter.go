package export

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/amishk599/nepcollege/internal/model"
)

// Uploader stores an exported file remotely.
type Uploader interface {
	Upload(ctx context.Context, name string, body []byte) (string, error)
}

// Exporter writes CSV exports to a local directory and optionally uploads
// them.
type Exporter struct {
	dir      string
	uploader Uploader
	logger   *slog.Logger
}

// Result describes where an export ended up.
type Result struct {
	Path      string
	RemoteURI string
}

// NewExporter creates an Exporter. A nil uploader keeps exports local.
func NewExporter(dir string, uploader Uploader, logger *slog.Logger) *Exporter {
	if dir == "" {
		dir = "."
	}
	return &Exporter{dir: dir, uploader: uploader, logger: logger}
}

// Export renders colleges for criteria and writes them into the export
// directory under FileName(criteria), then to the uploader when one is
// configured.
func (e *Exporter) Export(ctx context.Context, criteria model.SearchCriteria, colleges []model.College) (Result, error) {
	return e.write(ctx, filepath.Join(e.dir, FileName(criteria)), colleges)
}

// ExportAs writes colleges to a user-chosen name. A bare file name is placed
// in the export directory; anything with a directory part is used as-is.
func (e *Exporter) ExportAs(ctx context.Context, name string, colleges []model.College) (Result, error) {
	path := name
	if filepath.Base(name) == name {
		path = filepath.Join(e.dir, name)
	}
	return e.write(ctx, path, colleges)
}

func (e *Exporter) write(ctx context.Context, path string, colleges []model.College) (Result, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, colleges); err != nil {
		return Result{}, fmt.Errorf("rendering csv: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return Result{}, fmt.Errorf("creating export dir: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return Result{}, fmt.Errorf("writing %s: %w", path, err)
	}
	res := Result{Path: path}

	if e.uploader != nil {
		uri, err := e.uploader.Upload(ctx, filepath.Base(path), buf.Bytes())
		if err != nil {
			return res, fmt.Errorf("uploading %s: %w", filepath.Base(path), err)
		}
		res.RemoteURI = uri
	}

	if e.logger != nil {
		e.logger.Info("exported colleges", "path", res.Path, "remote", res.RemoteURI, "count", len(colleges))
	}
	return res, nil
}
