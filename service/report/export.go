package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/scheduler/model/process"
	"github.com/viant/scheduler/service/dispatcher"
)

// Document is the exported form of a drain.
type Document struct {
	Summary   *dispatcher.Summary `json:"summary,omitempty"`
	Processes []process.Snapshot  `json:"processes"`
}

// Exporter writes documents through afs.
type Exporter struct {
	fs afs.Service
}

// NewExporter creates an exporter; a nil fs uses afs.New().
func NewExporter(fs afs.Service) *Exporter {
	if fs == nil {
		fs = afs.New()
	}
	return &Exporter{fs: fs}
}

// Export uploads doc as indented JSON to URL.
func (e *Exporter) Export(ctx context.Context, URL string, doc *Document) error {
	if URL == "" {
		return fmt.Errorf("report URL was empty")
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err = e.fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to upload report to %v: %w", URL, err)
	}
	return nil
}
