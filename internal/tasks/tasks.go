package tasks

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/filmax/internal/query"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	PlanExport Phase = iota
	ExportPage
	WriteManifest
)

func (p Phase) String() string {
	switch p {
	case PlanExport:
		return "plan_export"
	case ExportPage:
		return "export_page"
	case WriteManifest:
		return "write_manifest"
	default:
		return ""
	}
}

// Exporter writes query results to disk.
type Exporter struct {
	pipeline *query.Pipeline
	logger   *log.Logger
}

// NewExporter creates an [Exporter] that shapes pages with pipeline.
func NewExporter(pipeline *query.Pipeline) *Exporter {
	if pipeline == nil {
		pipeline = query.New("en")
	}
	return &Exporter{pipeline: pipeline, logger: log.New(io.Discard)}
}

// WithLogger sets the logger for export progress.
func (e *Exporter) WithLogger(l *log.Logger) *Exporter {
	if l != nil {
		e.logger = l
	}
	return e
}

// sendProgress sends a progress update through the channel without blocking.
func (e *Exporter) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func planUpdate(pages, movies int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PlanExport,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Exporting %d movies across %d pages...", movies, pages),
	}
}

func pageExportedUpdate(step, total, page, files int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportPage,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Exported page %d (%d files)", page, files),
		Data:    page,
	}
}

func pageFailedUpdate(step, total, page int, reason string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportPage,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Failed to export page %d: %s", page, reason),
		Data:    page,
	}
}

func manifestUpdate(path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteManifest,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Wrote manifest %s", path),
	}
}
