package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/filmax/internal/formatter"
	"github.com/desertthunder/filmax/internal/models"
	"github.com/desertthunder/filmax/internal/query"
	tu "github.com/desertthunder/filmax/internal/testing"
)

func TestBulkExport(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name          string
		format        formatter.Format
		movies        int
		wantPages     int
		filesPerPage  int
		validateFiles func(t *testing.T, dir string)
	}{
		{
			name:         "csv export across pages",
			format:       formatter.FormatCSV,
			movies:       45,
			wantPages:    3,
			filesPerPage: 2,
			validateFiles: func(t *testing.T, dir string) {
				tu.AssertFileExists(t, filepath.Join(dir, "page_001_movies.csv"))
				tu.AssertFileExists(t, filepath.Join(dir, "page_003_metadata.json"))
			},
		},
		{
			name:         "text export",
			format:       formatter.FormatText,
			movies:       21,
			wantPages:    2,
			filesPerPage: 1,
			validateFiles: func(t *testing.T, dir string) {
				content := tu.MustReadFile(t, filepath.Join(dir, "page_002.txt"))
				if !strings.Contains(content, "Page 2 of 2") || !strings.Contains(content, "Movie 021") {
					t.Errorf("unexpected page 2 content:\n%s", content)
				}
			},
		},
		{
			name:         "markdown export",
			format:       formatter.FormatMarkdown,
			movies:       5,
			wantPages:    1,
			filesPerPage: 1,
			validateFiles: func(t *testing.T, dir string) {
				tu.AssertFileExists(t, filepath.Join(dir, "page_001", "README.md"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			e := NewExporter(query.New("en"))

			result, err := e.BulkExport(ctx, nil, tu.SampleMovies(tt.movies), models.NewQueryState(), BulkExportOpts{
				Format:     tt.format,
				OutputDir:  dir,
				NumWorkers: 2,
			})
			if err != nil {
				t.Fatalf("BulkExport() error = %v", err)
			}

			if result.TotalPages != tt.wantPages || result.SuccessfulPages != tt.wantPages || result.FailedPages != 0 {
				t.Errorf("unexpected counts: total=%d ok=%d failed=%d", result.TotalPages, result.SuccessfulPages, result.FailedPages)
			}
			for i, res := range result.Results {
				if res.Page != i+1 {
					t.Errorf("results not ordered by page: index %d has page %d", i, res.Page)
				}
				if len(res.Files) != tt.filesPerPage {
					t.Errorf("page %d: expected %d files, got %d", res.Page, tt.filesPerPage, len(res.Files))
				}
			}
			tt.validateFiles(t, dir)
		})
	}
}

func TestBulkExportManifest(t *testing.T) {
	dir := t.TempDir()
	state := models.NewQueryState()
	state.SetGenre("Drama")
	state.SetPage(2)

	result, err := NewExporter(nil).BulkExport(context.Background(), nil, tu.SampleMovies(30), state, BulkExportOpts{
		Format:    formatter.FormatText,
		OutputDir: dir,
	})
	if err != nil {
		t.Fatalf("BulkExport() error = %v", err)
	}

	if result.ManifestPath != filepath.Join(dir, "export_manifest.json") {
		t.Errorf("unexpected manifest path %s", result.ManifestPath)
	}

	var manifest BulkExportResult
	if err := json.Unmarshal([]byte(tu.MustReadFile(t, result.ManifestPath)), &manifest); err != nil {
		t.Fatalf("invalid manifest: %v", err)
	}
	if manifest.Genre != "Drama" || manifest.TotalMovies != 20 || manifest.TotalPages != 1 {
		t.Errorf("unexpected manifest %+v", manifest)
	}
	if len(manifest.Results) != 1 || manifest.Results[0].Count != 20 {
		t.Errorf("expected the starting page to be ignored, got %+v", manifest.Results)
	}
}

func TestBulkExportPartialFailure(t *testing.T) {
	dir := t.TempDir()
	// A directory where page 2's file should go makes that write fail.
	if err := os.MkdirAll(filepath.Join(dir, "page_002.txt"), 0755); err != nil {
		t.Fatal(err)
	}

	prog := make(chan ProgressUpdate, 16)
	result, err := NewExporter(nil).BulkExport(context.Background(), prog, tu.SampleMovies(60), models.NewQueryState(), BulkExportOpts{
		Format:    formatter.FormatText,
		OutputDir: dir,
	})
	if err != nil {
		t.Fatalf("BulkExport() error = %v", err)
	}

	if result.SuccessfulPages != 2 || result.FailedPages != 1 {
		t.Errorf("expected 2 ok and 1 failed, got %d/%d", result.SuccessfulPages, result.FailedPages)
	}
	if res := result.Results[1]; res.Success || res.Error == "" {
		t.Errorf("expected page 2 to fail with a reason, got %+v", res)
	}
	tu.AssertFileExists(t, result.ManifestPath)

	close(prog)
	var phases []Phase
	var failed bool
	for u := range prog {
		phases = append(phases, u.Phase)
		if strings.Contains(u.Message, "Failed to export page 2") {
			failed = true
		}
	}
	if len(phases) == 0 || phases[0] != PlanExport || phases[len(phases)-1] != WriteManifest {
		t.Errorf("unexpected progress phases %v", phases)
	}
	if !failed {
		t.Error("expected a failure progress update for page 2")
	}
}

func TestBulkExportNoMatches(t *testing.T) {
	dir := t.TempDir()
	state := models.NewQueryState()
	state.SetFilter("nothing matches this")

	result, err := NewExporter(nil).BulkExport(context.Background(), nil, tu.SampleMovies(10), state, BulkExportOpts{OutputDir: dir})
	if err != nil {
		t.Fatalf("BulkExport() error = %v", err)
	}
	if result.TotalPages != 0 || len(result.Results) != 0 {
		t.Errorf("expected empty export, got %+v", result)
	}
	if result.Format != formatter.FormatCSV {
		t.Errorf("expected csv default, got %s", result.Format)
	}
	tu.AssertFileExists(t, result.ManifestPath)
}

func TestBulkExportCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewExporter(nil).BulkExport(ctx, nil, tu.SampleMovies(45), models.NewQueryState(), BulkExportOpts{
		Format:    formatter.FormatText,
		OutputDir: t.TempDir(),
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestSendProgress(t *testing.T) {
	e := NewExporter(nil)

	e.sendProgress(nil, planUpdate(1, 1))

	full := make(chan ProgressUpdate)
	e.sendProgress(full, planUpdate(1, 1))

	buffered := make(chan ProgressUpdate, 1)
	e.sendProgress(buffered, manifestUpdate("m.json"))
	if u := <-buffered; u.Phase != WriteManifest || u.Phase.String() != "write_manifest" {
		t.Errorf("unexpected update %+v", u)
	}
}
