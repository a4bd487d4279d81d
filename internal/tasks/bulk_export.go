package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/desertthunder/filmax/internal/formatter"
	"github.com/desertthunder/filmax/internal/models"
	"golang.org/x/time/rate"
)

// BulkExportOpts contains configuration for exporting every page of a query.
type BulkExportOpts struct {
	Format     formatter.Format          // Export format: csv, markdown, txt
	OutputDir  string                    // Base output directory (default: filmax_export_{epoch})
	NumWorkers int                       // Concurrent workers (default: 4, max 10)
	RateLimit  float64                   // Pages dispatched per second; 0 means unlimited
	Markdown   formatter.MarkdownOptions // Poster handling for markdown pages
}

// PageExportResult is the outcome of writing one page.
type PageExportResult struct {
	Page    int      `json:"page"`
	Count   int      `json:"count"`
	Files   []string `json:"files,omitempty"`
	Success bool     `json:"success"`
	Error   string   `json:"error,omitempty"`
}

// BulkExportResult summarizes a bulk export and doubles as the manifest.
type BulkExportResult struct {
	Filter          string             `json:"filter,omitempty"`
	Sort            models.SortKey     `json:"sort"`
	Genre           string             `json:"genre"`
	Format          formatter.Format   `json:"format"`
	TotalMovies     int                `json:"total_movies"`
	TotalPages      int                `json:"total_pages"`
	SuccessfulPages int                `json:"successful_pages"`
	FailedPages     int                `json:"failed_pages"`
	OutputDirectory string             `json:"output_directory"`
	ManifestPath    string             `json:"-"`
	ExportedAt      time.Time          `json:"exported_at"`
	Results         []PageExportResult `json:"results"`
}

// BulkExport writes every page of state's query over movies. The page in state is ignored.
//
// Pages are written by a worker pool. Failed pages are recorded in the result and the manifest.
func (e *Exporter) BulkExport(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	movies []models.Movie,
	state models.QueryState,
	opts BulkExportOpts,
) (*BulkExportResult, error) {
	if opts.Format == "" {
		opts.Format = formatter.FormatCSV
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("filmax_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 4
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.Markdown.Logger == nil {
		opts.Markdown.Logger = e.logger
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	first := e.pipeline.Run(movies, state)
	result := &BulkExportResult{
		Filter:          state.Filter(),
		Sort:            state.Sort(),
		Genre:           state.Genre(),
		Format:          opts.Format,
		TotalMovies:     first.Total,
		TotalPages:      first.TotalPages,
		OutputDirectory: opts.OutputDir,
		ExportedAt:      time.Now().UTC(),
		Results:         make([]PageExportResult, 0, first.TotalPages),
	}

	e.sendProgress(prog, planUpdate(first.TotalPages, first.Total))
	e.logger.Info("bulk export started", "pages", first.TotalPages, "format", opts.Format, "dir", opts.OutputDir)

	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}
	limiter := rate.NewLimiter(limit, 1)

	jobs := make(chan int, first.TotalPages)
	results := make(chan PageExportResult, first.TotalPages)

	var wg sync.WaitGroup
	for range opts.NumWorkers {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, jobs, results, movies, state, opts, result.ExportedAt)
	}

	go func() {
		defer close(jobs)
		for page := 1; page <= first.TotalPages; page++ {
			if err := limiter.Wait(ctx); err != nil {
				return
			}
			jobs <- page
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success {
			result.SuccessfulPages++
			e.sendProgress(prog, pageExportedUpdate(completed, first.TotalPages, res.Page, len(res.Files)))
		} else {
			result.FailedPages++
			e.logger.Warn("page export failed", "page", res.Page, "error", res.Error)
			e.sendProgress(prog, pageFailedUpdate(completed, first.TotalPages, res.Page, res.Error))
		}
	}

	slices.SortFunc(result.Results, func(a, b PageExportResult) int { return a.Page - b.Page })

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("export interrupted after %d of %d pages: %w", completed, first.TotalPages, err)
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	data, err := formatter.ToJSON(result, true)
	if err != nil {
		return result, fmt.Errorf("export completed but failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(manifestPath, data, 0644); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	e.sendProgress(prog, manifestUpdate(manifestPath))

	return result, nil
}

// exportWorker writes the pages it receives from jobs.
func (e *Exporter) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan int,
	results chan<- PageExportResult,
	movies []models.Movie,
	state models.QueryState,
	opts BulkExportOpts,
	exportedAt time.Time,
) {
	defer wg.Done()

	for page := range jobs {
		if ctx.Err() != nil {
			return
		}

		s := state
		s.SetPage(page)
		res := e.pipeline.Run(movies, s)

		export := &formatter.Export{
			Filter:     s.Filter(),
			Sort:       s.Sort(),
			Genre:      s.Genre(),
			Page:       page,
			TotalPages: res.TotalPages,
			Total:      res.Total,
			ExportedAt: exportedAt,
			Movies:     res.Movies,
		}
		results <- e.exportSinglePage(export, opts)
	}
}

// exportSinglePage writes one page in the configured format.
func (e *Exporter) exportSinglePage(export *formatter.Export, opts BulkExportOpts) PageExportResult {
	result := PageExportResult{Page: export.Page, Count: len(export.Movies)}
	base := fmt.Sprintf("page_%03d", export.Page)

	switch opts.Format {
	case formatter.FormatCSV:
		csvRes, err := formatter.WriteCSVExport(export, filepath.Join(opts.OutputDir, base))
		if err != nil {
			result.Error = fmt.Sprintf("CSV export failed: %v", err)
			return result
		}
		result.Files = []string{csvRes.MoviesFile, csvRes.MetadataFile}

	case formatter.FormatMarkdown:
		mdRes, err := formatter.WriteMarkdownExport(export, filepath.Join(opts.OutputDir, base), opts.Markdown)
		if err != nil {
			result.Error = fmt.Sprintf("markdown export failed: %v", err)
			return result
		}
		result.Files = mdRes.Files

	case formatter.FormatText:
		path, err := formatter.WriteTextExport(export, filepath.Join(opts.OutputDir, base+".txt"))
		if err != nil {
			result.Error = fmt.Sprintf("text export failed: %v", err)
			return result
		}
		result.Files = []string{path}

	default:
		result.Error = fmt.Sprintf("unsupported format %q", opts.Format)
		return result
	}

	result.Success = true
	return result
}
