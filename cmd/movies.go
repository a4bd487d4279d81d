package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/filmax/internal/formatter"
	"github.com/desertthunder/filmax/internal/models"
	"github.com/desertthunder/filmax/internal/query"
	"github.com/desertthunder/filmax/internal/shared"
	"github.com/desertthunder/filmax/internal/tasks"
	"github.com/urfave/cli/v3"
)

// pageOutput is the JSON shape of one page of movies.
type pageOutput struct {
	*formatter.Export
	Movies []models.Movie `json:"movies"`
}

// MoviesList prints one page of the catalog shaped by the query flags.
func (r *Runner) MoviesList(ctx context.Context, cmd *cli.Command) error {
	state, err := queryState(cmd)
	if err != nil {
		return err
	}

	export, err := r.runQuery(ctx, state)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(pageOutput{Export: export, Movies: export.Movies}, cmd.Bool("pretty"))
	}

	return r.printPage(export)
}

// MoviesShow prints a single movie and optionally opens its trailer.
func (r *Runner) MoviesShow(ctx context.Context, cmd *cli.Command) error {
	id, err := movieID(cmd)
	if err != nil {
		return err
	}

	if err := r.catalog.Load(ctx); err != nil {
		return err
	}

	movie, err := r.catalog.Find(id)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		if err := r.writeJSON(movie, cmd.Bool("pretty")); err != nil {
			return err
		}
	} else {
		r.printMovie(movie)
	}

	if !cmd.Bool("trailer") {
		return nil
	}

	target := shared.WatchURL(movie.TrailerOrPlaceholder())
	r.logger.Info("opening trailer", "movie", movie.ID, "url", target)
	if err := r.openURL(target); err != nil {
		return fmt.Errorf("failed to open trailer: %w", err)
	}
	return nil
}

// MoviesExport writes one page of the catalog to disk in the requested format.
func (r *Runner) MoviesExport(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}

	state, err := queryState(cmd)
	if err != nil {
		return err
	}

	if cmd.Bool("all") {
		return r.exportAll(ctx, cmd, state, format)
	}

	export, err := r.runQuery(ctx, state)
	if err != nil {
		return err
	}

	output := cmd.String("output")
	r.logger.Info("exporting movies", "format", format, "page", export.Page, "count", len(export.Movies))

	switch format {
	case formatter.FormatCSV:
		result, err := formatter.WriteCSVExport(export, output)
		if err != nil {
			return err
		}
		r.writePlain("✓ Exported %d movies\n", len(export.Movies))
		r.writePlain("Movies:   %s\n", result.MoviesFile)
		r.writePlain("Metadata: %s\n", result.MetadataFile)
	case formatter.FormatMarkdown:
		result, err := formatter.WriteMarkdownExport(export, output, formatter.MarkdownOptions{
			DownloadPosters: cmd.Bool("posters"),
			Client:          r.httpClient,
			Logger:          r.logger,
		})
		if err != nil {
			return err
		}
		r.writePlain("✓ Exported %d movies to %s\n", len(export.Movies), result.Directory)
		if len(result.Posters) > 0 {
			r.writePlain("Posters: %d downloaded\n", len(result.Posters))
		}
	case formatter.FormatText:
		path, err := formatter.WriteTextExport(export, output)
		if err != nil {
			return err
		}
		r.writePlain("✓ Exported %d movies to %s\n", len(export.Movies), path)
	}

	return nil
}

// GenresList prints the genre list, "All" first.
func (r *Runner) GenresList(ctx context.Context, cmd *cli.Command) error {
	if err := r.catalog.Load(ctx); err != nil {
		return err
	}

	genres := r.catalog.Genres()
	if cmd.Bool("json") {
		return r.writeJSON(genres, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Genres (%d)", len(genres)-1))
	for _, g := range genres {
		r.writePlain("  %s\n", g)
	}
	return nil
}

// GenresShow prints one page of a single genre in catalog order.
func (r *Runner) GenresShow(ctx context.Context, cmd *cli.Command) error {
	genre := strings.TrimSpace(cmd.StringArg("name"))
	if genre == "" {
		return fmt.Errorf("%w: genre name is required", shared.ErrMissingArgument)
	}

	page := int(cmd.Int("page"))
	if page < 1 {
		return fmt.Errorf("%w: page must be at least 1", shared.ErrInvalidArgument)
	}

	if err := r.catalog.Load(ctx); err != nil {
		return err
	}

	result := query.GenrePage(r.catalog.Movies(), genre, page)
	export := &formatter.Export{
		Sort:       models.SortByTitle,
		Genre:      genre,
		Page:       page,
		TotalPages: result.TotalPages,
		Total:      result.Total,
		ExportedAt: time.Now().UTC(),
		Movies:     result.Movies,
	}

	if cmd.Bool("json") {
		return r.writeJSON(pageOutput{Export: export, Movies: export.Movies}, cmd.Bool("pretty"))
	}
	return r.printPage(export)
}

// exportAll writes every page of state's query and prints progress as pages finish.
func (r *Runner) exportAll(ctx context.Context, cmd *cli.Command, state models.QueryState, format formatter.Format) error {
	if err := r.catalog.Load(ctx); err != nil {
		return err
	}

	exporter := tasks.NewExporter(r.pipeline).WithLogger(shared.WithLogger(r.logger, "component", "export"))
	progress := make(chan tasks.ProgressUpdate, 32)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for update := range progress {
			if update.Phase == tasks.ExportPage {
				r.writePlain("[%d/%d] %s\n", update.Step, update.Total, update.Message)
			} else {
				r.writePlain("%s\n", update.Message)
			}
		}
	}()

	result, err := exporter.BulkExport(ctx, progress, r.catalog.Movies(), state, tasks.BulkExportOpts{
		Format:     format,
		OutputDir:  cmd.String("output"),
		NumWorkers: int(cmd.Int("workers")),
		Markdown: formatter.MarkdownOptions{
			DownloadPosters: cmd.Bool("posters"),
			Client:          r.httpClient,
		},
	})
	close(progress)
	<-done
	if err != nil {
		return err
	}

	r.writePlain("✓ Exported %d movies across %d pages to %s\n", result.TotalMovies, result.SuccessfulPages, result.OutputDirectory)
	if result.FailedPages > 0 {
		r.writePlain("✗ %d pages failed, see %s\n", result.FailedPages, result.ManifestPath)
	}
	return nil
}

// runQuery loads the catalog and runs state through the pipeline.
func (r *Runner) runQuery(ctx context.Context, state models.QueryState) (*formatter.Export, error) {
	if err := r.catalog.Load(ctx); err != nil {
		return nil, err
	}

	result := r.pipeline.Run(r.catalog.Movies(), state)
	r.logger.Debug("query", "filter", state.Filter(), "sort", state.Sort(), "genre", state.Genre(),
		"page", state.Page(), "total", result.Total)

	return &formatter.Export{
		Filter:     state.Filter(),
		Sort:       state.Sort(),
		Genre:      state.Genre(),
		Page:       state.Page(),
		TotalPages: result.TotalPages,
		Total:      result.Total,
		ExportedAt: time.Now().UTC(),
		Movies:     result.Movies,
	}, nil
}

func (r *Runner) printPage(export *formatter.Export) error {
	r.writePlainHeader(export.Title())
	r.writePlain("Page %d of %d • %d movies • sorted by %s\n\n", export.Page, max(export.TotalPages, 1), export.Total, export.Sort)

	if len(export.Movies) == 0 {
		return r.writePlain("No movies match.\n")
	}

	for _, m := range export.Movies {
		r.writePlain("%5d  %s (%s)", m.ID, m.Title, m.YearString())
		if len(m.Genres) > 0 {
			r.writePlain("  [%s]", strings.Join(m.Genres, ", "))
		}
		r.writePlain("\n")
	}
	return nil
}

func (r *Runner) printMovie(m models.Movie) {
	r.writePlainHeader(fmt.Sprintf("%s (%s)", m.Title, m.YearString()))

	field := func(label, value string) {
		if value != "" {
			r.writePlain("%-10s %s\n", label+":", value)
		}
	}
	field("ID", strconv.Itoa(m.ID))
	field("Director", m.Director)
	if m.Rating > 0 {
		field("Rating", fmt.Sprintf("%.1f/10", m.Rating))
	}
	field("Runtime", m.Runtime)
	field("Genres", strings.Join(m.Genres, ", "))
	field("Category", m.Category)
	field("Cast", m.Actors)
	field("Poster", m.PosterOrPlaceholder())
	field("Trailer", shared.WatchURL(m.TrailerOrPlaceholder()))
	if m.Description != "" {
		r.writePlainln("%s", m.Description)
	}
}

// queryState builds a [models.QueryState] from the query flags. Page is applied last since the other setters reset it.
func queryState(cmd *cli.Command) (models.QueryState, error) {
	state := models.NewQueryState()

	key, err := models.ParseSortKey(strings.ToLower(cmd.String("sort")))
	if err != nil {
		return state, fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}

	page := int(cmd.Int("page"))
	if page < 1 {
		return state, fmt.Errorf("%w: page must be at least 1", shared.ErrInvalidArgument)
	}

	state.SetFilter(cmd.String("filter"))
	state.SetSort(key)
	state.SetGenre(cmd.String("genre"))
	state.SetPage(page)
	return state, nil
}

func movieID(cmd *cli.Command) (int, error) {
	raw := cmd.StringArg("id")
	if raw == "" {
		return 0, fmt.Errorf("%w: movie id is required", shared.ErrMissingArgument)
	}

	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: movie id must be a positive integer, got %q", shared.ErrInvalidArgument, raw)
	}
	return id, nil
}
