// package formatter provides functions to export a page of movies to various formats (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/filmax/internal/models"
)

// Format names an export format.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "txt"
)

// ParseFormat validates s as a [Format]. "md" and "text" are accepted as aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "txt", "text":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unsupported format %q (want csv, markdown or txt)", s)
	}
}

// Export is one page of query output plus the query that produced it.
type Export struct {
	Filter     string         `json:"filter,omitempty"`
	Sort       models.SortKey `json:"sort"`
	Genre      string         `json:"genre"`
	Page       int            `json:"page"`
	TotalPages int            `json:"total_pages"`
	Total      int            `json:"total"`
	ExportedAt time.Time      `json:"exported_at"`
	Movies     []models.Movie `json:"-"`
}

// Title is a human heading for the export.
func (e *Export) Title() string {
	title := "Filmax catalog"
	if e.Genre != "" && e.Genre != models.AllGenres {
		title += " - " + e.Genre
	}
	if e.Filter != "" {
		title += fmt.Sprintf(" matching %q", e.Filter)
	}
	return title
}

// ExportToCSV converts an Export to CSV format with columns: ID, Title, Year, Director, Rating, Genres, Trailer
func ExportToCSV(export *Export) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Year", "Director", "Rating", "Genres", "Trailer"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, movie := range export.Movies {
		record := []string{
			strconv.Itoa(movie.ID),
			movie.Title,
			yearOrEmpty(movie),
			movie.Director,
			ratingString(movie.Rating),
			strings.Join(movie.Genres, "|"),
			movie.TrailerURL,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts an Export to Markdown. posters maps movie IDs to local poster filenames;
// movies without an entry link their remote poster instead.
func ExportToMarkdown(export *Export, posters map[int]string) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", export.Title())
	fmt.Fprintf(&buf, "**Sort**: %s\n", export.Sort)
	fmt.Fprintf(&buf, "**Page**: %d of %d\n", export.Page, export.TotalPages)
	fmt.Fprintf(&buf, "**Movies**: %d\n\n", export.Total)

	buf.WriteString("## Movies\n\n")
	for _, movie := range export.Movies {
		fmt.Fprintf(&buf, "### %s (%s)\n\n", movie.Title, movie.YearString())

		poster := movie.PosterOrPlaceholder()
		if local, ok := posters[movie.ID]; ok {
			poster = local
		}
		fmt.Fprintf(&buf, "![Poster](%s)\n\n", poster)

		if movie.Director != "" {
			fmt.Fprintf(&buf, "- **Director**: %s\n", movie.Director)
		}
		if movie.Rating > 0 {
			fmt.Fprintf(&buf, "- **Rating**: %s\n", ratingString(movie.Rating))
		}
		if len(movie.Genres) > 0 {
			fmt.Fprintf(&buf, "- **Genres**: %s\n", strings.Join(movie.Genres, ", "))
		}
		fmt.Fprintf(&buf, "- **Trailer**: %s\n", movie.TrailerOrPlaceholder())

		if movie.Description != "" {
			fmt.Fprintf(&buf, "\n%s\n", movie.Description)
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// ExportToText converts an Export to plain text format
func ExportToText(export *Export) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "%s\n", export.Title())
	fmt.Fprintf(&buf, "Page %d of %d (%d movies, sorted by %s)\n\n", export.Page, export.TotalPages, export.Total, export.Sort)

	for i, movie := range export.Movies {
		fmt.Fprintf(&buf, "%d. %s (%s)", i+1, movie.Title, movie.YearString())
		if movie.Director != "" {
			fmt.Fprintf(&buf, " - %s", movie.Director)
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// ToJSON renders v as JSON, indented when pretty is set.
func ToJSON(v any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(client *http.Client, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty URL provided")
	}

	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	MoviesFile   string
	MetadataFile string
}

// WriteCSVExport exports a page to CSV format with accompanying metadata JSON file.
//
// Defaults to "movies_page{N}" as the base filename & creates {base}_movies.csv and {base}_metadata.json
func WriteCSVExport(export *Export, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = fmt.Sprintf("movies_page%d", export.Page)
	}

	csvData, err := ExportToCSV(export)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	moviesFile := baseFilepath + "_movies.csv"
	if err := os.WriteFile(moviesFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	metadataJSON, err := ToJSON(export, true)
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	metadataFile := baseFilepath + "_metadata.json"
	if err := os.WriteFile(metadataFile, metadataJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return &CSVExportResult{
		MoviesFile:   moviesFile,
		MetadataFile: metadataFile,
	}, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory string
	Files     []string
	Posters   []string
}

// MarkdownOptions controls poster handling for WriteMarkdownExport.
type MarkdownOptions struct {
	// DownloadPosters saves each movie's poster under {dir}/posters/ and links the local copy.
	DownloadPosters bool
	Client          *http.Client
	Logger          *log.Logger
}

// WriteMarkdownExport exports a page to Markdown format in a dedicated directory.
//
// Directory name defaults to "movies_page{N}".
// Creates a directory structure: {dir}/README.md and optionally {dir}/posters/{id}.jpg
// A poster that fails to download is logged and linked remotely instead.
func WriteMarkdownExport(export *Export, outputDir string, opts MarkdownOptions) (*MarkdownExportResult, error) {
	if outputDir == "" {
		outputDir = fmt.Sprintf("movies_page%d", export.Page)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	result := &MarkdownExportResult{
		Directory: outputDir,
		Files:     []string{},
	}

	posters := map[int]string{}
	if opts.DownloadPosters {
		posterDir := filepath.Join(outputDir, "posters")
		if err := os.MkdirAll(posterDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create poster directory: %w", err)
		}

		for _, movie := range export.Movies {
			if movie.PosterURL == "" {
				continue
			}

			imageData, err := DownloadImage(opts.Client, movie.PosterURL)
			if err != nil {
				logger.Warn("failed to download poster", "movie", movie.ID, "error", err)
				continue
			}

			name := fmt.Sprintf("posters/%d.jpg", movie.ID)
			path := filepath.Join(outputDir, name)
			if err := os.WriteFile(path, imageData, 0644); err != nil {
				logger.Warn("failed to save poster", "movie", movie.ID, "error", err)
				continue
			}

			posters[movie.ID] = name
			result.Posters = append(result.Posters, path)
			result.Files = append(result.Files, path)
		}
	}

	mdData, err := ExportToMarkdown(export, posters)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := filepath.Join(outputDir, "README.md")
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}

	result.Files = append(result.Files, mdFile)

	return result, nil
}

// WriteTextExport exports a page to plain text format.
//
// Defaults to movies_page{N}.txt as the filename.
func WriteTextExport(export *Export, path string) (string, error) {
	if path == "" {
		path = fmt.Sprintf("movies_page%d.txt", export.Page)
	}

	textData, err := ExportToText(export)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(path, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return path, nil
}

func yearOrEmpty(m models.Movie) string {
	if m.Year == 0 {
		return ""
	}
	return strconv.Itoa(m.Year)
}

func ratingString(r float64) string {
	if r == 0 {
		return ""
	}
	return strconv.FormatFloat(r, 'f', 1, 64)
}
