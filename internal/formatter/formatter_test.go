package formatter

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/filmax/internal/models"
	th "github.com/desertthunder/filmax/internal/testing"
)

func sampleExport() *Export {
	return &Export{
		Filter:     "al",
		Sort:       models.SortByTitle,
		Genre:      "Horror",
		Page:       1,
		TotalPages: 1,
		Total:      2,
		ExportedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		Movies: []models.Movie{
			{
				ID:          2,
				Title:       "Alien",
				Year:        1979,
				Director:    "Ridley Scott",
				Rating:      8.5,
				Genres:      []string{"Horror", "Sci-Fi"},
				PosterURL:   "https://img.example/alien.jpg",
				TrailerURL:  "https://www.youtube.com/embed/abc",
				Description: "In space, no one can hear you scream.",
			},
			{
				ID:     7,
				Title:  "Hall, the",
				Genres: []string{"Horror"},
			},
		},
	}
}

func TestParseFormat(t *testing.T) {
	tc := []struct {
		in   string
		want Format
	}{
		{"csv", FormatCSV},
		{"CSV", FormatCSV},
		{"markdown", FormatMarkdown},
		{"md", FormatMarkdown},
		{"txt", FormatText},
		{"text", FormatText},
	}

	for _, tt := range tc {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if err != nil || got != tt.want {
				t.Errorf("ParseFormat(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
			}
		})
	}

	if _, err := ParseFormat("pdf"); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestExporters(t *testing.T) {
	t.Run("Title", func(t *testing.T) {
		if got := sampleExport().Title(); got != `Filmax catalog - Horror matching "al"` {
			t.Errorf("unexpected title %q", got)
		}
		if got := (&Export{Genre: models.AllGenres}).Title(); got != "Filmax catalog" {
			t.Errorf("unexpected title %q", got)
		}
	})

	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(sampleExport())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "ID,Title,Year,Director,Rating,Genres,Trailer") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "2,Alien,1979,Ridley Scott,8.5,Horror|Sci-Fi,https://www.youtube.com/embed/abc") {
			t.Errorf("CSV missing Alien row, got: %s", output)
		}
		if !strings.Contains(output, `7,"Hall, the",,,,Horror,`) {
			t.Errorf("CSV should quote commas and leave missing fields blank, got: %s", output)
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		t.Run("with remote posters", func(t *testing.T) {
			data, err := ExportToMarkdown(sampleExport(), nil)
			if err != nil {
				t.Fatalf("ExportToMarkdown failed: %v", err)
			}

			output := string(data)
			for _, want := range []string{
				`# Filmax catalog - Horror matching "al"`,
				"**Page**: 1 of 1",
				"### Alien (1979)",
				"![Poster](https://img.example/alien.jpg)",
				"- **Rating**: 8.5",
				"- **Genres**: Horror, Sci-Fi",
				"In space, no one can hear you scream.",
				"### Hall, the (n/a)",
				"![Poster](" + models.PlaceholderPoster + ")",
				"- **Trailer**: " + models.PlaceholderTrailer,
			} {
				if !strings.Contains(output, want) {
					t.Errorf("Markdown missing %q, got:\n%s", want, output)
				}
			}
		})

		t.Run("with local posters", func(t *testing.T) {
			data, _ := ExportToMarkdown(sampleExport(), map[int]string{2: "posters/2.jpg"})
			if !strings.Contains(string(data), "![Poster](posters/2.jpg)") {
				t.Errorf("expected local poster link, got:\n%s", data)
			}
		})
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(sampleExport())
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "Page 1 of 1 (2 movies, sorted by title)") {
			t.Errorf("text missing summary, got: %s", output)
		}
		if !strings.Contains(output, "1. Alien (1979) - Ridley Scott\n") {
			t.Errorf("text missing first movie, got: %s", output)
		}
		if !strings.Contains(output, "2. Hall, the (n/a)\n") {
			t.Errorf("text missing second movie, got: %s", output)
		}
	})

	t.Run("ToJSON", func(t *testing.T) {
		data, err := ToJSON(sampleExport(), false)
		if err != nil {
			t.Fatalf("ToJSON failed: %v", err)
		}

		var meta map[string]any
		if err := json.Unmarshal(data, &meta); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if meta["genre"] != "Horror" || meta["total"] != float64(2) {
			t.Errorf("unexpected metadata %v", meta)
		}
		if _, ok := meta["Movies"]; ok {
			t.Error("metadata should not embed movies")
		}

		pretty, _ := ToJSON(map[string]int{"a": 1}, true)
		if !strings.Contains(string(pretty), "\n  \"a\": 1") {
			t.Errorf("expected indented JSON, got %s", pretty)
		}
	})
}

func TestDownloadImage(t *testing.T) {
	t.Run("EmptyURL", func(t *testing.T) {
		if _, err := DownloadImage(nil, ""); err == nil {
			t.Error("expected error for empty URL")
		}
	})

	t.Run("Success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("jpeg-bytes"))
		}))
		defer server.Close()

		data, err := DownloadImage(server.Client(), server.URL)
		if err != nil || string(data) != "jpeg-bytes" {
			t.Errorf("DownloadImage() = %q, %v", data, err)
		}
	})

	t.Run("BadStatus", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		if _, err := DownloadImage(nil, server.URL); err == nil || !strings.Contains(err.Error(), "status 404") {
			t.Errorf("expected status error, got %v", err)
		}
	})
}

func TestWriters(t *testing.T) {
	t.Run("WriteCSVExport", func(t *testing.T) {
		t.Run("WithDefaultPath", func(t *testing.T) {
			t.Chdir(t.TempDir())

			result, err := WriteCSVExport(sampleExport(), "")
			if err != nil {
				t.Fatalf("WriteCSVExport failed: %v", err)
			}

			if result.MoviesFile != "movies_page1_movies.csv" {
				t.Errorf("unexpected movies file %s", result.MoviesFile)
			}
			th.AssertFileExists(t, result.MoviesFile)
			th.AssertFileExists(t, result.MetadataFile)

			if content := th.MustReadFile(t, result.MetadataFile); !strings.Contains(content, `"total_pages": 1`) {
				t.Errorf("metadata missing total_pages, got %s", content)
			}
		})

		t.Run("WithCustomPath", func(t *testing.T) {
			base := filepath.Join(t.TempDir(), "horror")

			result, err := WriteCSVExport(sampleExport(), base)
			if err != nil {
				t.Fatalf("WriteCSVExport failed: %v", err)
			}
			th.AssertFileExists(t, base+"_movies.csv")
			th.AssertFileExists(t, result.MetadataFile)
		})

		t.Run("UnwritablePath", func(t *testing.T) {
			if _, err := WriteCSVExport(sampleExport(), filepath.Join(t.TempDir(), "missing", "x")); err == nil {
				t.Error("expected error writing into a missing directory")
			}
		})
	})

	t.Run("WriteMarkdownExport", func(t *testing.T) {
		t.Run("WithDefaultDirectory", func(t *testing.T) {
			t.Chdir(t.TempDir())

			result, err := WriteMarkdownExport(sampleExport(), "", MarkdownOptions{})
			if err != nil {
				t.Fatalf("WriteMarkdownExport failed: %v", err)
			}

			th.AssertDirExists(t, result.Directory)
			readme := filepath.Join(result.Directory, "README.md")
			th.AssertFileExists(t, readme)
			if len(result.Posters) != 0 {
				t.Errorf("expected no posters, got %v", result.Posters)
			}
		})

		t.Run("WithPosters", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path == "/broken.jpg" {
					w.WriteHeader(http.StatusInternalServerError)
					return
				}
				w.Write([]byte("poster"))
			}))
			defer server.Close()

			export := sampleExport()
			export.Movies[0].PosterURL = server.URL + "/alien.jpg"
			export.Movies[1].PosterURL = server.URL + "/broken.jpg"

			dir := filepath.Join(t.TempDir(), "out")
			result, err := WriteMarkdownExport(export, dir, MarkdownOptions{
				DownloadPosters: true,
				Client:          server.Client(),
				Logger:          log.New(&strings.Builder{}),
			})
			if err != nil {
				t.Fatalf("WriteMarkdownExport failed: %v", err)
			}

			if len(result.Posters) != 1 {
				t.Fatalf("expected one downloaded poster, got %v", result.Posters)
			}
			th.AssertFileExists(t, filepath.Join(dir, "posters", "2.jpg"))

			content := th.MustReadFile(t, filepath.Join(dir, "README.md"))
			if !strings.Contains(content, "![Poster](posters/2.jpg)") {
				t.Errorf("expected local poster link, got:\n%s", content)
			}
			if !strings.Contains(content, "![Poster]("+server.URL+"/broken.jpg)") {
				t.Errorf("expected remote fallback for failed poster, got:\n%s", content)
			}
		})
	})

	t.Run("WriteTextExport", func(t *testing.T) {
		t.Run("WithDefaultPath", func(t *testing.T) {
			t.Chdir(t.TempDir())

			path, err := WriteTextExport(sampleExport(), "")
			if err != nil {
				t.Fatalf("WriteTextExport failed: %v", err)
			}
			if path != "movies_page1.txt" {
				t.Errorf("unexpected path %s", path)
			}
			if content := th.MustReadFile(t, path); !strings.Contains(content, "Alien") {
				t.Errorf("text export missing Alien, got %s", content)
			}
		})

		t.Run("WithCustomPath", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "page.txt")
			if _, err := WriteTextExport(sampleExport(), path); err != nil {
				t.Fatalf("WriteTextExport failed: %v", err)
			}
			th.AssertFileExists(t, path)
		})
	})
}
