// package formatter provides functions to export the watchlist to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/desertthunder/watchlist/internal/models"
	"github.com/desertthunder/watchlist/internal/shared"
)

// Watchlist is the exported view of the store: the owner's display name and the movies in insertion order.
type Watchlist struct {
	Owner  string
	Movies []*models.Movie
}

// Format names an export format.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "txt"
)

// Extension returns the file extension used for f.
func (f Format) Extension() string {
	switch f {
	case FormatMarkdown:
		return "md"
	default:
		return string(f)
	}
}

// ParseFormat accepts "csv", "markdown" (or "md") and "txt" (or "text").
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "txt", "text":
		return FormatText, nil
	}
	return "", fmt.Errorf("%w: unknown format %q (use csv, markdown or txt)", shared.ErrInvalidArgument, s)
}

// Export renders w in format f.
func Export(w Watchlist, f Format) ([]byte, error) {
	switch f {
	case FormatCSV:
		return ExportToCSV(w)
	case FormatMarkdown:
		return ExportToMarkdown(w)
	case FormatText:
		return ExportToText(w)
	}
	return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, f)
}

// ExportToCSV converts a Watchlist to CSV format with columns: ID, Title, Year
func ExportToCSV(w Watchlist) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Year"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, movie := range w.Movies {
		record := []string{fmt.Sprint(movie.ID), movie.Title, movie.Year}
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

// ExportToMarkdown converts a Watchlist to a Markdown document with a numbered movie list
func ExportToMarkdown(w Watchlist) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", title(w))
	fmt.Fprintf(&buf, "**Titles**: %d\n\n", len(w.Movies))

	buf.WriteString("## Movies\n\n")
	for i, movie := range w.Movies {
		fmt.Fprintf(&buf, "%d. %s\n", i+1, movie)
	}

	return buf.Bytes(), nil
}

// ExportToText converts a Watchlist to plain text format
func ExportToText(w Watchlist) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "%s\n", title(w))
	fmt.Fprintf(&buf, "Titles: %d\n\n", len(w.Movies))

	for i, movie := range w.Movies {
		fmt.Fprintf(&buf, "%d. %s\n", i+1, movie)
	}

	return buf.Bytes(), nil
}

func title(w Watchlist) string {
	if w.Owner == "" {
		return "Watchlist"
	}
	return w.Owner + "'s Watchlist"
}

// WriteExport renders w in format f and writes it to path.
//
// Defaults to watchlist.{ext} as the filename.
func WriteExport(w Watchlist, f Format, path string) (string, error) {
	if path == "" {
		path = "watchlist." + f.Extension()
	}

	data, err := Export(w, f)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s: %w", f, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}
