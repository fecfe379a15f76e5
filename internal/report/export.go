package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spacesedan/ulasan/internal/models"
)

var csvHeader = []string{
	"id", "source", "author", "time", "likes", "rating", "url",
	"original_text", "root_words", "clean_text", "sentiment", "emotion",
}

// WriteCSV writes one row per comment. root_words is space separated and an
// unlabeled emotion is an empty cell.
func WriteCSV(w io.Writer, comments []models.LabeledComment) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("[Report] failed to write CSV header: %w", err)
	}

	for _, c := range comments {
		record := []string{
			c.ID,
			c.Source,
			c.Metadata.Author,
			c.Metadata.Time,
			strconv.Itoa(c.Metadata.Likes),
			c.Metadata.Rating,
			c.Metadata.URL,
			c.OriginalText,
			strings.Join(c.RootWords, " "),
			c.CleanText,
			string(c.Sentiment),
			string(c.Emotion),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("[Report] failed to write CSV row %s: %w", c.ID, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("[Report] failed to flush CSV: %w", err)
	}
	return nil
}

func WriteJSON(w io.Writer, comments []models.LabeledComment) error {
	if comments == nil {
		comments = []models.LabeledComment{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(comments); err != nil {
		return fmt.Errorf("[Report] failed to encode JSON: %w", err)
	}
	return nil
}
