package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/spacesedan/ulasan/internal/models"
	"github.com/spacesedan/ulasan/internal/utils"
)

var ErrNoCommentField = errors.New("[Pipeline] no comment column")

// Table is what a source adapter hands to the core: column names in source
// order and one map per row keyed by those names.
type Table struct {
	Source string
	Fields []string
	Rows   []map[string]string
}

var metadataAliases = struct {
	id, author, time, likes, rating, url []string
}{
	id:     []string{"id", "cid", "comment_id"},
	author: []string{"author", "username"},
	time:   []string{"time", "date"},
	likes:  []string{"likes", "votes"},
	rating: []string{"rating"},
	url:    []string{"url", "link"},
}

// SelectTextField picks the first column whose name contains "text" or
// "comment". Adapters should name their primary field explicitly; this only
// exists for sources that do not.
func SelectTextField(fields []string) (string, error) {
	for _, f := range fields {
		name := strings.ToLower(f)
		if strings.Contains(name, "text") || strings.Contains(name, "comment") {
			return f, nil
		}
	}
	return "", ErrNoCommentField
}

// FromTable converts rows into RawComments using primary as the text column.
// An empty primary falls back to SelectTextField.
func FromTable(t Table, primary string) ([]models.RawComment, error) {
	if primary == "" {
		field, err := SelectTextField(t.Fields)
		if err != nil {
			return nil, err
		}
		primary = field
	} else if !hasField(t.Fields, primary) {
		return nil, fmt.Errorf("%w: %q", ErrNoCommentField, primary)
	}

	cols := struct {
		id, author, time, likes, rating, url string
	}{
		id:     findField(t.Fields, primary, metadataAliases.id),
		author: findField(t.Fields, primary, metadataAliases.author),
		time:   findField(t.Fields, primary, metadataAliases.time),
		likes:  findField(t.Fields, primary, metadataAliases.likes),
		rating: findField(t.Fields, primary, metadataAliases.rating),
		url:    findField(t.Fields, primary, metadataAliases.url),
	}

	comments := make([]models.RawComment, 0, len(t.Rows))
	for _, row := range t.Rows {
		id := value(row, cols.id)
		if id == "" {
			id = ContentID(t.Source, row[primary])
		}
		comments = append(comments, models.RawComment{
			ID:     id,
			Source: t.Source,
			Text:   row[primary],
			Metadata: models.CommentMetadata{
				Author: value(row, cols.author),
				Time:   value(row, cols.time),
				Likes:  utils.ParseLikes(value(row, cols.likes)),
				Rating: value(row, cols.rating),
				URL:    value(row, cols.url),
			},
		})
	}
	return comments, nil
}

// ContentID derives a stable ID from a comment's source and text, so rows that
// arrive without one still dedupe across runs.
func ContentID(source, text string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(source+"\x00"+text)).String()
}

func hasField(fields []string, name string) bool {
	for _, f := range fields {
		if f == name {
			return true
		}
	}
	return false
}

// findField returns the first column matching one of aliases, ignoring case.
// The primary text column is never reused as metadata.
func findField(fields []string, primary string, aliases []string) string {
	for _, alias := range aliases {
		for _, f := range fields {
			if f != primary && strings.EqualFold(strings.TrimSpace(f), alias) {
				return f
			}
		}
	}
	return ""
}

func value(row map[string]string, field string) string {
	if field == "" {
		return ""
	}
	return strings.TrimSpace(row[field])
}
