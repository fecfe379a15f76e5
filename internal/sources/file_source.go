package sources

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spacesedan/ulasan/internal/pipeline"
)

// FileSource reads comments from a CSV file with a header row, or from JSON
// (an array of objects, or one object per line as the downloader CLIs write).
type FileSource struct {
	platform string
}

func NewFileSource(platform string) *FileSource {
	return &FileSource{platform: platform}
}

// Fetch reads the file at path. ctx is only checked before reading.
func (fs *FileSource) Fetch(ctx context.Context, path string, limit int) (pipeline.Table, error) {
	if err := ctx.Err(); err != nil {
		return pipeline.Table{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return pipeline.Table{}, fmt.Errorf("[FileSource] failed to open %q: %w", path, err)
	}
	defer f.Close()

	return ReadTable(f, formatFor(path), fs.platform, limit)
}

func formatFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonl", ".ndjson":
		return "json"
	default:
		return "csv"
	}
}

// ReadTable parses r as "csv" or "json". An empty format is detected from the
// first non-blank byte.
func ReadTable(r io.Reader, format, platform string, limit int) (pipeline.Table, error) {
	var (
		t   pipeline.Table
		err error
	)
	if format == "" {
		br := bufio.NewReader(r)
		format = sniffFormat(br)
		r = br
	}
	switch format {
	case "json":
		t, err = readJSON(r, limit)
	case "csv":
		t, err = readCSV(r, limit)
	default:
		return pipeline.Table{}, fmt.Errorf("[FileSource] unknown format %q", format)
	}
	t.Source = platform
	return t, err
}

func sniffFormat(br *bufio.Reader) string {
	head, _ := br.Peek(512)
	head = bytes.TrimLeft(bytes.TrimPrefix(head, utf8BOM), " \t\r\n")
	if len(head) > 0 && (head[0] == '{' || head[0] == '[') {
		return "json"
	}
	return "csv"
}

var utf8BOM = []byte("\xef\xbb\xbf")

func skipBOM(r io.Reader) *bufio.Reader {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	return br
}

// readCSV skips rows that fail to parse or whose column count does not match
// the header instead of failing the whole file. A read error from r stops it.
func readCSV(r io.Reader, limit int) (pipeline.Table, error) {
	cr := csv.NewReader(skipBOM(r))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return pipeline.Table{}, nil
		}
		return pipeline.Table{}, fmt.Errorf("[FileSource] failed to read CSV header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	t := pipeline.Table{Fields: header}
	skipped := 0
	for limit <= 0 || len(t.Rows) < limit {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if !errors.As(err, &parseErr) {
				return t, fmt.Errorf("[FileSource] failed to read CSV after %d rows: %w", len(t.Rows), err)
			}
			skipped++
			continue
		}
		if len(record) != len(header) {
			skipped++
			continue
		}

		row := make(map[string]string, len(header))
		for i, name := range header {
			row[name] = record[i]
		}
		t.Rows = append(t.Rows, row)
	}

	if skipped > 0 {
		slog.Warn("[FileSource] Skipped malformed CSV rows", slog.Int("skipped", skipped))
	}
	return t, nil
}

// readJSON accepts a stream of objects, optionally wrapped in a top-level
// array. Field order follows first appearance in the input.
func readJSON(r io.Reader, limit int) (pipeline.Table, error) {
	dec := json.NewDecoder(skipBOM(r))
	dec.UseNumber()

	t := pipeline.Table{}
	seen := map[string]bool{}

	for limit <= 0 || len(t.Rows) < limit {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return t, fmt.Errorf("[FileSource] invalid JSON: %w", err)
		}

		delim, ok := tok.(json.Delim)
		if !ok {
			return t, fmt.Errorf("[FileSource] expected object, got %v", tok)
		}
		switch delim {
		case '[', ']':
			continue
		case '{':
		default:
			return t, fmt.Errorf("[FileSource] unexpected %q", delim)
		}

		row, keys, err := readObject(dec)
		if err != nil {
			return t, err
		}
		for _, k := range keys {
			if !seen[k] {
				seen[k] = true
				t.Fields = append(t.Fields, k)
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// readObject reads the members of an object whose opening brace has already
// been consumed. Nested values are kept as their JSON text.
func readObject(dec *json.Decoder) (map[string]string, []string, error) {
	row := map[string]string{}
	var keys []string

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, fmt.Errorf("[FileSource] invalid JSON key: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("[FileSource] expected key, got %v", tok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, nil, fmt.Errorf("[FileSource] invalid value for %q: %w", key, err)
		}

		if _, dup := row[key]; !dup {
			keys = append(keys, key)
		}
		row[key] = rawToString(raw)
	}

	// closing brace
	if _, err := dec.Token(); err != nil {
		return nil, nil, fmt.Errorf("[FileSource] unterminated object: %w", err)
	}
	return row, keys, nil
}

func rawToString(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	switch {
	case len(trimmed) == 0, bytes.Equal(trimmed, []byte("null")):
		return ""
	case trimmed[0] == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return s
		}
	}
	return string(trimmed)
}
