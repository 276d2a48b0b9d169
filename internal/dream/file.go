package dream

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/language"
)

// Load reads a dictionary file. The format follows the extension:
// ".json" holds an array of {"term","description","summary"} objects, ".csv"
// has a header row with Term and Details columns and an optional Summary.
// A file without entries is an error.
func Load(path string, lang language.Tag) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var entries []Entry
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		entries, err = decodeJSON(f)
	case ".csv":
		entries, err = decodeCSV(f)
	default:
		return nil, fmt.Errorf("unsupported dictionary format %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("parse %s: dictionary has no entries", filepath.Base(path))
	}

	return NewDictionary(lang, entries...)
}

func decodeJSON(r io.Reader) ([]Entry, error) {
	var entries []Entry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func decodeCSV(r io.Reader) ([]Entry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("missing header row")
		}
		return nil, err
	}

	termCol, detailsCol, summaryCol := -1, -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "term":
			termCol = i
		case "details", "description":
			detailsCol = i
		case "summary":
			summaryCol = i
		}
	}
	if termCol < 0 || detailsCol < 0 {
		return nil, fmt.Errorf("header must contain Term and Details columns")
	}

	var entries []Entry
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if termCol >= len(record) || detailsCol >= len(record) {
			return nil, fmt.Errorf("line %d: expected at least %d fields", line, max(termCol, detailsCol)+1)
		}
		entry := Entry{
			Term:        record[termCol],
			Description: record[detailsCol],
		}
		if summaryCol >= 0 && summaryCol < len(record) {
			entry.Summary = record[summaryCol]
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
