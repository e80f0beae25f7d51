package upload

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"marketmood/internal/normalize"
)

// Parse converts an uploaded file into raw records, picking the parser from
// the file extension. Supported: .csv, .json, .xml, .rss.
func Parse(filename string, data []byte) ([]normalize.Record, error) {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), ".")) {
	case "csv":
		return parseCSV(data)
	case "json":
		return parseJSON(data)
	case "xml", "rss":
		return parseRSS(data)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", filename)
	}
}

// parseCSV maps each row to a record keyed by the header row.
func parseCSV(data []byte) ([]normalize.Record, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv parse: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := rows[0]
	records := make([]normalize.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := normalize.Record{}
		for i, field := range row {
			if i < len(header) {
				record[strings.TrimSpace(header[i])] = field
			}
		}
		records = append(records, record)
	}

	return records, nil
}

// parseJSON accepts either an array of objects or a single object.
func parseJSON(data []byte) ([]normalize.Record, error) {
	var objects []map[string]any

	if err := json.Unmarshal(data, &objects); err != nil {
		var single map[string]any
		if err := json.Unmarshal(data, &single); err != nil {
			return nil, fmt.Errorf("json parse: %w", err)
		}
		objects = []map[string]any{single}
	}

	records := make([]normalize.Record, 0, len(objects))
	for _, obj := range objects {
		record := normalize.Record{}
		for k, v := range obj {
			switch val := v.(type) {
			case string:
				record[k] = val
			case float64, bool:
				record[k] = fmt.Sprintf("%v", val)
			}
		}
		records = append(records, record)
	}

	return records, nil
}

func parseRSS(data []byte) ([]normalize.Record, error) {
	parsed, err := gofeed.NewParser().Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("rss parse: %w", err)
	}

	records := make([]normalize.Record, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		record := normalize.Record{
			"title":   item.Title,
			"summary": item.Description,
			"url":     item.Link,
		}
		if item.PublishedParsed != nil {
			record["published"] = item.PublishedParsed.UTC().Format(time.RFC3339)
		} else {
			record["published"] = item.Published
		}
		records = append(records, record)
	}

	return records, nil
}
