// Package export renders a cleaned JSON result as a downloadable file.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/xuri/excelize/v2"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported export format")
	// ErrNotTabular is returned when the result cannot be laid out as rows.
	ErrNotTabular = errors.New("result is not tabular")
)

// Format is an export file type.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatJSON Format = "json"
)

const sheetName = "Cleaned data"

// File is a rendered export.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// ParseFormat accepts csv, xlsx or json in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatXLSX, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// Render converts raw into the requested format. csv and xlsx need an
// array of objects or a single object; json accepts any value.
func Render(format Format, raw json.RawMessage) (*File, error) {
	switch format {
	case FormatJSON:
		var buf bytes.Buffer
		if err := json.Indent(&buf, raw, "", "  "); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNotTabular, err)
		}
		return &File{Name: "cleaned_data.json", ContentType: "application/json", Data: buf.Bytes()}, nil
	case FormatCSV:
		t, err := tabulate(raw)
		if err != nil {
			return nil, err
		}
		data, err := t.csv()
		if err != nil {
			return nil, err
		}
		return &File{Name: "cleaned_data.csv", ContentType: "text/csv; charset=utf-8", Data: data}, nil
	case FormatXLSX:
		t, err := tabulate(raw)
		if err != nil {
			return nil, err
		}
		data, err := t.xlsx()
		if err != nil {
			return nil, err
		}
		return &File{
			Name:        "cleaned_data.xlsx",
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Data:        data,
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// table keeps columns in first-seen order across all rows.
type table struct {
	headers []string
	rows    []map[string]string
}

func tabulate(raw json.RawMessage) (*table, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotTabular, err)
	}
	t := &table{}
	seen := map[string]bool{}

	switch tok {
	case json.Delim('['):
		for dec.More() {
			if err := t.readObject(dec, seen); err != nil {
				return nil, err
			}
		}
		if _, err := dec.Token(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNotTabular, err)
		}
	case json.Delim('{'):
		if err := t.readFields(dec, seen); err != nil {
			return nil, err
		}
	default:
		return nil, ErrNotTabular
	}
	return t, nil
}

func (t *table) readObject(dec *json.Decoder, seen map[string]bool) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotTabular, err)
	}
	if tok != json.Delim('{') {
		return fmt.Errorf("%w: array element is not an object", ErrNotTabular)
	}
	return t.readFields(dec, seen)
}

// readFields consumes the members of an object whose opening brace was already read.
func (t *table) readFields(dec *json.Decoder, seen map[string]bool) error {
	row := map[string]string{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrNotTabular, err)
		}
		key, _ := tok.(string)
		var v json.RawMessage
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("%w: %v", ErrNotTabular, err)
		}
		if !seen[key] {
			seen[key] = true
			t.headers = append(t.headers, key)
		}
		row[key] = cell(v)
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("%w: %v", ErrNotTabular, err)
	}
	t.rows = append(t.rows, row)
	return nil
}

// cell renders strings unquoted, null as empty, and anything else as compact JSON.
func cell(v json.RawMessage) string {
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s
	}
	if string(v) == "null" {
		return ""
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, v); err != nil {
		return string(v)
	}
	return buf.String()
}

func (t *table) record(row map[string]string) []string {
	rec := make([]string, len(t.headers))
	for i, h := range t.headers {
		rec[i] = row[h]
	}
	return rec
}

func (t *table) csv() ([]byte, error) {
	var buf bytes.Buffer
	if err := t.writeCSV(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (t *table) writeCSV(w io.Writer) error {
	cw := gocsv.NewSafeCSVWriter(csv.NewWriter(w))
	if err := cw.Write(t.headers); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range t.rows {
		if err := cw.Write(t.record(row)); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func (t *table) xlsx() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	write := func(col, row int, v string) error {
		name, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		return f.SetCellValue(sheetName, name, v)
	}
	for i, h := range t.headers {
		if err := write(i+1, 1, h); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}
	for r, row := range t.rows {
		for c, v := range t.record(row) {
			if err := write(c+1, r+2, v); err != nil {
				return nil, fmt.Errorf("write cell: %w", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
