package sheet

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"unicode/utf8"
)

// Reader parses a delimited spreadsheet export into header-keyed rows.
// It is the engine's "spreadsheet reader" collaborator: downstream code
// only ever sees Rows, never the raw file.
type Reader struct {
	delimiter  rune
	lazyQuotes bool
	trimSpace  bool
	headerMap  map[string]int
	headers    []string
	currentRow int
	totalRows  int
	reader     *csv.Reader
	bufReader  *bufio.Reader
}

// ReaderOption is a functional option for Reader configuration
type ReaderOption func(*Reader)

// WithDelimiter sets the field delimiter (default is comma)
func WithDelimiter(d rune) ReaderOption {
	return func(r *Reader) {
		r.delimiter = d
	}
}

// WithTrimSpace enables trimming of leading/trailing spaces from fields
func WithTrimSpace(trim bool) ReaderOption {
	return func(r *Reader) {
		r.trimSpace = trim
	}
}

// NewReader creates a new spreadsheet reader
func NewReader(r io.Reader, opts ...ReaderOption) (*Reader, error) {
	reader := &Reader{
		delimiter:  ',',
		lazyQuotes: true,
		trimSpace:  true,
		headerMap:  make(map[string]int),
	}

	for _, opt := range opts {
		opt(reader)
	}

	reader.bufReader = bufio.NewReader(r)

	// Detect and strip UTF-8 BOM
	content, err := reader.bufReader.Peek(3)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(content) >= 3 && content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		_, _ = reader.bufReader.Discard(3)
	}

	if err := validateUTF8(reader.bufReader); err != nil {
		return nil, err
	}

	reader.reader = csv.NewReader(reader.bufReader)
	reader.reader.Comma = reader.delimiter
	reader.reader.LazyQuotes = reader.lazyQuotes
	reader.reader.TrimLeadingSpace = reader.trimSpace
	reader.reader.FieldsPerRecord = -1

	return reader, nil
}

// NewReaderFromBytes creates a reader from a byte slice
func NewReaderFromBytes(data []byte, opts ...ReaderOption) (*Reader, error) {
	return NewReader(bytes.NewReader(data), opts...)
}

// validateUTF8 checks that the content is valid UTF-8
func validateUTF8(r *bufio.Reader) error {
	const checkSize = 4096
	content, err := r.Peek(checkSize)
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to read file for encoding validation: %w", err)
	}
	if len(content) == 0 {
		return ErrEmptyFile
	}
	if !utf8.Valid(content) {
		return ErrInvalidEncoding
	}
	return nil
}

// ParseHeader reads and parses the header row
func (r *Reader) ParseHeader() error {
	record, err := r.reader.Read()
	if err == io.EOF {
		return ErrMissingHeader
	}
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}

	r.headers = make([]string, len(record))
	for i, h := range record {
		header := h
		if r.trimSpace {
			header = trimSpaces(header)
		}
		r.headers[i] = header
		r.headerMap[header] = i
	}

	if len(r.headers) == 0 {
		return ErrMissingHeader
	}

	r.currentRow = 1 // header is row 1

	return nil
}

// Headers returns the parsed header names
func (r *Reader) Headers() []string {
	return r.headers
}

// HasHeader checks if a header exists
func (r *Reader) HasHeader(name string) bool {
	_, ok := r.headerMap[name]
	return ok
}

// MissingHeaders returns required headers absent from the file
func (r *Reader) MissingHeaders(required []string) []string {
	var missing []string
	for _, h := range required {
		if !r.HasHeader(h) {
			missing = append(missing, h)
		}
	}
	return missing
}

// ReadRow reads the next row
func (r *Reader) ReadRow() (*Row, error) {
	record, err := r.reader.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		r.currentRow++
		return nil, fmt.Errorf("error reading row %d: %w", r.currentRow, err)
	}

	r.currentRow++
	r.totalRows++

	row := &Row{
		LineNumber: r.currentRow,
		Data:       make(map[string]string, len(r.headers)),
	}

	for i, header := range r.headers {
		if i < len(record) {
			value := record[i]
			if r.trimSpace {
				value = trimSpaces(value)
			}
			row.Data[header] = value
		} else {
			row.Data[header] = ""
		}
	}

	return row, nil
}

// ReadAllRows reads all remaining non-empty rows
func (r *Reader) ReadAllRows() ([]*Row, error) {
	var rows []*Row
	for {
		row, err := r.ReadRow()
		if err == io.EOF {
			break
		}
		if err != nil {
			return rows, err
		}
		if row.IsEmpty() {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// CurrentRow returns the current row number (1-indexed, header included)
func (r *Reader) CurrentRow() int {
	return r.currentRow
}

// TotalRows returns the total number of data rows read
func (r *Reader) TotalRows() int {
	return r.totalRows
}

// trimSpaces trims whitespace from a string
func trimSpaces(s string) string {
	start := 0
	end := len(s)

	for start < end {
		r, size := utf8.DecodeRuneInString(s[start:])
		if !isWhitespace(r) {
			break
		}
		start += size
	}

	for end > start {
		r, size := utf8.DecodeLastRuneInString(s[:end])
		if !isWhitespace(r) {
			break
		}
		end -= size
	}

	return s[start:end]
}

// isWhitespace checks if a rune is whitespace
func isWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f', ' ':
		return true
	}
	return false
}
