package bankparser

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

type BankCode string

const (
	BankTBC BankCode = "TBC"
	BankBOG BankCode = "BOG"
)

const (
	byteOrderMark      = "\uFEFF"
	georgianDateHeader = "თარიღი"
)

// Format pairs a bank's header detector with its row mapper.
type Format struct {
	Code     BankCode
	Keywords KeywordTable

	detect func(line1, line2 string, lineCount int) bool
	mapRow func(r row, keywords KeywordTable) (NormalizedTransaction, bool)
}

// ParseResult is the outcome of mapping one CSV payload.
type ParseResult struct {
	Bank         BankCode
	Transactions []NormalizedTransaction
	Dropped      int // rows that could not be mapped
}

// CanParse reports whether content looks like a statement of this bank.
// Only the first two lines are inspected.
func (f *Format) CanParse(content string) bool {
	lines := strings.SplitN(content, "\n", 3)
	line1 := strings.ToLower(lines[0])
	var line2 string
	if len(lines) > 1 {
		line2 = strings.ToLower(lines[1])
	}
	return f.detect(line1, line2, len(lines))
}

// Parse maps every data row of content. Rows that cannot be mapped are
// dropped and counted; a CSV that cannot be tokenized fails as a whole.
func (f *Format) Parse(ctx context.Context, content string) (*ParseResult, error) {
	reader := csv.NewReader(strings.NewReader(preprocess(content)))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	result := &ParseResult{Bank: f.Code}

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return result, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s header: %w", f.Code, err)
	}
	columns := make([]string, len(header))
	for i, name := range header {
		columns[i] = strings.TrimSpace(name)
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s statement: %w", f.Code, err)
		}

		tx, ok := f.safeMapRow(newRow(columns, record))
		if !ok {
			result.Dropped++
			continue
		}
		result.Transactions = append(result.Transactions, tx)
	}

	return result, nil
}

func (f *Format) safeMapRow(r row) (tx NormalizedTransaction, ok bool) {
	defer func() {
		if recover() != nil {
			tx, ok = NormalizedTransaction{}, false
		}
	}()
	return f.mapRow(r, f.Keywords)
}

// preprocess strips a byte-order mark, normalises line endings and drops
// the Georgian line of a dual Georgian/English header.
func preprocess(content string) string {
	content = strings.TrimPrefix(content, byteOrderMark)
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.SplitN(content, "\n", 3)
	if len(lines) >= 2 && strings.Contains(lines[0], georgianDateHeader) && isEnglishHeader(lines[1]) {
		return content[len(lines[0])+1:]
	}
	return content
}

func isEnglishHeader(line string) bool {
	line = strings.ToLower(line)
	return strings.Contains(line, "date") && strings.Contains(line, "description")
}

// row is one CSV record addressed by header name.
type row map[string]string

func newRow(columns, record []string) row {
	r := make(row, len(columns))
	for i, name := range columns {
		if name == "" || i >= len(record) {
			continue
		}
		if _, seen := r[name]; seen {
			continue
		}
		r[name] = strings.TrimSpace(record[i])
	}
	return r
}

func (r row) get(column string) string {
	return r[column]
}
