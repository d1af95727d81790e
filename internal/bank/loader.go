package bank

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrEmptyBank is returned when no question records could be loaded.
var ErrEmptyBank = errors.New("no questions found in bank")

// MissingColumnError reports a bank file whose header lacks a required column.
type MissingColumnError struct {
	Source string
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("%s: missing required column %q", e.Source, e.Column)
}

// Load reads a bank from path. A directory is scanned for *.csv files;
// anything else is read as a single CSV file.
func Load(path string) (*Bank, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat bank path: %w", err)
	}
	if info.IsDir() {
		return LoadDir(path)
	}

	records, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return &Bank{Records: records, Files: []string{path}}, nil
}

// LoadDir reads every *.csv file in dir and concatenates their rows.
// Files that cannot be read are skipped and reported in Bank.Warnings.
func LoadDir(dir string) (*Bank, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, fmt.Errorf("glob bank dir: %w", err)
	}
	sort.Strings(files)

	b := &Bank{}
	for _, f := range files {
		records, err := LoadFile(f)
		if err != nil {
			b.Warnings = append(b.Warnings, fmt.Sprintf("could not read %s: %v", f, err))
			continue
		}
		b.Records = append(b.Records, records...)
		b.Files = append(b.Files, f)
	}
	return b, nil
}

// LoadFile reads a single CSV bank file.
func LoadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open bank file: %w", err)
	}
	defer f.Close()

	return ReadCSV(f, filepath.Base(path))
}

// ReadCSV parses CSV rows from r. The first row must be a header naming the
// columns; column order is free and unknown columns are ignored.
func ReadCSV(r io.Reader, source string) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: read header: %w", source, err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, &MissingColumnError{Source: source, Column: col}
		}
	}

	cell := func(row []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	var records []Record
	for rowNum := 1; ; rowNum++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: row %d: %w", source, rowNum, err)
		}
		if isBlankRow(row) {
			continue
		}
		records = append(records, Record{
			Question:       cell(row, ColQuestion),
			Options:        cell(row, ColOptions),
			CorrectAnswers: cell(row, ColCorrectAnswers),
			AnswerLink:     cell(row, ColAnswerLink),
			Images:         cell(row, ColImages),
			Source:         source,
			Row:            rowNum,
		})
	}
	return records, nil
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
