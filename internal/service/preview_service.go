package service

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/forecastapp/api/internal/apperr"
	"github.com/forecastapp/api/internal/model"
)

const (
	previewReadRows = 5
	previewShowRows = 3
)

// PreviewService reads the head of a table so the client can pick columns.
type PreviewService struct{}

func NewPreviewService() *PreviewService {
	return &PreviewService{}
}

// Preview returns the header and first rows of a .csv or .xlsx file.
func (s *PreviewService) Preview(filename string, body []byte) (*model.PreviewResponse, error) {
	const op = "preview.Preview"

	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(path.Ext(strings.ReplaceAll(filename, `\`, "/"))) {
	case ".csv":
		rows, err = readCSVHead(body, previewReadRows+1)
	case ".xlsx":
		rows, err = readXLSXHead(body, previewReadRows+1)
	default:
		return nil, apperr.New(apperr.KindValidation, op, "Unsupported file format")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, op, "Failed to preview file", err)
	}
	if len(rows) == 0 {
		return nil, apperr.New(apperr.KindValidation, op, "File is empty")
	}

	columns := rows[0]
	data := rows[1:]

	preview := make([]map[string]string, 0, previewShowRows)
	for i, row := range data {
		if i == previewShowRows {
			break
		}
		preview = append(preview, rowMap(columns, row))
	}

	var total interface{} = len(data)
	if len(data) >= previewReadRows {
		total = fmt.Sprintf("%d+ (showing first %d rows)", previewReadRows, previewReadRows)
	}

	return &model.PreviewResponse{Columns: columns, Preview: preview, TotalRows: total}, nil
}

func rowMap(columns, row []string) map[string]string {
	m := make(map[string]string, len(columns))
	for i, col := range columns {
		if i < len(row) {
			m[col] = row[i]
		} else {
			m[col] = ""
		}
	}
	return m
}

func readCSVHead(body []byte, limit int) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(body))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var rows [][]string
	for len(rows) < limit {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse csv: %w", err)
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

func readXLSXHead(body []byte, limit int) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}

	it, err := f.Rows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	defer it.Close()

	var rows [][]string
	for len(rows) < limit && it.Next() {
		cols, err := it.Columns()
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		rows = append(rows, cols)
	}
	return rows, it.Error()
}
