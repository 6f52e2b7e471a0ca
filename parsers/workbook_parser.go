// C:\Users\wasab\OneDrive\デスクトップ\KAIENTAI\parsers\workbook_parser.go
package parsers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	"kaientai/model"
)

// ParseWorkbook はアップロードされた表形式ファイルを生グリッドに展開します。
// 拡張子で xlsx/xlsm と CSV を振り分けます。セル値の型解釈は行わず、
// 空セルは "" のまま渡します（正規化は cells パッケージの仕事）。
func ParseWorkbook(fileName string, r io.Reader) (*model.Workbook, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".xlsx", ".xlsm":
		return parseExcelWorkbook(fileName, r)
	case ".csv", ".txt":
		return parseCSVWorkbook(fileName, r)
	default:
		return nil, fmt.Errorf("未対応のファイル形式です: %s", fileName)
	}
}

func parseExcelWorkbook(fileName string, r io.Reader) (*model.Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("Excelファイルの読み取りに失敗 (%s): %w", fileName, err)
	}
	defer f.Close()

	wb := &model.Workbook{
		FileName: fileName,
		Sheets:   map[string][]model.Row{},
	}
	// RawCellValue: 日付セルはシリアル値文字列のまま受け取る
	opt := excelize.Options{RawCellValue: true}
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name, opt)
		if err != nil {
			log.Printf("WARN: シート[%s]の読み取りエラー (スキップ): %v", name, err)
			continue
		}
		grid := make([]model.Row, len(rows))
		for i, row := range rows {
			grid[i] = model.Row(row)
		}
		wb.SheetNames = append(wb.SheetNames, name)
		wb.Sheets[name] = grid
	}
	if len(wb.SheetNames) == 0 {
		return nil, fmt.Errorf("読み取り可能なシートがありません: %s", fileName)
	}
	return wb, nil
}

// parseCSVWorkbook はCSVを1シートのワークブックとして読み込みます。
// UTF-8(BOM付き含む)とShift-JIS(CP932)の両方を受け付けます。
func parseCSVWorkbook(fileName string, r io.Reader) (*model.Workbook, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("CSVファイルの読み取りに失敗 (%s): %w", fileName, err)
	}

	var src io.Reader = SkipBOM(bytes.NewReader(raw))
	if !utf8.Valid(raw) {
		src = transform.NewReader(bytes.NewReader(raw), japanese.ShiftJIS.NewDecoder())
	}

	reader := csv.NewReader(src)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	var grid []model.Row
	line := 0
	for {
		line++
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("WARN: CSV %d行目の読み取りエラー (スキップ): %v", line, err)
			continue
		}
		grid = append(grid, model.Row(rec))
	}
	if len(grid) == 0 {
		return nil, fmt.Errorf("CSVファイルが空です: %s", fileName)
	}

	const sheetName = "Sheet1"
	return &model.Workbook{
		FileName:   fileName,
		SheetNames: []string{sheetName},
		Sheets:     map[string][]model.Row{sheetName: grid},
	}, nil
}
