// Парсер .xls: ширину листа считаем сами и читаем все ячейки до неё.
package fileio

import (
	"errors"

	xls "github.com/extrame/xls"
)

// старые книги из офиса чаще в cp1251/cp1254, но бывают и в UTF-8
var tryCharsets = []string{"utf-8", "windows-1254", "windows-1251"}

func openXLS(path string) (*xls.WorkBook, error) {
	var lastErr error
	for _, ch := range tryCharsets {
		wb, err := xls.Open(path, ch)
		if err == nil && wb != nil {
			return wb, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = errors.New("xls: failed to open workbook")
	}
	return nil, lastErr
}

// вычисляем "реальную" ширину: пробегаем разумное число колонок и ищем непустые
func computeMaxCols(sheet *xls.WorkSheet) int {
	const scanCols = 256
	maxCols := 0
	for i := 0; i <= int(sheet.MaxRow); i++ {
		r := sheet.Row(i)
		if r == nil {
			continue
		}
		for j := 0; j < scanCols; j++ {
			if normalizeCell(r.Col(j)) != "" && j+1 > maxCols {
				maxCols = j + 1
			}
		}
	}
	return maxCols
}

func readXLS(path string) ([]string, map[string]Grid, error) {
	wb, err := openXLS(path)
	if err != nil {
		return nil, nil, err
	}

	sheets := make([]string, 0, wb.NumSheets())
	grids := make(map[string]Grid, wb.NumSheets())
	for i := 0; i < wb.NumSheets(); i++ {
		sheet := wb.GetSheet(i)
		if sheet == nil {
			continue
		}
		// НЕ полагаемся на Row.LastCol()
		maxCols := computeMaxCols(sheet)
		rows := make([][]string, 0, int(sheet.MaxRow)+1)
		for r := 0; r <= int(sheet.MaxRow); r++ {
			row := sheet.Row(r)
			cols := make([]string, maxCols)
			if row != nil {
				for j := 0; j < maxCols; j++ {
					cols[j] = row.Col(j)
				}
			}
			rows = append(rows, cols)
		}
		sheets = append(sheets, sheet.Name)
		grids[sheet.Name] = rectangular(rows)
	}
	return sheets, grids, nil
}

func xlsSheetNames(path string) ([]string, error) {
	wb, err := openXLS(path)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, wb.NumSheets())
	for i := 0; i < wb.NumSheets(); i++ {
		if s := wb.GetSheet(i); s != nil {
			names = append(names, s.Name)
		}
	}
	return names, nil
}
