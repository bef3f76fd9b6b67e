package fileio

import (
	excelize "github.com/xuri/excelize/v2"
)

func readXLSX(path string) ([]string, map[string]Grid, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	grids := make(map[string]Grid, len(sheets))
	for _, name := range sheets {
		// сырые значения: "11000", а не "11,000" по формату ячейки
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, nil, err
		}
		grids[name] = rectangular(rows)
	}
	return sheets, grids, nil
}

func xlsxSheetNames(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.GetSheetList(), nil
}
