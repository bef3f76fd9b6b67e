package model

import "errors"

var (
	// ErrNotDesignFile: в книге нет обоих обязательных листов.
	ErrNotDesignFile = errors.New("not a design file: required sheets missing")
	// ErrMissingRating: после разбора нет мощности (rating), запись в каталог не попадает.
	ErrMissingRating = errors.New("rating field missing")
	// ErrEmptyQuery: в запросе нет ни одного сравнимого параметра.
	ErrEmptyQuery = errors.New("empty query")
	// ErrNotFound: нет записи с таким design_number.
	ErrNotFound = errors.New("design not found")
	// ErrEmptyCatalog: в каталоге нет ни одного дизайна, искать не в чем.
	ErrEmptyCatalog = errors.New("catalog is empty")
	// ErrUnsupportedFile: расширение не .xlsx/.xlsm/.xls.
	ErrUnsupportedFile = errors.New("unsupported file type")
)
