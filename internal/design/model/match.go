package model

// FieldScore: вклад одного атрибута в итоговую оценку.
type FieldScore struct {
	Query         Value   `json:"query"`
	Design        Value   `json:"design"`
	Score         float64 `json:"score"`
	Weight        float64 `json:"weight"`
	WeightedScore float64 `json:"weighted_score"`
}

// Match: результат поиска, живёт только в рамках одного запроса.
// Details: по имени атрибута запроса.
type Match struct {
	DesignNumber string                `json:"design_number"`
	FilePath     string                `json:"file_path"`
	Score        float64               `json:"similarity_score"`
	Details      map[string]FieldScore `json:"match_details"`
	Specs        Record                `json:"specs"`
}
