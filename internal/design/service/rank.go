package service

import (
	"sort"

	"trafo-matcher/internal/design/model"
)

// Rank: оценивает весь каталог, отбрасывает всё ниже minScore,
// сортирует по убыванию оценки (при равенстве по design_number) и режет до maxResults.
// Оценка в ответе и порог: округлённая до 4 знаков; сортировка по точной.
func (s *Scorer) Rank(q model.Query, records []model.Record, maxResults int, minScore float64) []model.Match {
	if maxResults <= 0 {
		return []model.Match{}
	}

	type scored struct {
		raw     float64
		details map[string]model.FieldScore
		rec     model.Record
	}
	hits := make([]scored, 0, len(records))
	for _, r := range records {
		score, details := s.Score(q, r)
		// порог сравнивается с той оценкой, которую увидит клиент
		if round(score, 4) < minScore {
			continue
		}
		hits = append(hits, scored{raw: score, details: details, rec: r})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].raw != hits[j].raw {
			return hits[i].raw > hits[j].raw
		}
		return hits[i].rec.DesignNumber < hits[j].rec.DesignNumber
	})
	if len(hits) > maxResults {
		hits = hits[:maxResults]
	}

	out := make([]model.Match, 0, len(hits))
	for _, h := range hits {
		out = append(out, model.Match{
			DesignNumber: h.rec.DesignNumber,
			FilePath:     h.rec.FilePath,
			Score:        round(h.raw, 4),
			Details:      h.details,
			Specs:        h.rec,
		})
	}
	return out
}
