package nlquery

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"trafo-matcher/internal/design/model"
)

// Completer: то, что умеет ответить текстом на промпт (Client или фейк в тестах).
type Completer interface {
	Complete(ctx context.Context, op, prompt string, temperature float32, maxTokens int) (string, error)
}

// Parser: источник параметров запроса: сначала регулярные выражения,
// затем модель добавляет только те ключи, которых регулярки не нашли.
// Без модели (llm == nil или недоступна) работает только регулярный разбор.
type Parser struct {
	llm    Completer
	logger zerolog.Logger
}

func NewParser(llm Completer, logger zerolog.Logger) *Parser {
	return &Parser{llm: llm, logger: logger.With().Str("component", "nlquery").Logger()}
}

// Extract: параметры из текста; пустые значения отброшены.
func (p *Parser) Extract(ctx context.Context, text string) map[string]any {
	params := ExtractRegex(text)
	if p.llm == nil {
		return params
	}

	raw, err := p.llm.Complete(ctx, "extract", buildExtractionPrompt(text), 0.1, 500)
	if err != nil {
		p.logger.Warn().Err(err).Msg("llm extraction failed, regex only")
		return params
	}
	llmParams := parseJSONObject(raw)
	added := 0
	for k, v := range llmParams {
		if _, ok := params[k]; ok {
			continue
		}
		params[k] = v
		added++
	}
	p.logger.Debug().Int("regex", len(params)-added).Int("llm_added", added).Msg("parameters extracted")
	return params
}

// Explain: пояснение от модели; при недоступности, шаблонный текст.
func (p *Parser) Explain(ctx context.Context, text string, params map[string]any, matches []model.Match) string {
	if len(matches) == 0 {
		return "No designs match the given criteria."
	}
	fallback := simpleExplanation(params, matches)
	if p.llm == nil {
		return fallback
	}
	out, err := p.llm.Complete(ctx, "explain", buildExplanationPrompt(text, params, matches), 0.7, 300)
	if err != nil {
		p.logger.Warn().Err(err).Msg("llm explanation failed, using fallback")
		return fallback
	}
	if out = strings.TrimSpace(out); out == "" {
		return fallback
	}
	return out
}

func simpleExplanation(params map[string]any, matches []model.Match) string {
	var parts []string
	if v, ok := params["rating_kva"]; ok {
		parts = append(parts, formatParam(v)+" kVA")
	}
	if v, ok := params["high_voltage_v"]; ok {
		parts = append(parts, formatParam(v)+"V HV")
	}
	if v, ok := params["low_voltage_v"]; ok {
		parts = append(parts, formatParam(v)+"V LV")
	}
	subject := "the given parameters"
	if len(parts) > 0 {
		subject = strings.Join(parts, ", ")
	}
	best := matches[0]
	return fmt.Sprintf("%d suitable designs found for %s. Best match: %s (%.1f%% similarity).",
		len(matches), subject, best.DesignNumber, best.Score*100)
}

func formatParam(v any) string {
	if f, ok := v.(float64); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}

var (
	reFence      = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*(.*?)\\s*```$")
	reFlatObject = regexp.MustCompile(`\{[^{}]*\}`)
)

// parseJSONObject: JSON-объект из ответа модели: целиком, из ```-блока
// или первый плоский {...} в тексте. null/""/"null"/"None" отбрасываются.
func parseJSONObject(raw string) map[string]any {
	raw = strings.TrimSpace(raw)
	if m := reFence.FindStringSubmatch(raw); m != nil {
		raw = m[1]
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil || len(parsed) == 0 {
		parsed = nil
		if m := reFlatObject.FindString(raw); m != "" {
			_ = json.Unmarshal([]byte(m), &parsed)
		}
	}

	out := map[string]any{}
	for k, v := range parsed {
		if s, ok := v.(string); ok {
			switch strings.TrimSpace(s) {
			case "", "null", "None":
				continue
			}
		}
		if v == nil {
			continue
		}
		out[k] = v
	}
	return out
}
