package algorithms

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// TextNormalizer нормализует названия курортов перед сравнением
type TextNormalizer struct {
	removeStopWords bool
	stopWords       map[string]bool
}

// NewTextNormalizer создает новый нормализатор текста
func NewTextNormalizer(removeStopWords bool) *TextNormalizer {
	return &TextNormalizer{
		removeStopWords: removeStopWords,
		stopWords:       defaultStopWords(),
	}
}

// Normalize выполняет полную нормализацию текста
func (tn *TextNormalizer) Normalize(text string) string {
	// 1. Приведение к нижнему регистру
	text = strings.ToLower(text)

	// 2. Удаление лишних пробелов
	text = strings.TrimSpace(text)
	text = strings.Join(strings.Fields(text), " ")

	// 3. Нормализация кавычек и дефисов
	text = normalizeQuotes(text)
	text = normalizeHyphens(text)

	// 4. Удаление диакритических знаков: "Kitzbühel" -> "kitzbuhel",
	// "Åre" -> "are". NFD-разложение, отсечение combining marks, NFC.
	text = removeDiacritics(text)

	// 5. Удаление стоп-слов (если включено)
	if tn.removeStopWords {
		text = tn.removeStopWordsFromText(text)
	}

	return strings.TrimSpace(text)
}

// normalizeQuotes приводит типографские кавычки к ASCII
func normalizeQuotes(text string) string {
	replacements := map[rune]rune{
		'“': '"',  // left double quotation mark
		'”': '"',  // right double quotation mark
		'‘': '\'', // left single quotation mark
		'’': '\'', // right single quotation mark
		'«': '"',
		'»': '"',
	}

	var builder strings.Builder
	for _, r := range text {
		if replacement, ok := replacements[r]; ok {
			builder.WriteRune(replacement)
		} else {
			builder.WriteRune(r)
		}
	}
	return builder.String()
}

// normalizeHyphens приводит тире и длинные дефисы к обычному дефису
func normalizeHyphens(text string) string {
	replacements := []string{"–", "—", "−"}
	for _, h := range replacements {
		text = strings.ReplaceAll(text, h, "-")
	}
	return text
}

// removeDiacritics убирает диакритические знаки из латиницы
func removeDiacritics(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, text)
	if err != nil {
		return text
	}
	return result
}

// defaultStopWords слова, не несущие смысла при сравнении названий курортов
func defaultStopWords() map[string]bool {
	words := []string{
		"ski", "resort", "area", "mountain", "mt", "station", "the",
	}
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

// removeStopWordsFromText удаляет стоп-слова из текста
func (tn *TextNormalizer) removeStopWordsFromText(text string) string {
	fields := strings.Fields(text)
	kept := make([]string, 0, len(fields))
	for _, f := range fields {
		if !tn.stopWords[f] {
			kept = append(kept, f)
		}
	}
	// Если все слова оказались стоп-словами, оставляем текст как есть
	if len(kept) == 0 {
		return text
	}
	return strings.Join(kept, " ")
}
