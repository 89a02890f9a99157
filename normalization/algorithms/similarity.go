package algorithms

import (
	"strings"
	"unicode/utf8"
)

// SimilarityMetrics метрики схожести названий курортов
type SimilarityMetrics struct {
	normalizer *TextNormalizer
	stemmer    *EnglishStemmer
}

// NewSimilarityMetrics создает новый экземпляр метрик схожести
func NewSimilarityMetrics() *SimilarityMetrics {
	return &SimilarityMetrics{
		normalizer: NewTextNormalizer(true),
		stemmer:    NewEnglishStemmer(),
	}
}

// LevenshteinDistance вычисляет расстояние Левенштейна.
// Оптимизированный вариант с одним массивом вместо матрицы.
func (sm *SimilarityMetrics) LevenshteinDistance(s1, s2 string) int {
	r1 := []rune(s1)
	r2 := []rune(s2)
	len1 := len(r1)
	len2 := len(r2)

	if len1 == 0 {
		return len2
	}
	if len2 == 0 {
		return len1
	}

	column := make([]int, len1+1)
	for i := 1; i <= len1; i++ {
		column[i] = i
	}

	for x := 1; x <= len2; x++ {
		column[0] = x
		lastDiag := x - 1
		for y := 1; y <= len1; y++ {
			oldDiag := column[y]
			cost := 0
			if r1[y-1] != r2[x-1] {
				cost = 1
			}
			column[y] = min3(column[y]+1, column[y-1]+1, lastDiag+cost)
			lastDiag = oldDiag
		}
	}

	return column[len1]
}

// LevenshteinSimilarity схожесть на основе расстояния Левенштейна, [0, 1]
func (sm *SimilarityMetrics) LevenshteinSimilarity(s1, s2 string) float64 {
	distance := sm.LevenshteinDistance(s1, s2)
	maxLen := utf8.RuneCountInString(s1)
	if l2 := utf8.RuneCountInString(s2); l2 > maxLen {
		maxLen = l2
	}

	if maxLen == 0 {
		return 1.0
	}

	return 1.0 - float64(distance)/float64(maxLen)
}

// BigramSimilarity индекс Жаккара по символьным биграммам.
// Для коротких строк (названия курортов) работает лучше словарных метрик.
func (sm *SimilarityMetrics) BigramSimilarity(s1, s2 string) float64 {
	set1 := bigramSet(s1)
	set2 := bigramSet(s2)

	if len(set1) == 0 && len(set2) == 0 {
		return 1.0
	}
	if len(set1) == 0 || len(set2) == 0 {
		return 0.0
	}

	intersection := 0
	for gram := range set1 {
		if set2[gram] {
			intersection++
		}
	}

	union := len(set1) + len(set2) - intersection
	if union == 0 {
		return 0.0
	}

	return float64(intersection) / float64(union)
}

// TokenSimilarity индекс Жаккара по стеммированным словам
func (sm *SimilarityMetrics) TokenSimilarity(s1, s2 string) float64 {
	set1 := sm.tokenSet(s1)
	set2 := sm.tokenSet(s2)

	if len(set1) == 0 && len(set2) == 0 {
		return 1.0
	}
	if len(set1) == 0 || len(set2) == 0 {
		return 0.0
	}

	intersection := 0
	for token := range set1 {
		if set2[token] {
			intersection++
		}
	}

	union := len(set1) + len(set2) - intersection
	return float64(intersection) / float64(union)
}

// ResortNameSimilarity комбинированная схожесть двух названий курортов.
// Оба названия нормализуются; взвешенное среднее трех метрик.
func (sm *SimilarityMetrics) ResortNameSimilarity(name1, name2 string) float64 {
	norm1 := sm.normalizer.Normalize(name1)
	norm2 := sm.normalizer.Normalize(name2)

	if norm1 == norm2 {
		return 1.0
	}

	levenshtein := sm.LevenshteinSimilarity(norm1, norm2)
	bigram := sm.BigramSimilarity(norm1, norm2)
	token := sm.TokenSimilarity(norm1, norm2)

	// Веса подобраны для коротких названий: посимвольные метрики важнее
	return levenshtein*0.45 + bigram*0.35 + token*0.2
}

// NormalizeName возвращает каноническую форму названия для точного сравнения
func (sm *SimilarityMetrics) NormalizeName(name string) string {
	return sm.normalizer.Normalize(name)
}

// bigramSet разбивает строку на множество символьных биграмм
func bigramSet(s string) map[string]bool {
	runes := []rune(s)
	set := make(map[string]bool)
	for i := 0; i+1 < len(runes); i++ {
		set[string(runes[i:i+2])] = true
	}
	return set
}

// tokenSet разбивает строку на множество стеммированных токенов
func (sm *SimilarityMetrics) tokenSet(s string) map[string]bool {
	tokens := strings.Fields(s)
	set := make(map[string]bool, len(tokens))
	for _, token := range tokens {
		stemmed := sm.stemmer.Stem(token)
		if stemmed != "" {
			set[stemmed] = true
		}
	}
	return set
}

// min3 возвращает минимальное из трех чисел
func min3(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}
