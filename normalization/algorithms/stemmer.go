package algorithms

import (
	"strings"
	"sync"

	"github.com/kljensen/snowball"
)

// EnglishStemmer стеммер Snowball для английских названий с кэшем
type EnglishStemmer struct {
	language string
	cache    map[string]string
	mu       sync.RWMutex
	useCache bool
}

// NewEnglishStemmer создает новый стеммер с кэшированием
func NewEnglishStemmer() *EnglishStemmer {
	return &EnglishStemmer{
		language: "english",
		cache:    make(map[string]string),
		useCache: true,
	}
}

// Stem возвращает основу слова по алгоритму Snowball.
// Например: "skiing" -> "ski", "mountains" -> "mountain".
func (s *EnglishStemmer) Stem(word string) string {
	if word == "" {
		return ""
	}

	normalized := strings.ToLower(strings.TrimSpace(word))
	if normalized == "" {
		return ""
	}

	if s.useCache {
		s.mu.RLock()
		cached, ok := s.cache[normalized]
		s.mu.RUnlock()
		if ok {
			return cached
		}
	}

	stemmed, err := snowball.Stem(normalized, s.language, false)
	if err != nil {
		stemmed = normalized
	}

	if s.useCache {
		s.mu.Lock()
		s.cache[normalized] = stemmed
		s.mu.Unlock()
	}

	return stemmed
}

// StemTokens возвращает основы для набора слов
func (s *EnglishStemmer) StemTokens(tokens []string) []string {
	stemmed := make([]string, len(tokens))
	for i, token := range tokens {
		stemmed[i] = s.Stem(token)
	}
	return stemmed
}
