package persona

import (
	"strings"
	"unicode"
)

// Stemmer maps inflected words to their root form. Stem receives a whole
// lowercase, letters-and-spaces text and must be deterministic.
type Stemmer interface {
	Stem(text string) string
}

// StemmerFunc adapts a plain function to Stemmer.
type StemmerFunc func(string) string

func (f StemmerFunc) Stem(s string) string { return f(s) }

// Identity is a Stemmer that returns its input unchanged.
var Identity Stemmer = StemmerFunc(func(s string) string { return s })

// StopwordSet answers membership for tokens dropped after stemming.
type StopwordSet interface {
	Contains(token string) bool
}

// Stopwords is a set built from one or more word lists.
type Stopwords map[string]struct{}

// NewStopwords unions the given lists. Entries are lowercased and trimmed; blanks are ignored.
func NewStopwords(lists ...[]string) Stopwords {
	s := Stopwords{}
	for _, l := range lists {
		for _, w := range l {
			w = strings.ToLower(strings.TrimSpace(w))
			if w != "" {
				s[w] = struct{}{}
			}
		}
	}
	return s
}

func (s Stopwords) Contains(token string) bool {
	_, ok := s[token]
	return ok
}

// Normalize reduces raw review text to its canonical token sequence:
//  1. lowercase
//  2. drop every rune that is not a-z or whitespace
//  3. stem
//  4. split on whitespace and drop stopwords
//
// A nil stemmer behaves like Identity and a nil stopword set drops nothing.
// Normalize never fails; empty or fully filtered input yields an empty slice.
func Normalize(raw string, stemmer Stemmer, stop StopwordSet) []string {
	text := keepLetters(strings.ToLower(raw))
	if strings.TrimSpace(text) == "" {
		return []string{}
	}
	if stemmer != nil {
		text = stemmer.Stem(text)
	}
	fields := strings.Fields(text)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if stop != nil && stop.Contains(f) {
			continue
		}
		out = append(out, f)
	}
	return out
}

// keepLetters removes everything except ASCII lowercase letters and whitespace.
// Whitespace runes are mapped to a plain space so the stemmer sees one separator kind.
func keepLetters(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case unicode.IsSpace(r):
			return ' '
		}
		return -1
	}, s)
}

// TextNormalizer binds a stemmer and a stopword set.
type TextNormalizer struct {
	stemmer Stemmer
	stop    StopwordSet
}

func NewTextNormalizer(stemmer Stemmer, stop StopwordSet) *TextNormalizer {
	if stemmer == nil {
		stemmer = Identity
	}
	return &TextNormalizer{stemmer: stemmer, stop: stop}
}

func (n *TextNormalizer) Normalize(raw string) []string {
	return Normalize(raw, n.stemmer, n.stop)
}
