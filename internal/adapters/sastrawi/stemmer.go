// Package sastrawi adapts the go-sastrawi Indonesian stemmer to persona.Stemmer.
package sastrawi

import (
	"strings"
	"sync"

	gosastrawi "github.com/RadhiFadlillah/go-sastrawi"
)

// Stemmer stems every word of a text with the Sastrawi algorithm.
// Results are memoized per word; it is safe for concurrent use.
type Stemmer struct {
	s    gosastrawi.Stemmer
	memo sync.Map // word -> root
}

// New builds a stemmer over the default Sastrawi root-word dictionary.
func New() *Stemmer {
	return &Stemmer{s: gosastrawi.NewStemmer(gosastrawi.DefaultDictionary())}
}

func (st *Stemmer) Stem(text string) string {
	words := strings.Fields(text)
	for i, w := range words {
		words[i] = st.word(w)
	}
	return strings.Join(words, " ")
}

func (st *Stemmer) word(w string) string {
	if v, ok := st.memo.Load(w); ok {
		return v.(string)
	}
	root := st.s.Stem(w)
	if root == "" {
		root = w
	}
	st.memo.Store(w, root)
	return root
}
