package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/spacesedan/ulasan/internal/lexicon"
	"github.com/spacesedan/ulasan/internal/models"
)

var urlPattern = regexp.MustCompile(`http\S+`)

// StopwordSet is satisfied by lexicon.Stopwords and lexicon.WordSet.
type StopwordSet interface {
	Contains(word string) bool
}

// Normalizer turns raw comment text into root words. It only reads its
// stopword set and stemmer, so one instance can serve any number of goroutines.
type Normalizer struct {
	stopwords StopwordSet
	stemmer   Stemmer
}

func New(stopwords StopwordSet, stemmer Stemmer) *Normalizer {
	if stopwords == nil {
		stopwords = lexicon.WordSet{}
	}
	if stemmer == nil {
		stemmer = NopStemmer{}
	}
	return &Normalizer{stopwords: stopwords, stemmer: stemmer}
}

// Normalize lowercases text, strips URLs and everything that is not a Latin
// letter, drops stopwords and one-letter tokens, and stems what is left.
// Token order is preserved.
//
// Accented letters are folded to their base letter before the letter filter,
// so "bagús" becomes "bagus". Filtering without folding would give "bags".
func (n *Normalizer) Normalize(text string) []string {
	text = strings.ToLower(text)
	text = urlPattern.ReplaceAllString(text, "")
	text = foldDiacritics(text)
	text = strings.Map(keepLetter, text)

	tokens := strings.Fields(text)
	roots := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if !n.keep(tok) {
			continue
		}
		// a stem can collapse onto a stopword ("adanya" -> "ada")
		root := n.stemmer.Stem(tok)
		if !n.keep(root) {
			continue
		}
		roots = append(roots, root)
	}
	return roots
}

func (n *Normalizer) Clean(text string) models.NormalizedComment {
	roots := n.Normalize(text)
	return models.NormalizedComment{
		RootWords: roots,
		CleanText: strings.Join(roots, " "),
	}
}

func (n *Normalizer) keep(token string) bool {
	return len(token) > 1 && !n.stopwords.Contains(token)
}

func keepLetter(r rune) rune {
	switch {
	case r >= 'a' && r <= 'z':
		return r
	case unicode.IsSpace(r):
		return ' '
	}
	return -1
}

// foldDiacritics maps accented Latin letters to their base letter so "bagús"
// survives the letter filter as "bagus".
func foldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
