package lexicon

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadResult carries whatever was loaded from a word list together with the
// error that stopped the load, if any. A non-nil Err with a non-empty Set means
// the file broke part way through and Set holds the lines read before that.
type LoadResult struct {
	Path string
	Set  WordSet
	Err  error
}

func (r LoadResult) Partial() bool {
	return r.Err != nil
}

type EmotionResult struct {
	Path    string
	Lexicon EmotionLexicon
	Err     error
}

func (r EmotionResult) Partial() bool {
	return r.Err != nil
}

type StopwordResult struct {
	Path      string
	Stopwords Stopwords
	Err       error
}

func (r StopwordResult) Partial() bool {
	return r.Err != nil
}

// LoadWordSet reads one word per line. It never fails hard: a missing or
// unreadable file yields an empty set and a diagnostic in Err.
func LoadWordSet(path string) LoadResult {
	set := WordSet{}
	err := readLines(path, func(line string) {
		set.add(line)
	})
	if err != nil {
		err = fmt.Errorf("[Lexicon] failed to load word list %q: %w", path, err)
	}
	return LoadResult{Path: path, Set: set, Err: err}
}

// LoadStopwords adds the words of the stopwords file to the built-in
// Indonesian list. The built-in list survives a failed file read.
func LoadStopwords(path string) StopwordResult {
	res := LoadWordSet(path)
	return StopwordResult{Path: path, Stopwords: NewStopwords(res.Set), Err: res.Err}
}

// LoadEmotionLexicon reads "label:word1,word2" lines. Lines without a colon are
// skipped, a label that appears twice gets the union of both word lists.
func LoadEmotionLexicon(path string) EmotionResult {
	lex := EmotionLexicon{}
	err := readLines(path, func(line string) {
		parseEmotionLine(lex, line)
	})
	if err != nil {
		err = fmt.Errorf("[Lexicon] failed to load emotion lexicon %q: %w", path, err)
	}
	return EmotionResult{Path: path, Lexicon: lex, Err: err}
}

func parseEmotionLine(lex EmotionLexicon, line string) {
	label, words, ok := strings.Cut(line, ":")
	if !ok {
		return
	}
	label = strings.TrimSpace(label)
	if label == "" {
		return
	}

	set, exists := lex[label]
	if !exists {
		set = WordSet{}
		lex[label] = set
	}
	for _, w := range strings.Split(words, ",") {
		set.add(w)
	}
}

func readLines(path string, fn func(line string)) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	first := true
	for scanner.Scan() {
		line := scanner.Text()
		if first {
			line = strings.TrimPrefix(line, "\ufeff")
			first = false
		}
		fn(line)
	}
	return scanner.Err()
}
