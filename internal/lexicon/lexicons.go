package lexicon

// Paths points at the four lexicon files.
type Paths struct {
	Stopwords string
	Positive  string
	Negative  string
	Emotions  string
}

// Lexicons bundles every word list the pipeline needs. Build it once at
// startup and share the pointer; nothing mutates it afterwards.
type Lexicons struct {
	Stopwords Stopwords
	Positive  WordSet
	Negative  WordSet
	Emotions  EmotionLexicon
}

// Load reads all lexicon files. Each failed file contributes one diagnostic
// and whatever it managed to load, so the returned Lexicons is always usable.
func Load(paths Paths) (*Lexicons, []error) {
	var diags []error

	stop := LoadStopwords(paths.Stopwords)
	if stop.Partial() {
		diags = append(diags, stop.Err)
	}
	pos := LoadWordSet(paths.Positive)
	if pos.Partial() {
		diags = append(diags, pos.Err)
	}
	neg := LoadWordSet(paths.Negative)
	if neg.Partial() {
		diags = append(diags, neg.Err)
	}
	emo := LoadEmotionLexicon(paths.Emotions)
	if emo.Partial() {
		diags = append(diags, emo.Err)
	}

	return &Lexicons{
		Stopwords: stop.Stopwords,
		Positive:  pos.Set,
		Negative:  neg.Set,
		Emotions:  emo.Lexicon,
	}, diags
}
