package setup

import (
	"fmt"
	"log/slog"

	"github.com/spacesedan/ulasan/config"
	"github.com/spacesedan/ulasan/internal/lexicon"
	"github.com/spacesedan/ulasan/internal/pipeline"
	"github.com/spacesedan/ulasan/internal/sentiment"
	"github.com/spacesedan/ulasan/internal/textnorm"
)

// Pipeline loads the lexicons named in cfg and builds the labelling pipeline.
// Lexicon problems are logged and never fatal; an unknown or broken sentiment
// engine is. The returned close func is never nil.
func Pipeline(cfg config.Config) (*pipeline.Pipeline, func() error, error) {
	lex, diags := lexicon.Load(lexicon.Paths{
		Stopwords: cfg.Lexicons.Stopwords,
		Positive:  cfg.Lexicons.Positive,
		Negative:  cfg.Lexicons.Negative,
		Emotions:  cfg.Lexicons.Emotions,
	})
	for _, d := range diags {
		slog.Warn("[Setup] Lexicon not fully loaded", slog.String("error", d.Error()))
	}
	slog.Info("[Setup] Lexicons loaded",
		slog.Int("custom_stopwords", lex.Stopwords.Custom().Len()),
		slog.Int("positive", lex.Positive.Len()),
		slog.Int("negative", lex.Negative.Len()),
		slog.Int("emotions", len(lex.Emotions)))

	scorer, closeScorer, err := sentiment.NewScorer(cfg.SentimentEngine, lex, sentiment.ModelConfig{
		ModelPath:       cfg.Model.Path,
		ModelName:       cfg.Model.Name,
		ModelDir:        cfg.Model.Dir,
		OnnxLibraryPath: cfg.Model.OnnxLibraryPath,
	})
	if err != nil {
		return nil, closeScorer, fmt.Errorf("[Setup] failed to build sentiment engine: %w", err)
	}

	stemmer := textnorm.NewIndonesianStemmer(StemmerRoots(lex, cfg.RootsPath))
	p := pipeline.New(
		textnorm.New(lex.Stopwords, stemmer),
		scorer,
		sentiment.NewEmotionScorer(lex.Emotions),
		cfg.Workers,
	)
	return p, closeScorer, nil
}

// StemmerRoots is the built-in root list plus every lexicon word, so a
// lexicon entry is always a valid stem. rootsPath adds an optional file.
func StemmerRoots(lex *lexicon.Lexicons, rootsPath string) lexicon.WordSet {
	roots := textnorm.DefaultRoots().Union(lex.Positive).Union(lex.Negative)
	for _, label := range lex.Emotions.Labels() {
		roots = roots.Union(lex.Emotions[label])
	}

	if rootsPath != "" {
		extra := lexicon.LoadWordSet(rootsPath)
		if extra.Partial() {
			slog.Warn("[Setup] Root word list not fully loaded", slog.String("error", extra.Err.Error()))
		}
		roots = roots.Union(extra.Set)
	}
	return roots
}
