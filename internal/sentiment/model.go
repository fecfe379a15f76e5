package sentiment

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/options"
	"github.com/knights-analytics/hugot/pipelines"

	"github.com/spacesedan/ulasan/internal/models"
)

// ModelScorer runs an ONNX text-classification model (for example an IndoBERT
// sentiment export) over the original comment text.
type ModelScorer struct {
	session  *hugot.Session
	pipeline *pipelines.TextClassificationPipeline
	mu       sync.Mutex
}

type ModelConfig struct {
	// ModelPath is a local directory holding the exported model.
	ModelPath string
	// ModelName is the Hugging Face repo to download from when ModelPath is missing.
	ModelName string
	ModelDir  string
	// OnnxLibraryPath overrides where onnxruntime.so is looked up.
	OnnxLibraryPath string
}

func NewModelScorer(cfg ModelConfig) (*ModelScorer, error) {
	modelPath, err := ensureModel(cfg)
	if err != nil {
		return nil, err
	}

	var opts []options.WithOption
	if cfg.OnnxLibraryPath != "" {
		opts = append(opts, options.WithOnnxLibraryPath(cfg.OnnxLibraryPath))
	}

	session, err := hugot.NewORTSession(opts...)
	if err != nil {
		return nil, fmt.Errorf("[ModelScorer] failed to initialize hugot session: %w", err)
	}

	pipeline, err := hugot.NewPipeline(session, hugot.TextClassificationConfig{
		ModelPath: modelPath,
		Name:      "commentSentimentPipeline",
	})
	if err != nil {
		_ = session.Destroy()
		return nil, fmt.Errorf("[ModelScorer] failed to initialize pipeline: %w", err)
	}

	slog.Info("[ModelScorer] Sentiment model loaded", slog.String("path", modelPath))
	return &ModelScorer{session: session, pipeline: pipeline}, nil
}

func ensureModel(cfg ModelConfig) (string, error) {
	if cfg.ModelPath != "" {
		if _, err := os.Stat(cfg.ModelPath); err == nil {
			slog.Info("[ModelScorer] Using existing model", slog.String("path", cfg.ModelPath))
			return cfg.ModelPath, nil
		}
	}
	if cfg.ModelName == "" {
		return "", fmt.Errorf("[ModelScorer] model path %q not found and no model name to download", cfg.ModelPath)
	}

	slog.Info("[ModelScorer] Model not found, downloading...", slog.String("model", cfg.ModelName))
	path, err := hugot.DownloadModel(cfg.ModelName, cfg.ModelDir, hugot.NewDownloadOptions())
	if err != nil {
		return "", fmt.Errorf("[ModelScorer] failed to download model %s: %w", cfg.ModelName, err)
	}
	slog.Info("[ModelScorer] Model downloaded successfully", slog.String("path", path))
	return path, nil
}

func (s *ModelScorer) Score(in Input) models.Sentiment {
	s.mu.Lock()
	defer s.mu.Unlock()

	out, err := s.pipeline.RunPipeline([]string{in.Original})
	if err != nil {
		slog.Warn("[ModelScorer] Classification failed, labelling neutral",
			slog.String("error", err.Error()))
		return models.Neutral
	}
	if len(out.ClassificationOutputs) == 0 || len(out.ClassificationOutputs[0]) == 0 {
		return models.Neutral
	}
	return SentimentFromModelLabel(out.ClassificationOutputs[0][0].Label)
}

func (s *ModelScorer) Close() error {
	return s.session.Destroy()
}

// SentimentFromModelLabel maps classifier labels such as "positive", "POS" or
// "Negatif" onto the three sentiment values.
func SentimentFromModelLabel(label string) models.Sentiment {
	label = strings.ToLower(strings.TrimSpace(label))
	switch {
	case strings.HasPrefix(label, "pos"):
		return models.Positive
	case strings.HasPrefix(label, "neg"):
		return models.Negative
	default:
		return models.Neutral
	}
}
