package embedding

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/knights-analytics/hugot"
	"github.com/rotisserie/eris"
)

const (
	defaultHugotModel = "sentence-transformers/all-MiniLM-L6-v2"
	modelDir          = "./models"
)

// NewHugotEmbedder runs a sentence transformer locally through hugot's pure
// Go backend. The model is downloaded into ./models on first use.
func NewHugotEmbedder(modelName string) (Func, error) {
	if modelName == "" {
		modelName = defaultHugotModel
	}
	modelPath, err := prepareModel(modelName)
	if err != nil {
		return nil, err
	}

	session, err := hugot.NewGoSession()
	if err != nil {
		return nil, eris.Wrap(err, "embedding: create hugot session")
	}

	pipeline, err := hugot.NewPipeline(session, hugot.FeatureExtractionConfig{
		ModelPath: modelPath,
		Name:      "esg-embedder",
	})
	if err != nil {
		if destroyErr := session.Destroy(); destroyErr != nil {
			return nil, eris.Wrapf(err, "embedding: create pipeline (cleanup error: %v)", destroyErr)
		}
		return nil, eris.Wrap(err, "embedding: create pipeline")
	}

	// the pipeline is not documented as safe for concurrent use
	var mu sync.Mutex
	return func(ctx context.Context, text string) ([]float32, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		mu.Lock()
		defer mu.Unlock()
		result, err := pipeline.RunPipeline([]string{text})
		if err != nil {
			return nil, eris.Wrap(err, "embedding: run pipeline")
		}
		if len(result.Embeddings) == 0 {
			return nil, eris.New("embedding: no embedding generated")
		}
		return result.Embeddings[0], nil
	}, nil
}

// prepareModel downloads the model if it is not in the model directory yet
func prepareModel(modelName string) (string, error) {
	modelPath := filepath.Join(modelDir, strings.ReplaceAll(modelName, "/", "_"))
	if _, err := os.Stat(modelPath); err == nil {
		return modelPath, nil
	} else if !os.IsNotExist(err) {
		return "", eris.Wrapf(err, "embedding: stat %s", modelPath)
	}

	if err := os.MkdirAll(modelDir, 0o755); err != nil {
		return "", eris.Wrap(err, "embedding: create model directory")
	}
	opts := hugot.NewDownloadOptions()
	opts.OnnxFilePath = "onnx/model.onnx"
	downloaded, err := hugot.DownloadModel(modelName, modelDir, opts)
	if err != nil {
		return "", eris.Wrap(err, "embedding: download model")
	}
	return downloaded, nil
}
