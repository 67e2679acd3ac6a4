package main

import (
	"flag"
	"os"

	"github.com/joho/godotenv"
	"github.com/medikita/triage-ai/internal/application/services"
	"github.com/medikita/triage-ai/internal/infrastructure/observability"
	"github.com/medikita/triage-ai/pkg/config"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	observability.InitLogger("triage-ai-train", cfg.Env)
	logger := observability.GetLogger()

	opts := services.DefaultTrainOptions()
	datasetPath := flag.String("dataset", "data/dataset.csv", "path to the training dataset CSV")
	modelDir := flag.String("model-dir", cfg.Model.Dir, "directory for model artifacts")
	flag.Float64Var(&opts.TestSize, "test-size", opts.TestSize, "held-out fraction per category")
	flag.Int64Var(&opts.Seed, "seed", opts.Seed, "random seed for the dataset split")
	flag.IntVar(&opts.MaxFeatures, "max-features", opts.MaxFeatures, "vocabulary size cap")
	flag.IntVar(&opts.Epochs, "epochs", opts.Epochs, "training epochs")
	flag.Parse()

	classifier := services.NewClassifier()
	metrics, err := classifier.Train(*datasetPath, opts, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("dataset", *datasetPath).Msg("training failed")
	}

	if err := os.MkdirAll(*modelDir, 0o755); err != nil {
		logger.Fatal().Err(err).Str("dir", *modelDir).Msg("cannot create model directory")
	}
	if err := classifier.SaveModel(*modelDir); err != nil {
		logger.Fatal().Err(err).Str("dir", *modelDir).Msg("saving model artifacts failed")
	}

	logger.Info().
		Float64("accuracy", metrics.Accuracy).
		Strs("categories", metrics.Categories).
		Int("train_size", metrics.TrainSize).
		Int("test_size", metrics.TestSize).
		Str("dir", *modelDir).
		Msg("model trained and saved")
}
