package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"

	"github.com/joho/godotenv"
	"github.com/medikita/triage-ai/internal/application/services"
	"github.com/medikita/triage-ai/internal/evaluation"
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

	observability.InitLogger("triage-ai-evaluate", cfg.Env)
	logger := observability.GetLogger()

	casesPath := flag.String("cases", "data/golden_cases.json", "path to the golden case set")
	modelDir := flag.String("model-dir", cfg.Model.Dir, "directory with model artifacts")
	flag.Parse()

	cases, err := evaluation.LoadGoldenCases(*casesPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", *casesPath).Msg("cannot load golden cases")
	}
	if err := evaluation.ValidateGoldenCases(cases); err != nil {
		logger.Fatal().Err(err).Msg("golden case set is invalid")
	}

	classifier := services.NewClassifier()
	if err := classifier.LoadModel(*modelDir); err != nil {
		logger.Fatal().Err(err).Str("dir", *modelDir).Msg("cannot load classifier model")
	}

	// Narratives stay on deterministic fallbacks so runs are reproducible
	// and free of network calls.
	narrative := services.NewNarrativeService(nil, nil, services.NarrativeOptions{}, nil, logger)
	triage := services.NewTriageService(
		services.NewNormalizer(),
		services.NewUrgencyEngine(cfg.Rules.Path, logger),
		classifier,
		narrative,
		logger,
	)

	summary, err := evaluation.NewRunner(triage).Run(context.Background(), cases)
	if err != nil {
		logger.Fatal().Err(err).Msg("evaluation run failed")
	}

	logger.Info().
		Int("cases", summary.TotalCases).
		Float64("category_accuracy", summary.CategoryAccuracy).
		Float64("urgency_accuracy", summary.UrgencyAccuracy).
		Float64("review_rate", summary.ReviewRate).
		Dur("avg_latency", summary.AvgLatency).
		Int("violations", len(summary.Violations)).
		Msg("evaluation completed")

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(summary); err != nil {
		logger.Fatal().Err(err).Msg("cannot write summary")
	}

	if len(summary.Violations) > 0 {
		os.Exit(1)
	}
}
