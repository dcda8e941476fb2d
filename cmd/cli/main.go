package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"plaquerisk/adapters/model"
	"plaquerisk/adapters/postgres"
	"plaquerisk/adapters/tabular"
	"plaquerisk/app"
	"plaquerisk/domain/feature"
	"plaquerisk/internal"
	"plaquerisk/internal/config"
	apperrors "plaquerisk/internal/errors"
	"plaquerisk/internal/evaluation"
	"plaquerisk/internal/inference"
	"plaquerisk/internal/metrics"
	"plaquerisk/ports"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

func main() {
	// Optional .env; environment variables win when both are set.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "plaquerisk",
		Short: "Coronary plaque adverse-outcome risk prediction and explanation",
	}

	rootCmd.AddCommand(
		newPredictCmd(),
		newExplainCmd(),
		newBaselineCmd(),
		newEvaluateCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newPredictCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "predict [patient.json]",
		Short: "Score one patient profile and assign the risk tier",
		Long: `Score a patient profile against the deployed predictor.

The argument is a JSON object mapping clinical feature names to values;
"-" reads the profile from stdin. Features absent from the input are
treated as missing.

Example: plaquerisk predict patient.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := buildService(cmd.Context())
			if err != nil {
				return err
			}
			input, err := readPatientInput(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := requestContext(cmd.Context())
			defer cancel()
			result, err := svc.Predict(ctx, input)
			if err != nil {
				return err
			}
			return printJSON(result)
		},
	}
}

func newExplainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "explain [patient.json]",
		Short: "Score one patient and rank per-feature counterfactual effects",
		Long: `Score a patient profile and explain the prediction by resetting each
feature to its baseline value and measuring the probability shift.

Example: plaquerisk explain patient.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := buildService(cmd.Context())
			if err != nil {
				return err
			}
			input, err := readPatientInput(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := requestContext(cmd.Context())
			defer cancel()
			result, err := svc.Explain(ctx, input)
			if err != nil {
				return err
			}
			return printJSON(result)
		},
	}
}

func newBaselineCmd() *cobra.Command {
	var rebuild bool

	cmd := &cobra.Command{
		Use:   "baseline",
		Short: "Show the serving baseline reference profile",
		Long: `Show the baseline reference profile the explainer compares patients
against. With --rebuild the cohort is re-read (from DATABASE_URL when set,
otherwise from BASELINE_FILE) and the rebuilt profile is shown instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := buildService(cmd.Context())
			if err != nil {
				return err
			}
			if rebuild {
				source, err := cohortSource("")
				if err != nil {
					return err
				}
				svc, err = svc.RebuildReference(cmd.Context(), source)
				if err != nil {
					return err
				}
			}
			return printJSON(svc.Baseline())
		},
	}

	cmd.Flags().BoolVar(&rebuild, "rebuild", false, "Rebuild the profile from the cohort source")
	return cmd
}

func newEvaluateCmd() *cobra.Command {
	var labelColumn string

	cmd := &cobra.Command{
		Use:   "evaluate [cohort-file]",
		Short: "Score the predictor against a labeled historical cohort",
		Long: `Run the deployed predictor over a labeled cohort and report ROC AUC,
threshold metrics at the 0.5 cutoff, and the score distribution.

The cohort comes from the given CSV/Excel file, or from DATABASE_URL when
no file is given.

Example: plaquerisk evaluate cohort.csv --label adverse_outcome`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := buildService(cmd.Context())
			if err != nil {
				return err
			}
			file := ""
			if len(args) == 1 {
				file = args[0]
			}
			source, err := cohortSource(file)
			if err != nil {
				return err
			}
			frame, err := source.FetchCohort(cmd.Context())
			if err != nil {
				return apperrors.CohortError(err)
			}
			report, err := evaluation.Evaluate(cmd.Context(), svc.Model().Classifier(), frame, labelColumn)
			if err != nil {
				return err
			}
			return printJSON(report)
		},
	}

	cmd.Flags().StringVar(&labelColumn, "label", model.TargetLabel, "Outcome label column in the cohort")
	return cmd
}

// buildService assembles the prediction service from the environment: the
// persisted predictor (or the built-in heuristic), the LRU-cached
// classifier, and the baseline reference profile.
func buildService(ctx context.Context) (*app.PredictionService, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := internal.DefaultLogger
	schema := feature.ClinicalSchema()

	var modelCtx *app.ModelContext
	if cfg.Model.UseHeuristic {
		modelCtx = app.NewModelContext(model.NewHeuristicClassifier(), feature.DefaultProfile(schema), schema)
		logger.Warn("serving the built-in heuristic scorer, not a trained model")
	} else {
		modelCtx, err = app.LoadModelContext(ctx, cfg.Model.Dir, schema)
		if err != nil {
			return nil, apperrors.ModelLoadError(err)
		}
	}

	var collectors *metrics.Metrics
	if cfg.Server.MetricsPort != "" {
		collectors = metrics.New()
		go serveMetrics(cfg.Server.MetricsPort, logger)
	}

	cached, err := model.NewCachedClassifier(modelCtx.Classifier(), cfg.Cache.Size)
	if err != nil {
		return nil, err
	}
	classifier := ports.Classifier(cached)
	if collectors != nil {
		cached.WithCollectors(collectors.CacheHits, collectors.CacheMisses)
		classifier = metrics.InstrumentClassifier(cached, collectors.ClassifierQueries, collectors.ClassifierFailures)
	}
	modelCtx = app.NewModelContext(classifier, modelCtx.Reference(), schema)

	svc := app.NewPredictionService(modelCtx, inference.ExplainerConfig{
		Epsilon:     1e-9,
		MaxParallel: cfg.Explain.MaxParallel,
	}, collectors, logger)

	// An explicit baseline file overrides whatever reference the loader
	// resolved next to the model.
	if cfg.Model.BaselineFile != "" {
		reader := tabular.NewCohortReader(cfg.Model.BaselineFile, schema)
		svc, err = svc.RebuildReference(ctx, reader)
		if err != nil {
			return nil, err
		}
	}

	logger.Info("serving model %s, load %s", modelCtx.Version(), modelCtx.LoadID())
	return svc, nil
}

// cohortSource picks the cohort backend: an explicit file wins, then the
// configured database, then the configured baseline file.
func cohortSource(file string) (ports.CohortSource, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	schema := feature.ClinicalSchema()

	if file != "" {
		return tabular.NewCohortReader(file, schema), nil
	}
	if cfg.Database.URL != "" {
		db, err := postgres.Connect(cfg.Database.URL)
		if err != nil {
			return nil, apperrors.WithCode(apperrors.CodeDatabaseError, err)
		}
		return postgres.NewCohortRepository(db, cfg.Database.CohortTable, schema)
	}
	if cfg.Model.BaselineFile != "" {
		return tabular.NewCohortReader(cfg.Model.BaselineFile, schema), nil
	}
	return nil, fmt.Errorf("no cohort source configured: pass a file or set DATABASE_URL or BASELINE_FILE")
}

// requestContext bounds one inference request by the configured timeout.
func requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	cfg, err := config.Load()
	if err != nil || cfg.Server.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, cfg.Server.Timeout)
}

func serveMetrics(port string, logger *internal.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	logger.Info("metrics listening on :%s", port)
	if err := http.ListenAndServe(":"+port, mux); err != nil {
		logger.Error("metrics server stopped: %v", err)
	}
}

func readPatientInput(path string) (map[string]interface{}, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read patient input: %w", err)
	}

	var input map[string]interface{}
	if err := json.Unmarshal(data, &input); err != nil {
		return nil, fmt.Errorf("patient input must be a JSON object: %w", err)
	}
	return input, nil
}

func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
