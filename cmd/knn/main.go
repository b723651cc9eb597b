// Package main is the knn CLI entry point.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/viant/sqlite-knn/dataset"
	"github.com/viant/sqlite-knn/engine"
	"github.com/viant/sqlite-knn/internal/config"
	"github.com/viant/sqlite-knn/internal/logging"
	"github.com/viant/sqlite-knn/knn"
	"github.com/viant/sqlite-knn/knntable"
	"github.com/viant/sqlite-knn/report"
	"github.com/viant/sqlite-knn/vector"
)

var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(1)
	}
	var err error
	switch command := os.Args[1]; command {
	case "run":
		err = runClassify(os.Args[2:], os.Stdout)
	case "import":
		err = runImport(os.Args[2:], os.Stdout)
	case "query":
		err = runQuery(os.Args[2:], os.Stdout)
	case "version", "--version", "-v":
		fmt.Printf("knn version %s\n", version)
	case "help", "--help", "-h":
		printUsage(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage(os.Stderr)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "knn %s: %v\n", os.Args[1], err)
		os.Exit(1)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `Usage: knn <command> [flags]

Commands:
  run      classify the held-out split of a dataset and print a report
  import   load a CSV file into a SQLite point store
  query    classify one feature vector through the knn SQL virtual table
  version  print the version
  help     print this message

Examples:
  knn run                                   # iris, sepal features, k=15, every 3rd row held out
  knn run -config knn.yaml -format json
  knn import -db points.db -name iris -csv iris.csv -label species
  knn query -db points.db -name iris -k 15 5.1,3.5,1.4,0.2
`)
}

// runClassify is the end-to-end run: load, select features, split, fit,
// predict and report.
func runClassify(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	configPath := fs.String("config", "", "config file path (defaults apply when empty)")
	k := fs.Int("k", 0, "number of neighbors (overrides config)")
	modulus := fs.Int("modulus", 0, "split modulus (overrides config)")
	remainder := fs.Int("remainder", -1, "test remainder (overrides config)")
	features := fs.String("features", "", "comma-separated feature columns (overrides config)")
	format := fs.String("format", "", "report format: text or json (overrides config)")
	debug := fs.Bool("debug", false, "enable debug logging")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if *k > 0 {
		cfg.Classifier.K = *k
	}
	if *modulus > 0 {
		cfg.Split.Modulus = *modulus
	}
	if *remainder >= 0 {
		cfg.Split.TestRemainder = *remainder
	}
	if *features != "" {
		cfg.Dataset.Features = splitList(*features)
	}
	if *format != "" {
		cfg.Report.Format = *format
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	debugMode := cfg.Debug || *debug
	logger, err := logging.New(debugMode)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	ds, err := loadDataset(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if len(cfg.Dataset.Features) > 0 {
		if ds, err = ds.Select(cfg.Dataset.Features...); err != nil {
			return err
		}
	}
	logger.Debug("class counts", zap.String("dataset", ds.Name), zap.Any("counts", ds.ClassCounts()))
	for _, s := range ds.Summary() {
		logger.Debug("feature summary",
			zap.String("feature", s.Name),
			zap.Float64("min", s.Min),
			zap.Float64("max", s.Max),
			zap.Float64("mean", s.Mean),
			zap.Float64("stddev", s.StdDev),
		)
	}

	train, test, err := ds.Split(cfg.Split.Modulus, cfg.Split.TestRemainder)
	if err != nil {
		return err
	}
	classifier, err := knn.Fit(train.Points(), cfg.Classifier.K, knn.WithLogger(logger))
	if err != nil {
		return err
	}
	predicted, err := classifier.PredictContext(ctx, test.Rows())
	if err != nil {
		return err
	}
	logger.Info("classified",
		zap.String("dataset", ds.Name),
		zap.Strings("features", ds.FeatureNames),
		zap.Int("k", classifier.K()),
		zap.Int("train", train.Len()),
		zap.Int("test", test.Len()),
	)

	r, err := report.Evaluate(test.Labels, predicted)
	if err != nil {
		return err
	}
	if debugMode {
		logMismatches(logger, classifier, test, r)
	}
	return report.Write(stdout, r, report.Format(cfg.Report.Format))
}

// logMismatches logs the neighborhood of every misclassified test row.
func logMismatches(logger *zap.Logger, classifier *knn.Classifier[string], test *dataset.Dataset, r *report.Report[string]) {
	for _, m := range r.Mismatches {
		neighbors, err := classifier.Neighbors(test.Row(m.Index))
		if err != nil {
			logger.Warn("neighbors failed", zap.Int("test_row", m.Index), zap.Error(err))
			continue
		}
		labels := make([]string, len(neighbors))
		distances := make([]float64, len(neighbors))
		for i, n := range neighbors {
			labels[i], distances[i] = n.Label, n.Distance
		}
		logger.Debug("misclassified",
			zap.Int("test_row", m.Index),
			zap.String("true", m.True),
			zap.String("predicted", m.Predicted),
			zap.Strings("neighbor_labels", labels),
			zap.Float64s("neighbor_distances", distances),
		)
	}
}

func loadDataset(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*dataset.Dataset, error) {
	switch cfg.Dataset.Source {
	case config.SourceIris:
		return dataset.Iris()
	case config.SourceCSV:
		name := cfg.Dataset.Name
		if name == "" {
			name = strings.TrimSuffix(filepath.Base(cfg.Dataset.Path), filepath.Ext(cfg.Dataset.Path))
		}
		return readCSVFile(cfg.Dataset.Path, name, cfg.Dataset.LabelColumn)
	case config.SourceSQLite:
		db, err := engine.OpenContext(ctx, cfg.Dataset.Path)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		store, err := dataset.NewSQLiteStore(db, dataset.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		return store.LoadDataset(ctx, cfg.Dataset.Name)
	default:
		return nil, fmt.Errorf("unknown dataset source %q", cfg.Dataset.Source)
	}
}

func readCSVFile(path, name, labelColumn string) (*dataset.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return dataset.ReadCSV(f, name, labelColumn)
}

func runImport(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	dbPath := fs.String("db", "", "SQLite database path")
	name := fs.String("name", "", "dataset name")
	csvPath := fs.String("csv", "", "CSV file to import (the built-in iris table when empty)")
	label := fs.String("label", "species", "label column")
	debug := fs.Bool("debug", false, "enable debug logging")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dbPath == "" || *name == "" {
		return fmt.Errorf("-db and -name are required")
	}

	logger, err := logging.New(*debug)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	var ds *dataset.Dataset
	if *csvPath == "" {
		ds, err = dataset.Iris()
	} else {
		ds, err = readCSVFile(*csvPath, *name, *label)
	}
	if err != nil {
		return err
	}
	ds.Name = *name

	ctx := context.Background()
	db, err := engine.OpenContext(ctx, *dbPath)
	if err != nil {
		return err
	}
	defer db.Close()
	store, err := dataset.NewSQLiteStore(db, dataset.WithLogger(logger))
	if err != nil {
		return err
	}
	if err := store.AddDataset(ctx, ds); err != nil {
		return err
	}
	_, err = fmt.Fprintf(stdout, "imported %d rows into dataset %s\n", ds.Len(), ds.Name)
	return err
}

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// runQuery classifies a single vector through the knn virtual table, so the
// prediction is made by SQLite against the stored points.
func runQuery(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("query", flag.ContinueOnError)
	dbPath := fs.String("db", "", "SQLite database path")
	name := fs.String("name", "", "dataset name")
	k := fs.Int("k", knntable.DefaultK, "number of neighbors")
	debug := fs.Bool("debug", false, "enable debug logging")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dbPath == "" || *name == "" {
		return fmt.Errorf("-db and -name are required")
	}
	if !identifier.MatchString(*name) {
		return fmt.Errorf("dataset name %q is not a valid table identifier", *name)
	}
	if *k < 1 {
		return fmt.Errorf("-k must be >= 1, got %d", *k)
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("expected one comma-separated feature vector, got %d arguments", fs.NArg())
	}
	features, err := parseFeatures(fs.Arg(0))
	if err != nil {
		return err
	}

	logger, err := logging.New(*debug)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	db, err := engine.Open(*dbPath)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := knntable.Register(db, logger); err != nil {
		return err
	}

	table := fmt.Sprintf("%s_knn_%d", *name, *k)
	ddl := fmt.Sprintf("CREATE VIRTUAL TABLE IF NOT EXISTS %s USING %s(dataset=%s, k=%d)", table, knntable.ModuleName, *name, *k)
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return err
	}
	blob, err := vector.EncodeFeatures(features)
	if err != nil {
		return err
	}
	var label string
	query := fmt.Sprintf("SELECT label FROM %s WHERE label MATCH ?", table)
	if err := db.QueryRowContext(ctx, query, blob).Scan(&label); err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, label)
	return err
}

func parseFeatures(arg string) ([]float64, error) {
	parts := splitList(arg)
	if len(parts) == 0 {
		return nil, fmt.Errorf("empty feature vector")
	}
	out := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("feature %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
