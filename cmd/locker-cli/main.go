package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mailbox-locator/app/config"
	"github.com/mailbox-locator/app/models"
	"github.com/mailbox-locator/app/services"
	"github.com/mailbox-locator/internal/dataset"
	"github.com/mailbox-locator/internal/parser"
	"github.com/mailbox-locator/internal/search"
	"go.uber.org/zap"
)

const usage = `locker-cli tra cứu / quản lý custom record offline

Usage:
  locker-cli [flags] search [-mode addr|box|borrower|all] <query>
  locker-cli [flags] list
  locker-cli [flags] import <file.json|file.xlsx>
  locker-cli [flags] export <file.json|file.xlsx>
  locker-cli [flags] stats
  locker-cli [flags] mirror
  locker-cli [flags] typeahead [-source base|custom] <query>

Flags:
`

func main() {
	datasetPath := flag.String("dataset", "./data/clean_dataset.json", "dataset gốc (.json/.yaml/.xlsx)")
	dbPath := flag.String("db", "./data/custom_records.db", "file SQLite lưu custom record")
	matcherPath := flag.String("config", "config/matcher.yaml", "cấu hình matcher")
	meiliURL := flag.String("meili-url", getEnv("MEILI_URL", "http://localhost:7700"), "Meilisearch host cho mirror / typeahead")
	meiliKey := flag.String("meili-key", os.Getenv("MEILI_MASTER_KEY"), "Meilisearch API key")
	verbose := flag.Bool("v", false, "log chi tiết")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	logger := newLogger(*verbose)
	defer logger.Sync()

	if err := config.Load(*matcherPath); err != nil {
		logger.Debug("Dùng cấu hình matcher mặc định", zap.Error(err))
	}

	mirror := search.NewMeiliMirror(search.MirrorConfig{
		Host:      *meiliURL,
		APIKey:    *meiliKey,
		IndexName: config.C.Mirror.IndexName,
		BatchSize: config.C.Mirror.BatchSize,
	}, logger)

	if err := run(context.Background(), *datasetPath, *dbPath, mirror, flag.Args(), logger); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, datasetPath, dbPath string, mirror *search.MeiliMirror, args []string, logger *zap.Logger) error {
	// typeahead chỉ cần index mirror
	if args[0] == "typeahead" {
		return runTypeahead(mirror, args[1:])
	}

	base, err := dataset.LoadFile(datasetPath)
	if err != nil {
		return err
	}

	store, err := services.NewSQLiteStore(dbPath, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	svc, err := services.NewLockerService(ctx, base, store, services.LockerOptions{
		Search:    config.C.SearchOptions(),
		CacheSize: config.C.Cache.Size,
	}, logger)
	if err != nil {
		return err
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "search":
		return runSearch(svc, rest)
	case "list":
		return printJSON(svc.List())
	case "import":
		return runImport(ctx, svc, rest)
	case "export":
		return runExport(svc, rest)
	case "stats":
		return printJSON(svc.Stats())
	case "mirror":
		pool := svc.Matcher().Index().Pool()
		if err := mirror.Sync(ctx, pool); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "mirrored %d records\n", len(pool))
		return nil
	}
	return fmt.Errorf("unknown command %q", cmd)
}

func runSearch(svc *services.LockerService, args []string) error {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	mode := fs.String("mode", "addr", "addr | box | borrower | all")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("search: missing query")
	}

	m, ok := services.ParseSearchMode(*mode)
	if !ok {
		return fmt.Errorf("search: invalid mode %q", *mode)
	}

	res := svc.Lookup(strings.Join(fs.Args(), " "), m)
	return printJSON(struct {
		Tier       string                   `json:"tier"`
		Candidates []models.LockerCandidate `json:"candidates"`
		Parsed     *parser.ParsedAddress    `json:"parsed,omitempty"`
		Suggest    []search.RoadSuggestion  `json:"suggestions,omitempty"`
	}{
		Tier:       string(res.Tier),
		Candidates: models.NewLockerCandidates(res.Candidates),
		Parsed:     res.Parsed,
		Suggest:    res.Suggestions,
	})
}

func runTypeahead(mirror *search.MeiliMirror, args []string) error {
	fs := flag.NewFlagSet("typeahead", flag.ContinueOnError)
	source := fs.String("source", "", "base | custom")
	limit := fs.Int64("limit", 10, "số kết quả tối đa")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("typeahead: missing query")
	}

	hits, err := mirror.Typeahead(strings.Join(fs.Args(), " "), *source, *limit)
	if err != nil {
		return err
	}
	return printJSON(hits)
}

func runImport(ctx context.Context, svc *services.LockerService, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("import: expected one file")
	}

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	var result services.ImportResult
	if strings.EqualFold(filepath.Ext(args[0]), ".xlsx") {
		result, err = svc.ImportXLSX(ctx, f)
	} else {
		var buf bytes.Buffer
		if _, err = buf.ReadFrom(f); err != nil {
			return err
		}
		result, err = svc.Import(ctx, buf.Bytes())
	}
	if err != nil {
		return err
	}
	return printJSON(result)
}

func runExport(svc *services.LockerService, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("export: expected one file")
	}

	var buf bytes.Buffer
	if strings.EqualFold(filepath.Ext(args[0]), ".xlsx") {
		if err := svc.ExportXLSX(&buf); err != nil {
			return err
		}
	} else {
		data, err := svc.Export()
		if err != nil {
			return err
		}
		buf.Write(data)
	}

	if err := os.WriteFile(args[0], buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("lỗi ghi file export: %w", err)
	}
	fmt.Fprintf(os.Stderr, "exported %d records to %s\n", len(svc.List()), args[0])
	return nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
