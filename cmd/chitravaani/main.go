package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"chitravaani/internal/catalog"
	"chitravaani/internal/config"
	"chitravaani/internal/domain"
	"chitravaani/internal/logging"
	"chitravaani/internal/service"
	"chitravaani/internal/synthesis"
	"chitravaani/internal/tui"
)

type jsonAnswer struct {
	AnswerText             string   `json:"answer_text"`
	CitedRecordIdentifiers []string `json:"cited_record_identifiers"`
	Refusal                string   `json:"refusal"`
	Error                  string   `json:"error,omitempty"`
}

func main() {
	_ = godotenv.Load()

	var cfgPath, question string
	var asJSON bool
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/chitravaani/config.yaml if not provided)")
	flag.StringVar(&question, "ask", "", "Answer a single question and exit")
	flag.BoolVar(&asJSON, "json", false, "With --ask, print the answer as JSON")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: chitravaani [--config=config.yaml] [--ask \"question\" [--json]] [movies.json|movies.yaml]")
		flag.PrintDefaults()
	}
	flag.Parse()

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if flag.NArg() > 0 {
		cfg.Dataset.Path = flag.Arg(0)
	}
	if cfg.Dataset.Path == "" {
		flag.Usage()
		os.Exit(1)
	}

	// The TUI owns the terminal, so only single-question mode logs to stderr.
	logger, closeLog, err := newLogger(cfg.Log, question != "")
	if err != nil {
		log.Fatalf("failed to configure logging: %v", err)
	}
	defer closeLog()

	corpus, err := catalog.LoadFile(cfg.Dataset.Path, cfg.Dataset.IdentifierField)
	if err != nil {
		log.Fatalf("load dataset: %v", err)
	}

	// Assemble components
	emb, err := buildEmbedder(cfg.Embedder)
	if err != nil {
		log.Fatalf("embedder init failed: %v", err)
	}
	st, err := buildStorage(cfg.VectorStore)
	if err != nil {
		log.Fatalf("vector store init failed: %v", err)
	}
	gen, err := buildGenerator(cfg.Generator)
	if err != nil {
		log.Fatalf("generator init failed: %v", err)
	}

	opts := service.Options{
		TopK:         cfg.Retrieval.TopK,
		QueryTimeout: secs(cfg.Service.QueryTimeoutSecs),
		WaitForReady: cfg.Service.WaitsForReady(),
		GateOptions:  gateOptions(cfg.Gate),
		Logger:       logger,
	}
	if o := cfg.Embedder.OpenAI; o != nil {
		opts.BatchSize = o.BatchSize
		opts.Parallelism = o.Parallelism
	}
	svc := service.NewQAService(corpus, emb, st, synthesis.New(gen, cfg.Generator.MaxTokens), opts)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := svc.Start(ctx); err != nil {
		log.Fatalf("index failed: %v", err)
	}

	if question != "" {
		ans, err := svc.AnswerQuestion(ctx, question)
		if err != nil {
			log.Fatalf("answer failed: %v", err)
		}
		printAnswer(ans, asJSON)
		return
	}

	subtitle := fmt.Sprintf("%d movies from %s · embedder %s · generator %s", corpus.Len(), cfg.Dataset.Path, emb.Name(), gen.Name())
	m := tui.New(svc, subtitle)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		log.Fatal(err)
	}
}

func newLogger(cfg config.LogConfig, toStderr bool) (*slog.Logger, func() error, error) {
	if toStderr {
		l, err := logging.New(cfg)
		return l, func() error { return nil }, err
	}
	return logging.NewForUI(cfg)
}

func printAnswer(ans domain.Answer, asJSON bool) {
	if asJSON {
		out := jsonAnswer{
			AnswerText:             ans.Text,
			CitedRecordIdentifiers: ans.Identifiers(),
			Refusal:                ans.Refusal.String(),
		}
		if ans.Failure != nil {
			out.Error = ans.Failure.Error()
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
		return
	}
	fmt.Println(ans.Text)
	if ans.Refusal == domain.RefusalGenerationFailed {
		fmt.Fprintf(os.Stderr, "note: answer generation failed: %v\n", ans.Failure)
	}
	if ids := ans.Identifiers(); len(ids) > 0 {
		fmt.Println()
		fmt.Println("Sources:")
		for i, id := range ids {
			fmt.Printf("  %d. %s\n", i+1, id)
		}
	}
}
