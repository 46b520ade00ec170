package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"chitravaani/internal/catalog"
	"chitravaani/internal/domain"
	"chitravaani/internal/embedding"
	"chitravaani/internal/grounding"
	"chitravaani/internal/synthesis"
	"chitravaani/internal/vectorstore"
	"chitravaani/internal/vectorstore/lexical"
)

// DefaultTopK is the number of records retrieved per question.
const DefaultTopK = 3

// Options tunes the orchestrator. Zero values select defaults.
type Options struct {
	TopK         int
	BatchSize    int
	Parallelism  int
	QueryTimeout time.Duration
	// WaitForReady makes questions asked during indexing block instead of failing with ErrNotReady.
	WaitForReady bool
	GateOptions  []grounding.Option
	Logger       *slog.Logger
}

// QAService answers questions from a fixed corpus. The corpus is indexed once by Start
// and is read-only afterwards, so AnswerQuestion is safe for concurrent use.
type QAService struct {
	corpus      *catalog.Corpus
	embedder    embedding.Embedder
	store       vectorstore.Storage
	gate        *grounding.Gate
	synthesizer *synthesis.Synthesizer
	opts        Options
	log         *slog.Logger

	once     sync.Once
	ready    chan struct{}
	buildErr error
	indexed  *catalog.Corpus
}

func NewQAService(corpus *catalog.Corpus, embedder embedding.Embedder, store vectorstore.Storage, synthesizer *synthesis.Synthesizer, opts Options) *QAService {
	if opts.TopK <= 0 {
		opts.TopK = DefaultTopK
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &QAService{
		corpus:      corpus,
		embedder:    embedder,
		store:       store,
		gate:        grounding.NewGate(corpus.Identifiers(), opts.GateOptions...),
		synthesizer: synthesizer,
		opts:        opts,
		log:         log.With("component", "qa"),
		ready:       make(chan struct{}),
	}
}

// Start embeds every record and loads the vector store. It runs once; later calls
// return the first call's result. Questions are served only after it succeeds.
func (s *QAService) Start(ctx context.Context) error {
	s.once.Do(func() {
		s.buildErr = s.build(ctx)
		close(s.ready)
	})
	return s.buildErr
}

// Ready reports whether Start has finished successfully.
func (s *QAService) Ready() bool {
	select {
	case <-s.ready:
		return s.buildErr == nil
	default:
		return false
	}
}

// Corpus returns the records the service answers from.
func (s *QAService) Corpus() *catalog.Corpus { return s.corpus }

func (s *QAService) build(ctx context.Context) error {
	started := time.Now()
	if s.corpus.Len() == 0 {
		s.indexed = s.corpus
		s.log.Warn("corpus is empty; every question will be refused")
		return nil
	}
	texts := s.corpus.Texts()
	if p, ok := s.embedder.(embedding.Preparer); ok {
		if err := p.Prepare(texts); err != nil {
			return unavailable(s.embedder.Name(), err)
		}
	}
	vectors, err := embedding.EmbedAll(ctx, s.embedder, texts, s.opts.BatchSize, s.opts.Parallelism)
	if err != nil {
		return unavailable(s.embedder.Name(), err)
	}
	indexed, err := s.corpus.WithVectors(vectors)
	if err != nil {
		return unavailable(s.embedder.Name(), err)
	}
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear vector store: %w", err)
	}
	if err := s.store.Init(ctx, len(vectors[0])); err != nil {
		return fmt.Errorf("init vector store: %w", err)
	}
	if err := s.store.Upsert(ctx, indexed.Records()); err != nil {
		return fmt.Errorf("upsert records: %w", err)
	}
	s.indexed = indexed
	s.log.Info("corpus indexed",
		"records", indexed.Len(),
		"dimension", len(vectors[0]),
		"embedder", s.embedder.Name(),
		"took", time.Since(started))
	return nil
}

func unavailable(name string, err error) error {
	if errors.Is(err, domain.ErrEmbeddingUnavailable) {
		return err
	}
	return fmt.Errorf("%s: %w: %w", name, domain.ErrEmbeddingUnavailable, err)
}

// AnswerQuestion retrieves the top records for question, applies the grounding gate
// and synthesizes an answer. Generation failures come back as a refusal Answer with
// Refusal set to RefusalGenerationFailed; only readiness and query embedding
// failures are returned as errors. QueryTimeout bounds the whole call, including
// any wait for indexing.
func (s *QAService) AnswerQuestion(ctx context.Context, question string) (domain.Answer, error) {
	if s.opts.QueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.QueryTimeout)
		defer cancel()
	}
	if err := s.awaitReady(ctx); err != nil {
		return domain.Answer{}, err
	}
	log := s.log.With("query_id", uuid.NewString())

	if strings.TrimSpace(question) == "" {
		log.Debug("refused", "reason", grounding.ReasonEmptyQuestion)
		return domain.Refused(domain.RefusalNoEvidence, nil), nil
	}
	if s.indexed.Len() == 0 {
		log.Debug("refused", "reason", grounding.ReasonNoRetrieval)
		return domain.Refused(domain.RefusalNoEvidence, nil), nil
	}

	retrieved, err := s.retrieve(ctx, question)
	if err != nil {
		return domain.Answer{}, err
	}
	log.Debug("retrieved", "count", len(retrieved))

	verdict := s.gate.Check(question, retrieved)
	if verdict.Decision != grounding.Accept {
		log.Info("refused", "decision", verdict.Decision.String(), "reason", verdict.Reason)
		return domain.Refused(domain.RefusalNoEvidence, nil), nil
	}

	records := make([]domain.Record, len(retrieved))
	for i, r := range retrieved {
		records[i] = r.Record
	}
	text, err := s.synthesizer.Synthesize(ctx, question, records)
	if err != nil {
		log.Warn("generation failed", "error", err)
		return domain.Refused(domain.RefusalGenerationFailed, err), nil
	}
	log.Info("answered", "citations", len(records))
	return domain.Answer{Text: text, Citations: records, Refusal: domain.RefusalNone}, nil
}

func (s *QAService) awaitReady(ctx context.Context) error {
	select {
	case <-s.ready:
		return s.buildErr
	default:
	}
	if !s.opts.WaitForReady {
		return domain.ErrNotReady
	}
	select {
	case <-s.ready:
		return s.buildErr
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", domain.ErrNotReady, ctx.Err())
	}
}

// retrieve ranks the corpus against the question. A query vector with no signal,
// or one that scores zero against every record, falls back to word overlap.
func (s *QAService) retrieve(ctx context.Context, question string) ([]domain.Scored, error) {
	vec, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return nil, unavailable(s.embedder.Name(), err)
	}
	if isZero(vec) {
		return lexical.Rank(question, s.indexed.Records(), s.opts.TopK), nil
	}
	res, err := s.store.Search(ctx, vec, s.opts.TopK)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	allZero := true
	for _, r := range res {
		if r.Score > 1e-9 {
			allZero = false
			break
		}
	}
	if allZero {
		return lexical.Rank(question, s.indexed.Records(), s.opts.TopK), nil
	}
	return res, nil
}

func isZero(v []float64) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}
