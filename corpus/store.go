package corpus

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"lawgic-backend/embedding"
)

// ErrStatuteUnavailable indicates the primary statute document could not
// be loaded. Unlike the optional tables, this aborts retrieval entirely.
var ErrStatuteUnavailable = errors.New("statute tree unavailable")

// StoreConfig holds the corpus file locations.
type StoreConfig struct {
	StatutePath     string
	DefinitionsPath string
	SchedulesPath   string
	SubsidiaryPath  string
}

// ConfigFromEnv builds a StoreConfig from environment variables, with the
// original data layout as defaults.
func ConfigFromEnv() StoreConfig {
	cfg := StoreConfig{
		StatutePath:     os.Getenv("CORPUS_STATUTE_PATH"),
		DefinitionsPath: os.Getenv("CORPUS_DEFINITIONS_PATH"),
		SchedulesPath:   os.Getenv("CORPUS_SCHEDULES_PATH"),
		SubsidiaryPath:  os.Getenv("CORPUS_SUBSIDIARY_PATH"),
	}
	if cfg.StatutePath == "" {
		cfg.StatutePath = "./data/pdpa.json"
	}
	if cfg.DefinitionsPath == "" {
		cfg.DefinitionsPath = "./data/interpretation.json"
	}
	if cfg.SchedulesPath == "" {
		cfg.SchedulesPath = "./data/schedule.json"
	}
	if cfg.SubsidiaryPath == "" {
		cfg.SubsidiaryPath = "./data/subsidiary.json"
	}
	return cfg
}

// Store lazily loads and caches the four corpus tables plus the category
// name embeddings. Tables are read-only once loaded and safe to share
// across readers; the lazy first load itself is not guarded, so a
// concurrent caller must serialize it by calling Warm at startup.
type Store struct {
	cfg      StoreConfig
	embedder embedding.Embedder

	statute *StatuteTree

	definitions     *Definitions
	definitionsDone bool

	schedules     Schedules
	schedulesDone bool

	subsidiary     *SubsidiaryMapping
	subsidiaryDone bool

	categoryNames []string
	categoryVecs  [][]float64
}

// NewStore creates a corpus store over the configured files. The embedder
// is used once to precompute category name vectors.
func NewStore(cfg StoreConfig, embedder embedding.Embedder) *Store {
	return &Store{cfg: cfg, embedder: embedder}
}

// Statute returns the primary statute tree, loading it on first access.
// A load failure is fatal to the caller and is not cached, so a later
// call retries the load.
func (s *Store) Statute() (*StatuteTree, error) {
	if s.statute != nil {
		return s.statute, nil
	}
	tree, err := loadStatuteTree(s.cfg.StatutePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStatuteUnavailable, err)
	}
	s.statute = tree
	return s.statute, nil
}

// Definitions returns the interpretation table. A missing or malformed
// file degrades to an empty table: the definition pass becomes a no-op.
func (s *Store) Definitions() *Definitions {
	if s.definitionsDone {
		return s.definitions
	}
	defs, err := loadDefinitions(s.cfg.DefinitionsPath)
	if err != nil {
		log.Printf("Warning: definitions table unavailable: %v", err)
		defs = &Definitions{}
	}
	s.definitions = defs
	s.definitionsDone = true
	return s.definitions
}

// Schedules returns the schedule table, degrading to empty on failure.
func (s *Store) Schedules() Schedules {
	if s.schedulesDone {
		return s.schedules
	}
	schedules, err := loadSchedules(s.cfg.SchedulesPath)
	if err != nil {
		log.Printf("Warning: schedule table unavailable: %v", err)
		schedules = make(Schedules)
	}
	s.schedules = schedules
	s.schedulesDone = true
	return s.schedules
}

// Subsidiary returns the subsidiary legislation mapping, degrading to
// empty on failure.
func (s *Store) Subsidiary() *SubsidiaryMapping {
	if s.subsidiaryDone {
		return s.subsidiary
	}
	mapping, err := loadSubsidiaryMapping(s.cfg.SubsidiaryPath)
	if err != nil {
		log.Printf("Warning: subsidiary mapping unavailable: %v", err)
		mapping = &SubsidiaryMapping{}
	}
	s.subsidiary = mapping
	s.subsidiaryDone = true
	return s.subsidiary
}

// CategoryEmbeddings returns category names in document order alongside
// their unit-normalized vectors, embedding them on first access.
// Embedding failure here is fatal: matching cannot proceed without it.
func (s *Store) CategoryEmbeddings(ctx context.Context) ([]string, [][]float64, error) {
	if s.categoryVecs != nil {
		return s.categoryNames, s.categoryVecs, nil
	}

	tree, err := s.Statute()
	if err != nil {
		return nil, nil, err
	}

	names := tree.CategoryNames()
	vecs, err := s.embedder.Embed(ctx, names)
	if err != nil {
		return nil, nil, fmt.Errorf("embed category names: %w", err)
	}
	if len(vecs) != len(names) {
		return nil, nil, fmt.Errorf("category embedding count mismatch: got %d, want %d", len(vecs), len(names))
	}

	s.categoryNames = names
	s.categoryVecs = vecs
	return s.categoryNames, s.categoryVecs, nil
}

// Warm eagerly populates every cache. Call once at process start before
// serving concurrent requests; after that the store is read-only.
func (s *Store) Warm(ctx context.Context) error {
	if _, _, err := s.CategoryEmbeddings(ctx); err != nil {
		return err
	}
	s.Definitions()
	s.Schedules()
	s.Subsidiary()
	return nil
}
