// Package app wires application dependencies. Construction failures of
// individual components degrade the surface instead of crashing startup.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/upb/support-orchestrator/config"
	"github.com/upb/support-orchestrator/internal/kb"
	"github.com/upb/support-orchestrator/internal/vectorindex"
	"github.com/upb/support-orchestrator/repositories/postgres"
	"github.com/upb/support-orchestrator/services/audit"
	"github.com/upb/support-orchestrator/services/embedder"
	"github.com/upb/support-orchestrator/services/intent"
	"github.com/upb/support-orchestrator/services/orchestrator"
	"github.com/upb/support-orchestrator/services/retrieval"
	"github.com/upb/support-orchestrator/services/tools"
	"go.uber.org/zap"
)

// Dependencies holds all application dependencies. This is the central
// wiring point for dependency injection.
type Dependencies struct {
	Config *config.Config
	Logger *zap.Logger

	Retriever    *retrieval.Service
	Orchestrator *orchestrator.Service
	AuditLog     *audit.Log
	DB           *postgres.DB

	// Diagnostics records per-component startup outcomes. When a core
	// component failed to construct, the HTTP surface answers with these
	// instead of crashing.
	Diagnostics map[string]string
}

// NewDependencies wires up all application dependencies. It always
// returns a usable Dependencies value: startup errors are captured in
// Diagnostics and leave the orchestrator nil (degraded mode).
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) *Dependencies {
	deps := &Dependencies{
		Config:      cfg,
		Logger:      logger,
		Diagnostics: make(map[string]string),
	}

	deps.initKB(cfg)
	deps.initRetriever(ctx, cfg)
	deps.initAudit(cfg)
	deps.initOrchestrator(cfg)

	if deps.Healthy() {
		logger.Info("all dependencies initialized successfully")
	} else {
		logger.Warn("starting in degraded mode", zap.Any("diagnostics", deps.Diagnostics))
	}
	return deps
}

// Healthy reports whether the full pipeline is available.
func (d *Dependencies) Healthy() bool {
	return d.Orchestrator != nil
}

// initKB bootstraps the sample knowledge base. This runs before engine
// construction so the engine itself has no filesystem side effects.
func (d *Dependencies) initKB(cfg *config.Config) {
	if !cfg.KB.Bootstrap {
		d.Diagnostics["kb"] = "bootstrap disabled"
		return
	}
	if err := kb.EnsureSampleKB(cfg.KB.Path, d.Logger); err != nil {
		// Not fatal: the retriever degrades to its fallback chunk.
		d.Logger.Warn("knowledge base bootstrap failed", zap.Error(err))
		d.Diagnostics["kb"] = fmt.Sprintf("bootstrap error: %v", err)
		return
	}
	d.Diagnostics["kb"] = "ok"
}

// initRetriever builds the embedder, the configured index backend, and
// the retrieval engine.
func (d *Dependencies) initRetriever(ctx context.Context, cfg *config.Config) {
	emb, err := d.buildEmbedder(cfg)
	if err != nil {
		d.Diagnostics["retriever"] = fmt.Sprintf("error: %v", err)
		return
	}

	index, err := d.buildIndex(ctx, cfg, emb)
	if err != nil {
		d.Diagnostics["retriever"] = fmt.Sprintf("error: %v", err)
		return
	}

	retriever, err := retrieval.NewService(ctx, cfg.KB.Path, emb, index, d.Logger)
	if err != nil {
		d.Diagnostics["retriever"] = fmt.Sprintf("error: %v", err)
		return
	}

	d.Retriever = retriever
	d.Diagnostics["retriever"] = "ok"
}

func (d *Dependencies) buildEmbedder(cfg *config.Config) (embedder.Embedder, error) {
	switch cfg.Embedding.Provider {
	case config.EmbeddingOllama:
		return embedder.NewOllamaEmbedder(cfg.Embedding.BaseURL, cfg.Embedding.Model), nil
	default:
		return embedder.NewHashEmbedder(cfg.Embedding.Dim)
	}
}

func (d *Dependencies) buildIndex(ctx context.Context, cfg *config.Config, emb embedder.Embedder) (vectorindex.Index, error) {
	switch cfg.Retrieval.Backend {
	case config.BackendRemote:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Retrieval.Redis.Addr,
			Password: cfg.Retrieval.Redis.Password,
			DB:       cfg.Retrieval.Redis.DB,
			PoolSize: cfg.Retrieval.Redis.PoolSize,
		})
		dim := emb.Dim()
		if dim == 0 {
			dim = cfg.Embedding.Dim
		}
		return vectorindex.NewRedisIndex(ctx, client, cfg.Retrieval.IndexName, dim)
	default:
		return vectorindex.NewLocalIndex(), nil
	}
}

// initAudit creates the audit log, with a Postgres mirror when
// DATABASE_URL_AUDIT is configured. Sink failures fall back to the
// in-memory log: persistence is best-effort, the ordered log is not.
func (d *Dependencies) initAudit(cfg *config.Config) {
	if cfg.AuditDatabase == nil {
		d.AuditLog = audit.NewLog(d.Logger)
		d.Diagnostics["audit"] = "in-memory"
		return
	}

	db, err := postgres.NewDB(*cfg.AuditDatabase, d.Logger)
	if err != nil {
		d.Logger.Warn("audit database unavailable, keeping audit in-memory", zap.Error(err))
		d.AuditLog = audit.NewLog(d.Logger)
		d.Diagnostics["audit"] = fmt.Sprintf("in-memory (sink error: %v)", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.InitAuditSchema(ctx); err != nil {
		d.Logger.Warn("audit schema init failed, keeping audit in-memory", zap.Error(err))
		_ = db.Close()
		d.AuditLog = audit.NewLog(d.Logger)
		d.Diagnostics["audit"] = fmt.Sprintf("in-memory (schema error: %v)", err)
		return
	}

	d.DB = db
	d.AuditLog = audit.NewLogWithSink(postgres.NewAuditRepository(db, d.Logger), d.Logger)
	d.Diagnostics["audit"] = "in-memory + postgres mirror"
}

func (d *Dependencies) initOrchestrator(cfg *config.Config) {
	if d.Retriever == nil {
		d.Diagnostics["orchestrator"] = "skipped (retriever init failed)"
		return
	}

	svc, err := orchestrator.NewService(
		d.Retriever,
		intent.NewRuleClassifier(),
		tools.NewDispatcher(tools.NewOrderStore(), d.Logger),
		d.AuditLog,
		d.Logger,
		orchestrator.Config{
			ModelName:           cfg.Orchestrator.ModelName,
			ConfidenceThreshold: cfg.Orchestrator.ConfidenceThreshold,
			TopK:                cfg.Retrieval.TopK,
		},
	)
	if err != nil {
		d.Diagnostics["orchestrator"] = fmt.Sprintf("error: %v", err)
		return
	}

	d.Orchestrator = svc
	d.Diagnostics["orchestrator"] = "ok"
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	var errs []error

	if d.AuditLog != nil {
		if err := d.AuditLog.Close(5 * time.Second); err != nil {
			errs = append(errs, fmt.Errorf("failed to close audit sink: %w", err))
		}
	}

	if d.DB != nil {
		if err := d.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	if d.Logger != nil {
		_ = d.Logger.Sync()
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during shutdown: %v", errs)
	}
	return nil
}
