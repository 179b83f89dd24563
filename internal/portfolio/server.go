// Package portfolio assembles the portfolio backend server.
package portfolio

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/kart-io/logger"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/gireesh-ai/portfolio/internal/pkg/middleware"
	"github.com/gireesh-ai/portfolio/internal/pkg/session"
	"github.com/gireesh-ai/portfolio/internal/portfolio/biz"
	"github.com/gireesh-ai/portfolio/internal/portfolio/handler"
	"github.com/gireesh-ai/portfolio/internal/portfolio/metrics"
	"github.com/gireesh-ai/portfolio/internal/portfolio/router"
	"github.com/gireesh-ai/portfolio/internal/portfolio/store"
	"github.com/gireesh-ai/portfolio/pkg/component/postgres"
	redisclient "github.com/gireesh-ai/portfolio/pkg/component/redis"
	"github.com/gireesh-ai/portfolio/pkg/component/storage"
	"github.com/gireesh-ai/portfolio/pkg/llm"
	"github.com/gireesh-ai/portfolio/pkg/mail"
	cacheopts "github.com/gireesh-ai/portfolio/pkg/options/cache"
	httpopts "github.com/gireesh-ai/portfolio/pkg/options/http"
	llmopts "github.com/gireesh-ai/portfolio/pkg/options/llm"
	logopts "github.com/gireesh-ai/portfolio/pkg/options/logger"
	mailopts "github.com/gireesh-ai/portfolio/pkg/options/mail"
	otpopts "github.com/gireesh-ai/portfolio/pkg/options/otp"
	pgopts "github.com/gireesh-ai/portfolio/pkg/options/postgres"
	pipelineopts "github.com/gireesh-ai/portfolio/pkg/options/pipeline"
	sessionopts "github.com/gireesh-ai/portfolio/pkg/options/session"
	vectoropts "github.com/gireesh-ai/portfolio/pkg/options/vector"
	"github.com/gireesh-ai/portfolio/pkg/pool"

	// register LLM providers
	_ "github.com/gireesh-ai/portfolio/pkg/llm/huggingface"
	_ "github.com/gireesh-ai/portfolio/pkg/llm/openai"
)

// Name is the name of the application.
const Name = "portfolio-server"

// Config contains everything needed to assemble the server. Every field
// must be completed and validated by the caller.
type Config struct {
	HTTPOptions      *httpopts.Options
	LogOptions       *logopts.Options
	VectorOptions    *vectoropts.Options
	EmbeddingOptions *llmopts.ProviderOptions
	ChatOptions      *llmopts.ProviderOptions
	PipelineOptions  *pipelineopts.Options
	OTPOptions       *otpopts.Options
	MailOptions      *mailopts.Options
	SessionOptions   *sessionopts.Options
	CacheOptions     *cacheopts.Options
	PostgresOptions  *pgopts.Options
	CORSOrigins      []string
	ShutdownTimeout  time.Duration
}

// Server is the assembled portfolio backend.
type Server struct {
	httpServer      *http.Server
	storage         *storage.Manager
	shutdownTimeout time.Duration
	cleanups        []func()
}

// NewServer wires the whole service from the configuration.
func (cfg *Config) NewServer(ctx context.Context) (*Server, error) {
	if err := cfg.LogOptions.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.Infow("Starting portfolio backend", "name", Name)

	if err := pool.InitGlobal(); err != nil {
		return nil, fmt.Errorf("failed to initialize worker pools: %w", err)
	}

	srv := &Server{shutdownTimeout: cfg.ShutdownTimeout}
	if srv.shutdownTimeout <= 0 {
		srv.shutdownTimeout = 10 * time.Second
	}
	srv.cleanups = append(srv.cleanups, func() { _ = pool.CloseGlobal() })

	srv.storage = storage.NewManager()
	srv.cleanups = append(srv.cleanups, func() { _ = srv.storage.CloseAll() })

	vectorStore, err := cfg.newVectorStore(ctx, srv)
	if err != nil {
		return nil, err
	}

	db, err := cfg.newPostgres(srv)
	if err != nil {
		return nil, err
	}

	redisConn, err := cfg.newRedis(srv)
	if err != nil {
		return nil, err
	}

	otpStore, err := cfg.newOTPStore(db, redisConn)
	if err != nil {
		return nil, err
	}

	resumeStore, err := store.NewPostgresResumeStore(db)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize resume store: %w", err)
	}

	embedProvider, err := llm.NewEmbeddingProvider(cfg.EmbeddingOptions.Provider, cfg.EmbeddingOptions.ToConfigMap())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize embedding provider: %w", err)
	}
	logger.Infow("Embedding provider initialized",
		"provider", cfg.EmbeddingOptions.Provider,
		"model", cfg.EmbeddingOptions.Model,
	)

	askProvider, err := llm.NewChatProvider(cfg.ChatOptions.Provider, cfg.ChatOptions.ToConfigMap())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize chat provider: %w", err)
	}
	logger.Infow("Chat provider initialized",
		"provider", cfg.ChatOptions.Provider,
		"model", cfg.ChatOptions.Model,
	)

	// the conversational candidates run on the embedding provider's
	// platform with the same credential
	candidateProvider, err := llm.NewChatProvider(cfg.EmbeddingOptions.Provider, cfg.EmbeddingOptions.ToConfigMap())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize candidate chat provider: %w", err)
	}

	mailer, err := cfg.newMailer()
	if err != nil {
		return nil, err
	}

	service := cfg.newService(vectorStore, embedProvider, askProvider, candidateProvider, otpStore, resumeStore, mailer, redisConn)

	sessionMgr := session.NewManager(cfg.SessionOptions.TTL, cfg.SessionOptions.Domain, cfg.SessionOptions.Secure)

	h := handler.New(service, sessionMgr, srv.storage, cfg.PipelineOptions.HandlerTimeout)
	cors := middleware.DefaultCORSConfig
	if len(cfg.CORSOrigins) > 0 {
		cors.AllowOrigins = cfg.CORSOrigins
	}
	engine := router.New(h, cors)

	srv.httpServer = &http.Server{
		Addr:         cfg.HTTPOptions.Addr,
		Handler:      engine,
		ReadTimeout:  cfg.HTTPOptions.ReadTimeout,
		WriteTimeout: cfg.HTTPOptions.WriteTimeout,
		IdleTimeout:  cfg.HTTPOptions.IdleTimeout,
	}

	logger.Infow("Portfolio backend ready", "addr", cfg.HTTPOptions.Addr)
	return srv, nil
}

func (cfg *Config) newVectorStore(ctx context.Context, srv *Server) (store.VectorStore, error) {
	vectorStore, cleanup, err := store.NewFromOptions(ctx, cfg.VectorOptions)
	if err != nil {
		return nil, err
	}
	srv.cleanups = append(srv.cleanups, cleanup)
	return vectorStore, nil
}

func (cfg *Config) newPostgres(srv *Server) (*gorm.DB, error) {
	client, err := postgres.New(cfg.PostgresOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}
	srv.storage.MustRegister("postgres", client)
	logger.Infow("Postgres initialized",
		"host", cfg.PostgresOptions.Host,
		"database", cfg.PostgresOptions.Database,
	)
	return client.DB(), nil
}

// newRedis connects to Redis when the cache or the redis OTP store needs
// it. Returns nil when neither does.
func (cfg *Config) newRedis(srv *Server) (*goredis.Client, error) {
	needed := cfg.CacheOptions.Enabled || cfg.OTPOptions.Store == otpopts.StoreRedis
	if !needed {
		return nil, nil
	}

	client, err := redisclient.New(cfg.CacheOptions.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize redis: %w", err)
	}
	srv.storage.MustRegister("redis", client)
	logger.Infow("Redis initialized",
		"host", cfg.CacheOptions.Redis.Host,
		"port", cfg.CacheOptions.Redis.Port,
	)
	return client.Client(), nil
}

func (cfg *Config) newOTPStore(db *gorm.DB, redisConn *goredis.Client) (store.OTPStore, error) {
	switch cfg.OTPOptions.Store {
	case otpopts.StorePostgres:
		return store.NewPostgresOTPStore(db)
	case otpopts.StoreRedis:
		if redisConn == nil {
			return nil, fmt.Errorf("otp store is redis but no redis connection is configured")
		}
		return store.NewRedisOTPStore(redisConn, cfg.OTPOptions.KeyPrefix), nil
	default:
		return nil, fmt.Errorf("unknown otp store: %s", cfg.OTPOptions.Store)
	}
}

// newMailer builds the Resend-then-SMTP failover chain from whatever is
// configured. At least one provider must be usable.
func (cfg *Config) newMailer() (mail.Mailer, error) {
	var mailers []mail.Mailer
	if cfg.MailOptions.ResendAPIKey != "" {
		mailers = append(mailers, mail.NewResendMailer(cfg.MailOptions.ResendAPIKey, cfg.MailOptions.From))
	}
	if cfg.MailOptions.SMTPHost != "" {
		mailers = append(mailers, mail.NewSMTPMailer(&mail.SMTPConfig{
			Host:     cfg.MailOptions.SMTPHost,
			Port:     cfg.MailOptions.SMTPPort,
			Username: cfg.MailOptions.SMTPUsername,
			Password: cfg.MailOptions.SMTPPassword,
			From:     cfg.MailOptions.From,
		}))
	}

	failover, err := mail.NewFailoverMailer(mailers...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize mail delivery: %w", err)
	}
	failover.OnFailover = metrics.Get().RecordMailFailover
	logger.Infow("Mail delivery initialized", "providers", len(mailers))
	return failover, nil
}

func (cfg *Config) newService(
	vectorStore store.VectorStore,
	embedProvider llm.EmbeddingProvider,
	askProvider, candidateProvider llm.ChatProvider,
	otpStore store.OTPStore,
	resumeStore store.ResumeStore,
	mailer mail.Mailer,
	redisConn *goredis.Client,
) biz.Service {
	retriever := biz.NewRetriever(vectorStore, embedProvider, &biz.RetrieverConfig{
		TopK: cfg.PipelineOptions.TopK,
	})

	var cache *biz.QueryCache
	if cfg.CacheOptions.Enabled && redisConn != nil {
		cache = biz.NewQueryCache(redisConn, &biz.QueryCacheConfig{
			Enabled:   true,
			TTL:       cfg.CacheOptions.TTL,
			KeyPrefix: cfg.CacheOptions.KeyPrefix,
		})
		logger.Infow("Answer cache enabled", "ttl", cfg.CacheOptions.TTL)
	}

	answerer := biz.NewAnswerer(retriever, askProvider, cache, &biz.AnswererConfig{
		SystemPrompt:  cfg.PipelineOptions.SystemPrompt,
		PrimaryModel:  cfg.PipelineOptions.PrimaryModel,
		FallbackModel: cfg.PipelineOptions.FallbackModel,
		Temperature:   cfg.PipelineOptions.Temperature,
		RetrievalMode: cfg.PipelineOptions.AskRetrieval,
	})

	chatService := biz.NewChatService(retriever, candidateProvider, askProvider, &biz.ChatConfig{
		SystemPrompt:    biz.DefaultChatSystemPrompt,
		CandidateModels: cfg.PipelineOptions.ChatModels,
		LastResortModel: cfg.PipelineOptions.ChatLastResortModel,
		MaxTokens:       cfg.PipelineOptions.ChatMaxTokens,
		Temperature:     cfg.PipelineOptions.Temperature,
		RetrievalMode:   cfg.PipelineOptions.ChatRetrieval,
	})

	otpService := biz.NewOTPService(otpStore, mailer, &biz.OTPConfig{TTL: cfg.OTPOptions.TTL})
	resumeService := biz.NewResumeService(resumeStore)

	return biz.NewPortfolioService(answerer, chatService, otpService, resumeService, vectorStore)
}

// Run starts the HTTP server and blocks until the context is cancelled
// or the server fails. Shutdown is graceful within the configured
// timeout.
func (s *Server) Run(ctx context.Context) error {
	defer func() {
		for i := len(s.cleanups) - 1; i >= 0; i-- {
			s.cleanups[i]()
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		logger.Infow("HTTP server listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	logger.Info("Server stopped")
	return nil
}
