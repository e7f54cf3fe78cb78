package di

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"pc-setup-agent/internal/adapter/api"
	"pc-setup-agent/internal/adapter/tool"
	"pc-setup-agent/internal/application/port/input"
	"pc-setup-agent/internal/application/port/output"
	"pc-setup-agent/internal/application/service"
	"pc-setup-agent/internal/infrastructure/llm/groq"
	"pc-setup-agent/internal/infrastructure/logger"
	"pc-setup-agent/internal/infrastructure/prompts"
	"pc-setup-agent/internal/infrastructure/search/duckduckgo"
	"pc-setup-agent/internal/infrastructure/search/tavily"
	"pc-setup-agent/internal/infrastructure/storage/memory"
	"pc-setup-agent/internal/infrastructure/storage/postgres"
	"pc-setup-agent/internal/usecase/resolver"
	"pc-setup-agent/internal/usecase/setup"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	SearchBackendTavily     = "tavily"
	SearchBackendDuckDuckGo = "duckduckgo"
)

// Container is the application context. It is built once at startup and
// handed to the HTTP server; nothing in the tree reads package globals.
type Container struct {
	LLM       output.LLMPort
	Logger    output.LoggerPort
	Tools     output.ToolRegistry
	Store     output.RecommendationStore
	Generator input.SetupGenerator
	Handler   http.Handler

	pool *pgxpool.Pool
}

type Config struct {
	GroqAPIKey  string
	GroqModel   string
	GroqBaseURL string

	SearchBackend string
	TavilyAPIKey  string

	DatabaseURL string

	MaxToolRounds int
	ModelTimeout  time.Duration
	ToolTimeout   time.Duration

	LogLevel        string
	LogDevelopment  bool
	LogHTTPRequests bool
	LogLLMTraffic   bool
	AllowedOrigins  []string
}

// LoadConfig reads every setting from cfg. GROQ_API_KEY is mandatory.
func LoadConfig(cfg output.ConfigPort) Config {
	return Config{
		GroqAPIKey:      cfg.MustGet("GROQ_API_KEY"),
		GroqModel:       cfg.GetWithDefault("GROQ_MODEL", groq.DefaultModel),
		GroqBaseURL:     cfg.GetWithDefault("GROQ_BASE_URL", groq.DefaultBaseURL),
		SearchBackend:   strings.ToLower(cfg.GetWithDefault("SEARCH_BACKEND", SearchBackendTavily)),
		TavilyAPIKey:    cfg.Get("TAVILY_API_KEY"),
		DatabaseURL:     cfg.Get("DATABASE_URL"),
		MaxToolRounds:   cfg.GetInt("MAX_TOOL_ROUNDS", resolver.DefaultMaxToolRounds),
		ModelTimeout:    cfg.GetDuration("MODEL_TIMEOUT", resolver.DefaultModelTimeout),
		ToolTimeout:     cfg.GetDuration("TOOL_TIMEOUT", resolver.DefaultToolTimeout),
		LogLevel:        cfg.GetWithDefault("LOG_LEVEL", "info"),
		LogDevelopment:  cfg.GetBool("LOG_DEVELOPMENT", false),
		LogHTTPRequests: cfg.GetBool("LOG_HTTP_REQUESTS", true),
		LogLLMTraffic:   cfg.GetBool("LOG_LLM_TRAFFIC", false),
		AllowedOrigins:  splitList(cfg.Get("CORS_ALLOWED_ORIGINS")),
	}
}

func NewContainer(ctx context.Context, cfg Config) (*Container, error) {
	log, err := logger.NewLoggerAdapter(logger.Config{
		Level:       cfg.LogLevel,
		Development: cfg.LogDevelopment,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	c := &Container{Logger: log}

	llmCfg := groq.DefaultConfig(cfg.GroqAPIKey, cfg.GroqModel)
	if cfg.GroqBaseURL != "" {
		llmCfg.BaseURL = cfg.GroqBaseURL
	}
	llmCfg.Logger = log
	llmCfg.LogHTTP = cfg.LogLLMTraffic
	c.LLM = groq.NewGroqAdapter(llmCfg)

	search, err := newSearchBackend(cfg, log)
	if err != nil {
		c.Close()
		return nil, err
	}

	tools := service.NewToolRegistry()
	if err := tools.Register(tool.NewSearchTool(search, log)); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}
	c.Tools = tools

	if err := c.initStore(ctx, cfg.DatabaseURL); err != nil {
		c.Close()
		return nil, err
	}

	resolverCfg := resolver.DefaultConfig()
	resolverCfg.MaxToolRounds = cfg.MaxToolRounds
	resolverCfg.ModelTimeout = cfg.ModelTimeout
	resolverCfg.ToolTimeout = cfg.ToolTimeout

	c.Generator = setup.New(
		prompts.NewSetupPromptBuilder("", nil),
		resolver.New(c.LLM, tools, log, resolverCfg),
		c.Store,
		log,
	)

	c.Handler = api.NewRouter(api.NewHandler(c.Generator, log), api.RouterConfig{
		AllowedOrigins: cfg.AllowedOrigins,
		LogRequests:    cfg.LogHTTPRequests,
		LogLevel:       cfg.LogLevel,
	})

	log.Info("Container ready",
		"model", llmCfg.Model,
		"searchBackend", cfg.SearchBackend,
		"maxToolRounds", resolverCfg.MaxToolRounds,
		"persistent", c.pool != nil)
	return c, nil
}

func newSearchBackend(cfg Config, log output.LoggerPort) (output.SearchPort, error) {
	switch cfg.SearchBackend {
	case SearchBackendTavily, "":
		if cfg.TavilyAPIKey == "" {
			log.Warn("TAVILY_API_KEY not set, falling back to DuckDuckGo")
			return newDuckDuckGo(log)
		}
		return tavily.NewClient(tavily.DefaultConfig(cfg.TavilyAPIKey), log), nil
	case SearchBackendDuckDuckGo:
		return newDuckDuckGo(log)
	default:
		return nil, fmt.Errorf("unknown search backend %q", cfg.SearchBackend)
	}
}

func newDuckDuckGo(log output.LoggerPort) (output.SearchPort, error) {
	client, err := duckduckgo.NewClient(tool.MaxSearchResults, "", log)
	if err != nil {
		return nil, fmt.Errorf("failed to create search backend: %w", err)
	}
	return client, nil
}

func (c *Container) initStore(ctx context.Context, databaseURL string) error {
	if databaseURL == "" {
		c.Logger.Warn("DATABASE_URL not set, recommendations are kept in memory only")
		c.Store = memory.NewRecommendationStore()
		return nil
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(databaseURL))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	c.pool = pool

	if err := postgres.Migrate(ctx, pool); err != nil {
		return err
	}
	c.Store = postgres.NewRecommendationRepository(pool)
	return nil
}

func (c *Container) Close() {
	if c.pool != nil {
		c.pool.Close()
	}
	if c.Logger != nil {
		c.Logger.Close()
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
