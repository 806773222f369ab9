package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"stratgen/config"
	"stratgen/generator"
	"stratgen/progress"
	"stratgen/prompt"
	"stratgen/render"
	"stratgen/server"
	"stratgen/store"
)

var verbose bool

func main() {
	configPath := flag.String("config", "", "path to config.json (optional, env-only config when omitted)")
	serve := flag.Bool("serve", false, "start web server")
	addr := flag.String("addr", "", "http listen address when --serve (overrides config.server_addr)")
	name := flag.String("name", "", "business or owner name for one-shot strategy generation")
	businessType := flag.String("type", "", "business type")
	objectives := flag.String("objectives", "", "marketing objectives")
	audience := flag.String("audience", "", "target audience")
	differentiation := flag.String("differentiation", "", "what differentiates the business")
	htmlOut := flag.Bool("html", false, "print the strategy as HTML instead of markdown")
	flag.BoolVar(&verbose, "v", false, "enable debug logs")
	flag.Parse()

	// A local .env is optional; config falls back to the process
	// environment either way.
	_ = godotenv.Load()

	logger, err := buildLogger(verbose)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	llm, err := buildLLM(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	agent, err := generator.NewAgent(llm, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if *serve {
		if err := runServer(cfg, agent, logger, *addr); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if *name == "" || *businessType == "" {
		fmt.Fprintln(os.Stderr, "--name and --type are required (or use --serve)")
		os.Exit(1)
	}
	facts := prompt.StrategyFacts{
		Name:            *name,
		BusinessType:    *businessType,
		Objectives:      *objectives,
		Audience:        *audience,
		Differentiation: *differentiation,
	}
	if err := runOneShot(agent, facts, *htmlOut); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildLogger(debug bool) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if debug {
		zcfg = zap.NewDevelopmentConfig()
		zcfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return zcfg.Build()
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.FromEnv(), nil
	}
	return config.Load(path)
}

func buildLLM(cfg config.Config) (generator.LLMClient, error) {
	settings := &generator.LLMSettings{
		Provider:        cfg.LLM.Provider,
		Model:           cfg.LLM.Model,
		APIKey:          cfg.LLM.APIKey,
		BaseURL:         cfg.LLM.BaseURL,
		MaxOutputTokens: cfg.LLM.MaxOutputTokens,
	}
	switch cfg.LLM.Provider {
	case "gemini":
		return generator.NewGeminiLLM(settings)
	case "openai":
		return generator.NewOpenAILLM(settings)
	case "mock":
		return &generator.MockLLM{}, nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLM.Provider)
	}
}

func runServer(cfg config.Config, agent *generator.Agent, logger *zap.Logger, addrOverride string) error {
	st, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("open database %s: %w", cfg.DatabasePath, err)
	}
	defer st.Close()

	srv, err := server.New(agent, st, progress.NewMemoryStore(0), logger)
	if err != nil {
		return err
	}

	listen := cfg.ServerAddr
	if addrOverride != "" {
		listen = addrOverride
	}
	logger.Info("starting server", zap.String("addr", listen))
	return http.ListenAndServe(listen, srv.Routes())
}

func runOneShot(agent *generator.Agent, facts prompt.StrategyFacts, asHTML bool) error {
	draft, err := agent.GenerateStrategy(context.Background(), facts)
	if err != nil {
		return err
	}
	if asHTML {
		html, err := render.HTML(draft.Markdown)
		if err != nil {
			return err
		}
		fmt.Println(html)
		return nil
	}
	fmt.Println(draft.Markdown)
	return nil
}
