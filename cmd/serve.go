package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spigell/interview-screener/internal/ai"
	"github.com/spigell/interview-screener/internal/ai/gemini"
	"github.com/spigell/interview-screener/internal/engine"
	"github.com/spigell/interview-screener/internal/logger"
	"github.com/spigell/interview-screener/internal/script"
	"github.com/spigell/interview-screener/internal/secrets"
	"github.com/spigell/interview-screener/internal/server"
	"github.com/spigell/interview-screener/internal/store"
	redisstore "github.com/spigell/interview-screener/internal/store/redis"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const defaultListenAddress = ":8080"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the interview-screener HTTP server",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("address", "a", "", "listen address for the HTTP server")

	viper.BindPFlag("server.address", serveCmd.Flags().Lookup("address"))
}

func serve() {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the interview-screener", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	interviewScript, job := loadScript(config.Script, logger)

	analyzer := prepareAnalyzer(ctx, config.AI, logger)

	st, err := prepareStore(config.Redis, logger)
	if err != nil {
		logger.Fatal("preparing conversation store", zap.Error(err))
	}

	eng := engine.New(interviewScript, job, analyzer, logger)

	addr := defaultListenAddress
	if config.Server != nil && config.Server.Address != "" {
		addr = config.Server.Address
	}

	srv := server.New(addr, eng, st, logger)
	if err := srv.Start(); err != nil {
		logger.Fatal("http server stopped", zap.Error(err))
	}
}

// loadScript resolves the interview script and job description. Both degrade
// to their embedded defaults when a configured file cannot be used: a broken
// config must not take the service down.
func loadScript(cfg *ScriptConfig, logger *zap.Logger) (*script.Script, *script.JobDescription) {
	scriptFile := ""
	jobFile := ""
	if cfg != nil {
		scriptFile = cfg.File
		jobFile = cfg.JobFile
	}

	interviewScript, err := script.Load(scriptFile)
	if err != nil {
		logger.Warn("loading script file failed, using embedded script",
			zap.String("file", scriptFile),
			zap.Error(err),
		)
		interviewScript = script.SoftwareEngineer()
	}

	// The engine forces termination on dead ends, so a broken graph is
	// survivable. It still deserves a loud warning.
	if err := interviewScript.Validate(); err != nil {
		logger.Warn("script graph validation failed", zap.Error(err))
	}

	job, err := script.LoadJobDescription(jobFile)
	if err != nil {
		logger.Warn("loading job description failed, using embedded default",
			zap.String("file", jobFile),
			zap.Error(err),
		)
		job = script.DefaultJobDescription()
	}

	logger.Info("interview script loaded",
		zap.Int("nodes", len(interviewScript.Nodes)),
		zap.String("start_node", interviewScript.StartNodeID),
	)

	return interviewScript, job
}

// prepareAnalyzer wires the configured AI provider. Any failure degrades to
// the local fallback analyzer so the interview keeps working without AI.
func prepareAnalyzer(ctx context.Context, cfg *AIConfig, logger *zap.Logger) ai.Analyzer {
	if cfg == nil || !cfg.Enabled {
		logger.Info("ai analysis disabled, using local fallback analyzer")
		return ai.NewFallbackAnalyzer()
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		logger.Warn("unsupported ai provider, using local fallback analyzer", zap.String("provider", cfg.Provider))
		return ai.NewFallbackAnalyzer()
	}

	if cfg.Gemini == nil {
		cfg.Gemini = &GeminiConfig{}
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
	})
	if err != nil {
		logger.Warn("loading gemini api key failed, using local fallback analyzer",
			zap.Error(err),
			zap.String("hint", "set ai.gemini.api-key-file or GEMINI_API_KEY_FILE"),
		)
		return ai.NewFallbackAnalyzer()
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model)
	if err != nil {
		logger.Warn("creating gemini client failed, using local fallback analyzer", zap.Error(err))
		return ai.NewFallbackAnalyzer()
	}

	analyzerLogger := logger.With(
		zap.String("provider", "gemini"),
		zap.String("model", generator.Model()),
	)

	return gemini.NewAnalyzer(generator, analyzerLogger, cfg.Gemini.MaxLogLength)
}

func prepareStore(cfg *RedisConfig, logger *zap.Logger) (store.Store, error) {
	if cfg == nil || !cfg.Enabled {
		logger.Info("using in-memory conversation store")
		return store.NewMemory(), nil
	}

	password := ""
	if cfg.PasswordFile != "" {
		loaded, err := secrets.Load(secrets.Source{
			Name: "redis password",
			File: cfg.PasswordFile,
		})
		if err != nil {
			return nil, err
		}
		password = loaded
	}

	opts := []redisstore.Option{}
	if cfg.TTLHours > 0 {
		opts = append(opts, redisstore.WithTTL(time.Duration(cfg.TTLHours)*time.Hour))
	}

	logger.Info("using redis conversation store", zap.String("address", cfg.Address))
	return redisstore.New(cfg.Address, password, cfg.DB, opts...), nil
}
