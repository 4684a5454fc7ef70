package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ardanlabs/conf/v3"
	"github.com/gin-gonic/gin"
	"github.com/superfeelapi/goVeritas/business/detector"
	"github.com/superfeelapi/goVeritas/business/web"
	"github.com/superfeelapi/goVeritas/business/worker"
	"github.com/superfeelapi/goVeritas/foundation/audio"
	"github.com/superfeelapi/goVeritas/foundation/config"
	"github.com/superfeelapi/goVeritas/foundation/logger"
	"github.com/superfeelapi/goVeritas/foundation/pubsub"
	"github.com/superfeelapi/goVeritas/foundation/redis"
	"github.com/superfeelapi/goVeritas/foundation/spool"
	"github.com/superfeelapi/goVeritas/foundation/state"
	"go.uber.org/zap"
)

const service = "goVeritas"

var (
	version   string
	buildTime string
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	// =================================================================================================================
	// Configuration

	cfg := struct {
		conf.Version
		Web struct {
			APIHost         string        `conf:"default:0.0.0.0:8000"`
			GRPCHost        string        `conf:"default:0.0.0.0:50051"`
			ReadTimeout     time.Duration `conf:"default:30s"`
			WriteTimeout    time.Duration `conf:"default:60s"`
			IdleTimeout     time.Duration `conf:"default:120s"`
			ShutdownTimeout time.Duration `conf:"default:20s"`
			MaxBodyBytes    int64         `conf:"default:33554432"`
			FeedEnabled     bool          `conf:"default:true"`
		}
		Auth struct {
			APIKey string `conf:"default:sk_test_123456789,mask"`
		}
		Analysis struct {
			Window        time.Duration `conf:"default:10s"`
			SampleRate    int           `conf:"default:22050"`
			MaxConcurrent int64         `conf:"default:4"`
			PolicyFile    string
			PolicyVersion string `conf:"default:v1"`
			LanguagesFile string
		}
		Storage struct {
			TempDirectory   string `conf:"default:temp_audio"`
			StaticDirectory string `conf:"default:static"`
		}
		Redis struct {
			Address        string
			Password       string `conf:"mask"`
			VerdictChannel string `conf:"default:veritas:verdicts"`
		}
		Logger struct {
			LogDirectory string
			Debug        bool
		}
	}{
		Version: conf.Version{
			Build: version,
			Desc:  buildTime,
		},
	}

	// --version and --help are answered by conf.
	help, err := conf.Parse("VERITAS", &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	// =================================================================================================================
	// Application Logger

	log, err := logger.New(cfg.Logger.LogDirectory, service, cfg.Logger.Debug)
	if err != nil {
		return fmt.Errorf("constructing logger: %w", err)
	}
	defer log.Sync()

	// =================================================================================================================
	// Configuration Stringify

	out, err := conf.String(&cfg)
	if err != nil {
		log.Errorw("startup", "ERROR", err)
	}
	log.Infow("startup", "version", version, "config", out)

	// =================================================================================================================
	// Detector

	policy := detector.DefaultPolicy()
	if cfg.Analysis.PolicyFile != "" {
		p, err := config.GetPolicy(cfg.Analysis.PolicyFile, cfg.Analysis.PolicyVersion)
		if err != nil {
			return fmt.Errorf("loading policy: %w", err)
		}
		policy = detector.PolicyFrom(p)
	}

	det, err := detector.New(log, detector.Config{
		Load: audio.LoadConfig{
			Window:     cfg.Analysis.Window,
			SampleRate: cfg.Analysis.SampleRate,
		},
		Extractor: detector.DefaultExtractorConfig(),
		Policy:    policy,
	})
	if err != nil {
		return fmt.Errorf("constructing detector: %w", err)
	}
	log.Infow("startup", "policy", policy.Version)

	// =================================================================================================================
	// Languages

	tags, err := config.GetLanguages(cfg.Analysis.LanguagesFile)
	if err != nil {
		return fmt.Errorf("loading languages: %w", err)
	}

	languages, err := web.NewLanguages(tags)
	if err != nil {
		return fmt.Errorf("loading languages: %w", err)
	}
	log.Infow("startup", "languages", languages.Names())

	// =================================================================================================================
	// Storage

	sp, err := spool.New(cfg.Storage.TempDirectory)
	if err != nil {
		return err
	}

	// =================================================================================================================
	// Redis

	st := state.NewState()
	broker := pubsub.NewBroker()

	var redisClient *redis.Redis
	if cfg.Redis.Address != "" {
		redisClient, err = redis.New(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.VerdictChannel, log)
		if err != nil {
			log.Errorw("startup", "ERROR", err)
		} else {
			defer closeRedis(log, redisClient)
		}
	}

	// =================================================================================================================
	// Web API

	if !cfg.Logger.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	api := web.New(web.Settings{
		Config: web.Config{
			APIKey:        cfg.Auth.APIKey,
			Languages:     languages,
			PolicyVersion: policy.Version,
			StaticDir:     cfg.Storage.StaticDirectory,
			MaxConcurrent: cfg.Analysis.MaxConcurrent,
			MaxBodyBytes:  cfg.Web.MaxBodyBytes,
			DisableFeed:   !cfg.Web.FeedEnabled,
		},
		Logger:   log,
		Analyzer: det,
		Spool:    sp,
		Broker:   broker,
		State:    st,
	})

	// =================================================================================================================
	// Run Worker

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	workerCh := worker.Run(worker.Settings{
		Config: worker.Config{
			APIHost:         cfg.Web.APIHost,
			GRPCHost:        cfg.Web.GRPCHost,
			HealthService:   "veritas.VoiceDetection",
			ReadTimeout:     cfg.Web.ReadTimeout,
			WriteTimeout:    cfg.Web.WriteTimeout,
			IdleTimeout:     cfg.Web.IdleTimeout,
			ShutdownTimeout: cfg.Web.ShutdownTimeout,
		},
		Logger:  log,
		Handler: api.Handler(),
		Broker:  broker,
		State:   st,
		Redis:   redisClient,
		Signals: signals,
	})

	// Blocking main and waiting for error or shutdown.
	err = <-workerCh

	log.Infow("shutdown", "status", "shutdown started")
	defer log.Infow("shutdown", "status", "shutdown complete")

	return err
}

func closeRedis(log *zap.SugaredLogger, r *redis.Redis) {
	if err := r.Close(); err != nil {
		log.Errorw("shutdown", "ERROR", err)
	}
}
