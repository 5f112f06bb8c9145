package container

import (
	"net/http"
	"path/filepath"

	"github.com/anime-shed/screenshot-differ/internal/config"
	"github.com/anime-shed/screenshot-differ/internal/diff"
	"github.com/anime-shed/screenshot-differ/internal/service"
	"github.com/anime-shed/screenshot-differ/internal/storage"
	"github.com/anime-shed/screenshot-differ/internal/transport"
)

// Container holds all application dependencies
type Container struct {
	config     *config.Config
	classifier *diff.Classifier
	service    service.ComparisonService
	handler    http.Handler
}

// NewContainer builds the dependency graph: capture sources and pair
// discovery from the config, then classifier, service, and handler.
func NewContainer(cfg *config.Config) (*Container, error) {
	classifier, err := diff.NewClassifier(cfg.MatchThreshold, cfg.ReviewThreshold)
	if err != nil {
		return nil, err
	}

	explore, script, discover, err := buildSources(cfg)
	if err != nil {
		return nil, err
	}

	svc := service.NewComparisonService(
		discover,
		explore,
		script,
		storage.NewLocalSinkFactory(cfg.OutputRoot),
		classifier,
		cfg.Workers,
	)

	return &Container{
		config:     cfg,
		classifier: classifier,
		service:    svc,
		handler:    transport.NewHandler(svc, cfg),
	}, nil
}

func buildSources(cfg *config.Config) (explore, script storage.CaptureSource, discover service.PairDiscovery, err error) {
	if cfg.Source == "azure" {
		explore, err = storage.NewAzureBlobSource(cfg.AzureAccount, cfg.AzureKey, cfg.AzureContainer, cfg.ExploreDir)
		if err != nil {
			return nil, nil, nil, err
		}
		script, err = storage.NewAzureBlobSource(cfg.AzureAccount, cfg.AzureKey, cfg.AzureContainer, cfg.ScriptDir)
		if err != nil {
			return nil, nil, nil, err
		}
		return explore, script, service.DirDiscovery(explore, script), nil
	}

	switch {
	case cfg.FlatDir != "":
		src, err := storage.NewLocalSource(cfg.FlatDir)
		if err != nil {
			return nil, nil, nil, err
		}
		return src, src, service.FlatDiscovery(src), nil

	case cfg.ExploreDir != "" && cfg.ScriptDir != "":
		return localSides(cfg.ExploreDir, cfg.ScriptDir)

	default:
		// Scan the capture root for the latest run, which holds one
		// directory per capture side.
		runDir, err := storage.LatestRun(cfg.CaptureRoot, cfg.OutputRoot)
		if err != nil {
			return nil, nil, nil, err
		}
		return localSides(filepath.Join(runDir, "explore"), filepath.Join(runDir, "script"))
	}
}

func localSides(exploreDir, scriptDir string) (storage.CaptureSource, storage.CaptureSource, service.PairDiscovery, error) {
	explore, err := storage.NewLocalSource(exploreDir)
	if err != nil {
		return nil, nil, nil, err
	}
	script, err := storage.NewLocalSource(scriptDir)
	if err != nil {
		return nil, nil, nil, err
	}
	return explore, script, service.DirDiscovery(explore, script), nil
}

// Service returns the comparison service
func (c *Container) Service() service.ComparisonService {
	return c.service
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}
