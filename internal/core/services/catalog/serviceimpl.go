package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gitlab.com/meshopt-cloud.net/internal/config"
	"gitlab.com/meshopt-cloud.net/internal/core/ports/primary"
	"gitlab.com/meshopt-cloud.net/internal/core/ports/secondary"
	"gitlab.com/meshopt-cloud.net/internal/domain"
	"gitlab.com/meshopt-cloud.net/internal/static/errs"
)

// Fixed names the account-clear operation removes; they match the sample
// bundle shipped in the bundles directory.
const (
	cleanupBundleName   = "ProOptimizerAutomationAppBundle"
	cleanupActivityName = "ProOptimizerAutomationActivity"
)

var _ ICatalogService = (*CatalogService)(nil)

// CatalogService implements bundle and activity management
type CatalogService struct {
	automation secondary.AutomationClient
	logger     primary.Logger
	cfg        *config.AutomationConfig
}

// NewCatalogService creates a new catalog service
func NewCatalogService(automation secondary.AutomationClient, logger primary.Logger, cfg *config.AutomationConfig) *CatalogService {
	return &CatalogService{
		automation: automation,
		logger:     logger,
		cfg:        cfg,
	}
}

// ListEngines retrieves engine ids filtered to the configured product family
func (s *CatalogService) ListEngines(ctx context.Context) ([]string, error) {
	engines, err := s.automation.ListEngines(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list engines: %w", err)
	}

	filtered := make([]string, 0, len(engines))
	for _, engine := range engines {
		if strings.Contains(engine, s.cfg.EngineFilter) {
			filtered = append(filtered, engine)
		}
	}
	return filtered, nil
}

// ListLocalBundles lists the zip archives in the bundles directory
func (s *CatalogService) ListLocalBundles() ([]string, error) {
	entries, err := os.ReadDir(s.cfg.BundlesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read bundles directory: %w", err)
	}

	bundles := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.EqualFold(filepath.Ext(name), ".zip") {
			bundles = append(bundles, strings.TrimSuffix(name, filepath.Ext(name)))
		}
	}
	return bundles, nil
}

// CreateOrUpdateAppBundle registers the bundle, repoints its alias and
// uploads the local archive. An existing bundle gets a new version; a new one
// starts at version 1.
func (s *CatalogService) CreateOrUpdateAppBundle(ctx context.Context, zipFileName, engine string) (*BundleResult, error) {
	if zipFileName == "" {
		return nil, errs.ErrBundleNotFound
	}
	if engine == "" {
		return nil, errs.ErrMissingEngine
	}

	archivePath := filepath.Join(s.cfg.BundlesDir, zipFileName+".zip")
	if _, err := os.Stat(archivePath); err != nil {
		s.logger.Warn("App bundle archive not found", "path", archivePath)
		return nil, errs.ErrBundleNotFound
	}

	bundleName := zipFileName + "AppBundle"
	qualifiedID := s.cfg.Qualified(bundleName)

	existing, err := s.automation.ListAppBundles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list app bundles: %w", err)
	}

	var version *domain.AppBundleVersion
	if contains(existing, qualifiedID) {
		// New version of an existing bundle; repoint the alias at it
		version, err = s.automation.UpdateAppBundle(ctx, bundleName, engine)
		if err != nil {
			return nil, err
		}
		if err := s.automation.UpdateAppBundleAlias(ctx, bundleName, s.cfg.Alias, version.Version); err != nil {
			return nil, err
		}
	} else {
		version, err = s.automation.CreateAppBundle(ctx, bundleName, engine)
		if err != nil {
			return nil, err
		}
		if err := s.automation.CreateAppBundleAlias(ctx, bundleName, s.cfg.Alias, 1); err != nil {
			return nil, err
		}
	}

	archive, err := os.Open(archivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open bundle archive: %w", err)
	}
	defer archive.Close()

	if err := s.automation.UploadAppBundleArchive(ctx, version, archive); err != nil {
		return nil, err
	}

	s.logger.Info("App bundle registered", "appBundle", qualifiedID, "version", version.Version)

	return &BundleResult{
		AppBundle: qualifiedID,
		Version:   version.Version,
	}, nil
}

// ListActivities retrieves this account's activities, nickname stripped and
// $LATEST entries excluded
func (s *CatalogService) ListActivities(ctx context.Context) ([]string, error) {
	activities, err := s.automation.ListActivities(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}

	prefix := s.cfg.Nickname + "."
	defined := make([]string, 0, len(activities))
	for _, activity := range activities {
		if !strings.HasPrefix(activity, prefix) || strings.Contains(activity, "$LATEST") {
			continue
		}
		defined = append(defined, strings.TrimPrefix(activity, prefix))
	}
	return defined, nil
}

// CreateActivity registers the sample activity bound to the bundle's alias.
// The activity tracks the bundle through the alias, so an already defined
// activity needs no new version.
func (s *CatalogService) CreateActivity(ctx context.Context, zipFileName, engine string) (string, bool, error) {
	if zipFileName == "" {
		return "", false, errs.ErrBundleNotFound
	}
	if engine == "" {
		return "", false, errs.ErrMissingEngine
	}

	bundleName := zipFileName + "AppBundle"
	activityName := zipFileName + "Activity"
	qualifiedID := s.cfg.Qualified(activityName)

	existing, err := s.automation.ListActivities(ctx)
	if err != nil {
		return "", false, fmt.Errorf("failed to list activities: %w", err)
	}
	if contains(existing, qualifiedID) {
		return qualifiedID, false, nil
	}

	spec := &domain.ActivitySpec{
		ID:          activityName,
		Engine:      engine,
		CommandLine: []string{s.cfg.CommandLine},
		AppBundles:  []string{s.cfg.Qualified(bundleName)},
		Parameters: map[string]domain.ActivityParameter{
			"inputFile": {
				Description: "input file",
				LocalName:   "$(inputFile)",
				Required:    true,
				Verb:        "get",
			},
			"inputJson": {
				Description: "input json",
				LocalName:   "params.json",
				Verb:        "get",
			},
			"outputFile": {
				Description: "output file",
				LocalName:   "output.zip",
				Required:    true,
				Verb:        "put",
			},
		},
		Settings: map[string]domain.ActivitySetting{
			"script": {Value: s.cfg.Script},
		},
	}

	if err := s.automation.CreateActivity(ctx, spec); err != nil {
		return "", false, err
	}
	if err := s.automation.CreateActivityAlias(ctx, activityName, s.cfg.Alias, 1); err != nil {
		return "", false, err
	}

	s.logger.Info("Activity registered", "activity", qualifiedID)
	return qualifiedID, true, nil
}

// ClearAccount deletes the sample bundle and activity, tolerating individual
// failures
func (s *CatalogService) ClearAccount(ctx context.Context) error {
	if err := s.automation.DeleteAppBundle(ctx, cleanupBundleName); err != nil {
		s.logger.Warn("Failed to delete app bundle", "appBundle", cleanupBundleName, "error", err)
	}
	if err := s.automation.DeleteActivity(ctx, cleanupActivityName); err != nil {
		s.logger.Warn("Failed to delete activity", "activity", cleanupActivityName, "error", err)
	}
	return nil
}

func contains(items []string, target string) bool {
	for _, item := range items {
		if item == target {
			return true
		}
	}
	return false
}
