package config

import (
	"fmt"
	"os"
	"strings"
)

// AutomationConfig carries the remote automation service endpoints and the
// account-scoped naming conventions for bundles, activities and buckets.
type AutomationConfig struct {
	// BaseURL of the Design Automation v3 API
	BaseURL string
	// ObjectStoreURL of the object storage v2 API
	ObjectStoreURL string
	// Nickname prefixes every qualified bundle/activity id for this account
	Nickname string
	// Alias is the friendly pointer kept on the latest bundle/activity version
	Alias string
	// BucketKey is the shared transient bucket for inputs and outputs
	BucketKey string
	// EngineFilter keeps only engines of one product family in listings
	EngineFilter string
	// BundlesDir is the local directory of bundle archives
	BundlesDir string
	// CommandLine and Script define the fixed activity bound by this sample
	CommandLine string
	Script      string
}

func NewAutomationConfig(credentials *CredentialConfig) *AutomationConfig {
	baseURL := os.Getenv("AUTOMATION_BASE_URL")
	if baseURL == "" {
		baseURL = "https://developer.api.autodesk.com/da/us-east/v3"
	}
	ossURL := os.Getenv("OBJECT_STORE_URL")
	if ossURL == "" {
		ossURL = "https://developer.api.autodesk.com/oss/v2"
	}
	engineFilter := os.Getenv("ENGINE_FILTER")
	if engineFilter == "" {
		engineFilter = "3dsMax"
	}
	bundlesDir := os.Getenv("BUNDLES_DIR")
	if bundlesDir == "" {
		bundlesDir = "bundles"
	}
	return &AutomationConfig{
		BaseURL:        baseURL,
		ObjectStoreURL: ossURL,
		Nickname:       credentials.ClientID,
		Alias:          "dev",
		BucketKey:      fmt.Sprintf("%s_designautomation", strings.ToLower(credentials.ClientID)),
		EngineFilter:   engineFilter,
		BundlesDir:     bundlesDir,
		CommandLine:    `$(engine.path)\3dsmaxbatch.exe -sceneFile $(args[inputFile].path) $(settings[script].path)`,
		Script:         "da = dotNetClass(\"Autodesk.Forge.Sample.DesignAutomation.Max.RuntimeExecute\")\nda.ProOptimizeMesh()\n",
	}
}

// Qualified returns the fully qualified id "nickname.Name+alias"
func (c *AutomationConfig) Qualified(name string) string {
	return fmt.Sprintf("%s.%s+%s", c.Nickname, name, c.Alias)
}
