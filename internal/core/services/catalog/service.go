package catalog

import "context"

// BundleResult is the outcome of a create-or-update of an app bundle
type BundleResult struct {
	AppBundle string `json:"appBundle"`
	Version   int    `json:"version"`
}

// ICatalogService manages the account's engines, app bundles and activities
type ICatalogService interface {
	// ListEngines retrieves engine ids filtered to the configured product family
	ListEngines(ctx context.Context) ([]string, error)

	// ListLocalBundles lists bundle archives available on disk, extension stripped
	ListLocalBundles() ([]string, error)

	// CreateOrUpdateAppBundle registers a new bundle or a new version of an
	// existing one, repoints the alias and uploads the archive
	CreateOrUpdateAppBundle(ctx context.Context, zipFileName, engine string) (*BundleResult, error)

	// ListActivities retrieves this account's registered activities with the
	// nickname prefix stripped and $LATEST entries excluded
	ListActivities(ctx context.Context) ([]string, error)

	// CreateActivity registers the sample activity for the bundle. Returns
	// the qualified id and true on creation, or false when already defined.
	CreateActivity(ctx context.Context, zipFileName, engine string) (string, bool, error)

	// ClearAccount best-effort deletes the sample bundle and activity
	ClearAccount(ctx context.Context) error
}
