package secondary

import (
	"context"
	"io"

	"gitlab.com/meshopt-cloud.net/internal/domain"
)

// AutomationClient is the port to the remote Design Automation service.
// Bundle and activity ids are fully qualified ("nickname.Name+alias") where the
// remote API expects them that way; short names elsewhere.
type AutomationClient interface {
	// ListEngines retrieves every engine id available to this account
	ListEngines(ctx context.Context) ([]string, error)

	// ListAppBundles retrieves fully qualified app bundle ids
	ListAppBundles(ctx context.Context) ([]string, error)

	// CreateAppBundle registers version 1 of a new bundle
	CreateAppBundle(ctx context.Context, name, engine string) (*domain.AppBundleVersion, error)

	// UpdateAppBundle registers a new version of an existing bundle
	UpdateAppBundle(ctx context.Context, name, engine string) (*domain.AppBundleVersion, error)

	// CreateAppBundleAlias points a new alias at a bundle version
	CreateAppBundleAlias(ctx context.Context, name, alias string, version int) error

	// UpdateAppBundleAlias repoints an existing alias
	UpdateAppBundleAlias(ctx context.Context, name, alias string, version int) error

	// UploadAppBundleArchive pushes the bundle zip to the version's upload target
	UploadAppBundleArchive(ctx context.Context, version *domain.AppBundleVersion, archive io.Reader) error

	// ListActivities retrieves fully qualified activity ids
	ListActivities(ctx context.Context) ([]string, error)

	// CreateActivity registers version 1 of a new activity
	CreateActivity(ctx context.Context, spec *domain.ActivitySpec) error

	// CreateActivityAlias points a new alias at an activity version
	CreateActivityAlias(ctx context.Context, name, alias string, version int) error

	// CreateWorkItem submits one execution and returns its work item id
	CreateWorkItem(ctx context.Context, spec *domain.WorkItemSpec) (string, error)

	// DeleteAppBundle removes a bundle and all its versions
	DeleteAppBundle(ctx context.Context, name string) error

	// DeleteActivity removes an activity and all its versions
	DeleteActivity(ctx context.Context, name string) error
}
