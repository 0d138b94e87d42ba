package catalog

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"gitlab.com/meshopt-cloud.net/internal/adapter/logging"
	"gitlab.com/meshopt-cloud.net/internal/config"
	"gitlab.com/meshopt-cloud.net/internal/domain"
	"gitlab.com/meshopt-cloud.net/internal/static/errs"
)

type fakeAutomation struct {
	engines    []string
	appBundles []string
	activities []string

	createdBundle    string
	updatedBundle    string
	createdAliasVer  int
	updatedAliasVer  int
	uploadedArchives int
	createdActivity  *domain.ActivitySpec
	activityAliasVer int

	deletedBundles    []string
	deletedActivities []string
	deleteBundleErr   error
	deleteActivityErr error
}

func (f *fakeAutomation) ListEngines(ctx context.Context) ([]string, error) {
	return f.engines, nil
}

func (f *fakeAutomation) ListAppBundles(ctx context.Context) ([]string, error) {
	return f.appBundles, nil
}

func (f *fakeAutomation) CreateAppBundle(ctx context.Context, name, engine string) (*domain.AppBundleVersion, error) {
	f.createdBundle = name
	return &domain.AppBundleVersion{Version: 1, UploadURL: "https://upload.example.com"}, nil
}

func (f *fakeAutomation) UpdateAppBundle(ctx context.Context, name, engine string) (*domain.AppBundleVersion, error) {
	f.updatedBundle = name
	return &domain.AppBundleVersion{Version: 3, UploadURL: "https://upload.example.com"}, nil
}

func (f *fakeAutomation) CreateAppBundleAlias(ctx context.Context, name, alias string, version int) error {
	f.createdAliasVer = version
	return nil
}

func (f *fakeAutomation) UpdateAppBundleAlias(ctx context.Context, name, alias string, version int) error {
	f.updatedAliasVer = version
	return nil
}

func (f *fakeAutomation) UploadAppBundleArchive(ctx context.Context, version *domain.AppBundleVersion, archive io.Reader) error {
	f.uploadedArchives++
	return nil
}

func (f *fakeAutomation) ListActivities(ctx context.Context) ([]string, error) {
	return f.activities, nil
}

func (f *fakeAutomation) CreateActivity(ctx context.Context, spec *domain.ActivitySpec) error {
	f.createdActivity = spec
	return nil
}

func (f *fakeAutomation) CreateActivityAlias(ctx context.Context, name, alias string, version int) error {
	f.activityAliasVer = version
	return nil
}

func (f *fakeAutomation) CreateWorkItem(ctx context.Context, spec *domain.WorkItemSpec) (string, error) {
	return "", errors.New("not supported")
}

func (f *fakeAutomation) DeleteAppBundle(ctx context.Context, name string) error {
	f.deletedBundles = append(f.deletedBundles, name)
	return f.deleteBundleErr
}

func (f *fakeAutomation) DeleteActivity(ctx context.Context, name string) error {
	f.deletedActivities = append(f.deletedActivities, name)
	return f.deleteActivityErr
}

func newTestService(t *testing.T, automation *fakeAutomation) *CatalogService {
	t.Helper()
	bundlesDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(bundlesDir, "ProOptimizer.zip"), []byte("zip"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(bundlesDir, "readme.txt"), []byte("txt"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(bundlesDir, "Other.ZIP"), []byte("zip"), 0o644))

	cfg := &config.AutomationConfig{
		Nickname:     "nick",
		Alias:        "dev",
		EngineFilter: "3dsMax",
		BundlesDir:   bundlesDir,
		CommandLine:  `$(engine.path)\3dsmaxbatch.exe -sceneFile $(args[inputFile].path) $(settings[script].path)`,
		Script:       "da.ProOptimizeMesh()\n",
	}
	return NewCatalogService(automation, logging.NewZapLogger(), cfg)
}

func TestListEnginesFiltersProductFamily(t *testing.T) {
	automation := &fakeAutomation{
		engines: []string{"Autodesk.3dsMax+2023", "Autodesk.Revit+2023", "Autodesk.3dsMax+2024"},
	}
	svc := newTestService(t, automation)

	engines, err := svc.ListEngines(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"Autodesk.3dsMax+2023", "Autodesk.3dsMax+2024"}, engines)
}

func TestListLocalBundlesStripsExtensions(t *testing.T) {
	svc := newTestService(t, &fakeAutomation{})

	bundles, err := svc.ListLocalBundles()
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"ProOptimizer", "Other"}, bundles)
}

func TestCreateAppBundleTakesCreatePath(t *testing.T) {
	automation := &fakeAutomation{appBundles: []string{"nick.SomethingElseAppBundle+dev"}}
	svc := newTestService(t, automation)

	result, err := svc.CreateOrUpdateAppBundle(context.Background(), "ProOptimizer", "Autodesk.3dsMax+2023")
	require.NoError(t, err)
	require.Equal(t, "nick.ProOptimizerAppBundle+dev", result.AppBundle)
	require.Equal(t, 1, result.Version)

	require.Equal(t, "ProOptimizerAppBundle", automation.createdBundle)
	require.Empty(t, automation.updatedBundle)
	require.Equal(t, 1, automation.createdAliasVer)
	require.Equal(t, 1, automation.uploadedArchives)
}

func TestCreateAppBundleTakesUpdatePath(t *testing.T) {
	automation := &fakeAutomation{appBundles: []string{"nick.ProOptimizerAppBundle+dev"}}
	svc := newTestService(t, automation)

	result, err := svc.CreateOrUpdateAppBundle(context.Background(), "ProOptimizer", "Autodesk.3dsMax+2023")
	require.NoError(t, err)
	require.Equal(t, 3, result.Version)

	require.Equal(t, "ProOptimizerAppBundle", automation.updatedBundle)
	require.Empty(t, automation.createdBundle)
	require.Equal(t, 3, automation.updatedAliasVer, "alias must point at the returned version")
	require.Equal(t, 1, automation.uploadedArchives)
}

func TestCreateAppBundleRejectsMissingArchive(t *testing.T) {
	automation := &fakeAutomation{}
	svc := newTestService(t, automation)

	_, err := svc.CreateOrUpdateAppBundle(context.Background(), "DoesNotExist", "Autodesk.3dsMax+2023")
	require.ErrorIs(t, err, errs.ErrBundleNotFound)
	require.Zero(t, automation.uploadedArchives)
	require.Empty(t, automation.createdBundle)
}

func TestListActivitiesFiltersAndStrips(t *testing.T) {
	automation := &fakeAutomation{
		activities: []string{
			"nick.ProOptimizerActivity+dev",
			"nick.ProOptimizerActivity+$LATEST",
			"other.ForeignActivity+dev",
			"nick.SecondActivity+dev",
		},
	}
	svc := newTestService(t, automation)

	activities, err := svc.ListActivities(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"ProOptimizerActivity+dev", "SecondActivity+dev"}, activities)
}

func TestCreateActivityRegistersParametersAndScript(t *testing.T) {
	automation := &fakeAutomation{}
	svc := newTestService(t, automation)

	activity, created, err := svc.CreateActivity(context.Background(), "ProOptimizer", "Autodesk.3dsMax+2023")
	require.NoError(t, err)
	require.True(t, created)
	require.Equal(t, "nick.ProOptimizerActivity+dev", activity)

	spec := automation.createdActivity
	require.NotNil(t, spec)
	require.Equal(t, "ProOptimizerActivity", spec.ID)
	require.Equal(t, []string{"nick.ProOptimizerAppBundle+dev"}, spec.AppBundles)
	require.Equal(t, "get", spec.Parameters["inputFile"].Verb)
	require.Equal(t, "get", spec.Parameters["inputJson"].Verb)
	require.Equal(t, "put", spec.Parameters["outputFile"].Verb)
	require.Equal(t, "params.json", spec.Parameters["inputJson"].LocalName)
	require.NotEmpty(t, spec.Settings["script"].Value)
	require.Equal(t, 1, automation.activityAliasVer)
}

func TestCreateActivityAlreadyDefined(t *testing.T) {
	automation := &fakeAutomation{activities: []string{"nick.ProOptimizerActivity+dev"}}
	svc := newTestService(t, automation)

	_, created, err := svc.CreateActivity(context.Background(), "ProOptimizer", "Autodesk.3dsMax+2023")
	require.NoError(t, err)
	require.False(t, created)
	require.Nil(t, automation.createdActivity)
}

func TestClearAccountToleratesIndividualFailures(t *testing.T) {
	automation := &fakeAutomation{deleteBundleErr: errors.New("bundle delete failed")}
	svc := newTestService(t, automation)

	require.NoError(t, svc.ClearAccount(context.Background()))
	require.Equal(t, []string{"ProOptimizerAutomationAppBundle"}, automation.deletedBundles)
	require.Equal(t, []string{"ProOptimizerAutomationActivity"}, automation.deletedActivities)
}
