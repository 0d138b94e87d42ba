// package automation is the REST adapter to the remote Design Automation v3 API
package automation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"gitlab.com/meshopt-cloud.net/internal/core/ports/primary"
	"gitlab.com/meshopt-cloud.net/internal/core/ports/secondary"
	"gitlab.com/meshopt-cloud.net/internal/domain"
)

var _ secondary.AutomationClient = (*Client)(nil)

// Client talks to the Design Automation service over its REST surface
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     secondary.TokenProvider
	logger     primary.Logger
}

// NewClient creates a Design Automation client
func NewClient(baseURL string, tokens secondary.TokenProvider, logger primary.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		tokens:     tokens,
		logger:     logger,
	}
}

type listPage struct {
	Data            []string `json:"data"`
	PaginationToken string   `json:"paginationToken"`
}

type versionResponse struct {
	Version          int `json:"version"`
	UploadParameters *struct {
		EndpointURL string            `json:"endpointURL"`
		FormData    map[string]string `json:"formData"`
	} `json:"uploadParameters"`
}

type workItemResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// ListEngines retrieves every engine id, following pagination
func (c *Client) ListEngines(ctx context.Context) ([]string, error) {
	return c.listAll(ctx, "/engines")
}

// ListAppBundles retrieves every fully qualified app bundle id
func (c *Client) ListAppBundles(ctx context.Context) ([]string, error) {
	return c.listAll(ctx, "/appbundles")
}

// ListActivities retrieves every fully qualified activity id
func (c *Client) ListActivities(ctx context.Context) ([]string, error) {
	return c.listAll(ctx, "/activities")
}

func (c *Client) listAll(ctx context.Context, path string) ([]string, error) {
	var items []string
	pageToken := ""
	for {
		endpoint := c.baseURL + path
		if pageToken != "" {
			endpoint += "?page=" + url.QueryEscape(pageToken)
		}

		var page listPage
		if err := c.doJSON(ctx, http.MethodGet, endpoint, nil, &page); err != nil {
			return nil, err
		}
		items = append(items, page.Data...)

		if page.PaginationToken == "" {
			return items, nil
		}
		pageToken = page.PaginationToken
	}
}

// CreateAppBundle registers version 1 of a new bundle
func (c *Client) CreateAppBundle(ctx context.Context, name, engine string) (*domain.AppBundleVersion, error) {
	body := map[string]interface{}{
		"id":     name,
		"engine": engine,
	}
	var resp versionResponse
	if err := c.doJSON(ctx, http.MethodPost, c.baseURL+"/appbundles", body, &resp); err != nil {
		return nil, fmt.Errorf("failed to create app bundle %s: %w", name, err)
	}
	return toBundleVersion(&resp), nil
}

// UpdateAppBundle registers a new version of an existing bundle
func (c *Client) UpdateAppBundle(ctx context.Context, name, engine string) (*domain.AppBundleVersion, error) {
	body := map[string]interface{}{
		"engine": engine,
	}
	endpoint := fmt.Sprintf("%s/appbundles/%s/versions", c.baseURL, url.PathEscape(name))
	var resp versionResponse
	if err := c.doJSON(ctx, http.MethodPost, endpoint, body, &resp); err != nil {
		return nil, fmt.Errorf("failed to update app bundle %s: %w", name, err)
	}
	return toBundleVersion(&resp), nil
}

// CreateAppBundleAlias points a new alias at a bundle version
func (c *Client) CreateAppBundleAlias(ctx context.Context, name, alias string, version int) error {
	body := map[string]interface{}{
		"id":      alias,
		"version": version,
	}
	endpoint := fmt.Sprintf("%s/appbundles/%s/aliases", c.baseURL, url.PathEscape(name))
	if err := c.doJSON(ctx, http.MethodPost, endpoint, body, nil); err != nil {
		return fmt.Errorf("failed to create app bundle alias %s+%s: %w", name, alias, err)
	}
	return nil
}

// UpdateAppBundleAlias repoints an existing alias
func (c *Client) UpdateAppBundleAlias(ctx context.Context, name, alias string, version int) error {
	body := map[string]interface{}{
		"version": version,
	}
	endpoint := fmt.Sprintf("%s/appbundles/%s/aliases/%s", c.baseURL, url.PathEscape(name), url.PathEscape(alias))
	if err := c.doJSON(ctx, http.MethodPatch, endpoint, body, nil); err != nil {
		return fmt.Errorf("failed to update app bundle alias %s+%s: %w", name, alias, err)
	}
	return nil
}

// UploadAppBundleArchive pushes the bundle zip to the upload target issued
// with the bundle version. The service hands out a pre-signed form upload, so
// this request carries no bearer token.
func (c *Client) UploadAppBundleArchive(ctx context.Context, version *domain.AppBundleVersion, archive io.Reader) error {
	if version == nil || version.UploadURL == "" {
		return fmt.Errorf("app bundle version has no upload target")
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for field, value := range version.UploadFields {
		if err := writer.WriteField(field, value); err != nil {
			return fmt.Errorf("failed to encode upload form: %w", err)
		}
	}
	part, err := writer.CreateFormFile("file", "appbundle.zip")
	if err != nil {
		return fmt.Errorf("failed to encode upload form: %w", err)
	}
	if _, err := io.Copy(part, archive); err != nil {
		return fmt.Errorf("failed to read bundle archive: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, version.UploadURL, &buf)
	if err != nil {
		return fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to upload bundle archive: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("bundle archive upload returned status %d", resp.StatusCode)
	}
	return nil
}

// CreateActivity registers version 1 of a new activity
func (c *Client) CreateActivity(ctx context.Context, spec *domain.ActivitySpec) error {
	body := map[string]interface{}{
		"id":          spec.ID,
		"commandLine": spec.CommandLine,
		"engine":      spec.Engine,
		"appbundles":  spec.AppBundles,
		"parameters":  spec.Parameters,
		"description": spec.Description,
	}
	if len(spec.Settings) > 0 {
		body["settings"] = spec.Settings
	}
	if err := c.doJSON(ctx, http.MethodPost, c.baseURL+"/activities", body, nil); err != nil {
		return fmt.Errorf("failed to create activity %s: %w", spec.ID, err)
	}
	return nil
}

// CreateActivityAlias points a new alias at an activity version
func (c *Client) CreateActivityAlias(ctx context.Context, name, alias string, version int) error {
	body := map[string]interface{}{
		"id":      alias,
		"version": version,
	}
	endpoint := fmt.Sprintf("%s/activities/%s/aliases", c.baseURL, url.PathEscape(name))
	if err := c.doJSON(ctx, http.MethodPost, endpoint, body, nil); err != nil {
		return fmt.Errorf("failed to create activity alias %s+%s: %w", name, alias, err)
	}
	return nil
}

// CreateWorkItem submits one execution and returns the work item id
func (c *Client) CreateWorkItem(ctx context.Context, spec *domain.WorkItemSpec) (string, error) {
	arguments := make(map[string]interface{}, len(spec.Arguments)+1)
	for name, arg := range spec.Arguments {
		arguments[name] = arg
	}
	arguments["onComplete"] = spec.OnComplete

	body := map[string]interface{}{
		"activityId": spec.ActivityID,
		"arguments":  arguments,
	}
	var resp workItemResponse
	if err := c.doJSON(ctx, http.MethodPost, c.baseURL+"/workitems", body, &resp); err != nil {
		return "", fmt.Errorf("failed to create work item: %w", err)
	}
	return resp.ID, nil
}

// DeleteAppBundle removes a bundle and all its versions
func (c *Client) DeleteAppBundle(ctx context.Context, name string) error {
	endpoint := fmt.Sprintf("%s/appbundles/%s", c.baseURL, url.PathEscape(name))
	if err := c.doJSON(ctx, http.MethodDelete, endpoint, nil, nil); err != nil {
		return fmt.Errorf("failed to delete app bundle %s: %w", name, err)
	}
	return nil
}

// DeleteActivity removes an activity and all its versions
func (c *Client) DeleteActivity(ctx context.Context, name string) error {
	endpoint := fmt.Sprintf("%s/activities/%s", c.baseURL, url.PathEscape(name))
	if err := c.doJSON(ctx, http.MethodDelete, endpoint, nil, nil); err != nil {
		return fmt.Errorf("failed to delete activity %s: %w", name, err)
	}
	return nil
}

// doJSON performs one authenticated JSON round trip against the service
func (c *Client) doJSON(ctx context.Context, method, endpoint string, body, out interface{}) error {
	accessToken, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return err
	}

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to automation service failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("automation service returned status %d: %s", resp.StatusCode, string(detail))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func toBundleVersion(resp *versionResponse) *domain.AppBundleVersion {
	version := &domain.AppBundleVersion{Version: resp.Version}
	if resp.UploadParameters != nil {
		version.UploadURL = resp.UploadParameters.EndpointURL
		version.UploadFields = resp.UploadParameters.FormData
	}
	return version
}
