// package objectstore is the REST adapter to the remote object storage v2 API
package objectstore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"gitlab.com/meshopt-cloud.net/internal/core/ports/primary"
	"gitlab.com/meshopt-cloud.net/internal/core/ports/secondary"
)

var _ secondary.ObjectStore = (*Client)(nil)

// Client talks to the object storage service holding work item inputs and
// outputs behind time-limited signed URLs
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     secondary.TokenProvider
	logger     primary.Logger
}

// NewClient creates an object store client
func NewClient(baseURL string, tokens secondary.TokenProvider, logger primary.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		tokens:     tokens,
		logger:     logger,
	}
}

// EnsureBucket creates the bucket if missing. A conflict response means the
// bucket already exists and is treated as success.
func (c *Client) EnsureBucket(ctx context.Context, bucketKey string) error {
	accessToken, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return err
	}

	payload := fmt.Sprintf(`{"bucketKey":%q,"policyKey":"transient"}`, bucketKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/buckets", strings.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build bucket request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("bucket creation failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusConflict {
		c.logger.Debug("Bucket already exists", "bucket", bucketKey)
		return nil
	}
	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("bucket creation returned status %d: %s", resp.StatusCode, string(detail))
	}
	return nil
}

// UploadObject stores the content under the given key
func (c *Client) UploadObject(ctx context.Context, bucketKey, objectKey string, content io.Reader, size int64) error {
	accessToken, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.objectEndpoint(bucketKey, objectKey), content)
	if err != nil {
		return fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/octet-stream")
	if size > 0 {
		req.ContentLength = size
		req.Header.Set("Content-Length", strconv.FormatInt(size, 10))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("object upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("object upload returned status %d: %s", resp.StatusCode, string(detail))
	}
	return nil
}

// ObjectURL returns the direct bearer-authenticated URL of an object
func (c *Client) ObjectURL(bucketKey, objectKey string) string {
	return c.objectEndpoint(bucketKey, objectKey)
}

// SignedDownloadURL mints a time-limited read URL for the object
func (c *Client) SignedDownloadURL(ctx context.Context, bucketKey, objectKey string) (string, error) {
	accessToken, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return "", err
	}

	endpoint := c.objectEndpoint(bucketKey, objectKey) + "/signed?access=read"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader("{}"))
	if err != nil {
		return "", fmt.Errorf("failed to build signed url request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("signed url request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("signed url request returned status %d: %s", resp.StatusCode, string(detail))
	}

	var body struct {
		SignedURL string `json:"signedUrl"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode signed url response: %w", err)
	}
	if body.SignedURL == "" {
		return "", fmt.Errorf("signed url response contained no url")
	}
	return body.SignedURL, nil
}

func (c *Client) objectEndpoint(bucketKey, objectKey string) string {
	return fmt.Sprintf("%s/buckets/%s/objects/%s", c.baseURL, url.PathEscape(bucketKey), url.PathEscape(objectKey))
}
