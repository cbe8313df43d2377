// Package objectstore is a thin client for the storage service holding
// checklist attachments. Objects live under a single bucket and are publicly
// readable; writes and deletes authenticate with the service key.
package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/imroc/req/v3"

	"github.com/urbannest/urbannest/pkg/config"
)

// MaxAttachmentSize is the upload hard limit, enforced before any network
// call is made.
const MaxAttachmentSize = 10 << 20

// AttachmentContentType is the only content type attachments may carry.
const AttachmentContentType = "application/pdf"

type Client struct {
	http   *req.Client
	bucket string
}

// ObjectInfo is one stored object as reported by the list endpoint.
type ObjectInfo struct {
	Name      string    `json:"name"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewClient(cfg config.ObjectStore) *Client {
	c := req.C().
		SetBaseURL(cfg.Endpoint).
		SetCommonBearerAuthToken(cfg.ServiceKey).
		SetTimeout(30 * time.Second)
	if config.IsDebugMode() {
		c.EnableDumpEachRequest()
	}
	return &Client{http: c, bucket: cfg.Bucket}
}

// Upload stores data at path and returns its public URL. Size and content
// type must already have been validated by the caller; they are re-checked
// here as a last line of defense.
func (c *Client) Upload(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	if len(data) > MaxAttachmentSize {
		return "", fmt.Errorf("object %q exceeds %d bytes", path, MaxAttachmentSize)
	}
	if contentType != AttachmentContentType {
		return "", fmt.Errorf("unsupported content type %q", contentType)
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetContentType(contentType).
		SetHeader("x-upsert", "true").
		SetBody(bytes.NewReader(data)).
		Post(fmt.Sprintf("/object/%s/%s", c.bucket, path))
	if err != nil {
		return "", fmt.Errorf("upload %q: %w", path, err)
	}
	if resp.IsErrorState() {
		return "", fmt.Errorf("upload %q: storage returned %s", path, resp.Status)
	}
	return c.PublicURL(path), nil
}

// PublicURL returns the unauthenticated read URL for a stored object.
func (c *Client) PublicURL(path string) string {
	return fmt.Sprintf("%s/object/public/%s/%s", c.http.BaseURL, c.bucket, path)
}

// PathFromURL maps a public URL back to the object path inside the bucket.
// URLs pointing at another store or bucket report false.
func (c *Client) PathFromURL(url string) (string, bool) {
	prefix := fmt.Sprintf("%s/object/public/%s/", c.http.BaseURL, c.bucket)
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	return strings.TrimPrefix(url, prefix), true
}

// Remove deletes the given objects. Missing objects are not an error.
func (c *Client) Remove(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetBodyJsonMarshal(map[string][]string{"prefixes": paths}).
		Delete(fmt.Sprintf("/object/%s", c.bucket))
	if err != nil {
		return fmt.Errorf("remove objects: %w", err)
	}
	if resp.IsErrorState() {
		return fmt.Errorf("remove objects: storage returned %s", resp.Status)
	}
	return nil
}

// List returns objects under prefix, paging until the service reports no
// more results.
func (c *Client) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	const pageSize = 100
	var all []ObjectInfo
	for offset := 0; ; offset += pageSize {
		var page []ObjectInfo
		resp, err := c.http.R().
			SetContext(ctx).
			SetBodyJsonMarshal(map[string]any{
				"prefix": prefix,
				"limit":  pageSize,
				"offset": offset,
			}).
			SetSuccessResult(&page).
			Post(fmt.Sprintf("/object/list/%s", c.bucket))
		if err != nil {
			return nil, fmt.Errorf("list objects: %w", err)
		}
		if resp.IsErrorState() {
			return nil, fmt.Errorf("list objects: storage returned %s", resp.Status)
		}
		all = append(all, page...)
		if len(page) < pageSize {
			return all, nil
		}
	}
}
