package objectstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urbannest/urbannest/pkg/config"
)

func testClient() *Client {
	return NewClient(config.ObjectStore{
		Endpoint:   "https://store.example.com/storage/v1",
		Bucket:     "attachments",
		ServiceKey: "test-key",
	})
}

func TestPublicURLRoundTrip(t *testing.T) {
	c := testClient()

	url := c.PublicURL("projects/7/superstructure/doc.pdf")
	assert.Equal(t,
		"https://store.example.com/storage/v1/object/public/attachments/projects/7/superstructure/doc.pdf",
		url)

	path, ok := c.PathFromURL(url)
	require.True(t, ok)
	assert.Equal(t, "projects/7/superstructure/doc.pdf", path)
}

func TestPathFromURLRejectsForeignURLs(t *testing.T) {
	c := testClient()

	_, ok := c.PathFromURL("https://elsewhere.example.com/object/public/attachments/a.pdf")
	assert.False(t, ok)

	_, ok = c.PathFromURL("https://store.example.com/storage/v1/object/public/other-bucket/a.pdf")
	assert.False(t, ok)
}

// Size and content-type limits are enforced before any request is sent, so
// these paths need no server.
func TestUploadRejectsOversize(t *testing.T) {
	c := testClient()

	_, err := c.Upload(context.Background(), "big.pdf",
		make([]byte, MaxAttachmentSize+1), AttachmentContentType)
	assert.Error(t, err)
}

func TestUploadRejectsNonPDF(t *testing.T) {
	c := testClient()

	_, err := c.Upload(context.Background(), "img.png",
		[]byte("not a pdf"), "image/png")
	assert.Error(t, err)
}

func TestRemoveNothingIsNoop(t *testing.T) {
	c := testClient()
	assert.NoError(t, c.Remove(context.Background(), nil))
}
