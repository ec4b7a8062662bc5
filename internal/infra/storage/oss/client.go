// File: internal/infra/storage/oss/client.go
package oss

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	alioss "github.com/aliyun/aliyun-oss-go-sdk/oss"

	"classified-marketplace/internal/config"
	"classified-marketplace/internal/domain"
	"classified-marketplace/internal/domain/ports/adapter"
)

var _ adapter.BlobStore = (*Client)(nil)

// Client stores image blobs in an Aliyun OSS bucket. References returned to
// callers are object keys, not URLs, so the CDN domain can change without
// rewriting stored records.
type Client struct {
	client     *alioss.Client
	bucket     *alioss.Bucket
	bucketName string
	cdnDomain  string
}

func NewClient(cfg *config.OSSConfig) (*Client, error) {
	client, err := alioss.New(cfg.Endpoint, cfg.AccessKeyID, cfg.AccessKeySecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create OSS client: %w", err)
	}

	bucket, err := client.Bucket(cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to get bucket: %w", err)
	}

	return &Client{
		client:     client,
		bucket:     bucket,
		bucketName: cfg.BucketName,
		cdnDomain:  cfg.CDNDomain,
	}, nil
}

func (c *Client) Put(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if err := c.bucket.PutObject(path, bytes.NewReader(data), alioss.ContentType(contentType)); err != nil {
		return "", fmt.Errorf("failed to upload object %s: %w", path, err)
	}
	return path, nil
}

// PutDataURL accepts the "data:<media-type>;base64,<payload>" form produced
// by browser file readers. The object key keeps the extension implied by the
// media type so the CDN serves the right Content-Type.
func (c *Client) PutDataURL(ctx context.Context, path, dataURL string) (string, error) {
	contentType, data, err := decodeDataURL(dataURL)
	if err != nil {
		return "", err
	}
	return c.Put(ctx, path+extFor(contentType), data, contentType)
}

func (c *Client) URL(ref string) string {
	if c.cdnDomain != "" {
		return fmt.Sprintf("https://%s/%s", c.cdnDomain, ref)
	}
	return fmt.Sprintf("https://%s.%s/%s", c.bucketName, c.client.Config.Endpoint, ref)
}

func (c *Client) SignedURL(ref string, ttl time.Duration) (string, error) {
	expire := int64(ttl / time.Second)
	if expire <= 0 {
		expire = 3600
	}
	signedURL, err := c.bucket.SignURL(ref, alioss.HTTPGet, expire)
	if err != nil {
		return "", fmt.Errorf("failed to sign URL for %s: %w", ref, err)
	}
	return signedURL, nil
}

func (c *Client) Delete(ctx context.Context, ref string) error {
	if err := c.bucket.DeleteObject(ref); err != nil {
		return fmt.Errorf("failed to delete object %s: %w", ref, err)
	}
	return nil
}

func decodeDataURL(dataURL string) (contentType string, data []byte, err error) {
	rest, ok := strings.CutPrefix(dataURL, "data:")
	if !ok {
		return "", nil, fmt.Errorf("%w: not a data URL", domain.ErrInvalidArgument)
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("%w: data URL missing payload", domain.ErrInvalidArgument)
	}
	contentType, encoding, _ := strings.Cut(meta, ";")
	if encoding != "base64" {
		return "", nil, fmt.Errorf("%w: data URL must be base64 encoded", domain.ErrInvalidArgument)
	}
	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: malformed base64 payload", domain.ErrInvalidArgument)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return contentType, data, nil
}

func extFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}
