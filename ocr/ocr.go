//go:build ocr

package ocr

import (
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Client wraps Tesseract for OCR operations.
// A Client is not safe for concurrent use.
type Client struct {
	client *gosseract.Client
}

// New creates a client with default configuration.
// The client should be closed when no longer needed to release resources.
func New() (*Client, error) {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates a client for the configured languages
func NewWithConfig(config Config) (*Client, error) {
	client := gosseract.NewClient()
	if err := client.SetLanguage(config.language()); err != nil {
		client.Close()
		return nil, fmt.Errorf("set language: %w", err)
	}
	if err := client.SetPageSegMode(gosseract.PageSegMode(config.PageSegMode)); err != nil {
		client.Close()
		return nil, fmt.Errorf("set page segmentation mode: %w", err)
	}
	return &Client{client: client}, nil
}

// Close releases OCR resources.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// RecognizeImage performs OCR on image data (PNG, TIFF, JPEG, etc.) and
// returns the text with surrounding whitespace trimmed.
func (c *Client) RecognizeImage(data []byte) (string, error) {
	if err := c.client.SetImageFromBytes(data); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := c.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}

	return strings.TrimSpace(text), nil
}
