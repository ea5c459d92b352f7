//go:build !ocr

package ocr

// Client is a stub OCR client that returns errors for all operations.
type Client struct{}

// New returns ErrOCRNotEnabled.
func New() (*Client, error) {
	return nil, ErrOCRNotEnabled
}

// NewWithConfig returns ErrOCRNotEnabled.
func NewWithConfig(config Config) (*Client, error) {
	return nil, ErrOCRNotEnabled
}

// Close is a no-op. It is safe to call on a nil client.
func (c *Client) Close() error {
	return nil
}

// RecognizeImage returns ErrOCRNotEnabled.
func (c *Client) RecognizeImage(data []byte) (string, error) {
	return "", ErrOCRNotEnabled
}
