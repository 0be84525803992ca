//go:build !ocr

// Package ocr recognizes text in page images of scanned PDFs.
//
// This is the stub implementation used when the "ocr" build tag is not set.
// All functions return ErrOCRNotEnabled.
//
// To enable OCR, rebuild with the "ocr" build tag:
//
//	go build -tags ocr
package ocr

// Client is a stub OCR client that returns errors for all operations.
type Client struct{}

// Available reports whether OCR support was compiled in.
func Available() bool { return false }

// New returns an error indicating OCR support is not enabled.
func New(languages ...string) (*Client, error) {
	return nil, ErrOCRNotEnabled
}

// Close is a no-op for the stub client.
// It is safe to call on a nil client.
func (c *Client) Close() error {
	return nil
}

// RecognizeImage returns an error indicating OCR support is not enabled.
func (c *Client) RecognizeImage(imageData []byte) (string, error) {
	return "", ErrOCRNotEnabled
}
