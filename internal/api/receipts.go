package api

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
)

// ListReceipts returns all receipts for the caller, plus the subscription
// snapshot when the backend embeds one
func (c *Client) ListReceipts(ctx context.Context) (*ReceiptsResponse, error) {
	var resp ReceiptsResponse
	if err := c.get(ctx, "/receipts", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetReceipt returns a single receipt by id
func (c *Client) GetReceipt(ctx context.Context, id string) (*Receipt, error) {
	var receipt Receipt
	if err := c.get(ctx, "/receipts/"+url.PathEscape(id), &receipt); err != nil {
		return nil, err
	}
	return &receipt, nil
}

// CreateReceipt creates a receipt and returns the stored record
func (c *Client) CreateReceipt(ctx context.Context, req CreateReceiptRequest) (*Receipt, error) {
	var receipt Receipt
	if err := c.post(ctx, "/receipts", req, &receipt); err != nil {
		return nil, err
	}
	return &receipt, nil
}

// UpdateReceipt replaces a receipt in full and returns the updated record
func (c *Client) UpdateReceipt(ctx context.Context, id string, req CreateReceiptRequest) (*Receipt, error) {
	var receipt Receipt
	opts := requestOptions{method: http.MethodPut, body: req}
	if err := c.request(ctx, "/receipts/"+url.PathEscape(id), opts, &receipt); err != nil {
		return nil, err
	}
	return &receipt, nil
}

// DeleteReceipt removes a receipt
func (c *Client) DeleteReceipt(ctx context.Context, id string) (*MessageResponse, error) {
	var resp MessageResponse
	opts := requestOptions{method: http.MethodDelete}
	if err := c.request(ctx, "/receipts/"+url.PathEscape(id), opts, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ParseLink submits a link for extraction and receipt creation in one step,
// returning the created receipt id
func (c *Client) ParseLink(ctx context.Context, link string) (string, error) {
	var resp struct {
		ReceiptID string `json:"receipt_id"`
	}
	if err := c.post(ctx, "/receipts/parse-link", map[string]string{"link": link}, &resp); err != nil {
		return "", err
	}
	return resp.ReceiptID, nil
}

// UploadReceiptPhoto attaches an image to a receipt. The backend accepts
// JPEG, PNG and WEBP up to 5MB; convert other formats before calling.
func (c *Client) UploadReceiptPhoto(ctx context.Context, id, filename string, data []byte) (*PhotoUploadResponse, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("photo", filename)
	if err != nil {
		return nil, fmt.Errorf("building multipart form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("writing photo data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("closing multipart form: %w", err)
	}

	headers := http.Header{}
	headers.Set("Content-Type", writer.FormDataContentType())

	var resp PhotoUploadResponse
	opts := requestOptions{
		method:  http.MethodPut,
		headers: headers,
		rawBody: buf.Bytes(),
	}
	if err := c.request(ctx, "/receipts/"+url.PathEscape(id)+"/photo", opts, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
