package api

import "context"

// parseResponse wraps extraction results
type parseResponse struct {
	ParsedData ParsedReceiptData `json:"parsed_data"`
}

// ParseEmail submits raw email text for extraction
func (c *Client) ParseEmail(ctx context.Context, emailContent string) (*ParsedReceiptData, error) {
	var resp parseResponse
	err := c.post(ctx, "/parse-email", map[string]string{"email_content": emailContent}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp.ParsedData, nil
}

// ParsePDF submits base64-encoded PDF content for extraction. pdfContent is
// plain standard base64 with no data-URI prefix.
func (c *Client) ParsePDF(ctx context.Context, pdfContent string) (*ParsedReceiptData, error) {
	var resp parseResponse
	err := c.post(ctx, "/parse-pdf", map[string]string{"pdf_content": pdfContent}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp.ParsedData, nil
}
