// Package media prepares local receipt files for upload. The backend's PDF
// parser wants plain base64 and the photo endpoint only accepts JPEG, PNG
// and WEBP, so anything else (HEIC from phones, PDFs, GIFs) is converted
// here before it goes over the wire.
package media

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	"image/png"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/gen2brain/heic"
)

// IsPDF checks the PDF magic header
func IsPDF(data []byte) bool {
	return bytes.HasPrefix(data, []byte("%PDF-"))
}

// EncodePDF validates and base64-encodes PDF bytes for the parse endpoint.
// Plain standard base64, no data-URI prefix.
func EncodePDF(data []byte) (string, error) {
	if !IsPDF(data) {
		return "", fmt.Errorf("not a PDF file")
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// ContentTypeForFilename guesses a content type from the file extension
func ContentTypeForFilename(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".heic", ".heif":
		return "image/heic"
	case ".pdf":
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

// isHEICFormat checks for the HEIC/HEIF ftyp box magic bytes
func isHEICFormat(data []byte) bool {
	if len(data) < 12 {
		return false
	}
	if string(data[4:8]) != "ftyp" {
		return false
	}
	brand := string(data[8:12])
	return brand == "heic" || brand == "heif" || brand == "mif1" || brand == "msf1"
}

// isHEICContentType checks for HEIC/HEIF content types
func isHEICContentType(contentType string) bool {
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	return strings.Contains(contentType, "heic") || strings.Contains(contentType, "heif")
}

// pdfToPNG renders the first page of a PDF as PNG. Most receipts are a
// single page.
func pdfToPNG(pdfData []byte) ([]byte, error) {
	doc, err := fitz.NewFromMemory(pdfData)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer doc.Close()

	img, err := doc.Image(0)
	if err != nil {
		return nil, fmt.Errorf("rendering PDF page: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// imageToPNG decodes any supported image format and re-encodes it as PNG.
// HEIC needs its own decoder; the standard image package does not know it.
func imageToPNG(data []byte, contentType string) ([]byte, error) {
	var img image.Image
	var err error

	if isHEICFormat(data) || isHEICContentType(contentType) {
		img, err = heic.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decoding HEIC/HEIF image: %w", err)
		}
	} else {
		img, _, err = image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decoding image: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// PreparePhoto converts a local file into an image the photo endpoint
// accepts. JPEG and PNG pass through untouched; PDFs are rendered to PNG;
// everything else is decoded and re-encoded as PNG. It returns the data,
// the filename to send and the resulting content type.
func PreparePhoto(filename string, data []byte) ([]byte, string, string, error) {
	contentType := ContentTypeForFilename(filename)

	switch {
	case IsPDF(data):
		pngData, err := pdfToPNG(data)
		if err != nil {
			return nil, "", "", fmt.Errorf("converting PDF to image: %w", err)
		}
		return pngData, pngFilename(filename), "image/png", nil
	case contentType == "image/jpeg" && !isHEICFormat(data):
		return data, filepath.Base(filename), contentType, nil
	case contentType == "image/png" && !isHEICFormat(data):
		return data, filepath.Base(filename), contentType, nil
	case contentType == "image/webp" && !isHEICFormat(data):
		return data, filepath.Base(filename), contentType, nil
	default:
		pngData, err := imageToPNG(data, contentType)
		if err != nil {
			return nil, "", "", fmt.Errorf("converting image to PNG: %w", err)
		}
		return pngData, pngFilename(filename), "image/png", nil
	}
}

func pngFilename(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".png"
}
