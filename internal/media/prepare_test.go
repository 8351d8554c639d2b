package media

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestMedia(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Media Suite")
}

// testImage builds a small solid-color image for encoding
func testImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	return img
}

func encodeJPEG() []byte {
	var buf bytes.Buffer
	Expect(jpeg.Encode(&buf, testImage(), nil)).To(Succeed())
	return buf.Bytes()
}

func encodePNG() []byte {
	var buf bytes.Buffer
	Expect(png.Encode(&buf, testImage())).To(Succeed())
	return buf.Bytes()
}

func encodeGIF() []byte {
	var buf bytes.Buffer
	Expect(gif.Encode(&buf, testImage(), nil)).To(Succeed())
	return buf.Bytes()
}

var _ = Describe("IsPDF", func() {
	It("should recognize the PDF magic header", func() {
		Expect(IsPDF([]byte("%PDF-1.4 rest of file"))).To(BeTrue())
	})

	It("should reject other data", func() {
		Expect(IsPDF([]byte("plain text"))).To(BeFalse())
		Expect(IsPDF(nil)).To(BeFalse())
	})
})

var _ = Describe("EncodePDF", func() {
	It("should base64-encode PDF bytes without a data-URI prefix", func() {
		data := []byte("%PDF-1.4 fake pdf content")

		encoded, err := EncodePDF(data)
		Expect(err).NotTo(HaveOccurred())
		Expect(encoded).To(Equal(base64.StdEncoding.EncodeToString(data)))
		Expect(encoded).NotTo(HavePrefix("data:"))
	})

	It("should reject non-PDF data", func() {
		_, err := EncodePDF([]byte("not a pdf"))
		Expect(err).To(MatchError(ContainSubstring("not a PDF")))
	})
})

var _ = Describe("ContentTypeForFilename", func() {
	It("should map known extensions", func() {
		Expect(ContentTypeForFilename("receipt.jpg")).To(Equal("image/jpeg"))
		Expect(ContentTypeForFilename("receipt.JPEG")).To(Equal("image/jpeg"))
		Expect(ContentTypeForFilename("receipt.png")).To(Equal("image/png"))
		Expect(ContentTypeForFilename("receipt.webp")).To(Equal("image/webp"))
		Expect(ContentTypeForFilename("receipt.heic")).To(Equal("image/heic"))
		Expect(ContentTypeForFilename("receipt.pdf")).To(Equal("application/pdf"))
	})

	It("should fall back for unknown extensions", func() {
		Expect(ContentTypeForFilename("receipt.xyz")).To(Equal("application/octet-stream"))
	})
})

var _ = Describe("PreparePhoto", func() {
	It("should pass JPEG data through untouched", func() {
		jpegData := encodeJPEG()

		data, filename, contentType, err := PreparePhoto("/tmp/receipt.jpg", jpegData)
		Expect(err).NotTo(HaveOccurred())
		Expect(data).To(Equal(jpegData))
		Expect(filename).To(Equal("receipt.jpg"))
		Expect(contentType).To(Equal("image/jpeg"))
	})

	It("should pass PNG data through untouched", func() {
		pngData := encodePNG()

		data, filename, contentType, err := PreparePhoto("receipt.png", pngData)
		Expect(err).NotTo(HaveOccurred())
		Expect(data).To(Equal(pngData))
		Expect(filename).To(Equal("receipt.png"))
		Expect(contentType).To(Equal("image/png"))
	})

	It("should convert a GIF to PNG", func() {
		data, filename, contentType, err := PreparePhoto("receipt.gif", encodeGIF())
		Expect(err).NotTo(HaveOccurred())
		Expect(filename).To(Equal("receipt.png"))
		Expect(contentType).To(Equal("image/png"))

		_, format, err := image.Decode(bytes.NewReader(data))
		Expect(err).NotTo(HaveOccurred())
		Expect(format).To(Equal("png"))
	})

	It("should detect HEIC by magic bytes even with a jpg extension", func() {
		heicMagic := append([]byte{0, 0, 0, 24}, []byte("ftypheic")...)
		heicMagic = append(heicMagic, make([]byte, 16)...)

		// Truncated container, so conversion fails, but it must be routed
		// to the HEIC decoder rather than passed through as JPEG.
		_, _, _, err := PreparePhoto("receipt.jpg", heicMagic)
		Expect(err).To(MatchError(ContainSubstring("HEIC")))
	})

	It("should fail on undecodable data", func() {
		_, _, _, err := PreparePhoto("receipt.bin", []byte("garbage bytes"))
		Expect(err).To(MatchError(ContainSubstring("converting image")))
	})
})
