package api

import (
	"context"
	"net/http"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"
)

var _ = Describe("Receipts", func() {
	var (
		server *ghttp.Server
		client *Client
	)

	BeforeEach(func() {
		server = ghttp.NewServer()
		client = NewClientWithDeps(server.URL(), &mockTokenSource{token: "tok"}, nil, discardLogger())
	})

	AfterEach(func() {
		server.Close()
	})

	Describe("CreateReceipt", func() {
		It("should post the payload and return the created record intact", func() {
			req := CreateReceiptRequest{
				Store:          "Best Buy",
				Item:           "Laptop",
				PurchaseDate:   "2024-01-01",
				WarrantyExpiry: "2025-01-01",
				Amount:         999.99,
				Currency:       "USD",
			}
			created := Receipt{
				ID:             "r-1",
				UserID:         "user_1",
				Store:          "Best Buy",
				Item:           "Laptop",
				PurchaseDate:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
				WarrantyExpiry: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
				Amount:         999.99,
				Currency:       "USD",
				Status:         StatusActive,
			}

			server.AppendHandlers(ghttp.CombineHandlers(
				ghttp.VerifyRequest("POST", "/api/v1/receipts"),
				ghttp.VerifyJSONRepresenting(req),
				ghttp.RespondWithJSONEncoded(http.StatusCreated, created),
			))

			receipt, err := client.CreateReceipt(context.Background(), req)
			Expect(err).NotTo(HaveOccurred())
			Expect(*receipt).To(Equal(created))
		})
	})

	Describe("UpdateReceipt", func() {
		It("should issue a full-replace PUT to the receipt path", func() {
			server.AppendHandlers(ghttp.CombineHandlers(
				ghttp.VerifyRequest("PUT", "/api/v1/receipts/r-1"),
				ghttp.RespondWithJSONEncoded(http.StatusOK, Receipt{ID: "r-1", Store: "Target"}),
			))

			receipt, err := client.UpdateReceipt(context.Background(), "r-1", CreateReceiptRequest{Store: "Target"})
			Expect(err).NotTo(HaveOccurred())
			Expect(receipt.Store).To(Equal("Target"))
		})
	})

	Describe("DeleteReceipt", func() {
		It("should return the backend acknowledgement", func() {
			server.AppendHandlers(ghttp.CombineHandlers(
				ghttp.VerifyRequest("DELETE", "/api/v1/receipts/r-1"),
				ghttp.RespondWithJSONEncoded(http.StatusOK, MessageResponse{Message: "Receipt deleted"}),
			))

			resp, err := client.DeleteReceipt(context.Background(), "r-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Message).To(Equal("Receipt deleted"))
		})
	})

	Describe("ParseLink", func() {
		It("should return the created receipt id", func() {
			server.AppendHandlers(ghttp.CombineHandlers(
				ghttp.VerifyRequest("POST", "/api/v1/receipts/parse-link"),
				ghttp.VerifyJSONRepresenting(map[string]string{"link": "https://store.example/order/1"}),
				ghttp.RespondWithJSONEncoded(http.StatusOK, map[string]string{"receipt_id": "r-9"}),
			))

			id, err := client.ParseLink(context.Background(), "https://store.example/order/1")
			Expect(err).NotTo(HaveOccurred())
			Expect(id).To(Equal("r-9"))
		})
	})

	Describe("ParseEmail", func() {
		It("should unwrap the parsed data", func() {
			server.AppendHandlers(ghttp.CombineHandlers(
				ghttp.VerifyRequest("POST", "/api/v1/parse-email"),
				ghttp.RespondWithJSONEncoded(http.StatusOK, map[string]ParsedReceiptData{
					"parsed_data": {Store: "Amazon", Item: "Headphones", Amount: 79.99, Currency: "USD", Confidence: 0.9},
				}),
			))

			parsed, err := client.ParseEmail(context.Background(), "Order confirmation ...")
			Expect(err).NotTo(HaveOccurred())
			Expect(parsed.Store).To(Equal("Amazon"))
			Expect(parsed.Confidence).To(Equal(0.9))
		})
	})

	Describe("UploadReceiptPhoto", func() {
		It("should send a multipart form with the photo field", func() {
			server.AppendHandlers(ghttp.CombineHandlers(
				ghttp.VerifyRequest("PUT", "/api/v1/receipts/r-1/photo"),
				func(w http.ResponseWriter, r *http.Request) {
					Expect(r.Header.Get("Content-Type")).To(HavePrefix("multipart/form-data"))
					file, header, err := r.FormFile("photo")
					Expect(err).NotTo(HaveOccurred())
					defer file.Close()
					Expect(header.Filename).To(Equal("receipt.png"))
				},
				ghttp.RespondWithJSONEncoded(http.StatusOK, PhotoUploadResponse{Message: "Photo uploaded"}),
			))

			resp, err := client.UploadReceiptPhoto(context.Background(), "r-1", "receipt.png", []byte("png-bytes"))
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Message).To(Equal("Photo uploaded"))
		})
	})
})
