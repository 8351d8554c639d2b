package api

import (
	"context"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"
)

var _ = Describe("Emails", func() {
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

	Describe("AddEmail", func() {
		It("should post the address and return the pending record", func() {
			server.AppendHandlers(ghttp.CombineHandlers(
				ghttp.VerifyRequest("POST", "/api/v1/emails"),
				ghttp.VerifyJSONRepresenting(map[string]string{"email": "user@example.com"}),
				ghttp.RespondWithJSONEncoded(http.StatusCreated, AddEmailResponse{
					Message: "Verification email sent",
					Email:   UserEmail{ID: "e-1", Email: "user@example.com", Verified: false},
				}),
			))

			resp, err := client.AddEmail(context.Background(), "user@example.com")
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Email.ID).To(Equal("e-1"))
			Expect(resp.Email.Verified).To(BeFalse())
		})
	})

	Describe("SetPrimaryEmail", func() {
		It("should post to the set-primary path", func() {
			server.AppendHandlers(ghttp.CombineHandlers(
				ghttp.VerifyRequest("POST", "/api/v1/emails/e-1/set-primary"),
				ghttp.RespondWithJSONEncoded(http.StatusOK, MessageResponse{Message: "Primary email updated"}),
			))

			resp, err := client.SetPrimaryEmail(context.Background(), "e-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Message).To(Equal("Primary email updated"))
		})
	})

	Describe("ResendVerification", func() {
		It("should post to the resend-verification path", func() {
			server.AppendHandlers(ghttp.CombineHandlers(
				ghttp.VerifyRequest("POST", "/api/v1/emails/e-1/resend-verification"),
				ghttp.RespondWithJSONEncoded(http.StatusOK, MessageResponse{Message: "Verification email sent"}),
			))

			resp, err := client.ResendVerification(context.Background(), "e-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Message).To(Equal("Verification email sent"))
		})
	})
})

var _ = Describe("VerifyEmail", func() {
	var server *ghttp.Server

	BeforeEach(func() {
		server = ghttp.NewServer()
	})

	AfterEach(func() {
		server.Close()
	})

	It("should hit the versioned verification path without auth", func() {
		server.AppendHandlers(ghttp.CombineHandlers(
			ghttp.VerifyRequest("GET", "/api/v1/verify-email/tok-abc"),
			func(w http.ResponseWriter, r *http.Request) {
				Expect(r.Header.Get("Authorization")).To(BeEmpty())
			},
			ghttp.RespondWithJSONEncoded(http.StatusOK, map[string]string{"message": "Email verified"}),
		))

		message, err := VerifyEmail(context.Background(), server.URL(), "tok-abc")
		Expect(err).NotTo(HaveOccurred())
		Expect(message).To(Equal("Email verified"))
	})

	It("should surface verification failures as errors", func() {
		server.AppendHandlers(ghttp.RespondWithJSONEncoded(http.StatusBadRequest,
			map[string]string{"error": "Invalid or expired token"}))

		_, err := VerifyEmail(context.Background(), server.URL(), "bad")
		Expect(err).To(MatchError(ContainSubstring("Invalid or expired token")))
	})
})
