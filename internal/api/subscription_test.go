package api

import (
	"context"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"
)

var _ = Describe("Subscription", func() {
	var (
		server *ghttp.Server
		client *Client
		sub    Subscription
	)

	BeforeEach(func() {
		server = ghttp.NewServer()
		client = NewClientWithDeps(server.URL(), &mockTokenSource{token: "tok"}, nil, discardLogger())
	})

	AfterEach(func() {
		server.Close()
	})

	JustBeforeEach(func() {
		sub = client.Subscription(context.Background())
	})

	When("/me embeds a subscription", func() {
		BeforeEach(func() {
			server.AppendHandlers(ghttp.CombineHandlers(
				ghttp.VerifyRequest("GET", "/api/v1/me"),
				ghttp.RespondWithJSONEncoded(http.StatusOK, MeResponse{
					UserID: "user_1",
					Subscription: &Subscription{
						IsPremium:    true,
						Plan:         "premium",
						ReceiptLimit: 50,
						ReceiptCount: 12,
					},
				}),
			))
		})

		It("should return it verbatim", func() {
			Expect(sub.IsPremium).To(BeTrue())
			Expect(sub.Plan).To(Equal("premium"))
			Expect(sub.ReceiptLimit).To(Equal(50))
			Expect(sub.ReceiptCount).To(Equal(12))
		})

		It("should not call any further source", func() {
			Expect(server.ReceivedRequests()).To(HaveLen(1))
		})
	})

	When("/me fails but the receipts list embeds a subscription", func() {
		BeforeEach(func() {
			server.AppendHandlers(
				ghttp.RespondWith(http.StatusInternalServerError, nil),
				ghttp.CombineHandlers(
					ghttp.VerifyRequest("GET", "/api/v1/receipts"),
					ghttp.RespondWithJSONEncoded(http.StatusOK, ReceiptsResponse{
						Receipts: []Receipt{},
						Subscription: &Subscription{
							IsPremium:    true,
							Plan:         "premium",
							ReceiptLimit: 50,
							ReceiptCount: 3,
						},
					}),
				),
			)
		})

		It("should fall back to the receipts source", func() {
			Expect(sub.IsPremium).To(BeTrue())
			Expect(sub.ReceiptCount).To(Equal(3))
		})
	})

	When("/me succeeds without a subscription", func() {
		BeforeEach(func() {
			server.AppendHandlers(
				ghttp.RespondWithJSONEncoded(http.StatusOK, MeResponse{UserID: "user_1"}),
				ghttp.RespondWithJSONEncoded(http.StatusOK, ReceiptsResponse{
					Receipts:     []Receipt{},
					Subscription: &Subscription{IsPremium: false, Plan: "free", ReceiptLimit: 10},
				}),
			)
		})

		It("should try the next source", func() {
			Expect(sub.Plan).To(Equal("free"))
			Expect(server.ReceivedRequests()).To(HaveLen(2))
		})
	})

	When("every source fails", func() {
		BeforeEach(func() {
			server.AppendHandlers(
				ghttp.RespondWith(http.StatusInternalServerError, nil),
				ghttp.RespondWith(http.StatusInternalServerError, nil),
			)
		})

		It("should return the hardcoded free default and never error", func() {
			Expect(sub).To(Equal(FreeSubscription()))
			Expect(sub.IsPremium).To(BeFalse())
			Expect(sub.Plan).To(Equal("free"))
			Expect(sub.ReceiptLimit).To(Equal(FreeReceiptLimit))
		})
	})
})
