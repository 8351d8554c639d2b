package auth

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestAuth(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Auth Suite")
}

// fixedTimeSource is a mock implementation of TimeSource
type fixedTimeSource struct {
	now time.Time
}

func (f *fixedTimeSource) Now() time.Time {
	return f.now
}

// signedToken builds a real HS256 JWT with the given expiry
func signedToken(expiry time.Time) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user_123",
		"exp": expiry.Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	Expect(err).NotTo(HaveOccurred())
	return signed
}

var _ = Describe("StaticToken", func() {
	It("should always yield its value", func() {
		token, err := StaticToken("abc123").Token(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(token).To(Equal("abc123"))
	})

	It("should yield an empty token without error", func() {
		token, err := StaticToken("").Token(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(token).To(BeEmpty())
	})
})

var _ = Describe("FileToken", func() {
	var (
		path string
		now  time.Time
		ft   *FileToken
	)

	BeforeEach(func() {
		path = filepath.Join(GinkgoT().TempDir(), "creds", "token")
		now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
		ft = NewFileTokenWithDeps(path, &fixedTimeSource{now: now})
	})

	It("should fail with a login hint when no token is saved", func() {
		_, err := ft.Token(context.Background())
		Expect(err).To(MatchError(ContainSubstring("run login first")))
	})

	It("should round-trip a saved token", func() {
		Expect(ft.Save("opaque-token")).To(Succeed())

		token, err := ft.Token(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(token).To(Equal("opaque-token"))
	})

	It("should save the file user-readable only", func() {
		Expect(ft.Save("opaque-token")).To(Succeed())

		info, err := os.Stat(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(info.Mode().Perm()).To(Equal(os.FileMode(0600)))
	})

	It("should reject an empty token file", func() {
		Expect(os.MkdirAll(filepath.Dir(path), 0700)).To(Succeed())
		Expect(os.WriteFile(path, []byte("\n"), 0600)).To(Succeed())

		_, err := ft.Token(context.Background())
		Expect(err).To(MatchError(ContainSubstring("empty")))
	})

	It("should yield a JWT whose expiry is still ahead", func() {
		Expect(ft.Save(signedToken(now.Add(time.Hour)))).To(Succeed())

		token, err := ft.Token(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(token).NotTo(BeEmpty())
	})

	It("should reject a JWT whose expiry has passed", func() {
		Expect(ft.Save(signedToken(now.Add(-time.Hour)))).To(Succeed())

		_, err := ft.Token(context.Background())
		Expect(err).To(MatchError(ContainSubstring("run login again")))
	})

	It("should not apply the expiry check to opaque tokens", func() {
		Expect(ft.Save("not-a-jwt")).To(Succeed())

		token, err := ft.Token(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(token).To(Equal("not-a-jwt"))
	})

	Describe("Clear", func() {
		It("should remove the saved token", func() {
			Expect(ft.Save("opaque-token")).To(Succeed())
			Expect(ft.Clear()).To(Succeed())

			_, err := ft.Token(context.Background())
			Expect(err).To(MatchError(ContainSubstring("run login first")))
		})

		It("should succeed when nothing is saved", func() {
			Expect(ft.Clear()).To(Succeed())
		})
	})
})
