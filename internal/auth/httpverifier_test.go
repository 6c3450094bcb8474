package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("HTTPVerifier", func() {
	var server *httptest.Server

	AfterEach(func() {
		if server != nil {
			server.Close()
		}
	})

	It("injects the bearer token and audience header, and decodes the identity", func() {
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			Expect(r.Header.Get("Authorization")).To(Equal("Bearer tok-123"))
			Expect(r.Header.Get("X-Token-Audience")).To(Equal("shipengine"))
			json.NewEncoder(w).Encode(verifyResponse{UID: "uid-1", Email: "user@example.com"})
		}))

		v := NewHTTPVerifier(server.URL, "shipengine", nil)
		identity, err := v.Verify(context.Background(), "tok-123")
		Expect(err).ToNot(HaveOccurred())
		Expect(identity.UID).To(Equal("uid-1"))
		Expect(identity.Email).To(Equal("user@example.com"))
	})

	It("rejects a non-200 response as forbidden", func() {
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))

		v := NewHTTPVerifier(server.URL, "", nil)
		_, err := v.Verify(context.Background(), "tok")
		Expect(err).To(MatchError(ContainSubstring("identity service rejected token")))
	})

	It("rejects a response with no subject", func() {
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(verifyResponse{Email: "user@example.com"})
		}))

		v := NewHTTPVerifier(server.URL, "", nil)
		_, err := v.Verify(context.Background(), "tok")
		Expect(err).To(MatchError(ContainSubstring("no subject")))
	})

	It("reports the endpoint via String", func() {
		v := NewHTTPVerifier("http://identity.internal", "", nil)
		Expect(v.String()).To(Equal("auth.HTTPVerifier(http://identity.internal)"))
	})
})
