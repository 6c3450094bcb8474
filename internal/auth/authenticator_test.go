package auth

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type fakeVerifier struct {
	identity Identity
	err      error
}

func (f fakeVerifier) Verify(ctx context.Context, token string) (Identity, error) {
	return f.identity, f.err
}

type fakeAugmenter struct {
	record Record
	err    error
}

func (f fakeAugmenter) Augment(ctx context.Context, identity Identity) (Record, error) {
	return f.record, f.err
}

var _ = Describe("Authenticator", func() {
	ctx := context.Background()

	It("rejects an empty bearer token before calling the verifier", func() {
		a := New(fakeVerifier{}, fakeAugmenter{}, nil)
		_, err := a.Authenticate(ctx, "")
		Expect(err).To(MatchError(ContainSubstring("missing bearer token")))
	})

	It("wraps a verifier failure as forbidden", func() {
		a := New(fakeVerifier{err: errors.New("bad token")}, fakeAugmenter{}, nil)
		_, err := a.Authenticate(ctx, "tok")
		Expect(err).To(MatchError(ContainSubstring("token verification failed")))
	})

	It("propagates an augmenter error", func() {
		a := New(
			fakeVerifier{identity: Identity{UID: "uid-1", Email: "user@example.com"}},
			fakeAugmenter{err: errors.New("db down")},
			nil,
		)
		_, err := a.Authenticate(ctx, "tok")
		Expect(err).To(HaveOccurred())
	})

	It("rejects a revoked account", func() {
		a := New(
			fakeVerifier{identity: Identity{UID: "uid-1", Email: "user@example.com"}},
			fakeAugmenter{record: Record{AccessGranted: false}},
			nil,
		)
		_, err := a.Authenticate(ctx, "tok")
		Expect(err).To(MatchError(ContainSubstring("access revoked")))
	})

	It("assembles claims from the verified identity and augmented record", func() {
		a := New(
			fakeVerifier{identity: Identity{UID: "uid-1", Email: "user@example.com"}},
			fakeAugmenter{record: Record{Role: RoleAFCM, CompanyID: "company-1", AccessGranted: true}},
			nil,
		)
		claims, err := a.Authenticate(ctx, "tok")
		Expect(err).ToNot(HaveOccurred())
		Expect(claims.UID).To(Equal("uid-1"))
		Expect(claims.Email).To(Equal("user@example.com"))
		Expect(claims.Role).To(Equal(RoleAFCM))
		Expect(claims.CompanyID).To(Equal("company-1"))
		Expect(claims.SuperAdmin).To(BeFalse())
	})

	It("applies the super-admin override regardless of the looked-up role", func() {
		a := New(
			fakeVerifier{identity: Identity{UID: "uid-1", Email: "root@example.com"}},
			fakeAugmenter{record: Record{Role: RoleAFCRegular, AccessGranted: true}},
			SuperAdmins{"root@example.com"},
		)
		claims, err := a.Authenticate(ctx, "tok")
		Expect(err).ToNot(HaveOccurred())
		Expect(claims.SuperAdmin).To(BeTrue())
		Expect(claims.IsAFU()).To(BeTrue())
	})
})
