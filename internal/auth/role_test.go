package auth

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestAuth(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Auth Suite")
}

var _ = Describe("Role", func() {
	DescribeTable("IsAFU",
		func(r Role, want bool) {
			Expect(r.IsAFU()).To(Equal(want))
			Expect(r.IsAFC()).To(Equal(!want))
		},
		Entry("AFU-ADMIN", RoleAFUAdmin, true),
		Entry("AFU-SM", RoleAFUSM, true),
		Entry("AFU-SE", RoleAFUSE, true),
		Entry("AFC-ADMIN", RoleAFCAdmin, false),
		Entry("AFC-M", RoleAFCM, false),
		Entry("AFC-REGULAR", RoleAFCRegular, false),
	)
})

var _ = Describe("SuperAdmins", func() {
	admins := SuperAdmins{"Alice@Example.com", "bob@example.com"}

	It("matches case-insensitively and trims whitespace", func() {
		Expect(admins.Contains("alice@example.com")).To(BeTrue())
		Expect(admins.Contains(" Bob@Example.com ")).To(BeTrue())
	})

	It("rejects an email not on the list", func() {
		Expect(admins.Contains("carol@example.com")).To(BeFalse())
	})
})

var _ = Describe("Claims", func() {
	It("scopes an AFC user to their company", func() {
		c := Claims{Role: RoleAFCRegular, CompanyID: "company-1"}
		Expect(c.IsAFU()).To(BeFalse())
		Expect(c.IsAFC()).To(BeTrue())
		Expect(c.Scope()).To(Equal("company-1"))
	})

	It("leaves AFU staff unscoped", func() {
		c := Claims{Role: RoleAFUSE, CompanyID: "ignored"}
		Expect(c.IsAFU()).To(BeTrue())
		Expect(c.Scope()).To(BeEmpty())
	})

	It("treats a super-admin override as AFU regardless of looked-up role", func() {
		c := Claims{Role: RoleAFCRegular, CompanyID: "company-1", SuperAdmin: true}
		Expect(c.IsAFU()).To(BeTrue())
		Expect(c.Scope()).To(BeEmpty())
	})
})
