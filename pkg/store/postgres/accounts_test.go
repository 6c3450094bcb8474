package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/affreight/shipengine/internal/auth"
)

var _ = Describe("Store.Augment", func() {
	var (
		ctx   context.Context
		store *Store
		db    *sqlx.DB
		mock  sqlmock.Sqlmock
	)

	BeforeEach(func() {
		ctx = context.Background()

		mockDB, mockSQL, err := sqlmock.New()
		Expect(err).ToNot(HaveOccurred())

		db = sqlx.NewDb(mockDB, "sqlmock")
		mock = mockSQL
		store = New(db, zap.NewNop())
	})

	AfterEach(func() {
		Expect(mock.ExpectationsWereMet()).To(Succeed())
	})

	It("returns the provisioned role, company scope, and access gate", func() {
		rows := sqlmock.NewRows([]string{"role", "company_id", "access_granted"}).
			AddRow("AFC-M", "company-1", true)
		mock.ExpectQuery(`SELECT role, company_id, access_granted FROM account_access WHERE uid = \$1`).
			WithArgs("uid-1").
			WillReturnRows(rows)

		record, err := store.Augment(ctx, auth.Identity{UID: "uid-1", Email: "user@example.com"})
		Expect(err).ToNot(HaveOccurred())
		Expect(record.Role).To(Equal(auth.RoleAFCM))
		Expect(record.CompanyID).To(Equal("company-1"))
		Expect(record.AccessGranted).To(BeTrue())
	})

	It("treats an unprovisioned account as access-revoked rather than an error", func() {
		mock.ExpectQuery(`SELECT role, company_id, access_granted FROM account_access WHERE uid = \$1`).
			WithArgs("uid-unknown").
			WillReturnError(sql.ErrNoRows)

		record, err := store.Augment(ctx, auth.Identity{UID: "uid-unknown"})
		Expect(err).ToNot(HaveOccurred())
		Expect(record.AccessGranted).To(BeFalse())
		Expect(record.Role).To(BeEmpty())
	})

	It("wraps an unexpected database error", func() {
		mock.ExpectQuery(`SELECT role, company_id, access_granted FROM account_access WHERE uid = \$1`).
			WithArgs("uid-1").
			WillReturnError(errors.New("connection reset"))

		_, err := store.Augment(ctx, auth.Identity{UID: "uid-1"})
		Expect(err).To(HaveOccurred())
	})
})
