package httpapi

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/affreight/shipengine/internal/auth"
)

func TestRequireAFU(t *testing.T) {
	assert.NoError(t, requireAFU(auth.Claims{Role: auth.RoleAFUSE}))
	assert.NoError(t, requireAFU(auth.Claims{Role: auth.RoleAFCRegular, SuperAdmin: true}))
	assert.Error(t, requireAFU(auth.Claims{Role: auth.RoleAFCAdmin}))
	assert.Error(t, requireAFU(auth.Claims{Role: auth.RoleAFCRegular}))
}

func TestRequireExceptionRole(t *testing.T) {
	assert.NoError(t, requireExceptionRole(auth.Claims{Role: auth.RoleAFUAdmin}))
	assert.NoError(t, requireExceptionRole(auth.Claims{Role: auth.RoleAFCAdmin}))
	assert.NoError(t, requireExceptionRole(auth.Claims{Role: auth.RoleAFCM}))
	assert.Error(t, requireExceptionRole(auth.Claims{Role: auth.RoleAFCRegular}))
}

func TestRequireFileUploadRoleMatchesExceptionRole(t *testing.T) {
	assert.NoError(t, requireFileUploadRole(auth.Claims{Role: auth.RoleAFCM}))
	assert.Error(t, requireFileUploadRole(auth.Claims{Role: auth.RoleAFCRegular}))
}

func TestRequireTaskUpdateRole(t *testing.T) {
	// AFU can touch any field, including visibility.
	assert.NoError(t, requireTaskUpdateRole(auth.Claims{Role: auth.RoleAFUSM}, true))
	assert.NoError(t, requireTaskUpdateRole(auth.Claims{Role: auth.RoleAFUSM}, false))

	// AFC admin/manager can touch everything but visibility.
	assert.NoError(t, requireTaskUpdateRole(auth.Claims{Role: auth.RoleAFCAdmin}, false))
	assert.Error(t, requireTaskUpdateRole(auth.Claims{Role: auth.RoleAFCAdmin}, true))
	assert.NoError(t, requireTaskUpdateRole(auth.Claims{Role: auth.RoleAFCM}, false))
	assert.Error(t, requireTaskUpdateRole(auth.Claims{Role: auth.RoleAFCM}, true))

	// Every other AFC role is forbidden outright, regardless of the field touched.
	assert.Error(t, requireTaskUpdateRole(auth.Claims{Role: auth.RoleAFCRegular}, false))
	assert.Error(t, requireTaskUpdateRole(auth.Claims{Role: auth.RoleAFCRegular}, true))
}

func TestScopeForMirrorsClaimsScope(t *testing.T) {
	assert.Equal(t, "", scopeFor(auth.Claims{Role: auth.RoleAFUAdmin, CompanyID: "ignored"}))
	assert.Equal(t, "company-1", scopeFor(auth.Claims{Role: auth.RoleAFCRegular, CompanyID: "company-1"}))
	assert.Equal(t, "", scopeFor(auth.Claims{Role: auth.RoleAFCRegular, CompanyID: "company-1", SuperAdmin: true}))
}
