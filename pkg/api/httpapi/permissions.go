package httpapi

import (
	"github.com/affreight/shipengine/internal/apperrors"
	"github.com/affreight/shipengine/internal/auth"
)

// requireAFU enforces the "AFU only" entries of spec §4.6's per-
// endpoint permission matrix (status update, invoiced toggle, file
// delete, BL update/parse).
func requireAFU(c auth.Claims) error {
	if !c.IsAFU() {
		return apperrors.NewForbiddenError("this action requires internal staff access")
	}
	return nil
}

// requireExceptionRole enforces "AFU + AFC-ADMIN + AFC-M" for the
// exception-flag endpoint.
func requireExceptionRole(c auth.Claims) error {
	if c.IsAFU() || c.Role == auth.RoleAFCAdmin || c.Role == auth.RoleAFCM {
		return nil
	}
	return apperrors.NewForbiddenError("this action requires an admin or manager role")
}

// requireFileUploadRole enforces "AFU + AFC-ADMIN/AFC-M" for file
// upload.
func requireFileUploadRole(c auth.Claims) error {
	return requireExceptionRole(c)
}

// requireTaskUpdateRole enforces spec §4.6's task-update matrix: AFU
// may change any field; AFC-ADMIN/AFC-M may change any field except
// visibility; any other AFC role is forbidden entirely. touchesVisibility
// reports whether the caller's patch sets Visibility.
func requireTaskUpdateRole(c auth.Claims, touchesVisibility bool) error {
	if c.IsAFU() {
		return nil
	}
	if c.Role != auth.RoleAFCAdmin && c.Role != auth.RoleAFCM {
		return apperrors.NewForbiddenError("this action requires an admin, manager, or internal staff role")
	}
	if touchesVisibility {
		return apperrors.NewForbiddenError("visibility may only be changed by internal staff")
	}
	return nil
}

// scopeFor returns the company scope GetShipment/ListShipments/etc.
// should apply for the caller: empty for AFU/super-admin (unscoped),
// the caller's own company_id for AFC users regardless of any
// caller-supplied company_id (spec §4.6 "any attempted override is
// ignored").
func scopeFor(c auth.Claims) string {
	return c.Scope()
}
