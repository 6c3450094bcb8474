package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/affreight/shipengine/internal/apperrors"
	"github.com/affreight/shipengine/internal/auth"
	"github.com/affreight/shipengine/pkg/store/postgres"
)

const maxUploadBytes = 32 << 20

// visibleFileOnly reports whether the caller must be restricted to
// visibility = true files (spec §3 ShipmentFile visibility rule):
// every AFC role except admin/manager.
func visibleFileOnly(c auth.Claims) bool {
	return c.IsAFC() && c.Role != auth.RoleAFCAdmin && c.Role != auth.RoleAFCM
}

// ListFiles handles GET /shipments/{id}/files.
func (h *Handlers) ListFiles(w http.ResponseWriter, r *http.Request) {
	claims := claimsOrPanic(r)
	id := urlParam(r, "id")

	if _, err := h.store.GetShipment(r.Context(), id, scopeFor(claims)); err != nil {
		h.writeErr(w, err)
		return
	}
	files, err := h.store.ListFiles(r.Context(), id, visibleFileOnly(claims))
	if err != nil {
		h.writeErr(w, err)
		return
	}
	writeOK(w, files)
}

// UploadFile handles POST /shipments/{id}/files: multipart upload, body
// placed in object storage, then the file record committed (AFU,
// AFC-ADMIN, AFC-M, spec §4.6).
func (h *Handlers) UploadFile(w http.ResponseWriter, r *http.Request) {
	claims := claimsOrPanic(r)
	if err := requireFileUploadRole(claims); err != nil {
		h.writeErr(w, err)
		return
	}
	id := urlParam(r, "id")

	sh, err := h.store.GetShipment(r.Context(), id, scopeFor(claims))
	if err != nil {
		h.writeErr(w, err)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.writeErr(w, apperrors.Wrap(err, apperrors.ErrorTypeValidation, "malformed multipart upload"))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		h.writeErr(w, apperrors.NewValidationError("missing file part"))
		return
	}
	defer file.Close()

	key := fmt.Sprintf("shipments/%s/%d-%s", id, time.Now().UTC().UnixNano(), header.Filename)
	if err := h.files.Put(r.Context(), key, file, header.Size); err != nil {
		h.writeErr(w, apperrors.Wrap(err, apperrors.ErrorTypeInternal, "failed to store uploaded file"))
		return
	}

	visibility := r.FormValue("visibility") != "false"
	var tags []string
	if tag := r.FormValue("file_tags"); tag != "" {
		tags = append(tags, tag)
	}

	uploaded, err := h.store.UploadFile(r.Context(), postgres.ShipmentFileUpload{
		ShipmentID:     id,
		CompanyID:      sh.CompanyID,
		FileName:       header.Filename,
		FileLocation:   key,
		FileTags:       tags,
		FileSizeKB:     header.Size / 1024,
		Visibility:     visibility,
		UploadedByUID:  claims.UID,
		UploadedByName: claims.Email,
	})
	if err != nil {
		h.writeErr(w, err)
		return
	}
	writeCreated(w, uploaded)
}

// GetFile handles GET /shipments/{id}/files/{file_id}.
func (h *Handlers) GetFile(w http.ResponseWriter, r *http.Request) {
	claims := claimsOrPanic(r)
	id := urlParam(r, "id")
	fileID, err := int64Param(r, "file_id")
	if err != nil {
		h.writeErr(w, err)
		return
	}
	if _, err := h.store.GetShipment(r.Context(), id, scopeFor(claims)); err != nil {
		h.writeErr(w, err)
		return
	}
	f, err := h.store.GetFile(r.Context(), id, fileID, visibleFileOnly(claims))
	if err != nil {
		h.writeErr(w, err)
		return
	}
	writeOK(w, f)
}

// UpdateFile handles PATCH /shipments/{id}/files/{file_id}: AFU may
// change visibility, AFC admin/manager may change tags only (spec
// §4.6).
func (h *Handlers) UpdateFile(w http.ResponseWriter, r *http.Request) {
	claims := claimsOrPanic(r)
	if err := requireFileUploadRole(claims); err != nil {
		h.writeErr(w, err)
		return
	}
	id := urlParam(r, "id")
	fileID, err := int64Param(r, "file_id")
	if err != nil {
		h.writeErr(w, err)
		return
	}

	var req filePatchRequest
	if err := decodeAndValidate(r, &req); err != nil {
		h.writeErr(w, err)
		return
	}
	if req.Visibility != nil && !claims.IsAFU() {
		h.writeErr(w, apperrors.NewForbiddenError("visibility may only be changed by internal staff"))
		return
	}
	if _, err := h.store.GetShipment(r.Context(), id, scopeFor(claims)); err != nil {
		h.writeErr(w, err)
		return
	}

	f, err := h.store.UpdateFile(r.Context(), id, fileID, postgres.FilePatch{
		Visibility: req.Visibility,
		FileTags:   req.FileTags,
	})
	if err != nil {
		h.writeErr(w, err)
		return
	}
	writeOK(w, f)
}

// DeleteFile handles DELETE /shipments/{id}/files/{file_id} (AFU only,
// spec §4.6).
func (h *Handlers) DeleteFile(w http.ResponseWriter, r *http.Request) {
	claims := claimsOrPanic(r)
	if err := requireAFU(claims); err != nil {
		h.writeErr(w, err)
		return
	}
	id := urlParam(r, "id")
	fileID, err := int64Param(r, "file_id")
	if err != nil {
		h.writeErr(w, err)
		return
	}
	if _, err := h.store.GetShipment(r.Context(), id, scopeFor(claims)); err != nil {
		h.writeErr(w, err)
		return
	}
	if err := h.store.DeleteFile(r.Context(), id, fileID, claims.UID, claims.Email); err != nil {
		h.writeErr(w, err)
		return
	}
	writeNoContent(w)
}

// DownloadFile handles GET /shipments/{id}/files/{file_id}/download:
// resolves a time-limited signed URL rather than proxying bytes (spec
// §1 "object storage bytes are out of scope").
func (h *Handlers) DownloadFile(w http.ResponseWriter, r *http.Request) {
	claims := claimsOrPanic(r)
	id := urlParam(r, "id")
	fileID, err := int64Param(r, "file_id")
	if err != nil {
		h.writeErr(w, err)
		return
	}
	if _, err := h.store.GetShipment(r.Context(), id, scopeFor(claims)); err != nil {
		h.writeErr(w, err)
		return
	}
	f, err := h.store.GetFile(r.Context(), id, fileID, visibleFileOnly(claims))
	if err != nil {
		h.writeErr(w, err)
		return
	}
	url, err := h.files.SignedGetURL(r.Context(), f.FileLocation, 15*time.Minute)
	if err != nil {
		h.writeErr(w, apperrors.Wrap(err, apperrors.ErrorTypeInternal, "failed to sign download URL"))
		return
	}
	writeOK(w, map[string]string{"download_url": url})
}
