package postgres

import (
	"context"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/affreight/shipengine/internal/apperrors"
	"github.com/affreight/shipengine/pkg/domain"
)

// ShipmentFileUpload is the input to a new file record; the caller has
// already placed the bytes in object storage (spec §1 "out of scope:
// object storage") under the key in FileLocation before calling.
type ShipmentFileUpload struct {
	ShipmentID     string
	CompanyID      string
	FileName       string
	FileLocation   string
	FileTags       []string
	FileSizeKB     int64
	Visibility     bool
	UploadedByUID  string
	UploadedByName string
}

func insertFileTx(ctx context.Context, tx *sqlx.Tx, in ShipmentFileUpload) (domain.ShipmentFile, error) {
	f := domain.ShipmentFile{
		ShipmentID: in.ShipmentID, CompanyID: in.CompanyID, FileName: in.FileName,
		FileLocation: in.FileLocation, FileTags: in.FileTags, FileSizeKB: in.FileSizeKB,
		Visibility: in.Visibility, UploadedByUID: in.UploadedByUID, UploadedByName: in.UploadedByName,
		CreatedAt: time.Now().UTC(),
	}
	row := tx.QueryRowContext(ctx, `
		INSERT INTO shipment_files (shipment_id, company_id, file_name, file_location, file_tags,
			file_size_kb, visibility, uploaded_by_uid, uploaded_by_name, trash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, false, $10)
		RETURNING file_id`,
		f.ShipmentID, f.CompanyID, f.FileName, f.FileLocation, strings.Join(f.FileTags, ","),
		f.FileSizeKB, f.Visibility, f.UploadedByUID, f.UploadedByName, f.CreatedAt)
	if err := row.Scan(&f.FileID); err != nil {
		return domain.ShipmentFile{}, apperrors.Wrap(err, apperrors.ErrorTypeInternal, "failed to insert shipment file")
	}
	return f, nil
}

// UploadFile inserts a file record and its audit entry in one unit of
// work (spec §4.4 "File operations").
func (s *Store) UploadFile(ctx context.Context, in ShipmentFileUpload) (domain.ShipmentFile, error) {
	var f domain.ShipmentFile
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		f, err = insertFileTx(ctx, tx, in)
		if err != nil {
			return err
		}
		return insertAuditLog(ctx, tx, domain.ActionFileUploaded, in.ShipmentID, in.UploadedByUID, in.UploadedByName, f.CreatedAt)
	})
	return f, err
}

type fileRow struct {
	FileID         int64     `db:"file_id"`
	ShipmentID     string    `db:"shipment_id"`
	CompanyID      string    `db:"company_id"`
	FileName       string    `db:"file_name"`
	FileLocation   string    `db:"file_location"`
	FileTags       string    `db:"file_tags"`
	FileSizeKB     int64     `db:"file_size_kb"`
	Visibility     bool      `db:"visibility"`
	UploadedByUID  string    `db:"uploaded_by_uid"`
	UploadedByName string    `db:"uploaded_by_name"`
	Trash          bool      `db:"trash"`
	CreatedAt      time.Time `db:"created_at"`
}

func (r fileRow) toDomain() domain.ShipmentFile {
	var tags []string
	if r.FileTags != "" {
		tags = strings.Split(r.FileTags, ",")
	}
	return domain.ShipmentFile{
		FileID: r.FileID, ShipmentID: r.ShipmentID, CompanyID: r.CompanyID,
		FileName: r.FileName, FileLocation: r.FileLocation, FileTags: tags,
		FileSizeKB: r.FileSizeKB, Visibility: r.Visibility,
		UploadedByUID: r.UploadedByUID, UploadedByName: r.UploadedByName,
		Trash: r.Trash, CreatedAt: r.CreatedAt,
	}
}

const fileColumns = `file_id, shipment_id, company_id, file_name, file_location, file_tags,
	file_size_kb, visibility, uploaded_by_uid, uploaded_by_name, trash, created_at`

// ListFiles returns a shipment's non-trashed files. visibleOnly
// restricts to visibility = true for AFC regular users (spec §3
// ShipmentFile visibility rule).
func (s *Store) ListFiles(ctx context.Context, shipmentID string, visibleOnly bool) ([]domain.ShipmentFile, error) {
	query := `SELECT ` + fileColumns + ` FROM shipment_files WHERE shipment_id = $1 AND trash = false`
	if visibleOnly {
		query += ` AND visibility = true`
	}
	query += ` ORDER BY created_at DESC`

	var rows []fileRow
	if err := s.db.SelectContext(ctx, &rows, query, shipmentID); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrorTypeInternal, "failed to list shipment files")
	}
	out := make([]domain.ShipmentFile, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

// GetFile loads one file record, optionally gated to visibility = true.
func (s *Store) GetFile(ctx context.Context, shipmentID string, fileID int64, visibleOnly bool) (domain.ShipmentFile, error) {
	query := `SELECT ` + fileColumns + ` FROM shipment_files WHERE shipment_id = $1 AND file_id = $2 AND trash = false`
	if visibleOnly {
		query += ` AND visibility = true`
	}
	var row fileRow
	if err := s.db.GetContext(ctx, &row, query, shipmentID, fileID); err != nil {
		return domain.ShipmentFile{}, mapNoRows(err, "shipment file")
	}
	return row.toDomain(), nil
}

// FilePatch is the set of fields PATCH /files/{id} may change.
// AFU may change Visibility; AFC admin/manager may edit Tags only
// (spec §4.6 permission matrix); the handler enforces which fields a
// given caller may set before calling this.
type FilePatch struct {
	Visibility *bool
	FileTags   []string
}

func (s *Store) UpdateFile(ctx context.Context, shipmentID string, fileID int64, patch FilePatch) (domain.ShipmentFile, error) {
	f, err := s.GetFile(ctx, shipmentID, fileID, false)
	if err != nil {
		return domain.ShipmentFile{}, err
	}
	if patch.Visibility != nil {
		f.Visibility = *patch.Visibility
	}
	if patch.FileTags != nil {
		f.FileTags = patch.FileTags
	}
	_, err = s.db.ExecContext(ctx, `UPDATE shipment_files SET visibility = $1, file_tags = $2 WHERE file_id = $3`,
		f.Visibility, strings.Join(f.FileTags, ","), fileID)
	if err != nil {
		return domain.ShipmentFile{}, apperrors.Wrap(err, apperrors.ErrorTypeInternal, "failed to update shipment file")
	}
	return f, nil
}

// DeleteFile soft-deletes a file record (AFU only, spec §4.6).
func (s *Store) DeleteFile(ctx context.Context, shipmentID string, fileID int64, actorUID, actorEmail string) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE shipment_files SET trash = true WHERE shipment_id = $1 AND file_id = $2 AND trash = false`, shipmentID, fileID)
		if err != nil {
			return apperrors.Wrap(err, apperrors.ErrorTypeInternal, "failed to delete shipment file")
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return apperrors.NewNotFoundError("shipment file")
		}
		return insertAuditLog(ctx, tx, domain.ActionFileDeleted, shipmentID, actorUID, actorEmail, time.Now().UTC())
	})
}
