package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ashwiniraykar1997/speech-to-text-app/internal/domain/entities"
	"github.com/ashwiniraykar1997/speech-to-text-app/internal/domain/repositories"
	"github.com/ashwiniraykar1997/speech-to-text-app/internal/infrastructure/database"
)

// UserIDKind is the storage type of the fallback user_id column
type UserIDKind string

const (
	UserIDText    UserIDKind = "text"
	UserIDInteger UserIDKind = "integer"
)

// DetectUserIDKind resolves the user_id column type. override is "auto", "text" or "integer".
func DetectUserIDKind(db *gorm.DB, override string, log *zap.Logger) UserIDKind {
	switch UserIDKind(override) {
	case UserIDText, UserIDInteger:
		return UserIDKind(override)
	}
	typ, err := database.ColumnType(db, database.TranscriptsTable, "user_id")
	if err != nil {
		log.Warn("could not introspect user_id column, assuming text", zap.Error(err))
		return UserIDText
	}
	if strings.Contains(typ, "int") || strings.Contains(typ, "serial") {
		return UserIDInteger
	}
	return UserIDText
}

// transcriptRow is the fallback table row. user_id scans as text whatever the column type.
type transcriptRow struct {
	ID              int64           `gorm:"column:id;primaryKey;autoIncrement"`
	Text            string          `gorm:"column:text"`
	UserID          sql.NullString  `gorm:"column:user_id"`
	Filename        sql.NullString  `gorm:"column:filename"`
	DurationSeconds sql.NullFloat64 `gorm:"column:duration_seconds"`
	Language        string          `gorm:"column:language"`
	CreatedAt       time.Time       `gorm:"column:created_at"`
}

func (transcriptRow) TableName() string {
	return database.TranscriptsTable
}

func newTranscriptRow(t *entities.Transcript) *transcriptRow {
	row := &transcriptRow{
		Text:      t.Text,
		Language:  t.Language,
		CreatedAt: t.CreatedAt.UTC(),
	}
	if row.Language == "" {
		row.Language = entities.DefaultLanguage
	}
	if t.UserID != nil {
		row.UserID = sql.NullString{String: *t.UserID, Valid: true}
	}
	if t.Filename != nil {
		row.Filename = sql.NullString{String: *t.Filename, Valid: true}
	}
	if t.DurationSeconds != nil {
		row.DurationSeconds = sql.NullFloat64{Float64: *t.DurationSeconds, Valid: true}
	}
	return row
}

func (r *transcriptRow) toEntity() *entities.Transcript {
	t := &entities.Transcript{
		ID:        strconv.FormatInt(r.ID, 10),
		Text:      r.Text,
		CreatedAt: r.CreatedAt.UTC(),
		Language:  r.Language,
	}
	if r.UserID.Valid {
		uid := r.UserID.String
		t.UserID = &uid
	}
	if r.Filename.Valid {
		name := r.Filename.String
		t.Filename = &name
	}
	if r.DurationSeconds.Valid {
		d := r.DurationSeconds.Float64
		t.DurationSeconds = &d
	}
	if t.Language == "" {
		t.Language = entities.DefaultLanguage
	}
	return t
}

// TranscriptRepository is the fallback transcript store on the local relational database
type TranscriptRepository struct {
	db     *gorm.DB
	kind   UserIDKind
	logger *zap.Logger
}

// NewTranscriptRepository creates a new transcript repository
func NewTranscriptRepository(db *gorm.DB, kind UserIDKind, logger *zap.Logger) *TranscriptRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TranscriptRepository{db: db, kind: kind, logger: logger}
}

// Name returns the store name
func (r *TranscriptRepository) Name() string {
	return repositories.StoreFallback
}

// Available reports whether a database connection exists
func (r *TranscriptRepository) Available() bool {
	return r != nil && r.db != nil
}

// UserIDKind returns the storage type of the user_id column
func (r *TranscriptRepository) UserIDKind() UserIDKind {
	return r.kind
}

// Insert stores a transcript. A user id on an integer user_id column is refused with
// ErrSchemaTypeMismatch before anything is written.
func (r *TranscriptRepository) Insert(ctx context.Context, transcript *entities.Transcript) repositories.Response {
	if !r.Available() {
		return repositories.Response{Err: fmt.Errorf("%w: database not connected", entities.ErrStoreUnreachable)}
	}
	if transcript == nil {
		return repositories.Response{Err: fmt.Errorf("%w: transcript cannot be nil", entities.ErrStoreRejected)}
	}
	if transcript.HasUser() && r.kind == UserIDInteger {
		return repositories.Response{Err: fmt.Errorf("%w: column is integer, got %q", entities.ErrSchemaTypeMismatch, *transcript.UserID)}
	}

	row := newTranscriptRow(transcript)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(row).Error
	})
	if err != nil {
		err = classify(err)
		r.logger.Error("fallback insert failed",
			zap.String("filename", transcript.FilenameOrDefault()),
			zap.Error(err),
		)
		return repositories.Response{Err: err}
	}

	r.logger.Info("inserted transcript to fallback",
		zap.Int64("id", row.ID),
		zap.String("filename", transcript.FilenameOrDefault()),
	)
	return repositories.Response{Data: []*entities.Transcript{row.toEntity()}}
}

// SelectAll lists every transcript, newest first with ties broken by id
func (r *TranscriptRepository) SelectAll(ctx context.Context) repositories.Response {
	if !r.Available() {
		return repositories.Response{Err: fmt.Errorf("%w: database not connected", entities.ErrStoreUnreachable)}
	}
	rows, err := r.find(ctx, "", "")
	if err != nil {
		return repositories.Response{Err: classify(err)}
	}
	return repositories.Response{Data: rows}
}

// SelectByUser lists a user's transcripts. When the comparison fails on the column type,
// it is re-issued against the column cast to text.
func (r *TranscriptRepository) SelectByUser(ctx context.Context, userID string) repositories.Response {
	if !r.Available() {
		return repositories.Response{Err: fmt.Errorf("%w: database not connected", entities.ErrStoreUnreachable)}
	}

	if r.kind == UserIDInteger && !isInteger(userID) {
		return r.selectByUserCast(ctx, userID)
	}

	rows, err := r.find(ctx, "user_id = ?", userID)
	if err != nil {
		if !IsTypeMismatch(err) {
			return repositories.Response{Err: classify(err)}
		}
		r.logger.Warn("user_id comparison failed, retrying with text cast", zap.Error(err))
		return r.selectByUserCast(ctx, userID)
	}
	return repositories.Response{Data: rows}
}

func (r *TranscriptRepository) selectByUserCast(ctx context.Context, userID string) repositories.Response {
	rows, err := r.find(ctx, "CAST(user_id AS TEXT) = ?", userID)
	if err != nil {
		return repositories.Response{Err: classify(err)}
	}
	return repositories.Response{Data: rows}
}

func (r *TranscriptRepository) find(ctx context.Context, where string, arg interface{}) ([]*entities.Transcript, error) {
	var rows []transcriptRow
	q := r.db.WithContext(ctx).Model(&transcriptRow{})
	if where != "" {
		q = q.Where(where, arg)
	}
	err := q.Order("created_at DESC").Order("id ASC").Find(&rows).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	out := make([]*entities.Transcript, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toEntity())
	}
	return out, nil
}

func isInteger(s string) bool {
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}
