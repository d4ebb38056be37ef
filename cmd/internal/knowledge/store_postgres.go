package knowledge

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists the knowledge tree in PostgreSQL.
//
// Design notes:
// - The pgx pool is owned by the caller; this store must NOT close it.
// - Every create runs in its own transaction; reads go straight to the pool.
// - Integrity violations are mapped to domain errors at this boundary so no
//   raw pgconn error escapes from a write.
type PostgresStore struct {
	pool   *pgxpool.Pool
	schema string
}

// StoreOption configures PostgresStore.
type StoreOption func(*PostgresStore) error

var pgIdentRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// WithSchema sets the DB schema used by the store (default: "mindremember").
// The schema name is validated to be a legal PostgreSQL identifier.
func WithSchema(schema string) StoreOption {
	return func(s *PostgresStore) error {
		schema = strings.TrimSpace(schema)
		if schema == "" {
			return fmt.Errorf("knowledge: empty schema")
		}
		if !pgIdentRe.MatchString(schema) {
			return fmt.Errorf("knowledge: invalid schema identifier")
		}
		s.schema = schema
		return nil
	}
}

// NewPostgresStore constructs a PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool, opts ...StoreOption) (*PostgresStore, error) {
	st := &PostgresStore{pool: pool, schema: "mindremember"}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(st); err != nil {
			return nil, err
		}
	}
	if st.pool == nil {
		return nil, fmt.Errorf("knowledge: nil pool")
	}
	return st, nil
}

// CreateFolder inserts a folder owned by in.UserID, stamping the
// last-opened timestamp server-side.
func (s *PostgresStore) CreateFolder(ctx context.Context, in CreateFolderInput) (Folder, error) {
	const op = "knowledge.CreateFolder"

	if s == nil || s.pool == nil {
		return Folder{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "nil store"}
	}
	if err := ctx.Err(); err != nil {
		return Folder{}, err
	}

	text := strings.TrimSpace(in.TextFolder)
	if text == "" {
		return Folder{}, pgInvalid(op, "text_folder is required")
	}
	if in.UserID <= 0 {
		return Folder{}, pgInvalid(op, "missing user_id")
	}

	now := in.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.ReadCommitted,
		AccessMode: pgx.ReadWrite,
	})
	if err != nil {
		return Folder{}, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	folders := pgIdent(s.schema, "folders")

	var id int64
	err = tx.QueryRow(ctx,
		`INSERT INTO `+folders+` (text_folder, number_of_topics, last_open_date_time, user_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		text, in.NumberOfTopics, now, in.UserID,
	).Scan(&id)
	if err != nil {
		return Folder{}, mapWriteError(op, "folder", "user", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Folder{}, fmt.Errorf("%s: %w", op, err)
	}

	return Folder{
		ID:               id,
		TextFolder:       text,
		NumberOfTopics:   in.NumberOfTopics,
		LastOpenDateTime: now,
		UserID:           in.UserID,
	}, nil
}

// ListFoldersByUser returns the user's folders in insertion order.
func (s *PostgresStore) ListFoldersByUser(ctx context.Context, userID int64) ([]Folder, error) {
	const op = "knowledge.ListFoldersByUser"

	if s == nil || s.pool == nil {
		return nil, OpError{Op: op, Kind: ErrInvalidInput, Msg: "nil store"}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if userID <= 0 {
		return nil, pgInvalid(op, "missing user_id")
	}

	folders := pgIdent(s.schema, "folders")

	rows, err := s.pool.Query(ctx,
		`SELECT id, text_folder, number_of_topics, last_open_date_time, user_id
		   FROM `+folders+`
		  WHERE user_id = $1
		  ORDER BY id`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Folder, 0, 8)
	for rows.Next() {
		var f Folder
		if err := rows.Scan(&f.ID, &f.TextFolder, &f.NumberOfTopics, &f.LastOpenDateTime, &f.UserID); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateTheme inserts a theme under the given folder.
//
// Ownership note: the parent folder is identified only by in.FolderID.
// Neither this store nor the HTTP layer checks that the folder belongs to
// the requesting user, so any authenticated user can attach themes to any
// existing folder id. This matches the historical API contract and is kept
// on purpose — see DESIGN.md before changing it.
func (s *PostgresStore) CreateTheme(ctx context.Context, in CreateThemeInput) (Theme, error) {
	const op = "knowledge.CreateTheme"

	if s == nil || s.pool == nil {
		return Theme{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "nil store"}
	}
	if err := ctx.Err(); err != nil {
		return Theme{}, err
	}

	name := strings.TrimSpace(in.NameTheme)
	if name == "" {
		return Theme{}, pgInvalid(op, "name_theme is required")
	}
	if in.FolderID <= 0 {
		return Theme{}, pgInvalid(op, "missing folder_id")
	}

	now := in.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.ReadCommitted,
		AccessMode: pgx.ReadWrite,
	})
	if err != nil {
		return Theme{}, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	themes := pgIdent(s.schema, "themes")

	var id int64
	err = tx.QueryRow(ctx,
		`INSERT INTO `+themes+` (name_theme, last_open_date_time, number_of_records, folder_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		name, now, in.NumberOfRecords, in.FolderID,
	).Scan(&id)
	if err != nil {
		return Theme{}, mapWriteError(op, "theme", "folder", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Theme{}, fmt.Errorf("%s: %w", op, err)
	}

	return Theme{
		ID:               id,
		NameTheme:        name,
		LastOpenDateTime: now,
		NumberOfRecords:  in.NumberOfRecords,
		FolderID:         in.FolderID,
	}, nil
}

// ListThemesByFolder returns the folder's themes in insertion order.
// Same ownership note as CreateTheme: the folder id is taken as-is.
func (s *PostgresStore) ListThemesByFolder(ctx context.Context, folderID int64) ([]Theme, error) {
	const op = "knowledge.ListThemesByFolder"

	if s == nil || s.pool == nil {
		return nil, OpError{Op: op, Kind: ErrInvalidInput, Msg: "nil store"}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if folderID <= 0 {
		return nil, pgInvalid(op, "missing folder_id")
	}

	themes := pgIdent(s.schema, "themes")

	rows, err := s.pool.Query(ctx,
		`SELECT id, name_theme, last_open_date_time, number_of_records, folder_id
		   FROM `+themes+`
		  WHERE folder_id = $1
		  ORDER BY id`,
		folderID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Theme, 0, 8)
	for rows.Next() {
		var th Theme
		if err := rows.Scan(&th.ID, &th.NameTheme, &th.LastOpenDateTime, &th.NumberOfRecords, &th.FolderID); err != nil {
			return nil, err
		}
		out = append(out, th)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateRecord inserts a record under the given theme.
// Same ownership note as CreateTheme: the theme id is taken as-is.
func (s *PostgresStore) CreateRecord(ctx context.Context, in CreateRecordInput) (Record, error) {
	const op = "knowledge.CreateRecord"

	if s == nil || s.pool == nil {
		return Record{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "nil store"}
	}
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}

	name := strings.TrimSpace(in.NameRecord)
	if name == "" {
		return Record{}, pgInvalid(op, "name_record is required")
	}
	if in.ThemeID <= 0 {
		return Record{}, pgInvalid(op, "missing theme_id")
	}

	now := in.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.ReadCommitted,
		AccessMode: pgx.ReadWrite,
	})
	if err != nil {
		return Record{}, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	records := pgIdent(s.schema, "records")

	var id int64
	err = tx.QueryRow(ctx,
		`INSERT INTO `+records+` (name_record, text_records, last_open_date_time, count_text, theme_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		name, in.TextRecords, now, in.CountText, in.ThemeID,
	).Scan(&id)
	if err != nil {
		return Record{}, mapWriteError(op, "record", "theme", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Record{}, fmt.Errorf("%s: %w", op, err)
	}

	return Record{
		ID:               id,
		NameRecord:       name,
		TextRecords:      in.TextRecords,
		LastOpenDateTime: now,
		CountText:        in.CountText,
		ThemeID:          in.ThemeID,
	}, nil
}

// ListRecordsByTheme returns the theme's records in insertion order.
func (s *PostgresStore) ListRecordsByTheme(ctx context.Context, themeID int64) ([]Record, error) {
	const op = "knowledge.ListRecordsByTheme"

	if s == nil || s.pool == nil {
		return nil, OpError{Op: op, Kind: ErrInvalidInput, Msg: "nil store"}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if themeID <= 0 {
		return nil, pgInvalid(op, "missing theme_id")
	}

	records := pgIdent(s.schema, "records")

	rows, err := s.pool.Query(ctx,
		`SELECT id, name_record, text_records, last_open_date_time, count_text, theme_id
		   FROM `+records+`
		  WHERE theme_id = $1
		  ORDER BY id`,
		themeID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Record, 0, 8)
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.NameRecord, &rec.TextRecords, &rec.LastOpenDateTime, &rec.CountText, &rec.ThemeID); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateKnowledgeQueue inserts a queue item for in.UserID.
// next_alert_card is written as NULL unconditionally: the column exists for
// a scheduler that was never built, and no caller-supplied value survives.
func (s *PostgresStore) CreateKnowledgeQueue(ctx context.Context, in CreateKnowledgeQueueInput) (KnowledgeQueue, error) {
	const op = "knowledge.CreateKnowledgeQueue"

	if s == nil || s.pool == nil {
		return KnowledgeQueue{}, OpError{Op: op, Kind: ErrInvalidInput, Msg: "nil store"}
	}
	if err := ctx.Err(); err != nil {
		return KnowledgeQueue{}, err
	}

	content := strings.TrimSpace(in.ContentKnowledgeQueue)
	if content == "" {
		return KnowledgeQueue{}, pgInvalid(op, "content_knowledge_queue is required")
	}
	if in.UserID <= 0 {
		return KnowledgeQueue{}, pgInvalid(op, "missing user_id")
	}

	now := in.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.ReadCommitted,
		AccessMode: pgx.ReadWrite,
	})
	if err != nil {
		return KnowledgeQueue{}, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	queues := pgIdent(s.schema, "knowledge_queues")

	var id int64
	err = tx.QueryRow(ctx,
		`INSERT INTO `+queues+` (content_knowledge_queue, completed_task_status, number_of_cycles, create_date_time, next_alert_card, user_id)
		 VALUES ($1, $2, $3, $4, NULL, $5)
		 RETURNING id`,
		content, in.CompletedTaskStatus, in.NumberOfCycles, now, in.UserID,
	).Scan(&id)
	if err != nil {
		return KnowledgeQueue{}, mapWriteError(op, "knowledge_queue", "user", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return KnowledgeQueue{}, fmt.Errorf("%s: %w", op, err)
	}

	return KnowledgeQueue{
		ID:                    id,
		ContentKnowledgeQueue: content,
		CompletedTaskStatus:   in.CompletedTaskStatus,
		NumberOfCycles:        in.NumberOfCycles,
		CreateDateTime:        now,
		NextAlertCard:         nil,
		UserID:                in.UserID,
	}, nil
}

// ListKnowledgeQueuesByUser returns the user's queue items in insertion order.
func (s *PostgresStore) ListKnowledgeQueuesByUser(ctx context.Context, userID int64) ([]KnowledgeQueue, error) {
	const op = "knowledge.ListKnowledgeQueuesByUser"

	if s == nil || s.pool == nil {
		return nil, OpError{Op: op, Kind: ErrInvalidInput, Msg: "nil store"}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if userID <= 0 {
		return nil, pgInvalid(op, "missing user_id")
	}

	queues := pgIdent(s.schema, "knowledge_queues")

	rows, err := s.pool.Query(ctx,
		`SELECT id, content_knowledge_queue, completed_task_status, number_of_cycles, create_date_time, next_alert_card, user_id
		   FROM `+queues+`
		  WHERE user_id = $1
		  ORDER BY id`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]KnowledgeQueue, 0, 8)
	for rows.Next() {
		var q KnowledgeQueue
		if err := rows.Scan(&q.ID, &q.ContentKnowledgeQueue, &q.CompletedTaskStatus, &q.NumberOfCycles, &q.CreateDateTime, &q.NextAlertCard, &q.UserID); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ---- helpers ----

// pgInvalid standardizes invalid input errors.
func pgInvalid(op, msg string) error {
	return OpError{Op: op, Kind: ErrInvalidInput, Msg: msg}
}

// pgIdent safely quotes a schema-qualified identifier: "schema"."name".
func pgIdent(schema, name string) string {
	return pgx.Identifier{schema, name}.Sanitize()
}

// mapWriteError converts SQLSTATE integrity violations into domain errors:
// unique violations become a ConflictError for the entity, FK violations
// mean the structural parent row does not exist. Anything else is wrapped
// so no raw driver error escapes a write path.
func mapWriteError(op, entity, parent string, err error) error {
	if pgIsUniqueViolation(err) {
		return ConflictError{Op: op, Entity: entity}
	}
	if pgIsForeignKeyViolation(err) {
		return NotFoundError{Op: op, Resource: parent}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func pgIsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "23505" // unique_violation
}

func pgIsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "23503" // foreign_key_violation
}
