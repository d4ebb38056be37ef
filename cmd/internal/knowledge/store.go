package knowledge

import (
	"context"
	"time"
)

// Folder is a user-owned grouping of themes.
type Folder struct {
	ID               int64
	TextFolder       string
	NumberOfTopics   int
	LastOpenDateTime time.Time
	UserID           int64
}

// Theme is a named topic inside a folder.
type Theme struct {
	ID               int64
	NameTheme        string
	LastOpenDateTime time.Time
	NumberOfRecords  int
	FolderID         int64
}

// Record is a single note stored under a theme.
type Record struct {
	ID               int64
	NameRecord       string
	TextRecords      string
	LastOpenDateTime time.Time
	CountText        int
	ThemeID          int64
}

// KnowledgeQueue is one spaced-repetition review item owned by a user.
// NextAlertCard is declared in the schema but never scheduled: rows are
// always created with it NULL.
type KnowledgeQueue struct {
	ID                    int64
	ContentKnowledgeQueue string
	CompletedTaskStatus   bool
	NumberOfCycles        int
	CreateDateTime        time.Time
	NextAlertCard         *time.Time
	UserID                int64
}

// CreateFolderInput describes a folder insert. Now is stamped server-side
// when zero; any caller-supplied last-opened value is ignored by design.
type CreateFolderInput struct {
	TextFolder     string
	NumberOfTopics int
	UserID         int64
	Now            time.Time
}

// CreateThemeInput describes a theme insert under FolderID.
type CreateThemeInput struct {
	NameTheme       string
	NumberOfRecords int
	FolderID        int64
	Now             time.Time
}

// CreateRecordInput describes a record insert under ThemeID.
// TextRecords may be empty; CountText is caller-supplied.
type CreateRecordInput struct {
	NameRecord  string
	TextRecords string
	CountText   int
	ThemeID     int64
	Now         time.Time
}

// CreateKnowledgeQueueInput describes a queue-item insert for UserID.
// There is deliberately no NextAlertCard field: the stored value is always
// NULL regardless of what the API caller sends.
type CreateKnowledgeQueueInput struct {
	ContentKnowledgeQueue string
	CompletedTaskStatus   bool
	NumberOfCycles        int
	UserID                int64
	Now                   time.Time
}

// Store is the persistence boundary for the knowledge tree.
//
// Ownership contract: folders and knowledge-queue items are scoped to the
// authenticated user by construction (callers pass the resolved user id).
// Themes and records are scoped only to their structural parent id; no
// check that the parent belongs to the requesting user happens at any
// layer. That gap matches the historical API contract and is kept on
// purpose — see DESIGN.md before tightening it.
//
// List methods return rows in insertion (id) order and never return a nil
// slice for an empty result.
type Store interface {
	CreateFolder(ctx context.Context, in CreateFolderInput) (Folder, error)
	ListFoldersByUser(ctx context.Context, userID int64) ([]Folder, error)

	CreateTheme(ctx context.Context, in CreateThemeInput) (Theme, error)
	ListThemesByFolder(ctx context.Context, folderID int64) ([]Theme, error)

	CreateRecord(ctx context.Context, in CreateRecordInput) (Record, error)
	ListRecordsByTheme(ctx context.Context, themeID int64) ([]Record, error)

	CreateKnowledgeQueue(ctx context.Context, in CreateKnowledgeQueueInput) (KnowledgeQueue, error)
	ListKnowledgeQueuesByUser(ctx context.Context, userID int64) ([]KnowledgeQueue, error)
}
