package authapi

import (
	"github.com/Gratix0/FastapiMindRememberAPI/cmd/internal/knowledge"
)

// Timestamps are normalized to UTC so they serialize with a trailing Z
// regardless of the session time zone the driver handed back.

func toFolderResponse(f knowledge.Folder) folderResponse {
	return folderResponse{
		ID:               f.ID,
		TextFolder:       f.TextFolder,
		NumberOfTopics:   f.NumberOfTopics,
		LastOpenDateTime: f.LastOpenDateTime.UTC(),
		UserID:           f.UserID,
	}
}

func toThemeResponse(t knowledge.Theme) themeResponse {
	return themeResponse{
		ID:               t.ID,
		NameTheme:        t.NameTheme,
		LastOpenDateTime: t.LastOpenDateTime.UTC(),
		NumberOfRecords:  t.NumberOfRecords,
		FolderID:         t.FolderID,
	}
}

func toRecordResponse(rec knowledge.Record) recordResponse {
	return recordResponse{
		ID:               rec.ID,
		NameRecord:       rec.NameRecord,
		TextRecords:      rec.TextRecords,
		LastOpenDateTime: rec.LastOpenDateTime.UTC(),
		CountText:        rec.CountText,
		ThemeID:          rec.ThemeID,
	}
}

func toKnowledgeQueueResponse(q knowledge.KnowledgeQueue) knowledgeQueueResponse {
	resp := knowledgeQueueResponse{
		ID:                    q.ID,
		ContentKnowledgeQueue: q.ContentKnowledgeQueue,
		CompletedTaskStatus:   q.CompletedTaskStatus,
		NumberOfCycles:        q.NumberOfCycles,
		CreateDateTime:        q.CreateDateTime.UTC(),
		UserID:                q.UserID,
	}
	if q.NextAlertCard != nil {
		utc := q.NextAlertCard.UTC()
		resp.NextAlertCard = &utc
	}
	return resp
}

func toFolderResponses(in []knowledge.Folder) []folderResponse {
	out := make([]folderResponse, 0, len(in))
	for _, f := range in {
		out = append(out, toFolderResponse(f))
	}
	return out
}

func toThemeResponses(in []knowledge.Theme) []themeResponse {
	out := make([]themeResponse, 0, len(in))
	for _, t := range in {
		out = append(out, toThemeResponse(t))
	}
	return out
}

func toRecordResponses(in []knowledge.Record) []recordResponse {
	out := make([]recordResponse, 0, len(in))
	for _, rec := range in {
		out = append(out, toRecordResponse(rec))
	}
	return out
}

func toKnowledgeQueueResponses(in []knowledge.KnowledgeQueue) []knowledgeQueueResponse {
	out := make([]knowledgeQueueResponse, 0, len(in))
	for _, q := range in {
		out = append(out, toKnowledgeQueueResponse(q))
	}
	return out
}
