package authapi

import "time"

type registerRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type registerResponse struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
}

// loginRequest mirrors the historical wire contract: the hashed_password
// field carries the PLAIN password. The field name is a fossil that clients
// depend on and must not be renamed.
type loginRequest struct {
	Username       string `json:"username"`
	HashedPassword string `json:"hashed_password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type folderCreateRequest struct {
	TextFolder     string `json:"text_folder"`
	NumberOfTopics int    `json:"number_of_topics"`
}

type themeCreateRequest struct {
	NameTheme       string `json:"name_theme"`
	NumberOfRecords int    `json:"number_of_records"`
}

type recordCreateRequest struct {
	NameRecord  string `json:"name_record"`
	TextRecords string `json:"text_records"`
	CountText   int    `json:"count_text"`
}

// knowledgeQueueCreateRequest declares next_alert_card only so that bodies
// sent by older clients keep decoding under DisallowUnknownFields; the value
// is discarded and the stored column is always NULL.
type knowledgeQueueCreateRequest struct {
	ContentKnowledgeQueue string     `json:"content_knowledge_queue"`
	CompletedTaskStatus   bool       `json:"completed_task_status"`
	NumberOfCycles        int        `json:"number_of_cycles"`
	NextAlertCard         *time.Time `json:"next_alert_card"`
}

// Entity responses expose the table column names as JSON field names.

type folderResponse struct {
	ID               int64     `json:"id"`
	TextFolder       string    `json:"text_folder"`
	NumberOfTopics   int       `json:"number_of_topics"`
	LastOpenDateTime time.Time `json:"last_open_date_time"`
	UserID           int64     `json:"user_id"`
}

type themeResponse struct {
	ID               int64     `json:"id"`
	NameTheme        string    `json:"name_theme"`
	LastOpenDateTime time.Time `json:"last_open_date_time"`
	NumberOfRecords  int       `json:"number_of_records"`
	FolderID         int64     `json:"folder_id"`
}

type recordResponse struct {
	ID               int64     `json:"id"`
	NameRecord       string    `json:"name_record"`
	TextRecords      string    `json:"text_records"`
	LastOpenDateTime time.Time `json:"last_open_date_time"`
	CountText        int       `json:"count_text"`
	ThemeID          int64     `json:"theme_id"`
}

type knowledgeQueueResponse struct {
	ID                    int64      `json:"id"`
	ContentKnowledgeQueue string     `json:"content_knowledge_queue"`
	CompletedTaskStatus   bool       `json:"completed_task_status"`
	NumberOfCycles        int        `json:"number_of_cycles"`
	CreateDateTime        time.Time  `json:"create_date_time"`
	NextAlertCard         *time.Time `json:"next_alert_card"`
	UserID                int64      `json:"user_id"`
}
