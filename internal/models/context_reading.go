package models

import "time"

// ContextReadingState records which cards have already been served to a user
// for one folder during the current reading cycle.
type ContextReadingState struct {
	UserID      string    `json:"user_id"`
	FolderID    string    `json:"folder_id"`
	UsedCardIDs []string  `json:"used_card_ids"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ContextProgress struct {
	Used  int `json:"used"`
	Total int `json:"total"`
}

// ContextBatch is the result of one context reading request.
type ContextBatch struct {
	Cards     []Card          `json:"cards"`
	Progress  ContextProgress `json:"progress"`
	Completed bool            `json:"completed"`
}
