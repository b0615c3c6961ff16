package models

import "time"

type Folder struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type FolderStats struct {
	FolderID       string `json:"folder_id"`
	TotalCards     int    `json:"total_cards"`
	LearnedCards   int    `json:"learned_cards"`
	UnlearnedCards int    `json:"unlearned_cards"`
}
