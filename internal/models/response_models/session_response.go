package response_models

import "time"

// SessionView is what the API returns for a visitor session.
type SessionView struct {
	SessionID      string     `json:"session_id"`
	State          string     `json:"state"`
	Input          string     `json:"input"`
	Question       string     `json:"question"`
	Result         *Wisdom    `json:"result"`
	LoadingMessage string     `json:"loading_message,omitempty"`
	LoadingSince   *time.Time `json:"loading_since,omitempty"`
}

type MetaResponse struct {
	Theme       string   `json:"theme"`
	Title       string   `json:"title"`
	Tagline     string   `json:"tagline"`
	Suggestions []string `json:"suggestions"`
	Variant     string   `json:"variant"`
	Layout      Layout   `json:"layout"`
}
