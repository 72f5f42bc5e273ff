package model

import "time"

// WordEntry is one row of the vocabulary word list.
type WordEntry struct {
	ID        string    `json:"id"`
	Word      string    `json:"word"`
	Meaning   string    `json:"meaning"`
	Example   string    `json:"example,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
