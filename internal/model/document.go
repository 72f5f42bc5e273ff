package model

import "time"

// StoredDocument describes the PDF currently held in the document slot.
// There is at most one; a new upload replaces it.
type StoredDocument struct {
	Filename    string    `json:"filename"`
	Location    string    `json:"file_path"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// Extraction is the result of extracting text from the stored document.
type Extraction struct {
	// FileURL is the location of the persisted extracted_text artifact.
	FileURL string `json:"file_url"`
	Text    string `json:"text"`
}

// DocumentInfo is a lightweight summary of the stored document.
type DocumentInfo struct {
	FileURL string `json:"file_url"`
	Size    int64  `json:"size"`
	Pages   int    `json:"pages"`
}
