package domain

import "time"

// FindingID is assigned by the finding store in strict arrival order.
// Every internal structure is keyed by it, never by finding text.
type FindingID int64

// DocumentInfo describes the analyzed document a batch of findings came from.
type DocumentInfo struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Authors []string `json:"authors,omitempty"`
	Year    *int     `json:"year,omitempty"`
	Source  string   `json:"source,omitempty"`
}

// ExtractedFinding is one claim handed to the engine by the extraction stage.
type ExtractedFinding struct {
	Text string `json:"text"`
}

// Finding is an immutable ledger entry.
type Finding struct {
	ID           FindingID `json:"id"`
	Text         string    `json:"text"`
	Embedding    []float32 `json:"-"`
	DocumentID   string    `json:"document_id"`
	ArrivalIndex int       `json:"arrival_index"`
	CreatedAt    time.Time `json:"created_at"`
}

// Clone returns a copy that shares no memory with f.
func (f Finding) Clone() Finding {
	f.Embedding = append([]float32(nil), f.Embedding...)
	return f
}
