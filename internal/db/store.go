// Package db holds the document store: named JSON arrays read and written whole.
package db

import (
	"context"
	"encoding/json"

	"busticket/internal/utils"
)

// Store reads and writes named documents. A document is a JSON array of records.
//
// Read returns an empty slice when the document is absent or cannot be parsed;
// only genuine I/O failures are returned, as domain.DocumentIOError.
// Write replaces the whole document.
type Store interface {
	Read(ctx context.Context, name string) ([]json.RawMessage, error)
	Write(ctx context.Context, name string, records []json.RawMessage) error
}

// decodeDocument parses a stored body. Unparsable bodies degrade to empty.
func decodeDocument(name string, body []byte) []json.RawMessage {
	if len(body) == 0 {
		return []json.RawMessage{}
	}
	var records []json.RawMessage
	if err := json.Unmarshal(body, &records); err != nil {
		utils.LogWarn("", "store", "read", "document "+name+" unparsable, treating as empty: "+err.Error())
		return []json.RawMessage{}
	}
	if records == nil {
		records = []json.RawMessage{}
	}
	return records
}

func encodeDocument(records []json.RawMessage) ([]byte, error) {
	if records == nil {
		records = []json.RawMessage{}
	}
	return json.MarshalIndent(records, "", "  ")
}
