// Package archive reads raw conversation records from a ChatGPT export.
package archive

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Read decodes an export's conversation array from r. The archive is
// fully materialized; a decode failure returns an error and no partial
// result. Record order follows the source array.
func Read(r io.Reader) ([]Conversation, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("reading archive: %w", err)
	}
	if tok != json.Delim('[') {
		return nil, fmt.Errorf("reading archive: expected a conversation array, got %v", tok)
	}

	var conversations []Conversation
	for dec.More() {
		var c Conversation
		if err := dec.Decode(&c); err != nil {
			return nil, fmt.Errorf("decoding conversation %d: %w", len(conversations), err)
		}
		conversations = append(conversations, c)
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("reading archive: %w", err)
	}

	return conversations, nil
}

// ReadFile reads an export archive from disk.
func ReadFile(path string) ([]Conversation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Read(f)
}
