// Package export parses a Telegram chat-export JSON archive into
// typed chats and messages. The export's records have overlapping
// optional field sets, so classification follows a strict precedence
// order; see Classify.
package export

import (
	"fmt"
	"os"

	"github.com/tidwall/gjson"
)

// DataFormatError reports a structurally invalid export document.
// I/O failures are returned as wrapped os errors instead.
type DataFormatError struct {
	Path   string
	Reason string
	Err    error
}

func (e *DataFormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("export %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("export %s: %s", e.Path, e.Reason)
}

func (e *DataFormatError) Unwrap() error { return e.Err }

// ParseExport reads and classifies a whole export archive. The
// document must carry a chats.list array; a malformed document or a
// malformed timestamp inside any chat fails the whole parse.
func ParseExport(path string) ([]Chat, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading export: %w", err)
	}

	if !gjson.ValidBytes(data) {
		return nil, &DataFormatError{Path: path, Reason: "invalid JSON"}
	}

	list := gjson.GetBytes(data, "chats.list")
	if !list.Exists() || !list.IsArray() {
		return nil, &DataFormatError{
			Path: path, Reason: "missing chats.list array",
		}
	}

	var chats []Chat
	var buildErr error
	list.ForEach(func(_, rawChat gjson.Result) bool {
		chat, err := BuildChat(rawChat)
		if err != nil {
			buildErr = err
			return false
		}
		chats = append(chats, chat)
		return true
	})
	if buildErr != nil {
		return nil, &DataFormatError{
			Path: path, Reason: "bad chat record", Err: buildErr,
		}
	}
	return chats, nil
}
