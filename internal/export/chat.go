package export

import (
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"
)

// callActions are the service actions retained as analyzable
// messages. Every other service record is dropped.
var callActions = map[string]bool{
	"phone_call": true,
	"group_call": true,
}

// BuildChat classifies a raw chat record and its messages. Messages
// are appended in encounter order; the export writes them
// chronologically, so callers may treat the slice as time-ordered.
func BuildChat(raw gjson.Result) (Chat, error) {
	chat := Chat{
		ID:   raw.Get("id").Int(),
		Type: ChatType(raw.Get("type").Str),
	}
	if name := raw.Get("name"); name.Type == gjson.String {
		chat.Name = name.Str
	}

	// In a one-on-one chat with no name field, the counterpart's
	// display name comes from the first message they sent.
	selfID := "user" + strconv.FormatInt(chat.ID, 10)

	var err error
	raw.Get("messages").ForEach(func(_, rawMsg gjson.Result) bool {
		if chat.Name == "" && chat.Type == ChatPersonal &&
			rawMsg.Get("from_id").Str == selfID {
			chat.Name = rawMsg.Get("from").Str
		}
		if rawMsg.Get("type").Str == "service" &&
			!callActions[rawMsg.Get("action").Str] {
			return true
		}
		var msg Message
		msg, err = Classify(rawMsg)
		if err != nil {
			err = fmt.Errorf("chat %d message %s: %w",
				chat.ID, rawMsg.Get("id").Raw, err)
			return false
		}
		chat.Messages = append(chat.Messages, msg)
		return true
	})
	if err != nil {
		return Chat{}, err
	}
	return chat, nil
}
