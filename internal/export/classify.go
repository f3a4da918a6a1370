package export

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// The export writes local times without an offset. The exporter's
// documented convention is to treat them as UTC, so a fixed zero
// offset is appended before parsing.
const (
	zeroOffset = ".000000+00:00"
	dateLayout = "2006-01-02T15:04:05.000000-07:00"
)

// requiredMessageFields is the field set every plain message record
// carries. A record whose keys are a subset of this plus
// benignOptionalFields is a simple text message.
var requiredMessageFields = map[string]bool{
	"date":          true,
	"date_unixtime": true,
	"from":          true,
	"from_id":       true,
	"id":            true,
	"text":          true,
	"text_entities": true,
	"type":          true,
}

// benignOptionalFields never change a message's classification.
var benignOptionalFields = map[string]bool{
	"edited":              true,
	"edited_unixtime":     true,
	"forwarded_from":      true,
	"reply_to_message_id": true,
	"reply_to_peer_id":    true,
}

// mediaTypes are the media_type values adopted verbatim as the
// message type.
var mediaTypes = map[string]MessageType{
	"sticker":       TypeSticker,
	"voice_message": TypeVoiceMessage,
	"video_message": TypeVideoMessage,
	"audio_file":    TypeAudioFile,
	"video_file":    TypeVideoFile,
	"animation":     TypeAnimation,
}

// parseSendTime parses an export timestamp. A malformed timestamp is
// an error for the whole parse: windowing correctness depends on it.
func parseSendTime(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s+zeroOffset)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}

// flattenText collapses the text field into one plain string. A list
// of mixed strings and entity objects is joined by single spaces,
// keeping each entity's literal text and discarding markup.
func flattenText(text gjson.Result) string {
	if !text.IsArray() {
		return strings.TrimSpace(text.Str)
	}
	var parts []string
	text.ForEach(func(_, elem gjson.Result) bool {
		if elem.Type == gjson.String {
			parts = append(parts, elem.Str)
		} else {
			parts = append(parts, elem.Get("text").Str)
		}
		return true
	})
	return strings.TrimSpace(strings.Join(parts, " "))
}

// gameLines recovers the leaderboard lines from the raw text field.
// In list form each plain-string element is one or more lines; in
// string form the lines are newline-separated.
func gameLines(text gjson.Result) []string {
	var lines []string
	if !text.IsArray() {
		return strings.Split(text.Str, "\n")
	}
	text.ForEach(func(_, elem gjson.Result) bool {
		if elem.Type == gjson.String {
			lines = append(lines, strings.Split(elem.Str, "\n")...)
		}
		return true
	})
	return lines
}

// parseGameTable builds the leaderboard from the game text lines.
// Each line of the form "<rank>. <name>...." contributes one entry;
// rank is the substring before the first period, name is the
// substring after ". " with the trailing period run trimmed.
func parseGameTable(text gjson.Result) map[string]string {
	table := make(map[string]string)
	for _, line := range gameLines(text) {
		line = strings.TrimSpace(line)
		idx := strings.Index(line, ". ")
		if idx <= 0 {
			continue
		}
		rank := line[:idx]
		name := strings.TrimRight(line[idx+2:], ".")
		if rank == "" || name == "" {
			continue
		}
		table[name] = rank
	}
	return table
}

// linkSites extracts the host of every link entity. Plain "link"
// entities carry the URL in their text; "text_link" entities carry
// it in href.
func linkSites(entities gjson.Result) []string {
	var sites []string
	entities.ForEach(func(_, ent gjson.Result) bool {
		var raw string
		switch ent.Get("type").Str {
		case "link":
			raw = ent.Get("text").Str
		case "text_link":
			raw = ent.Get("href").Str
		default:
			return true
		}
		if site := siteOf(raw); site != "" {
			sites = append(sites, site)
		}
		return true
	})
	return sites
}

// siteOf reduces a URL to a bare lowercase host.
func siteOf(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}
	host := strings.ToLower(u.Host)
	return strings.TrimPrefix(host, "www.")
}

// Classify normalizes one raw export record into a Message. The
// checks are ordered: field sets overlap, so precedence decides the
// tag. Classification itself is total; only a malformed timestamp
// returns an error.
func Classify(raw gjson.Result) (Message, error) {
	sendTime, err := parseSendTime(raw.Get("date").Str)
	if err != nil {
		return Message{}, err
	}

	msg := Message{
		ID:       raw.Get("id").Int(),
		SendTime: sendTime,
		Text:     flattenText(raw.Get("text")),
	}

	if raw.Get("type").Str == "service" {
		// Only call-like service records reach the classifier;
		// anything that is not a phone call is a group call.
		msg.Author = raw.Get("actor").Str
		if raw.Get("action").Str == "phone_call" {
			msg.Type = TypeSingleCall
			msg.Duration = int(raw.Get("duration_seconds").Int())
		} else {
			msg.Type = TypeGroupCall
			msg.Duration = int(raw.Get("duration").Int())
			if d := raw.Get("duration_seconds"); d.Exists() {
				msg.Duration = int(d.Int())
			}
		}
		return msg, nil
	}

	msg.Author = raw.Get("from").Str
	msg.LinkSites = linkSites(raw.Get("text_entities"))

	if edited := raw.Get("edited"); edited.Exists() {
		editTime, err := parseSendTime(edited.Str)
		if err != nil {
			return Message{}, err
		}
		msg.Edited = true
		msg.EditedTime = editTime
	}
	if fwd := raw.Get("forwarded_from"); fwd.Exists() {
		msg.Forwarded = true
		msg.ForwardedFrom = fwd.Str
	}

	msg.Type = classifyType(raw, &msg)
	return msg, nil
}

// classifyType resolves the type tag for a non-service record.
// First match wins.
func classifyType(raw gjson.Result, msg *Message) MessageType {
	simple := true
	raw.ForEach(func(key, _ gjson.Result) bool {
		if !requiredMessageFields[key.Str] && !benignOptionalFields[key.Str] {
			simple = false
			return false
		}
		return true
	})
	if simple {
		return TypeSimpleText
	}

	if mt, ok := mediaTypes[raw.Get("media_type").Str]; ok {
		msg.Duration = int(raw.Get("duration_seconds").Int())
		if mt == TypeSticker {
			// sticker_emoji may be absent or JSON null; both
			// leave the pointer nil.
			if emoji := raw.Get("sticker_emoji"); emoji.Type == gjson.String {
				e := emoji.Str
				msg.StickerEmoji = &e
			}
		}
		return mt
	}

	switch {
	case raw.Get("mime_type").Exists():
		return TypeFile
	case raw.Get("photo").Exists():
		return TypePhoto
	case raw.Get("poll").Exists():
		return TypePoll
	case raw.Get("contact_information").Exists():
		return TypeContact
	case raw.Get("location_information").Exists():
		return TypeLocation
	case raw.Get("game_title").Exists():
		msg.Game = &GameInfo{
			Title: raw.Get("game_title").Str,
			Table: parseGameTable(raw.Get("text")),
		}
		return TypeGame
	case raw.Get("via_bot").Exists():
		return TypeBotUsage
	}
	return TypeUnknown
}
