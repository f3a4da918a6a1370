// Command testexport writes a deterministic synthetic Telegram
// export for manual testing of the report pipeline.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"
)

type chatSpec struct {
	id       int64
	name     string
	chatType string
	authors  []string
	msgCount int
}

var specs = []chatSpec{
	{101, "Alice", "personal_chat", []string{"Me", "Alice"}, 40},
	{102, "Bob", "personal_chat", []string{"Me", "Bob"}, 12},
	{201, "Weekend plans", "private_group",
		[]string{"Me", "Alice", "Bob", "Carol"}, 300},
	{202, "Book club", "private_supergroup",
		[]string{"Me", "Alice", "Carol"}, 1500},
}

var sampleTexts = []string{
	"ok",
	"sounds good to me",
	"did you see this?",
	"let's meet at seven then",
	"ha",
	"I'll be a bit late, sorry about that",
}

func main() {
	out := flag.String("out", "", "output export path")
	flag.Parse()
	if *out == "" {
		fmt.Fprintln(os.Stderr, "usage: testexport -out <path>")
		os.Exit(1)
	}

	base := time.Date(2023, 1, 2, 8, 0, 0, 0, time.UTC)
	doc := map[string]any{
		"about": "Synthetic export for testing",
		"chats": map[string]any{
			"list": buildChats(base),
		},
	}

	f, err := os.Create(*out)
	if err != nil {
		log.Fatalf("creating export: %v", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", " ")
	if err := enc.Encode(doc); err != nil {
		log.Fatalf("writing export: %v", err)
	}

	for _, spec := range specs {
		fmt.Printf("  %s: %d messages\n", spec.name, spec.msgCount)
	}
	fmt.Printf("Export written to %s\n", *out)
}

func buildChats(base time.Time) []map[string]any {
	chats := make([]map[string]any, 0, len(specs))
	for i, spec := range specs {
		start := base.Add(time.Duration(i) * 24 * time.Hour)
		chats = append(chats, map[string]any{
			"id":       spec.id,
			"name":     spec.name,
			"type":     spec.chatType,
			"messages": buildMessages(spec, start),
		})
	}
	return chats
}

// buildMessages spreads a chat's messages over consecutive hours,
// cycling authors and sample texts, with every tenth message a voice
// message and every twenty-fifth a photo.
func buildMessages(spec chatSpec, start time.Time) []map[string]any {
	msgs := make([]map[string]any, 0, spec.msgCount)
	for i := 0; i < spec.msgCount; i++ {
		author := spec.authors[i%len(spec.authors)]
		sent := start.Add(time.Duration(i) * time.Hour)
		msg := map[string]any{
			"id":            int64(i + 1),
			"type":          "message",
			"date":          sent.Format("2006-01-02T15:04:05"),
			"date_unixtime": fmt.Sprintf("%d", sent.Unix()),
			"from":          author,
			"from_id":       fmt.Sprintf("user%d", i%len(spec.authors)+1),
			"text":          sampleTexts[i%len(sampleTexts)],
			"text_entities": []any{},
		}
		switch {
		case i%25 == 24:
			msg["text"] = ""
			msg["photo"] = fmt.Sprintf("photos/file_%d.jpg", i)
		case i%10 == 9:
			msg["text"] = ""
			msg["media_type"] = "voice_message"
			msg["file"] = "(File not included)"
			msg["duration_seconds"] = 5 + i%40
		}
		msgs = append(msgs, msg)
	}
	return msgs
}
