package export

import "time"

// ChatType identifies the kind of chat in a Telegram export.
type ChatType string

const (
	ChatPersonal          ChatType = "personal_chat"
	ChatPrivateGroup      ChatType = "private_group"
	ChatPrivateSupergroup ChatType = "private_supergroup"
	ChatPublicSupergroup  ChatType = "public_supergroup"
	ChatPrivateChannel    ChatType = "private_channel"
	ChatPublicChannel     ChatType = "public_channel"
	ChatSavedMessages     ChatType = "saved_messages"
	ChatBot               ChatType = "bot_chat"
)

// MessageType is the resolved classification of one message.
// Classification is total: every record maps to exactly one tag,
// falling back to TypeUnknown.
type MessageType string

const (
	TypeSimpleText   MessageType = "simple_text"
	TypeSticker      MessageType = "sticker"
	TypeVoiceMessage MessageType = "voice_message"
	TypeVideoMessage MessageType = "video_message"
	TypeAudioFile    MessageType = "audio_file"
	TypeVideoFile    MessageType = "video_file"
	TypeAnimation    MessageType = "animation"
	TypeFile         MessageType = "file"
	TypePhoto        MessageType = "photo"
	TypePoll         MessageType = "poll"
	TypeContact      MessageType = "contact"
	TypeLocation     MessageType = "location"
	TypeGame         MessageType = "game"
	TypeBotUsage     MessageType = "bot_usage"
	TypeSingleCall   MessageType = "single_call"
	TypeGroupCall    MessageType = "group_call"
	TypeUnknown      MessageType = "unknown"
)

// IsCall reports whether the type came from a call service record.
func (t MessageType) IsCall() bool {
	return t == TypeSingleCall || t == TypeGroupCall
}

// GameInfo carries the fields specific to game messages.
type GameInfo struct {
	Title string
	// Table maps a participant's display name to their placement
	// string as listed in the leaderboard text ("Alice" -> "1").
	Table map[string]string
}

// Message is one normalized communication event. Type is computed
// once at construction and never recomputed; the pointer fields are
// set only for the variants they belong to.
type Message struct {
	ID       int64
	Author   string
	SendTime time.Time
	Text     string
	Type     MessageType

	// Duration is in seconds for call, voice, circle and video
	// types; 0 when the source omits it.
	Duration int

	StickerEmoji *string
	Game         *GameInfo

	Edited        bool
	EditedTime    time.Time
	Forwarded     bool
	ForwardedFrom string

	// LinkSites holds the host of every link entity in the
	// message, one entry per occurrence.
	LinkSites []string
}

// Chat is an ordered container of classified messages. Messages are
// kept in export order, which is chronological.
type Chat struct {
	ID       int64
	Name     string
	Type     ChatType
	Messages []Message
}
