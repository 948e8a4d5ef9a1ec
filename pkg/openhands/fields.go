package openhands

import (
	"encoding/json"

	"github.com/tidwall/gjson"
)

// Field helpers for raw responses. The clients return raw JSON so the server
// can grow fields freely; these accessors cover the values the CLI needs.

// StringField returns the string at path (gjson syntax) in raw, or "" when
// the path is absent.
func StringField(raw json.RawMessage, path string) string {
	return gjson.GetBytes(raw, path).String()
}

// IntField returns the integer at path in raw, or 0 when absent.
func IntField(raw json.RawMessage, path string) int64 {
	return gjson.GetBytes(raw, path).Int()
}

// BoolField returns the boolean at path in raw, or false when absent.
func BoolField(raw json.RawMessage, path string) bool {
	return gjson.GetBytes(raw, path).Bool()
}

// HasField reports whether path exists in raw.
func HasField(raw json.RawMessage, path string) bool {
	return gjson.GetBytes(raw, path).Exists()
}

// ConversationID returns the conversation_id field of a response, falling
// back to id (the V1 shape) when conversation_id is absent.
func ConversationID(raw json.RawMessage) string {
	if id := StringField(raw, "conversation_id"); id != "" {
		return id
	}
	return StringField(raw, "id")
}

// Status returns the status field of a response as reported by the server.
func Status(raw json.RawMessage) string {
	return StringField(raw, "status")
}

// ConversationURL returns the url field of a response.
func ConversationURL(raw json.RawMessage) string {
	return StringField(raw, "url")
}

// Title returns the title field of a response.
func Title(raw json.RawMessage) string {
	return StringField(raw, "title")
}

// RuntimeStatus returns the runtime_status field of a response.
func RuntimeStatus(raw json.RawMessage) string {
	return StringField(raw, "runtime_status")
}
