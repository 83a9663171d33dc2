package emoji

import "testing"

func TestGetEmoji(t *testing.T) {
	defer SetEmojiDisabled(false)

	SetEmojiDisabled(false)
	if got := GetEmoji("save"); got != "💾" {
		t.Errorf("GetEmoji(save) = %q, want emoji", got)
	}

	SetEmojiDisabled(true)
	if !IsEmojiDisabled() {
		t.Fatal("expected emoji to be disabled")
	}
	if got := GetEmoji("save"); got != "[SAVE]" {
		t.Errorf("GetEmoji(save) = %q, want fallback", got)
	}
	if got := GetEmoji("unknown"); got != "[?]" {
		t.Errorf("GetEmoji(unknown) = %q, want [?]", got)
	}
}
