package agent

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestExtractEmail(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"plain email", "my email is amina@example.com", "amina@example.com"},
		{"embedded in sentence", "reach me at john.doe+test@mail.co thanks", "john.doe+test@mail.co"},
		{"no email", "call me instead", ""},
		{"missing tld", "broken@nowhere", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractEmail(tt.text))
		})
	}
}

func TestExtractPhone(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"international", "my number is +971 50 123 4567", "+971 50 123 4567"},
		{"too few digits", "I turn 42 in 3 days", ""},
		{"plain digits", "0501234567", "0501234567"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractPhone(tt.text))
		})
	}
}

func TestExtractName(t *testing.T) {
	displayed := []PropertyResult{{ProjectName: "Marina Heights"}}

	tests := []struct {
		name      string
		message   string
		wantFirst string
		wantLast  string
	}{
		{"first only", "sarah", "Sarah", ""},
		{"first and last", "sarah connor", "Sarah", "Connor"},
		{"too many tokens", "well my name is Sarah Connor okay", "", ""},
		{"email shaped", "sarah@example.com", "", ""},
		{"property name collision", "Marina please", "", ""},
		{"apostrophe", "Conor O'Brien", "Conor", "O'brien"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, last := ExtractName(tt.message, displayed)
			assert.Equal(t, tt.wantFirst, first)
			assert.Equal(t, tt.wantLast, last)
		})
	}
}

func TestMentionsNoBudget(t *testing.T) {
	assert.True(t, MentionsNoBudget("I don't care about price, just show me everything"))
	assert.True(t, MentionsNoBudget("Any price works"))
	assert.True(t, MentionsNoBudget("whatever is available in Dubai"))
	assert.False(t, MentionsNoBudget("my budget is 500k"))
	assert.False(t, MentionsNoBudget("show me apartments in Dubai"))
}

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"short string untouched", "hello", 10, "hello"},
		{"ascii cap", "abcdefgh", 4, "abcd"},
		{"zero disables the cap", "abcdefgh", 0, "abcdefgh"},
		{"multi-byte runes survive intact", "šárka apartment praha", 6, "šárka "},
		{"cap inside a multi-byte sequence", "日本語のテキスト", 3, "日本語"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncateRunes(tt.in, tt.n)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}

func TestMentionsGoodbyeIsBroaderThanAfterQuestionList(t *testing.T) {
	// "thanks" ends a conversation via the classification safety net but
	// not via the post-question check.
	assert.True(t, MentionsGoodbye("thanks"))
	assert.False(t, containsAny("thanks", afterQuestionGoodbyePhrases))

	assert.True(t, MentionsGoodbye("ok bye"))
	assert.True(t, containsAny("ok bye", afterQuestionGoodbyePhrases))
}

func TestMatchPropertyByName(t *testing.T) {
	candidates := []PropertyResult{
		{ID: 1, ProjectName: "Marina Heights"},
		{ID: 2, ProjectName: "Palm Vista"},
	}

	prop, ok := MatchPropertyByName("can I see palm vista tomorrow", candidates)
	assert.True(t, ok)
	assert.Equal(t, int64(2), prop.ID)

	prop, ok = MatchPropertyByName("the one near the marina", candidates)
	assert.True(t, ok)
	assert.Equal(t, int64(1), prop.ID)

	_, ok = MatchPropertyByName("the cheapest one", candidates)
	assert.False(t, ok)
}
