package telegram

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"plain with plus", "+998901234567", "+998901234567", true},
		{"plain without plus", "998901234567", "+998901234567", true},
		{"spaces and dashes", "+998 90 123-45-67", "+998901234567", true},
		{"parentheses", "+998 (90) 123 45 67", "+998901234567", true},
		{"too short", "+99890123456", "", false},
		{"too long", "+9989012345678", "", false},
		{"wrong country code", "+7 900 123 45 67", "", false},
		{"letters", "+998abcdefghi", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizePhone(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizePhoneIdempotent(t *testing.T) {
	once, ok := NormalizePhone("998 90 123 45 67")
	assert.True(t, ok)

	twice, ok := NormalizePhone(once)
	assert.True(t, ok)
	assert.Equal(t, once, twice)
}

func TestValidFullName(t *testing.T) {
	assert.True(t, ValidFullName("Иван Петров"))
	assert.True(t, ValidFullName("  Aliyev   Vali Ogli "))
	assert.False(t, ValidFullName("Иван"))
	assert.False(t, ValidFullName("   "))
	assert.False(t, ValidFullName(""))
}

func TestValidComplaintText(t *testing.T) {
	assert.False(t, ValidComplaintText("too short"))
	assert.False(t, ValidComplaintText(strings.Repeat(" ", 40)))
	// 20 Cyrillic runes is more than 20 bytes but still exactly the minimum.
	assert.True(t, ValidComplaintText(strings.Repeat("ж", 20)))
	assert.False(t, ValidComplaintText(strings.Repeat("ж", 19)))
	assert.True(t, ValidComplaintText("This complaint text is definitely long enough."))
}
