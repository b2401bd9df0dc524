package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAdminIDs(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []int64
		wantErr bool
	}{
		{name: "empty", input: "", want: nil},
		{name: "single", input: "123456789", want: []int64{123456789}},
		{name: "multiple with spaces", input: "1, 2 ,3", want: []int64{1, 2, 3}},
		{name: "trailing comma", input: "10,20,", want: []int64{10, 20}},
		{name: "garbage", input: "1,abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAdminIDs(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsAdmin(t *testing.T) {
	cfg := Config{AdminIDs: []int64{111, 222}}

	assert.True(t, cfg.IsAdmin(111))
	assert.True(t, cfg.IsAdmin(222))
	assert.False(t, cfg.IsAdmin(333))

	empty := Config{}
	assert.False(t, empty.IsAdmin(111))
}

func TestLoadRequiresToken(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("BOT_TOKEN", "test-token")
	t.Setenv("GROUP_ID", "-100200300")
	t.Setenv("ADMIN_IDS", "42")

	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, "test-token", cfg.BotToken)
	assert.EqualValues(t, -100200300, cfg.GroupID)
	assert.Equal(t, []int64{42}, cfg.AdminIDs)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, int64(500), cfg.ThrottleInterval.Milliseconds())
	assert.Contains(t, cfg.DSN(), "dbname=antikorbot")
}
