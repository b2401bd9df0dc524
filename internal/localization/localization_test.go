package localization

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLocales(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ru.json"),
		[]byte(`{"welcome": "Добро пожаловать", "complaint_sent": "Жалоба №%d принята"}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "uz.json"),
		[]byte(`{"welcome": "Xush kelibsiz"}`), 0o644))
	return dir
}

func TestGetString(t *testing.T) {
	l, err := NewLocalizer(writeLocales(t))
	require.NoError(t, err)

	assert.Equal(t, "Добро пожаловать", l.GetString("ru", "welcome"))
	assert.Equal(t, "Xush kelibsiz", l.GetString("uz", "welcome"))

	// Missing key in uz falls back to ru.
	assert.Equal(t, "Жалоба №%d принята", l.GetString("uz", "complaint_sent"))

	// Unknown language falls back to ru.
	assert.Equal(t, "Добро пожаловать", l.GetString("en", "welcome"))

	// Unknown key falls back to the key itself.
	assert.Equal(t, "no_such_key", l.GetString("ru", "no_such_key"))
}

func TestGetf(t *testing.T) {
	l, err := NewLocalizer(writeLocales(t))
	require.NoError(t, err)

	assert.Equal(t, "Жалоба №7 принята", l.Getf("ru", "complaint_sent", 7))
}

func TestNewLocalizerRequiresFallback(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "uz.json"), []byte(`{}`), 0o644))

	_, err := NewLocalizer(dir)
	assert.Error(t, err)
}

func TestShippedLocales(t *testing.T) {
	l, err := NewLocalizer("../../locales")
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"ru", "uz"}, l.Languages())
	for _, lang := range []string{"ru", "uz"} {
		for _, key := range []string{"welcome", "anonymity_choice", "invalid_phone", "complaint_sent", "confirmation"} {
			assert.NotEqual(t, key, l.GetString(lang, key), "missing %s/%s", lang, key)
		}
	}
}
