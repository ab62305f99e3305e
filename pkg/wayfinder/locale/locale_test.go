package locale_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder/locale"
	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder/naverr"
)

func TestLocalizeTitles(t *testing.T) {
	bundle, err := locale.NewBundle("en")
	require.NoError(t, err)

	require.NoError(t, locale.LoadBytes(bundle, "titles.en.toml", []byte(`home = "Home"
detail = "Details"
`), ""))
	require.NoError(t, locale.LoadBytes(bundle, "titles.de.yaml", []byte("home: Startseite\n"), ""))

	assert.Equal(t, "Startseite", locale.Localize(bundle, []string{"de"}, "home"))
	assert.Equal(t, "Home", locale.Localize(bundle, []string{"fr"}, "home"))
	assert.Equal(t, "Details", locale.Localize(bundle, []string{"de"}, "detail"), "falls back to the default language")
	assert.Equal(t, "settings", locale.Localize(bundle, []string{"de"}, "settings"), "untranslated ids are returned as is")
	assert.Equal(t, "home", locale.Localize(nil, []string{"de"}, "home"))
}

func TestLoadFileDecodesCharset(t *testing.T) {
	bundle, err := locale.NewBundle("fr")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "titles.fr.toml")
	// "Entrée" in ISO-8859-1.
	raw := append([]byte(`home = "Entr`), 0xE9, 0x65, '"', '\n')
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	require.NoError(t, locale.LoadFile(bundle, path, "iso-8859-1"))
	assert.Equal(t, "Entrée", locale.Localize(bundle, []string{"fr"}, "home"))
}

func TestDecode(t *testing.T) {
	out, err := locale.Decode([]byte{'c', 'a', 'f', 0xE9}, "windows-1252")
	require.NoError(t, err)
	assert.Equal(t, "café", string(out))

	out, err = locale.Decode([]byte("plain"), "UTF-8")
	require.NoError(t, err)
	assert.Equal(t, "plain", string(out))

	_, err = locale.Decode([]byte("x"), "no-such-charset")
	assert.True(t, naverr.IsConfiguration(err))
}

func TestNewBundleRejectsBadTag(t *testing.T) {
	_, err := locale.NewBundle("not a tag!")
	assert.True(t, naverr.IsConfiguration(err))
}
