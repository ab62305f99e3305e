// Package locale loads translated destination titles and decodes resources
// stored in legacy character sets.
//
// Message files are read with go-i18n. TOML and YAML files are supported in
// addition to JSON; the language is taken from the file name the way go-i18n
// does it (for example "titles.de.toml").
package locale

import (
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder/internal"
	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder/naverr"
)

// NewBundle creates a message bundle for defaultLanguage, a BCP 47 tag.
// An empty tag selects English.
func NewBundle(defaultLanguage string) (*i18n.Bundle, error) {
	tag := language.English
	if defaultLanguage != "" {
		parsed, err := language.Parse(defaultLanguage)
		if err != nil {
			return nil, naverr.New(naverr.KindConfiguration, "new_bundle", defaultLanguage, err)
		}
		tag = parsed
	}

	bundle := i18n.NewBundle(tag)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	bundle.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)
	bundle.RegisterUnmarshalFunc("yml", yaml.Unmarshal)
	return bundle, nil
}

// LoadFile reads a message file into bundle, decoding it from charset first.
func LoadFile(bundle *i18n.Bundle, path, charset string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return naverr.New(naverr.KindConfiguration, "load_messages", path, err)
	}
	return LoadBytes(bundle, path, raw, charset)
}

// LoadBytes parses message file contents. The path only determines the
// language and format.
func LoadBytes(bundle *i18n.Bundle, path string, raw []byte, charset string) error {
	data, err := Decode(raw, charset)
	if err != nil {
		return err
	}
	if _, err := bundle.ParseMessageFileBytes(data, path); err != nil {
		return naverr.New(naverr.KindConfiguration, "load_messages", path, err)
	}
	return nil
}

// Decode converts data from the named character set to UTF-8. Names follow the
// WHATWG encoding labels ("latin1", "windows-1252", "shift_jis", ...). An empty
// name or UTF-8 returns data unchanged.
func Decode(data []byte, charset string) ([]byte, error) {
	if isUTF8(charset) {
		return data, nil
	}
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return nil, naverr.New(naverr.KindConfiguration, "decode", charset, err)
	}
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return nil, naverr.New(naverr.KindConfiguration, "decode", charset, err)
	}
	return out, nil
}

func isUTF8(charset string) bool {
	switch strings.ToLower(strings.TrimSpace(charset)) {
	case "", "utf-8", "utf8":
		return true
	}
	return false
}

// Localize returns the message messageID in the first of languages the bundle
// can serve. It falls back to messageID itself when there is no bundle or no
// translation, so untranslated titles still read sensibly.
func Localize(bundle *i18n.Bundle, languages []string, messageID string) string {
	if bundle == nil || messageID == "" {
		return messageID
	}
	localizer := i18n.NewLocalizer(bundle, languages...)
	// go-i18n reports a fallback to the default language as an error but still
	// returns the message.
	msg, err := localizer.Localize(&i18n.LocalizeConfig{MessageID: messageID})
	if err != nil {
		internal.GetInternalLogger().Debug("Title not translated", "id", messageID, "languages", languages, "error", err)
	}
	if msg == "" {
		return messageID
	}
	return msg
}
