// Package i18n resolves the zh/en field pairs stored on every display string.
package i18n

import (
	"strings"

	"github.com/gin-gonic/gin"
)

type Lang string

const (
	LangZh Lang = "zh"
	LangEn Lang = "en"

	// CookieName remembers the visitor's language choice.
	CookieName = "lang"
)

// ParseLang maps anything that is not English to Chinese.
func ParseLang(s string) Lang {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "en" || strings.HasPrefix(s, "en-") || strings.HasPrefix(s, "en_") {
		return LangEn
	}
	return LangZh
}

// FromRequest reads ?lang= first, then the lang cookie.
func FromRequest(c *gin.Context) Lang {
	if q := c.Query("lang"); q != "" {
		return ParseLang(q)
	}
	if v, err := c.Cookie(CookieName); err == nil && v != "" {
		return ParseLang(v)
	}
	return LangZh
}

// Pick returns zh in zh mode; in en mode it returns en unless en is blank.
func Pick(lang Lang, zh, en string) string {
	if lang == LangEn && strings.TrimSpace(en) != "" {
		return en
	}
	return zh
}

// Lines splits a newline-delimited text block, trimming and dropping blank lines.
func Lines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(raw))
	for _, line := range raw {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// Other returns the language a switcher link should offer.
func (l Lang) Other() Lang {
	if l == LangEn {
		return LangZh
	}
	return LangEn
}

func (l Lang) String() string {
	return string(l)
}
