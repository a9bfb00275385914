// Package main - locale.go
//
// Localized user messages. Catalogs are gettext .po files embedded from
// locales/ and parsed with leonelquinteros/gotext. Messages are looked up by
// key (e.g. "PROGRAM_PAUSED"); a key missing in the active language falls
// back to English, and a key missing there is returned as is.
package main

import (
	"embed"
	"fmt"
	"sync"

	"github.com/leonelquinteros/gotext"
)

//go:embed locales/*.po
var localeFS embed.FS

const fallbackLanguage = "en"

var (
	catalogs   = map[string]*gotext.Po{}
	activeLang = fallbackLanguage
	localeMu   sync.RWMutex
)

// loadCatalog parses the embedded catalog for lang
func loadCatalog(lang string) (*gotext.Po, error) {
	localeMu.RLock()
	po, ok := catalogs[lang]
	localeMu.RUnlock()
	if ok {
		return po, nil
	}

	buf, err := localeFS.ReadFile("locales/" + lang + ".po")
	if err != nil {
		return nil, fmt.Errorf("no catalog for language %q", lang)
	}
	po = gotext.NewPo()
	po.Parse(buf)

	localeMu.Lock()
	catalogs[lang] = po
	localeMu.Unlock()
	return po, nil
}

// SetLanguage selects the catalog used by T
func SetLanguage(lang string) error {
	if _, err := loadCatalog(lang); err != nil {
		return err
	}
	localeMu.Lock()
	activeLang = lang
	localeMu.Unlock()
	return nil
}

// T resolves a message key in the active language and formats it with args
func T(key string, args ...interface{}) string {
	localeMu.RLock()
	lang := activeLang
	localeMu.RUnlock()

	for _, l := range []string{lang, fallbackLanguage} {
		po, err := loadCatalog(l)
		if err != nil {
			continue
		}
		if msg := po.Get(key); msg != key {
			if len(args) == 0 {
				return msg
			}
			return fmt.Sprintf(msg, args...)
		}
	}

	if len(args) == 0 {
		return key
	}
	return fmt.Sprint(append([]interface{}{key + ": "}, args...)...)
}
