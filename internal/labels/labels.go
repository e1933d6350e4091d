// Package labels provides localized text for the controls
// added to documentation pages.
package labels

import (
	"golang.org/x/text/language"
)

// Labels is the text of the controls added to a page.
type Labels struct {
	Copy       string // copy button
	Copied     string // copy button after a successful copy
	CopyFailed string // copy button after a failed copy
	CopyTitle  string // tooltip of the copy button
	CopyAria   string // accessible name of the copy button

	Print     string // print button
	PrintBusy string // print button while preparing the page

	Menu string // accessible name of the menu toggle
}

// Built-in catalogs.
var (
	English = Labels{
		Copy:       "📋 Copy",
		Copied:     "✅ Copied!",
		CopyFailed: "❌ Error",
		CopyTitle:  "Copy code to clipboard",
		CopyAria:   "Copy code",
		Print:      "🖨️ Print page",
		PrintBusy:  "⏳ Preparing to print...",
		Menu:       "Toggle navigation",
	}

	Russian = Labels{
		Copy:       "📋 Копировать",
		Copied:     "✅ Скопировано!",
		CopyFailed: "❌ Ошибка",
		CopyTitle:  "Скопировать код в буфер обмена",
		CopyAria:   "Скопировать код",
		Print:      "🖨️ Печать страницы",
		PrintBusy:  "⏳ Подготовка к печати...",
		Menu:       "Меню",
	}
)

var (
	_tags     = []language.Tag{language.English, language.Russian}
	_catalogs = []Labels{English, Russian}
	_matcher  = language.NewMatcher(_tags)
)

// Supported reports the languages with built-in catalogs.
func Supported() []language.Tag {
	return append([]language.Tag(nil), _tags...)
}

// Set picks labels for pages based on their language.
type Set struct {
	// Default is the language used for pages
	// that don't declare one, or declare one without a catalog.
	// Defaults to English.
	Default language.Tag
}

// For returns the labels for a page written in the given language,
// typically the lang attribute of its <html> element.
func (s *Set) For(lang string) Labels {
	if lang != "" {
		if tag, err := language.Parse(lang); err == nil {
			if _, idx, conf := _matcher.Match(tag); conf != language.No {
				return _catalogs[idx]
			}
		}
	}
	return s.fallback()
}

func (s *Set) fallback() Labels {
	def := s.Default
	if def == language.Und {
		def = language.English
	}
	if _, idx, conf := _matcher.Match(def); conf != language.No {
		return _catalogs[idx]
	}
	return English
}
