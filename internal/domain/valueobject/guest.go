package valueobject

import "strings"

// Guest 访客值对象（不可变）
type Guest struct {
	name     string
	language string
}

// NewGuest builds a guest profile, filling blanks with the given defaults.
func NewGuest(name, language, defaultName, defaultLanguage string) Guest {
	name = strings.TrimSpace(name)
	if name == "" {
		name = defaultName
	}
	language = strings.ToLower(strings.TrimSpace(language))
	if language == "" {
		language = defaultLanguage
	}
	return Guest{name: name, language: language}
}

// Name 返回访客名称
func (g Guest) Name() string {
	return g.name
}

// Language returns the preferred language code.
func (g Guest) Language() string {
	return g.language
}

// Equals 值对象相等性比较
func (g Guest) Equals(other Guest) bool {
	return g == other
}
