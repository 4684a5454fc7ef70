package web

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Languages is the allow-list of request languages. Requests may name a
// language in English ("tamil") or by BCP 47 tag ("ta").
type Languages struct {
	names  []string
	lookup map[string]string
}

func NewLanguages(tags []string) (Languages, error) {
	if len(tags) == 0 {
		return Languages{}, fmt.Errorf("languages: empty allow-list")
	}

	namer := display.English.Languages()
	l := Languages{
		lookup: make(map[string]string, len(tags)*2),
	}

	for _, raw := range tags {
		tag, err := language.Parse(raw)
		if err != nil {
			return Languages{}, fmt.Errorf("languages[%s]: %w", raw, err)
		}

		name := namer.Name(tag)
		if name == "" {
			return Languages{}, fmt.Errorf("languages[%s]: no display name", raw)
		}

		if _, exists := l.lookup[strings.ToLower(name)]; exists {
			continue
		}

		l.names = append(l.names, name)
		l.lookup[strings.ToLower(name)] = name
		l.lookup[strings.ToLower(tag.String())] = name
	}

	return l, nil
}

// Normalize returns the display name for a requested language.
func (l Languages) Normalize(requested string) (string, bool) {
	name, ok := l.lookup[strings.ToLower(strings.TrimSpace(requested))]
	return name, ok
}

func (l Languages) Names() []string {
	return append([]string(nil), l.names...)
}

// Supported renders the list used in the invalid language message.
func (l Languages) Supported() string {
	return strings.Join(l.names, ", ")
}
