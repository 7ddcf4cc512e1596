// Package i18n translates UI strings for storekit's demos. A Translator is
// an explicit value handed to whoever renders text; nothing is looked up
// from ambient context.
package i18n

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

//go:embed catalogs/*.yaml
var catalogFS embed.FS

// supported lists the shipped locales. The first entry is the fallback.
var supported = []language.Tag{language.English, language.Spanish, language.German}

var loadCatalogs = sync.OnceValues(func() (map[language.Tag]map[string]string, error) {
	out := make(map[language.Tag]map[string]string, len(supported))
	for _, tag := range supported {
		name := path.Join("catalogs", tag.String()+".yaml")
		data, err := catalogFS.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", name, err)
		}
		msgs, err := parseCatalog(data)
		if err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", name, err)
		}
		out[tag] = msgs
	}
	return out, nil
})

// parseCatalog flattens nested YAML mappings into dotted keys.
func parseCatalog(data []byte) (map[string]string, error) {
	var root map[string]any
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	flat := make(map[string]string)
	if err := flatten("", root, flat); err != nil {
		return nil, err
	}
	return flat, nil
}

func flatten(prefix string, node map[string]any, out map[string]string) error {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case string:
			out[key] = val
		case map[string]any:
			if err := flatten(key, val, out); err != nil {
				return err
			}
		default:
			return fmt.Errorf("key %q: want string or mapping, got %T", key, v)
		}
	}
	return nil
}

// Translator renders catalog messages for one locale.
type Translator struct {
	tag      language.Tag
	msgs     map[string]string
	fallback map[string]string
	printer  *message.Printer
}

// New returns a Translator for the supported locale closest to locale.
// Unknown or malformed locales get English.
func New(locale string) *Translator {
	catalogs, err := loadCatalogs()
	if err != nil {
		// Catalogs are embedded at build time; TestCatalogsParse guards them.
		panic(err)
	}

	matcher := language.NewMatcher(supported)
	_, idx := language.MatchStrings(matcher, strings.TrimSpace(locale))
	tag := supported[idx]

	return &Translator{
		tag:      tag,
		msgs:     catalogs[tag],
		fallback: catalogs[supported[0]],
		printer:  message.NewPrinter(tag),
	}
}

// Tag returns the matched locale.
func (t *Translator) Tag() language.Tag { return t.tag }

// Locale returns the matched locale as a BCP 47 string.
func (t *Translator) Locale() string { return t.tag.String() }

// DisplayName returns the locale's name in its own language, e.g. "Deutsch".
func (t *Translator) DisplayName() string {
	return display.Self.Name(t.tag)
}

// T formats the message stored under key. Missing keys fall back to the
// English catalog, then to the key itself. Numeric arguments are printed
// with the locale's digit grouping.
func (t *Translator) T(key string, args ...any) string {
	format, ok := t.msgs[key]
	if !ok {
		format, ok = t.fallback[key]
	}
	if !ok {
		return key
	}
	if len(args) == 0 {
		return format
	}
	return t.printer.Sprintf(format, args...)
}

// Number formats n with locale grouping separators.
func (t *Translator) Number(n int) string {
	return t.printer.Sprintf("%d", n)
}

// Locales lists the supported locales, fallback first.
func Locales() []string {
	out := make([]string, len(supported))
	for i, tag := range supported {
		out[i] = tag.String()
	}
	return out
}

// Next returns the supported locale after current, wrapping around. It
// drives the "next language" key in settings.
func Next(current string) string {
	locales := Locales()
	cur := New(current).Locale()
	for i, l := range locales {
		if l == cur {
			return locales[(i+1)%len(locales)]
		}
	}
	return locales[0]
}

// Keys returns the sorted keys of the fallback catalog.
func Keys() []string {
	catalogs, err := loadCatalogs()
	if err != nil {
		return nil
	}
	fallback := catalogs[supported[0]]
	keys := make([]string, 0, len(fallback))
	for k := range fallback {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
