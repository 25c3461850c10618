package gamedata

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// BaseLocale is the locale every other locale falls back to.
const BaseLocale = "en-US"

// Well-known text namespaces.
const (
	NamespaceGame     = "game"
	NamespaceRooms    = "rooms"
	NamespaceEntities = "entities"
	NamespaceItems    = "items"
	NamespaceHints    = "hints"
	NamespaceMessages = "messages"
)

// TextResolver looks up localized text. A miss is reported as a
// *ContentReferenceError.
type TextResolver interface {
	Resolve(namespace, key string) (string, error)
}

// MissingText is the visible placeholder shown in place of missing text.
func MissingText(namespace, key string) string {
	return fmt.Sprintf("[Missing text: %s.%s]", namespace, key)
}

// Text resolves a key, substituting the MissingText placeholder on a miss.
func Text(r TextResolver, namespace, key string) string {
	value, err := r.Resolve(namespace, key)
	if err != nil {
		return MissingText(namespace, key)
	}
	return value
}

type catalogFile struct {
	Locale    string            `yaml:"locale"`
	Namespace string            `yaml:"namespace"`
	Messages  map[string]string `yaml:"messages"`
}

// table maps namespace -> key -> text.
type table map[string]map[string]string

// Bundle holds the text tables of every loaded locale.
type Bundle struct {
	locales map[string]table
	tags    []language.Tag
	names   []string
}

// LoadBundle loads the catalogs embedded in this package.
func LoadBundle() (*Bundle, error) {
	return LoadBundleFS(dataFS)
}

// LoadBundleFS loads catalogs laid out as locales/<locale>/<namespace>.yaml.
func LoadBundleFS(fsys fs.FS) (*Bundle, error) {
	paths, err := fs.Glob(fsys, "locales/*/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locale catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no catalog files found")
	}
	sort.Strings(paths)

	b := &Bundle{locales: map[string]table{}}
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", p, err)
		}
		var file catalogFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", p, err)
		}
		if err := b.add(p, file); err != nil {
			return nil, err
		}
	}

	if _, ok := b.locales[BaseLocale]; !ok {
		return nil, fmt.Errorf("base locale %s is not defined in catalogs", BaseLocale)
	}

	// The base locale goes first so the matcher falls back to it.
	b.names = append(b.names, BaseLocale)
	for locale := range b.locales {
		if locale != BaseLocale {
			b.names = append(b.names, locale)
		}
	}
	sort.Strings(b.names[1:])
	for _, name := range b.names {
		tag, err := language.Parse(name)
		if err != nil {
			return nil, fmt.Errorf("parse locale tag %q: %w", name, err)
		}
		b.tags = append(b.tags, tag)
	}
	return b, nil
}

// MustLoadBundle loads the embedded catalogs, panicking on error.
func MustLoadBundle() *Bundle {
	b, err := LoadBundle()
	if err != nil {
		panic(err)
	}
	return b
}

func (b *Bundle) add(p string, file catalogFile) error {
	localeFromPath := path.Base(path.Dir(p))
	namespaceFromPath := strings.TrimSuffix(path.Base(p), path.Ext(p))

	locale := strings.TrimSpace(file.Locale)
	if locale != localeFromPath {
		return fmt.Errorf("catalog %s: locale %q must match path locale %q", p, locale, localeFromPath)
	}
	namespace := strings.TrimSpace(file.Namespace)
	if namespace != namespaceFromPath {
		return fmt.Errorf("catalog %s: namespace %q must match filename %q", p, namespace, namespaceFromPath)
	}
	if file.Messages == nil {
		return fmt.Errorf("catalog %s: messages map is required", p)
	}

	t, ok := b.locales[locale]
	if !ok {
		t = table{}
		b.locales[locale] = t
	}
	if _, exists := t[namespace]; exists {
		return fmt.Errorf("catalog %s: namespace %q already defined for %s", p, namespace, locale)
	}
	messages := make(map[string]string, len(file.Messages))
	for key, value := range file.Messages {
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("catalog %s: message key cannot be blank", p)
		}
		messages[key] = value
	}
	t[namespace] = messages
	return nil
}

// Locales returns the loaded locale names, base locale first.
func (b *Bundle) Locales() []string {
	return append([]string(nil), b.names...)
}

// Catalog returns the catalog best matching the requested locale. Unknown or
// unparsable locales get the base locale.
func (b *Bundle) Catalog(locale string) *Catalog {
	chosen := BaseLocale
	if tag, err := language.Parse(locale); err == nil {
		_, index, confidence := language.NewMatcher(b.tags).Match(tag)
		if confidence != language.No {
			chosen = b.names[index]
		}
	}
	c := &Catalog{locale: chosen, primary: b.locales[chosen]}
	if chosen != BaseLocale {
		c.fallback = b.locales[BaseLocale]
	}
	return c
}

// Catalog resolves text for one locale with base-locale fallback. It is
// immutable once built.
type Catalog struct {
	locale   string
	primary  table
	fallback table
}

// NewCatalog builds a single-locale catalog from a namespace -> key -> text
// table. Intended for tests and tooling.
func NewCatalog(texts map[string]map[string]string) *Catalog {
	t := make(table, len(texts))
	for ns, messages := range texts {
		copied := make(map[string]string, len(messages))
		for k, v := range messages {
			copied[k] = v
		}
		t[ns] = copied
	}
	return &Catalog{locale: BaseLocale, primary: t}
}

// Locale returns the catalog's locale name.
func (c *Catalog) Locale() string {
	return c.locale
}

// Resolve returns the text stored under namespace and key.
func (c *Catalog) Resolve(namespace, key string) (string, error) {
	if value, ok := c.primary[namespace][key]; ok {
		return value, nil
	}
	if value, ok := c.fallback[namespace][key]; ok {
		return value, nil
	}
	return "", NewContentReferenceError(RefText, namespace+"."+key)
}

// Has reports whether the key resolves.
func (c *Catalog) Has(namespace, key string) bool {
	_, err := c.Resolve(namespace, key)
	return err == nil
}

// Text resolves a key, substituting a visible placeholder on a miss.
func (c *Catalog) Text(namespace, key string) string {
	return Text(c, namespace, key)
}
