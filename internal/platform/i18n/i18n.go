package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

// BaseLocale is used whenever a requested locale has no catalog.
const BaseLocale = "en-US"

//go:embed locales/*.yaml
var embedded embed.FS

type catalogFile struct {
	Locale   string            `yaml:"locale"`
	Messages map[string]string `yaml:"messages"`
}

// Bundle holds every loaded locale registered into one x/text catalog.
type Bundle struct {
	builder *catalog.Builder
	tags    []language.Tag
	matcher language.Matcher
	locales map[string]map[string]string
}

var (
	defaultOnce   sync.Once
	defaultBundle *Bundle
)

// Default returns the embedded bundle. It panics if the embedded catalogs are broken.
func Default() *Bundle {
	defaultOnce.Do(func() {
		b, err := Load(embedded)
		if err != nil {
			panic(err)
		}
		defaultBundle = b
	})
	return defaultBundle
}

// Load reads locales/*.yaml from fsys.
func Load(fsys fs.FS) (*Bundle, error) {
	paths, err := fs.Glob(fsys, "locales/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locale catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no catalog files found")
	}
	sort.Strings(paths)

	b := &Bundle{
		builder: catalog.NewBuilder(catalog.Fallback(language.MustParse(BaseLocale))),
		locales: map[string]map[string]string{},
	}
	for _, path := range paths {
		raw, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", path, err)
		}
		var file catalogFile
		if err := yaml.Unmarshal(raw, &file); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", path, err)
		}
		if err := b.add(path, file); err != nil {
			return nil, err
		}
	}
	if _, ok := b.locales[BaseLocale]; !ok {
		return nil, fmt.Errorf("base locale %s is not defined in catalogs", BaseLocale)
	}
	// Base locale first so the matcher falls back to it.
	sort.SliceStable(b.tags, func(i, j int) bool { return b.tags[i].String() == BaseLocale })
	b.matcher = language.NewMatcher(b.tags)
	return b, nil
}

func (b *Bundle) add(path string, file catalogFile) error {
	locale := strings.TrimSpace(file.Locale)
	if locale == "" {
		return fmt.Errorf("catalog %s: locale is required", path)
	}
	if len(file.Messages) == 0 {
		return fmt.Errorf("catalog %s: messages are required", path)
	}
	if _, exists := b.locales[locale]; exists {
		return fmt.Errorf("catalog %s: locale %q defined twice", path, locale)
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return fmt.Errorf("catalog %s: parse locale %q: %w", path, locale, err)
	}
	messages := make(map[string]string, len(file.Messages))
	for key, value := range file.Messages {
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("catalog %s: message key cannot be blank", path)
		}
		if err := b.builder.SetString(tag, key, value); err != nil {
			return fmt.Errorf("catalog %s: register %q: %w", path, key, err)
		}
		messages[key] = value
	}
	b.locales[locale] = messages
	b.tags = append(b.tags, tag)
	return nil
}

// Locales returns the loaded locale identifiers, sorted.
func (b *Bundle) Locales() []string {
	out := make([]string, 0, len(b.locales))
	for locale := range b.locales {
		out = append(out, locale)
	}
	sort.Strings(out)
	return out
}

// Translator picks the closest loaded locale for the requested one.
func (b *Bundle) Translator(locale string) Translator {
	requested, err := language.Parse(strings.TrimSpace(locale))
	if err != nil {
		requested = language.MustParse(BaseLocale)
	}
	_, idx, _ := b.matcher.Match(requested)
	tag := b.tags[idx]
	layout := b.locales[tag.String()]["date.layout"]
	if layout == "" {
		layout = time.DateOnly
	}
	return Translator{
		locale:     tag.String(),
		printer:    message.NewPrinter(tag, message.Catalog(b.builder)),
		dateLayout: layout,
	}
}

// Translator formats catalog messages for one locale.
type Translator struct {
	locale     string
	printer    *message.Printer
	dateLayout string
}

func (t Translator) Locale() string { return t.locale }

// T formats the catalog message stored under key.
func (t Translator) T(key string, args ...any) string {
	if t.printer == nil {
		return key
	}
	return t.printer.Sprintf(key, args...)
}

// Minutes renders a study duration: "N 分鐘" below an hour, "H 小時 M 分鐘" above.
func (t Translator) Minutes(minutes float64) string {
	if minutes < 0 {
		minutes = 0
	}
	if minutes < 60 {
		return t.T("time.minutes", formatNumber(minutes))
	}
	hours := int(math.Floor(minutes / 60))
	rest := math.Mod(minutes, 60)
	if rest > 0 {
		return t.T("time.hours_minutes", hours, formatNumber(rest))
	}
	return t.T("time.hours", hours)
}

// Date renders a calendar date in the locale layout; the zero time reads as "never".
func (t Translator) Date(ts time.Time) string {
	if ts.IsZero() {
		return t.T("date.never")
	}
	return ts.Format(t.dateLayout)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
