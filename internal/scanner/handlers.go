package scanner

import (
	"context"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"

	"langscan/internal/collector"
	"langscan/internal/dbscan"
	"langscan/internal/lexer"
	"langscan/internal/matcher"
)

// dbHandler reads the configured table columns.
type dbHandler struct {
	reader *dbscan.Reader
}

func (h *dbHandler) name() string  { return "db" }
func (h *dbHandler) title() string { return "DatabaseTable" }

func (h *dbHandler) run(ctx context.Context, s *Scanner) error {
	items, err := h.reader.Read(ctx)
	if err != nil {
		return err
	}
	s.record(h.name(), items)
	return nil
}

// functionHandler finds translator calls such as Yii::t('app', 'Save') in
// files matching pattern.
type functionHandler struct {
	id       string
	heading  string
	pattern  string
	mode     lexer.Mode
	filter   *regexp.Regexp
	matchers []*matcher.Matcher
}

func newJavaScriptHandler(markers []string, category string) (*functionHandler, error) {
	return newFunctionHandler("js", "JavaScriptFunction", "*.js", lexer.Code,
		markers, matcher.SingleLiteral, matcher.Context{Category: category})
}

func newPHPFunctionHandler(markers []string, ignored map[string]struct{}) (*functionHandler, error) {
	return newFunctionHandler("php-function", "PhpFunction", "*.php", lexer.HTML,
		markers, matcher.PositionalPair, matcher.Context{Ignored: ignored})
}

func newFunctionHandler(id, heading, pattern string, mode lexer.Mode, markers []string, policy matcher.Policy, mctx matcher.Context) (*functionHandler, error) {
	h := &functionHandler{
		id:      id,
		heading: heading,
		pattern: pattern,
		mode:    mode,
	}
	for _, marker := range markers {
		m, err := matcher.New(marker, "(", ")", policy, mctx)
		if err != nil {
			return nil, err
		}
		h.matchers = append(h.matchers, m)
		log.Debug().Str("handler", id).Stringer("pattern", m.Pattern).Stringer("policy", m.Policy).Msg("Translator pattern")
	}
	if len(h.matchers) > 0 {
		h.filter = translatorFilter(markers)
	}
	return h, nil
}

func (h *functionHandler) name() string  { return h.id }
func (h *functionHandler) title() string { return h.heading }

func (h *functionHandler) run(ctx context.Context, s *Scanner) error {
	if len(h.matchers) == 0 {
		return nil
	}
	return s.scanFiles(ctx, h, h.pattern, func(src string) fileResult {
		if !containsTranslator(h.filter, src) {
			return fileResult{}
		}
		tokens := lexer.Lex(src, h.mode)
		var items []collector.LanguageItem
		for _, m := range h.matchers {
			items = append(items, m.Match(tokens)...)
		}
		return fileResult{candidate: true, items: items}
	})
}

// translatorFilter matches any marker followed by an opening parenthesis,
// ignoring case.
func translatorFilter(markers []string) *regexp.Regexp {
	alts := make([]string, len(markers))
	for i, m := range markers {
		alts[i] = regexp.QuoteMeta(m) + `\s*\(`
	}
	return regexp.MustCompile(`(?i)(?:` + strings.Join(alts, "|") + `)`)
}

// containsTranslator is a cheap textual check run before tokenizing.
func containsTranslator(filter *regexp.Regexp, src string) bool {
	return filter.MatchString(src)
}

// arrayHandler reads arrays assigned right after an @translate annotation:
//
//	/** @translate */
//	public static $_GENDERS = ['Male', 'Female'];
type arrayHandler struct {
	category string
	ignored  map[string]struct{}
}

func (h *arrayHandler) name() string  { return "php-array" }
func (h *arrayHandler) title() string { return "PhpArray" }

func (h *arrayHandler) run(ctx context.Context, s *Scanner) error {
	return s.scanFiles(ctx, h, "*.php", func(src string) fileResult {
		markers := discoverArrayMarkers(src)
		if len(markers) == 0 {
			return fileResult{}
		}

		tokens := lexer.Lex(src, lexer.HTML)
		var items []collector.LanguageItem
		for _, am := range markers {
			category := am.category
			if category == "" {
				category = h.category
			}
			m, err := matcher.New(am.marker, am.begin(), ";", matcher.LiteralArray,
				matcher.Context{Category: category, Ignored: h.ignored})
			if err != nil {
				log.Debug().Err(err).Str("marker", am.marker).Msg("Skipping array marker")
				continue
			}
			items = append(items, m.Match(tokens)...)
		}
		return fileResult{candidate: true, items: items}
	})
}

// arrayAnnotation finds "@translate [category]" followed by the first
// "$name =" or "$name = array" assignment opening an array.
var arrayAnnotation = regexp.MustCompile(`@translate(?:[ \t]+([\w.-]+))?[^$]*?(\$[A-Za-z_]\w*\s*=\s*(?:array\b\s*)?)[\[(]`)

type arrayMarker struct {
	marker   string
	category string
}

// begin is the delimiter opening the array literal.
func (m arrayMarker) begin() string {
	if strings.HasSuffix(strings.ToLower(strings.TrimSpace(m.marker)), "array") {
		return "("
	}
	return "["
}

// discoverArrayMarkers returns the distinct annotated assignments of src in
// order of appearance.
func discoverArrayMarkers(src string) []arrayMarker {
	var markers []arrayMarker
	seen := make(map[arrayMarker]struct{})
	for _, sub := range arrayAnnotation.FindAllStringSubmatch(src, -1) {
		am := arrayMarker{marker: sub[2], category: sub[1]}
		if _, ok := seen[am]; ok {
			continue
		}
		seen[am] = struct{}{}
		markers = append(markers, am)
	}
	return markers
}
