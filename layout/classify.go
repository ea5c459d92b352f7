package layout

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/width"

	"github.com/tsawler/pagemd/model"
)

// HeadingConfig holds the heading candidacy and demotion thresholds
type HeadingConfig struct {
	// Tolerance lowers every size threshold, so a size qualifies for a tier
	// when size >= threshold - Tolerance
	// Default: 0.5
	Tolerance float64

	// MaxLength is the rune length above which a candidate is demoted,
	// unless it is a numbered heading
	// Default: 80
	MaxLength int

	// SubheadingMargin is the minimum size above body a non-bold level 2 or
	// level 3 candidate needs to keep its heading status
	// Default: 2.0
	SubheadingMargin float64

	// Terminators are the sentence-ending runes that demote a candidate
	// Default: ".。!！?？"
	Terminators string

	// NumberedPattern matches numbered headings ("1.", "2.3", "第三章",
	// "四、"), which are exempt from the length and terminator demotions.
	// It is matched against width-folded text.
	NumberedPattern *regexp.Regexp
}

// DefaultHeadingConfig returns sensible default configuration
func DefaultHeadingConfig() HeadingConfig {
	return HeadingConfig{
		Tolerance:        0.5,
		MaxLength:        80,
		SubheadingMargin: 2.0,
		Terminators:      ".。!！?？",
		NumberedPattern:  regexp.MustCompile(`^(第\s*)?([0-9]+|[一二三四五六七八九十百千零〇]+)\s*[.、章节]`),
	}
}

// CodeConfig holds configuration for code line detection
type CodeConfig struct {
	// MonospaceFonts are font family fragments that mark a span as code.
	// Matching is case-insensitive and ignores spaces, hyphens and
	// underscores, so "Courier" matches "ABCDEF+CourierNew-Bold".
	MonospaceFonts []string
}

// DefaultCodeConfig returns sensible default configuration
func DefaultCodeConfig() CodeConfig {
	return CodeConfig{
		MonospaceFonts: []string{
			"courier", "consolas", "menlo", "monaco", "inconsolata",
			"sourcecodepro", "firacode", "firamono", "dejavusansmono",
			"liberationmono", "lucidaconsole", "lucidasanstypewriter",
			"andalemono", "ubuntumono", "robotomono", "jetbrainsmono",
			"sfmono", "cascadiacode", "cascadiamono", "notosansmono",
			"ibmplexmono", "ptmono", "cmtt", "lmmono",
		},
	}
}

var (
	bulletPattern  = regexp.MustCompile(`^(?:[•●○◦▪▸►]\s*|[-–—*]\s+)`)
	orderedPattern = regexp.MustCompile(`^(\d+)[.、)]\s*`)
)

// LineInfo is the per-line view the classification rules read
type LineInfo struct {
	Line model.Line

	// Text is the trimmed line text
	Text string

	// Folded is Text with full-width forms folded to their ASCII
	// counterparts, rune for rune
	Folded string

	// Size is the largest non-blank span size
	Size float64

	// Style is the OR of the non-blank span styles
	Style model.Style

	// Monospace is true when any non-blank span uses a monospace font
	Monospace bool
}

// Decision is the classification accumulated while the rules run
type Decision struct {
	Kind  model.ElementKind
	Level int

	// ListPrefix is the normalized list marker, "- " or "N. "
	ListPrefix string

	// MarkerRunes is how many runes of LineInfo.Text the list marker spans
	MarkerRunes int
}

// Rule is one entry of the classification table. Rules run in table order
// and each may amend the decision left by the rules before it.
type Rule struct {
	Name  string
	Apply func(info *LineInfo, d *Decision)
}

// LineClassifier tags lines as heading, list item, code or paragraph text
// using a document's SizeMap.
type LineClassifier struct {
	sizes   SizeMap
	heading HeadingConfig
	mono    []string
	rules   []Rule
}

// NewLineClassifier creates a classifier with default configuration
func NewLineClassifier(sizes SizeMap) *LineClassifier {
	return NewLineClassifierWithConfig(sizes, DefaultHeadingConfig(), DefaultCodeConfig())
}

// NewLineClassifierWithConfig creates a classifier with custom configuration
func NewLineClassifierWithConfig(sizes SizeMap, heading HeadingConfig, code CodeConfig) *LineClassifier {
	c := &LineClassifier{
		sizes:   sizes,
		heading: heading,
	}
	for _, f := range code.MonospaceFonts {
		if f = normalizeFontName(f); f != "" {
			c.mono = append(c.mono, f)
		}
	}
	c.rules = []Rule{
		{Name: "heading-candidacy", Apply: c.headingCandidacy},
		{Name: "demote-long", Apply: c.demoteLong},
		{Name: "demote-sentence", Apply: c.demoteSentence},
		{Name: "demote-weak-subheading", Apply: c.demoteWeakSubheading},
		{Name: "code", Apply: c.detectCode},
		{Name: "list", Apply: c.detectList},
	}
	return c
}

// Rules returns the classification table in evaluation order
func (c *LineClassifier) Rules() []Rule {
	return append([]Rule(nil), c.rules...)
}

// Inspect builds the rule input for a line
func (c *LineClassifier) Inspect(line model.Line) LineInfo {
	text := strings.TrimSpace(line.Text())
	return LineInfo{
		Line:      line,
		Text:      text,
		Folded:    foldWidth(text),
		Size:      line.MaxSize(),
		Style:     line.Style(),
		Monospace: c.isMonospace(line),
	}
}

// Decide runs every rule over the line and returns the final decision
func (c *LineClassifier) Decide(info *LineInfo) Decision {
	d := Decision{Kind: model.ElementParagraph}
	for _, r := range c.rules {
		r.Apply(info, &d)
	}
	return d
}

// Classify turns a line into a page element. Lines without visible text
// are dropped and reported with false.
func (c *LineClassifier) Classify(line model.Line) (model.PageElement, bool) {
	if !line.HasText() {
		return model.PageElement{}, false
	}

	info := c.Inspect(line)
	d := c.Decide(&info)

	elem := model.PageElement{
		Kind:  d.Kind,
		Level: d.Level,
		Y:     line.BBox.Y0,
	}

	switch d.Kind {
	case model.ElementHeading:
		elem.Content = collapseSpace(info.Text)
	case model.ElementCode:
		elem.Content = strings.TrimRightFunc(line.Text(), unicode.IsSpace)
	case model.ElementListItem:
		rest := dropLeadingRunes(line.Spans, leadingSpaceRunes(line.Text())+d.MarkerRunes)
		elem.Content = d.ListPrefix + FormatSpans(rest)
	default:
		elem.Content = FormatSpans(line.Spans)
	}

	if elem.Content == "" {
		return model.PageElement{}, false
	}
	return elem, true
}

// headingCandidacy assigns the raw level from the SizeMap
func (c *LineClassifier) headingCandidacy(info *LineInfo, d *Decision) {
	if level := c.sizes.Level(info.Size, c.heading.Tolerance); level > 0 {
		d.Kind = model.ElementHeading
		d.Level = level
	}
}

// demoteLong demotes candidates that read like body text by length
func (c *LineClassifier) demoteLong(info *LineInfo, d *Decision) {
	if d.Level == 0 || c.isNumbered(info) {
		return
	}
	if utf8.RuneCountInString(info.Text) > c.heading.MaxLength {
		demote(d)
	}
}

// demoteSentence demotes candidates ending in sentence punctuation
func (c *LineClassifier) demoteSentence(info *LineInfo, d *Decision) {
	if d.Level == 0 || c.isNumbered(info) {
		return
	}
	if endsWithAny(info.Text, c.heading.Terminators) {
		demote(d)
	}
}

// demoteWeakSubheading demotes non-bold level 2 and 3 candidates that are
// barely larger than body text
func (c *LineClassifier) demoteWeakSubheading(info *LineInfo, d *Decision) {
	if d.Level < 2 || info.Style.Bold {
		return
	}
	if info.Size < c.sizes.Body()+c.heading.SubheadingMargin {
		demote(d)
	}
}

// detectCode tags monospace lines as code, overriding any heading level
func (c *LineClassifier) detectCode(info *LineInfo, d *Decision) {
	if info.Monospace {
		d.Kind = model.ElementCode
		d.Level = 0
	}
}

// detectList recognizes bullet and ordered markers on paragraph lines
func (c *LineClassifier) detectList(info *LineInfo, d *Decision) {
	if d.Kind != model.ElementParagraph {
		return
	}

	if loc := bulletPattern.FindStringIndex(info.Folded); loc != nil {
		d.Kind = model.ElementListItem
		d.ListPrefix = "- "
		d.MarkerRunes = utf8.RuneCountInString(info.Folded[:loc[1]])
		return
	}

	m := orderedPattern.FindStringSubmatchIndex(info.Folded)
	if m == nil {
		return
	}
	// "3.14" is a number, not an item
	if r, _ := utf8.DecodeRuneInString(info.Folded[m[1]:]); r >= '0' && r <= '9' {
		return
	}
	d.Kind = model.ElementListItem
	d.ListPrefix = info.Folded[m[2]:m[3]] + ". "
	d.MarkerRunes = utf8.RuneCountInString(info.Folded[:m[1]])
}

func (c *LineClassifier) isNumbered(info *LineInfo) bool {
	return c.heading.NumberedPattern != nil && c.heading.NumberedPattern.MatchString(info.Folded)
}

func (c *LineClassifier) isMonospace(line model.Line) bool {
	for _, s := range line.Spans {
		if s.IsBlank() || s.Font == "" {
			continue
		}
		name := normalizeFontName(s.Font)
		for _, m := range c.mono {
			if strings.Contains(name, m) {
				return true
			}
		}
	}
	return false
}

func demote(d *Decision) {
	d.Kind = model.ElementParagraph
	d.Level = 0
}

// FormatSpans renders spans with Markdown emphasis. Adjacent spans of the
// same style share one pair of markers; whitespace-only spans join the run
// around them and never open one.
func FormatSpans(spans []model.Span) string {
	type run struct {
		style   model.Style
		hasText bool
		text    strings.Builder
	}

	var runs []*run
	for _, s := range spans {
		if s.Text == "" {
			continue
		}
		var cur *run
		if len(runs) > 0 {
			cur = runs[len(runs)-1]
		}
		switch {
		case s.IsBlank():
			if cur == nil {
				cur = &run{}
				runs = append(runs, cur)
			}
		case cur != nil && (!cur.hasText || cur.style == s.Style):
			cur.style = s.Style
			cur.hasText = true
		default:
			cur = &run{style: s.Style, hasText: true}
			runs = append(runs, cur)
		}
		cur.text.WriteString(s.Text)
	}

	var sb strings.Builder
	for _, r := range runs {
		text := r.text.String()
		core := strings.TrimSpace(text)
		marker := emphasisMarker(r.style)
		if core == "" || marker == "" {
			sb.WriteString(text)
			continue
		}
		start := strings.Index(text, core)
		sb.WriteString(text[:start])
		sb.WriteString(marker)
		sb.WriteString(core)
		sb.WriteString(marker)
		sb.WriteString(text[start+len(core):])
	}
	return strings.TrimSpace(sb.String())
}

func emphasisMarker(st model.Style) string {
	switch {
	case st.Bold && st.Italic:
		return "***"
	case st.Bold:
		return "**"
	case st.Italic:
		return "*"
	}
	return ""
}

// collapseSpace joins the fields of s with single spaces. Heading text is
// taken from the raw spans, so asterisks in it belong to the source.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// foldWidth maps full-width runes to their narrow forms one rune at a time,
// so rune offsets in the result match the input
func foldWidth(s string) string {
	return strings.Map(func(r rune) rune {
		p := width.LookupRune(r)
		if p.Kind() == width.EastAsianFullwidth {
			if n := p.Narrow(); n != 0 {
				return n
			}
		}
		return r
	}, s)
}

func endsWithAny(s, runes string) bool {
	r, size := utf8.DecodeLastRuneInString(s)
	if size == 0 {
		return false
	}
	return strings.ContainsRune(runes, r)
}

func leadingSpaceRunes(s string) int {
	n := 0
	for _, r := range s {
		if !unicode.IsSpace(r) {
			break
		}
		n++
	}
	return n
}

// dropLeadingRunes removes the first n runes from a span sequence
func dropLeadingRunes(spans []model.Span, n int) []model.Span {
	out := make([]model.Span, 0, len(spans))
	for _, s := range spans {
		if n > 0 {
			count := utf8.RuneCountInString(s.Text)
			if count <= n {
				n -= count
				continue
			}
			s.Text = string([]rune(s.Text)[n:])
			n = 0
		}
		out = append(out, s)
	}
	return out
}

func normalizeFontName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '_':
			return -1
		}
		return unicode.ToLower(r)
	}, name)
}
