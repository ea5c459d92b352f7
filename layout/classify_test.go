package layout

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/tsawler/pagemd/model"
)

func TestLineClassifier_RuleOrder(t *testing.T) {
	c := NewLineClassifier(DefaultSizeMap())

	want := []string{
		"heading-candidacy", "demote-long", "demote-sentence",
		"demote-weak-subheading", "code", "list",
	}
	rules := c.Rules()
	if len(rules) != len(want) {
		t.Fatalf("expected %d rules, got %d", len(want), len(rules))
	}
	for i, name := range want {
		if rules[i].Name != name {
			t.Errorf("rule %d = %q, want %q", i, rules[i].Name, name)
		}
	}
}

func TestLineClassifier_Classify(t *testing.T) {
	c := NewLineClassifier(NewSizeMap(12, 24, 18, 14))
	bold := model.Style{Bold: true}

	tests := []struct {
		name    string
		line    model.Line
		kind    model.ElementKind
		level   int
		content string
	}{
		{"h1", makeLine("Title", 24), model.ElementHeading, 1, "Title"},
		{"h1 within tolerance", makeLine("Title", 23.5), model.ElementHeading, 1, "Title"},
		{"h2", makeLine("Section", 18), model.ElementHeading, 2, "Section"},
		{"h3 bold", makeStyledLine("Minor", 13.6, "Helvetica-Bold", bold), model.ElementHeading, 3, "Minor"},
		{"h3 weak demoted", makeLine("Minor", 13.6), model.ElementParagraph, 0, "Minor"},
		{"sentence demoted", makeLine("This is a sentence.", 24), model.ElementParagraph, 0, "This is a sentence."},
		{"question demoted", makeLine("Why？", 24), model.ElementParagraph, 0, "Why？"},
		{"numbered keeps heading", makeLine("1. Introduction.", 24), model.ElementHeading, 1, "1. Introduction."},
		{"cjk chapter keeps heading", makeLine("第三章 总结。", 24), model.ElementHeading, 1, "第三章 总结。"},
		{"long demoted", makeLine(strings.Repeat("word ", 20), 24), model.ElementParagraph, 0, strings.TrimSpace(strings.Repeat("word ", 20))},
		{"heading spaces collapsed", makeLine("  Bold   Title ", 24), model.ElementHeading, 1, "Bold Title"},
		{"source asterisks kept", makeLine("5*3*2 Grid", 24), model.ElementHeading, 1, "5*3*2 Grid"},
		{"bold heading unmarked", makeStyledLine("Overview", 24, "Helvetica-Bold", bold), model.ElementHeading, 1, "Overview"},
		{"monospace beats heading", makeStyledLine("func main() {", 24, "Courier", model.Style{}), model.ElementCode, 0, "func main() {"},
		{"bullet", makeLine("• Item one", 12), model.ElementListItem, 0, "- Item one"},
		{"bullet without space", makeLine("▪Item", 12), model.ElementListItem, 0, "- Item"},
		{"dash", makeLine("- dash item", 12), model.ElementListItem, 0, "- dash item"},
		{"em dash", makeLine("— aside", 12), model.ElementListItem, 0, "- aside"},
		{"star needs space", makeLine("*not a list", 12), model.ElementParagraph, 0, "*not a list"},
		{"ordered", makeLine("1) first", 12), model.ElementListItem, 0, "1. first"},
		{"ordered cjk comma", makeLine("3、第三项", 12), model.ElementListItem, 0, "3. 第三项"},
		{"ordered full width", makeLine("２．項目", 12), model.ElementListItem, 0, "2. 項目"},
		{"decimal is not a list", makeLine("3.14 is pi", 12), model.ElementParagraph, 0, "3.14 is pi"},
		{"plain", makeLine("Just text", 12), model.ElementParagraph, 0, "Just text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := c.Classify(tt.line)
			if !ok {
				t.Fatal("Classify() dropped the line")
			}
			if got.Kind != tt.kind || got.Level != tt.level {
				t.Errorf("Classify() = %v level %d, want %v level %d", got.Kind, got.Level, tt.kind, tt.level)
			}
			if got.Content != tt.content {
				t.Errorf("Content = %q, want %q", got.Content, tt.content)
			}
		})
	}
}

func TestLineClassifier_DropsBlankLines(t *testing.T) {
	c := NewLineClassifier(DefaultSizeMap())

	for _, line := range []model.Line{
		{},
		{Spans: []model.Span{{Text: "   ", Size: 30}}},
		{Spans: []model.Span{{Text: "", Size: 12}, {Text: "\t", Size: 12}}},
	} {
		if _, ok := c.Classify(line); ok {
			t.Errorf("Classify(%+v) kept a blank line", line)
		}
	}
}

func TestLineClassifier_BlankSpanDoesNotPromote(t *testing.T) {
	c := NewLineClassifier(NewSizeMap(12, 24))

	line := model.Line{Spans: []model.Span{
		{Text: "body", Size: 12},
		{Text: " ", Size: 30},
		{Text: "text", Size: 12},
	}}
	got, _ := c.Classify(line)
	if got.Kind != model.ElementParagraph || got.Content != "body text" {
		t.Errorf("Classify() = %+v, want paragraph %q", got, "body text")
	}
}

// A line at h1 size is a level 1 heading unless a demotion rule applies
func TestLineClassifier_H1OnlyDemotedByRules(t *testing.T) {
	sizes := NewSizeMap(12, 24, 18, 14)
	c := NewLineClassifier(sizes)
	cfg := DefaultHeadingConfig()

	texts := []string{
		"Overview",
		"Results and Discussion",
		"A very short one.",
		"2. Methods",
		"Is this a question?",
		strings.Repeat("long heading text ", 6),
		"Ends with colon:",
		"数据来源",
	}

	for _, text := range texts {
		for _, size := range []float64{23.5, 24, 30} {
			got, ok := c.Classify(makeLine(text, size))
			if !ok {
				t.Fatalf("Classify(%q) dropped the line", text)
			}
			if got.Kind == model.ElementHeading {
				if got.Level != 1 {
					t.Errorf("Classify(%q @ %v) level = %d, want 1", text, size, got.Level)
				}
				continue
			}
			trimmed := strings.TrimSpace(text)
			long := utf8.RuneCountInString(trimmed) > cfg.MaxLength
			sentence := endsWithAny(trimmed, cfg.Terminators)
			if got.Kind != model.ElementParagraph || !(long || sentence) {
				t.Errorf("Classify(%q @ %v) = %v, want level 1 heading", text, size, got.Kind)
			}
		}
	}
}

func TestLineClassifier_Monospace(t *testing.T) {
	c := NewLineClassifier(DefaultSizeMap())

	tests := []struct {
		font string
		want bool
	}{
		{"Courier", true},
		{"ABCDEF+CourierNew-Bold", true},
		{"Source Code Pro", true},
		{"DejaVuSansMono", true},
		{"CMTT10", true},
		{"Helvetica", false},
		{"Times-Roman", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.font, func(t *testing.T) {
			line := makeStyledLine("x := 1", 10, tt.font, model.Style{})
			if got := c.Inspect(line).Monospace; got != tt.want {
				t.Errorf("Monospace for %q = %v, want %v", tt.font, got, tt.want)
			}
		})
	}
}

func TestLineClassifier_CodeKeepsIndentation(t *testing.T) {
	c := NewLineClassifier(DefaultSizeMap())
	line := makeStyledLine("    return nil  ", 10, "Menlo", model.Style{})

	got, _ := c.Classify(line)
	if got.Kind != model.ElementCode || got.Content != "    return nil" {
		t.Errorf("Classify() = %v %q, want code %q", got.Kind, got.Content, "    return nil")
	}
}

func TestLineClassifier_ListKeepsEmphasis(t *testing.T) {
	c := NewLineClassifier(DefaultSizeMap())
	line := model.Line{Spans: []model.Span{
		{Text: "• ", Size: 12},
		{Text: "Key", Size: 12, Style: model.Style{Bold: true}},
		{Text: " value", Size: 12},
	}}

	got, _ := c.Classify(line)
	if got.Content != "- **Key** value" {
		t.Errorf("Content = %q, want %q", got.Content, "- **Key** value")
	}
}

// ============================================================================
// Rule Tests
// ============================================================================

func TestRule_DemoteWeakSubheading(t *testing.T) {
	c := NewLineClassifier(NewSizeMap(12, 24, 18, 14))

	tests := []struct {
		name  string
		info  LineInfo
		level int
		want  int
	}{
		{"level 1 untouched", LineInfo{Size: 13}, 1, 1},
		{"bold kept", LineInfo{Size: 13, Style: model.Style{Bold: true}}, 2, 2},
		{"large enough kept", LineInfo{Size: 14}, 3, 3},
		{"weak demoted", LineInfo{Size: 13.9}, 2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decision{Kind: model.ElementHeading, Level: tt.level}
			c.demoteWeakSubheading(&tt.info, &d)
			if d.Level != tt.want {
				t.Errorf("level = %d, want %d", d.Level, tt.want)
			}
		})
	}
}

func TestRule_ListSkipsHeadings(t *testing.T) {
	c := NewLineClassifier(DefaultSizeMap())
	info := LineInfo{Text: "1. Scope", Folded: "1. Scope"}
	d := Decision{Kind: model.ElementHeading, Level: 1}

	c.detectList(&info, &d)
	if d.Kind != model.ElementHeading {
		t.Errorf("detectList changed a heading to %v", d.Kind)
	}
}

// ============================================================================
// Inline Formatting Tests
// ============================================================================

func TestFormatSpans(t *testing.T) {
	bold := model.Style{Bold: true}
	italic := model.Style{Italic: true}
	both := model.Style{Bold: true, Italic: true}

	tests := []struct {
		name  string
		spans []model.Span
		want  string
	}{
		{"plain", []model.Span{{Text: "hello"}}, "hello"},
		{"bold", []model.Span{{Text: "x", Style: bold}}, "**x**"},
		{"italic", []model.Span{{Text: "x", Style: italic}}, "*x*"},
		{"bold italic", []model.Span{{Text: "x", Style: both}}, "***x***"},
		{
			"bold run across blank span",
			[]model.Span{{Text: "Hello", Style: bold}, {Text: " "}, {Text: "world", Style: bold}, {Text: " plain"}},
			"**Hello world** plain",
		},
		{
			"whitespace moved outside markers",
			[]model.Span{{Text: "Bold ", Style: bold}, {Text: "text"}},
			"**Bold** text",
		},
		{
			"leading blank span",
			[]model.Span{{Text: "  ", Style: italic}, {Text: "word", Style: bold}},
			"**word**",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatSpans(tt.spans); got != tt.want {
				t.Errorf("FormatSpans() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFoldWidth(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"１２３", "123"},
		{"Ａ．ｂ", "A.b"},
		{"中文、", "中文、"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		got := foldWidth(tt.in)
		if got != tt.want {
			t.Errorf("foldWidth(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if utf8.RuneCountInString(got) != utf8.RuneCountInString(tt.in) {
			t.Errorf("foldWidth(%q) changed the rune count", tt.in)
		}
	}
}
