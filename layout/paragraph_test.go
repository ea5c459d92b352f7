package layout

import (
	"testing"

	"github.com/tsawler/pagemd/model"
)

func para(text string) model.PageElement {
	return model.PageElement{Kind: model.ElementParagraph, Content: text}
}

func heading(level int, text string) model.PageElement {
	return model.PageElement{Kind: model.ElementHeading, Level: level, Content: text}
}

func contents(elems []model.PageElement) []string {
	out := make([]string, len(elems))
	for i, e := range elems {
		out[i] = e.Content
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestParagraphMerger_Merge(t *testing.T) {
	tests := []struct {
		name  string
		input []model.PageElement
		want  []string
	}{
		{
			"wrapped line",
			[]model.PageElement{para("Hello"), para("world.")},
			[]string{"Hello world."},
		},
		{
			"terminator stops merge",
			[]model.PageElement{para("One."), para("Two")},
			[]string{"One.", "Two"},
		},
		{
			"colon and semicolon terminate",
			[]model.PageElement{para("As follows:"), para("a;"), para("b")},
			[]string{"As follows:", "a;", "b"},
		},
		{
			"cjk terminator",
			[]model.PageElement{para("第一句。"), para("第二句")},
			[]string{"第一句。", "第二句"},
		},
		{
			"three lines",
			[]model.PageElement{para("a long"), para("sentence split"), para("twice.")},
			[]string{"a long sentence split twice."},
		},
		{
			"heading breaks run",
			[]model.PageElement{para("before"), heading(2, "Title"), para("after")},
			[]string{"before", "Title", "after"},
		},
		{
			"bold sentence stops merge",
			[]model.PageElement{para("**Warning: do not touch.**"), para("Next paragraph starts here.")},
			[]string{"**Warning: do not touch.**", "Next paragraph starts here."},
		},
		{
			"italic question stops merge",
			[]model.PageElement{para("*Is it safe?*"), para("Another sentence.")},
			[]string{"*Is it safe?*", "Another sentence."},
		},
		{
			"bold italic exclamation stops merge",
			[]model.PageElement{para("Read this ***now!***"), para("Then continue")},
			[]string{"Read this ***now!***", "Then continue"},
		},
		{
			"emphasis without terminator still merges",
			[]model.PageElement{para("a **bold**"), para("continuation.")},
			[]string{"a **bold** continuation."},
		},
		{
			"list item breaks run",
			[]model.PageElement{para("intro"), {Kind: model.ElementListItem, Content: "- item"}},
			[]string{"intro", "- item"},
		},
	}

	m := NewParagraphMerger()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := contents(m.Merge(tt.input))
			if !equalStrings(got, tt.want) {
				t.Errorf("Merge() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParagraphMerger_KeepsFirstPosition(t *testing.T) {
	input := []model.PageElement{
		{Kind: model.ElementParagraph, Content: "top", Y: 100},
		{Kind: model.ElementParagraph, Content: "bottom.", Y: 120},
	}
	got := NewParagraphMerger().Merge(input)
	if len(got) != 1 || got[0].Y != 100 {
		t.Errorf("Merge() = %+v, want one element at Y=100", got)
	}
}

func TestParagraphMerger_StripFooter(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"The results are final. March 2024 12", "The results are final."},
		{"Closing remarks. december 2023 | 7", "Closing remarks."},
		{"项目总结。2024年3月 5", "项目总结。"},
		{"No footer in May of this year", "No footer in May of this year"},
		{"Version 2024 12", "Version 2024 12"},
		{"Closing remarks. *March 2024 12*", "Closing remarks."},
		{"**Summary. March 2024 12**", "**Summary.**"},
		{"*2024年3月 5*", ""},
		{"Ends in **bold.**", "Ends in **bold.**"},
	}

	m := NewParagraphMerger()
	for _, tt := range tests {
		if got := m.StripFooter(tt.in); got != tt.want {
			t.Errorf("StripFooter(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParagraphMerger_DropsFooterOnly(t *testing.T) {
	m := NewParagraphMerger()
	for _, footer := range []string{"June 2024 3", "*July 2024 4*", "**2024年3月 5**"} {
		got := m.Merge([]model.PageElement{para("Body."), para(footer)})
		if want := []string{"Body."}; !equalStrings(contents(got), want) {
			t.Errorf("Merge(%q) = %q, want %q", footer, contents(got), want)
		}
	}
}
