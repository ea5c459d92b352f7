// Package markdown serializes classified pages into a Markdown document.
package markdown

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tsawler/pagemd/assets"
	"github.com/tsawler/pagemd/model"
)

// AssetSaver persists an image under a file name and returns the relative
// reference to use in the output. Both assets.FileStore and
// assets.MemoryStore satisfy it.
type AssetSaver interface {
	Save(name string, data []byte) (string, error)
}

// Config holds assembler configuration
type Config struct {
	// DocName is the document name used to build image file names
	DocName string

	// Title, when set, is written as a level 1 heading before page 1
	Title string

	// PageMarkers controls the "<!-- Page N -->" line between pages
	PageMarkers bool

	// Logger receives progress for images and tables
	Logger zerolog.Logger
}

// DefaultConfig returns the default assembler configuration
func DefaultConfig() Config {
	return Config{
		PageMarkers: true,
		Logger:      zerolog.Nop(),
	}
}

// AssetFailure records an image that could not be saved. The image
// reference is left out of the output.
type AssetFailure struct {
	Page int
	Name string
	Err  error
}

func (f AssetFailure) Error() string {
	return fmt.Sprintf("page %d: save %s: %v", f.Page, f.Name, f.Err)
}

func (f AssetFailure) Unwrap() error {
	return f.Err
}

type state int

const (
	stateNone state = iota
	stateList
	stateCode
)

// Assembler builds the Markdown output one page at a time. Pages must be
// added in document order; output already written is never revised, so
// stopping early leaves a valid prefix of the document.
type Assembler struct {
	config Config
	saver  AssetSaver

	buf   strings.Builder
	state state
	code  []string
	pages int
	seq   int

	assets   []string
	failures []AssetFailure
}

// NewAssembler creates an assembler. A nil saver drops every image.
func NewAssembler(saver AssetSaver, config Config) *Assembler {
	a := &Assembler{config: config, saver: saver}
	if config.Title != "" {
		a.buf.WriteString("# " + config.Title + "\n\n")
	}
	return a
}

// AddPage appends one page
func (a *Assembler) AddPage(page model.PageContent) {
	number := page.Number
	if number <= 0 {
		number = a.pages + 1
	}
	if a.pages > 0 && a.config.PageMarkers {
		a.blank()
		a.buf.WriteString("<!-- Page " + strconv.Itoa(number) + " -->\n\n")
	}
	a.pages++

	for _, e := range page.Elements {
		a.addElement(number, e)
	}
	a.endRun()
}

func (a *Assembler) addElement(page int, e model.PageElement) {
	if e.Kind == model.ElementCode {
		if a.state == stateList {
			a.endRun()
		}
		a.code = append(a.code, e.Content)
		a.state = stateCode
		return
	}

	if e.Kind == model.ElementListItem {
		if a.state != stateList {
			a.endRun()
			a.blank()
		}
		a.buf.WriteString(e.Content + "\n")
		a.state = stateList
		return
	}

	a.endRun()

	switch e.Kind {
	case model.ElementHeading:
		level := e.Level
		if level < 1 {
			level = 1
		}
		a.blank()
		a.buf.WriteString(strings.Repeat("#", level) + " " + e.Content + "\n\n")

	case model.ElementTable:
		a.config.Logger.Info().Int("page", page).Msg("table found")
		a.blank()
		a.buf.WriteString(strings.TrimSpace(e.Content) + "\n\n")

	case model.ElementImage:
		a.addImage(page, e.Image)

	default:
		a.buf.WriteString(e.Content + "\n\n")
	}
}

func (a *Assembler) addImage(page int, img *model.ImageBlock) {
	if img == nil || len(img.Data) == 0 {
		return
	}
	if a.saver == nil {
		a.config.Logger.Debug().Int("page", page).Msg("image skipped, no asset store")
		return
	}

	name := assets.FileName(a.config.DocName, page, a.seq, assets.Ext(img.Data, img.Ext))
	ref, err := a.saver.Save(name, img.Data)
	if err != nil {
		a.failures = append(a.failures, AssetFailure{Page: page, Name: name, Err: err})
		a.config.Logger.Warn().Err(err).Int("page", page).Str("image", name).Msg("image save failed")
		return
	}

	a.seq++
	a.assets = append(a.assets, ref)
	a.config.Logger.Info().Int("page", page).Str("image", ref).Msg("image extracted")

	a.blank()
	a.buf.WriteString("![" + name + "](" + ref + ")\n\n")
}

// endRun closes an open list or code run
func (a *Assembler) endRun() {
	switch a.state {
	case stateList:
		a.buf.WriteString("\n")
	case stateCode:
		a.flushCode()
	}
	a.state = stateNone
}

func (a *Assembler) flushCode() {
	if len(a.code) == 0 {
		return
	}
	body := strings.Join(a.code, "\n")
	fence := "```"
	for strings.Contains(body, fence) {
		fence += "`"
	}
	a.blank()
	a.buf.WriteString(fence + "\n" + body + "\n" + fence + "\n\n")
	a.code = a.code[:0]
}

// blank makes sure the output ends in an empty line, unless it is empty
func (a *Assembler) blank() {
	s := a.buf.String()
	switch {
	case s == "", strings.HasSuffix(s, "\n\n"):
	case strings.HasSuffix(s, "\n"):
		a.buf.WriteString("\n")
	default:
		a.buf.WriteString("\n\n")
	}
}

// String returns the normalized document: runs of blank lines collapsed
// to one and a single trailing newline
func (a *Assembler) String() string {
	return Normalize(a.buf.String())
}

// Pages returns how many pages were added
func (a *Assembler) Pages() int {
	return a.pages
}

// Assets returns the references of the images saved so far
func (a *Assembler) Assets() []string {
	return append([]string(nil), a.assets...)
}

// Failures returns the images that could not be saved
func (a *Assembler) Failures() []AssetFailure {
	return append([]AssetFailure(nil), a.failures...)
}

// Normalize collapses every run of blank lines into one and trims the
// text to a single trailing newline. Empty input stays empty.
func Normalize(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			if blank {
				continue
			}
			blank = true
		} else {
			blank = false
		}
		out = append(out, line)
	}

	joined := strings.Trim(strings.Join(out, "\n"), "\n")
	if joined == "" {
		return ""
	}
	return joined + "\n"
}

// Assemble serializes a whole document in one call
func Assemble(doc *model.Document, saver AssetSaver, config Config) (string, []AssetFailure) {
	if config.DocName == "" {
		config.DocName = doc.Name
	}
	a := NewAssembler(saver, config)
	for _, p := range doc.Pages {
		a.AddPage(p)
	}
	return a.String(), a.Failures()
}
