// SPDX-License-Identifier: MPL-2.0

package book

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"
)

// Extension is the file extension recognized when loading a directory.
const Extension = ".md"

// FromPath loads a book from a single document or from a directory tree
// of documents, optionally narrowed by a filter expression. An empty
// filter keeps everything. Loading either yields the whole book or the
// first fatal defect; no partial book is ever returned.
func FromPath(path string, filter string) (*Book, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}

	var sections []rawSection
	if info.IsDir() {
		sections, err = parseDir(path)
	} else {
		sections, err = parseFile(path, nil)
	}
	if err != nil {
		return nil, err
	}

	b, err := buildBook(path, sections)
	if err != nil {
		return nil, err
	}
	if filter != "" {
		b = b.Filter(filter)
	}
	return b, nil
}

// parseFile reads and parses one document. dirCategories is the
// category prefix contributed by the document's location under the
// book root, nil for single-file books.
func parseFile(path string, dirCategories []string) ([]rawSection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	return parseDocument(path, data, dirCategories)
}

// parseDir walks a book directory, parsing every Markdown document in
// deterministic (sorted) order. Hidden directories are skipped. The
// relative directory of each document prefixes its pages' categories.
func parseDir(root string) ([]rawSection, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), Extension) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, &IOError{Path: root, Err: err}
	}
	sort.Strings(files)

	var sections []rawSection
	for _, path := range files {
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		fileSections, err := parseFile(path, dirCategories(rel))
		if err != nil {
			return nil, err
		}
		sections = append(sections, fileSections...)
	}
	return sections, nil
}

// dirCategories converts a document's book-relative path into category
// segments, e.g. "web/scanners/nikto.md" -> ["web", "scanners"].
func dirCategories(rel string) []string {
	dir := filepath.ToSlash(filepath.Dir(rel))
	if dir == "." || dir == "" {
		return nil
	}
	return strings.Split(dir, "/")
}

type (
	// rawSection is the parser's output unit: one heading breadcrumb and
	// the raw blocks declared under it, before any model interpretation.
	rawSection struct {
		path       string
		breadcrumb []string
		meta       pageMeta
		blocks     []rawBlock
	}

	// rawBlock is one fenced code block as the parser saw it.
	rawBlock struct {
		info        string
		text        string
		description string
		line        int
	}

	// pageMeta is the recognized YAML frontmatter of a document.
	pageMeta struct {
		Description string `yaml:"description"`
		Image       string `yaml:"image"`
	}
)

// parseDocument parses one Markdown document into raw sections.
//
// Headings maintain the breadcrumb: a heading of depth n replaces the
// breadcrumb from depth n on, and opens a section even when no block
// follows (declared-but-empty pages are part of the document
// structure). Fenced code blocks become raw blocks; the nearest
// paragraph since the previous heading or block becomes the block's
// description. A fenced block before any heading is a structural
// defect.
func parseDocument(path string, data []byte, dirCats []string) ([]rawSection, error) {
	meta, body, fmLines, err := splitFrontmatter(path, data)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(body))

	var (
		sections []rawSection
		stack    []headingLevel
		pending  string
	)

	current := func() *rawSection {
		if len(sections) == 0 {
			return nil
		}
		return &sections[len(sections)-1]
	}

	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *gmast.Heading:
			title := nodeText(node, body)
			if title == "" {
				return nil, &ParseError{Path: path, Reason: "empty heading"}
			}
			for len(stack) > 0 && stack[len(stack)-1].level >= node.Level {
				stack = stack[:len(stack)-1]
			}
			stack = append(stack, headingLevel{level: node.Level, title: title})

			breadcrumb := make([]string, 0, len(dirCats)+len(stack))
			breadcrumb = append(breadcrumb, dirCats...)
			for _, h := range stack {
				breadcrumb = append(breadcrumb, h.title)
			}
			sections = append(sections, rawSection{
				path:       path,
				breadcrumb: breadcrumb,
				meta:       meta,
			})
			pending = ""

		case *gmast.Paragraph:
			pending = nodeText(node, body)

		case *gmast.FencedCodeBlock:
			line := fenceLine(node, body, fmLines)
			sec := current()
			if sec == nil {
				return nil, &ParseError{
					Path:   path,
					Line:   line,
					Reason: "code block declared before any heading",
				}
			}
			sec.blocks = append(sec.blocks, rawBlock{
				info:        fenceInfo(node, body),
				text:        fenceText(node, body),
				description: pending,
				line:        line,
			})
			pending = ""
		}
	}

	return sections, nil
}

// headingLevel is one entry of the breadcrumb stack.
type headingLevel struct {
	level int
	title string
}

// buildBook turns raw sections into the Book model. Sections sharing a
// breadcrumb merge into one page in first-appearance order; a function
// name repeating within a page is fatal.
func buildBook(path string, sections []rawSection) (*Book, error) {
	b := &Book{Path: path}
	byID := map[string]*Page{}

	for _, sec := range sections {
		name := sec.breadcrumb[len(sec.breadcrumb)-1]
		categories := sec.breadcrumb[:len(sec.breadcrumb)-1]
		id := strings.Join(sec.breadcrumb, "/")

		page := byID[id]
		if page == nil {
			page = &Page{
				Name:        name,
				Categories:  append([]string{}, categories...),
				Description: sec.meta.Description,
			}
			byID[id] = page
			b.Pages = append(b.Pages, page)
		}

		for i, blk := range sec.blocks {
			fn, err := buildFunction(sec, i, blk)
			if err != nil {
				return nil, err
			}
			if page.Function(fn.Name) != nil {
				return nil, &DuplicateFunctionError{Page: id, Function: fn.Name}
			}
			page.Functions = append(page.Functions, fn)
		}
	}

	return b, nil
}

// buildFunction interprets one raw block as a Function. The fence info
// string is "<tag> [key=value ...]"; the name attribute is mandatory.
func buildFunction(sec rawSection, index int, blk rawBlock) (*Function, error) {
	tag, attrs, reason := parseFenceInfo(blk.info)
	if reason == "" && attrs["name"] == "" {
		reason = `missing the name="..." attribute`
	}
	if reason != "" {
		return nil, &MalformedBlockError{
			Path:       sec.path,
			Breadcrumb: sec.breadcrumb,
			Index:      index,
			Reason:     reason,
		}
	}

	image := attrs["image"]
	if image == "" {
		image = sec.meta.Image
	}

	return &Function{
		Name:        attrs["name"],
		Description: blk.description,
		Body: Body{
			Text:  blk.text,
			Tag:   tag,
			Attrs: attrs,
		},
		ContainerImage: image,
	}, nil
}

// parseFenceInfo splits a fence info string into the interpreter tag
// and its key=value attributes. The tag is the first word only when it
// carries no "="; every remaining word must be key=value. Values may be
// double-quoted but cannot contain spaces.
func parseFenceInfo(info string) (tag string, attrs map[string]string, reason string) {
	attrs = map[string]string{}
	fields := strings.Fields(info)
	if len(fields) == 0 {
		return "", attrs, ""
	}

	rest := fields
	if !strings.Contains(fields[0], "=") {
		tag = fields[0]
		rest = fields[1:]
	}

	for _, field := range rest {
		key, value, ok := strings.Cut(field, "=")
		if !ok || key == "" {
			return "", nil, fmt.Sprintf("malformed attribute %q", field)
		}
		if len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"' {
			value = value[1 : len(value)-1]
		}
		attrs[key] = value
	}
	return tag, attrs, ""
}

// splitFrontmatter separates optional YAML frontmatter ("---"
// delimited, at the very top) from the Markdown body. It returns the
// decoded metadata, the body, and the number of source lines the
// frontmatter occupied so later line reporting stays accurate.
func splitFrontmatter(path string, data []byte) (pageMeta, []byte, int, error) {
	var meta pageMeta

	nl := detectNewline(data)
	open := []byte("---" + nl)
	if !bytes.HasPrefix(data, open) {
		return meta, data, 0, nil
	}

	start := len(open)
	var raw, body []byte
	switch {
	case bytes.HasPrefix(data[start:], open):
		raw, body = nil, data[start+len(open):]
	default:
		closeSeq := []byte(nl + "---" + nl)
		idx := bytes.Index(data[start:], closeSeq)
		if idx < 0 {
			return meta, nil, 0, &ParseError{
				Path:   path,
				Line:   1,
				Reason: "frontmatter opened but never closed",
			}
		}
		raw = data[start : start+idx+len(nl)]
		body = data[start+idx+len(closeSeq):]
	}

	if len(raw) > 0 {
		if err := yaml.Unmarshal(raw, &meta); err != nil {
			return meta, nil, 0, &ParseError{
				Path:   path,
				Line:   1,
				Reason: "invalid frontmatter: " + err.Error(),
			}
		}
	}

	consumed := len(data) - len(body)
	return meta, body, bytes.Count(data[:consumed], []byte("\n")), nil
}

// detectNewline picks the document's newline convention by first
// occurrence, defaulting to "\n".
func detectNewline(data []byte) string {
	for i := 0; i+1 < len(data); i++ {
		if data[i] == '\r' && data[i+1] == '\n' {
			return "\r\n"
		}
		if data[i] == '\n' {
			return "\n"
		}
	}
	return "\n"
}

// nodeText concatenates the plain text content of a node's subtree.
func nodeText(n gmast.Node, src []byte) string {
	var sb strings.Builder
	_ = gmast.Walk(n, func(c gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *gmast.Text:
			sb.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *gmast.String:
			sb.Write(t.Value)
		}
		return gmast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}

// fenceInfo returns the raw info string of a fenced code block.
func fenceInfo(n *gmast.FencedCodeBlock, src []byte) string {
	if n.Info == nil {
		return ""
	}
	return string(n.Info.Segment.Value(src))
}

// fenceText returns the raw content of a fenced code block.
func fenceText(n *gmast.FencedCodeBlock, src []byte) string {
	var sb strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(src))
	}
	return sb.String()
}

// fenceLine returns the best-effort 1-based source line of a fenced
// code block, counting any frontmatter lines stripped before parsing.
func fenceLine(n *gmast.FencedCodeBlock, src []byte, offset int) int {
	at := -1
	if n.Info != nil {
		at = n.Info.Segment.Start
	} else if n.Lines().Len() > 0 {
		at = n.Lines().At(0).Start - 1
	}
	if at < 0 || at > len(src) {
		return 0
	}
	return offset + 1 + bytes.Count(src[:at], []byte("\n"))
}
