// Package annotation implements the engine's plugin annotation grammar:
// comment blocks opened by /*: (optionally /*:<lang> for localized
// variants, /*~struct~Name: for struct declarations) holding one
// @tag value entry per line. The writer and scanner are two sides of
// the same grammar, so text produced by the writer scans back into the
// tags it was written from.
package annotation

import (
	"regexp"
	"strings"
	"sync"
)

// Tag is one @name value entry of a block. Multi-line values span the
// lines following the tag until the next tag.
type Tag struct {
	Name  string
	Value string
}

// Block is one annotation comment block lifted from plugin source.
// Start and End are byte offsets of the block within the scanned text,
// End pointing just past the closing marker.
type Block struct {
	Struct string // struct name for /*~struct~Name: blocks
	Locale string // language tag for localized blocks, "" for the default
	Tags   []Tag
	Start  int
	End    int
}

var (
	blockRe   *regexp.Regexp
	tagLineRe *regexp.Regexp
	scanOnce  sync.Once
)

func initScanRegex() {
	blockRe = regexp.MustCompile(`(?s)/\*(~struct~[A-Za-z0-9_$]+)?:([A-Za-z0-9_-]*)(.*?)\*/`)
	tagLineRe = regexp.MustCompile(`^@([A-Za-z][A-Za-z0-9_]*)\s*(.*)$`)
}

// Blocks scans source text for annotation blocks in order of appearance.
func Blocks(src string) []Block {
	scanOnce.Do(initScanRegex)

	var blocks []Block
	for _, m := range blockRe.FindAllStringSubmatchIndex(src, -1) {
		blk := Block{Start: m[0], End: m[1]}
		if m[2] >= 0 {
			blk.Struct = strings.TrimPrefix(src[m[2]:m[3]], "~struct~")
		}
		blk.Locale = src[m[4]:m[5]]
		blk.Tags = parseTags(src[m[6]:m[7]])
		blocks = append(blocks, blk)
	}
	return blocks
}

// Find returns the first block matching the struct name and locale,
// nil when absent. The default header is Find(blocks, "", "").
func Find(blocks []Block, structName, locale string) *Block {
	for i := range blocks {
		if blocks[i].Struct == structName && blocks[i].Locale == locale {
			return &blocks[i]
		}
	}
	return nil
}

// HeaderRegion locates the contiguous run of annotation blocks at the
// head of a plugin source: the region raw-mode regeneration replaces.
// Text before the first block (banner comments) is not part of the
// region. Not ok when the source has no annotation block, or when
// annotation blocks appear beyond the leading run, since the body can
// then not be separated from the header unambiguously.
func HeaderRegion(src string) (start, end int, ok bool) {
	scanOnce.Do(initScanRegex)

	locs := blockRe.FindAllStringIndex(src, -1)
	if len(locs) == 0 {
		return 0, 0, false
	}
	start, end = locs[0][0], locs[0][1]
	for i := 1; i < len(locs); i++ {
		if strings.TrimSpace(src[end:locs[i][0]]) != "" {
			// A later annotation block is separated from the run by
			// code: ambiguous, the caller must fall back.
			return 0, 0, false
		}
		end = locs[i][1]
	}
	return start, end, true
}

func parseTags(body string) []Tag {
	var tags []Tag
	var curName string
	var curParts []string

	flush := func() {
		if curName == "" {
			return
		}
		for len(curParts) > 1 && curParts[len(curParts)-1] == "" {
			curParts = curParts[:len(curParts)-1]
		}
		tags = append(tags, Tag{Name: curName, Value: strings.Join(curParts, "\n")})
		curName, curParts = "", nil
	}

	for _, line := range strings.Split(body, "\n") {
		text := stripStar(strings.TrimSuffix(line, "\r"))
		if m := tagLineRe.FindStringSubmatch(text); m != nil {
			flush()
			curName = m[1]
			curParts = []string{strings.TrimRight(m[2], " \t")}
			continue
		}
		if curName != "" {
			curParts = append(curParts, text)
		}
	}
	flush()
	return tags
}

// stripStar removes the conventional " * " line prefix, keeping any
// further indentation of the content.
func stripStar(line string) string {
	t := strings.TrimLeft(line, " \t")
	if strings.HasPrefix(t, "*") {
		t = t[1:]
		if strings.HasPrefix(t, " ") {
			t = t[1:]
		}
	}
	return t
}
