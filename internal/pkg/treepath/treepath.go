// Package treepath implements the fixed-width materialized path used to encode
// the category hierarchy. A path is a concatenation of 3-digit sibling-index
// groups: "000" is the first root, "000002" the third child of that root, and
// so on. Because every group has the same width, lexicographic order equals
// depth-first sibling order and ancestry is a plain prefix test.
package treepath

import (
	"fmt"
	"strconv"
	"strings"
)

// GroupWidth is the number of digits per hierarchy level.
const GroupWidth = 3

// MaxSiblingIndex is the largest index a single group can encode.
const MaxSiblingIndex = 999

// Path is a validated materialized tree path.
type Path string

// Parse validates a raw string as a Path.
func Parse(raw string) (Path, error) {
	p := Path(raw)
	if !p.Valid() {
		return "", fmt.Errorf("malformed tree path %q", raw)
	}
	return p, nil
}

// Valid reports whether the path is a non-empty sequence of numeric
// fixed-width groups.
func (p Path) Valid() bool {
	if len(p) == 0 || len(p)%GroupWidth != 0 {
		return false
	}
	for _, r := range p {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Level is the zero-based depth of the node: len(path)/width - 1.
func (p Path) Level() int { return len(p)/GroupWidth - 1 }

// IsRoot reports whether the path encodes a top-level node.
func (p Path) IsRoot() bool { return len(p) == GroupWidth }

// Parent returns the path with the trailing group removed. The parent of a
// root path is the empty path.
func (p Path) Parent() Path { return p[:len(p)-GroupWidth] }

// LastIndex returns the trailing sibling-index group as an integer.
func (p Path) LastIndex() int {
	n, _ := strconv.Atoi(string(p[len(p)-GroupWidth:]))
	return n
}

// IsAncestorOf reports whether q sits strictly below p.
func (p Path) IsAncestorOf(q Path) bool {
	return len(q) > len(p) && strings.HasPrefix(string(q), string(p))
}

// Root builds a top-level path for the given sibling index.
func Root(index int) (Path, error) {
	return group(index)
}

// Child appends a sibling-index group to parent.
func Child(parent Path, index int) (Path, error) {
	g, err := group(index)
	if err != nil {
		return "", err
	}
	return parent + g, nil
}

// Next returns the path of the sibling following p.
func (p Path) Next() (Path, error) {
	g, err := group(p.LastIndex() + 1)
	if err != nil {
		return "", err
	}
	return p.Parent() + g, nil
}

// FirstChild returns the path the first subcategory of p receives. Index 0 is
// the implied base, so the first allocated child carries index 1.
func (p Path) FirstChild() (Path, error) {
	return Child(p, 1)
}

func group(index int) (Path, error) {
	if index < 0 || index > MaxSiblingIndex {
		return "", fmt.Errorf("sibling index %d out of range [0, %d]", index, MaxSiblingIndex)
	}
	return Path(fmt.Sprintf("%0*d", GroupWidth, index)), nil
}
