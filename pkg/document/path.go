package document

import "fmt"

// Path represents the traversal steps from the root to a node.
// Example: [0, 3, 0] means block 0 -> inline 3 -> the text leaf of that mention.
type Path []int

// Clone returns an independent copy of the path
func (p Path) Clone() Path {
	if p == nil {
		return nil
	}
	out := make(Path, len(p))
	copy(out, p)
	return out
}

// Equal reports whether both paths address the same node
func (p Path) Equal(o Path) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

// Compare orders paths in document order. A path sorts before its descendants.
func (p Path) Compare(o Path) int {
	n := min(len(p), len(o))
	for i := 0; i < n; i++ {
		if p[i] < o[i] {
			return -1
		}
		if p[i] > o[i] {
			return 1
		}
	}
	switch {
	case len(p) < len(o):
		return -1
	case len(p) > len(o):
		return 1
	}
	return 0
}

// HasPrefix reports whether prefix is p itself or one of its ancestors
func (p Path) HasPrefix(prefix Path) bool {
	if len(prefix) > len(p) {
		return false
	}
	return p[:len(prefix)].Equal(prefix)
}

// Parent returns the parent path; the parent of a block is the root (empty path)
func (p Path) Parent() Path {
	if len(p) == 0 {
		return nil
	}
	return p[:len(p)-1].Clone()
}

// Next returns the path of the following sibling
func (p Path) Next() Path {
	out := p.Clone()
	if len(out) > 0 {
		out[len(out)-1]++
	}
	return out
}

// Block returns the path of the block containing p
func (p Path) Block() Path {
	if len(p) == 0 {
		return nil
	}
	return Path{p[0]}
}

func (p Path) String() string {
	return fmt.Sprint([]int(p))
}

// Point is one location in the document: a text leaf and a character offset in it.
// Offsets count runes, not bytes.
type Point struct {
	Path   Path `json:"path"`
	Offset int  `json:"offset"`
}

// Compare orders points in document order
func (p Point) Compare(o Point) int {
	if c := p.Path.Compare(o.Path); c != 0 {
		return c
	}
	switch {
	case p.Offset < o.Offset:
		return -1
	case p.Offset > o.Offset:
		return 1
	}
	return 0
}

// Equal reports whether both points address the same leaf and offset
func (p Point) Equal(o Point) bool {
	return p.Offset == o.Offset && p.Path.Equal(o.Path)
}

// IsBefore reports whether p sorts strictly before o
func (p Point) IsBefore(o Point) bool { return p.Compare(o) < 0 }

// IsAfter reports whether p sorts strictly after o
func (p Point) IsAfter(o Point) bool { return p.Compare(o) > 0 }

// Clone returns an independent copy of the point
func (p Point) Clone() Point {
	return Point{Path: p.Path.Clone(), Offset: p.Offset}
}

func (p Point) String() string {
	return fmt.Sprintf("%v:%d", []int(p.Path), p.Offset)
}

// Range is an ordered pair of points; Anchor is where a selection started, Focus where it ends.
type Range struct {
	Anchor Point `json:"anchor"`
	Focus  Point `json:"focus"`
}

// Collapsed returns a zero-width range at p
func Collapsed(p Point) Range {
	return Range{Anchor: p.Clone(), Focus: p.Clone()}
}

// IsCollapsed reports whether anchor and focus coincide
func (r Range) IsCollapsed() bool {
	return r.Anchor.Equal(r.Focus)
}

// IsBackward reports whether the focus sorts before the anchor
func (r Range) IsBackward() bool {
	return r.Focus.IsBefore(r.Anchor)
}

// Edges returns the range endpoints in document order
func (r Range) Edges() (Point, Point) {
	if r.IsBackward() {
		return r.Focus, r.Anchor
	}
	return r.Anchor, r.Focus
}

// Start returns the first edge in document order
func (r Range) Start() Point {
	s, _ := r.Edges()
	return s
}

// End returns the last edge in document order
func (r Range) End() Point {
	_, e := r.Edges()
	return e
}

// Includes reports whether p lies within the range, boundaries included
func (r Range) Includes(p Point) bool {
	start, end := r.Edges()
	return p.Compare(start) >= 0 && p.Compare(end) <= 0
}

// Equal reports whether both ranges have identical anchor and focus
func (r Range) Equal(o Range) bool {
	return r.Anchor.Equal(o.Anchor) && r.Focus.Equal(o.Focus)
}

// Clone returns an independent copy of the range
func (r Range) Clone() Range {
	return Range{Anchor: r.Anchor.Clone(), Focus: r.Focus.Clone()}
}

func (r Range) String() string {
	return fmt.Sprintf("[%s -> %s]", r.Anchor, r.Focus)
}
