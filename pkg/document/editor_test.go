package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// "Add @brown_sugar slowly": text [0,0] covers 0..4, mention [0,1] 4..16, text [0,2] 16..23
func sugarDoc() *Editor {
	return New([]*Block{Paragraph(
		NewText("Add "),
		NewMention(KindIngredient, "ing-1", "brown sugar"),
		NewText(" slowly"),
	)})
}

func pt(offset int, path ...int) Point {
	return Point{Path: Path(path), Offset: offset}
}

func TestNewNormalizesBlocks(t *testing.T) {
	tests := []struct {
		name   string
		blocks []*Block
		shape  []string
	}{
		{
			name:   "empty document gets one paragraph",
			blocks: nil,
			shape:  []string{"text:"},
		},
		{
			name:   "adjacent texts merge",
			blocks: []*Block{Paragraph(NewText("a"), NewText(""), NewText("b"))},
			shape:  []string{"text:ab"},
		},
		{
			name: "mentions are surrounded by text",
			blocks: []*Block{Paragraph(
				NewMention(KindEquipment, "eq-1", "pan"),
				NewMention(KindIngredient, "ing-1", "salt"),
			)},
			shape: []string{"text:", "mention:@pan", "text:", "mention:@salt", "text:"},
		},
		{
			name:   "texts with different format stay apart",
			blocks: []*Block{Paragraph(NewText("a"), &Text{Text: "b", Format: 1})},
			shape:  []string{"text:a", "text:b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(tt.blocks)
			node, err := e.Node(Path{0})
			require.NoError(t, err)

			var shape []string
			for _, child := range node.(*Block).Children {
				switch c := child.(type) {
				case *Text:
					shape = append(shape, "text:"+c.Text)
				case *Mention:
					shape = append(shape, "mention:"+c.TextContent())
				}
			}
			assert.Equal(t, tt.shape, shape)
		})
	}
}

func TestTokenText(t *testing.T) {
	assert.Equal(t, "@cast_iron_pan", TokenText("cast iron  pan"))
	assert.Equal(t, "@설탕", TokenText("설탕"))
	assert.Equal(t, "@a_b", TokenText("a\tb"))
}

func TestOffsetAndPointAt(t *testing.T) {
	e := sugarDoc()

	block, off, err := e.Offset(pt(3, 0, 1, 0))
	require.NoError(t, err)
	assert.Equal(t, Path{0}, block)
	assert.Equal(t, 7, off)

	tests := []struct {
		offset int
		want   Point
	}{
		{offset: 0, want: pt(0, 0, 0)},
		{offset: 4, want: pt(4, 0, 0)},
		{offset: 7, want: pt(3, 0, 1, 0)},
		{offset: 16, want: pt(0, 0, 2)},
		{offset: 23, want: pt(7, 0, 2)},
	}
	for _, tt := range tests {
		got, err := e.PointAt(Path{0}, tt.offset)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "offset %d", tt.offset)
	}

	_, err = e.PointAt(Path{0}, 24)
	assert.ErrorIs(t, err, ErrInvalidPoint)
	_, err = e.PointAt(Path{3}, 0)
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestBeforeAfter(t *testing.T) {
	e := New([]*Block{
		Paragraph(NewText("Add "), NewMention(KindIngredient, "ing-1", "brown sugar"), NewText(" slowly")),
		Paragraph(NewText("stir")),
	})

	prev, ok := e.Before(pt(0, 0, 2))
	require.True(t, ok)
	assert.Equal(t, pt(11, 0, 1, 0), prev)

	next, ok := e.After(pt(4, 0, 0))
	require.True(t, ok)
	assert.Equal(t, pt(1, 0, 1, 0), next)

	prev, ok = e.Before(pt(0, 1, 0))
	require.True(t, ok)
	assert.Equal(t, pt(7, 0, 2), prev)

	_, ok = e.Before(pt(0, 0, 0))
	assert.False(t, ok)
	_, ok = e.After(pt(4, 1, 0))
	assert.False(t, ok)
}

func TestString(t *testing.T) {
	e := New([]*Block{
		Paragraph(NewText("Add "), NewMention(KindIngredient, "ing-1", "brown sugar"), NewText(" slowly")),
		Paragraph(NewText("stir")),
	})

	s, err := e.String(Range{Anchor: pt(0, 0, 0), Focus: pt(7, 0, 2)})
	require.NoError(t, err)
	assert.Equal(t, "Add @brown_sugar slowly", s)

	s, err = e.String(Range{Anchor: pt(2, 1, 0), Focus: pt(1, 0, 2)})
	require.NoError(t, err)
	assert.Equal(t, "slowly\nst", s)

	assert.Equal(t, "Add @brown_sugar slowly\nstir", e.Text())
}

func TestRangeOfMention(t *testing.T) {
	e := sugarDoc()

	r, err := e.Range(Path{0, 1})
	require.NoError(t, err)
	assert.Equal(t, Range{Anchor: pt(0, 0, 1, 0), Focus: pt(12, 0, 1, 0)}, r)

	end, err := e.End(Path{0})
	require.NoError(t, err)
	assert.Equal(t, pt(7, 0, 2), end)

	_, err = e.Node(Path{0, 0, 0})
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestInsertText(t *testing.T) {
	e := sugarDoc()
	require.NoError(t, e.Select(Collapsed(pt(1, 0, 2))))

	require.NoError(t, e.InsertText(pt(4, 0, 0), "the "))
	assert.Equal(t, "Add the @brown_sugar slowly", e.Text())
	assert.Equal(t, uint64(1), e.Version())

	sel, ok := e.Selection()
	require.True(t, ok)
	assert.Equal(t, Collapsed(pt(1, 0, 2)), sel)

	err := e.InsertText(pt(3, 0, 1, 0), "x")
	assert.ErrorIs(t, err, ErrInvalidPoint)
	assert.Equal(t, uint64(1), e.Version())
	assert.Equal(t, "Add the @brown_sugar slowly", e.Text())
}

func TestSelectionInMentionLeafFollowsToken(t *testing.T) {
	e := sugarDoc()
	require.NoError(t, e.Select(Collapsed(pt(12, 0, 1, 0))))

	require.NoError(t, e.InsertText(pt(0, 0, 2), "!"))
	assert.Equal(t, "Add @brown_sugar! slowly", e.Text())

	sel, _ := e.Selection()
	assert.Equal(t, Collapsed(pt(12, 0, 1, 0)), sel)
}

func TestInsertNode(t *testing.T) {
	e := New([]*Block{Paragraph(NewText("hello world"))})
	require.NoError(t, e.Select(Collapsed(pt(11, 0, 0))))

	path, err := e.InsertNode(pt(6, 0, 0), NewMention(KindEquipment, "eq-1", "wok"))
	require.NoError(t, err)
	assert.Equal(t, Path{0, 1}, path)
	assert.Equal(t, "hello @wokworld", e.Text())

	sel, _ := e.Selection()
	assert.Equal(t, Collapsed(pt(5, 0, 2)), sel)

	_, err = e.InsertNode(pt(2, 0, 1, 0), NewMention(KindEquipment, "eq-2", "pot"))
	assert.ErrorIs(t, err, ErrInvalidPoint)

	_, err = e.InsertNode(pt(0, 0, 0), NewText("x"))
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestDelete(t *testing.T) {
	t.Run("edge inside a mention widens to the token", func(t *testing.T) {
		e := sugarDoc()
		at, err := e.Delete(Range{Anchor: pt(2, 0, 0), Focus: pt(3, 0, 1, 0)})
		require.NoError(t, err)
		assert.Equal(t, pt(2, 0, 0), at)
		assert.Equal(t, "Ad slowly", e.Text())
		assert.Empty(t, e.AllMentions())
	})

	t.Run("across blocks merges them", func(t *testing.T) {
		e := New([]*Block{Paragraph(NewText("abc")), Paragraph(NewText("def"))})
		require.NoError(t, e.Select(Collapsed(pt(3, 1, 0))))

		at, err := e.Delete(Range{Anchor: pt(2, 1, 0), Focus: pt(1, 0, 0)})
		require.NoError(t, err)
		assert.Equal(t, pt(1, 0, 0), at)
		assert.Equal(t, "af", e.Text())
		assert.Equal(t, 1, e.BlockCount())

		sel, _ := e.Selection()
		assert.Equal(t, Collapsed(pt(2, 0, 0)), sel)
	})

	t.Run("collapsed range is a no-op", func(t *testing.T) {
		e := sugarDoc()
		_, err := e.Delete(Collapsed(pt(5, 0, 1, 0)))
		require.NoError(t, err)
		assert.Equal(t, uint64(0), e.Version())
		assert.Len(t, e.AllMentions(), 1)
	})
}

func TestRemoveNode(t *testing.T) {
	e := sugarDoc()
	require.NoError(t, e.Select(Collapsed(pt(3, 0, 2))))

	require.NoError(t, e.RemoveNode(Path{0, 1}))
	assert.Equal(t, "Add  slowly", e.Text())

	sel, _ := e.Selection()
	assert.Equal(t, Collapsed(pt(7, 0, 0)), sel)

	assert.ErrorIs(t, e.RemoveNode(Path{0, 5}), ErrInvalidPath)

	require.NoError(t, e.RemoveNode(Path{0}))
	assert.Equal(t, 1, e.BlockCount())
	assert.Equal(t, "", e.Text())
}

func TestSplitBlock(t *testing.T) {
	e := sugarDoc()
	require.NoError(t, e.Select(Collapsed(pt(7, 0, 2))))

	path, err := e.SplitBlock(pt(1, 0, 2))
	require.NoError(t, err)
	assert.Equal(t, Path{1}, path)
	assert.Equal(t, "Add @brown_sugar \nslowly", e.Text())

	sel, _ := e.Selection()
	assert.Equal(t, Collapsed(pt(6, 1, 0)), sel)

	_, err = e.SplitBlock(pt(2, 0, 1, 0))
	assert.ErrorIs(t, err, ErrInvalidPoint)
}

func TestSelectRejectsDanglingPoints(t *testing.T) {
	e := sugarDoc()
	assert.ErrorIs(t, e.Select(Collapsed(pt(0, 0, 9))), ErrInvalidPoint)
	assert.ErrorIs(t, e.Select(Collapsed(pt(99, 0, 0))), ErrInvalidPoint)

	_, ok := e.Selection()
	assert.False(t, ok)
}
