package mention

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-steps-be/pkg/document"
)

func TestNormalizeSelection(t *testing.T) {
	token := document.Range{Anchor: pt(0, 0, 1, 0), Focus: pt(5, 0, 1, 0)}

	tests := []struct {
		name         string
		selection    document.Range
		want         document.Range
		wantSelected bool
	}{
		{
			name:      "cursor strictly inside snaps before the token",
			selection: document.Collapsed(pt(2, 0, 1, 0)),
			want:      document.Collapsed(pt(4, 0, 0)),
		},
		{
			name:      "cursor on the token start leaves the leaf",
			selection: document.Collapsed(pt(0, 0, 1, 0)),
			want:      document.Collapsed(pt(4, 0, 0)),
		},
		{
			name:      "cursor on the token end leaves the leaf",
			selection: document.Collapsed(pt(5, 0, 1, 0)),
			want:      document.Collapsed(pt(0, 0, 2)),
		},
		{
			name:      "plain cursor is untouched",
			selection: document.Collapsed(pt(2, 0, 2)),
			want:      document.Collapsed(pt(2, 0, 2)),
		},
		{
			name:      "range edge inside the token grows to cover it",
			selection: document.Range{Anchor: pt(1, 0, 0), Focus: pt(2, 0, 1, 0)},
			want:      document.Range{Anchor: pt(1, 0, 0), Focus: pt(0, 0, 2)},
		},
		{
			name:      "backward range keeps its direction",
			selection: document.Range{Anchor: pt(3, 0, 2), Focus: pt(3, 0, 1, 0)},
			want:      document.Range{Anchor: pt(3, 0, 2), Focus: pt(4, 0, 0)},
		},
		{
			name:         "range over exactly one token selects it",
			selection:    document.Range{Anchor: pt(4, 0, 0), Focus: pt(0, 0, 2)},
			want:         token,
			wantSelected: true,
		},
		{
			name:         "partial token range grows into a token selection",
			selection:    document.Range{Anchor: pt(1, 0, 1, 0), Focus: pt(4, 0, 1, 0)},
			want:         token,
			wantSelected: true,
		},
		{
			name:         "backward token selection",
			selection:    document.Range{Anchor: pt(0, 0, 2), Focus: pt(4, 0, 0)},
			want:         document.Range{Anchor: pt(5, 0, 1, 0), Focus: pt(0, 0, 1, 0)},
			wantSelected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := saltDoc()
			got, selected := NormalizeSelection(doc, tt.selection, nil)
			assert.Equal(t, tt.want, got)
			if tt.wantSelected {
				require.NotNil(t, selected)
				assert.Equal(t, document.Path{0, 1}, selected.Path)
				assert.Equal(t, token, selected.Range)
				assert.True(t, IsFullySelected(got, selected.Range))
			} else {
				assert.Nil(t, selected)
			}

			again, _ := NormalizeSelection(doc, got, selected)
			assert.Equal(t, got, again)
		})
	}
}

func TestNormalizeSelectionAfterTokenDeselect(t *testing.T) {
	doc := saltDoc()
	_, selected := NormalizeSelection(doc, document.Range{Anchor: pt(0, 0, 1, 0), Focus: pt(5, 0, 1, 0)}, nil)
	require.NotNil(t, selected)

	got, cleared := NormalizeSelection(doc, document.Collapsed(pt(3, 0, 2)), selected)
	assert.Nil(t, cleared)
	assert.Equal(t, document.Collapsed(pt(0, 0, 2)), got)

	got, _ = NormalizeSelection(doc, document.Collapsed(pt(2, 0, 0)), selected)
	assert.Equal(t, document.Collapsed(pt(2, 0, 0)), got)

	require.NoError(t, doc.RemoveNode(document.Path{0, 1}))
	got, _ = NormalizeSelection(doc, document.Collapsed(pt(6, 0, 0)), selected)
	assert.Equal(t, document.Collapsed(pt(6, 0, 0)), got)
}

func TestNormalizeSelectionStale(t *testing.T) {
	doc := saltDoc()
	stale := document.Collapsed(pt(0, 9, 0))
	got, selected := NormalizeSelection(doc, stale, nil)
	assert.Equal(t, stale, got)
	assert.Nil(t, selected)
}
