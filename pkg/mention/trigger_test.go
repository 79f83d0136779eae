package mention

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-steps-be/pkg/document"
)

func TestDetectTrigger(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		scanLimit int
		wantOK    bool
		wantQuery string
	}{
		{name: "hangul query", text: "Add @설", wantOK: true, wantQuery: "설"},
		{name: "bare at sign", text: "@", wantOK: true, wantQuery: ""},
		{name: "after whitespace", text: "mix\t@brown_su", wantOK: true, wantQuery: "brown_su"},
		{name: "preceded by a word character", text: "abc@", wantOK: false},
		{name: "email-like", text: "chef@kitchen", wantOK: false},
		{name: "whitespace before reaching at", text: "a @foo bar", wantOK: false},
		{name: "punctuation in query", text: "@foo-bar", wantOK: false},
		{name: "no at sign", text: "just text", wantOK: false},
		{name: "49 characters after at", text: "@" + strings.Repeat("a", 49), wantOK: true, wantQuery: strings.Repeat("a", 49)},
		{name: "50 characters after at exceeds the cap", text: "@" + strings.Repeat("a", 50), wantOK: false},
		{name: "51 characters without at", text: strings.Repeat("b", 51), wantOK: false},
		{name: "custom cap", text: "@abc", scanLimit: 3, wantOK: false},
		{name: "custom cap reached exactly", text: "@ab", scanLimit: 3, wantOK: true, wantQuery: "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := textDoc(tt.text)
			trig, ok := DetectTrigger(doc, endOf(doc, 0), tt.scanLimit)
			require.Equal(t, tt.wantOK, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.wantQuery, trig.SearchText)

			start := trig.Range.Start()
			next, ok := doc.After(start)
			require.True(t, ok)
			at, err := doc.String(document.Range{Anchor: start, Focus: next})
			require.NoError(t, err)
			assert.Equal(t, "@", at)
		})
	}
}

func TestDetectTriggerStaysInBlock(t *testing.T) {
	doc := textDoc("first line", "@ab")
	trig, ok := DetectTrigger(doc, endOf(doc, 1), 0)
	require.True(t, ok)
	assert.Equal(t, "ab", trig.SearchText)
	assert.Equal(t, pt(0, 1, 0), trig.Range.Anchor)

	doc = textDoc("@ab", "cd")
	_, ok = DetectTrigger(doc, endOf(doc, 1), 0)
	assert.False(t, ok)
}

func TestDetectTriggerAroundMentions(t *testing.T) {
	doc := document.New([]*document.Block{document.Paragraph(
		document.NewText("Add "),
		document.NewMention(document.KindIngredient, "ing-7", "salt"),
		document.NewText("x"),
	)})

	// "@saltx": the scan reaches the token's own "@" and the range would overlap it
	_, ok := DetectTrigger(doc, endOf(doc, 0), 0)
	assert.False(t, ok)

	_, ok = DetectTrigger(doc, document.Collapsed(pt(0, 0, 2)), 0)
	assert.False(t, ok)

	_, ok = DetectTrigger(doc, document.Collapsed(pt(3, 0, 1, 0)), 0)
	assert.False(t, ok)
}

func TestDetectTriggerNeedsCollapsedCursor(t *testing.T) {
	doc := textDoc("@abc")
	_, ok := DetectTrigger(doc, document.Range{Anchor: pt(1, 0, 0), Focus: pt(4, 0, 0)}, 0)
	assert.False(t, ok)
}
