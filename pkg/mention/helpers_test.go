package mention

import (
	"recipe-steps-be/pkg/document"
)

func pt(offset int, path ...int) document.Point {
	return document.Point{Path: document.Path(path), Offset: offset}
}

func textDoc(lines ...string) *document.Editor {
	blocks := make([]*document.Block, 0, len(lines))
	for _, l := range lines {
		blocks = append(blocks, document.Paragraph(document.NewText(l)))
	}
	return document.New(blocks)
}

// saltDoc is "Add @salt now": text [0,0] 0..4, mention [0,1] 4..9, text [0,2] 9..13
func saltDoc() *document.Editor {
	return document.New([]*document.Block{document.Paragraph(
		document.NewText("Add "),
		document.NewMention(document.KindIngredient, "ing-7", "salt"),
		document.NewText(" now"),
	)})
}

// endOf returns a collapsed range at the end of block b
func endOf(e *document.Editor, b int) document.Range {
	p, err := e.End(document.Path{b})
	if err != nil {
		panic(err)
	}
	return document.Collapsed(p)
}
