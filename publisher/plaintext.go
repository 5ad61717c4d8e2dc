package publisher

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var extraBlankLines = regexp.MustCompile(`\n{3,}`)

// PlainText flattens markdown into text LinkedIn renders well: LinkedIn shows
// markup literally, so headings become lines, list items get bullets or
// numbers, emphasis markers are dropped and links keep their target.
func PlainText(md string) (string, error) {
	src := []byte(md)
	doc := goldmark.DefaultParser().Parse(text.NewReader(src))

	var b strings.Builder
	// One entry per open list: -1 for bullets, else the next number.
	var lists []int

	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.Heading, *ast.Paragraph:
			if !entering {
				b.WriteString("\n\n")
			}
		case *ast.TextBlock:
			if !entering {
				b.WriteString("\n")
			}
		case *ast.List:
			if entering {
				next := -1
				if node.IsOrdered() {
					next = node.Start
				}
				lists = append(lists, next)
			} else {
				lists = lists[:len(lists)-1]
				if len(lists) == 0 {
					b.WriteString("\n")
				}
			}
		case *ast.ListItem:
			if entering && len(lists) > 0 {
				b.WriteString(strings.Repeat("  ", len(lists)-1))
				top := len(lists) - 1
				if lists[top] < 0 {
					b.WriteString("• ")
				} else {
					b.WriteString(fmt.Sprintf("%d. ", lists[top]))
					lists[top]++
				}
			}
		case *ast.Text:
			if entering {
				b.Write(node.Segment.Value(src))
				if node.HardLineBreak() || node.SoftLineBreak() {
					b.WriteString("\n")
				}
			}
		case *ast.String:
			if entering {
				b.Write(node.Value)
			}
		case *ast.AutoLink:
			if entering {
				b.Write(node.URL(src))
			}
			return ast.WalkSkipChildren, nil
		case *ast.Link:
			if !entering {
				b.WriteString(" (")
				b.Write(node.Destination)
				b.WriteString(")")
			}
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			if entering {
				lines := n.Lines()
				for i := 0; i < lines.Len(); i++ {
					seg := lines.At(i)
					b.Write(seg.Value(src))
				}
				b.WriteString("\n")
			}
			return ast.WalkSkipChildren, nil
		case *ast.HTMLBlock, *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		case *ast.ThematicBreak:
			if entering {
				b.WriteString("\n")
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return "", err
	}

	out := extraBlankLines.ReplaceAllString(b.String(), "\n\n")
	return strings.TrimSpace(out), nil
}
