package gp

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Format renders the tree as nested calls, e.g. "max(travel, sub(now, 0.25))".
// Constants use the shortest representation that parses back exactly.
func (t Tree) Format(g Grammar) string {
	if len(t.nodes) == 0 {
		return ""
	}
	var b strings.Builder
	t.format(&b, g, 0)
	return b.String()
}

func (t Tree) format(b *strings.Builder, g Grammar, i int) int {
	n := t.nodes[i]
	switch n.Kind {
	case KindConstant:
		b.WriteString(strconv.FormatFloat(n.Value, 'g', -1, 64))
		return i + 1
	case KindTerminal:
		if n.Feature >= 0 && n.Feature < len(g.Features) {
			b.WriteString(g.Features[n.Feature])
		} else {
			fmt.Fprintf(b, "f%d", n.Feature)
		}
		return i + 1
	default:
		b.WriteString(n.Op.String())
		b.WriteByte('(')
		next := t.format(b, g, i+1)
		b.WriteString(", ")
		next = t.format(b, g, next)
		b.WriteByte(')')
		return next
	}
}

// Parse reads a tree written by Format.
func Parse(g Grammar, s string) (Tree, error) {
	p := &parser{g: g, src: s}
	var nodes []Node
	if err := p.expr(&nodes); err != nil {
		return Tree{}, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return Tree{}, fmt.Errorf("gp: unexpected %q at offset %d", p.src[p.pos:], p.pos)
	}
	return FromNodes(nodes)
}

type parser struct {
	g   Grammar
	src string
	pos int
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && unicode.IsSpace(rune(p.src[p.pos])) {
		p.pos++
	}
}

func (p *parser) expect(c byte) error {
	p.skipSpace()
	if p.pos >= len(p.src) || p.src[p.pos] != c {
		return fmt.Errorf("gp: expected %q at offset %d", c, p.pos)
	}
	p.pos++
	return nil
}

func (p *parser) token() string {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == '(' || c == ')' || c == ',' || unicode.IsSpace(rune(c)) {
			break
		}
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *parser) expr(nodes *[]Node) error {
	tok := p.token()
	if tok == "" {
		return fmt.Errorf("gp: empty expression at offset %d", p.pos)
	}
	p.skipSpace()
	if p.pos < len(p.src) && p.src[p.pos] == '(' {
		op, ok := opByName(tok)
		if !ok {
			return fmt.Errorf("gp: unknown operator %q", tok)
		}
		p.pos++
		*nodes = append(*nodes, Node{Kind: KindFunction, Op: op})
		if err := p.expr(nodes); err != nil {
			return err
		}
		if err := p.expect(','); err != nil {
			return err
		}
		if err := p.expr(nodes); err != nil {
			return err
		}
		return p.expect(')')
	}
	if idx, ok := p.g.featureIndex(tok); ok {
		*nodes = append(*nodes, Node{Kind: KindTerminal, Feature: idx})
		return nil
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return fmt.Errorf("gp: unknown %s feature %q", p.g.Name, tok)
	}
	*nodes = append(*nodes, Node{Kind: KindConstant, Value: v})
	return nil
}
