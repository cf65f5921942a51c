package taxonomy

import (
	"github.com/c360studio/brdgen/requirement"
)

// exprKind discriminates the match-expression variants.
type exprKind int

const (
	exprInvalid exprKind = iota
	exprAny
	exprAll
	exprLeaf
)

// Expr is one node of a parsed match-expression tree: either a combinator
// (any/all over children) or a leaf comparison (field, op, value). Malformed
// configuration parses to an invalid node that always evaluates false, so a
// bad rule degrades to "does not match" instead of failing a run.
type Expr struct {
	kind     exprKind
	children []Expr

	field string
	op    Op
	value any
}

// Valid reports whether the node parsed to a well-formed shape.
func (e Expr) Valid() bool { return e.kind != exprInvalid }

// Eval evaluates the expression against a requirement record. Evaluation
// never panics and never errors.
func (e Expr) Eval(rec requirement.Record) bool {
	switch e.kind {
	case exprAny:
		for _, child := range e.children {
			if child.Eval(rec) {
				return true
			}
		}
		return false
	case exprAll:
		// An empty all-list matches nothing, never everything.
		if len(e.children) == 0 {
			return false
		}
		for _, child := range e.children {
			if !child.Eval(rec) {
				return false
			}
		}
		return true
	case exprLeaf:
		return evalOp(requirement.Resolve(rec, e.field), e.op, e.value)
	default:
		return false
	}
}

// parser accumulates diagnostics while building expression trees from raw
// decoded configuration.
type parser struct {
	malformed int
}

// parseExpr builds one expression node from a raw decoded value. Any shape
// that is neither a combinator nor a well-formed leaf is counted and parsed
// to an invalid node.
func (p *parser) parseExpr(raw any) Expr {
	node, ok := raw.(map[string]any)
	if !ok {
		p.malformed++
		return Expr{}
	}

	if items, present := node["any"]; present {
		return p.parseCombinator(exprAny, items)
	}
	if items, present := node["all"]; present {
		return p.parseCombinator(exprAll, items)
	}

	field, fieldOK := node["field"].(string)
	op, opOK := node["op"].(string)
	if !fieldOK || !opOK {
		p.malformed++
		return Expr{}
	}
	return Expr{kind: exprLeaf, field: field, op: Op(op), value: node["value"]}
}

func (p *parser) parseCombinator(kind exprKind, items any) Expr {
	list, ok := items.([]any)
	if !ok {
		p.malformed++
		return Expr{}
	}
	children := make([]Expr, 0, len(list))
	for _, item := range list {
		children = append(children, p.parseExpr(item))
	}
	return Expr{kind: kind, children: children}
}
