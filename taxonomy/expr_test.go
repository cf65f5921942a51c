package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/brdgen/requirement"
)

func parseTestExpr(t *testing.T, raw any) Expr {
	t.Helper()
	p := &parser{}
	return p.parseExpr(raw)
}

func leaf(field, op string, value any) map[string]any {
	return map[string]any{"field": field, "op": op, "value": value}
}

func TestExpr_Exists(t *testing.T) {
	rec := requirement.Record{"title": "Login"}

	assert.True(t, parseTestExpr(t, leaf("requirement.title", "exists", true)).Eval(rec))
	assert.False(t, parseTestExpr(t, leaf("requirement.owner", "exists", true)).Eval(rec))

	// exists: false asserts absence.
	assert.True(t, parseTestExpr(t, leaf("requirement.owner", "exists", false)).Eval(rec))
	assert.False(t, parseTestExpr(t, leaf("requirement.title", "exists", false)).Eval(rec))

	// Non-boolean expected value means plain presence.
	assert.True(t, parseTestExpr(t, leaf("requirement.title", "exists", "yes")).Eval(rec))
}

func TestExpr_Eq(t *testing.T) {
	rec := requirement.Record{
		"kind": "Functional",
		"classification": map[string]any{
			"primary": "Business",
		},
	}

	assert.True(t, parseTestExpr(t, leaf("kind", "eq", "Functional")).Eval(rec))
	assert.True(t, parseTestExpr(t, leaf("classification.primary", "eq", "Business")).Eval(rec))
	assert.False(t, parseTestExpr(t, leaf("kind", "eq", "Business")).Eval(rec))
}

func TestExpr_In(t *testing.T) {
	rec := requirement.Record{"kind": "NonFunctional"}

	assert.True(t, parseTestExpr(t, leaf("kind", "in", []any{"Functional", "NonFunctional"})).Eval(rec))
	assert.False(t, parseTestExpr(t, leaf("kind", "in", []any{"Business"})).Eval(rec))

	// Expected must be a sequence.
	assert.False(t, parseTestExpr(t, leaf("kind", "in", "NonFunctional")).Eval(rec))
}

func TestExpr_Contains(t *testing.T) {
	rec := requirement.Record{
		"tags":      []any{"auth", "security"},
		"statement": "Users must reset passwords",
	}

	assert.True(t, parseTestExpr(t, leaf("tags", "contains", "auth")).Eval(rec))
	assert.False(t, parseTestExpr(t, leaf("tags", "contains", "billing")).Eval(rec))
	assert.True(t, parseTestExpr(t, leaf("statement", "contains", "reset")).Eval(rec))

	// Case-sensitive for plain contains.
	assert.False(t, parseTestExpr(t, leaf("statement", "contains", "RESET")).Eval(rec))

	// Neither sequence nor string/string.
	assert.False(t, parseTestExpr(t, leaf("statement", "contains", 1.0)).Eval(rec))
}

func TestExpr_ContainsText(t *testing.T) {
	rec := requirement.Record{
		"statement": "Users must reset passwords",
		"tags":      []any{"Auth", "Security"},
	}

	assert.True(t, parseTestExpr(t, leaf("statement", "containsText", "RESET")).Eval(rec))
	assert.True(t, parseTestExpr(t, leaf("tags", "containsText", "security")).Eval(rec))
	assert.False(t, parseTestExpr(t, leaf("tags", "containsText", "billing")).Eval(rec))
	assert.False(t, parseTestExpr(t, leaf("statement", "containsText", 5.0)).Eval(rec))
}

func TestExpr_UnknownOpFailsClosed(t *testing.T) {
	rec := requirement.Record{"title": "Login"}
	assert.False(t, parseTestExpr(t, leaf("title", "matches", ".*")).Eval(rec))
}

func TestExpr_AnyCombinator(t *testing.T) {
	rec := requirement.Record{"kind": "Business"}

	expr := parseTestExpr(t, map[string]any{"any": []any{
		leaf("kind", "eq", "Functional"),
		leaf("kind", "eq", "Business"),
	}})
	assert.True(t, expr.Eval(rec))

	expr = parseTestExpr(t, map[string]any{"any": []any{
		leaf("kind", "eq", "Functional"),
	}})
	assert.False(t, expr.Eval(rec))
}

func TestExpr_AllCombinator(t *testing.T) {
	rec := requirement.Record{"kind": "Business", "statement": "Revenue must be tracked"}

	expr := parseTestExpr(t, map[string]any{"all": []any{
		leaf("kind", "eq", "Business"),
		leaf("statement", "containsText", "revenue"),
	}})
	assert.True(t, expr.Eval(rec))

	expr = parseTestExpr(t, map[string]any{"all": []any{
		leaf("kind", "eq", "Business"),
		leaf("statement", "containsText", "cost"),
	}})
	assert.False(t, expr.Eval(rec))
}

func TestExpr_VacuousCombinatorsAreFalse(t *testing.T) {
	rec := requirement.Record{"anything": "x"}

	assert.False(t, parseTestExpr(t, map[string]any{"any": []any{}}).Eval(rec))
	assert.False(t, parseTestExpr(t, map[string]any{"all": []any{}}).Eval(rec))
}

func TestExpr_NonListCombinatorBodyIsMalformed(t *testing.T) {
	p := &parser{}
	expr := p.parseExpr(map[string]any{"any": "not a list"})

	assert.False(t, expr.Valid())
	assert.False(t, expr.Eval(requirement.Record{"x": "y"}))
	assert.Equal(t, 1, p.malformed)
}

func TestExpr_MalformedLeaves(t *testing.T) {
	rec := requirement.Record{"title": "Login"}

	// Missing op.
	p := &parser{}
	assert.False(t, p.parseExpr(map[string]any{"field": "title"}).Eval(rec))
	// Missing field.
	assert.False(t, p.parseExpr(map[string]any{"op": "exists"}).Eval(rec))
	// Not a mapping at all.
	assert.False(t, p.parseExpr("title exists").Eval(rec))
	assert.False(t, p.parseExpr(nil).Eval(rec))

	require.Equal(t, 4, p.malformed)
}

func TestExpr_NestedCombinators(t *testing.T) {
	rec := requirement.Record{"kind": "Architecture", "tags": []any{"platform"}}

	expr := parseTestExpr(t, map[string]any{"all": []any{
		leaf("kind", "eq", "Architecture"),
		map[string]any{"any": []any{
			leaf("tags", "contains", "platform"),
			leaf("tags", "contains", "infra"),
		}},
	}})
	assert.True(t, expr.Eval(rec))
}
