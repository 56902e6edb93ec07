// Package translator turns C# statements and expressions into Haxe text.
//
// A Translator walks one syntax.Tree depth-first, asks a sema.Oracle for the
// types it needs and writes fragments to a Sink. Every handler recurses
// through Translate, so a construct translates the same way wherever it is
// nested. Untranslatable input yields a *Error and no recovery is attempted.
package translator

import (
	"github.com/oxhq/cs2hx/sema"
	"github.com/oxhq/cs2hx/syntax"
)

// Translator holds the state of one unit's translation. It is not safe for
// concurrent use; translate independent units with separate Translators.
type Translator struct {
	out    Sink
	tree   *syntax.Tree
	oracle sema.Oracle
}

// New returns a Translator writing to out. A nil oracle answers nothing.
func New(out Sink, tree *syntax.Tree, oracle sema.Oracle) *Translator {
	if oracle == nil {
		oracle = sema.Null
	}
	return &Translator{out: out, tree: tree, oracle: oracle}
}

// Translate is the single entry point for declaration-level code.
func Translate(out Sink, tree *syntax.Tree, oracle sema.Oracle, n syntax.Node) error {
	return New(out, tree, oracle).Translate(n)
}

// Translate writes n. Nodes without a handler, declarations included, fail
// with NodeKindUnsupported.
func (t *Translator) Translate(n syntax.Node) error {
	if n == nil {
		return errorAt(NodeKindUnsupported, nil, "missing node")
	}
	h := handlerFor(n.Kind())
	if h == nil {
		return errorAt(NodeKindUnsupported, n, "no translation for %s", n.Kind())
	}
	return h(t, n)
}

// Oracle returns the oracle the translator consults.
func (t *Translator) Oracle() sema.Oracle { return t.oracle }

type handler func(*Translator, syntax.Node) error

// on adapts a handler for one concrete node type.
func on[N syntax.Node](fn func(*Translator, N) error) handler {
	return func(t *Translator, n syntax.Node) error {
		v, ok := n.(N)
		if !ok {
			return errorAt(NodeKindUnsupported, n, "unexpected node %T for %s", n, n.Kind())
		}
		return fn(t, v)
	}
}

func handlerFor(k syntax.Kind) handler {
	switch k {
	case syntax.KindIdentifier:
		return on((*Translator).identifier)
	case syntax.KindThis:
		return on((*Translator).this)
	case syntax.KindLiteral:
		return on((*Translator).literal)
	case syntax.KindBinary:
		return on((*Translator).binary)
	case syntax.KindElementAccess:
		return on((*Translator).elementAccess)
	case syntax.KindMemberAccess:
		return on((*Translator).memberAccess)
	case syntax.KindInvocation:
		return on((*Translator).invocation)
	case syntax.KindObjectCreation:
		return on((*Translator).objectCreation)
	case syntax.KindParenthesized:
		return on((*Translator).parenthesized)
	case syntax.KindPrefixUnary:
		return on((*Translator).prefixUnary)
	case syntax.KindPostfixUnary:
		return on((*Translator).postfixUnary)
	case syntax.KindConditional:
		return on((*Translator).conditional)
	case syntax.KindCast:
		return on((*Translator).cast)
	case syntax.KindLambda:
		return on((*Translator).lambda)
	case syntax.KindThrowExpression:
		return on((*Translator).throwExpression)
	case syntax.KindTypeRef:
		return on((*Translator).typeRef)

	case syntax.KindBlock:
		return on((*Translator).block)
	case syntax.KindExpressionStatement:
		return on((*Translator).expressionStatement)
	case syntax.KindLocalDeclaration:
		return on((*Translator).localDeclaration)
	case syntax.KindReturn:
		return on((*Translator).returnStatement)
	case syntax.KindIf:
		return on((*Translator).ifStatement)
	case syntax.KindWhile:
		return on((*Translator).whileStatement)
	case syntax.KindForEach:
		return on((*Translator).forEach)
	case syntax.KindThrow:
		return on((*Translator).throwStatement)
	case syntax.KindTry:
		return on((*Translator).tryStatement)
	case syntax.KindCatch:
		return on((*Translator).catchClause)
	case syntax.KindBreak:
		return on((*Translator).breakStatement)
	case syntax.KindContinue:
		return on((*Translator).continueStatement)
	}
	return nil
}

// typeOf prefers the converted type and falls back to the declared one.
func (t *Translator) typeOf(n syntax.Node) *sema.Type {
	if ct := t.oracle.ConvertedType(n); ct != nil {
		return ct
	}
	return t.oracle.DeclaredType(n)
}

// writeList translates nodes separated by ", ".
func (t *Translator) writeList(nodes []syntax.Expr, each func(syntax.Expr) error) error {
	for i, n := range nodes {
		if i > 0 {
			t.out.Write(", ")
		}
		if err := each(n); err != nil {
			return err
		}
	}
	return nil
}

func (t *Translator) expr(e syntax.Expr) error { return t.Translate(e) }
