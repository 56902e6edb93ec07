package syntax

import "fmt"

// NodeID indexes a node inside its Tree. Zero means "not attached".
type NodeID int32

// Location in source code
type Location struct {
	File   string `json:"file,omitempty"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

func (l Location) String() string {
	if l.File == "" {
		return fmt.Sprintf("%d:%d", l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// IsZero reports whether the location was never set.
func (l Location) IsZero() bool {
	return l.Line == 0 && l.Column == 0 && l.File == ""
}

// Node is implemented by every syntax node. Nodes never point at their
// parent; Tree records that relation.
type Node interface {
	ID() NodeID
	Kind() Kind
	Loc() Location
	Children() []Node
	attach(id NodeID)
}

// Expr is a node usable in expression position.
type Expr interface {
	Node
	exprNode()
}

// Stmt is a node usable in statement position.
type Stmt interface {
	Node
	stmtNode()
}

// Span is embedded by every node and carries its position and tree slot.
type Span struct {
	Pos Location
	id  NodeID
}

// At builds a Span for frontends that know where a node came from.
func At(loc Location) Span { return Span{Pos: loc} }

func (s *Span) ID() NodeID       { return s.id }
func (s *Span) Loc() Location    { return s.Pos }
func (s *Span) attach(id NodeID) { s.id = id }

type exprMarker struct{}

func (exprMarker) exprNode() {}

type stmtMarker struct{}

func (stmtMarker) stmtNode() {}

// collect drops absent interface values.
func collect(nodes ...Node) []Node {
	out := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}

// Expressions

type Identifier struct {
	Span
	exprMarker
	Name string
}

func (*Identifier) Kind() Kind       { return KindIdentifier }
func (*Identifier) Children() []Node { return nil }

type This struct {
	Span
	exprMarker
}

func (*This) Kind() Kind       { return KindThis }
func (*This) Children() []Node { return nil }

// LiteralKind classifies a literal token.
type LiteralKind uint8

const (
	LitInt LiteralKind = iota
	LitReal
	LitString
	LitVerbatimString
	LitChar
	LitBool
	LitNull
)

// Literal keeps the literal exactly as written in the source.
type Literal struct {
	Span
	exprMarker
	LitKind LiteralKind
	Text    string
}

func (*Literal) Kind() Kind       { return KindLiteral }
func (*Literal) Children() []Node { return nil }

// Binary covers every two-operand form, assignments included.
type Binary struct {
	Span
	exprMarker
	Left  Expr
	Op    Operator
	Right Expr
}

func (*Binary) Kind() Kind         { return KindBinary }
func (b *Binary) Children() []Node { return collect(b.Left, b.Right) }

type ElementAccess struct {
	Span
	exprMarker
	Object Expr
	Args   []Expr
}

func (*ElementAccess) Kind() Kind { return KindElementAccess }
func (e *ElementAccess) Children() []Node {
	out := collect(e.Object)
	for _, a := range e.Args {
		out = append(out, a)
	}
	return out
}

type MemberAccess struct {
	Span
	exprMarker
	Object Expr
	Name   string
}

func (*MemberAccess) Kind() Kind         { return KindMemberAccess }
func (m *MemberAccess) Children() []Node { return collect(m.Object) }

type Invocation struct {
	Span
	exprMarker
	Func Expr
	Args []Expr
}

func (*Invocation) Kind() Kind { return KindInvocation }
func (c *Invocation) Children() []Node {
	out := collect(c.Func)
	for _, a := range c.Args {
		out = append(out, a)
	}
	return out
}

type ObjectCreation struct {
	Span
	exprMarker
	Type *TypeRef
	Args []Expr
}

func (*ObjectCreation) Kind() Kind { return KindObjectCreation }
func (o *ObjectCreation) Children() []Node {
	var out []Node
	if o.Type != nil {
		out = append(out, o.Type)
	}
	for _, a := range o.Args {
		out = append(out, a)
	}
	return out
}

type Parenthesized struct {
	Span
	exprMarker
	Inner Expr
}

func (*Parenthesized) Kind() Kind         { return KindParenthesized }
func (p *Parenthesized) Children() []Node { return collect(p.Inner) }

// PrefixUnary is `op operand`; Op is the raw token (++, --, !, -, +, ~).
type PrefixUnary struct {
	Span
	exprMarker
	Op      string
	Operand Expr
}

func (*PrefixUnary) Kind() Kind         { return KindPrefixUnary }
func (u *PrefixUnary) Children() []Node { return collect(u.Operand) }

// PostfixUnary is `operand op` for ++ and --.
type PostfixUnary struct {
	Span
	exprMarker
	Operand Expr
	Op      string
}

func (*PostfixUnary) Kind() Kind         { return KindPostfixUnary }
func (u *PostfixUnary) Children() []Node { return collect(u.Operand) }

type Conditional struct {
	Span
	exprMarker
	Cond Expr
	Then Expr
	Else Expr
}

func (*Conditional) Kind() Kind         { return KindConditional }
func (c *Conditional) Children() []Node { return collect(c.Cond, c.Then, c.Else) }

// Cast is the C-style `(T)value` conversion.
type Cast struct {
	Span
	exprMarker
	Type  *TypeRef
	Value Expr
}

func (*Cast) Kind() Kind { return KindCast }
func (c *Cast) Children() []Node {
	var out []Node
	if c.Type != nil {
		out = append(out, c.Type)
	}
	return append(out, collect(c.Value)...)
}

// Lambda has either an expression body or a *Block body.
type Lambda struct {
	Span
	exprMarker
	Params []*Parameter
	Body   Node
}

func (*Lambda) Kind() Kind { return KindLambda }
func (l *Lambda) Children() []Node {
	var out []Node
	for _, p := range l.Params {
		out = append(out, p)
	}
	return append(out, collect(l.Body)...)
}

type ThrowExpression struct {
	Span
	exprMarker
	Value Expr
}

func (*ThrowExpression) Kind() Kind         { return KindThrowExpression }
func (t *ThrowExpression) Children() []Node { return collect(t.Value) }

// TypeRef is type syntax as written, e.g. "Dictionary<string, int>" or "var".
// Its resolved type comes from the oracle.
type TypeRef struct {
	Span
	exprMarker
	Text string
}

func (*TypeRef) Kind() Kind       { return KindTypeRef }
func (*TypeRef) Children() []Node { return nil }

// Statements

type Block struct {
	Span
	stmtMarker
	Stmts []Stmt
}

func (*Block) Kind() Kind { return KindBlock }
func (b *Block) Children() []Node {
	out := make([]Node, 0, len(b.Stmts))
	for _, s := range b.Stmts {
		out = append(out, s)
	}
	return out
}

type ExpressionStatement struct {
	Span
	stmtMarker
	Expr Expr
}

func (*ExpressionStatement) Kind() Kind         { return KindExpressionStatement }
func (s *ExpressionStatement) Children() []Node { return collect(s.Expr) }

type VariableDeclarator struct {
	Span
	Name string
	Init Expr
}

func (*VariableDeclarator) Kind() Kind         { return KindVariableDeclarator }
func (v *VariableDeclarator) Children() []Node { return collect(v.Init) }

// LocalDeclaration declares one or more locals sharing a type.
type LocalDeclaration struct {
	Span
	stmtMarker
	Type *TypeRef
	Vars []*VariableDeclarator
}

func (*LocalDeclaration) Kind() Kind { return KindLocalDeclaration }
func (d *LocalDeclaration) Children() []Node {
	var out []Node
	if d.Type != nil {
		out = append(out, d.Type)
	}
	for _, v := range d.Vars {
		out = append(out, v)
	}
	return out
}

type Return struct {
	Span
	stmtMarker
	Value Expr
}

func (*Return) Kind() Kind         { return KindReturn }
func (r *Return) Children() []Node { return collect(r.Value) }

type If struct {
	Span
	stmtMarker
	Cond Expr
	Then Stmt
	Else Stmt
}

func (*If) Kind() Kind { return KindIf }
func (s *If) Children() []Node {
	out := collect(s.Cond, s.Then)
	if s.Else != nil {
		out = append(out, s.Else)
	}
	return out
}

type While struct {
	Span
	stmtMarker
	Cond Expr
	Body Stmt
}

func (*While) Kind() Kind         { return KindWhile }
func (s *While) Children() []Node { return collect(s.Cond, s.Body) }

// ForEach is `foreach (Type Var in Collection) Body`.
type ForEach struct {
	Span
	stmtMarker
	Type       *TypeRef
	Var        string
	Collection Expr
	Body       Stmt
}

func (*ForEach) Kind() Kind { return KindForEach }
func (s *ForEach) Children() []Node {
	var out []Node
	if s.Type != nil {
		out = append(out, s.Type)
	}
	return append(out, collect(s.Collection, s.Body)...)
}

// Throw with a nil Value is a bare rethrow.
type Throw struct {
	Span
	stmtMarker
	Value Expr
}

func (*Throw) Kind() Kind         { return KindThrow }
func (s *Throw) Children() []Node { return collect(s.Value) }

// Try keeps Finally so translators can reject it; Haxe has no finally.
type Try struct {
	Span
	stmtMarker
	Body    *Block
	Catches []*Catch
	Finally *Block
}

func (*Try) Kind() Kind { return KindTry }
func (s *Try) Children() []Node {
	var out []Node
	if s.Body != nil {
		out = append(out, s.Body)
	}
	for _, c := range s.Catches {
		out = append(out, c)
	}
	if s.Finally != nil {
		out = append(out, s.Finally)
	}
	return out
}

// Catch clause; Type and Name are both optional.
type Catch struct {
	Span
	stmtMarker
	Type *TypeRef
	Name string
	Body *Block
}

func (*Catch) Kind() Kind { return KindCatch }
func (c *Catch) Children() []Node {
	var out []Node
	if c.Type != nil {
		out = append(out, c.Type)
	}
	if c.Body != nil {
		out = append(out, c.Body)
	}
	return out
}

type Break struct {
	Span
	stmtMarker
}

func (*Break) Kind() Kind       { return KindBreak }
func (*Break) Children() []Node { return nil }

type Continue struct {
	Span
	stmtMarker
}

func (*Continue) Kind() Kind       { return KindContinue }
func (*Continue) Children() []Node { return nil }

// Declarations

type CompilationUnit struct {
	Span
	Members []Node
}

func (*CompilationUnit) Kind() Kind         { return KindCompilationUnit }
func (u *CompilationUnit) Children() []Node { return u.Members }

type Namespace struct {
	Span
	Name    string
	Members []Node
}

func (*Namespace) Kind() Kind         { return KindNamespace }
func (n *Namespace) Children() []Node { return n.Members }

// Class also carries structs; Haxe has a single class form for both.
type Class struct {
	Span
	Name    string
	Static  bool
	Members []Node
}

func (*Class) Kind() Kind         { return KindClass }
func (c *Class) Children() []Node { return c.Members }

type EnumMember struct {
	Name  string
	Value string
}

type Enum struct {
	Span
	Name    string
	Members []EnumMember
}

func (*Enum) Kind() Kind       { return KindEnum }
func (*Enum) Children() []Node { return nil }

// Field declares fields or, with Event set, field-like events.
type Field struct {
	Span
	Type   *TypeRef
	Vars   []*VariableDeclarator
	Static bool
	Event  bool
}

func (*Field) Kind() Kind { return KindField }
func (f *Field) Children() []Node {
	var out []Node
	if f.Type != nil {
		out = append(out, f.Type)
	}
	for _, v := range f.Vars {
		out = append(out, v)
	}
	return out
}

type Parameter struct {
	Span
	Name string
	Type *TypeRef
}

func (*Parameter) Kind() Kind { return KindParameter }
func (p *Parameter) Children() []Node {
	if p.Type == nil {
		return nil
	}
	return []Node{p.Type}
}

// Method body is a *Block, an expression for `=>` members, or nil.
type Method struct {
	Span
	Name       string
	ReturnType *TypeRef
	Params     []*Parameter
	Body       Node
	Static     bool
}

func (*Method) Kind() Kind { return KindMethod }
func (m *Method) Children() []Node {
	var out []Node
	if m.ReturnType != nil {
		out = append(out, m.ReturnType)
	}
	for _, p := range m.Params {
		out = append(out, p)
	}
	return append(out, collect(m.Body)...)
}

// Property accessors are nil for auto-implemented properties. Getter is an
// expression for `=> expr` properties.
type Property struct {
	Span
	Name   string
	Type   *TypeRef
	Getter Node
	Setter *Block
	Static bool
}

func (*Property) Kind() Kind { return KindProperty }
func (p *Property) Children() []Node {
	var out []Node
	if p.Type != nil {
		out = append(out, p.Type)
	}
	out = append(out, collect(p.Getter)...)
	if p.Setter != nil {
		out = append(out, p.Setter)
	}
	return out
}

type Constructor struct {
	Span
	Name   string
	Params []*Parameter
	Body   *Block
	Static bool
}

func (*Constructor) Kind() Kind { return KindConstructor }
func (c *Constructor) Children() []Node {
	var out []Node
	for _, p := range c.Params {
		out = append(out, p)
	}
	if c.Body != nil {
		out = append(out, c.Body)
	}
	return out
}
