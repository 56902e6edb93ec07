package syntax

import "fmt"

// Kind tags every node with its grammar production. The set is closed: a
// frontend can only produce the kinds listed here.
type Kind uint8

const (
	KindInvalid Kind = iota

	// Expressions
	KindIdentifier
	KindThis
	KindLiteral
	KindBinary
	KindElementAccess
	KindMemberAccess
	KindInvocation
	KindObjectCreation
	KindParenthesized
	KindPrefixUnary
	KindPostfixUnary
	KindConditional
	KindCast
	KindLambda
	KindThrowExpression
	KindTypeRef

	// Statements
	KindBlock
	KindExpressionStatement
	KindLocalDeclaration
	KindReturn
	KindIf
	KindWhile
	KindForEach
	KindThrow
	KindTry
	KindCatch
	KindBreak
	KindContinue

	// Declarations and their parts
	KindCompilationUnit
	KindNamespace
	KindClass
	KindEnum
	KindField
	KindMethod
	KindProperty
	KindConstructor
	KindParameter
	KindVariableDeclarator

	kindCount
)

var kindNames = [...]string{
	KindInvalid:             "invalid",
	KindIdentifier:          "identifier",
	KindThis:                "this",
	KindLiteral:             "literal",
	KindBinary:              "binary-expression",
	KindElementAccess:       "element-access",
	KindMemberAccess:        "member-access",
	KindInvocation:          "invocation",
	KindObjectCreation:      "object-creation",
	KindParenthesized:       "parenthesized-expression",
	KindPrefixUnary:         "prefix-unary",
	KindPostfixUnary:        "postfix-unary",
	KindConditional:         "conditional-expression",
	KindCast:                "cast-expression",
	KindLambda:              "lambda",
	KindThrowExpression:     "throw-expression",
	KindTypeRef:             "type",
	KindBlock:               "block",
	KindExpressionStatement: "expression-statement",
	KindLocalDeclaration:    "local-declaration",
	KindReturn:              "return-statement",
	KindIf:                  "if-statement",
	KindWhile:               "while-statement",
	KindForEach:             "for-each-statement",
	KindThrow:               "throw-statement",
	KindTry:                 "try-statement",
	KindCatch:               "catch-clause",
	KindBreak:               "break-statement",
	KindContinue:            "continue-statement",
	KindCompilationUnit:     "compilation-unit",
	KindNamespace:           "namespace-declaration",
	KindClass:               "class-declaration",
	KindEnum:                "enum-declaration",
	KindField:               "field-declaration",
	KindMethod:              "method-declaration",
	KindProperty:            "property-declaration",
	KindConstructor:         "constructor-declaration",
	KindParameter:           "parameter",
	KindVariableDeclarator:  "variable-declarator",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// IsExpression reports whether k is an expression production.
func (k Kind) IsExpression() bool {
	return k >= KindIdentifier && k <= KindTypeRef
}

// IsStatement reports whether k is a statement production. Catch clauses
// count as statements since they carry a body.
func (k Kind) IsStatement() bool {
	return k >= KindBlock && k <= KindContinue
}

// IsDeclaration reports whether k belongs to declaration-level syntax.
func (k Kind) IsDeclaration() bool {
	return k >= KindCompilationUnit && k < kindCount
}

// Kinds returns every valid kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, int(kindCount)-1)
	for k := KindIdentifier; k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}
