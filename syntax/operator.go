package syntax

// Operator is the token joining the operands of a Binary expression.
type Operator uint8

const (
	OpInvalid Operator = iota

	OpAssign
	OpAddAssign
	OpSubAssign
	OpMulAssign
	OpDivAssign
	OpModAssign
	OpAndAssign
	OpOrAssign
	OpXorAssign
	OpShlAssign
	OpShrAssign

	OpCoalesce
	OpIs
	OpAs

	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpAndAlso
	OpOrElse
	OpAnd
	OpOr
	OpXor
	OpShl
	OpShr
)

var operatorTokens = [...]string{
	OpAssign:    "=",
	OpAddAssign: "+=",
	OpSubAssign: "-=",
	OpMulAssign: "*=",
	OpDivAssign: "/=",
	OpModAssign: "%=",
	OpAndAssign: "&=",
	OpOrAssign:  "|=",
	OpXorAssign: "^=",
	OpShlAssign: "<<=",
	OpShrAssign: ">>=",
	OpCoalesce:  "??",
	OpIs:        "is",
	OpAs:        "as",
	OpAdd:       "+",
	OpSub:       "-",
	OpMul:       "*",
	OpDiv:       "/",
	OpMod:       "%",
	OpEq:        "==",
	OpNe:        "!=",
	OpLt:        "<",
	OpLe:        "<=",
	OpGt:        ">",
	OpGe:        ">=",
	OpAndAlso:   "&&",
	OpOrElse:    "||",
	OpAnd:       "&",
	OpOr:        "|",
	OpXor:       "^",
	OpShl:       "<<",
	OpShr:       ">>",
}

var operatorsByToken = func() map[string]Operator {
	m := make(map[string]Operator, len(operatorTokens))
	for op, tok := range operatorTokens {
		if tok != "" {
			m[tok] = Operator(op)
		}
	}
	return m
}()

// String returns the source token, which Haxe shares for every operator that
// reaches the default translation.
func (op Operator) String() string {
	if int(op) < len(operatorTokens) && operatorTokens[op] != "" {
		return operatorTokens[op]
	}
	return "<invalid>"
}

// ParseOperator maps a source token to its Operator.
func ParseOperator(token string) (Operator, bool) {
	op, ok := operatorsByToken[token]
	return op, ok
}

// IsAssignment reports whether op writes to its left operand.
func (op Operator) IsAssignment() bool {
	return op >= OpAssign && op <= OpShrAssign
}
