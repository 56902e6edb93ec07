package translator

import (
	"fmt"

	"github.com/oxhq/cs2hx/syntax"
)

// ErrorKind names a construct the translator refuses to translate.
type ErrorKind uint8

const (
	NodeKindUnsupported ErrorKind = iota + 1
	NullableMisuse
	UnsupportedCastTarget
	InvalidArrayIndexArity
	RethrowOutsideCatch
	NoEnclosingBody
	UnexpectedIndexOperator
)

var errorKindNames = map[ErrorKind]string{
	NodeKindUnsupported:     "node kind unsupported",
	NullableMisuse:          "nullable misuse",
	UnsupportedCastTarget:   "unsupported cast target",
	InvalidArrayIndexArity:  "invalid array index arity",
	RethrowOutsideCatch:     "rethrow outside catch",
	NoEnclosingBody:         "no enclosing body",
	UnexpectedIndexOperator: "unexpected index operator",
}

func (k ErrorKind) String() string {
	if s, ok := errorKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("error kind %d", uint8(k))
}

// Error reports an untranslatable node. It aborts the whole unit.
type Error struct {
	Kind     ErrorKind
	NodeKind syntax.Kind
	Loc      syntax.Location
	Detail   string
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.NodeKind != syntax.KindInvalid {
		msg += " in " + e.NodeKind.String()
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if !e.Loc.IsZero() {
		msg = e.Loc.String() + ": " + msg
	}
	return msg
}

// Is matches any *Error of the same kind, so the sentinels below work with
// errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrNodeKindUnsupported     = &Error{Kind: NodeKindUnsupported}
	ErrNullableMisuse          = &Error{Kind: NullableMisuse}
	ErrUnsupportedCastTarget   = &Error{Kind: UnsupportedCastTarget}
	ErrInvalidArrayIndexArity  = &Error{Kind: InvalidArrayIndexArity}
	ErrRethrowOutsideCatch     = &Error{Kind: RethrowOutsideCatch}
	ErrNoEnclosingBody         = &Error{Kind: NoEnclosingBody}
	ErrUnexpectedIndexOperator = &Error{Kind: UnexpectedIndexOperator}
)

func errorAt(kind ErrorKind, n syntax.Node, format string, args ...any) *Error {
	e := &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
	if n != nil {
		e.NodeKind = n.Kind()
		e.Loc = n.Loc()
	}
	return e
}
