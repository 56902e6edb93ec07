// Package emit writes Haxe declarations for the types of one C# unit. Each
// class or enum becomes its own .hx file; member bodies go through the
// translator.
package emit

import (
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/oxhq/cs2hx/sema"
	"github.com/oxhq/cs2hx/syntax"
	"github.com/oxhq/cs2hx/translator"
)

// Options control the generated text.
type Options struct {
	// Indent is the indent unit; empty means a tab.
	Indent string
}

// File is one generated Haxe source file.
type File struct {
	Path     string // relative, e.g. "game/core/Widget.hx"
	Package  string
	TypeName string
	Content  string
}

// Emit returns one file per class and enum in tree, in declaration order.
// The first member that fails to translate aborts the unit.
func Emit(tree *syntax.Tree, oracle sema.Oracle, opts Options) ([]File, error) {
	if tree == nil || tree.Root == nil {
		return nil, nil
	}
	if oracle == nil {
		oracle = sema.Null
	}
	e := &emitter{tree: tree, oracle: oracle, indent: opts.Indent}
	if err := e.members(tree.Root.Children(), ""); err != nil {
		return nil, err
	}
	return e.files, nil
}

type emitter struct {
	tree   *syntax.Tree
	oracle sema.Oracle
	indent string
	files  []File
}

func (e *emitter) members(nodes []syntax.Node, namespace string) error {
	for _, n := range nodes {
		var err error
		switch d := n.(type) {
		case *syntax.Namespace:
			err = e.members(d.Members, qualify(namespace, d.Name))
		case *syntax.Class:
			err = e.class(d, namespace)
		case *syntax.Enum:
			e.enum(d, namespace)
		default:
			err = fmt.Errorf("%s: cannot emit %s at namespace level", n.Loc(), n.Kind())
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func qualify(namespace, name string) string {
	if namespace == "" {
		return name
	}
	return namespace + "." + name
}

func (e *emitter) newFile(namespace, name string, w *translator.Writer) {
	pkg := strings.ToLower(namespace)
	file := name + ".hx"
	if pkg != "" {
		file = path.Join(strings.ReplaceAll(pkg, ".", "/"), file)
	}
	e.files = append(e.files, File{Path: file, Package: pkg, TypeName: name, Content: w.String()})
}

func header(w *translator.Writer, namespace string) {
	if namespace == "" {
		w.Write("package;\n\n")
		return
	}
	w.Write("package " + strings.ToLower(namespace) + ";\n\n")
}

// typeName converts a declared type reference, preferring what the oracle
// resolved.
func (e *emitter) typeName(ref *syntax.TypeRef) string {
	if ref == nil {
		return "Dynamic"
	}
	if t := e.oracle.DeclaredType(ref); t != nil {
		return translator.ConvertType(t)
	}
	return translator.ConvertType(sema.ParseTypeName(ref.Text, nil))
}

func (e *emitter) class(c *syntax.Class, namespace string) error {
	w := translator.NewWriter(e.indent)
	tr := translator.New(w, e.tree, e.oracle)
	header(w, namespace)
	w.Write("class " + c.Name + "\n")
	w.WriteOpenBrace()

	hasCtor := false
	for _, m := range c.Members {
		if ctor, ok := m.(*syntax.Constructor); ok && !ctor.Static {
			hasCtor = true
		}
	}

	// fields first so every function below can see them
	for _, m := range c.Members {
		switch m := m.(type) {
		case *syntax.Field:
			if err := e.field(w, tr, m); err != nil {
				return fmt.Errorf("%s: %w", c.Name, err)
			}
		case *syntax.Property:
			e.propertyVar(w, m)
		}
	}
	if !hasCtor && !c.Static {
		w.Write("\n")
		w.WriteLine("public function new()")
		w.WriteOpenBrace()
		w.WriteCloseBrace()
	}
	for _, m := range c.Members {
		var err error
		var name string
		switch m := m.(type) {
		case *syntax.Constructor:
			name = m.Name
			err = e.constructor(w, tr, m)
		case *syntax.Method:
			name = m.Name
			err = e.method(w, tr, m)
		case *syntax.Property:
			name = m.Name
			err = e.accessors(w, tr, m)
		}
		if err != nil {
			return fmt.Errorf("%s.%s: %w", c.Name, name, err)
		}
	}

	w.WriteCloseBrace()
	e.newFile(namespace, c.Name, w)
	return nil
}

func staticPrefix(static bool) string {
	if static {
		return "public static "
	}
	return "public "
}

func (e *emitter) field(w *translator.Writer, tr *translator.Translator, f *syntax.Field) error {
	typ := e.typeName(f.Type)
	if f.Event {
		typ = "CsEvent<" + typ + ">"
	}
	for _, v := range f.Vars {
		w.WriteIndent()
		w.Write(staticPrefix(f.Static) + "var " + v.Name + ":" + typ)
		switch {
		case f.Event:
			w.Write(" = new " + typ + "()")
		case v.Init != nil:
			w.Write(" = ")
			if err := tr.WriteConverted(v.Init); err != nil {
				return fmt.Errorf("%s: %w", v.Name, err)
			}
		}
		w.Write(";\n")
	}
	return nil
}

func isAuto(p *syntax.Property) bool {
	return p.Getter == nil && p.Setter == nil
}

func (e *emitter) propertyVar(w *translator.Writer, p *syntax.Property) {
	typ := e.typeName(p.Type)
	w.WriteIndent()
	w.Write(staticPrefix(p.Static) + "var " + p.Name)
	if !isAuto(p) {
		set := "never"
		if p.Setter != nil {
			set = "set"
		}
		w.Write("(get, " + set + ")")
	}
	w.Write(":" + typ + ";\n")
}

func (e *emitter) params(params []*syntax.Parameter) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.Name
		if p.Type != nil {
			parts[i] += ":" + e.typeName(p.Type)
		}
	}
	return strings.Join(parts, ", ")
}

func (e *emitter) constructor(w *translator.Writer, tr *translator.Translator, c *syntax.Constructor) error {
	w.Write("\n")
	if c.Static {
		w.WriteLine("static function __init__()")
	} else {
		w.WriteLine("public function new(" + e.params(c.Params) + ")")
	}
	if c.Body == nil {
		w.WriteOpenBrace()
		w.WriteCloseBrace()
		return nil
	}
	return tr.Translate(c.Body)
}

func (e *emitter) method(w *translator.Writer, tr *translator.Translator, m *syntax.Method) error {
	ret := "Void"
	if m.ReturnType != nil {
		ret = e.typeName(m.ReturnType)
	}
	w.Write("\n")
	w.WriteLine(staticPrefix(m.Static) + "function " + m.Name + "(" + e.params(m.Params) + "):" + ret)
	return e.body(w, tr, m.Body, ret != "Void", "")
}

// body writes a function body. An expression body becomes a single return
// or expression statement; trailer, when set, is appended as a last line.
func (e *emitter) body(w *translator.Writer, tr *translator.Translator, body syntax.Node, returns bool, trailer string) error {
	switch b := body.(type) {
	case *syntax.Block:
		if trailer == "" {
			return tr.Translate(b)
		}
		w.WriteOpenBrace()
		for _, s := range b.Stmts {
			if err := tr.Translate(s); err != nil {
				return err
			}
		}
		w.WriteLine(trailer)
		w.WriteCloseBrace()
		return nil
	case syntax.Expr:
		w.WriteOpenBrace()
		w.WriteIndent()
		if returns {
			w.Write("return ")
			if err := tr.WriteConverted(b); err != nil {
				return err
			}
		} else if err := tr.Translate(b); err != nil {
			return err
		}
		w.Write(";\n")
		if trailer != "" {
			w.WriteLine(trailer)
		}
		w.WriteCloseBrace()
		return nil
	}
	w.WriteOpenBrace()
	if trailer != "" {
		w.WriteLine(trailer)
	}
	w.WriteCloseBrace()
	return nil
}

func (e *emitter) accessors(w *translator.Writer, tr *translator.Translator, p *syntax.Property) error {
	if isAuto(p) {
		return nil
	}
	typ := e.typeName(p.Type)
	prefix := "function "
	if p.Static {
		prefix = "static function "
	}
	if p.Getter != nil {
		w.Write("\n")
		w.WriteLine(prefix + "get_" + p.Name + "():" + typ)
		if err := e.body(w, tr, p.Getter, true, ""); err != nil {
			return err
		}
	}
	if p.Setter != nil {
		w.Write("\n")
		w.WriteLine(prefix + "set_" + p.Name + "(value:" + typ + "):" + typ)
		if err := e.body(w, tr, p.Setter, false, "return value;"); err != nil {
			return err
		}
	}
	return nil
}

// enum writes a class of inline Int constants plus a ToString lookup.
// Members without a value continue from the previous one, as in C#.
func (e *emitter) enum(en *syntax.Enum, namespace string) {
	w := translator.NewWriter(e.indent)
	header(w, namespace)
	w.Write("class " + en.Name + "\n")
	w.WriteOpenBrace()

	next := "0"
	for _, m := range en.Members {
		value := m.Value
		if value == "" {
			value = next
		}
		w.WriteLine("public static inline var " + m.Name + ":Int = " + value + ";")
		if n, err := strconv.ParseInt(value, 0, 64); err == nil {
			next = strconv.FormatInt(n+1, 10)
		} else {
			next = m.Name + " + 1"
		}
	}

	w.Write("\n")
	w.WriteLine("public static function ToString(e:Int):String")
	w.WriteOpenBrace()
	for _, m := range en.Members {
		w.WriteLine("if (e == " + m.Name + ")")
		w.WriteOpenBrace()
		w.WriteLine("return \"" + m.Name + "\";")
		w.WriteCloseBrace()
	}
	w.WriteLine("return Std.string(e);")
	w.WriteCloseBrace()

	w.WriteCloseBrace()
	e.newFile(namespace, en.Name, w)
}
