package callsites

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"

	"swaplint/internal/args"
	"swaplint/internal/source"
)

// JavaExtractor reads method invocations from Java sources.
type JavaExtractor struct{}

// NewJavaExtractor creates the Java extractor.
func NewJavaExtractor() *JavaExtractor {
	return &JavaExtractor{}
}

func (x *JavaExtractor) Language() string {
	return "java"
}

func (x *JavaExtractor) Extensions() []string {
	return []string{".java"}
}

// javaLiterals are the grammar node types denoting compile-time constants.
var javaLiterals = map[string]bool{
	"decimal_integer_literal":        true,
	"hex_integer_literal":            true,
	"octal_integer_literal":          true,
	"binary_integer_literal":         true,
	"decimal_floating_point_literal": true,
	"hex_floating_point_literal":     true,
	"true":                           true,
	"false":                          true,
	"character_literal":              true,
	"string_literal":                 true,
	"text_block":                     true,
	"null_literal":                   true,
	"class_literal":                  true,
}

func isJavaComment(t string) bool {
	return t == "line_comment" || t == "block_comment"
}

func (x *JavaExtractor) Extract(file *source.File) ([]Call, error) {
	// One parser per call keeps Extract safe under the driver's worker pool.
	p := sitter.NewParser()
	p.SetLanguage(java.GetLanguage())
	tree, err := p.ParseCtx(context.Background(), nil, file.Content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", file.Path, err)
	}
	defer tree.Close()

	var calls []Call
	x.walk(tree.RootNode(), file, javaScope{}, &calls)
	sortCalls(calls)
	return calls, nil
}

// javaScope carries the nearest enclosing method or constructor down the walk.
type javaScope struct {
	name        string
	span        source.Span
	annotations []string
}

func (x *JavaExtractor) walk(node *sitter.Node, file *source.File, sc javaScope, out *[]Call) {
	switch node.Type() {
	case "method_declaration", "constructor_declaration":
		sc = x.readScope(node, file)
	case "method_invocation":
		if call, ok := x.readInvocation(node, file, sc); ok {
			*out = append(*out, call)
		}
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		x.walk(node.Child(i), file, sc, out)
	}
}

func (x *JavaExtractor) readScope(node *sitter.Node, file *source.File) javaScope {
	sc := javaScope{span: nodeSpan(file.ID, node)}
	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		sc.name = nameNode.Content(file.Content)
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() != "modifiers" {
			continue
		}
		for j := 0; j < int(child.ChildCount()); j++ {
			mod := child.Child(j)
			if mod.Type() != "marker_annotation" && mod.Type() != "annotation" {
				continue
			}
			if nameNode := mod.ChildByFieldName("name"); nameNode != nil {
				sc.annotations = append(sc.annotations, nameNode.Content(file.Content))
			}
		}
	}
	return sc
}

func (x *JavaExtractor) readInvocation(node *sitter.Node, file *source.File, sc javaScope) (Call, bool) {
	nameNode := node.ChildByFieldName("name")
	argsNode := node.ChildByFieldName("arguments")
	if nameNode == nil || argsNode == nil {
		return Call{}, false
	}
	call := Call{
		Span:                 nodeSpan(file.ID, node),
		ArgListSpan:          nodeSpan(file.ID, argsNode),
		Callee:               nameNode.Content(file.Content),
		Enclosing:            sc.name,
		EnclosingSpan:        sc.span,
		EnclosingAnnotations: sc.annotations,
	}
	if obj := node.ChildByFieldName("object"); obj != nil {
		call.Qualifier = strings.TrimSpace(obj.Content(file.Content))
	}
	for i := 0; i < int(argsNode.NamedChildCount()); i++ {
		child := argsNode.NamedChild(i)
		if child == nil || isJavaComment(child.Type()) {
			continue
		}
		call.Args = append(call.Args, x.classify(child, file))
	}
	return call, true
}

// classify maps one argument expression to its syntactic description.
func (x *JavaExtractor) classify(node *sitter.Node, file *source.File) Arg {
	a := Arg{
		Span: nodeSpan(file.ID, node),
		Text: node.Content(file.Content),
	}
	switch t := node.Type(); {
	case javaLiterals[t]:
		a.Kind = args.KindLiteral
		a.Constant = true

	case t == "identifier":
		a.Kind = args.KindIdentifier
		a.Name = a.Text
		a.Constant = isConstantCase(a.Name)

	case t == "field_access":
		a.Kind = args.KindMemberSelect
		if fld := node.ChildByFieldName("field"); fld != nil {
			a.Name = fld.Content(file.Content)
		}
		a.Constant = isConstantCase(a.Name)
		if obj := node.ChildByFieldName("object"); obj != nil && a.Constant {
			a.Enum = isTypeName(lastSegment(obj.Content(file.Content)))
		}

	case t == "method_invocation":
		if nameNode := node.ChildByFieldName("name"); nameNode != nil {
			a.Name = nameNode.Content(file.Content)
		}

	case t == "object_creation_expression":
		if typeNode := node.ChildByFieldName("type"); typeNode != nil {
			a.TypeHint = typeNode.Content(file.Content)
		}

	case t == "cast_expression":
		if typeNode := node.ChildByFieldName("type"); typeNode != nil {
			a.TypeHint = typeNode.Content(file.Content)
		}

	case t == "unary_expression":
		// Negated and signed literals stay constants.
		if op := node.ChildByFieldName("operand"); op != nil && javaLiterals[op.Type()] {
			a.Kind = args.KindLiteral
			a.Constant = true
		}

	case t == "parenthesized_expression":
		for i := 0; i < int(node.NamedChildCount()); i++ {
			inner := node.NamedChild(i)
			if inner == nil || isJavaComment(inner.Type()) {
				continue
			}
			// The inner expression decides the kind; the outer parentheses
			// stay part of the replaceable text.
			wrapped := x.classify(inner, file)
			wrapped.Span, wrapped.Text = a.Span, a.Text
			return wrapped
		}
	}
	return a
}
