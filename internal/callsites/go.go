package callsites

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"

	"swaplint/internal/args"
	"swaplint/internal/source"
)

// GoExtractor reads call expressions from Go sources.
type GoExtractor struct{}

// NewGoExtractor creates the Go extractor.
func NewGoExtractor() *GoExtractor {
	return &GoExtractor{}
}

func (x *GoExtractor) Language() string {
	return "go"
}

func (x *GoExtractor) Extensions() []string {
	return []string{".go"}
}

var goLiterals = map[string]bool{
	"int_literal":                true,
	"float_literal":              true,
	"imaginary_literal":          true,
	"rune_literal":               true,
	"interpreted_string_literal": true,
	"raw_string_literal":         true,
	"true":                       true,
	"false":                      true,
	"nil":                        true,
	"iota":                       true,
}

func (x *GoExtractor) Extract(file *source.File) ([]Call, error) {
	// One parser per call keeps Extract safe under the driver's worker pool.
	p := sitter.NewParser()
	p.SetLanguage(golang.GetLanguage())
	tree, err := p.ParseCtx(context.Background(), nil, file.Content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", file.Path, err)
	}
	defer tree.Close()

	var calls []Call
	x.walk(tree.RootNode(), file, goScope{}, &calls)
	sortCalls(calls)
	return calls, nil
}

type goScope struct {
	name string
	span source.Span
}

func (x *GoExtractor) walk(node *sitter.Node, file *source.File, sc goScope, out *[]Call) {
	switch node.Type() {
	case "function_declaration", "method_declaration":
		if nameNode := node.ChildByFieldName("name"); nameNode != nil {
			sc = goScope{name: nameNode.Content(file.Content), span: nodeSpan(file.ID, node)}
		}
	case "call_expression":
		if call, ok := x.readCall(node, file, sc); ok {
			*out = append(*out, call)
		}
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		x.walk(node.Child(i), file, sc, out)
	}
}

func (x *GoExtractor) readCall(node *sitter.Node, file *source.File, sc goScope) (Call, bool) {
	fnNode := node.ChildByFieldName("function")
	argsNode := node.ChildByFieldName("arguments")
	if fnNode == nil || argsNode == nil {
		return Call{}, false
	}
	callee, qualifier := x.calleeName(fnNode, file.Content)
	if callee == "" {
		return Call{}, false
	}
	call := Call{
		Span:          nodeSpan(file.ID, node),
		ArgListSpan:   nodeSpan(file.ID, argsNode),
		Callee:        callee,
		Qualifier:     qualifier,
		Enclosing:     sc.name,
		EnclosingSpan: sc.span,
	}
	for i := 0; i < int(argsNode.NamedChildCount()); i++ {
		child := argsNode.NamedChild(i)
		if child == nil || child.Type() == "comment" {
			continue
		}
		call.Args = append(call.Args, x.classify(child, file))
	}
	return call, true
}

// calleeName resolves the called name and its qualifier, unwrapping
// parentheses and generic instantiations.
func (x *GoExtractor) calleeName(node *sitter.Node, content []byte) (name, qualifier string) {
	switch node.Type() {
	case "identifier":
		return node.Content(content), ""

	case "selector_expression":
		fld := node.ChildByFieldName("field")
		if fld == nil {
			return "", ""
		}
		if operand := node.ChildByFieldName("operand"); operand != nil {
			qualifier = strings.TrimSpace(operand.Content(content))
		}
		return fld.Content(content), qualifier

	case "parenthesized_expression":
		for i := 0; i < int(node.NamedChildCount()); i++ {
			if inner := node.NamedChild(i); inner != nil && inner.Type() != "comment" {
				return x.calleeName(inner, content)
			}
		}
		return "", ""

	case "index_expression", "type_instantiation_expression":
		if operand := node.ChildByFieldName("operand"); operand != nil {
			return x.calleeName(operand, content)
		}
		return "", ""
	}
	return "", ""
}

func (x *GoExtractor) classify(node *sitter.Node, file *source.File) Arg {
	a := Arg{
		Span: nodeSpan(file.ID, node),
		Text: node.Content(file.Content),
	}
	switch t := node.Type(); {
	case goLiterals[t]:
		a.Kind = args.KindLiteral
		a.Constant = true

	case t == "identifier":
		a.Kind = args.KindIdentifier
		a.Name = a.Text
		a.Constant = isConstantCase(a.Name)

	case t == "selector_expression":
		a.Kind = args.KindMemberSelect
		if fld := node.ChildByFieldName("field"); fld != nil {
			a.Name = fld.Content(file.Content)
		}
		a.Constant = isConstantCase(a.Name)
		if operand := node.ChildByFieldName("operand"); operand != nil && a.Constant {
			a.Enum = isTypeName(lastSegment(operand.Content(file.Content)))
		}

	case t == "call_expression":
		if fnNode := node.ChildByFieldName("function"); fnNode != nil {
			name, _ := x.calleeName(fnNode, file.Content)
			a.Name = name
		}

	case t == "composite_literal":
		if typeNode := node.ChildByFieldName("type"); typeNode != nil {
			a.TypeHint = typeNode.Content(file.Content)
		}

	case t == "unary_expression":
		if op := node.ChildByFieldName("operand"); op != nil && goLiterals[op.Type()] {
			a.Kind = args.KindLiteral
			a.Constant = true
		}

	case t == "parenthesized_expression":
		for i := 0; i < int(node.NamedChildCount()); i++ {
			inner := node.NamedChild(i)
			if inner == nil || inner.Type() == "comment" {
				continue
			}
			wrapped := x.classify(inner, file)
			wrapped.Span, wrapped.Text = a.Span, a.Text
			return wrapped
		}
	}
	return a
}
