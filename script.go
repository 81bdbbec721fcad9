package guidemask

import (
	"errors"
	"fmt"
	"go/parser"
	"go/token"
	"strconv"
	"strings"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
	"go.uber.org/zap"
)

// ErrScriptSignature is returned when an entry script does not define
// NestedWidgets with the expected signature.
var ErrScriptSignature = errors.New("guidemask: script must define func NestedWidgets(names []string) []string")

// scriptAllowedImports lists the standard packages an entry script may use.
var scriptAllowedImports = map[string]bool{
	"strings": true,
	"strconv": true,
	"sort":    true,
	"regexp":  true,
	"fmt":     true,
}

// EntryScript answers DesiredNestedWidgets for data-driven entry classes.
// The script is Go source interpreted with yaegi that defines
//
//	func NestedWidgets(names []string) []string
//
// It receives the names of the entry's descendants in pre-order and returns
// the names of the nested widgets in the order path steps address them.
type EntryScript struct {
	Name string
	fn   func([]string) []string
}

// CompileEntryScript interprets src and binds its NestedWidgets function. A
// missing package clause defaults to package main.
func CompileEntryScript(name, src string) (*EntryScript, error) {
	if !strings.Contains(src, "package ") {
		src = "package main\n\n" + src
	}
	pkg, err := validateScriptImports(src)
	if err != nil {
		return nil, fmt.Errorf("compile entry script %q: %w", name, err)
	}

	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("compile entry script %q: load stdlib: %w", name, err)
	}
	if _, err := i.Eval(src); err != nil {
		return nil, fmt.Errorf("compile entry script %q: %w", name, err)
	}
	v, err := i.Eval(pkg + ".NestedWidgets")
	if err != nil {
		return nil, fmt.Errorf("compile entry script %q: %w", name, ErrScriptSignature)
	}
	fn, ok := v.Interface().(func([]string) []string)
	if !ok {
		return nil, fmt.Errorf("compile entry script %q: %w", name, ErrScriptSignature)
	}
	return &EntryScript{Name: name, fn: fn}, nil
}

// NewEntryScriptFunc wraps a compiled function as an EntryScript. Useful for
// hosts that provide their own scripting bridge.
func NewEntryScriptFunc(name string, fn func(names []string) []string) *EntryScript {
	return &EntryScript{Name: name, fn: fn}
}

// validateScriptImports parses src and rejects imports outside the allow
// list. Returns the package name.
func validateScriptImports(src string) (string, error) {
	f, err := parser.ParseFile(token.NewFileSet(), "entry.go", src, parser.ImportsOnly)
	if err != nil {
		return "", fmt.Errorf("parse: %w", err)
	}
	for _, imp := range f.Imports {
		path, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			return "", fmt.Errorf("parse import %s: %w", imp.Path.Value, err)
		}
		if !scriptAllowedImports[path] {
			return "", fmt.Errorf("import %q is not allowed", path)
		}
	}
	return f.Name.Name, nil
}

// nestedWidgets runs the script against entry's descendant names and maps
// the answer back to widgets. Unknown names resolve to nil and are filtered
// by the caller.
func (s *EntryScript) nestedWidgets(entry *Widget) (out []*Widget) {
	if s == nil || s.fn == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("entry script panicked",
				zap.String("script", s.Name),
				zap.String("entry", entry.Path()),
				zap.Any("panic", r))
			out = nil
		}
	}()

	var names []string
	for _, c := range entry.children {
		c.Walk(func(w *Widget) bool {
			names = append(names, w.Name)
			return true
		})
	}
	for _, name := range s.fn(names) {
		out = append(out, entry.FindByName(name))
	}
	return out
}
