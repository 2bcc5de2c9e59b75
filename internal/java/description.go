package java

import (
	"fmt"
	"strings"

	"github.com/DhruvDh/umm-next-sub000/internal/java/queries"
)

// buildDescription renders an XML-ish structural summary of the file:
// declaration, then fields/constructors/methods for class-like files or
// constants/methods for interfaces, then any test methods. Consumed by the
// feedback layer, never by the graders themselves.
func (f *SourceFile) buildDescription() string {
	lines := []string{fmt.Sprintf(
		"<file name=%q path=%q type=%q>", f.properName, f.path, f.kind.String(),
	)}

	if f.kind == KindInterface {
		lines = append(lines, f.interfaceSections()...)
	} else {
		lines = append(lines, f.classSections()...)
	}

	if len(f.testMethods) > 0 {
		pushBlock(&lines, "tests", f.testMethods)
	}

	lines = append(lines, "</file>")

	return strings.Join(lines, "\n")
}

func (f *SourceFile) interfaceSections() []string {
	var lines []string

	declaration := firstRow(f.parser, queries.InterfaceDeclaration)

	decl := "interface " + f.properName
	if parameters := strings.TrimSpace(declaration["parameters"]); parameters != "" {
		decl += " " + parameters
	}

	if extends := strings.TrimSpace(declaration["extends"]); extends != "" {
		decl += " " + extends
	}

	pushDeclaration(&lines, decl)

	pushBlock(&lines, "constants", capturedEntries(f.parser, queries.InterfaceConstants, "constant"))
	pushBlock(&lines, "methods", capturedEntries(f.parser, queries.InterfaceMethods, "signature"))

	return lines
}

func (f *SourceFile) classSections() []string {
	var lines []string

	declaration := firstRow(f.parser, queries.ClassDeclaration)

	decl := "class " + f.properName
	if parameters := strings.TrimSpace(declaration["typeParameters"]); parameters != "" {
		decl += " " + parameters
	}

	if implements := strings.TrimSpace(declaration["interfaces"]); implements != "" {
		decl += " " + implements
	}

	pushDeclaration(&lines, decl)

	pushBlock(&lines, "fields", capturedEntries(f.parser, queries.ClassFields, "field"))

	var constructors []string

	for _, row := range allRows(f.parser, queries.ClassConstructors) {
		if sig := memberSignature(row, false); sig != "" {
			constructors = append(constructors, sig)
		}
	}

	var methods []string

	for _, row := range allRows(f.parser, queries.ClassMethods) {
		if sig := memberSignature(row, true); sig != "" {
			methods = append(methods, sig)
		}
	}

	pushBlock(&lines, "constructors", constructors)
	pushBlock(&lines, "methods", methods)

	return lines
}

// memberSignature rebuilds a readable signature from the query's captures.
// withReturnType distinguishes methods from constructors.
func memberSignature(row map[string]string, withReturnType bool) string {
	if _, ok := row["identifier"]; !ok {
		return ""
	}

	var parts []string

	if annotation, ok := normalizeEntry(row["annotation"]); ok {
		parts = append(parts, annotation)
	}

	if modifier, ok := normalizeEntry(row["modifier"]); ok {
		parts = append(parts, modifier)
	}

	if withReturnType {
		if returnType, ok := normalizeEntry(row["returnType"]); ok {
			parts = append(parts, returnType)
		}
	}

	params := strings.TrimSpace(row["parameters"])
	if params == "" {
		params = "()"
	}

	parts = append(parts, strings.TrimSpace(row["identifier"])+params)

	if throws, ok := normalizeEntry(row["throws"]); ok {
		parts = append(parts, throws)
	}

	return strings.Join(parts, " ")
}

// normalizeEntry flattens newlines and trims; empty or placeholder entries
// are dropped.
func normalizeEntry(entry string) (string, bool) {
	trimmed := strings.TrimSpace(strings.ReplaceAll(entry, "\n", " "))
	if trimmed == "" || trimmed == "[NOT FOUND]" {
		return "", false
	}

	return trimmed, true
}

func pushDeclaration(lines *[]string, decl string) {
	decl = strings.TrimSpace(decl)
	if decl == "" {
		return
	}

	*lines = append(*lines,
		"  <declaration>",
		"  ```",
		"  "+decl,
		"  ```",
		"  </declaration>",
	)
}

func pushBlock(lines *[]string, tag string, items []string) {
	var entries []string

	for _, item := range items {
		if entry, ok := normalizeEntry(item); ok {
			entries = append(entries, entry)
		}
	}

	if len(entries) == 0 {
		return
	}

	*lines = append(*lines, fmt.Sprintf("  <%s>", tag), "  ```")
	for _, entry := range entries {
		*lines = append(*lines, "  "+entry)
	}

	*lines = append(*lines, "  ```", fmt.Sprintf("  </%s>", tag))
}

func firstRow(p *Parser, query string) map[string]string {
	rows, err := p.Query(query)
	if err != nil || len(rows) == 0 {
		return map[string]string{}
	}

	return rows[0]
}

func allRows(p *Parser, query string) []map[string]string {
	rows, err := p.Query(query)
	if err != nil {
		return nil
	}

	return rows
}

func capturedEntries(p *Parser, query, capture string) []string {
	var entries []string

	for _, row := range allRows(p, query) {
		if value, ok := row[capture]; ok {
			entries = append(entries, value)
		}
	}

	return entries
}
