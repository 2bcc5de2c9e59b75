package java

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/DhruvDh/umm-next-sub000/internal/java/queries"
	m "github.com/DhruvDh/umm-next-sub000/internal/model"
	"github.com/DhruvDh/umm-next-sub000/internal/parse"
	"github.com/DhruvDh/umm-next-sub000/internal/process"
)

// Kind classifies a Java source file. Exactly one Kind applies per file.
type Kind int

const (
	// KindClass is a plain class without a main method.
	KindClass Kind = iota
	// KindClassWithMain is a class with a detectable main method.
	KindClassWithMain
	// KindInterface is an interface declaration.
	KindInterface
	// KindTest is a class with at least one @Test annotated method. Test
	// wins over every other classification.
	KindTest
)

func (k Kind) String() string {
	switch k {
	case KindInterface:
		return "interface"
	case KindClassWithMain:
		return "class_with_main"
	case KindTest:
		return "test"
	default:
		return "class"
	}
}

// Import is one import declaration.
type Import struct {
	// Path is the imported name as written in the source.
	Path string
	// Asterisk is true for on-demand (wildcard) imports.
	Asterisk bool
}

// SourceFile is one parsed Java file. It is created at discovery and
// immutable afterwards; its proper name uniquely keys it within a project.
type SourceFile struct {
	path        string
	fileName    string
	packageName string
	imports     []Import
	name        string
	properName  string
	testMethods []string
	kind        Kind
	parser      *Parser
	description string
	paths       Paths
	runner      process.Runner
}

// NewSourceFile reads and parses the file at path, classifying it and
// extracting its structural facts.
func NewSourceFile(path string, paths Paths, runner process.Runner) (*SourceFile, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read file %s: %w", path, err)
	}

	parser, err := NewParser(string(source))
	if err != nil {
		return nil, fmt.Errorf("could not parse %s: %w", path, err)
	}

	f := &SourceFile{
		path:     path,
		fileName: baseName(path),
		parser:   parser,
		paths:    paths,
		runner:   runner,
	}

	if err := f.extract(); err != nil {
		return nil, err
	}

	return f, nil
}

// extract pulls imports, package, declared name, test methods, and the
// synthesized description out of the parse tree, then classifies the file.
func (f *SourceFile) extract() error {
	importRows, err := f.parser.Query(queries.Import)
	if err != nil {
		return err
	}

	for _, row := range importRows {
		if path, ok := row["path"]; ok {
			_, asterisk := row["asterisk"]
			f.imports = append(f.imports, Import{Path: path, Asterisk: asterisk})
		}
	}

	packageRows, err := f.parser.Query(queries.Package)
	if err != nil {
		return err
	}

	if len(packageRows) > 0 {
		f.packageName = packageRows[0]["name"]
	}

	mainRows, err := f.parser.Query(queries.MainMethod)
	if err != nil {
		return err
	}

	if err := f.classify(len(mainRows) > 0); err != nil {
		return err
	}

	if f.packageName != "" {
		f.properName = f.packageName + "." + f.name
	} else {
		f.properName = f.name
	}

	testRows, err := f.parser.Query(queries.TestAnnotation)
	if err != nil {
		return err
	}

	for _, row := range testRows {
		if method, ok := row["name"]; ok {
			f.testMethods = append(f.testMethods, f.properName+"#"+method)
		}
	}

	if len(f.testMethods) > 0 {
		f.kind = KindTest
	}

	f.description = f.buildDescription()

	return nil
}

// classify picks Interface over Class, then disambiguates Class vs
// ClassWithMain using the already-run main-method check. Test classification
// happens afterwards, once test methods are known.
func (f *SourceFile) classify(hasMain bool) error {
	interfaces, err := f.parser.Query(queries.InterfaceName)
	if err != nil {
		return err
	}

	if len(interfaces) > 0 {
		name, ok := interfaces[0]["name"]
		if !ok {
			return fmt.Errorf("no valid interface declaration found in %s", f.path)
		}

		f.kind = KindInterface
		f.name = name

		return nil
	}

	classes, err := f.parser.Query(queries.ClassName)
	if err != nil {
		return err
	}

	if len(classes) > 0 {
		name, ok := classes[0]["name"]
		if !ok {
			return fmt.Errorf("no valid class declaration found in %s", f.path)
		}

		if hasMain {
			f.kind = KindClassWithMain
		} else {
			f.kind = KindClass
		}

		f.name = name

		return nil
	}

	f.kind = KindClass

	return nil
}

// Path returns the file's filesystem path.
func (f *SourceFile) Path() string {
	return f.path
}

// FileName returns the filesystem name, including the .java extension.
func (f *SourceFile) FileName() string {
	return f.fileName
}

// PackageName returns the package the file belongs to, empty for the
// default package.
func (f *SourceFile) PackageName() string {
	return f.packageName
}

// SimpleName returns the unqualified declared type name.
func (f *SourceFile) SimpleName() string {
	return f.name
}

// ProperName returns the package-qualified declared type name.
func (f *SourceFile) ProperName() string {
	return f.properName
}

// TestMethods returns the fully qualified Class#method names of @Test
// annotated methods.
func (f *SourceFile) TestMethods() []string {
	out := make([]string, len(f.testMethods))
	copy(out, f.testMethods)

	return out
}

// Kind returns the file's classification.
func (f *SourceFile) Kind() Kind {
	return f.kind
}

// Imports returns the file's import declarations.
func (f *SourceFile) Imports() []Import {
	out := make([]Import, len(f.imports))
	copy(out, f.imports)

	return out
}

// Code returns the file's source text.
func (f *SourceFile) Code() string {
	return f.parser.Source()
}

// Description returns the synthesized structural summary of this file.
func (f *SourceFile) Description() string {
	return f.description
}

// Query runs an ad hoc structural query against this file's parse tree.
func (f *SourceFile) Query(query string) ([]map[string]string, error) {
	return f.parser.Query(query)
}

// MethodInvocations returns every method call identifier with its 1-based
// source line.
func (f *SourceFile) MethodInvocations() ([]Capture, error) {
	return f.parser.QueryCaptures(queries.MethodInvocation, "name")
}

// MethodBodiesNamed returns full declarations of methods with the given
// name, with their starting lines.
func (f *SourceFile) MethodBodiesNamed(name string) ([]Capture, error) {
	return f.parser.QueryCaptures(queries.MethodBodyWithName(name), "body")
}

// javacArgs builds the standard javac argument list for this file.
func (f *SourceFile) javacArgs(doclint, preferSource bool) ([]string, error) {
	sp, err := Sourcepath(f.paths)
	if err != nil {
		return nil, err
	}

	cp, err := Classpath(f.paths)
	if err != nil {
		return nil, err
	}

	args := []string{
		"--source-path", sp,
		"-g",
		"--class-path", cp,
		"-d", f.paths.Build,
		f.path,
		"-Xdiags:verbose",
	}

	if doclint {
		args = append(args, "-Xdoclint")
	}

	if preferSource {
		args = append(args, "-Xprefer:source")
	}

	return args, nil
}

// Check compiles this file. On a javac failure the returned error carries
// the transcript and every diagnostic line that parsed.
func (f *SourceFile) Check(ctx context.Context) (string, error) {
	args, err := f.javacArgs(false, true)
	if err != nil {
		return "", unknownErr(err)
	}

	collected, err := f.runner.Run(ctx, process.Spec{
		Program: "javac",
		Args:    args,
		Stdin:   process.StdinNull,
	})
	if err != nil {
		return "", unknownErr(err)
	}

	if collected.Success() {
		return collected.Output, nil
	}

	var diags []m.CompilerDiagnostic

	for _, line := range strings.Split(collected.Output, "\n") {
		if diag, err := parse.CompilerDiagnostic(line); err == nil {
			diags = append(diags, diag)
		}
	}

	return "", &OpError{
		Kind:          DuringCompilation,
		Output:        collected.Output,
		CompilerDiags: diags,
	}
}

// DocCheck compiles this file with documentation lints enabled and returns
// the raw transcript for caller-side parsing.
func (f *SourceFile) DocCheck(ctx context.Context) (string, error) {
	args, err := f.javacArgs(true, false)
	if err != nil {
		return "", unknownErr(err)
	}

	collected, err := f.runner.Run(ctx, process.Spec{
		Program: "javac",
		Args:    args,
		Stdin:   process.StdinNull,
	})
	if err != nil {
		return "", unknownErr(err)
	}

	return collected.Output, nil
}

// Run compiles and executes this file's main method. A nil input inherits
// the caller's stdin.
func (f *SourceFile) Run(ctx context.Context, input *string) (string, error) {
	spec := process.Spec{Stdin: process.StdinInherit}
	if input != nil {
		spec.Stdin = process.StdinBytes
		spec.Input = []byte(*input + "\r\n")
	}

	return f.execMain(ctx, spec)
}

// RunWithInput behaves like Run but always pipes stdin, feeding empty input
// when none is supplied.
func (f *SourceFile) RunWithInput(ctx context.Context, input *string) (string, error) {
	spec := process.Spec{Stdin: process.StdinBytes}
	if input != nil {
		spec.Input = []byte(*input + "\r\n")
	}

	return f.execMain(ctx, spec)
}

func (f *SourceFile) execMain(ctx context.Context, spec process.Spec) (string, error) {
	if f.kind != KindClassWithMain {
		return "", &OpError{
			Kind:   DuringCompilation,
			Output: "The file you wish to run does not have a main method.",
		}
	}

	if _, err := f.Check(ctx); err != nil {
		return "", err
	}

	cp, err := Classpath(f.paths)
	if err != nil {
		return "", unknownErr(err)
	}

	spec.Program = "java"
	spec.Args = []string{"--class-path", cp, f.properName}

	collected, err := f.runner.Run(ctx, spec)
	if err != nil {
		return "", unknownErr(err)
	}

	if collected.Success() {
		return collected.Output, nil
	}

	var refs []m.LineRef

	for _, line := range strings.Split(collected.Output, "\n") {
		if ref, err := parse.StackFrameRef(line); err == nil {
			refs = append(refs, ref)
		}
	}

	return "", &OpError{
		Kind:   AtRuntime,
		Output: collected.Output,
		Refs:   refs,
	}
}

// junitArgs builds the console-launcher invocation for the given selectors.
// No selectors means a full classpath scan.
func (f *SourceFile) junitArgs(selectors []string) ([]string, error) {
	cp, err := Classpath(f.paths)
	if err != nil {
		return nil, err
	}

	args := []string{
		"-cp", cp,
		"org.junit.platform.console.ConsoleLauncher",
		"--disable-banner",
		"--disable-ansi-colors",
		"--details-theme=unicode",
		"--single-color",
	}

	if len(selectors) == 0 {
		args = append(args, "--scan-class-path")
	} else {
		args = append(args, selectors...)
	}

	return args, nil
}

// Test compiles this file and runs the named test methods, or every
// discovered test method when tests is empty. On failure the transcript is
// filtered down to lines a student can act on: library-internal frames are
// dropped and only frames the project can identify are kept.
func (f *SourceFile) Test(ctx context.Context, tests []string, project *Project) (string, error) {
	if _, err := f.Check(ctx); err != nil {
		return "", err
	}

	selected := make([]string, 0, len(tests))
	for _, t := range tests {
		selected = append(selected, f.properName+"#"+t)
	}

	if len(selected) == 0 {
		selected = f.testMethods
	}

	selectors := make([]string, 0, len(selected))
	for _, s := range selected {
		selectors = append(selectors, "--select-method="+s)
	}

	args, err := f.junitArgs(selectors)
	if err != nil {
		return "", unknownErr(err)
	}

	collected, err := f.runner.Run(ctx, process.Spec{
		Program: "java",
		Args:    args,
		Stdin:   process.StdinInherit,
	})
	if err != nil {
		return "", unknownErr(err)
	}

	if collected.Success() {
		return collected.Output, nil
	}

	var (
		refs     []m.LineRef
		filtered []string
	)

	for _, line := range strings.Split(collected.Output, "\n") {
		if strings.Contains(line, "MethodSource") || strings.Contains(line, "Native Method") {
			continue
		}

		if ref, err := parse.StackFrameRef(line); err == nil {
			if project != nil && project.Contains(ref.FileName) {
				filtered = append(filtered, normalizeStackLine(line))
			}

			refs = append(refs, ref)

			continue
		}

		if diag, err := parse.CompilerDiagnostic(line); err == nil {
			if project != nil && project.Contains(diag.FileName) {
				filtered = append(filtered, normalizeStackLine(line))
			}

			refs = append(refs, diag.Ref())

			continue
		}

		filtered = append(filtered, normalizeStackLine(line))
	}

	return "", &OpError{
		Kind:   FailedTests,
		Output: strings.Join(filtered, "\n"),
		Refs:   refs,
	}
}

// normalizeStackLine undoes the escaping the test runner applies to quoted
// output.
func normalizeStackLine(line string) string {
	line = strings.ReplaceAll(line, `\\`, `\`)

	return strings.ReplaceAll(line, `\"`, `"`)
}
