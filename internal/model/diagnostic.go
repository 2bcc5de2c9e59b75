package model

// LineRef is the smallest diagnostic shape: a file name paired with a line
// number. Every other diagnostic reduces to one.
type LineRef struct {
	FileName string
	Line     int
}

// CompilerDiagnostic is one parsed line of compiler output, e.g.
// "./src/Main.java:12:error: missing semicolon".
type CompilerDiagnostic struct {
	// Path is the normalized path as printed by the compiler, always with a
	// leading "." and forward slashes.
	Path string
	// FileName is the final path segment, including the extension.
	FileName string
	Line     int
	IsError  bool
	Message  string
}

// Ref reduces the diagnostic to its file/line pair.
func (d CompilerDiagnostic) Ref() LineRef {
	return LineRef{FileName: d.FileName, Line: d.Line}
}

// MutationDiagnostic is one row of a mutation-testing report.
type MutationDiagnostic struct {
	// Mutator is the short mutator name, the suffix after the last namespace
	// segment (e.g. "MathMutator").
	Mutator        string
	SourceMethod   string
	Line           int
	TestMethod     string
	Result         string
	SourceFileName string
	TestFileName   string
}

// Ref reduces the diagnostic to the mutated source file and line.
func (d MutationDiagnostic) Ref() LineRef {
	return LineRef{FileName: d.SourceFileName, Line: d.Line}
}

// Referenced is implemented by every diagnostic that can point at a source
// line. Graders use it to filter diagnostics down to project files.
type Referenced interface {
	Ref() LineRef
}

// Ref returns the LineRef itself, so plain refs satisfy Referenced too.
func (l LineRef) Ref() LineRef {
	return l
}
