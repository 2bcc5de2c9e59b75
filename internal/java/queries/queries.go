// Package queries holds the tree-sitter query source used by the Java
// analyzers and graders. Static queries are embedded verbatim; the *With*
// helpers substitute a caller-supplied name into a parameterized query.
package queries

import (
	_ "embed"
	"fmt"
)

// Import returns imports made by a file.
//   - `path`: java name of the import as it appears in the source code
//   - `asterisk`: present when the import path ends in an asterisk
//
//go:embed import.scm
var Import string

// Package returns the name of the package.
//   - `name`: name of the package
//
//go:embed package.scm
var Package string

// ClassName returns the name of the class.
//   - `name`: name of the class
//
//go:embed class_name.scm
var ClassName string

// InterfaceName returns the name of the interface.
//   - `name`: name of the interface
//
//go:embed interface_name.scm
var InterfaceName string

// TestAnnotation returns names of `@Test` annotated methods.
//   - `name`: name of the test method
//
//go:embed test_annotation.scm
var TestAnnotation string

// MainMethod matches a `void main(String[])` method declaration.
//   - `body`: the entire method declaration
//
//go:embed main_method.scm
var MainMethod string

// ClassDeclaration returns class declaration statements.
//   - `className`, `typeParameters`, `interfaces`
//
//go:embed class_declaration.scm
var ClassDeclaration string

// ClassFields returns entire field declarations as `field`.
//
//go:embed class_fields.scm
var ClassFields string

// ClassConstructors returns constructor signatures.
//   - `modifier`, `identifier`, `parameters`, `throws`
//
//go:embed class_constructors.scm
var ClassConstructors string

// ClassMethods returns class method signatures.
//   - `modifier`, `returnType`, `identifier`, `parameters`, `throws`
//
//go:embed class_methods.scm
var ClassMethods string

// InterfaceDeclaration returns interface declaration statements.
//   - `identifier`, `parameters`, `extends`
//
//go:embed interface_declaration.scm
var InterfaceDeclaration string

// InterfaceConstants returns entire constant declarations as `constant`.
//
//go:embed interface_constants.scm
var InterfaceConstants string

// InterfaceMethods returns entire method signatures as `signature`.
//
//go:embed interface_methods.scm
var InterfaceMethods string

// MethodInvocation returns method call sites.
//   - `name`: method call identifier
//   - `body`: the entire invocation
//
//go:embed method_invocation.scm
var MethodInvocation string

//go:embed method_body_with_name.scm
var methodBodyWithName string

//go:embed method_body_with_return_type.scm
var methodBodyWithReturnType string

//go:embed class_with_name.scm
var classWithName string

//go:embed local_variable_with_name.scm
var localVariableWithName string

//go:embed local_variable_with_type.scm
var localVariableWithType string

//go:embed method_invocations_with_name.scm
var methodInvocationsWithName string

//go:embed method_invocations_with_arguments.scm
var methodInvocationsWithArguments string

//go:embed method_invocations_with_object.scm
var methodInvocationsWithObject string

// MethodBodyWithName matches the entire declaration of methods with the
// given name as `body`.
func MethodBodyWithName(name string) string {
	return fmt.Sprintf(methodBodyWithName, name)
}

// MethodBodyWithReturnType matches the entire declaration of methods with
// the given return type as `body`.
func MethodBodyWithReturnType(returnType string) string {
	return fmt.Sprintf(methodBodyWithReturnType, returnType)
}

// ClassWithName matches the entire declaration of the named class as `body`.
func ClassWithName(name string) string {
	return fmt.Sprintf(classWithName, name)
}

// LocalVariableWithName matches local variable declarations introducing the
// given name as `body`.
func LocalVariableWithName(name string) string {
	return fmt.Sprintf(localVariableWithName, name)
}

// LocalVariableWithType matches local variable declarations of the given
// type as `body`.
func LocalVariableWithType(typeName string) string {
	return fmt.Sprintf(localVariableWithType, typeName)
}

// MethodInvocationsWithName matches invocations of the named method as
// `body`.
func MethodInvocationsWithName(name string) string {
	return fmt.Sprintf(methodInvocationsWithName, name)
}

// MethodInvocationsWithArguments matches invocations whose argument list
// equals the given text as `body`.
func MethodInvocationsWithArguments(arguments string) string {
	return fmt.Sprintf(methodInvocationsWithArguments, arguments)
}

// MethodInvocationsWithObject matches invocations on the named receiver as
// `body`.
func MethodInvocationsWithObject(object string) string {
	return fmt.Sprintf(methodInvocationsWithObject, object)
}
