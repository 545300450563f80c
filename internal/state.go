package internal

import (
	"errors"
	"fmt"
)

// interpreterState stores the state of a single unit going through the pipeline
type interpreterState struct {
	unit   *unit
	errors Diagnostics
	tokens []token
	stmts  []stmt
}

func newInterpreterState(source string) *interpreterState {
	return &interpreterState{
		unit:   &unit{text: source},
		errors: make(Diagnostics, 0),
	}
}

func (s *interpreterState) setError(kind Kind, err error, tk *token) {
	s.errors = append(s.errors, newDiagnostic(kind, err, tk))
}

// valid returns true if no error was recorded for the unit
func (s *interpreterState) valid() bool {
	return len(s.errors) == 0
}

// detailedError replaces the message of a sentinel error while keeping it
// reachable through errors.Is.
type detailedError struct {
	msg string
	err error
}

func (d *detailedError) Error() string {
	return d.msg
}

func (d *detailedError) Unwrap() error {
	return d.err
}

func withDetail(err error, format string, a ...interface{}) error {
	return &detailedError{msg: fmt.Sprintf(format, a...), err: err}
}

// Lexer errors
var errUnexpectedChar = errors.New("Unexpected character")
var errUnterminatedString = errors.New("Unterminated string")

// Parser errors
var errExpectedExpression = errors.New("Expected expression")
var errInvalidAssignTarget = errors.New("Invalid assignment target")
var errMaxParameters = errors.New("Can't have more than 255 parameters")
var errMaxArguments = errors.New("Can't have more than 255 arguments")
var errExpectedSemicolon = errors.New("Expected `;` after expression")
var errExpectedValueSemicolon = errors.New("Expected `;` after value")
var errExpectedVarSemicolon = errors.New("Expected `;` after variable declaration")
var errExpectedReturnSemicolon = errors.New("Expected `;` after return value")
var errExpectedLoopSemicolon = errors.New("Expected `;` after loop condition")
var errExpectedVariableName = errors.New("Expected variable name")
var errExpectedFunctionName = errors.New("Expected function name")
var errExpectedMethodName = errors.New("Expected method name")
var errExpectedClassName = errors.New("Expected class name")
var errExpectedSuperclassName = errors.New("Expected superclass name")
var errExpectedParamName = errors.New("Expected parameter name")
var errExpectedProp = errors.New("Expected property name after `.`")
var errExpectedDot = errors.New("Expected `.` after `super`")
var errExpectedSuperMethod = errors.New("Expected superclass method name")
var errExpectedParen = errors.New("Expected `(`")
var errUnclosedParen = errors.New("Expected `)` after expression")
var errUnclosedArguments = errors.New("Expected `)` after arguments")
var errUnclosedParams = errors.New("Expected `)` after parameters")
var errUnclosedCondition = errors.New("Expected `)` after condition")
var errUnclosedForClauses = errors.New("Expected `)` after for clauses")
var errExpectedOpeningCurlyBrace = errors.New("Expected `{`")
var errExpectedClosingCurlyBrace = errors.New("Expected `}` after block")
var errExpectedClassBodyEnd = errors.New("Expected `}` after class body")

// Resolver errors
var errReadOwnInitializer = errors.New("Can't read local variable in its own initializer")
var errAlreadyDeclared = errors.New("Already a variable in this scope")
var errTopLevelReturn = errors.New("Can't return from top-level code")
var errInitializerReturn = errors.New("Could not return inside constructor")
var errThisOutsideClass = errors.New("Can't use 'this' outside of a class")
var errSuperOutsideClass = errors.New("Can't use 'super' outside of a class")
var errSuperWithoutSuperclass = errors.New("Can't use 'super' in a class with no superclass")
var errInheritFromSelf = errors.New("A class can't inherit from itself")

// Runtime errors
var errUndefinedVar = errors.New("Undefined variable")
var errUndefinedProp = errors.New("Undefined property")
var errInvalidNumberArguments = errors.New("Invalid number of arguments")
var errOnlyFunction = errors.New("Can only call functions and classes")
var errOnlyInstanceProps = errors.New("Only instances have properties")
var errOnlyInstanceFields = errors.New("Only instances have fields")
var errSuperclassNotClass = errors.New("Superclass must be a class")
var errOperandTypes = errors.New("Invalid operand types")
