package internal

import "fmt"

// tokenType Holds a token
type tokenType int

const (
	tkEOF tokenType = iota - 1

	// Single-character tokens.
	// (, ), {, }, ',', ., -, +, ;, /, *
	tkLeftParen
	tkRightParen
	tkLeftCurlyBrace
	tkRightCurlyBrace
	tkComma
	tkDot
	tkMinus
	tkPlus
	tkSemicolon
	tkSlash
	tkStar

	// One or two character tokens.
	// !, !=, =, ==, >, >=, <, <=
	tkBang
	tkBangEqual
	tkEqual
	tkEqualEqual
	tkGreater
	tkGreaterEqual
	tkLess
	tkLessEqual

	// Literals.
	// *variable*, string, number
	tkIdentifier
	tkString
	tkNumber

	// Keywords.
	// and, class, else, false, fun, for, if, nil, or,
	// print, return, super, this, true, var, while
	tkAnd
	tkClass
	tkElse
	tkFalse
	tkFun
	tkFor
	tkIf
	tkNil
	tkOr
	tkPrint
	tkReturn
	tkSuper
	tkThis
	tkTrue
	tkVar
	tkWhile
)

var tokenNames = map[tokenType]string{
	tkEOF:             "EOF",
	tkLeftParen:       "LEFT_PAREN",
	tkRightParen:      "RIGHT_PAREN",
	tkLeftCurlyBrace:  "LEFT_BRACE",
	tkRightCurlyBrace: "RIGHT_BRACE",
	tkComma:           "COMMA",
	tkDot:             "DOT",
	tkMinus:           "MINUS",
	tkPlus:            "PLUS",
	tkSemicolon:       "SEMICOLON",
	tkSlash:           "SLASH",
	tkStar:            "STAR",
	tkBang:            "BANG",
	tkBangEqual:       "BANG_EQUAL",
	tkEqual:           "EQUAL",
	tkEqualEqual:      "EQUAL_EQUAL",
	tkGreater:         "GREATER",
	tkGreaterEqual:    "GREATER_EQUAL",
	tkLess:            "LESS",
	tkLessEqual:       "LESS_EQUAL",
	tkIdentifier:      "IDENTIFIER",
	tkString:          "STRING",
	tkNumber:          "NUMBER",
	tkAnd:             "AND",
	tkClass:           "CLASS",
	tkElse:            "ELSE",
	tkFalse:           "FALSE",
	tkFun:             "FUN",
	tkFor:             "FOR",
	tkIf:              "IF",
	tkNil:             "NIL",
	tkOr:              "OR",
	tkPrint:           "PRINT",
	tkReturn:          "RETURN",
	tkSuper:           "SUPER",
	tkThis:            "THIS",
	tkTrue:            "TRUE",
	tkVar:             "VAR",
	tkWhile:           "WHILE",
}

func (t tokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("tokenType(%d)", int(t))
}

// unit is one submitted source text. Tokens keep a reference to the unit
// they were scanned from so diagnostics raised later (e.g. inside a closure
// defined in an earlier REPL submission) still quote the right line.
type unit struct {
	text string
}

type token struct {
	token   tokenType
	lexeme  string
	literal interface{}
	line    int

	// byte offsets of the lexeme in unit.text
	start int
	end   int
	unit  *unit
}

func (t *token) String() string {
	if t.literal != nil {
		return fmt.Sprintf("%d %s %s %v", t.line, t.token, t.lexeme, stringify(t.literal))
	}
	return fmt.Sprintf("%d %s %s", t.line, t.token, t.lexeme)
}

// describe returns the text used when a token is quoted in an error message.
func (t *token) describe() string {
	if t.token == tkEOF {
		return "end of input"
	}
	return t.lexeme
}
