package sqltree

import "fmt"

// TokenType represents the type of a lexical token.
type TokenType int

//nolint:revive // TOKEN_* names are intentionally ALL_CAPS for SQL token conventions
const (
	// TOKEN_EOF represents end of file.
	TOKEN_EOF TokenType = iota
	// TOKEN_ILLEGAL represents an illegal/unrecognized token.
	TOKEN_ILLEGAL

	// TOKEN_IDENT represents an identifier (including #temp and quoted forms).
	TOKEN_IDENT
	// TOKEN_VARIABLE represents a host variable or parameter (@name, :name).
	TOKEN_VARIABLE
	// TOKEN_NUMBER represents a numeric literal.
	TOKEN_NUMBER
	// TOKEN_STRING represents a string literal.
	TOKEN_STRING

	TOKEN_PLUS      // +
	TOKEN_MINUS     // -
	TOKEN_STAR      // *
	TOKEN_SLASH     // /
	TOKEN_PERCENT   // %
	TOKEN_DPIPE     // ||
	TOKEN_EQ        // =
	TOKEN_NE        // != or <>
	TOKEN_LT        // <
	TOKEN_GT        // >
	TOKEN_LE        // <=
	TOKEN_GE        // >=
	TOKEN_DOT       // .
	TOKEN_COMMA     // ,
	TOKEN_SEMICOLON // ;
	TOKEN_LPAREN    // (
	TOKEN_RPAREN    // )

	// Keywords (alphabetical)
	TOKEN_ALL
	TOKEN_ALTER
	TOKEN_AND
	TOKEN_AS
	TOKEN_BEGIN
	TOKEN_BETWEEN
	TOKEN_BY
	TOKEN_CALL
	TOKEN_CASE
	TOKEN_CREATE
	TOKEN_CROSS
	TOKEN_DECLARE
	TOKEN_DELETE
	TOKEN_DISTINCT
	TOKEN_ELSE
	TOKEN_END
	TOKEN_EXEC
	TOKEN_EXECUTE
	TOKEN_EXISTS
	TOKEN_FROM
	TOKEN_FULL
	TOKEN_FUNCTION
	TOKEN_GROUP
	TOKEN_HAVING
	TOKEN_IMMEDIATE
	TOKEN_IN
	TOKEN_INNER
	TOKEN_INSERT
	TOKEN_INTO
	TOKEN_IS
	TOKEN_JOIN
	TOKEN_LEFT
	TOKEN_LIKE
	TOKEN_MERGE
	TOKEN_NOT
	TOKEN_NULL
	TOKEN_ON
	TOKEN_OR
	TOKEN_ORDER
	TOKEN_OUTER
	TOKEN_PROC
	TOKEN_PROCEDURE
	TOKEN_RETURN
	TOKEN_RETURNS
	TOKEN_RIGHT
	TOKEN_SELECT
	TOKEN_SET
	TOKEN_TABLE
	TOKEN_THEN
	TOKEN_UNION
	TOKEN_UPDATE
	TOKEN_USING
	TOKEN_VALUES
	TOKEN_VIEW
	TOKEN_WHEN
	TOKEN_WHERE
	TOKEN_WITH
)

// Token represents a lexical token with position information.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position
}

// Position represents a location in the source code.
type Position struct {
	Line   int // 1-based line number
	Column int // 1-based column number
	Offset int // 0-based byte offset
}

// String returns a human-readable representation of the token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", t)
}

// tokenNames maps token types to their string representations.
var tokenNames = map[TokenType]string{
	TOKEN_EOF:     "EOF",
	TOKEN_ILLEGAL: "ILLEGAL",

	TOKEN_IDENT:    "IDENT",
	TOKEN_VARIABLE: "VARIABLE",
	TOKEN_NUMBER:   "NUMBER",
	TOKEN_STRING:   "STRING",

	TOKEN_PLUS:      "+",
	TOKEN_MINUS:     "-",
	TOKEN_STAR:      "*",
	TOKEN_SLASH:     "/",
	TOKEN_PERCENT:   "%",
	TOKEN_DPIPE:     "||",
	TOKEN_EQ:        "=",
	TOKEN_NE:        "!=",
	TOKEN_LT:        "<",
	TOKEN_GT:        ">",
	TOKEN_LE:        "<=",
	TOKEN_GE:        ">=",
	TOKEN_DOT:       ".",
	TOKEN_COMMA:     ",",
	TOKEN_SEMICOLON: ";",
	TOKEN_LPAREN:    "(",
	TOKEN_RPAREN:    ")",

	TOKEN_ALL:       "ALL",
	TOKEN_ALTER:     "ALTER",
	TOKEN_AND:       "AND",
	TOKEN_AS:        "AS",
	TOKEN_BEGIN:     "BEGIN",
	TOKEN_BETWEEN:   "BETWEEN",
	TOKEN_BY:        "BY",
	TOKEN_CALL:      "CALL",
	TOKEN_CASE:      "CASE",
	TOKEN_CREATE:    "CREATE",
	TOKEN_CROSS:     "CROSS",
	TOKEN_DECLARE:   "DECLARE",
	TOKEN_DELETE:    "DELETE",
	TOKEN_DISTINCT:  "DISTINCT",
	TOKEN_ELSE:      "ELSE",
	TOKEN_END:       "END",
	TOKEN_EXEC:      "EXEC",
	TOKEN_EXECUTE:   "EXECUTE",
	TOKEN_EXISTS:    "EXISTS",
	TOKEN_FROM:      "FROM",
	TOKEN_FULL:      "FULL",
	TOKEN_FUNCTION:  "FUNCTION",
	TOKEN_GROUP:     "GROUP",
	TOKEN_HAVING:    "HAVING",
	TOKEN_IMMEDIATE: "IMMEDIATE",
	TOKEN_IN:        "IN",
	TOKEN_INNER:     "INNER",
	TOKEN_INSERT:    "INSERT",
	TOKEN_INTO:      "INTO",
	TOKEN_IS:        "IS",
	TOKEN_JOIN:      "JOIN",
	TOKEN_LEFT:      "LEFT",
	TOKEN_LIKE:      "LIKE",
	TOKEN_MERGE:     "MERGE",
	TOKEN_NOT:       "NOT",
	TOKEN_NULL:      "NULL",
	TOKEN_ON:        "ON",
	TOKEN_OR:        "OR",
	TOKEN_ORDER:     "ORDER",
	TOKEN_OUTER:     "OUTER",
	TOKEN_PROC:      "PROC",
	TOKEN_PROCEDURE: "PROCEDURE",
	TOKEN_RETURN:    "RETURN",
	TOKEN_RETURNS:   "RETURNS",
	TOKEN_RIGHT:     "RIGHT",
	TOKEN_SELECT:    "SELECT",
	TOKEN_SET:       "SET",
	TOKEN_TABLE:     "TABLE",
	TOKEN_THEN:      "THEN",
	TOKEN_UNION:     "UNION",
	TOKEN_UPDATE:    "UPDATE",
	TOKEN_USING:     "USING",
	TOKEN_VALUES:    "VALUES",
	TOKEN_VIEW:      "VIEW",
	TOKEN_WHEN:      "WHEN",
	TOKEN_WHERE:     "WHERE",
	TOKEN_WITH:      "WITH",
}

// keywords maps lowercase keyword strings to their token types.
var keywords = map[string]TokenType{
	"all":       TOKEN_ALL,
	"alter":     TOKEN_ALTER,
	"and":       TOKEN_AND,
	"as":        TOKEN_AS,
	"begin":     TOKEN_BEGIN,
	"between":   TOKEN_BETWEEN,
	"by":        TOKEN_BY,
	"call":      TOKEN_CALL,
	"case":      TOKEN_CASE,
	"create":    TOKEN_CREATE,
	"cross":     TOKEN_CROSS,
	"declare":   TOKEN_DECLARE,
	"delete":    TOKEN_DELETE,
	"distinct":  TOKEN_DISTINCT,
	"else":      TOKEN_ELSE,
	"end":       TOKEN_END,
	"exec":      TOKEN_EXEC,
	"execute":   TOKEN_EXECUTE,
	"exists":    TOKEN_EXISTS,
	"from":      TOKEN_FROM,
	"full":      TOKEN_FULL,
	"function":  TOKEN_FUNCTION,
	"group":     TOKEN_GROUP,
	"having":    TOKEN_HAVING,
	"immediate": TOKEN_IMMEDIATE,
	"in":        TOKEN_IN,
	"inner":     TOKEN_INNER,
	"insert":    TOKEN_INSERT,
	"into":      TOKEN_INTO,
	"is":        TOKEN_IS,
	"join":      TOKEN_JOIN,
	"left":      TOKEN_LEFT,
	"like":      TOKEN_LIKE,
	"merge":     TOKEN_MERGE,
	"not":       TOKEN_NOT,
	"null":      TOKEN_NULL,
	"on":        TOKEN_ON,
	"or":        TOKEN_OR,
	"order":     TOKEN_ORDER,
	"outer":     TOKEN_OUTER,
	"proc":      TOKEN_PROC,
	"procedure": TOKEN_PROCEDURE,
	"return":    TOKEN_RETURN,
	"returns":   TOKEN_RETURNS,
	"right":     TOKEN_RIGHT,
	"select":    TOKEN_SELECT,
	"set":       TOKEN_SET,
	"table":     TOKEN_TABLE,
	"then":      TOKEN_THEN,
	"union":     TOKEN_UNION,
	"update":    TOKEN_UPDATE,
	"using":     TOKEN_USING,
	"values":    TOKEN_VALUES,
	"view":      TOKEN_VIEW,
	"when":      TOKEN_WHEN,
	"where":     TOKEN_WHERE,
	"with":      TOKEN_WITH,
}

// LookupIdent returns the token type for the given identifier.
// If the identifier is a keyword, the keyword token type is returned.
// Otherwise, TOKEN_IDENT is returned.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return TOKEN_IDENT
}
