package sqltree

import "testing"

func assertTokens(t *testing.T, input string, want []Token) {
	t.Helper()
	lexer := NewLexer(input)
	for i, expected := range want {
		tok := lexer.NextToken()
		if tok.Type != expected.Type {
			t.Errorf("token %d: expected type %s, got %s (%q)", i, expected.Type, tok.Type, tok.Literal)
		}
		if tok.Literal != expected.Literal {
			t.Errorf("token %d: expected literal %q, got %q", i, expected.Literal, tok.Literal)
		}
	}
}

func TestLexer_BasicStatement(t *testing.T) {
	input := `SELECT * FROM t WHERE a >= 10 AND b <> 'it''s';`

	assertTokens(t, input, []Token{
		{Type: TOKEN_SELECT, Literal: "SELECT"},
		{Type: TOKEN_STAR, Literal: "*"},
		{Type: TOKEN_FROM, Literal: "FROM"},
		{Type: TOKEN_IDENT, Literal: "t"},
		{Type: TOKEN_WHERE, Literal: "WHERE"},
		{Type: TOKEN_IDENT, Literal: "a"},
		{Type: TOKEN_GE, Literal: ">="},
		{Type: TOKEN_NUMBER, Literal: "10"},
		{Type: TOKEN_AND, Literal: "AND"},
		{Type: TOKEN_IDENT, Literal: "b"},
		{Type: TOKEN_NE, Literal: "<>"},
		{Type: TOKEN_STRING, Literal: "it's"},
		{Type: TOKEN_SEMICOLON, Literal: ";"},
		{Type: TOKEN_EOF, Literal: ""},
	})
}

func TestLexer_KeywordsAreCaseInsensitive(t *testing.T) {
	assertTokens(t, "select From CREATE", []Token{
		{Type: TOKEN_SELECT, Literal: "select"},
		{Type: TOKEN_FROM, Literal: "From"},
		{Type: TOKEN_CREATE, Literal: "CREATE"},
		{Type: TOKEN_EOF, Literal: ""},
	})
}

func TestLexer_QuotedIdentifiers(t *testing.T) {
	// ANSI double quotes, T-SQL brackets, and MySQL backticks all produce
	// plain identifier tokens with the quoting stripped.
	assertTokens(t, "\"Order Lines\" [dbo] `users` \"col\"\"name\"", []Token{
		{Type: TOKEN_IDENT, Literal: "Order Lines"},
		{Type: TOKEN_IDENT, Literal: "dbo"},
		{Type: TOKEN_IDENT, Literal: "users"},
		{Type: TOKEN_IDENT, Literal: `col"name`},
		{Type: TOKEN_EOF, Literal: ""},
	})
}

func TestLexer_TempIdentifiers(t *testing.T) {
	assertTokens(t, "#Staging ##Global", []Token{
		{Type: TOKEN_IDENT, Literal: "#Staging"},
		{Type: TOKEN_IDENT, Literal: "##Global"},
		{Type: TOKEN_EOF, Literal: ""},
	})
}

func TestLexer_Variables(t *testing.T) {
	assertTokens(t, "@days :bind_var @@ROWCOUNT", []Token{
		{Type: TOKEN_VARIABLE, Literal: "@days"},
		{Type: TOKEN_VARIABLE, Literal: ":bind_var"},
		{Type: TOKEN_VARIABLE, Literal: "@@ROWCOUNT"},
		{Type: TOKEN_EOF, Literal: ""},
	})
}

func TestLexer_Operators(t *testing.T) {
	assertTokens(t, "|| != <= < > = .", []Token{
		{Type: TOKEN_DPIPE, Literal: "||"},
		{Type: TOKEN_NE, Literal: "!="},
		{Type: TOKEN_LE, Literal: "<="},
		{Type: TOKEN_LT, Literal: "<"},
		{Type: TOKEN_GT, Literal: ">"},
		{Type: TOKEN_EQ, Literal: "="},
		{Type: TOKEN_DOT, Literal: "."},
		{Type: TOKEN_EOF, Literal: ""},
	})
}

func TestLexer_Numbers(t *testing.T) {
	assertTokens(t, "42 3.14 2e10 5.5E-3", []Token{
		{Type: TOKEN_NUMBER, Literal: "42"},
		{Type: TOKEN_NUMBER, Literal: "3.14"},
		{Type: TOKEN_NUMBER, Literal: "2e10"},
		{Type: TOKEN_NUMBER, Literal: "5.5E-3"},
		{Type: TOKEN_EOF, Literal: ""},
	})
}

func TestLexer_CommentsSkipped(t *testing.T) {
	input := `-- header comment
SELECT /* inline
   block */ 1`

	assertTokens(t, input, []Token{
		{Type: TOKEN_SELECT, Literal: "SELECT"},
		{Type: TOKEN_NUMBER, Literal: "1"},
		{Type: TOKEN_EOF, Literal: ""},
	})
}

func TestLexer_Positions(t *testing.T) {
	lexer := NewLexer("SELECT\n  id")

	tok := lexer.NextToken()
	if tok.Pos.Line != 1 || tok.Pos.Column != 1 || tok.Pos.Offset != 0 {
		t.Errorf("SELECT position: got %+v", tok.Pos)
	}

	tok = lexer.NextToken()
	if tok.Literal != "id" {
		t.Fatalf("expected id, got %q", tok.Literal)
	}
	if tok.Pos.Line != 2 || tok.Pos.Column != 3 || tok.Pos.Offset != 9 {
		t.Errorf("id position: got %+v", tok.Pos)
	}
}

func TestLexer_UnterminatedString(t *testing.T) {
	// Unterminated literals consume to EOF without looping forever.
	tokens := Tokenize("SELECT 'never closed")
	last := tokens[len(tokens)-1]
	if last.Type != TOKEN_EOF {
		t.Errorf("expected trailing EOF, got %s", last.Type)
	}
}
