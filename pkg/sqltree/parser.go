package sqltree

import "strings"

// Parser scans procedural SQL into a generic syntax tree.
//
// The scanner is deliberately tolerant: it recognizes the statement shapes
// that matter for dependency analysis (definitions, invocations, DML, object
// creation) and degrades everything else to generic statement nodes. It never
// fails; malformed input yields a partial tree rather than an error.
type Parser struct {
	lexer *Lexer
	input string
	token Token // current token
	peek  Token // lookahead token
	peek2 Token // second lookahead token
}

// NewParser creates a new parser for the given SQL input.
func NewParser(sql string) *Parser {
	p := &Parser{
		lexer: NewLexer(sql),
		input: sql,
	}
	// Read three tokens to initialize current, peek, and peek2
	p.nextToken()
	p.nextToken()
	p.nextToken()
	return p
}

// Parse scans the SQL and returns the root script node.
func Parse(sql string) *Node {
	return NewParser(sql).parseScript()
}

// nextToken advances to the next token.
func (p *Parser) nextToken() {
	p.token = p.peek
	p.peek = p.peek2
	p.peek2 = p.lexer.NextToken()
}

// check returns true if the current token is of the given type.
func (p *Parser) check(t TokenType) bool {
	return p.token.Type == t
}

// isBatchSeparator returns true if the current token is a GO batch separator.
func (p *Parser) isBatchSeparator() bool {
	return p.token.Type == TOKEN_IDENT && strings.EqualFold(p.token.Literal, "go")
}

// startsNewDefinition returns true if the current token begins a
// CREATE [OR ALTER|REPLACE] PROCEDURE/FUNCTION definition.
func (p *Parser) startsNewDefinition() bool {
	if p.token.Type != TOKEN_CREATE {
		return false
	}
	switch p.peek.Type {
	case TOKEN_PROCEDURE, TOKEN_PROC, TOKEN_FUNCTION, TOKEN_OR:
		return true
	}
	return false
}

// ---------- Script ----------

// parseScript parses the whole input as a sequence of statements.
func (p *Parser) parseScript() *Node {
	root := &Node{Kind: NodeScript, Line: 1}

	for !p.check(TOKEN_EOF) {
		// Skip statement separators and stray block delimiters
		if p.check(TOKEN_SEMICOLON) || p.check(TOKEN_BEGIN) || p.check(TOKEN_END) || p.isBatchSeparator() {
			p.nextToken()
			continue
		}
		root.AddChild(p.parseStatement())
	}

	return root
}

// parseStatement parses a single statement based on its leading token.
func (p *Parser) parseStatement() *Node {
	switch p.token.Type {
	case TOKEN_CREATE:
		return p.parseCreate()
	case TOKEN_EXEC, TOKEN_EXECUTE:
		return p.parseExecute()
	case TOKEN_CALL:
		return p.parseCall()
	case TOKEN_SELECT, TOKEN_WITH:
		return p.parseDML(NodeSelect)
	case TOKEN_INSERT:
		return p.parseDML(NodeInsert)
	case TOKEN_UPDATE:
		return p.parseDML(NodeUpdate)
	case TOKEN_DELETE:
		return p.parseDML(NodeDelete)
	case TOKEN_MERGE:
		return p.parseDML(NodeMerge)
	default:
		return p.parseGeneric()
	}
}

// atStatementBoundary returns true if the current token terminates the
// statement being scanned. DML keywords are excluded inside MERGE bodies
// (WHEN MATCHED THEN UPDATE ...).
func (p *Parser) atStatementBoundary(kind NodeKind) bool {
	switch p.token.Type {
	case TOKEN_EOF, TOKEN_SEMICOLON, TOKEN_CREATE, TOKEN_EXEC, TOKEN_EXECUTE,
		TOKEN_CALL, TOKEN_DECLARE, TOKEN_BEGIN:
		return true
	case TOKEN_INSERT, TOKEN_UPDATE, TOKEN_DELETE, TOKEN_MERGE:
		return kind != NodeMerge
	}
	return p.isBatchSeparator()
}

// snippet returns the trimmed source text between two byte offsets.
func (p *Parser) snippet(start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(p.input) {
		end = len(p.input)
	}
	if start >= end {
		return ""
	}
	return strings.TrimSpace(p.input[start:end])
}

// ---------- Definitions and creation statements ----------

// parseCreate parses CREATE PROCEDURE/FUNCTION/TABLE/VIEW; anything else
// becomes a generic statement.
func (p *Parser) parseCreate() *Node {
	start := p.token.Pos
	p.nextToken() // consume CREATE

	// CREATE OR ALTER / CREATE OR REPLACE
	if p.check(TOKEN_OR) {
		p.nextToken()
		if p.check(TOKEN_ALTER) || (p.check(TOKEN_IDENT) && strings.EqualFold(p.token.Literal, "replace")) {
			p.nextToken()
		}
	}

	switch p.token.Type {
	case TOKEN_PROCEDURE, TOKEN_PROC:
		p.nextToken()
		return p.parseDefinition(NodeCreateProcedure, start)
	case TOKEN_FUNCTION:
		p.nextToken()
		return p.parseDefinition(NodeCreateFunction, start)
	case TOKEN_TABLE:
		p.nextToken()
		return p.parseCreateTable(start)
	case TOKEN_VIEW:
		p.nextToken()
		return p.parseCreateView(start)
	default:
		return p.finishGeneric(start)
	}
}

// parseDefinition parses a procedure or function definition: name, header,
// and body statements up to the terminating END (or batch boundary).
func (p *Parser) parseDefinition(kind NodeKind, start Position) *Node {
	node := &Node{Kind: kind, Line: start.Line}
	node.AddChild(p.parseQualifiedName())

	// Skip parameter list and header clauses up to the body
	p.skipDefinitionHeader()

	// Body: statements until the matching END, a new definition, or EOF
	depth := 0
	for {
		switch {
		case p.check(TOKEN_EOF), p.isBatchSeparator(), p.startsNewDefinition():
			node.Text = p.snippet(start.Offset, p.token.Pos.Offset)
			return node
		case p.check(TOKEN_SEMICOLON):
			p.nextToken()
		case p.check(TOKEN_BEGIN):
			depth++
			p.nextToken()
		case p.check(TOKEN_END):
			p.nextToken()
			if depth > 0 {
				depth--
			}
			if depth == 0 {
				// Optional trailing name (PL/SQL "END proc_name") and ';'
				if p.check(TOKEN_IDENT) && !p.isBatchSeparator() {
					p.nextToken()
				}
				if p.check(TOKEN_SEMICOLON) {
					p.nextToken()
				}
				node.Text = p.snippet(start.Offset, p.token.Pos.Offset)
				return node
			}
		default:
			node.AddChild(p.parseStatement())
		}
	}
}

// skipDefinitionHeader consumes tokens between a definition's name and its
// body: parameter declarations, RETURNS clauses, and the AS/IS marker.
func (p *Parser) skipDefinitionHeader() {
	for {
		switch p.token.Type {
		case TOKEN_EOF, TOKEN_BEGIN:
			return
		case TOKEN_AS, TOKEN_IS:
			p.nextToken()
			return
		case TOKEN_LPAREN:
			p.skipBalancedParens()
		case TOKEN_SELECT, TOKEN_INSERT, TOKEN_UPDATE, TOKEN_DELETE, TOKEN_MERGE,
			TOKEN_EXEC, TOKEN_EXECUTE, TOKEN_CALL, TOKEN_DECLARE, TOKEN_SET:
			// Body without AS/BEGIN marker
			return
		default:
			p.nextToken()
		}
	}
}

// parseCreateTable parses CREATE TABLE <name> [(...)] up to the statement end.
func (p *Parser) parseCreateTable(start Position) *Node {
	node := &Node{Kind: NodeCreateTable, Line: start.Line}
	node.AddChild(p.parseQualifiedName())

	for !p.atStatementBoundary(NodeCreateTable) && !p.check(TOKEN_END) {
		if p.check(TOKEN_LPAREN) {
			p.skipBalancedParens()
			continue
		}
		p.nextToken()
	}
	node.Text = p.snippet(start.Offset, p.token.Pos.Offset)
	return node
}

// parseCreateView parses CREATE VIEW <name> AS <select>.
func (p *Parser) parseCreateView(start Position) *Node {
	node := &Node{Kind: NodeCreateView, Line: start.Line}
	node.AddChild(p.parseQualifiedName())

	// Optional column list, then AS
	if p.check(TOKEN_LPAREN) {
		p.skipBalancedParens()
	}
	if p.check(TOKEN_AS) {
		p.nextToken()
	}
	if p.check(TOKEN_SELECT) || p.check(TOKEN_WITH) {
		node.AddChild(p.parseDML(NodeSelect))
	}
	node.Text = p.snippet(start.Offset, p.token.Pos.Offset)
	return node
}

// ---------- Invocations ----------

// parseExecute parses EXEC/EXECUTE statements, distinguishing direct
// procedure calls from dynamic SQL execution.
func (p *Parser) parseExecute() *Node {
	start := p.token.Pos
	p.nextToken() // consume EXEC/EXECUTE

	dynamic := false
	switch {
	case p.check(TOKEN_IMMEDIATE):
		dynamic = true
	case p.check(TOKEN_LPAREN), p.check(TOKEN_VARIABLE), p.check(TOKEN_STRING):
		// EXECUTE ('...'), EXEC @stmt
		dynamic = true
	case p.check(TOKEN_IDENT) && strings.EqualFold(p.token.Literal, "sp_executesql"):
		dynamic = true
	}

	if dynamic {
		node := &Node{Kind: NodeDynamicSQL, Line: start.Line}
		p.consumeToBoundary(NodeDynamicSQL)
		node.Text = p.snippet(start.Offset, p.token.Pos.Offset)
		return node
	}

	node := &Node{Kind: NodeCall, Line: start.Line}
	node.AddChild(p.parseQualifiedName())
	p.consumeToBoundary(NodeCall)
	node.Text = p.snippet(start.Offset, p.token.Pos.Offset)
	return node
}

// parseCall parses a CALL statement.
func (p *Parser) parseCall() *Node {
	start := p.token.Pos
	p.nextToken() // consume CALL

	node := &Node{Kind: NodeCall, Line: start.Line}
	node.AddChild(p.parseQualifiedName())
	p.consumeToBoundary(NodeCall)
	node.Text = p.snippet(start.Offset, p.token.Pos.Offset)
	return node
}

// consumeToBoundary skips tokens (balancing parens) until a statement boundary.
func (p *Parser) consumeToBoundary(kind NodeKind) {
	for !p.atStatementBoundary(kind) && !p.check(TOKEN_END) {
		if p.check(TOKEN_LPAREN) {
			p.skipBalancedParens()
			continue
		}
		p.nextToken()
	}
}

// ---------- DML statements ----------

// parseDML parses SELECT/INSERT/UPDATE/DELETE/MERGE statements. It records
// typed NodeName children for table references in clause positions the
// scanner understands (FROM, JOIN, INTO, USING, UPDATE/DELETE targets) and
// NodeToken children for the remaining word-like tokens.
func (p *Parser) parseDML(kind NodeKind) *Node {
	start := p.token.Pos
	node := &Node{Kind: kind, Line: start.Line}
	p.nextToken() // consume leading keyword

	// Statement-initial targets: INSERT [INTO] t, UPDATE t, DELETE [FROM] t,
	// MERGE [INTO] t. INTO and FROM themselves are handled by the main loop.
	switch kind {
	case NodeInsert, NodeUpdate, NodeDelete, NodeMerge:
		if p.check(TOKEN_IDENT) {
			node.AddChild(p.parseQualifiedName())
		}
	}

	caseDepth := 0
	for !p.atStatementBoundary(kind) {
		switch p.token.Type {
		case TOKEN_END:
			if caseDepth == 0 {
				node.Text = p.snippet(start.Offset, p.token.Pos.Offset)
				return node
			}
			caseDepth--
			p.nextToken()
		case TOKEN_CASE:
			caseDepth++
			node.AddChild(&Node{Kind: NodeToken, Text: p.token.Literal, Line: p.token.Pos.Line})
			p.nextToken()
		case TOKEN_FROM:
			node.AddChild(&Node{Kind: NodeToken, Text: p.token.Literal, Line: p.token.Pos.Line})
			p.nextToken()
			p.parseNameList(node)
		case TOKEN_JOIN, TOKEN_INTO, TOKEN_USING:
			node.AddChild(&Node{Kind: NodeToken, Text: p.token.Literal, Line: p.token.Pos.Line})
			p.nextToken()
			if p.check(TOKEN_IDENT) {
				node.AddChild(p.parseQualifiedName())
			}
		case TOKEN_LPAREN:
			p.skipBalancedParens()
		case TOKEN_IDENT:
			node.AddChild(p.parseWordToken())
		case TOKEN_VARIABLE, TOKEN_STRING, TOKEN_NUMBER:
			p.nextToken()
		default:
			if _, ok := keywords[strings.ToLower(p.token.Literal)]; ok {
				node.AddChild(&Node{Kind: NodeToken, Text: p.token.Literal, Line: p.token.Pos.Line})
			}
			p.nextToken()
		}
	}

	node.Text = p.snippet(start.Offset, p.token.Pos.Offset)
	return node
}

// parseNameList parses a comma-separated list of table names after FROM.
func (p *Parser) parseNameList(node *Node) {
	if !p.check(TOKEN_IDENT) {
		return
	}
	node.AddChild(p.parseQualifiedName())
	for p.check(TOKEN_COMMA) {
		p.nextToken()
		if !p.check(TOKEN_IDENT) {
			return
		}
		node.AddChild(p.parseQualifiedName())
	}
}

// ---------- Generic statements ----------

// parseGeneric parses an unrecognized statement, preserving word-like tokens
// as children so consumers can apply heuristic classification.
func (p *Parser) parseGeneric() *Node {
	start := p.token.Pos
	p.nextToken() // always consume the leading token to guarantee progress
	return p.finishGeneric(start)
}

// finishGeneric consumes the remainder of a generic statement.
func (p *Parser) finishGeneric(start Position) *Node {
	node := &Node{Kind: NodeStatement, Line: start.Line}

	caseDepth := 0
	for !p.atStatementBoundary(NodeStatement) {
		switch p.token.Type {
		case TOKEN_END:
			if caseDepth == 0 {
				node.Text = p.snippet(start.Offset, p.token.Pos.Offset)
				return node
			}
			caseDepth--
			p.nextToken()
		case TOKEN_CASE:
			caseDepth++
			p.nextToken()
		case TOKEN_LPAREN:
			p.skipBalancedParens()
		case TOKEN_IDENT:
			node.AddChild(p.parseWordToken())
		default:
			p.nextToken()
		}
	}

	node.Text = p.snippet(start.Offset, p.token.Pos.Offset)
	return node
}

// ---------- Shared helpers ----------

// parseQualifiedName parses a dotted object name (a, a.b, a.b.c) into a
// NodeName node with the text as written. Returns nil if the current token
// is not an identifier.
func (p *Parser) parseQualifiedName() *Node {
	if !p.check(TOKEN_IDENT) {
		return nil
	}

	pos := p.token.Pos
	var sb strings.Builder
	sb.WriteString(p.token.Literal)
	p.nextToken()

	for p.check(TOKEN_DOT) && p.peek.Type == TOKEN_IDENT {
		p.nextToken() // consume '.'
		sb.WriteString(".")
		sb.WriteString(p.token.Literal)
		p.nextToken()
	}

	return &Node{Kind: NodeName, Text: sb.String(), Line: pos.Line}
}

// parseWordToken emits a NodeToken for an identifier, merging dotted parts.
// An identifier immediately followed by '(' keeps the paren in its text so
// downstream heuristics can recognize it as a function call; the argument
// list is skipped as opaque.
func (p *Parser) parseWordToken() *Node {
	pos := p.token.Pos
	var sb strings.Builder
	sb.WriteString(p.token.Literal)
	p.nextToken()

	for p.check(TOKEN_DOT) && p.peek.Type == TOKEN_IDENT {
		p.nextToken()
		sb.WriteString(".")
		sb.WriteString(p.token.Literal)
		p.nextToken()
	}

	if p.check(TOKEN_LPAREN) {
		sb.WriteString("(")
		p.skipBalancedParens()
	}

	return &Node{Kind: NodeToken, Text: sb.String(), Line: pos.Line}
}

// skipBalancedParens skips a balanced parenthesis group. The current token
// must be '('. Unterminated groups are skipped to EOF.
func (p *Parser) skipBalancedParens() {
	depth := 0
	for {
		switch p.token.Type {
		case TOKEN_LPAREN:
			depth++
		case TOKEN_RPAREN:
			depth--
			if depth == 0 {
				p.nextToken()
				return
			}
		case TOKEN_EOF:
			return
		}
		p.nextToken()
	}
}
