package main

import (
	"fmt"
	"strings"
)

// ParseError is the only fatal error in the pipeline: the input is not valid
// Python syntax. Everything downstream of a successful parse degrades to
// diagnostics instead.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

type parseBailout struct {
	err *ParseError
}

// Parser turns the token stream into a Node tree.
type Parser struct {
	l *Lexer
}

// ParseProgram parses Python source into a module node.
func ParseProgram(source string) (root *Node, err error) {
	defer func() {
		if r := recover(); r != nil {
			if bail, ok := r.(parseBailout); ok {
				root = nil
				err = bail.err
				return
			}
			panic(r)
		}
	}()

	input := append([]byte(source), 0)
	p := &Parser{l: NewLexer(input)}
	p.l.NextToken()

	mod := &Node{Kind: NodeModule, Line: 1}
	for p.l.CurrTokenType != EOF {
		if p.l.CurrTokenType == NEWLINE {
			p.l.NextToken()
			continue
		}
		mod.Body = append(mod.Body, p.parseStatement())
	}
	return mod, nil
}

func (p *Parser) errorf(format string, args ...any) {
	panic(parseBailout{&ParseError{Line: p.l.CurrLine, Message: fmt.Sprintf(format, args...)}})
}

func (p *Parser) expect(t TokenType) {
	if p.l.CurrTokenType != t {
		p.errorf("expected %s, found %s", t, p.describeCurr())
	}
	p.l.NextToken()
}

func (p *Parser) describeCurr() string {
	if p.l.CurrTokenType == ILLEGAL && p.l.CurrLiteral != "" {
		return p.l.CurrLiteral
	}
	if p.l.CurrLiteral != "" {
		return fmt.Sprintf("%s (%q)", p.l.CurrTokenType, p.l.CurrLiteral)
	}
	return string(p.l.CurrTokenType)
}

// peekToken looks one token ahead without consuming anything.
func (p *Parser) peekToken() TokenType {
	saved := *p.l
	savedIndents := append([]int(nil), p.l.indents...)
	p.l.NextToken()
	tok := p.l.CurrTokenType
	*p.l = saved
	p.l.indents = savedIndents
	return tok
}

// ===== STATEMENTS =====

func (p *Parser) parseStatement() *Node {
	switch p.l.CurrTokenType {
	case AT:
		return p.parseDecorated()
	case DEF:
		return p.parseFunctionDef(false, nil)
	case ASYNC:
		p.l.NextToken()
		if p.l.CurrTokenType != DEF {
			p.errorf("expected def after async")
		}
		return p.parseFunctionDef(true, nil)
	case CLASS:
		return p.parseClassDef()
	case IF:
		return p.parseIf()
	case FOR:
		return p.parseFor()
	case WHILE:
		return p.parseWhile()
	case TRY:
		return p.parseTry()
	case RETURN:
		return p.parseReturn()
	case BREAK, CONTINUE, PASS:
		kindOf := map[TokenType]NodeKind{BREAK: NodeBreak, CONTINUE: NodeContinue, PASS: NodePass}
		node := &Node{Kind: kindOf[p.l.CurrTokenType], Line: p.l.CurrLine}
		p.l.NextToken()
		p.endStatement()
		return node
	case IMPORT:
		return p.parseImport()
	case FROM:
		return p.parseImportFrom()
	case ILLEGAL:
		p.errorf("%s", p.describeCurr())
		return nil
	default:
		return p.parseExprStatement()
	}
}

func (p *Parser) parseDecorated() *Node {
	var decorators []string
	for p.l.CurrTokenType == AT {
		p.l.NextToken()
		name := p.parseDottedName()
		// decorator arguments carry no meaning here
		if p.l.CurrTokenType == LPAREN {
			depth := 0
			for {
				if p.l.CurrTokenType == LPAREN {
					depth++
				} else if p.l.CurrTokenType == RPAREN {
					depth--
					if depth == 0 {
						p.l.NextToken()
						break
					}
				} else if p.l.CurrTokenType == EOF {
					p.errorf("unterminated decorator arguments")
				}
				p.l.NextToken()
			}
		}
		p.expect(NEWLINE)
		decorators = append(decorators, name)
	}
	switch p.l.CurrTokenType {
	case DEF:
		return p.parseFunctionDef(false, decorators)
	case ASYNC:
		p.l.NextToken()
		if p.l.CurrTokenType != DEF {
			p.errorf("expected def after async")
		}
		return p.parseFunctionDef(true, decorators)
	case CLASS:
		return p.parseClassDef()
	}
	p.errorf("expected def or class after decorator")
	return nil
}

func (p *Parser) parseDottedName() string {
	if p.l.CurrTokenType != IDENT {
		p.errorf("expected name, found %s", p.describeCurr())
	}
	name := p.l.CurrLiteral
	p.l.NextToken()
	for p.l.CurrTokenType == DOT {
		p.l.NextToken()
		if p.l.CurrTokenType != IDENT {
			p.errorf("expected name after '.'")
		}
		name += "." + p.l.CurrLiteral
		p.l.NextToken()
	}
	return name
}

func (p *Parser) parseFunctionDef(isAsync bool, decorators []string) *Node {
	node := &Node{Kind: NodeFunctionDef, Line: p.l.CurrLine, IsAsync: isAsync, Decorators: decorators}
	p.expect(DEF)
	if p.l.CurrTokenType != IDENT {
		p.errorf("expected function name, found %s", p.describeCurr())
	}
	node.Name = p.l.CurrLiteral
	p.l.NextToken()

	p.expect(LPAREN)
	for p.l.CurrTokenType != RPAREN {
		if p.l.CurrTokenType != IDENT {
			p.errorf("expected parameter name, found %s", p.describeCurr())
		}
		param := &Node{Kind: NodeParam, Line: p.l.CurrLine, Name: p.l.CurrLiteral}
		p.l.NextToken()
		if p.l.CurrTokenType == COLON {
			p.l.NextToken()
			param.Value = p.parseExpr()
		}
		if p.l.CurrTokenType == ASSIGN {
			// default values do not survive translation
			p.l.NextToken()
			p.parseExpr()
		}
		node.Args = append(node.Args, param)
		if p.l.CurrTokenType == COMMA {
			p.l.NextToken()
		} else {
			break
		}
	}
	p.expect(RPAREN)

	if p.l.CurrTokenType == ARROW {
		p.l.NextToken()
		node.Returns = p.parseExpr()
	}
	node.Body = p.parseBlock()
	return node
}

func (p *Parser) parseClassDef() *Node {
	node := &Node{Kind: NodeClassDef, Line: p.l.CurrLine}
	p.expect(CLASS)
	if p.l.CurrTokenType != IDENT {
		p.errorf("expected class name, found %s", p.describeCurr())
	}
	node.Name = p.l.CurrLiteral
	p.l.NextToken()
	if p.l.CurrTokenType == LPAREN {
		p.l.NextToken()
		for p.l.CurrTokenType != RPAREN {
			node.Args = append(node.Args, p.parseExpr())
			if p.l.CurrTokenType == COMMA {
				p.l.NextToken()
			} else {
				break
			}
		}
		p.expect(RPAREN)
	}
	node.Body = p.parseBlock()
	return node
}

func (p *Parser) parseIf() *Node {
	node := &Node{Kind: NodeIf, Line: p.l.CurrLine}
	p.l.NextToken() // if / elif
	node.Test = p.parseExpr()
	node.Body = p.parseBlock()

	switch p.l.CurrTokenType {
	case ELIF:
		node.Else = []*Node{p.parseIf()}
	case ELSE:
		p.l.NextToken()
		node.Else = p.parseBlock()
	}
	return node
}

func (p *Parser) parseFor() *Node {
	node := &Node{Kind: NodeFor, Line: p.l.CurrLine}
	p.expect(FOR)
	node.Target = p.parseTargetList()
	p.expect(IN)
	node.Iter = p.parseExprList()
	node.Body = p.parseBlock()
	if p.l.CurrTokenType == ELSE {
		p.l.NextToken()
		node.Else = p.parseBlock()
	}
	return node
}

func (p *Parser) parseWhile() *Node {
	node := &Node{Kind: NodeWhile, Line: p.l.CurrLine}
	p.expect(WHILE)
	node.Test = p.parseExpr()
	node.Body = p.parseBlock()
	if p.l.CurrTokenType == ELSE {
		p.l.NextToken()
		node.Else = p.parseBlock()
	}
	return node
}

func (p *Parser) parseTry() *Node {
	node := &Node{Kind: NodeTry, Line: p.l.CurrLine}
	p.expect(TRY)
	node.Body = p.parseBlock()
	for p.l.CurrTokenType == EXCEPT {
		handler := &Node{Kind: NodeExcept, Line: p.l.CurrLine}
		p.l.NextToken()
		if p.l.CurrTokenType == IDENT {
			handler.Name = p.l.CurrLiteral
			p.l.NextToken()
			if p.l.CurrTokenType == AS {
				p.l.NextToken()
				if p.l.CurrTokenType != IDENT {
					p.errorf("expected name after 'as'")
				}
				p.l.NextToken()
			}
		}
		handler.Body = p.parseBlock()
		node.Handlers = append(node.Handlers, handler)
	}
	// try-else and finally have no Swift rendering; their bodies are kept so
	// the generator can diagnose them instead of dropping tokens here.
	if p.l.CurrTokenType == ELSE {
		p.l.NextToken()
		node.Else = append(node.Else, p.parseBlock()...)
	}
	if p.l.CurrTokenType == FINALLY {
		p.l.NextToken()
		node.Else = append(node.Else, p.parseBlock()...)
	}
	return node
}

func (p *Parser) parseReturn() *Node {
	node := &Node{Kind: NodeReturn, Line: p.l.CurrLine}
	p.expect(RETURN)
	if p.startsExpr() {
		node.Value = p.parseExprList()
	}
	p.endStatement()
	return node
}

func (p *Parser) parseImport() *Node {
	node := &Node{Kind: NodeImport, Line: p.l.CurrLine}
	p.expect(IMPORT)
	for {
		node.Names = append(node.Names, p.parseDottedName())
		if p.l.CurrTokenType == AS {
			p.l.NextToken()
			p.parseDottedName()
		}
		if p.l.CurrTokenType != COMMA {
			break
		}
		p.l.NextToken()
	}
	p.endStatement()
	return node
}

func (p *Parser) parseImportFrom() *Node {
	node := &Node{Kind: NodeImportFrom, Line: p.l.CurrLine}
	p.expect(FROM)
	node.Name = p.parseDottedName()
	p.expect(IMPORT)
	if p.l.CurrTokenType == ASTERISK {
		node.Names = append(node.Names, "*")
		p.l.NextToken()
	} else {
		for {
			node.Names = append(node.Names, p.parseDottedName())
			if p.l.CurrTokenType == AS {
				p.l.NextToken()
				p.parseDottedName()
			}
			if p.l.CurrTokenType != COMMA {
				break
			}
			p.l.NextToken()
		}
	}
	p.endStatement()
	return node
}

func (p *Parser) parseExprStatement() *Node {
	line := p.l.CurrLine
	first := p.parseExprList()

	switch p.l.CurrTokenType {
	case ASSIGN:
		node := &Node{Kind: NodeAssign, Line: line, Args: []*Node{first}}
		for p.l.CurrTokenType == ASSIGN {
			p.l.NextToken()
			next := p.parseExprList()
			if p.l.CurrTokenType == ASSIGN {
				node.Args = append(node.Args, next)
				continue
			}
			node.Value = next
		}
		p.endStatement()
		return node
	case PLUS_EQ, MINUS_EQ, STAR_EQ, SLASH_EQ, PERCENT_EQ, DSLASH_EQ, POW_EQ:
		op := strings.TrimSuffix(string(p.l.CurrTokenType), "=")
		p.l.NextToken()
		node := &Node{Kind: NodeAugAssign, Line: line, Target: first, Op: op, Value: p.parseExprList()}
		p.endStatement()
		return node
	}

	node := &Node{Kind: NodeExprStmt, Line: line, Value: first}
	p.endStatement()
	return node
}

// endStatement consumes the terminating NEWLINE. DEDENT and EOF also close a
// statement (last line of a block, or source without a trailing newline).
func (p *Parser) endStatement() {
	switch p.l.CurrTokenType {
	case NEWLINE:
		p.l.NextToken()
	case EOF, DEDENT:
	default:
		p.errorf("unexpected %s after statement", p.describeCurr())
	}
}

// parseBlock parses ":" NEWLINE INDENT stmt+ DEDENT, or a single inline
// statement after the colon.
func (p *Parser) parseBlock() []*Node {
	p.expect(COLON)
	if p.l.CurrTokenType != NEWLINE {
		return []*Node{p.parseStatement()}
	}
	p.l.NextToken()
	p.expect(INDENT)
	var body []*Node
	for p.l.CurrTokenType != DEDENT && p.l.CurrTokenType != EOF {
		if p.l.CurrTokenType == NEWLINE {
			p.l.NextToken()
			continue
		}
		body = append(body, p.parseStatement())
	}
	if p.l.CurrTokenType == DEDENT {
		p.l.NextToken()
	}
	if len(body) == 0 {
		p.errorf("expected an indented block")
	}
	return body
}

// ===== EXPRESSIONS =====

func (p *Parser) startsExpr() bool {
	switch p.l.CurrTokenType {
	case IDENT, INT, FLOAT, STRING, FSTRING, TRUE, FALSE, NONE,
		LPAREN, LBRACKET, LBRACE, MINUS, PLUS, NOT, LAMBDA, YIELD:
		return true
	}
	return false
}

// parseExprList parses comma-separated expressions, folding two or more into
// a tuple (unparenthesized, as in "a, b = b, a" or "return x, y").
func (p *Parser) parseExprList() *Node {
	first := p.parseExpr()
	if p.l.CurrTokenType != COMMA {
		return first
	}
	tuple := &Node{Kind: NodeTuple, Line: first.Line, Args: []*Node{first}}
	for p.l.CurrTokenType == COMMA {
		p.l.NextToken()
		if !p.startsExpr() {
			break // trailing comma
		}
		tuple.Args = append(tuple.Args, p.parseExpr())
	}
	return tuple
}

// parseTargetList parses loop targets: a name, attribute, subscript, or a
// comma list of those. Targets parse below comparison level so the "in"
// keyword stays with the enclosing for-clause.
func (p *Parser) parseTargetList() *Node {
	first := p.parsePostfix()
	if p.l.CurrTokenType != COMMA {
		return first
	}
	tuple := &Node{Kind: NodeTuple, Line: first.Line, Args: []*Node{first}}
	for p.l.CurrTokenType == COMMA {
		p.l.NextToken()
		if !p.startsExpr() {
			break // trailing comma
		}
		tuple.Args = append(tuple.Args, p.parsePostfix())
	}
	return tuple
}

func (p *Parser) parseExpr() *Node {
	if p.l.CurrTokenType == LAMBDA {
		return p.parseLambda()
	}
	cond := p.parseOr()
	if p.l.CurrTokenType != IF {
		return cond
	}
	// conditional expression: body if test else orelse
	node := &Node{Kind: NodeIfExp, Line: cond.Line, Left: cond}
	p.l.NextToken()
	node.Test = p.parseOr()
	p.expect(ELSE)
	node.Right = p.parseExpr()
	return node
}

func (p *Parser) parseLambda() *Node {
	node := &Node{Kind: NodeLambda, Line: p.l.CurrLine}
	p.expect(LAMBDA)
	for p.l.CurrTokenType == IDENT {
		node.Args = append(node.Args, &Node{Kind: NodeParam, Line: p.l.CurrLine, Name: p.l.CurrLiteral})
		p.l.NextToken()
		if p.l.CurrTokenType == COMMA {
			p.l.NextToken()
		} else {
			break
		}
	}
	p.expect(COLON)
	node.Value = p.parseExpr()
	return node
}

func (p *Parser) parseOr() *Node {
	left := p.parseAnd()
	if p.l.CurrTokenType != OR {
		return left
	}
	node := &Node{Kind: NodeBoolOp, Line: left.Line, Op: "or", Args: []*Node{left}}
	for p.l.CurrTokenType == OR {
		p.l.NextToken()
		node.Args = append(node.Args, p.parseAnd())
	}
	return node
}

func (p *Parser) parseAnd() *Node {
	left := p.parseNot()
	if p.l.CurrTokenType != AND {
		return left
	}
	node := &Node{Kind: NodeBoolOp, Line: left.Line, Op: "and", Args: []*Node{left}}
	for p.l.CurrTokenType == AND {
		p.l.NextToken()
		node.Args = append(node.Args, p.parseNot())
	}
	return node
}

func (p *Parser) parseNot() *Node {
	if p.l.CurrTokenType == NOT {
		line := p.l.CurrLine
		p.l.NextToken()
		return &Node{Kind: NodeUnary, Line: line, Op: "not", Value: p.parseNot()}
	}
	return p.parseComparison()
}

func (p *Parser) parseComparison() *Node {
	left := p.parseAdd()
	var ops []string
	var comparators []*Node
	for {
		var op string
		switch p.l.CurrTokenType {
		case EQ, NOT_EQ, LT, LE, GT, GE:
			op = string(p.l.CurrTokenType)
			p.l.NextToken()
		case IN:
			op = "in"
			p.l.NextToken()
		case NOT:
			// "not in"
			if p.peekToken() != IN {
				p.errorf("expected 'in' after 'not'")
			}
			p.l.NextToken()
			p.l.NextToken()
			op = "not in"
		case IS:
			p.l.NextToken()
			op = "is"
			if p.l.CurrTokenType == NOT {
				p.l.NextToken()
				op = "is not"
			}
		default:
			if ops == nil {
				return left
			}
			return &Node{Kind: NodeCompare, Line: left.Line, Left: left, Ops: ops, Args: comparators}
		}
		ops = append(ops, op)
		comparators = append(comparators, p.parseAdd())
	}
}

func (p *Parser) parseAdd() *Node {
	left := p.parseMul()
	for p.l.CurrTokenType == PLUS || p.l.CurrTokenType == MINUS {
		op := string(p.l.CurrTokenType)
		p.l.NextToken()
		left = &Node{Kind: NodeBinary, Line: left.Line, Op: op, Left: left, Right: p.parseMul()}
	}
	return left
}

func (p *Parser) parseMul() *Node {
	left := p.parseUnary()
	for {
		switch p.l.CurrTokenType {
		case ASTERISK, SLASH, DSLASH, PERCENT:
			op := string(p.l.CurrTokenType)
			p.l.NextToken()
			left = &Node{Kind: NodeBinary, Line: left.Line, Op: op, Left: left, Right: p.parseUnary()}
		default:
			return left
		}
	}
}

func (p *Parser) parseUnary() *Node {
	switch p.l.CurrTokenType {
	case MINUS:
		line := p.l.CurrLine
		p.l.NextToken()
		return &Node{Kind: NodeUnary, Line: line, Op: "-", Value: p.parseUnary()}
	case PLUS:
		line := p.l.CurrLine
		p.l.NextToken()
		return &Node{Kind: NodeUnary, Line: line, Op: "+", Value: p.parseUnary()}
	}
	return p.parsePower()
}

func (p *Parser) parsePower() *Node {
	base := p.parsePostfix()
	if p.l.CurrTokenType == POW {
		p.l.NextToken()
		// right-associative, binds tighter than unary on the left
		return &Node{Kind: NodeBinary, Line: base.Line, Op: "**", Left: base, Right: p.parseUnary()}
	}
	return base
}

func (p *Parser) parsePostfix() *Node {
	node := p.parsePrimary()
	for {
		switch p.l.CurrTokenType {
		case LPAREN:
			node = p.parseCall(node)
		case DOT:
			p.l.NextToken()
			if p.l.CurrTokenType != IDENT {
				p.errorf("expected attribute name after '.'")
			}
			node = &Node{Kind: NodeAttribute, Line: node.Line, Value: node, Name: p.l.CurrLiteral}
			p.l.NextToken()
		case LBRACKET:
			node = p.parseSubscript(node)
		default:
			return node
		}
	}
}

func (p *Parser) parseCall(fn *Node) *Node {
	node := &Node{Kind: NodeCall, Line: fn.Line, Value: fn}
	p.expect(LPAREN)
	for p.l.CurrTokenType != RPAREN {
		if p.l.CurrTokenType == IDENT && p.peekToken() == ASSIGN {
			// keyword arguments carry no positional meaning in the output
			p.l.NextToken()
			p.l.NextToken()
			p.parseExpr()
		} else {
			node.Args = append(node.Args, p.parseExpr())
		}
		if p.l.CurrTokenType == COMMA {
			p.l.NextToken()
		} else {
			break
		}
	}
	p.expect(RPAREN)
	return node
}

func (p *Parser) parseSubscript(base *Node) *Node {
	line := p.l.CurrLine
	p.expect(LBRACKET)

	var lower *Node
	if p.l.CurrTokenType != COLON {
		// a comma folds into a tuple index, as in Dict[str, int]
		lower = p.parseExprList()
	}
	if p.l.CurrTokenType != COLON {
		p.expect(RBRACKET)
		return &Node{Kind: NodeSubscript, Line: line, Value: base, Index: lower}
	}

	slice := &Node{Kind: NodeSlice, Line: line, Lower: lower}
	p.l.NextToken()
	if p.l.CurrTokenType != COLON && p.l.CurrTokenType != RBRACKET {
		slice.Upper = p.parseExpr()
	}
	if p.l.CurrTokenType == COLON {
		p.l.NextToken()
		if p.l.CurrTokenType != RBRACKET {
			slice.Step = p.parseExpr()
		}
	}
	p.expect(RBRACKET)
	return &Node{Kind: NodeSubscript, Line: line, Value: base, Index: slice}
}

func (p *Parser) parsePrimary() *Node {
	line := p.l.CurrLine
	switch p.l.CurrTokenType {
	case IDENT:
		node := &Node{Kind: NodeName, Line: line, Name: p.l.CurrLiteral}
		p.l.NextToken()
		return node
	case INT:
		node := &Node{Kind: NodeInt, Line: line, IntVal: p.l.CurrIntValue}
		p.l.NextToken()
		return node
	case FLOAT:
		node := &Node{Kind: NodeFloat, Line: line, FloatVal: p.l.CurrFloatValue, Str: p.l.CurrLiteral}
		p.l.NextToken()
		return node
	case STRING:
		node := &Node{Kind: NodeString, Line: line, Str: p.l.CurrLiteral}
		p.l.NextToken()
		return node
	case FSTRING:
		raw := p.l.CurrLiteral
		p.l.NextToken()
		return p.parseFString(raw, line)
	case TRUE, FALSE:
		node := &Node{Kind: NodeBool, Line: line, BoolVal: p.l.CurrTokenType == TRUE}
		p.l.NextToken()
		return node
	case NONE:
		p.l.NextToken()
		return &Node{Kind: NodeNone, Line: line}
	case LAMBDA:
		return p.parseLambda()
	case YIELD:
		p.l.NextToken()
		node := &Node{Kind: NodeYield, Line: line}
		if p.startsExpr() {
			node.Value = p.parseExprList()
		}
		return node
	case LPAREN:
		p.l.NextToken()
		if p.l.CurrTokenType == RPAREN {
			p.l.NextToken()
			return &Node{Kind: NodeTuple, Line: line}
		}
		node := p.parseExprList()
		p.expect(RPAREN)
		return node
	case LBRACKET:
		return p.parseListOrComp()
	case LBRACE:
		return p.parseDictOrSet()
	}
	p.errorf("unexpected %s in expression", p.describeCurr())
	return nil
}

func (p *Parser) parseListOrComp() *Node {
	line := p.l.CurrLine
	p.expect(LBRACKET)
	if p.l.CurrTokenType == RBRACKET {
		p.l.NextToken()
		return &Node{Kind: NodeList, Line: line}
	}

	first := p.parseExpr()
	if p.l.CurrTokenType == FOR {
		return p.parseComprehension(first, line)
	}

	node := &Node{Kind: NodeList, Line: line, Args: []*Node{first}}
	for p.l.CurrTokenType == COMMA {
		p.l.NextToken()
		if p.l.CurrTokenType == RBRACKET {
			break
		}
		node.Args = append(node.Args, p.parseExpr())
	}
	p.expect(RBRACKET)
	return node
}

func (p *Parser) parseComprehension(element *Node, line int) *Node {
	node := &Node{Kind: NodeListComp, Line: line, Value: element, Generators: 1}
	p.expect(FOR)
	node.Target = p.parseTargetList()
	p.expect(IN)
	// the iterator stops before any "if" filter, so parse at or-level
	node.Iter = p.parseOr()
	for p.l.CurrTokenType == IF {
		p.l.NextToken()
		cond := p.parseOr()
		if node.Test == nil {
			node.Test = cond
		}
	}
	// additional generator clauses are counted and consumed; the generator
	// reports them as unsupported
	for p.l.CurrTokenType == FOR {
		node.Generators++
		p.l.NextToken()
		p.parseTargetList()
		p.expect(IN)
		p.parseOr()
		for p.l.CurrTokenType == IF {
			p.l.NextToken()
			p.parseOr()
		}
	}
	p.expect(RBRACKET)
	return node
}

func (p *Parser) parseDictOrSet() *Node {
	line := p.l.CurrLine
	p.expect(LBRACE)
	if p.l.CurrTokenType == RBRACE {
		p.l.NextToken()
		return &Node{Kind: NodeDict, Line: line}
	}

	first := p.parseExpr()
	if p.l.CurrTokenType == COLON {
		node := &Node{Kind: NodeDict, Line: line}
		p.l.NextToken()
		node.Keys = append(node.Keys, first)
		node.Values = append(node.Values, p.parseExpr())
		for p.l.CurrTokenType == COMMA {
			p.l.NextToken()
			if p.l.CurrTokenType == RBRACE {
				break
			}
			node.Keys = append(node.Keys, p.parseExpr())
			p.expect(COLON)
			node.Values = append(node.Values, p.parseExpr())
		}
		p.expect(RBRACE)
		return node
	}

	node := &Node{Kind: NodeSet, Line: line, Args: []*Node{first}}
	for p.l.CurrTokenType == COMMA {
		p.l.NextToken()
		if p.l.CurrTokenType == RBRACE {
			break
		}
		node.Args = append(node.Args, p.parseExpr())
	}
	p.expect(RBRACE)
	return node
}

// parseFString splits an f-string payload into literal text and embedded
// expressions. Format specs ("{x:.2f}") and conversions ("{x!r}") are
// stripped; only the expression part survives.
func (p *Parser) parseFString(raw string, line int) *Node {
	node := &Node{Kind: NodeFString, Line: line, Str: raw}
	var text strings.Builder
	flushText := func() {
		if text.Len() > 0 {
			node.Args = append(node.Args, &Node{Kind: NodeString, Line: line, Str: decodeEscapes(text.String())})
			text.Reset()
		}
	}

	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch {
		case c == '{' && i+1 < len(raw) && raw[i+1] == '{':
			text.WriteByte('{')
			i++
		case c == '}' && i+1 < len(raw) && raw[i+1] == '}':
			text.WriteByte('}')
			i++
		case c == '{':
			end := interpolationEnd(raw[i+1:])
			if end < 0 {
				p.errorf("unterminated interpolation in f-string")
			}
			inner := raw[i+1 : i+1+end]
			if cut := formatSpecStart(inner); cut >= 0 {
				inner = inner[:cut]
			}
			flushText()
			node.Args = append(node.Args, p.parseSubExpression(inner, line))
			i += end + 1
		default:
			text.WriteByte(c)
		}
	}
	flushText()
	return node
}

// interpolationEnd returns the offset of the "}" closing an interpolation.
// Quoted strings and nested brackets are skipped, so "{d['}']}" closes at
// the right brace.
func interpolationEnd(s string) int {
	depth := 0
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
		case '(', '[', '{':
			depth++
		case ')', ']':
			depth--
		case '}':
			if depth == 0 {
				return i
			}
			depth--
		}
	}
	return -1
}

// formatSpecStart finds the ":" or "!" opening a format spec or conversion
// in an interpolation, or -1. Quoted strings, bracketed subexpressions, and
// the "!=" operator do not count.
func formatSpecStart(s string) int {
	depth := 0
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ':':
			if depth == 0 {
				return i
			}
		case '!':
			if depth == 0 && (i+1 >= len(s) || s[i+1] != '=') {
				return i
			}
		}
	}
	return -1
}

// parseSubExpression parses an isolated expression string, used for f-string
// interpolations.
func (p *Parser) parseSubExpression(source string, line int) *Node {
	sub := &Parser{l: NewLexer(append([]byte(source), 0))}
	sub.l.line = line
	sub.l.NextToken()
	if !sub.startsExpr() {
		p.errorf("empty interpolation in f-string")
	}
	expr := sub.parseExpr()
	return expr
}
