package main

import "strconv"

// TokenType is the type of token (identifier, operator, literal, etc.).
type TokenType string

// Definition of token types
const (
	ILLEGAL = "ILLEGAL"
	EOF     = "EOF"

	// Block structure. NEWLINE terminates a logical line; INDENT/DEDENT open
	// and close suites per the offside rule.
	NEWLINE = "NEWLINE"
	INDENT  = "INDENT"
	DEDENT  = "DEDENT"

	// Identifiers + literals
	IDENT   = "IDENT"
	INT     = "INT"
	FLOAT   = "FLOAT"
	STRING  = "STRING"
	FSTRING = "FSTRING" // f"..." with the raw payload in CurrLiteral

	// Operators
	ASSIGN     = "="
	PLUS       = "+"
	MINUS      = "-"
	ASTERISK   = "*"
	SLASH      = "/"
	DSLASH     = "//"
	PERCENT    = "%"
	POW        = "**"
	PLUS_EQ    = "+="
	MINUS_EQ   = "-="
	STAR_EQ    = "*="
	SLASH_EQ   = "/="
	PERCENT_EQ = "%="
	DSLASH_EQ  = "//="
	POW_EQ     = "**="
	ARROW      = "->"

	LT     = "<"
	GT     = ">"
	EQ     = "=="
	NOT_EQ = "!="
	LE     = "<="
	GE     = ">="

	// Delimiters
	COMMA    = ","
	COLON    = ":"
	DOT      = "."
	AT       = "@"
	LPAREN   = "("
	RPAREN   = ")"
	LBRACKET = "["
	RBRACKET = "]"
	LBRACE   = "{"
	RBRACE   = "}"

	// Keywords
	DEF      = "DEF"
	CLASS    = "CLASS"
	RETURN   = "RETURN"
	IF       = "IF"
	ELIF     = "ELIF"
	ELSE     = "ELSE"
	FOR      = "FOR"
	WHILE    = "WHILE"
	IN       = "IN"
	NOT      = "NOT"
	AND      = "AND"
	OR       = "OR"
	IS       = "IS"
	BREAK    = "BREAK"
	CONTINUE = "CONTINUE"
	PASS     = "PASS"
	TRY      = "TRY"
	EXCEPT   = "EXCEPT"
	FINALLY  = "FINALLY"
	IMPORT   = "IMPORT"
	FROM     = "FROM"
	AS       = "AS"
	LAMBDA   = "LAMBDA"
	ASYNC    = "ASYNC"
	YIELD    = "YIELD"
	TRUE     = "TRUE"
	FALSE    = "FALSE"
	NONE     = "NONE"
)

var keywords = map[string]TokenType{
	"def":      DEF,
	"class":    CLASS,
	"return":   RETURN,
	"if":       IF,
	"elif":     ELIF,
	"else":     ELSE,
	"for":      FOR,
	"while":    WHILE,
	"in":       IN,
	"not":      NOT,
	"and":      AND,
	"or":       OR,
	"is":       IS,
	"break":    BREAK,
	"continue": CONTINUE,
	"pass":     PASS,
	"try":      TRY,
	"except":   EXCEPT,
	"finally":  FINALLY,
	"import":   IMPORT,
	"from":     FROM,
	"as":       AS,
	"lambda":   LAMBDA,
	"async":    ASYNC,
	"yield":    YIELD,
	"True":     TRUE,
	"False":    FALSE,
	"None":     NONE,
}

// Lexer tokenizes Python source. Input must end with a 0 byte.
type Lexer struct {
	input []byte
	pos   int
	line  int

	indents        []int // indentation column stack, never empties
	pendingDedents int
	atLineStart    bool
	parenDepth     int // inside (), [] or {} newlines are insignificant

	CurrTokenType  TokenType
	CurrLiteral    string
	CurrLine       int
	CurrIntValue   int64   // only meaningful when CurrTokenType == INT
	CurrFloatValue float64 // only meaningful when CurrTokenType == FLOAT
}

// NewLexer initializes a lexer for the given input (must end with a 0 byte).
func NewLexer(in []byte) *Lexer {
	return &Lexer{
		input:       in,
		line:        1,
		indents:     []int{0},
		atLineStart: true,
	}
}

// NextToken scans the next token into the Curr* fields.
// Call repeatedly until CurrTokenType == EOF.
func (l *Lexer) NextToken() {
	l.CurrIntValue = 0
	l.CurrFloatValue = 0
	l.CurrLine = l.line

	if l.pendingDedents > 0 {
		l.pendingDedents--
		l.CurrTokenType = DEDENT
		l.CurrLiteral = ""
		return
	}

	if l.atLineStart && l.parenDepth == 0 {
		if l.handleIndentation() {
			return
		}
	}

	l.skipInsignificant()
	l.CurrLine = l.line
	c := l.input[l.pos]

	switch {
	case c == 0:
		if l.atLineStart || l.parenDepth > 0 {
			l.CurrTokenType = EOF
			l.CurrLiteral = ""
			return
		}
		// Source without a trailing newline: synthesize one so the last
		// logical line still terminates.
		l.CurrTokenType = NEWLINE
		l.CurrLiteral = ""
		l.atLineStart = true
		return

	case c == '\n':
		l.pos++
		l.line++
		if l.parenDepth > 0 {
			l.NextToken()
			return
		}
		l.CurrTokenType = NEWLINE
		l.CurrLiteral = ""
		l.atLineStart = true
		return

	case isLetter(c):
		word := l.readIdentifier()
		if (word == "f" || word == "F") && (l.input[l.pos] == '"' || l.input[l.pos] == '\'') {
			l.CurrTokenType = FSTRING
			l.CurrLiteral = l.readStringRaw(l.input[l.pos])
			return
		}
		if kw, ok := keywords[word]; ok {
			l.CurrTokenType = kw
		} else {
			l.CurrTokenType = IDENT
		}
		l.CurrLiteral = word
		return

	case isDigit(c):
		l.readNumber()
		return

	case c == '"' || c == '\'':
		l.CurrTokenType = STRING
		l.CurrLiteral = decodeEscapes(l.readStringRaw(c))
		return
	}

	l.readOperator(c)
}

// handleIndentation processes the start of a logical line: blank and
// comment-only lines are skipped, block structure changes emit INDENT or
// DEDENT. Returns false when scanning should continue on the current line.
func (l *Lexer) handleIndentation() bool {
	for {
		col := 0
		for {
			c := l.input[l.pos]
			if c == ' ' {
				col++
			} else if c == '\t' {
				col += 8 - col%8
			} else if c == '\r' {
				// ignored for column purposes
			} else {
				break
			}
			l.pos++
		}
		if l.input[l.pos] == '#' {
			l.skipLineComment()
		}
		c := l.input[l.pos]
		if c == '\n' {
			l.pos++
			l.line++
			l.CurrLine = l.line
			continue // blank or comment-only line
		}
		if c == 0 {
			l.atLineStart = false
			if len(l.indents) > 1 {
				l.pendingDedents = len(l.indents) - 2
				l.indents = l.indents[:1]
				l.CurrTokenType = DEDENT
				l.CurrLiteral = ""
				return true
			}
			l.CurrTokenType = EOF
			l.CurrLiteral = ""
			return true
		}

		l.atLineStart = false
		cur := l.indents[len(l.indents)-1]
		if col > cur {
			l.indents = append(l.indents, col)
			l.CurrTokenType = INDENT
			l.CurrLiteral = ""
			return true
		}
		if col < cur {
			n := 0
			for len(l.indents) > 1 && l.indents[len(l.indents)-1] > col {
				l.indents = l.indents[:len(l.indents)-1]
				n++
			}
			if l.indents[len(l.indents)-1] != col {
				l.CurrTokenType = ILLEGAL
				l.CurrLiteral = "inconsistent indentation"
				return true
			}
			l.pendingDedents = n - 1
			l.CurrTokenType = DEDENT
			l.CurrLiteral = ""
			return true
		}
		return false
	}
}

func (l *Lexer) readOperator(c byte) {
	two := func(t TokenType) {
		l.CurrTokenType = t
		l.CurrLiteral = string(l.input[l.pos : l.pos+2])
		l.pos += 2
	}
	one := func(t TokenType) {
		l.CurrTokenType = t
		l.CurrLiteral = string(c)
		l.pos++
	}
	three := func(t TokenType) {
		l.CurrTokenType = t
		l.CurrLiteral = string(l.input[l.pos : l.pos+3])
		l.pos += 3
	}

	nxt := l.input[l.pos+1]
	switch c {
	case '=':
		if nxt == '=' {
			two(EQ)
		} else {
			one(ASSIGN)
		}
	case '!':
		if nxt == '=' {
			two(NOT_EQ)
		} else {
			one(ILLEGAL)
		}
	case '+':
		if nxt == '=' {
			two(PLUS_EQ)
		} else {
			one(PLUS)
		}
	case '-':
		if nxt == '=' {
			two(MINUS_EQ)
		} else if nxt == '>' {
			two(ARROW)
		} else {
			one(MINUS)
		}
	case '*':
		if nxt == '*' {
			if l.input[l.pos+2] == '=' {
				three(POW_EQ)
			} else {
				two(POW)
			}
		} else if nxt == '=' {
			two(STAR_EQ)
		} else {
			one(ASTERISK)
		}
	case '/':
		if nxt == '/' {
			if l.input[l.pos+2] == '=' {
				three(DSLASH_EQ)
			} else {
				two(DSLASH)
			}
		} else if nxt == '=' {
			two(SLASH_EQ)
		} else {
			one(SLASH)
		}
	case '%':
		if nxt == '=' {
			two(PERCENT_EQ)
		} else {
			one(PERCENT)
		}
	case '<':
		if nxt == '=' {
			two(LE)
		} else {
			one(LT)
		}
	case '>':
		if nxt == '=' {
			two(GE)
		} else {
			one(GT)
		}
	case ',':
		one(COMMA)
	case ':':
		one(COLON)
	case '.':
		one(DOT)
	case '@':
		one(AT)
	case '(':
		l.parenDepth++
		one(LPAREN)
	case ')':
		l.parenDepth--
		one(RPAREN)
	case '[':
		l.parenDepth++
		one(LBRACKET)
	case ']':
		l.parenDepth--
		one(RBRACKET)
	case '{':
		l.parenDepth++
		one(LBRACE)
	case '}':
		l.parenDepth--
		one(RBRACE)
	default:
		one(ILLEGAL)
	}
}

func (l *Lexer) skipInsignificant() {
	for {
		c := l.input[l.pos]
		if c == ' ' || c == '\t' || c == '\r' {
			l.pos++
		} else if c == '#' {
			l.skipLineComment()
		} else if c == '\\' && l.input[l.pos+1] == '\n' {
			// explicit line continuation
			l.pos += 2
			l.line++
		} else {
			return
		}
	}
}

func (l *Lexer) skipLineComment() {
	for l.input[l.pos] != '\n' && l.input[l.pos] != 0 {
		l.pos++
	}
}

func isLetter(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || c == '_'
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func (l *Lexer) readIdentifier() string {
	start := l.pos
	for isLetter(l.input[l.pos]) || isDigit(l.input[l.pos]) {
		l.pos++
	}
	return string(l.input[start:l.pos])
}

func (l *Lexer) readNumber() {
	start := l.pos
	for isDigit(l.input[l.pos]) {
		l.pos++
	}
	if l.input[l.pos] == '.' && l.input[l.pos+1] != '.' {
		l.pos++
		for isDigit(l.input[l.pos]) {
			l.pos++
		}
		lit := string(l.input[start:l.pos])
		l.CurrTokenType = FLOAT
		l.CurrLiteral = lit
		l.CurrFloatValue, _ = strconv.ParseFloat(lit, 64)
		return
	}
	lit := string(l.input[start:l.pos])
	l.CurrTokenType = INT
	l.CurrLiteral = lit
	l.CurrIntValue, _ = strconv.ParseInt(lit, 10, 64)
}

// readStringRaw consumes a quoted string and returns its payload without
// decoding escape sequences. The caller sits on the opening quote.
func (l *Lexer) readStringRaw(quote byte) string {
	l.pos++ // opening quote
	start := l.pos
	for {
		c := l.input[l.pos]
		if c == quote || c == 0 || c == '\n' {
			break
		}
		if c == '\\' && l.input[l.pos+1] != 0 {
			l.pos++
		}
		l.pos++
	}
	raw := string(l.input[start:l.pos])
	if l.input[l.pos] == quote {
		l.pos++
	}
	return raw
}

// decodeEscapes resolves backslash escapes into their character values.
func decodeEscapes(raw string) string {
	out := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c != '\\' || i+1 >= len(raw) {
			out = append(out, c)
			continue
		}
		i++
		switch raw[i] {
		case 'n':
			out = append(out, '\n')
		case 't':
			out = append(out, '\t')
		case 'r':
			out = append(out, '\r')
		case '\\':
			out = append(out, '\\')
		case '\'':
			out = append(out, '\'')
		case '"':
			out = append(out, '"')
		default:
			out = append(out, '\\', raw[i])
		}
	}
	return string(out)
}
