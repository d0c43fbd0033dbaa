package parse

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/scanner"
)

var ErrBadSyntax = errors.New("bad syntax")

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenDelim
	tokenInt
	tokenString
	tokenIdent
	tokenKeyword
	tokenUnterminated
)

var keywords = map[string]bool{
	"add": true, "delete": true, "get": true, "list": true,
	"patient": true, "patients": true, "appointment": true, "appointments": true,
	"for": true, "where": true, "and": true,
	"by": true, "date": true, "from": true, "to": true,
	"stats": true, "check": true,
}

// token is one lexeme. Identifiers and keywords are lower cased, strings are
// unquoted and integers keep their digits as written.
type token struct {
	kind tokenKind
	text string
	col  int
}

// Lexer splits a command into tokens, one token of lookahead at a time.
type Lexer struct {
	scanner scanner.Scanner
	cur     token
}

func NewLexer(input string) *Lexer {
	l := &Lexer{}
	l.scanner.Init(strings.NewReader(input))
	l.scanner.Mode = scanner.ScanIdents | scanner.ScanInts
	// Day numbers like 08 are not valid octal; the digits are still usable.
	l.scanner.Error = func(*scanner.Scanner, string) {}
	l.nextToken()
	return l
}

func (l *Lexer) nextToken() {
	r := l.scanner.Scan()
	l.cur = token{text: l.scanner.TokenText(), col: l.scanner.Position.Column}

	switch r {
	case scanner.EOF:
		l.cur.kind = tokenEOF
	case scanner.Int:
		l.cur.kind = tokenInt
	case scanner.Ident:
		l.cur.text = strings.ToLower(l.cur.text)
		l.cur.kind = tokenIdent
		if keywords[l.cur.text] {
			l.cur.kind = tokenKeyword
		}
	case '\'', '"':
		l.cur.kind = tokenString
		text, closed := l.readQuoted(r)
		l.cur.text = text
		if !closed {
			l.cur.kind = tokenUnterminated
		}
	default:
		l.cur.kind = tokenDelim
	}
}

// readQuoted consumes the rest of a quoted string. A doubled quote stands for
// one literal quote. It reports false if the input ends before the closing
// quote.
func (l *Lexer) readQuoted(quote rune) (string, bool) {
	var sb strings.Builder
	for {
		ch := l.scanner.Next()
		switch {
		case ch == scanner.EOF:
			return sb.String(), false
		case ch == quote && l.scanner.Peek() == quote:
			l.scanner.Next()
			sb.WriteRune(quote)
		case ch == quote:
			return sb.String(), true
		default:
			sb.WriteRune(ch)
		}
	}
}

// unexpected reports the current token as a syntax error.
func (l *Lexer) unexpected(what string) error {
	if l.cur.kind == tokenUnterminated {
		return fmt.Errorf("%w: unterminated string starting at column %d", ErrBadSyntax, l.cur.col)
	}
	if l.AtEnd() {
		return fmt.Errorf("%w: expected %s, found end of input", ErrBadSyntax, what)
	}
	return fmt.Errorf("%w: expected %s at column %d, found %q", ErrBadSyntax, what, l.cur.col, l.cur.text)
}

func (l *Lexer) AtEnd() bool {
	return l.cur.kind == tokenEOF
}

// Token returns the text of the current token.
func (l *Lexer) Token() string {
	if l.AtEnd() {
		return "end of input"
	}
	return l.cur.text
}

func (l *Lexer) MatchDelim(d rune) bool {
	return l.cur.kind == tokenDelim && l.cur.text == string(d)
}

func (l *Lexer) MatchIntConstant() bool {
	return l.cur.kind == tokenInt
}

// MatchStringConstant matches single and double quoted strings alike.
func (l *Lexer) MatchStringConstant() bool {
	return l.cur.kind == tokenString
}

func (l *Lexer) MatchKeyword(w string) bool {
	return l.cur.kind == tokenKeyword && l.cur.text == strings.ToLower(w)
}

// MatchId matches identifiers that are not keywords.
func (l *Lexer) MatchId() bool {
	return l.cur.kind == tokenIdent
}

func (l *Lexer) EatDelim(d rune) error {
	if !l.MatchDelim(d) {
		return l.unexpected(strconv.QuoteRune(d))
	}
	l.nextToken()
	return nil
}

// EatIntConstant returns the value of a decimal integer. Leading zeros are
// allowed.
func (l *Lexer) EatIntConstant() (int, error) {
	if !l.MatchIntConstant() {
		return 0, l.unexpected("integer")
	}
	i, err := strconv.Atoi(l.cur.text)
	if err != nil {
		return 0, fmt.Errorf("%w: integer %q out of range", ErrBadSyntax, l.cur.text)
	}
	l.nextToken()
	return i, nil
}

func (l *Lexer) EatStringConstant() (string, error) {
	if !l.MatchStringConstant() {
		return "", l.unexpected("quoted string")
	}
	s := l.cur.text
	l.nextToken()
	return s, nil
}

func (l *Lexer) EatKeyword(w string) error {
	if !l.MatchKeyword(w) {
		return l.unexpected(w)
	}
	l.nextToken()
	return nil
}

func (l *Lexer) EatId() (string, error) {
	if !l.MatchId() {
		return "", l.unexpected("field name")
	}
	s := l.cur.text
	l.nextToken()
	return s, nil
}

// EatWord consumes an identifier or an integer and returns its text. Month
// names and numbers are both read this way.
func (l *Lexer) EatWord() (string, error) {
	if !l.MatchId() && !l.MatchIntConstant() {
		return "", l.unexpected("word")
	}
	s := l.cur.text
	l.nextToken()
	return s, nil
}
