// Package lexer splits a line of arithmetic into classified tokens.
package lexer

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	transitionChars = "+-*/()"
	whitespaceChars = " \t\n\r"
	numeralChars    = "0123456789.eE"
)

// ErrInvalidNumber is returned when a literal is not a finite decimal numeral.
var ErrInvalidNumber = errors.New("invalid number")

type Lexer struct {
	input string

	curToken Token
	err      error

	atEOF bool

	pos   int // Current position in input.
	start int // Position of the start of the current token.
}

// New creates a new Lexer for the given input.
func New(input string) *Lexer {
	return &Lexer{input: input}
}

// Tokenize scans the whole input and returns its tokens in order of
// appearance. An empty or all-whitespace input yields no tokens. On error no
// tokens are returned.
func Tokenize(input string) ([]Token, error) {
	l := New(input)
	var tokens []Token
	for {
		tok := l.NextToken()
		switch tok.Type {
		case TokEOF:
			return tokens, nil
		case TokError:
			return nil, l.err
		}
		tokens = append(tokens, tok)
	}
}

// NextToken returns the next token. Once TokEOF or TokError is returned,
// every following call returns TokEOF.
func (l *Lexer) NextToken() Token {
	l.curToken = Token{Type: TokEOF, Pos: l.pos}
	state := lexText
	for {
		state = state(l)
		if state == nil {
			return l.curToken
		}
	}
}

// Err returns the error that produced the last TokError, if any.
func (l *Lexer) Err() error {
	return l.err
}

func (l *Lexer) next() rune {
	if l.pos >= len(l.input) {
		l.atEOF = true
		return 0
	}
	r, n := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += n
	return r
}

func (l *Lexer) backup() {
	// If we reached eof, we can't back up.
	// If we are at the beginning of the input, we can't back up.
	if l.atEOF || l.pos == 0 {
		return
	}
	_, n := utf8.DecodeLastRuneInString(l.input[:l.pos])
	l.pos -= n
}

func (l *Lexer) peek() rune {
	r := l.next()
	l.backup()
	return r
}

func (l *Lexer) acceptRun(valid string) bool {
	accepted := false
	for r := l.next(); !l.atEOF && strings.ContainsRune(valid, r); r = l.next() {
		accepted = true
	}
	l.backup()
	return accepted
}

func (l *Lexer) thisToken(tt TokenType) Token {
	t := Token{
		Type:  tt,
		Value: l.input[l.start:l.pos],
		Pos:   l.start,
	}
	l.start = l.pos
	return t
}

func (l *Lexer) emitToken(t Token) stateFn {
	l.curToken = t
	return nil
}

func (l *Lexer) emit(tt TokenType) stateFn {
	return l.emitToken(l.thisToken(tt))
}

func (l *Lexer) ignore() {
	l.start = l.pos
}

func (l *Lexer) errorf(err error) stateFn {
	l.err = err
	l.curToken = Token{
		Type:  TokError,
		Value: err.Error(),
		Pos:   l.start,
	}
	l.start = 0
	l.pos = 0
	l.input = l.input[:0]
	return nil
}

// IsNumber reports whether s is a complete, finite decimal numeral.
func IsNumber(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !strings.ContainsRune(numeralChars, r) {
			return false
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	return err == nil && !math.IsInf(f, 0)
}

func invalidNumber(text string, pos int) error {
	return fmt.Errorf("%w %q at offset %d", ErrInvalidNumber, text, pos)
}
