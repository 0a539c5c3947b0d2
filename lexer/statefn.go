package lexer

import "strings"

type stateFn func(*Lexer) stateFn

func lexText(l *Lexer) stateFn {
	l.acceptRun(whitespaceChars)
	l.ignore()

	// Transition characters that just advance one and emit a token.
	singles := map[rune]TokenType{
		'+': TokAdditive,
		'-': TokAdditive,
		'*': TokMultiplicative,
		'/': TokMultiplicative,
		'(': TokGrouping,
		')': TokGrouping,
	}

	r := l.peek()
	if l.atEOF {
		return l.emit(TokEOF)
	}
	if tok, ok := singles[r]; ok {
		l.next()
		return l.emit(tok)
	}
	return lexNumber
}

// lexNumber buffers everything up to the next transition character or the
// end of input and validates it as a whole. Whitespace inside the literal is
// dropped: "3. 14" is the number 3.14.
func lexNumber(l *Lexer) stateFn {
	var text strings.Builder
	for r := l.next(); !l.atEOF; r = l.next() {
		if strings.ContainsRune(transitionChars, r) {
			l.backup()
			break
		}
		if !strings.ContainsRune(whitespaceChars, r) {
			text.WriteRune(r)
		}
	}
	if !IsNumber(text.String()) {
		return l.errorf(invalidNumber(text.String(), l.start))
	}
	tok := Token{Type: TokNumber, Value: text.String(), Pos: l.start}
	l.ignore()
	return l.emitToken(tok)
}
