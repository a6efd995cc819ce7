// Package keymap maps characters to macOS virtual key codes for the US
// keyboard layout.
package keymap

import "unicode"

// KeyCode identifies a physical key position (macOS virtual key code).
type KeyCode uint16

// Modifier is a bit set of modifier keys held with a KeyCode.
type Modifier uint8

// Shift is the only modifier the US layout tables need.
const Shift Modifier = 1 << 0

// Has reports whether all bits of o are set in m.
func (m Modifier) Has(o Modifier) bool {
	return m&o == o
}

// Key is a fully resolved keystroke.
type Key struct {
	Code KeyCode
	Mods Modifier
}

// Keys with no printable-character ambiguity.
const (
	Return KeyCode = 36
	Tab    KeyCode = 48
	Space  KeyCode = 49
)

// base holds unshifted characters.
var base = map[rune]KeyCode{
	'a': 0, 'b': 11, 'c': 8, 'd': 2, 'e': 14, 'f': 3, 'g': 5, 'h': 4,
	'i': 34, 'j': 38, 'k': 40, 'l': 37, 'm': 46, 'n': 45, 'o': 31,
	'p': 35, 'q': 12, 'r': 15, 's': 1, 't': 17, 'u': 32, 'v': 9,
	'w': 13, 'x': 7, 'y': 16, 'z': 6,
	'0': 29, '1': 18, '2': 19, '3': 20, '4': 21, '5': 23,
	'6': 22, '7': 26, '8': 28, '9': 25,
	'.': 47, ',': 43, ';': 41, '\'': 39, '[': 33, ']': 30,
	'\\': 42, '/': 44, '-': 27, '=': 24, '`': 50,
}

// shifted holds symbols produced by an unshifted companion key plus Shift.
var shifted = map[rune]KeyCode{
	'!': 18, // 1
	'@': 19, // 2
	'#': 20, // 3
	'$': 21, // 4
	'%': 23, // 5
	'^': 22, // 6
	'&': 26, // 7
	'*': 28, // 8
	'(': 25, // 9
	')': 29, // 0
	'_': 27, // -
	'+': 24, // =
	'{': 33, // [
	'}': 30, // ]
	'|': 42, // \
	':': 41, // ;
	'"': 39, // '
	'<': 43, // ,
	'>': 47, // .
	'?': 44, // /
	'~': 50, // `
}

// Resolve returns the keystroke that produces r on a US layout.
//
// The shifted-symbol table is consulted first with the original rune. Otherwise
// the lowercased rune is looked up in the base table and Shift is added for
// uppercase letters. Runes in neither table return the zero Key and false.
func Resolve(r rune) (Key, bool) {
	if code, ok := shifted[r]; ok {
		return Key{Code: code, Mods: Shift}, true
	}

	if r > unicode.MaxASCII {
		return Key{}, false
	}
	code, ok := base[unicode.ToLower(r)]
	if !ok {
		return Key{}, false
	}

	k := Key{Code: code}
	if unicode.IsUpper(r) {
		k.Mods |= Shift
	}
	return k, true
}

// reverse is the inverse of Resolve, built once from both tables.
var reverse = func() map[Key]rune {
	m := make(map[Key]rune, 2*len(base)+len(shifted)+3)
	for r, code := range base {
		m[Key{Code: code}] = r
		if r >= 'a' && r <= 'z' {
			m[Key{Code: code, Mods: Shift}] = unicode.ToUpper(r)
		}
	}
	for r, code := range shifted {
		m[Key{Code: code, Mods: Shift}] = r
	}
	m[Key{Code: Return}] = '\n'
	m[Key{Code: Tab}] = '\t'
	m[Key{Code: Space}] = ' '
	return m
}()

// Char returns the character a US layout produces for k.
func Char(k Key) (rune, bool) {
	r, ok := reverse[k]
	return r, ok
}

// Name returns a printable key name for k's code, suitable for
// name-based injection libraries.
func Name(code KeyCode) string {
	switch code {
	case Return:
		return "enter"
	case Tab:
		return "tab"
	case Space:
		return "space"
	}
	if r, ok := reverse[Key{Code: code}]; ok {
		return string(r)
	}
	return ""
}
