package game

import "unicode/utf8"

const (
	fieldUsername = iota
	fieldPassword
)

// loginForm is the state of the login screen.
type loginForm struct {
	values [2]string
	focus  int
	create bool
	reason string
}

func (f *loginForm) typeRune(r rune) {
	f.values[f.focus] += string(r)
}

func (f *loginForm) backspace() {
	v := f.values[f.focus]
	if v == "" {
		return
	}
	_, size := utf8.DecodeLastRuneInString(v)
	f.values[f.focus] = v[:len(v)-size]
}

func (f *loginForm) toggleCreate() {
	f.create = !f.create
	f.reason = ""
}

func (f *loginForm) moveFocus(delta int) {
	f.focus = (f.focus + delta + len(f.values)) % len(f.values)
}

// fail records why a submit was refused and clears the password.
func (f *loginForm) fail(reason string) {
	f.reason = reason
	f.values[fieldPassword] = ""
	f.focus = fieldPassword
}
