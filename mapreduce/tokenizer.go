package mapreduce

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Tokenize returns the lowercase words of text in order. A word is a
// maximal run of letters, numbers and underscores.
func Tokenize(text string) ([]string, error) {
	if !utf8.ValidString(text) {
		return nil, ErrInvalidUTF8
	}

	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !isWordRune(r)
	})

	for i, f := range fields {
		fields[i] = strings.ToLower(f)
	}

	return fields, nil
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}
