package util

import (
	"errors"
	"path"
	"strings"
	"unicode"
	"unicode/utf8"
)

const maxFileNameRunes = 120

var ErrInvalidFileName = errors.New("invalid file name")

// SanitizeFileName flattens separators, drops control characters and caps the
// length while keeping the extension. Names with a "." or ".." path segment
// are rejected; dots inside a segment are fine.
func SanitizeFileName(name string) (string, error) {
	for _, seg := range strings.FieldsFunc(name, isSeparator) {
		if seg = strings.TrimSpace(seg); seg == "." || seg == ".." {
			return "", ErrInvalidFileName
		}
	}
	s := strings.Map(func(r rune) rune {
		switch {
		case isSeparator(r):
			return '_'
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, strings.TrimSpace(name))
	s = strings.TrimSpace(s)
	if s == "" || s == "." {
		return "", ErrInvalidFileName
	}
	if utf8.RuneCountInString(s) <= maxFileNameRunes {
		return s, nil
	}

	ext := path.Ext(s)
	if utf8.RuneCountInString(ext) > 16 {
		ext = ""
	}
	base := []rune(strings.TrimSuffix(s, ext))
	return string(base[:maxFileNameRunes-utf8.RuneCountInString(ext)]) + ext, nil
}

func isSeparator(r rune) bool {
	return r == '/' || r == '\\'
}
