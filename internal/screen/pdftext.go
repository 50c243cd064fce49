// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package screen

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

// ExtractText reads the plain text of every page of the PDF at path, joined
// by newlines, sanitized and truncated to maxLen characters (0 = no limit).
// A page that fails to decode is logged and skipped; the parser panics on
// some malformed files, which is reported as an error.
func ExtractText(path string, maxLen int, log *zap.Logger) (text string, err error) {
	if log == nil {
		log = zap.NewNop()
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("reading PDF %s: %v", path, r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening PDF %s: %w", path, err)
	}
	defer f.Close()

	var pages []string
	for i := 1; i <= r.NumPage(); i++ {
		t, perr := pageText(r, i)
		if perr != nil {
			log.Warn("skipping unreadable page", zap.String("file", path), zap.Int("page", i), zap.Error(perr))
			continue
		}
		if t = Sanitize(t); t != "" {
			pages = append(pages, t)
		}
	}
	return Truncate(strings.Join(pages, "\n"), maxLen), nil
}

func pageText(r *pdf.Reader, n int) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("page %d: %v", n, rec)
		}
	}()
	p := r.Page(n)
	if p.V.IsNull() {
		return "", nil
	}
	return p.GetPlainText(nil)
}

// Sanitize drops invalid UTF-8 and the control characters spreadsheet
// cells cannot hold. Tab, newline and carriage return are kept.
func Sanitize(s string) string {
	s = strings.ToValidUTF8(s, "")
	return strings.Map(func(r rune) rune {
		if r < 0x20 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, s)
}

// Truncate returns at most maxLen characters of s. maxLen <= 0 keeps s.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 || utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	n := 0
	for i := range s {
		if n == maxLen {
			return s[:i]
		}
		n++
	}
	return s
}
