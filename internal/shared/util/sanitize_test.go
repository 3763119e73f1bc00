package util

import (
	"strings"
	"testing"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "plain", input: "模板.png", want: "模板.png"},
		{name: "separators", input: "a/b\\c.jpg", want: "a_b_c.jpg"},
		{name: "trimmed", input: "  cv.pdf ", want: "cv.pdf"},
		{name: "traversal", input: "../etc/passwd", wantErr: true},
		{name: "inner traversal", input: "a/../b.png", wantErr: true},
		{name: "windows traversal", input: "..\\cv.pdf", wantErr: true},
		{name: "dot only", input: ".", wantErr: true},
		{name: "double dot in name", input: "resume..v2.png", want: "resume..v2.png"},
		{name: "trailing dots", input: "cv...", want: "cv..."},
		{name: "blank", input: "   ", wantErr: true},
		{name: "control chars", input: "cv\x00\n.pdf", want: "cv.pdf"},
		{name: "only control chars", input: "\x01\x02", wantErr: true},
		{name: "long name keeps extension", input: strings.Repeat("简", 200) + ".png", want: strings.Repeat("简", 116) + ".png"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeFileName(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Fatalf("SanitizeFileName(%q) = %q, %v; want %q", tt.input, got, err, tt.want)
			}
		})
	}
}
