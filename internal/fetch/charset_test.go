package fetch

import (
	"strings"
	"testing"
)

func TestDecodeBody(t *testing.T) {
	t.Parallel()

	asciiPrefix := strings.Repeat("a", 1100)

	tests := []struct {
		name        string
		body        string
		contentType string
		want        string
		wantCharset string
	}{
		{
			name:        "undeclared utf-8 after the first kilobyte",
			body:        asciiPrefix + " café",
			contentType: "text/html",
			want:        asciiPrefix + " café",
			wantCharset: "utf-8",
		},
		{
			name:        "undeclared utf-8 without content type",
			body:        "<p>naïve résumé</p>",
			want:        "<p>naïve résumé</p>",
			wantCharset: "utf-8",
		},
		{
			name:        "declared latin-1 header",
			body:        "caf\xe9",
			contentType: "text/html; charset=iso-8859-1",
			want:        "café",
			wantCharset: "windows-1252",
		},
		{
			name:        "meta declared latin-1 with invalid utf-8",
			body:        `<meta charset="iso-8859-1"><p>caf` + "\xe9</p>",
			contentType: "text/html",
			want:        `<meta charset="iso-8859-1"><p>café</p>`,
			wantCharset: "windows-1252",
		},
		{
			name:        "undeclared invalid utf-8",
			body:        asciiPrefix + " caf\xe9",
			contentType: "text/html",
			want:        asciiPrefix + " café",
			wantCharset: "windows-1252",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, name, err := decodeBody([]byte(tt.body), tt.contentType)
			if err != nil {
				t.Fatalf("decodeBody returned error: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
			if name != tt.wantCharset {
				t.Errorf("expected charset %q, got %q", tt.wantCharset, name)
			}
		})
	}

	t.Run("empty body", func(t *testing.T) {
		t.Parallel()

		got, name, err := decodeBody(nil, "text/html")
		if err != nil || len(got) != 0 || name != "" {
			t.Errorf("expected empty result, got %q %q %v", got, name, err)
		}
	})
}
