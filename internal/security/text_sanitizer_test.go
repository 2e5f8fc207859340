package security

import "testing"

func TestSanitize_StripsAllHTML(t *testing.T) {
	s := NewTextSanitizer()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"プレーンテキストはそのまま", "いちごのショートケーキ", "いちごのショートケーキ"},
		{"タグを除去", "<b>Chocolate</b> Cake", "Chocolate Cake"},
		{"scriptタグと中身を除去", `<script>alert("xss")</script>Lemon`, "Lemon"},
		{"イベント属性付きタグを除去", `<img src=x onerror=alert(1)>Tart`, "Tart"},
		{"空文字列は空文字列", "", ""},
		{"エンティティは復元される", "cream & butter", "cream & butter"},
		{"前後の空白を除去", "  Mont Blanc  ", "Mont Blanc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Sanitize(tt.input)
			if got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	s := NewTextSanitizer()

	input := `<a href="https://example.com">link</a> & more`
	once := s.Sanitize(input)
	twice := s.Sanitize(once)

	if once != twice {
		t.Errorf("sanitize should be idempotent: once=%q twice=%q", once, twice)
	}
}

func TestSanitizeAll(t *testing.T) {
	s := NewTextSanitizer()

	got := s.SanitizeAll([]string{"<i>flour</i>", "sugar"})
	if len(got) != 2 || got[0] != "flour" || got[1] != "sugar" {
		t.Errorf("SanitizeAll = %v, want [flour sugar]", got)
	}

	if s.SanitizeAll(nil) != nil {
		t.Error("SanitizeAll(nil) should return nil")
	}
}
