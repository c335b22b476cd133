package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizePlainText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text untouched", "buy groceries", "buy groceries"},
		{"tags stripped", "<b>pay</b> rent", "pay rent"},
		{"script content removed", "call <script>alert(1)</script>mom", "call mom"},
		{"entities unescaped", "<i>Tom & Jerry</i>", "Tom & Jerry"},
		{"whitespace collapsed", "  water \t plants\n", "water plants"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizePlainText(tt.input))
		})
	}
}

func TestNormalizeForMatching(t *testing.T) {
	t.Run("lowercases and strips punctuation", func(t *testing.T) {
		n := NormalizeForMatching("Buy Groceries!")
		assert.Equal(t, []string{"buy", "groceries"}, n.Tokens)
		assert.Equal(t, "buy groceries", n.Text)
	})

	t.Run("removes stopwords", func(t *testing.T) {
		n := NormalizeForMatching("the meeting with the team for launch")
		assert.Equal(t, []string{"team", "launch"}, n.Tokens)
	})

	t.Run("deduplicates preserving order", func(t *testing.T) {
		n := NormalizeForMatching("call mom call dad")
		assert.Equal(t, []string{"call", "mom", "dad"}, n.Tokens)
	})

	t.Run("all stopwords leaves no tokens", func(t *testing.T) {
		n := NormalizeForMatching("the a an")
		assert.False(t, n.HasTokens())
	})
}
