package labels

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestSet_For(t *testing.T) {
	t.Parallel()

	tests := []struct {
		desc     string
		fallback language.Tag
		give     string
		want     Labels
	}{
		{desc: "no language", want: English},
		{desc: "english", give: "en", want: English},
		{desc: "regional english", give: "en-GB", want: English},
		{desc: "russian", give: "ru", want: Russian},
		{desc: "regional russian", give: "ru-RU", want: Russian},
		{desc: "unsupported", give: "ja", want: English},
		{desc: "invalid", give: "not a language!", want: English},
		{
			desc:     "fallback for unsupported",
			fallback: language.Russian,
			give:     "ja",
			want:     Russian,
		},
		{
			desc:     "fallback without language",
			fallback: language.Russian,
			want:     Russian,
		},
		{
			desc:     "declared language wins",
			fallback: language.Russian,
			give:     "en",
			want:     English,
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			t.Parallel()

			s := Set{Default: tt.fallback}
			assert.Equal(t, tt.want, s.For(tt.give))
		})
	}
}

func TestSupported(t *testing.T) {
	t.Parallel()

	got := Supported()
	assert.Equal(t, []language.Tag{language.English, language.Russian}, got)

	got[0] = language.Japanese
	assert.Equal(t, language.English, Supported()[0], "must return a copy")
}
