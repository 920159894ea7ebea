package utils

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Hello World", "hello-world"},
		{"  Cómo crear contenido! ", "como-crear-contenido"},
		{"Año nuevo, ideas nuevas", "ano-nuevo-ideas-nuevas"},
		{"---", "post"},
		{"Go 1.24 -- what's new?", "go-1-24-what-s-new"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in), tt.in)
	}
}

func TestParseHexColor(t *testing.T) {
	c, err := ParseHexColor("#ff8000")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 255, G: 128, B: 0, A: 255}, c)

	c, err = ParseHexColor("fff")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, c)

	c, err = ParseHexColor("#00000080")
	require.NoError(t, err)
	assert.Equal(t, uint8(128), c.A)

	for _, bad := range []string{"", "#12", "#gggggg", "red"} {
		_, err := ParseHexColor(bad)
		assert.Error(t, err, bad)
	}
}

func TestHMACSignature(t *testing.T) {
	payload := []byte(`{"id":"evt_1"}`)
	sig := SignHMACSHA256("whsec", payload)

	assert.True(t, VerifyHMACSHA256("whsec", payload, sig))
	assert.False(t, VerifyHMACSHA256("other", payload, sig))
	assert.False(t, VerifyHMACSHA256("whsec", []byte(`{"id":"evt_2"}`), sig))
	assert.False(t, VerifyHMACSHA256("whsec", payload, "md5=abc"))
	assert.False(t, VerifyHMACSHA256("", payload, sig))
}

func TestCleanModelOutput(t *testing.T) {
	assert.Equal(t, "line one\nline two", CleanModelOutput("```markdown\nline one\nline two\n```"))
	assert.Equal(t, "Write a hook.", CleanModelOutput("Improved prompt: Write a hook."))
	assert.Equal(t, "plain", CleanModelOutput("  plain  "))
}

func TestExtractJSON(t *testing.T) {
	in := "Sure! ```json\n{\"ideas\":[{\"title\":\"a } b\"}]}\n``` trailing"
	assert.Equal(t, `{"ideas":[{"title":"a } b"}]}`, ExtractJSON(in))
	assert.Equal(t, `[1,[2]]`, ExtractJSON(`result: [1,[2]] done`))
}

func TestTextToVector(t *testing.T) {
	v := TextToVector("Write a YouTube hook", 64).Slice()
	require.Len(t, v, 64)

	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	assert.InDelta(t, 1.0, sum, 1e-4)

	assert.Equal(t, v, TextToVector("write a youtube hook!", 64).Slice())

	empty := TextToVector("", 8).Slice()
	assert.Equal(t, make([]float32, 8), empty)
}
