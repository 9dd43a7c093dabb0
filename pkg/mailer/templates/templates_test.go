package templates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderWelcome(t *testing.T) {
	d := NewEmailData("Ann <b>", "ann@x.com", "Book Finder", WithSupportURL("https://help.example.com"))

	subject, text, html, err := Render(Welcome, d)
	require.NoError(t, err)
	assert.Equal(t, "Welcome to Book Finder, Ann <b>", subject)
	assert.Contains(t, text, "ann@x.com")
	assert.Contains(t, text, "https://help.example.com")
	assert.Contains(t, html, "Ann &lt;b&gt;")
	assert.NotContains(t, html, "Ann <b>")
}

func TestRenderWelcome_FromJobMap(t *testing.T) {
	data := ToMap(NewEmailData("", "ann@x.com", ""))

	subject, text, _, err := Render(Welcome, data)
	require.NoError(t, err)
	assert.Equal(t, "Welcome to Book Finder, reader", subject)
	assert.NotContains(t, text, "Questions?")
}

func TestRender_UnknownTemplate(t *testing.T) {
	_, _, _, err := Render("nope", EmailData{})
	assert.Error(t, err)
}

func TestNewEmailDataOptions(t *testing.T) {
	joined := time.Date(2024, 5, 1, 10, 0, 0, 0, time.FixedZone("X", 3600))
	d := NewEmailData(" Ann ", "ann@x.com", "App", WithYearOfBirth(1990), WithJoinedAt(joined))
	assert.Equal(t, "Ann", d.Name)
	assert.Equal(t, 1990, d.YearOfBirth)
	assert.Equal(t, time.UTC, d.JoinedAt.Location())
}

func TestDefaultFn(t *testing.T) {
	assert.Equal(t, "x", defaultFn("x", ""))
	assert.Equal(t, "x", defaultFn("x", nil))
	assert.Equal(t, "x", defaultFn("x", 0))
	assert.Equal(t, 5, defaultFn("x", 5))
	assert.Equal(t, "v", defaultFn("x", "v"))
}
