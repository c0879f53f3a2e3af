package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msto63/sessionkit/internal/session"
)

func res(title, url string) session.Resource {
	return session.Resource{Title: title, URL: url}
}

func fixture() []session.Session {
	return []session.Session{
		{Number: 5, Title: "Cinco", Resources: []session.Resource{
			res("Conectores", "/resources/conectores.pdf"),
			res("Guía 5", "/resources/s5-guia.pdf"),
		}},
		{Number: 2, Title: "Dos", Resources: []session.Resource{
			res("Conectores (repaso)", "/resources/conectores.pdf"),
			res("Externo", "https://example.com/x.pdf"),
		}},
		{Number: 9, Title: "Nueve", Resources: []session.Resource{
			res("Conectores", "/resources/conectores.pdf"),
			res("Mapa", "/resources/extra/mapa.pdf"),
		}},
		{Number: 2, Title: "Dos bis", Resources: []session.Resource{
			res("Conectores", "/resources/conectores.pdf"),
		}},
	}
}

func TestBuild(t *testing.T) {
	c := Build(fixture())
	require.Equal(t, 3, c.Len())

	e, ok := c.Get("/resources/conectores.pdf")
	require.True(t, ok)
	assert.Equal(t, "Conectores", e.Title, "first title seen wins")
	assert.Equal(t, 2, e.Primary.Number, "lowest session number is primary")
	assert.Equal(t, "Dos", e.Primary.Title, "first session with the lowest number")
	assert.Equal(t, []int{2, 5, 9}, e.UsedIn)
	assert.Equal(t, "conectores.pdf", e.FileName())

	_, ok = c.Get("https://example.com/x.pdf")
	assert.False(t, ok)
}

func TestEntries_Sorted(t *testing.T) {
	entries := Build(fixture()).Entries()

	urls := make([]string, len(entries))
	for i, e := range entries {
		urls[i] = e.URL
	}
	assert.Equal(t, []string{
		"/resources/conectores.pdf",
		"/resources/extra/mapa.pdf",
		"/resources/s5-guia.pdf",
	}, urls)
}

func TestFilter(t *testing.T) {
	c := Build(fixture())

	tests := []struct {
		pattern string
		want    []string
	}{
		{"", []string{"/resources/conectores.pdf", "/resources/extra/mapa.pdf", "/resources/s5-guia.pdf"}},
		{"s5-*.pdf", []string{"/resources/s5-guia.pdf"}},
		{"*.pdf", []string{"/resources/conectores.pdf", "/resources/extra/mapa.pdf", "/resources/s5-guia.pdf"}},
		{"/resources/*.pdf", []string{"/resources/conectores.pdf", "/resources/s5-guia.pdf"}},
		{"/resources/**/mapa.pdf", []string{"/resources/extra/mapa.pdf"}},
		{"{mapa,conectores}.pdf", []string{"/resources/conectores.pdf", "/resources/extra/mapa.pdf"}},
		{"nothing-*.pdf", nil},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			entries, err := c.Filter(tt.pattern)
			require.NoError(t, err)

			var urls []string
			for _, e := range entries {
				urls = append(urls, e.URL)
			}
			assert.Equal(t, tt.want, urls)
		})
	}

	_, err := c.Filter("[unclosed")
	assert.Error(t, err)
}

func TestBasename(t *testing.T) {
	assert.Equal(t, "a.pdf", Basename("/resources/a.pdf"))
	assert.Equal(t, "b.pdf", Basename("/resources/sub/b.pdf"))
}

func TestBuild_Empty(t *testing.T) {
	c := Build(nil)
	assert.Equal(t, 0, c.Len())
	assert.Empty(t, c.Entries())
}
