package server

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTemplates(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, artistPage), []byte(`<p data-uuid="{{.UUID}}">{{.Path}}</p>`), 0o644))

	tmpl, err := LoadTemplates(dir)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tmpl.Render(&buf, artistPage, PageData{Path: "/artist", UUID: `"><script>`}))
	assert.Equal(t, `<p data-uuid="&#34;&gt;&lt;script&gt;">/artist</p>`, buf.String())

	assert.Error(t, tmpl.Render(&buf, "missing.html", nil))
}

func TestLoadTemplates_ShippedPages(t *testing.T) {
	tmpl, err := LoadTemplates(filepath.Join("..", "..", "templates"))
	require.NoError(t, err)

	for _, name := range []string{indexPage, artistPage, miniArtistPage} {
		var buf bytes.Buffer
		assert.NoError(t, tmpl.Render(&buf, name, PageData{UUID: janeUUID}), name)
	}
}

func TestLoadTemplates_EmptyDir(t *testing.T) {
	_, err := LoadTemplates(t.TempDir())
	assert.Error(t, err)
}
