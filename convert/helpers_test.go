package convert

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"dxh/config"
	"dxh/state"
	"dxh/styles"
)

const wordNamespace = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"`

func testLogger(t *testing.T) *zap.Logger {
	t.Helper()
	return zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))
}

// heading and one paragraph, styles come from styles part
func sampleBody(heading, text string) string {
	return `<w:p><w:pPr><w:pStyle w:val="Heading1"/></w:pPr><w:r><w:t>` + heading + `</w:t></w:r></w:p>` +
		`<w:p><w:pPr><w:pStyle w:val="Aside"/></w:pPr><w:r><w:t>` + text + `</w:t></w:r></w:p>`
}

func buildDocx(t *testing.T, body string) []byte {
	t.Helper()
	parts := []struct{ name, content string }{
		{"[Content_Types].xml", `<?xml version="1.0" encoding="UTF-8"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`},
		{"word/document.xml", `<?xml version="1.0" encoding="UTF-8"?><w:document ` + wordNamespace + `><w:body>` + body + `</w:body></w:document>`},
		{"word/styles.xml", `<?xml version="1.0" encoding="UTF-8"?><w:styles ` + wordNamespace + `>` +
			`<w:style w:type="paragraph" w:styleId="Heading1"><w:name w:val="heading 1"/></w:style>` +
			`<w:style w:type="paragraph" w:styleId="Aside"><w:name w:val="Aside"/></w:style>` +
			`</w:styles>`},
	}

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, p := range parts {
		fw, err := w.Create(p.name)
		if err != nil {
			t.Fatalf("Failed to create %s: %v", p.name, err)
		}
		if _, err := fw.Write([]byte(p.content)); err != nil {
			t.Fatalf("Failed to write %s: %v", p.name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close docx: %v", err)
	}
	return buf.Bytes()
}

func writeFile(t *testing.T, path string, data []byte) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}

func writeDocx(t *testing.T, path, heading, text string) string {
	t.Helper()
	return writeFile(t, path, buildDocx(t, sampleBody(heading, text)))
}

type archiveEntry struct {
	name string
	data []byte
}

func writeArchive(t *testing.T, path string, entries ...archiveEntry) string {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, e := range entries {
		fw, err := w.Create(e.name)
		if err != nil {
			t.Fatalf("Failed to create %s: %v", e.name, err)
		}
		if _, err := fw.Write(e.data); err != nil {
			t.Fatalf("Failed to write %s: %v", e.name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close archive: %v", err)
	}
	return writeFile(t, path, buf.Bytes())
}

func setupTestEnv(t *testing.T) (context.Context, *state.LocalEnv) {
	t.Helper()
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	ctx := state.ContextWithEnv(context.Background())
	env := state.EnvFromContext(ctx)
	env.Cfg = cfg
	env.Log = testLogger(t)
	env.StyleMap = styles.MustParseStyleMap("p.Aside => aside > p:fresh").Concat(styles.DefaultStyleMap())
	return ctx, env
}
