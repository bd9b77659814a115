package convert

import (
	"path/filepath"
	"testing"
)

func TestBuildOutputPath(t *testing.T) {
	dst := filepath.Join("out", "dir")
	values := Values{Name: "report", Title: "Annual Report", Heading: "Ünïcode Heading"}

	tests := []struct {
		name          string
		template      string
		noDirs        bool
		transliterate bool
		src           string
		want          string
	}{
		{"default keeps directories", "", false, false, filepath.Join("a", "b", "report.docx"), filepath.Join(dst, "a", "b", "report.html")},
		{"no dirs", "", true, false, filepath.Join("a", "b", "report.docx"), filepath.Join(dst, "report.html")},
		{"template name", "{{ .Title }}", true, false, "report.docx", filepath.Join(dst, "Annual Report.html")},
		{"template with directories", "{{ .Name }}/{{ .Title }}", true, false, "report.docx", filepath.Join(dst, "report", "Annual Report.html")},
		{"template cannot escape", "../../{{ .Name }}", true, false, "report.docx", filepath.Join(dst, "report.html")},
		{"transliterate", "{{ .Heading }}", true, true, "report.docx", filepath.Join(dst, "unicode-heading.html")},
		{"broken template falls back", "{{ .Nope", true, false, "report.docx", filepath.Join(dst, "report.html")},
		{"empty expansion falls back", "{{ .Subject }}", true, false, "report.docx", filepath.Join(dst, "report.html")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, env := setupTestEnv(t)
			env.NoDirs = tt.noDirs
			env.Cfg.Document.OutputNameTemplate = tt.template
			env.Cfg.Document.FileNameTransliterate = tt.transliterate

			if got := buildOutputPath(values, tt.src, dst, env); got != tt.want {
				t.Errorf("buildOutputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSplitPath(t *testing.T) {
	sep := string(filepath.Separator)
	got := splitPath("a" + sep + "." + sep + sep + ".." + sep + " b " + sep)
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("splitPath() = %q", got)
	}
}
