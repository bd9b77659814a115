package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

type zipEntry struct {
	name    string
	content string
}

func buildZip(t *testing.T, entries ...zipEntry) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, e := range entries {
		fw, err := w.Create(e.name)
		if err != nil {
			t.Fatalf("Failed to create %s in zip: %v", e.name, err)
		}
		if _, err := fw.Write([]byte(e.content)); err != nil {
			t.Fatalf("Failed to write %s: %v", e.name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close zip: %v", err)
	}
	return buf.Bytes()
}

func writeZip(t *testing.T, entries ...zipEntry) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.zip")
	if err := os.WriteFile(path, buildZip(t, entries...), 0644); err != nil {
		t.Fatalf("Failed to write zip: %v", err)
	}
	return path
}

func TestWalk(t *testing.T) {
	zipPath := writeZip(t,
		zipEntry{"reports/q1.docx", "q1"},
		zipEntry{"reports/q2.docx", "q2"},
		zipEntry{"reports/", ""},
		zipEntry{"notes/todo.docx", "todo"},
		zipEntry{"readme.txt", "readme"},
	)

	tests := []struct {
		prefix string
		want   []string
	}{
		{"reports/", []string{"reports/q1.docx", "reports/q2.docx"}},
		{"notes", []string{"notes/todo.docx"}},
		{"", []string{"reports/q1.docx", "reports/q2.docx", "notes/todo.docx", "readme.txt"}},
		{"Reports/", nil},
		{"missing/", nil},
	}
	for _, tt := range tests {
		t.Run("prefix "+tt.prefix, func(t *testing.T) {
			var visited []string
			err := Walk(zipPath, tt.prefix, func(archive string, file *zip.File) error {
				if archive != zipPath {
					t.Errorf("archive = %s, want %s", archive, zipPath)
				}
				visited = append(visited, file.Name)
				return nil
			})
			if err != nil {
				t.Fatalf("Walk() error = %v", err)
			}
			if !slices.Equal(visited, tt.want) {
				t.Errorf("visited = %v, want %v", visited, tt.want)
			}
		})
	}
}

func TestWalk_InvalidArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.zip")
	if err := os.WriteFile(path, []byte("not a zip"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := Walk(path, "", func(string, *zip.File) error { return nil }); err == nil {
		t.Error("Walk() expected error for invalid archive")
	}
	if err := Walk(filepath.Join(t.TempDir(), "absent.zip"), "", nil); err == nil {
		t.Error("Walk() expected error for missing archive")
	}
}

func TestWalk_EarlyTermination(t *testing.T) {
	zipPath := writeZip(t, zipEntry{"a.docx", "a"}, zipEntry{"b.docx", "b"})
	stop := errors.New("stop")

	count := 0
	err := Walk(zipPath, "", func(string, *zip.File) error {
		count++
		return stop
	})
	if !errors.Is(err, stop) {
		t.Errorf("Walk() error = %v, want %v", err, stop)
	}
	if count != 1 {
		t.Errorf("visited %d files, want 1", count)
	}
}

func TestWalk_UnsafePath(t *testing.T) {
	zipPath := writeZip(t, zipEntry{"ok.docx", "ok"}, zipEntry{"../evil.docx", "evil"})
	err := Walk(zipPath, "", func(string, *zip.File) error { return nil })
	if err == nil {
		t.Error("Walk() expected error for traversing entry")
	}
}

func TestReadFile(t *testing.T) {
	data := buildZip(t,
		zipEntry{"word/document.xml", "<document/>"},
		zipEntry{"word/", ""},
	)
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatal(err)
	}

	got, err := ReadFile(zr, "word/document.xml", 0)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(got) != "<document/>" {
		t.Errorf("ReadFile() = %q", got)
	}

	if _, err := ReadFile(zr, "word/styles.xml", 0); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("ReadFile() of missing entry error = %v, want fs.ErrNotExist", err)
	}
	if _, err := ReadFile(zr, "word/", 0); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("ReadFile() of directory error = %v, want fs.ErrNotExist", err)
	}
	if _, err := ReadFile(zr, "word/document.xml", 4); err == nil {
		t.Error("ReadFile() expected error over limit")
	}
	if _, err := ReadFile(zr, "../document.xml", 0); err == nil {
		t.Error("ReadFile() expected error for unsafe name")
	}
}

func TestIsSafePath(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"word/document.xml", true},
		{"a..b/c", true},
		{"/etc/passwd", false},
		{`\windows\system`, false},
		{"../up", false},
		{"a/../../up", false},
		{`a\..\up`, false},
	}
	for _, tt := range tests {
		if got := isSafePath(tt.name); got != tt.want {
			t.Errorf("isSafePath(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
