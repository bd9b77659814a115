package convert

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	cli "github.com/urfave/cli/v3"
)

func convertCommand() *cli.Command {
	return &cli.Command{
		Name:   "convert",
		Action: Run,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "nodirs", Aliases: []string{"nd"}},
			&cli.BoolFlag{Name: "overwrite", Aliases: []string{"ow"}},
			&cli.StringFlag{Name: "style-map"},
			&cli.StringFlag{Name: "force-zip-cp"},
		},
	}
}

func runConvert(ctx context.Context, args ...string) error {
	return convertCommand().Run(ctx, append([]string{"convert"}, args...))
}

func parseOutput(t *testing.T, path string) *goquery.Document {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("unable to open result: %v", err)
	}
	defer f.Close()
	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		t.Fatalf("unable to parse result: %v", err)
	}
	return doc
}

func assertExists(t *testing.T, paths ...string) {
	t.Helper()
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("expected output %s: %v", p, err)
		}
	}
}

func assertMissing(t *testing.T, paths ...string) {
	t.Helper()
	for _, p := range paths {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Errorf("unexpected output %s (stat error %v)", p, err)
		}
	}
}

func TestRun_SingleFile(t *testing.T) {
	ctx, env := setupTestEnv(t)
	env.Cfg.Document.StyleMap = "p.Aside => aside > p:fresh"

	dir := t.TempDir()
	src := writeDocx(t, filepath.Join(dir, "in", "report.docx"), "Quarterly report", "note")
	dst := filepath.Join(dir, "out")

	if err := runConvert(ctx, src, dst); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	doc := parseOutput(t, filepath.Join(dst, "report.html"))
	if got := doc.Find("head > title").Text(); got != "Quarterly report" {
		t.Errorf("title = %q", got)
	}
	if got := doc.Find("body > h1").Text(); got != "Quarterly report" {
		t.Errorf("h1 = %q", got)
	}
	if got := doc.Find("body > aside > p").Text(); got != "note" {
		t.Errorf("aside = %q", got)
	}
	if env.StyleMap.Len() == 0 {
		t.Error("style map was not built")
	}
}

func TestRun_Overwrite(t *testing.T) {
	ctx, _ := setupTestEnv(t)

	dir := t.TempDir()
	src := writeDocx(t, filepath.Join(dir, "report.docx"), "Heading", "text")
	dst := filepath.Join(dir, "out")
	out := writeFile(t, filepath.Join(dst, "report.html"), []byte("old"))

	// existing output is kept, error is only logged
	if err := runConvert(ctx, src, dst); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if data, _ := os.ReadFile(out); string(data) != "old" {
		t.Errorf("existing output was replaced: %q", data)
	}

	if err := runConvert(ctx, "--overwrite", src, dst); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := parseOutput(t, out).Find("h1").Text(); got != "Heading" {
		t.Errorf("h1 after overwrite = %q", got)
	}
}

func prepareTree(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	src := filepath.Join(dir, "in")
	writeDocx(t, filepath.Join(src, "sub", "a.docx"), "A", "a")
	writeDocx(t, filepath.Join(src, "b.docx"), "B", "b")
	writeFile(t, filepath.Join(src, "notes.txt"), []byte("not a document"))
	writeArchive(t, filepath.Join(src, "pack.zip"),
		archiveEntry{"docs/three.docx", buildDocx(t, sampleBody("Three", "3"))},
		archiveEntry{"other/four.docx", buildDocx(t, sampleBody("Four", "4"))},
		archiveEntry{"docs/readme.txt", []byte("skip")},
	)
	return src, filepath.Join(dir, "out")
}

func TestRun_Directory(t *testing.T) {
	ctx, _ := setupTestEnv(t)
	src, dst := prepareTree(t)

	if err := runConvert(ctx, src, dst); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	assertExists(t,
		filepath.Join(dst, "b.html"),
		filepath.Join(dst, "sub", "a.html"),
		filepath.Join(dst, "docs", "three.html"),
		filepath.Join(dst, "other", "four.html"),
	)
	assertMissing(t, filepath.Join(dst, "notes.html"), filepath.Join(dst, "docs", "readme.html"))

	if got := parseOutput(t, filepath.Join(dst, "docs", "three.html")).Find("h1").Text(); got != "Three" {
		t.Errorf("h1 = %q", got)
	}
}

func TestRun_NoDirs(t *testing.T) {
	ctx, _ := setupTestEnv(t)
	src, dst := prepareTree(t)

	if err := runConvert(ctx, "--nodirs", src, dst); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	assertExists(t,
		filepath.Join(dst, "a.html"),
		filepath.Join(dst, "b.html"),
		filepath.Join(dst, "three.html"),
		filepath.Join(dst, "four.html"),
	)
	assertMissing(t, filepath.Join(dst, "sub"))
}

func TestRun_PathInsideArchive(t *testing.T) {
	ctx, _ := setupTestEnv(t)
	src, dst := prepareTree(t)

	if err := runConvert(ctx, filepath.Join(src, "pack.zip", "docs"), dst); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	assertExists(t, filepath.Join(dst, "docs", "three.html"))
	assertMissing(t, filepath.Join(dst, "other"))
}

func TestRun_Errors(t *testing.T) {
	dir := t.TempDir()
	writeDocx(t, filepath.Join(dir, "in", "a.docx"), "A", "a")
	text := writeFile(t, filepath.Join(dir, "in", "plain.txt"), []byte("text"))

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"no source", nil, "no input source"},
		{"missing source", []string{filepath.Join(dir, "absent", "x.docx"), dir}, "input source was not found"},
		{"directory with tail", []string{filepath.Join(dir, "in", "missing.docx"), dir}, "input source was not found"},
		{"not a document", []string{text, dir}, "not recognized as docx"},
		{"bad style map", []string{"--style-map", filepath.Join(dir, "absent.txt"), text, dir}, "unable to read style map"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _ := setupTestEnv(t)
			err := runConvert(ctx, tt.args...)
			if err == nil {
				t.Fatal("Run() expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestRun_Cancelled(t *testing.T) {
	ctx, _ := setupTestEnv(t)
	ctx, cancel := context.WithCancel(ctx)
	cancel()

	dir := t.TempDir()
	src := writeDocx(t, filepath.Join(dir, "a.docx"), "A", "a")
	if err := Run(ctx, convertCommand()); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if err := process(ctx, src, filepath.Join(dir, "out"), testLogger(t)); !errors.Is(err, context.Canceled) {
		t.Fatalf("process() error = %v, want context.Canceled", err)
	}
	assertMissing(t, filepath.Join(dir, "out"))
}

func TestRun_StyleMapFlag(t *testing.T) {
	ctx, _ := setupTestEnv(t)

	dir := t.TempDir()
	src := writeDocx(t, filepath.Join(dir, "a.docx"), "A", "side note")
	rules := writeFile(t, filepath.Join(dir, "rules.txt"), []byte("# local rules\np.Aside => div.side > p\n"))
	dst := filepath.Join(dir, "out")

	if err := runConvert(ctx, "--style-map", rules, src, dst); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := parseOutput(t, filepath.Join(dst, "a.html")).Find("div.side > p").Text(); got != "side note" {
		t.Errorf("div.side > p = %q", got)
	}
}

func TestRun_ForcedCodePage(t *testing.T) {
	ctx, env := setupTestEnv(t)

	dir := t.TempDir()
	src := writeDocx(t, filepath.Join(dir, "a.docx"), "A", "a")

	if err := runConvert(ctx, "--force-zip-cp", "windows-1251", src, filepath.Join(dir, "out")); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if env.CodePage == nil {
		t.Error("code page was not set")
	}

	if err := runConvert(ctx, "--overwrite", "--force-zip-cp", "no-such-charset", src, filepath.Join(dir, "out")); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if env.CodePage != nil {
		t.Error("unknown code page must be ignored")
	}
}
