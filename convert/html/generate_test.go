package html

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"dxh/config"
	"dxh/document"
	"dxh/styles"
)

func sampleDocument() *document.Document {
	return &document.Document{Paragraphs: []*document.Paragraph{
		document.NewParagraph("Heading1", "heading 1", nil, plain(text("Report"))),
		document.NewParagraph("", "", document.Numbering(0, false), plain(text("first"))),
		document.NewParagraph("", "", document.Numbering(0, false), plain(text("second"))),
		document.NewParagraph("Odd", "Odd Style", nil, plain(text("tail"))),
	}}
}

func TestGenerate_FullDocument(t *testing.T) {
	out := filepath.Join(t.TempDir(), "report.html")
	cfg := &config.DocumentConfig{FullDocument: true}

	res, err := Generate(context.Background(), sampleDocument(), styles.DefaultStyleMap(), "Quarterly", out, cfg, testLogger(t))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(res.Messages) != 1 {
		t.Errorf("got %d messages, want 1: %v", len(res.Messages), res.Messages)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("unable to open result: %v", err)
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		t.Fatalf("unable to parse result: %v", err)
	}
	if got := doc.Find("head > title").Text(); got != "Quarterly" {
		t.Errorf("title = %q", got)
	}
	if got := doc.Find("body > h1").Text(); got != "Report" {
		t.Errorf("h1 = %q", got)
	}
	if got := doc.Find("body > ul > li").Length(); got != 2 {
		t.Errorf("found %d list items, want 2", got)
	}
	if got := doc.Find("body > p").Last().Text(); got != "tail" {
		t.Errorf("last paragraph = %q", got)
	}
}

func TestGenerate_Fragment(t *testing.T) {
	out := filepath.Join(t.TempDir(), "fragment.html")
	cfg := &config.DocumentConfig{}

	if _, err := Generate(context.Background(), sampleDocument(), styles.DefaultStyleMap(), "ignored", out, cfg, testLogger(t)); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("unable to read result: %v", err)
	}
	want := "<h1>Report</h1><ul><li>first</li><li>second</li></ul><p>tail</p>"
	if got := string(data); got != want {
		t.Errorf("fragment = %q, want %q", got, want)
	}
	if strings.Contains(string(data), "ignored") {
		t.Error("fragment must not carry title")
	}
}

func TestGenerate_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := filepath.Join(t.TempDir(), "never.html")
	_, err := Generate(ctx, sampleDocument(), styles.DefaultStyleMap(), "", out, &config.DocumentConfig{}, testLogger(t))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Generate() error = %v, want context.Canceled", err)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Errorf("output file must not be created, stat error = %v", err)
	}
}

func TestGenerate_BadDestination(t *testing.T) {
	out := filepath.Join(t.TempDir(), "missing", "out.html")
	if _, err := Generate(context.Background(), sampleDocument(), styles.DefaultStyleMap(), "", out, &config.DocumentConfig{}, testLogger(t)); err == nil {
		t.Fatal("Generate() expected error for missing directory")
	}
}
