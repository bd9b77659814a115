package convert

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
)

// enough to see zip signature and names of first entries
const headerSize = 8192

const (
	docxExt    = ".docx"
	archiveExt = ".zip"

	mainPartName = "word/document.xml"
)

func readHeader(r io.Reader) ([]byte, error) {
	buf := make([]byte, headerSize)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, err
	}
	return buf[:n], nil
}

func fileHeader(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readHeader(f)
}

// isArchiveFile reports whether path is a zip archive which is not itself a
// document container.
func isArchiveFile(path string) (bool, error) {
	if !strings.EqualFold(filepath.Ext(path), archiveExt) {
		return false, nil
	}
	header, err := fileHeader(path)
	if err != nil {
		return false, err
	}
	if !filetype.Is(header, "zip") || filetype.Is(header, "docx") {
		return false, nil
	}
	zr, err := zip.OpenReader(path)
	if err != nil {
		return false, nil
	}
	defer zr.Close()
	return !hasMainPart(&zr.Reader), nil
}

// isDocxFile reports whether path is a document container. Header signature
// is looked at first, containers written with unusual entry order are checked
// for main document part.
func isDocxFile(path string) (bool, error) {
	header, err := fileHeader(path)
	if err != nil {
		return false, err
	}
	if filetype.Is(header, "docx") {
		return true, nil
	}
	if !filetype.Is(header, "zip") || !strings.EqualFold(filepath.Ext(path), docxExt) {
		return false, nil
	}
	zr, err := zip.OpenReader(path)
	if err != nil {
		return false, nil
	}
	defer zr.Close()
	return hasMainPart(&zr.Reader), nil
}

// isDocxInArchive checks document container stored inside archive and
// returns its content.
func isDocxInArchive(f *zip.File) (bool, []byte, error) {
	if !strings.EqualFold(filepath.Ext(f.Name), docxExt) {
		return false, nil, nil
	}
	r, err := f.Open()
	if err != nil {
		return false, nil, err
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return false, nil, fmt.Errorf("unable to read %s: %w", f.Name, err)
	}
	if filetype.Is(data, "docx") {
		return true, data, nil
	}
	if !filetype.Is(data, "zip") {
		return false, nil, nil
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil || !hasMainPart(zr) {
		return false, nil, nil
	}
	return true, data, nil
}

func hasMainPart(zr *zip.Reader) bool {
	for _, f := range zr.File {
		if f.Name == mainPartName {
			return true
		}
	}
	return false
}
