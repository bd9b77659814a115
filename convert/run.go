package convert

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime/debug"
	"sort"
	"strings"
	"time"

	"github.com/maruel/natural"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/ianaindex"

	"dxh/archive"
	"dxh/config"
	"dxh/convert/html"
	"dxh/docx"
	"dxh/state"
)

func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("convert")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	if src, err = filepath.Abs(src); err != nil {
		return err
	}

	dst := cmd.Args().Get(1)
	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	env.NoDirs, env.Overwrite = cmd.Bool("nodirs"), cmd.Bool("overwrite")

	if env.StyleMap, err = BuildStyleMap(&env.Cfg.Document, cmd.String("style-map"), log); err != nil {
		return err
	}
	if env.StyleMap.Len() == 0 {
		log.Warn("Style map is empty, every paragraph will become <p>")
	}
	env.Rpt.StoreData("style-map.txt", []byte(env.StyleMap.String()))

	// zip does not define file name encoding, old archives may need archaic
	// code page forced
	if cp := cmd.String("force-zip-cp"); len(cp) > 0 {
		if env.CodePage, err = ianaindex.IANA.Encoding(cp); err != nil || env.CodePage == nil {
			log.Warn("Unknown character set specification. Ignoring...", zap.String("charset", cp), zap.Error(err))
			env.CodePage = nil
		} else {
			n, _ := ianaindex.IANA.Name(env.CodePage)
			log.Debug("Forcefully converting all non UTF-8 file names in archives", zap.String("charset", n))
		}
	}

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst), zap.Int("rules", env.StyleMap.Len()))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return process(ctx, src, dst, log)
}

// process determines kind of source (directory, archive with optional path
// inside, single document) and handles it.
func process(ctx context.Context, src, dst string, log *zap.Logger) error {
	var head, tail string
	for head = src; len(head) != 0; head, tail = filepath.Split(head) {
		if err := ctx.Err(); err != nil {
			return err
		}

		head = strings.TrimSuffix(head, string(filepath.Separator))

		fi, err := os.Stat(head)
		if err != nil {
			// does not exist, probably path in archive
			continue
		}

		if fi.Mode().IsDir() {
			if len(tail) != 0 {
				// directory cannot have tail, it would be simple file
				return fmt.Errorf("input source was not found (%s) => (%s)", head, strings.TrimPrefix(src, head))
			}
			if err := processDir(ctx, head, dst, log); err != nil {
				return fmt.Errorf("unable to process directory: %w", err)
			}
			break
		}

		if !fi.Mode().IsRegular() {
			return fmt.Errorf("unexpected path mode for (%s) => (%s)", head, strings.TrimPrefix(src, head))
		}

		isArchive, err := isArchiveFile(head)
		if err != nil {
			return fmt.Errorf("unable to check archive type: %w", err)
		}
		if isArchive {
			tail = strings.TrimPrefix(strings.TrimPrefix(src, head), string(filepath.Separator))
			if err := processArchive(ctx, head, filepath.ToSlash(tail), "", dst, log); err != nil {
				return fmt.Errorf("unable to process archive: %w", err)
			}
			break
		}

		isDoc, err := isDocxFile(head)
		if err != nil {
			return fmt.Errorf("unable to check file type: %w", err)
		}
		if isDoc && len(tail) == 0 {
			if err := processFile(ctx, head, filepath.Base(head), dst, log); err != nil {
				log.Error("Unable to process file", zap.String("file", head), zap.Error(err))
			}
			break
		}
		return fmt.Errorf("input was not recognized as docx document (%s)", head)
	}
	if len(head) == 0 {
		return fmt.Errorf("input source was not found (%s)", src)
	}
	return nil
}

// processDir finds documents and archives under dir and processes them in
// natural name order.
func processDir(ctx context.Context, dir, dst string, log *zap.Logger) error {
	var docs, archives []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err != nil {
			log.Warn("Skipping path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		isArchive, err := isArchiveFile(path)
		if err != nil {
			log.Warn("Skipping file", zap.String("file", path), zap.Error(err))
			return nil
		}
		if isArchive {
			archives = append(archives, path)
			return nil
		}
		isDoc, err := isDocxFile(path)
		if err != nil {
			log.Warn("Skipping file", zap.String("file", path), zap.Error(err))
			return nil
		}
		if !isDoc {
			log.Debug("Skipping file, not recognized as document or archive", zap.String("file", path))
			return nil
		}
		docs = append(docs, path)
		return nil
	})
	if err != nil {
		return err
	}
	if len(docs)+len(archives) == 0 {
		log.Debug("Nothing to process", zap.String("dir", dir))
		return nil
	}

	sort.Sort(natural.StringSlice(docs))
	sort.Sort(natural.StringSlice(archives))

	for _, path := range docs {
		if err := ctx.Err(); err != nil {
			return err
		}
		src := strings.TrimPrefix(strings.TrimPrefix(path, dir), string(filepath.Separator))
		if err := processFile(ctx, path, src, dst, log); err != nil {
			log.Error("Unable to process file", zap.String("file", path), zap.Error(err))
		}
	}
	for _, path := range archives {
		if err := ctx.Err(); err != nil {
			return err
		}
		rel := strings.TrimPrefix(strings.TrimPrefix(path, dir), string(filepath.Separator))
		if err := processArchive(ctx, path, "", filepath.Dir(rel), dst, log); err != nil {
			log.Error("Unable to process archive", zap.String("file", path), zap.Error(err))
		}
	}
	return nil
}

// processArchive handles every document inside archive under "pathIn",
// nested archives are not looked into.
func processArchive(ctx context.Context, path, pathIn, pathOut, dst string, log *zap.Logger) (err error) {
	count := 0
	defer func() {
		if err == nil && count == 0 {
			log.Debug("Nothing to process", zap.String("archive", path), zap.String("path", pathIn))
		}
	}()

	cp := state.EnvFromContext(ctx).CodePage

	return archive.Walk(path, pathIn, func(arc string, f *zip.File) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		isDoc, data, err := isDocxInArchive(f)
		if err != nil {
			log.Warn("Skipping file in archive", zap.String("archive", arc), zap.String("path", f.Name), zap.Error(err))
			return nil
		}
		if !isDoc {
			log.Debug("Skipping file, not recognized as document", zap.String("archive", arc), zap.String("file", f.Name))
			return nil
		}
		count++

		pathInArchive := f.Name
		if cp != nil && f.NonUTF8 {
			if n, err := cp.NewDecoder().String(pathInArchive); err == nil {
				pathInArchive = n
			} else {
				n, _ = ianaindex.IANA.Name(cp)
				log.Warn("Unable to convert archive name from specified encoding",
					zap.String("charset", n), zap.String("path", pathInArchive), zap.Error(err))
			}
		}
		src := filepath.Join(pathOut, filepath.FromSlash(pathInArchive))
		if err := processDocument(ctx, bytes.NewReader(data), int64(len(data)), src, dst, log); err != nil {
			log.Error("Unable to process file in archive", zap.String("archive", arc), zap.String("file", f.Name), zap.Error(err))
		}
		return nil
	})
}

func processFile(ctx context.Context, path, src, dst string, log *zap.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	return processDocument(ctx, f, info.Size(), src, dst, log)
}

// processDocument converts single document. "src" is source path relative to
// the original path including file name, it drives output naming. "dst" is
// destination directory.
func processDocument(ctx context.Context, r io.ReaderAt, size int64, src, dst string, log *zap.Logger) (rerr error) {
	env := state.EnvFromContext(ctx)

	var outputName string

	log.Info("Conversion starting", zap.String("from", src))
	defer func(start time.Time) {
		// one broken document must not stop processing of the rest
		if r := recover(); r != nil {
			log.Error("Conversion ended with panic",
				zap.Any("panic", r), zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName), zap.ByteString("stack", debug.Stack()))
			rerr = fmt.Errorf("conversion panic: %v", r)
		} else if rerr == nil {
			log.Info("Conversion completed", zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName))
		}
	}(time.Now())

	f, err := docx.Read(r, size, log)
	if err != nil {
		return fmt.Errorf("unable to parse docx source (%s): %w", src, err)
	}

	values := newValues(src, f)
	outputName = buildOutputPath(values, src, dst, env)

	if _, err := os.Stat(outputName); err == nil {
		if !env.Overwrite {
			return fmt.Errorf("output file already exists: %s", outputName)
		}
		log.Warn("Overwriting existing file", zap.String("file", outputName))
	} else if !os.IsNotExist(err) {
		return err
	} else if err := os.MkdirAll(filepath.Dir(outputName), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}

	var title string
	if env.Cfg.Document.FullDocument {
		if title, err = expandTemplate(config.TitleTemplateFieldName, env.Cfg.Document.TitleTemplate, values); err != nil {
			log.Warn("Unable to prepare document title", zap.Error(err))
			title = values.Name
		}
	}

	res, err := html.Generate(ctx, f.Document, env.StyleMap, strings.TrimSpace(title), outputName, &env.Cfg.Document, log)
	if err != nil {
		return fmt.Errorf("unable to generate output: %w", err)
	}

	if env.Rpt != nil {
		name := filepath.ToSlash(src)
		env.Rpt.Store("result/"+name+outputExt, outputName)
		env.Rpt.StoreData("dump/"+name+".txt", []byte(res.Dump()))
	}
	return nil
}
