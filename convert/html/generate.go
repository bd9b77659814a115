package html

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"dxh/config"
	"dxh/document"
	"dxh/htmltree"
	"dxh/styles"
)

// Generate converts document using style map and writes HTML to outputName.
// Depending on configuration either fragment or complete document is written.
func Generate(ctx context.Context, doc *document.Document, sm styles.StyleMap, title, outputName string, cfg *config.DocumentConfig, log *zap.Logger) (res Result, err error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if log == nil {
		log = zap.NewNop()
	}

	res = NewConverter(sm, log).Convert(doc)
	for _, m := range res.Messages {
		log.Warn("Conversion message", zap.Stringer("message", m))
	}

	f, err := os.Create(outputName)
	if err != nil {
		return res, fmt.Errorf("unable to create output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("unable to close output file: %w", cerr)
		}
	}()

	w := bufio.NewWriter(f)
	if cfg.FullDocument {
		err = htmltree.WriteDocument(w, title, res.Nodes)
	} else {
		err = htmltree.Write(w, res.Nodes)
	}
	if err != nil {
		return res, err
	}
	if err = w.Flush(); err != nil {
		return res, fmt.Errorf("unable to write output file: %w", err)
	}
	log.Debug("HTML written", zap.String("file", outputName), zap.Int("nodes", len(res.Nodes)))
	return res, nil
}
