package convert

import (
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"dxh/config"
	"dxh/state"
)

const outputExt = ".html"

// buildOutputPath returns output file path. Source directory structure is
// kept unless NoDirs is requested, name comes from template when configured
// and every path segment is cleaned and, if requested, transliterated.
func buildOutputPath(values Values, src, dst string, env *state.LocalEnv) string {
	outDir := dst
	if !env.NoDirs {
		outDir = filepath.Join(dst, filepath.Dir(src))
	}
	defaultName := cleanPathSegment(strings.TrimSuffix(filepath.Base(src), filepath.Ext(src)), env) + outputExt

	tmpl := env.Cfg.Document.OutputNameTemplate
	if tmpl == "" {
		return filepath.Join(outDir, defaultName)
	}
	expanded, err := expandTemplate(config.OutputNameTemplateFieldName, tmpl, values)
	if err != nil {
		env.Log.Warn("Unable to prepare output filename", zap.Error(err))
		return filepath.Join(outDir, defaultName)
	}

	segments := splitPath(filepath.FromSlash(expanded))
	if len(segments) == 0 {
		return filepath.Join(outDir, defaultName)
	}
	parts := make([]string, 0, len(segments)+1)
	parts = append(parts, outDir)
	for _, s := range segments[:len(segments)-1] {
		parts = append(parts, cleanPathSegment(s, env))
	}
	parts = append(parts, cleanPathSegment(segments[len(segments)-1], env)+outputExt)
	return filepath.Join(parts...)
}

// splitPath breaks relative path into non empty segments, "." and ".." are
// dropped so template cannot escape destination.
func splitPath(path string) []string {
	var segments []string
	for s := range strings.SplitSeq(path, string(filepath.Separator)) {
		s = strings.TrimSpace(s)
		if s == "" || s == "." || s == ".." {
			continue
		}
		segments = append(segments, s)
	}
	return segments
}

func cleanPathSegment(segment string, env *state.LocalEnv) string {
	if env.Cfg.Document.FileNameTransliterate {
		segment = slug.Make(segment)
	}
	return config.CleanFileName(segment)
}
