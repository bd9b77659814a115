package convert

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"dxh/config"
	"dxh/styles"
)

// BuildStyleMap assembles effective style map. Earlier sources win: file
// from command line, inline configuration rules, configured file and
// finally built in defaults.
func BuildStyleMap(cfg *config.DocumentConfig, extraPath string, log *zap.Logger) (styles.StyleMap, error) {
	var parts []styles.StyleMap

	if extraPath != "" {
		sm, err := readStyleMap(extraPath)
		if err != nil {
			return styles.StyleMap{}, err
		}
		parts = append(parts, sm)
		log.Debug("Style map loaded", zap.String("source", extraPath), zap.Int("rules", sm.Len()))
	}
	if cfg.StyleMap != "" {
		sm, err := styles.ParseStyleMap(cfg.StyleMap)
		if err != nil {
			return styles.StyleMap{}, fmt.Errorf("unable to parse style map from configuration: %w", err)
		}
		parts = append(parts, sm)
		log.Debug("Style map loaded", zap.String("source", "configuration"), zap.Int("rules", sm.Len()))
	}
	if cfg.StyleMapPath != "" {
		sm, err := readStyleMap(cfg.StyleMapPath)
		if err != nil {
			return styles.StyleMap{}, err
		}
		parts = append(parts, sm)
		log.Debug("Style map loaded", zap.String("source", cfg.StyleMapPath), zap.Int("rules", sm.Len()))
	}
	if cfg.IncludeDefaultStyleMap {
		parts = append(parts, styles.DefaultStyleMap())
	}

	var sm styles.StyleMap
	return sm.Concat(parts...), nil
}

func readStyleMap(path string) (styles.StyleMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return styles.StyleMap{}, fmt.Errorf("unable to read style map: %w", err)
	}
	sm, err := styles.ParseStyleMap(string(data))
	if err != nil {
		return styles.StyleMap{}, fmt.Errorf("unable to parse style map %s: %w", path, err)
	}
	return sm, nil
}
