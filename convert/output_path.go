package convert

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"sbc/config"
	"sbc/content"
	"sbc/state"
)

// buildOutputDir returns export folder for the book under dst. Folder is
// named after the book folder unless name template is configured, expanded
// template may contain path separators for subdirectories. Every segment is
// cleaned and, if requested, transliterated.
func buildOutputDir(doc *content.Document, dst string, env *state.LocalEnv) string {
	defaultDir := filepath.Join(dst, cleanPathSegment(filepath.Base(doc.Dir()), env))

	if env.Cfg.Export.OutputNameTemplate == "" {
		return defaultDir
	}

	expandedName := expandOutputNameTemplate(doc, env)
	if expandedName == "" {
		// fallback to default name if template expansion failed
		return defaultDir
	}

	segments := splitAndCleanPath(expandedName)
	if len(segments) == 0 {
		return defaultDir
	}
	parts := make([]string, 0, len(segments)+1)
	parts = append(parts, dst)
	for _, segment := range segments {
		parts = append(parts, cleanPathSegment(segment, env))
	}
	return filepath.Join(parts...)
}

func expandOutputNameTemplate(doc *content.Document, env *state.LocalEnv) string {
	expandedName, err := expandTemplate(doc, config.OutputNameTemplateFieldName, env.Cfg.Export.OutputNameTemplate)
	if err != nil {
		env.Log.Warn("Unable to prepare output folder name", zap.Error(err))
		return ""
	}
	return filepath.FromSlash(strings.TrimSpace(expandedName))
}

func splitAndCleanPath(path string) []string {
	path = strings.TrimSuffix(path, string(os.PathSeparator))
	segments := make([]string, 0, 8)

	for head, tail := filepath.Split(path); tail != ""; head, tail = filepath.Split(head) {
		segments = slices.Insert(segments, 0, tail)
		head = strings.TrimSuffix(head, string(os.PathSeparator))
		if head == "" {
			break
		}
	}

	return segments
}

func cleanPathSegment(segment string, env *state.LocalEnv) string {
	if env.Cfg.Export.FileNameTransliterate {
		segment = slug.Make(segment)
	}
	return config.CleanFileName(segment)
}
