package extract

import (
	"path/filepath"

	"github.com/ddzz/ember-template-lint/internal/collections"
)

// scriptExtensions are the file extensions whose contents are scanned for
// embedded templates; anything else is a template file
var scriptExtensions = collections.NewSet(
	".js", ".ts", ".gjs", ".gts",
	".mjs", ".cjs", ".mts", ".cts",
)

// SupportedExtensions returns the script extensions in sorted order
func SupportedExtensions() []string {
	return scriptExtensions.Members()
}

// IsSupportedScriptFileExtension reports whether path names a script that
// may embed templates
func IsSupportedScriptFileExtension(path string) bool {
	return scriptExtensions.Has(filepath.Ext(path))
}
