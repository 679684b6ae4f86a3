// fs.go holds tiny helpers for walking the filesystem when template glob
// patterns such as “**/*.html” are not available in the Go standard library.
// The key export is CollectHTML, which returns a sorted slice of paths for
// every .html file under the supplied directory.
package theme

import (
	"errors"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// CollectHTML walks rootDir recursively and returns a list of *.html paths.
// A missing directory yields an empty list, not an error.
//
//	files, _ := CollectHTML("themes/default/templates/partials")
//	tpl.ParseFiles(files...)
func CollectHTML(rootDir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(strings.ToLower(d.Name()), ".html") {
			files = append(files, path)
		}
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// pageName maps "…/pages/product.html" to "product".
func pageName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
