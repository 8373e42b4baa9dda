package fs

import (
	iofs "io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"go.trai.ch/tsbuild/internal/core/domain"
	"go.trai.ch/zerr"
)

var testFileSuffix = regexp.MustCompile(`\.test\.tsx?$`)

const testEntrypointHeader = "// Code generated by tsbuild. DO NOT EDIT.\n\n"

// GenerateTestEntrypoint writes to entrypoint a module that imports every *.test.ts(x) file under root.
// Directories named node_modules and the directories in skip are not scanned.
// It returns the number of imported test files.
func GenerateTestEntrypoint(root, entrypoint string, skip ...string) (int, error) {
	skipped := make(map[string]bool, len(skip))
	for _, dir := range skip {
		if dir != "" {
			skipped[filepath.Clean(dir)] = true
		}
	}

	var tests []string
	err := filepath.WalkDir(root, func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == "node_modules" || skipped[filepath.Clean(path)] {
				return iofs.SkipDir
			}
			return nil
		}
		if testFileSuffix.MatchString(d.Name()) {
			tests = append(tests, path)
		}
		return nil
	})
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to scan for test files"), "path", root)
	}

	base := filepath.Dir(entrypoint)
	imports := make([]string, 0, len(tests))
	for _, test := range tests {
		rel, err := filepath.Rel(base, domain.StripExt(test))
		if err != nil {
			return 0, zerr.With(zerr.Wrap(err, "failed to relativize test file"), "path", test)
		}
		rel = filepath.ToSlash(rel)
		if rel != ".." && !strings.HasPrefix(rel, "../") {
			rel = "./" + rel
		}
		imports = append(imports, rel)
	}
	slices.Sort(imports)

	var b strings.Builder
	b.WriteString(testEntrypointHeader)
	for _, imp := range imports {
		b.WriteString("import \"" + imp + "\"\n")
	}

	if err := os.MkdirAll(base, domain.DirPerm); err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to create directory for test entrypoint"), "path", base)
	}
	if err := os.WriteFile(entrypoint, []byte(b.String()), domain.FilePerm); err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to write test entrypoint"), "path", entrypoint)
	}
	return len(imports), nil
}
