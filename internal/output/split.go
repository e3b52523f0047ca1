package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// NamedDocument is a document destined for its own file.
type NamedDocument struct {
	Name     string
	Document any
}

// SplitOptions controls split file output.
type SplitOptions struct {
	// OutDir is the directory for split output
	OutDir string
	// Format is FormatYAML or FormatJSON
	Format OutputFormat
}

// WriteSplit writes each document to its own file and returns the paths
// written. Files are named after the sanitized document name; repeated names
// get a numeric suffix.
func WriteSplit(docs []NamedDocument, opts SplitOptions) ([]string, error) {
	if len(docs) == 0 {
		return nil, nil
	}

	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	usedNames := make(map[string]int)
	paths := make([]string, 0, len(docs))

	for _, doc := range docs {
		path := filepath.Join(opts.OutDir, buildFilename(doc.Name, opts.Format, usedNames))
		if err := writeDocumentFile(doc.Document, path, opts.Format); err != nil {
			return paths, fmt.Errorf("writing %s: %w", path, err)
		}
		Debug("wrote document file", "name", doc.Name, "file", path)
		paths = append(paths, path)
	}

	return paths, nil
}

func buildFilename(name string, format OutputFormat, usedNames map[string]int) string {
	ext := ".yaml"
	if format == FormatJSON {
		ext = ".json"
	}

	baseName := sanitizeName(name)

	count, exists := usedNames[baseName]
	if exists {
		usedNames[baseName] = count + 1
		return fmt.Sprintf("%s-%d%s", baseName, count+1, ext)
	}

	usedNames[baseName] = 1
	return baseName + ext
}

// sanitizeName makes a name safe for use in filenames.
func sanitizeName(name string) string {
	replacer := strings.NewReplacer(
		"/", "-",
		"\\", "-",
		":", "-",
		"*", "-",
		"?", "-",
		"!", "-",
		"\"", "",
		"<", "",
		">", "",
		"|", "-",
	)
	return strings.Trim(replacer.Replace(name), "-.")
}

func writeDocumentFile(v any, destPath string, format OutputFormat) (err error) {
	f, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	return WriteDocument(v, format, f)
}
