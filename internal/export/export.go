// Package export writes rendered study plans to disk.
package export

import (
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
)

var pageTpl = template.Must(template.New("plan").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<main>
{{.Body}}
</main>
</body>
</html>
`))

// Document is a standalone HTML page around a rendered plan.
type Document struct {
	Title string
	Body  template.HTML
}

func (d Document) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	err := pageTpl.Execute(cw, d)
	return cw.n, err
}

// WriteFileAtomic writes data to path through a temporary file in the same
// directory, then renames it into place.
func WriteFileAtomic(path string, write func(io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir dest: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = tmp.Close()
		if err != nil {
			_ = os.Remove(tmpPath)
		}
	}()

	if err = write(tmp); err != nil {
		return fmt.Errorf("write temp: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp: %w", err)
	}
	if err = os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp: %w", err)
	}
	return nil
}

// WriteDocument stores doc at path atomically.
func WriteDocument(path string, doc Document) error {
	return WriteFileAtomic(path, func(w io.Writer) error {
		_, err := doc.WriteTo(w)
		return err
	})
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
