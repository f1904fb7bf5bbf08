// Package archive stages import bundles: a metadata table optionally
// zipped together with the files it references.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// metadataExts are the file extensions recognized as metadata tables.
var metadataExts = []string{".csv", ".xlsx"}

// Bundle is a staged import: the metadata table plus the directory
// holding any accompanying asset files.
type Bundle struct {
	// MetadataPath is the table to feed the importer.
	MetadataPath string

	// AssetDir holds the bundle's other files. Empty for a bare table.
	AssetDir string
}

// Prepare stages an import source. A bare .csv or .xlsx passes through
// unchanged; a .zip is unpacked into stagingDir and its metadata table
// located. Exactly one metadata table must be present in an archive.
func Prepare(path, stagingDir string) (*Bundle, error) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, me := range metadataExts {
		if ext == me {
			return &Bundle{MetadataPath: path}, nil
		}
	}
	if ext != ".zip" {
		return nil, fmt.Errorf("unsupported import source %q (want .csv, .xlsx or .zip)", filepath.Base(path))
	}

	if err := extract(path, stagingDir); err != nil {
		return nil, err
	}

	var tables []string
	err := filepath.WalkDir(stagingDir, func(p string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		e := strings.ToLower(filepath.Ext(p))
		for _, me := range metadataExts {
			if e == me {
				tables = append(tables, p)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning archive contents: %w", err)
	}

	switch len(tables) {
	case 0:
		return nil, fmt.Errorf("no metadata table found in %s", filepath.Base(path))
	case 1:
		return &Bundle{MetadataPath: tables[0], AssetDir: stagingDir}, nil
	default:
		return nil, fmt.Errorf("multiple metadata tables found in %s", filepath.Base(path))
	}
}

// extract unpacks a zip archive into dir, refusing entries that would
// escape it.
func extract(path, dir string) error {
	r, err := zip.OpenReader(path)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		target := filepath.Join(dir, filepath.Clean(f.Name))
		if !strings.HasPrefix(target, filepath.Clean(dir)+string(os.PathSeparator)) {
			return fmt.Errorf("archive entry %q escapes the staging directory", f.Name)
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return fmt.Errorf("staging %s: %w", f.Name, err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return fmt.Errorf("staging %s: %w", f.Name, err)
		}
		if err := copyEntry(f, target); err != nil {
			return err
		}
	}
	return nil
}

func copyEntry(f *zip.File, target string) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("reading archive entry %s: %w", f.Name, err)
	}
	defer rc.Close()

	out, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("staging %s: %w", f.Name, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, rc); err != nil {
		return fmt.Errorf("staging %s: %w", f.Name, err)
	}
	return nil
}
