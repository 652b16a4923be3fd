// Package archive packages renamed files into a zip and keeps the result
// available for download.
package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ZipDir writes every regular file directly inside dir to w as a flat zip.
// It returns the number of entries written.
func ZipDir(w io.Writer, dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", dir, err)
	}

	zw := zip.NewWriter(w)
	count := 0
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		if err := addFile(zw, filepath.Join(dir, entry.Name()), info); err != nil {
			_ = zw.Close()
			return count, err
		}
		count++
	}
	if err := zw.Close(); err != nil {
		return count, fmt.Errorf("finalize zip: %w", err)
	}
	return count, nil
}

// ZipDirBytes is ZipDir into memory.
func ZipDirBytes(dir string) ([]byte, int, error) {
	var buf bytes.Buffer
	n, err := ZipDir(&buf, dir)
	if err != nil {
		return nil, n, err
	}
	return buf.Bytes(), n, nil
}

func addFile(zw *zip.Writer, path string, info os.FileInfo) error {
	hdr, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("zip header for %s: %w", info.Name(), err)
	}
	hdr.Name = info.Name()
	hdr.Method = zip.Deflate

	dst, err := zw.CreateHeader(hdr)
	if err != nil {
		return fmt.Errorf("zip entry %s: %w", info.Name(), err)
	}
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("zip %s: %w", info.Name(), err)
	}
	return nil
}
