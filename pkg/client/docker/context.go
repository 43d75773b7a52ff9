package docker

import (
	"archive/tar"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// tarBuildContext streams the context directory as an uncompressed tar
// archive, which is the format the engine's build endpoint expects.
// Hidden version-control directories are skipped.
func tarBuildContext(dir string) (io.ReadCloser, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("stat context directory: %w", err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrContextDirRequired, dir)
	}

	pipeReader, pipeWriter := io.Pipe()

	go func() {
		tarWriter := tar.NewWriter(pipeWriter)

		walkErr := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			relPath, err := filepath.Rel(dir, path)
			if err != nil {
				return fmt.Errorf("relativize %s: %w", path, err)
			}

			if relPath == "." {
				return nil
			}

			if info.IsDir() && strings.HasPrefix(filepath.Base(path), ".git") {
				return filepath.SkipDir
			}

			return writeTarEntry(tarWriter, path, relPath, info)
		})

		closeErr := tarWriter.Close()
		if walkErr == nil {
			walkErr = closeErr
		}

		_ = pipeWriter.CloseWithError(walkErr)
	}()

	return pipeReader, nil
}

func writeTarEntry(tarWriter *tar.Writer, path, relPath string, info os.FileInfo) error {
	header, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return fmt.Errorf("build tar header for %s: %w", relPath, err)
	}

	header.Name = filepath.ToSlash(relPath)

	err = tarWriter.WriteHeader(header)
	if err != nil {
		return fmt.Errorf("write tar header for %s: %w", relPath, err)
	}

	if info.IsDir() {
		return nil
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", relPath, err)
	}
	defer file.Close()

	_, err = io.Copy(tarWriter, file)
	if err != nil {
		return fmt.Errorf("copy %s into tar: %w", relPath, err)
	}

	return nil
}
