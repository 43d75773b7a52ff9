package tools

import (
	"archive/tar"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

var errEntryNotFound = errors.New("entry not found in archive")

// maxBinarySize bounds extraction so a malformed archive cannot exhaust
// memory. 500 MiB is far beyond any of the installed CLIs.
const maxBinarySize = 500 << 20

// extractEntryFromTarGz streams a tar.gz archive and returns the contents of
// the named entry. Entry names are matched on their base name so archives
// that nest the binary in a directory still resolve.
func extractEntryFromTarGz(reader io.Reader, entryName string) ([]byte, error) {
	gzr, err := gzip.NewReader(reader)
	if err != nil {
		return nil, fmt.Errorf("create gzip reader: %w", err)
	}
	defer gzr.Close()

	tarReader := tar.NewReader(gzr)

	for {
		header, err := tarReader.Next()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("read tar header: %w", err)
		}

		if header.Typeflag != tar.TypeReg {
			continue
		}

		// Reject path traversal entries outright.
		if strings.Contains(header.Name, "..") {
			return nil, fmt.Errorf("unsafe path in archive: %s", header.Name)
		}

		if filepath.Base(header.Name) != entryName {
			continue
		}

		content, err := io.ReadAll(io.LimitReader(tarReader, maxBinarySize))
		if err != nil {
			return nil, fmt.Errorf("read archive entry %s: %w", header.Name, err)
		}

		return content, nil
	}

	return nil, fmt.Errorf("%w: %s", errEntryNotFound, entryName)
}
