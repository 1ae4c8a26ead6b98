package extractor

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Arthurvroum/odoo-ci/internal/domain"
)

// ErrCorruptArchive means the gzip or tar stream could not be parsed.
// Extraction is not atomic; the destination may hold partial output and
// should be cleared before a retry.
var ErrCorruptArchive = errors.New("corrupt archive")

type Tar struct{}

func NewTar() *Tar {
	return &Tar{}
}

// Extract unpacks src into dst. Members are enumerated first so that an
// archive wrapped in a single top-level directory (odoo-18.0/...) can be
// re-rooted: that directory is stripped and the payload lands directly
// under dst. Archives with zero or several top-level entries keep their
// literal paths. Progress is reported per member.
func (te *Tar) Extract(src, dst string, progress domain.ProgressFunc) error {
	names, err := te.listMembers(src)
	if err != nil {
		return err
	}

	root := commonRoot(names)
	total := int64(len(names))

	file, err := os.Open(src)
	if err != nil {
		return err
	}
	defer file.Close()

	reader, cleanup, err := te.getDecompressor(file)
	if err != nil {
		return err
	}
	if cleanup != nil {
		defer cleanup()
	}

	tr := tar.NewReader(reader)

	var done int64
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("%w: %v", ErrCorruptArchive, err)
		}

		if strings.Contains(header.Name, "..") {
			return fmt.Errorf("invalid path in archive: %s", header.Name)
		}

		done++

		name := header.Name
		if root != "" {
			name = stripRoot(name, root)
			if name == "" {
				// the enclosing root entry itself
				if progress != nil {
					progress(done, total)
				}
				continue
			}
		}

		target := filepath.Join(dst, name)

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return err
			}
			outFile, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, header.FileInfo().Mode())
			if err != nil {
				return err
			}
			if _, err := io.Copy(outFile, tr); err != nil {
				outFile.Close()
				return fmt.Errorf("%w: %v", ErrCorruptArchive, err)
			}
			outFile.Close()
		case tar.TypeSymlink:
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return err
			}
			os.Remove(target)
			if err := os.Symlink(header.Linkname, target); err != nil {
				return err
			}
		}

		if progress != nil {
			progress(done, total)
		}
	}

	return nil
}

// listMembers reads the whole stream once to collect member names. Tar
// has no index, so root detection costs a full decompression pass.
func (te *Tar) listMembers(src string) ([]string, error) {
	file, err := os.Open(src)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader, cleanup, err := te.getDecompressor(file)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	tr := tar.NewReader(reader)

	var names []string
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptArchive, err)
		}
		names = append(names, header.Name)
	}

	return names, nil
}

// commonRoot returns the single shared top-level path segment, or "" when
// the members have zero or more than one.
func commonRoot(names []string) string {
	roots := make(map[string]struct{})
	nested := false
	for _, name := range names {
		name = strings.TrimSuffix(name, "/")
		if name == "" {
			continue
		}
		seg := name
		if i := strings.Index(name, "/"); i >= 0 {
			seg = name[:i]
			nested = true
		}
		roots[seg] = struct{}{}
	}

	// A lone top-level file is not an enclosing directory.
	if len(roots) != 1 || !nested {
		return ""
	}
	for root := range roots {
		return root
	}
	return ""
}

func stripRoot(name, root string) string {
	name = strings.TrimPrefix(name, root+"/")
	name = strings.TrimSuffix(name, "/")
	if name == root {
		return ""
	}
	return name
}
