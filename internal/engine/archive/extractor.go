package archive

import (
	"archive/tar"
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"time"

	"go.trai.ch/skeleton/internal/core/domain"
	"go.trai.ch/skeleton/internal/core/ports"
	"go.trai.ch/zerr"
)

const dirMode = 0o755

// Extractor reconstructs a skeleton from an archive.
type Extractor struct {
	logger ports.Logger
}

// NewExtractor creates a new Extractor.
func NewExtractor(logger ports.Logger) *Extractor {
	return &Extractor{logger: logger}
}

// Extract unpacks the archive read from r into dest.
//
// A destination holding a Cargo.toml but no Skeleton.lock is a real project and is
// refused before anything is written. The whole archive is read and validated
// before the first write, so a bad entry leaves dest untouched. Existing files
// are overwritten; nothing is deleted.
func (e *Extractor) Extract(r io.Reader, dest string) error {
	if err := checkDestination(dest); err != nil {
		return err
	}

	entries, dirs, err := readEntries(r)
	if err != nil {
		return err
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(filepath.Join(dest, dir), dirMode); err != nil {
			return zerr.With(zerr.Wrap(domain.ErrFileWriteFailed, err.Error()), "path", dir)
		}
	}

	for _, ent := range entries {
		e.logger.Debug("writing " + ent.name)
		if err := writeFile(dest, ent); err != nil {
			return err
		}
	}

	return nil
}

func checkDestination(dest string) error {
	if !exists(filepath.Join(dest, domain.ManifestName)) {
		return nil
	}
	if exists(filepath.Join(dest, domain.LockfileName)) {
		return nil
	}
	return zerr.With(zerr.Wrap(domain.ErrDestinationNotASkeleton, "refusing to overwrite a real project"), "dest", dest)
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// readEntries reads every entry into memory, validating names and types.
func readEntries(r io.Reader) ([]entry, []string, error) {
	var (
		entries []entry
		dirs    []string
	)

	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, zerr.Wrap(domain.ErrCorruptArchive, err.Error())
		}

		if hdr.Typeflag == tar.TypeXGlobalHeader {
			continue
		}

		name, err := localName(hdr.Name)
		if err != nil {
			return nil, nil, err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			dirs = append(dirs, name)
		case tar.TypeReg:
			data, err := io.ReadAll(tr)
			if err != nil {
				return nil, nil, zerr.With(zerr.Wrap(domain.ErrCorruptArchive, err.Error()), "entry", hdr.Name)
			}
			entries = append(entries, entry{
				name:    name,
				data:    data,
				mode:    hdr.Mode,
				modTime: hdr.ModTime,
			})
		default:
			unsupported := zerr.With(zerr.Wrap(domain.ErrUnsupportedEntry, "only regular files and directories are extracted"), "entry", hdr.Name)
			return nil, nil, zerr.With(unsupported, "type", string(hdr.Typeflag))
		}
	}

	return entries, dirs, nil
}

// localName validates an entry name and converts it to a host path relative to dest.
func localName(name string) (string, error) {
	clean := path.Clean(name)
	if path.IsAbs(name) || !filepath.IsLocal(filepath.FromSlash(clean)) {
		return "", zerr.With(zerr.Wrap(domain.ErrPathEscapesWorkspace, "archive entry escapes the destination"), "entry", name)
	}
	return filepath.FromSlash(clean), nil
}

func writeFile(dest string, ent entry) error {
	target := filepath.Join(dest, ent.name)

	if err := os.MkdirAll(filepath.Dir(target), dirMode); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrFileWriteFailed, err.Error()), "path", target)
	}

	perm := fs.FileMode(ent.mode).Perm() //nolint:gosec // tar modes fit in 32 bits
	if err := os.WriteFile(target, ent.data, perm); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrFileWriteFailed, err.Error()), "path", target)
	}
	// WriteFile keeps the mode of a file that already existed.
	if err := os.Chmod(target, perm); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrFileWriteFailed, err.Error()), "path", target)
	}

	mtime := ent.modTime
	if mtime.IsZero() {
		mtime = time.Unix(0, 0)
	}
	if err := os.Chtimes(target, mtime, mtime); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrFileWriteFailed, err.Error()), "path", target)
	}

	return nil
}
