package recording

import (
	"archive/zip"
	"io"
	"os"

	"github.com/pkg/errors"
)

// ArchiveFile is added to an archive from Fd when set, from Body otherwise
type ArchiveFile struct {
	Name string
	Body string
	Fd   *os.File
}

func MakeArchive(filename string, files []ArchiveFile) error {
	out, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "could not create archive %s", filename)
	}
	defer out.Close()

	w := zip.NewWriter(out)

	for _, file := range files {
		if file.Name == "" {
			continue
		}

		f, err := w.Create(file.Name)
		if err != nil {
			return errors.Wrapf(err, "could not add %s", file.Name)
		}

		if file.Fd != nil {
			if _, err := file.Fd.Seek(0, io.SeekStart); err != nil {
				return errors.Wrapf(err, "could not rewind %s", file.Name)
			}

			_, err = io.Copy(f, file.Fd)
		} else {
			_, err = io.WriteString(f, file.Body)
		}

		if err != nil {
			return errors.Wrapf(err, "could not write %s", file.Name)
		}
	}

	if err := w.Close(); err != nil {
		return errors.Wrap(err, "could not finalize archive")
	}

	return out.Sync()
}
