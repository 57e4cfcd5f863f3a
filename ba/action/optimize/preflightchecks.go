package optimize

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	trainutils "github.com/bytearena/raceline/ba/utils"
)

func runPreflightChecks(files OutputFiles) {
	for _, filename := range []string{files.Trace, files.Binary} {
		ensureDirectoryIsWritable(filepath.Dir(filename))
	}
}

func ensureDirectoryIsWritable(dir string) {
	info, err := os.Stat(dir)

	if err != nil {
		trainutils.FailWith(errors.Wrapf(err, "Output directory %s was not found", dir))
	}

	if !info.IsDir() {
		trainutils.FailWith(errors.Errorf("%s is not a directory", dir))
	}

	if info.Mode().Perm()&0222 == 0 {
		trainutils.FailWith(errors.Errorf("Output directory %s is not writable", dir))
	}
}
