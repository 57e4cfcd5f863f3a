package utils

import (
	"os"
	"path"
	"path/filepath"

	"github.com/kardianos/osext"
)

// ResolveFile returns filename when it exists as given; relative names that do
// not exist are looked up next to the executable
func ResolveFile(filename string) string {
	if _, err := os.Stat(filename); err == nil || filepath.IsAbs(filename) {
		return filename
	}

	exfolder, err := osext.ExecutableFolder()
	if err != nil {
		return filename
	}

	candidate := path.Join(exfolder, filename)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}

	return filename
}
