package utils

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

func GetUniqSubDir(parentPath string) (path string, err error) {
	path = filepath.Join(parentPath, uuid.NewString())
	err = os.Mkdir(path, os.ModePerm)
	return
}

func GetFilenameWithoutExt(path string) (name string) {
	name = filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(path))
	return
}

// TrailingYear extracts a four digit year from the end of a file stem,
// e.g. "NPP_2015.tif" -> 2015.
func TrailingYear(path string) (year int, ok bool) {
	stem := GetFilenameWithoutExt(path)
	if len(stem) < 4 {
		return
	}
	year, err := strconv.Atoi(stem[len(stem)-4:])
	ok = err == nil && year > 0
	return
}
