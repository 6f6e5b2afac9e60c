package utils

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// TempFileManager hands out uuid-named paths for intermediate raster/image
// artifacts. Paths created with MkTmp are removed by CleanUp; paths created
// with MkTmpKeep survive CleanUp and are only removed by Close (used for
// bounding-box artifacts that must live as long as the box).
type TempFileManager struct {
	mu    sync.Mutex
	root  string
	files []string
	kept  []string
}

func NewTempFileManager(parent string) (m *TempFileManager, err error) {
	if parent == "" {
		parent = os.TempDir()
	} else if err = os.MkdirAll(parent, os.ModePerm); err != nil {
		return
	}
	root, err := GetUniqSubDir(parent)
	if err != nil {
		return
	}
	m = &TempFileManager{root: root}
	return
}

func (m *TempFileManager) Root() string {
	return m.root
}

func (m *TempFileManager) MkTmp(suffix string) string {
	path := filepath.Join(m.root, uuid.NewString()+suffix)
	m.mu.Lock()
	m.files = append(m.files, path)
	m.mu.Unlock()
	return path
}

func (m *TempFileManager) MkTmpKeep(suffix string) string {
	path := filepath.Join(m.root, uuid.NewString()+suffix)
	m.mu.Lock()
	m.kept = append(m.kept, path)
	m.mu.Unlock()
	return path
}

// CleanUp removes every tracked artifact except the kept ones.
func (m *TempFileManager) CleanUp() {
	m.mu.Lock()
	files := m.files
	m.files = nil
	m.mu.Unlock()
	for _, f := range files {
		os.Remove(f)
	}
}

// Close removes the whole managed directory, kept artifacts included.
func (m *TempFileManager) Close() error {
	return os.RemoveAll(m.root)
}

var (
	defaultManager *TempFileManager
	defaultOnce    sync.Once
)

// Default returns the process-wide manager, creating it on first use.
func Default() *TempFileManager {
	defaultOnce.Do(func() {
		defaultManager, _ = NewTempFileManager("")
	})
	return defaultManager
}

func MkTmp(suffix string) string {
	return Default().MkTmp(suffix)
}

func MkTmpKeep(suffix string) string {
	return Default().MkTmpKeep(suffix)
}
