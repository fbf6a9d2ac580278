package assetstore

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"sync"
)

// MemoryStore is an in-process Store keeping file bytes in a map. It
// backs the test suites and doubles as an http.Handler serving file
// content at /<fileID>, which lets read paths that GET a file's URL work
// against it.
type MemoryStore struct {
	mu      sync.Mutex
	files   []memoryFile
	folders map[string]bool
	baseURL string
	nextID  int
}

type memoryFile struct {
	id      string
	name    string
	folder  string
	content []byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{folders: make(map[string]bool)}
}

// SetBaseURL sets the URL prefix of returned asset URLs, typically an
// httptest server mounted on this store.
func (m *MemoryStore) SetBaseURL(baseURL string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.baseURL = strings.TrimSuffix(baseURL, "/")
}

var _ Store = (*MemoryStore)(nil)

func (m *MemoryStore) Upload(_ context.Context, file, fileName, folderPath string) (Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Inline base64 payloads are stored decoded, as the hosted store
	// does; URLs and raw text are kept verbatim.
	content := []byte(file)
	if decoded, err := base64.StdEncoding.DecodeString(file); err == nil {
		content = decoded
	}

	m.nextID++
	f := memoryFile{
		id:      fmt.Sprintf("file-%d", m.nextID),
		name:    fileName,
		folder:  strings.TrimSuffix(folderPath, "/"),
		content: content,
	}
	m.files = append(m.files, f)
	m.registerFolders(f.folder)
	return Asset{Name: f.name, URL: m.baseURL + "/" + f.id, FileID: f.id}, nil
}

// registerFolders records the folder and its ancestors, mirroring how the
// hosted store materializes the path of an uploaded file. Callers hold mu.
func (m *MemoryStore) registerFolders(folder string) {
	for folder != "" && folder != "/" {
		m.folders[folder] = true
		i := strings.LastIndex(folder, "/")
		if i <= 0 {
			return
		}
		folder = folder[:i]
	}
}

func (m *MemoryStore) DeleteFile(_ context.Context, fileID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, f := range m.files {
		if f.id == fileID {
			m.files = append(m.files[:i], m.files[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (m *MemoryStore) DeleteFolder(_ context.Context, folderPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	folderPath = strings.TrimSuffix(folderPath, "/")
	found := false

	kept := m.files[:0]
	for _, f := range m.files {
		if f.folder == folderPath || strings.HasPrefix(f.folder, folderPath+"/") {
			found = true
			continue
		}
		kept = append(kept, f)
	}
	m.files = kept

	for path := range m.folders {
		if path == folderPath || strings.HasPrefix(path, folderPath+"/") {
			found = true
			delete(m.folders, path)
		}
	}

	if !found {
		return ErrNotFound
	}
	return nil
}

func (m *MemoryStore) CreateFolder(_ context.Context, folderName, parentPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registerFolders(strings.TrimSuffix(parentPath, "/") + "/" + folderName)
	return nil
}

// MoveFolder relocates every entry under sourcePath into destinationPath,
// keeping file ids. An unknown source fails with ErrNotFound like the
// hosted store's bulk move; a known-but-empty folder moves fine.
func (m *MemoryStore) MoveFolder(_ context.Context, sourcePath, destinationPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sourcePath = strings.TrimSuffix(sourcePath, "/")
	if !m.folders[sourcePath] {
		return ErrNotFound
	}
	segments := strings.Split(sourcePath, "/")
	newPath := strings.TrimSuffix(destinationPath, "/") + "/" + segments[len(segments)-1]

	for i, f := range m.files {
		if f.folder == sourcePath {
			m.files[i].folder = newPath
		} else if strings.HasPrefix(f.folder, sourcePath+"/") {
			m.files[i].folder = newPath + strings.TrimPrefix(f.folder, sourcePath)
		}
	}
	for path := range m.folders {
		if path == sourcePath {
			delete(m.folders, path)
			m.folders[newPath] = true
		} else if strings.HasPrefix(path, sourcePath+"/") {
			delete(m.folders, path)
			m.folders[newPath+strings.TrimPrefix(path, sourcePath)] = true
		}
	}
	m.registerFolders(newPath)
	return nil
}

func (m *MemoryStore) List(_ context.Context, folderPath string, kind Kind) ([]Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	folderPath = strings.TrimSuffix(folderPath, "/")

	if kind == KindFolder {
		seen := make(map[string]bool)
		var assets []Asset
		appendChild := func(path string) {
			rest := strings.TrimPrefix(path, folderPath+"/")
			child := strings.SplitN(rest, "/", 2)[0]
			if child != "" && !seen[child] {
				seen[child] = true
				assets = append(assets, Asset{Name: child})
			}
		}
		for _, f := range m.files {
			if strings.HasPrefix(f.folder, folderPath+"/") {
				appendChild(f.folder)
			}
		}
		for path := range m.folders {
			if strings.HasPrefix(path, folderPath+"/") {
				appendChild(path)
			}
		}
		return assets, nil
	}

	var assets []Asset
	for _, f := range m.files {
		if f.folder == folderPath {
			assets = append(assets, Asset{Name: f.name, URL: m.baseURL + "/" + f.id, FileID: f.id})
		}
	}
	return assets, nil
}

// FileCount reports how many files live under folderPath, recursively.
func (m *MemoryStore) FileCount(folderPath string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	folderPath = strings.TrimSuffix(folderPath, "/")
	count := 0
	for _, f := range m.files {
		if f.folder == folderPath || strings.HasPrefix(f.folder, folderPath+"/") {
			count++
		}
	}
	return count
}

// ServeHTTP serves stored file content at /<fileID>.
func (m *MemoryStore) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/")

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.files {
		if f.id == id {
			_, _ = w.Write(f.content)
			return
		}
	}
	http.NotFound(w, r)
}
