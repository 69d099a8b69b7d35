// Package session provides the anonymous viewer identity used to deduplicate
// view events. It is not an authentication credential.
package session

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// StorageKey names the persisted identifier in client storage.
const StorageKey = "blog_session_id"

// Provider hands out the viewer session id. An empty id means the caller runs
// outside a client environment and must not submit a view.
type Provider interface {
	GetOrCreateSessionID() string
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func() string

func (f ProviderFunc) GetOrCreateSessionID() string { return f() }

// ServerProvider is used when rendering without client storage.
type ServerProvider struct{}

func (ServerProvider) GetOrCreateSessionID() string { return "" }

// FileProvider persists the id in a file named StorageKey under Dir. The id is
// created on first use and reused for as long as the file exists.
type FileProvider struct {
	Dir string

	mu sync.Mutex
	id string
}

// NewFileProvider stores the id under dir. An empty dir selects DefaultDir.
func NewFileProvider(dir string) *FileProvider {
	if dir == "" {
		dir = DefaultDir()
	}
	return &FileProvider{Dir: dir}
}

// DefaultDir is the per-user config directory of the blog tools.
func DefaultDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "giho-blog")
}

// Path is the file holding the id.
func (p *FileProvider) Path() string {
	return filepath.Join(p.Dir, StorageKey)
}

// GetOrCreateSessionID returns the stored id, creating it when absent. If the
// storage is unwritable the generated id is still kept for this process.
func (p *FileProvider) GetOrCreateSessionID() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.id != "" {
		return p.id
	}

	if raw, err := os.ReadFile(p.Path()); err == nil {
		if id := strings.TrimSpace(string(raw)); id != "" {
			p.id = id
			return id
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		// Unreadable storage behaves like a fresh client.
		p.id = uuid.NewString()
		return p.id
	}

	p.id = uuid.NewString()
	if err := os.MkdirAll(p.Dir, 0o700); err == nil {
		_ = os.WriteFile(p.Path(), []byte(p.id+"\n"), 0o600)
	}
	return p.id
}
