package theme

import (
	"sync/atomic"
)

// Provider supplies the currently active manifest. Implementations may swap the
// manifest at any time; callers must not cache the returned pointer across
// operations.
type Provider interface {
	Manifest() *Manifest
}

// FileProvider serves a manifest loaded from disk and can re-read it on demand
type FileProvider struct {
	path    string
	current atomic.Pointer[Manifest]
}

// NewFileProvider loads the manifest at path
func NewFileProvider(path string) (*FileProvider, error) {
	p := &FileProvider{path: path}
	if err := p.Reload(); err != nil {
		return nil, err
	}
	return p, nil
}

// Manifest returns the active manifest
func (p *FileProvider) Manifest() *Manifest {
	return p.current.Load()
}

// Path returns the manifest file path
func (p *FileProvider) Path() string {
	return p.path
}

// Reload re-reads the manifest file. On error the previous manifest stays active.
func (p *FileProvider) Reload() error {
	m, err := Load(p.path)
	if err != nil {
		return err
	}
	p.current.Store(m)
	return nil
}

// StaticProvider always returns the same manifest
type StaticProvider struct {
	M *Manifest
}

// Manifest returns the wrapped manifest
func (p StaticProvider) Manifest() *Manifest {
	return p.M
}

// Reloader is implemented by providers that can refresh their manifest
type Reloader interface {
	Reload() error
}

// Compile-time verification
var (
	_ Provider = (*FileProvider)(nil)
	_ Reloader = (*FileProvider)(nil)
	_ Provider = StaticProvider{}
)
