// Copyright (C) 2026 Christian Rößner
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.


// Package configfx holds the swappable configuration snapshot of the server.
package configfx

import (
	"sync"
	"sync/atomic"

	"github.com/croessner/mfs/server/config"

	"go.uber.org/fx"
)

// Snapshot represents an immutable configuration view.
//
// Version is monotonically increasing and changes whenever a new snapshot is swapped in.
type Snapshot struct {
	File    *config.FileSettings
	Source  string
	Version uint64
}

// Provider provides the current config snapshot.
type Provider interface {
	Current() Snapshot
}

// Reloader extends Provider with a reload capability.
type Reloader interface {
	Provider

	Reload() (Snapshot, error)
}

// Path is the configuration file given on the command line. Empty searches the default locations.
type Path string

// LoadFunc reads and validates the configuration at path.
type LoadFunc func(path string) (*config.FileSettings, string, error)

type provider struct {
	mu       sync.Mutex
	path     string
	load     LoadFunc
	snapshot atomic.Pointer[Snapshot]
}

var _ Reloader = (*provider)(nil)

// NewProvider loads the configuration once and returns a Reloader re-reading the same path.
func NewProvider(path Path) (Reloader, error) {
	return NewProviderWithLoader(string(path), LoadFile)
}

// NewProviderWithLoader is NewProvider with a custom load function.
func NewProviderWithLoader(path string, load LoadFunc) (Reloader, error) {
	file, source, err := load(path)
	if err != nil {
		return nil, err
	}

	p := &provider{path: path, load: load}
	p.snapshot.Store(&Snapshot{File: file, Source: source, Version: 1})

	return p, nil
}

// LoadFile reads path with a fresh config.Loader so that a reload never sees stale keys.
func LoadFile(path string) (*config.FileSettings, string, error) {
	loader := config.NewLoader()

	file, err := loader.Load(path)
	if err != nil {
		return nil, "", err
	}

	return file, loader.ConfigFileUsed(), nil
}

func (p *provider) Current() Snapshot {
	if cur := p.snapshot.Load(); cur != nil {
		return *cur
	}

	return Snapshot{}
}

// Reload keeps the current snapshot when the file cannot be read or validated.
func (p *provider) Reload() (Snapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	file, source, err := p.load(p.path)
	if err != nil {
		return p.Current(), err
	}

	cur := p.Current()
	next := &Snapshot{File: file, Source: source, Version: cur.Version + 1}
	p.snapshot.Store(next)

	return *next, nil
}

// Module provides the Reloader and its read-only Provider view. It needs a Path.
var Module = fx.Module("configfx",
	fx.Provide(
		NewProvider,
		func(r Reloader) Provider { return r },
	),
)
