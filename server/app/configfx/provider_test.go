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


package configfx

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/croessner/mfs/server/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviderVersionMonotonicOnReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mfs.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  address: \"127.0.0.1:1\"\n"), 0o600))

	p, err := NewProvider(Path(path))
	require.NoError(t, err)

	cur := p.Current()
	assert.Equal(t, uint64(1), cur.Version)
	assert.Equal(t, "127.0.0.1:1", cur.File.GetServer().Address)
	assert.Equal(t, path, cur.Source)

	require.NoError(t, os.WriteFile(path, []byte("server:\n  address: \"127.0.0.1:2\"\n"), 0o600))

	next, err := p.Reload()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), next.Version)
	assert.Equal(t, "127.0.0.1:2", p.Current().File.GetServer().Address)
}

func TestProviderKeepsSnapshotOnBrokenReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mfs.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  address: \"127.0.0.1:1\"\n"), 0o600))

	p, err := NewProvider(Path(path))
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("server:\n  log:\n    level: chatty\n"), 0o600))

	snap, err := p.Reload()
	assert.ErrorIs(t, err, errors.ErrConfiguration)
	assert.Equal(t, uint64(1), snap.Version)
	assert.Equal(t, "127.0.0.1:1", p.Current().File.GetServer().Address)
}

func TestProviderMissingFile(t *testing.T) {
	_, err := NewProvider(Path(filepath.Join(t.TempDir(), "absent.yaml")))
	assert.ErrorIs(t, err, errors.ErrNoConfigFile)
}
