package aferoutil

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/eluv-io/errors-go"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

type NoRenameFs struct {
	afero.Fs
}

func (f *NoRenameFs) Rename(string, string) error {
	return errors.E("rename", errors.K.Invalid)
}

func TestMoveFile(t *testing.T) {
	memfs := afero.NewMemMapFs()
	noRenameFs := &NoRenameFs{Fs: memfs}
	srcData := []byte{0x01, 0x00, 0x07, 'f', 'o', 'o', ' ', 'b', 'a', 'r'}

	require.NoError(t, memfs.MkdirAll("/src/sub", 0755))
	require.NoError(t, afero.WriteFile(memfs, "/file", srcData, 0644))

	srcPaths := make([]string, 4)
	for i := range srcPaths {
		srcPaths[i] = fmt.Sprintf("/src/source-%02d.pton", i)
		require.NoError(t, afero.WriteFile(memfs, srcPaths[i], srcData, 0644))
	}

	tests := []struct {
		name    string
		fs      afero.Fs
		src     string
		dst     string
		wantErr bool
	}{
		{name: "empty src", fs: memfs, src: "", dst: "/dst/a", wantErr: true},
		{name: "empty dst", fs: memfs, src: srcPaths[0], dst: "", wantErr: true},
		{name: "missing src", fs: memfs, src: "/src/missing", dst: "/dst/a", wantErr: true},
		{name: "src is dir", fs: memfs, src: "/src/sub", dst: "/dst/a", wantErr: true},
		{name: "dst dir is file", fs: memfs, src: srcPaths[0], dst: "/file/a", wantErr: true},
		{name: "rename", fs: memfs, src: srcPaths[1], dst: "/dst/a"},
		{name: "rename new dir", fs: memfs, src: srcPaths[2], dst: "/dst/new/b"},
		{name: "copy", fs: noRenameFs, src: srcPaths[3], dst: "/dst/c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := MoveFile(tt.fs, tt.src, tt.dst)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			exists, err := afero.Exists(memfs, tt.src)
			require.NoError(t, err)
			require.False(t, exists)

			data, err := afero.ReadFile(memfs, tt.dst)
			require.NoError(t, err)
			require.Equal(t, srcData, data)
		})
	}
}

func TestWriteFile(t *testing.T) {
	for _, fs := range []afero.Fs{afero.NewMemMapFs(), &NoRenameFs{Fs: afero.NewMemMapFs()}} {
		t.Run(fmt.Sprintf("%T", fs), func(t *testing.T) {
			path := "/out/dir/value.pton"
			require.NoError(t, WriteFile(fs, path, []byte("first")))
			require.NoError(t, WriteFile(fs, path, []byte("second")))

			data, err := afero.ReadFile(fs, path)
			require.NoError(t, err)
			require.Equal(t, "second", string(data))

			// no temp files left behind
			entries, err := afero.ReadDir(fs, filepath.Dir(path))
			require.NoError(t, err)
			require.Len(t, entries, 1)

			require.Error(t, WriteFile(fs, "", nil))
		})
	}
}
