package aferoutil

import (
	"io"
	"os"
	"path/filepath"

	"github.com/eluv-io/errors-go"
	"github.com/spf13/afero"
)

// WriteFile writes data to the file at path, replacing any existing file. The data is first written to a temporary
// file in the destination directory, which is then moved into place with MoveFile, so that readers never observe a
// partially written file.
func WriteFile(fs afero.Fs, path string, data []byte) error {
	e := errors.Template("WriteFile", errors.K.IO, "path", path)
	if path == "" {
		return e(errors.K.Invalid, "reason", "empty path")
	}

	dir := filepath.Dir(path)
	err := fs.MkdirAll(dir, os.ModePerm)
	if err != nil {
		return e(err, "reason", "failed to create directory")
	}

	tmp, err := afero.TempFile(fs, dir, "."+filepath.Base(path)+".tmp-")
	if err != nil {
		return e(err, "reason", "failed to create temp file")
	}
	tmpPath := tmp.Name()

	_, err = tmp.Write(data)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = MoveFile(fs, tmpPath, path)
	}
	if err != nil {
		_ = fs.Remove(tmpPath)
		return e(err, "reason", "failed to write file")
	}
	return nil
}

// MoveFile moves the given source file to the destination path. The file is renamed if possible, otherwise its data
// is copied to the destination and the source is removed.
func MoveFile(fs afero.Fs, src, dst string) error {
	e := errors.Template("MoveFile", errors.K.Invalid, "src", src, "dst", dst)
	if src == "" {
		return e("reason", "empty source path")
	}
	if dst == "" {
		return e("reason", "empty destination path")
	}

	stat, err := fs.Stat(src)
	if err != nil {
		return e(errors.K.IO, err, "reason", "cannot stat source")
	}
	if stat.IsDir() {
		return e("reason", "source is a directory")
	}

	dstDir := filepath.Dir(dst)
	stat, err = fs.Stat(dstDir)
	if err != nil {
		if !os.IsNotExist(err) {
			return e(errors.K.IO, err, "reason", "failed to stat destination dir")
		}
		err = fs.MkdirAll(dstDir, os.ModePerm)
		if err != nil {
			return e(errors.K.IO, err, "reason", "failed to create destination dir")
		}
	} else if !stat.IsDir() {
		return e("reason", "destination is not a directory")
	}

	err = fs.Rename(src, dst)
	if err == nil {
		return nil
	}
	if os.IsNotExist(err) {
		return e(errors.K.NotExist, err)
	}

	// rename unsupported, e.g. across devices
	fdSrc, err := fs.Open(src)
	if err != nil {
		return e(errors.K.IO, err, "reason", "failed to open source file")
	}
	defer errors.Ignore(fdSrc.Close)

	fdDst, err := fs.Create(dst)
	if err != nil {
		return e(errors.K.IO, err, "reason", "failed to create destination file")
	}
	defer errors.Ignore(fdDst.Close)

	_, err = io.Copy(fdDst, fdSrc)
	if err != nil {
		return e(errors.K.IO, err, "reason", "failed to copy file data")
	}

	err = fs.Remove(src)
	if err != nil {
		return e(errors.K.IO, err, "reason", "failed to remove source file")
	}
	return nil
}
