package installer

import (
	"bytes"
	"os"
	"path/filepath"

	goupdate "github.com/doitdistributed/go-update"
)

// DefaultBinaryMode is the permission set for installed executables.
const DefaultBinaryMode os.FileMode = 0o755

// PlaceBinary installs a downloaded self-contained binary at targetPath,
// replacing any previous file in place. The swap is atomic: the old binary
// keeps serving until the new one is fully written.
func PlaceBinary(srcPath, targetPath string) error {
	data, err := os.ReadFile(filepath.Clean(srcPath))
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(targetPath), DefaultBinaryMode); err != nil {
		return err
	}

	options := goupdate.Options{
		TargetPath: targetPath,
		TargetMode: DefaultBinaryMode,
	}

	if err := goupdate.Apply(bytes.NewReader(data), options); err != nil {
		return err
	}

	// go-update parks the replaced binary next to the target.
	oldPath := targetPath + ".old"
	if _, err := os.Stat(oldPath); err == nil {
		_ = os.Remove(oldPath)
	}

	return nil
}

// Symlink points linkPath at targetPath, replacing an existing link or file.
func Symlink(targetPath, linkPath string) error {
	if err := os.MkdirAll(filepath.Dir(linkPath), DefaultBinaryMode); err != nil {
		return err
	}

	if _, err := os.Lstat(linkPath); err == nil {
		if err := os.Remove(linkPath); err != nil {
			return err
		}
	}

	return os.Symlink(targetPath, linkPath)
}
