//go:build !linux

package watcher

import "os"

func detectFilesystemType(path string) FilesystemType {
	if _, err := os.Stat(statTarget(path)); err != nil {
		return FSTypeUnknown
	}
	return FSTypeLocal
}
