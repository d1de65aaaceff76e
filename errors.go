package acidfs

import (
	"errors"

	"github.com/nickyhof/acidfs/core"
)

var errRootOperation = errors.New("acidfs: operation not valid on the root path")
var errNotOpenForRead = errors.New("acidfs: file not opened for reading")
var errNotOpenForWrite = errors.New("acidfs: file not opened for writing")

func pathNotFound(op, path string) error {
	return core.NewError(core.KindPathNotFound, op, path, nil)
}

func isADirectory(op, path string) error {
	return core.NewError(core.KindIsADirectory, op, path, nil)
}

func notADirectory(op, path string) error {
	return core.NewError(core.KindNotADirectory, op, path, nil)
}

func fileExists(op, path string) error {
	return core.NewError(core.KindFileExists, op, path, nil)
}

func directoryNotEmpty(op, path string) error {
	return core.NewError(core.KindDirectoryNotEmpty, op, path, nil)
}

func badMode(op, path string, err error) error {
	return core.NewError(core.KindBadMode, op, path, err)
}
