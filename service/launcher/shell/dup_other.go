//go:build !unix

package shell

import (
	"errors"
	"os"
)

func dup(*os.File) (*os.File, error) {
	return nil, errors.New("shell spawner requires a unix platform")
}
