//go:build !unix

package trash

import "errors"

func mountRoot(string) (string, error) {
	return "", errors.New("volume trash directories are not supported on this platform")
}
