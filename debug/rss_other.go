//go:build !windows && !unix

package debug

import "errors"

func processRSS() (uint64, error) { return 0, errors.New("debug: rss not available on this platform") }
