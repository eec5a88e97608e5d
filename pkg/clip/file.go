// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package clip

import (
	"fmt"
	"os"
)

// OpenFile opens a path that arrived as a PATH argument, turning the usual
// failure modes into messages fit for end users. Mode is one of "r" (read,
// must exist), "w" (create or truncate), "a" (create or append) and "rw"
// (read/write, must exist).
func OpenFile(path, mode string) (*os.File, error) {
	var flag int
	switch mode {
	case "r":
		flag = os.O_RDONLY
	case "w":
		flag = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	case "a":
		flag = os.O_WRONLY | os.O_CREATE | os.O_APPEND
	case "rw":
		flag = os.O_RDWR
	default:
		return nil, fmt.Errorf("unsupported file mode %q", mode)
	}

	if fi, err := os.Stat(path); err == nil && fi.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	f, err := os.OpenFile(path, flag, 0644)
	switch {
	case err == nil:
		return f, nil
	case os.IsNotExist(err):
		return nil, fmt.Errorf("no such file: %s", path)
	case os.IsPermission(err):
		return nil, fmt.Errorf("permission denied: %s", path)
	default:
		return nil, fmt.Errorf("cannot open %s: %w", path, err)
	}
}
