package testhelper

import (
	"fmt"
	"path/filepath"
	"runtime"
	"testing"
)

// Caller returns "(file:line)" of the code skip frames above the function
// that calls Caller. Helpers use it to name the test line that fed them bad
// input, which t.Helper alone hides when helpers are nested.
func Caller(t *testing.T, skip int) string {
	t.Helper()

	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return "(unknown)"
	}

	return fmt.Sprintf("(%s:%d)", filepath.Base(file), line)
}
