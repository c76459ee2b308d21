package card

import (
	"fmt"
	"os"
)

// debugf appends to the file named by HATODO_DEBUG. Printing to stdout
// would corrupt the TUI, so debug output goes to a file or nowhere.
func debugf(format string, args ...any) {
	path := os.Getenv("HATODO_DEBUG")
	if path == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()
	fmt.Fprintf(f, format+"\n", args...)
}
