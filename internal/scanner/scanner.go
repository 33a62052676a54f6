// Package scanner walks a project directory for TeX and BibTeX sources.
package scanner

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("texlab.scanner")

// Filter decides which directories are entered and which files are read.
type Filter interface {
	HasExtension(path string) bool
	Excluded(dirName string) bool
}

// Scan walks the subtree under root. Directories whose name starts with
// "." or that the filter excludes are skipped. Every accepted file is
// read and passed to callback from a single worker goroutine. Scan
// returns once all callbacks have completed or ctx is done.
func Scan(
	ctx context.Context,
	root string,
	filter Filter,
	callback func(path string, data []byte),
) int {
	fileCh := make(chan string, 100)
	var wg sync.WaitGroup
	count := 0

	wg.Add(1)
	go func() {
		defer wg.Done()
		for path := range fileCh {
			data, err := os.ReadFile(path)
			if err != nil {
				log.Warningf("read error %s: %v", path, err)
				continue
			}
			callback(path, data)
			count++
		}
	}()

	log.Infof("starting walk at %q", root)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Warningf("walk error: %v", err)
			return nil
		}
		if ctx.Err() != nil {
			return fs.SkipAll
		}

		if d.IsDir() {
			name := d.Name()
			if path != root && (strings.HasPrefix(name, ".") || filter.Excluded(name)) {
				log.Debugf("skipping %q", path)
				return fs.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() || !filter.HasExtension(path) {
			return nil
		}
		fileCh <- path
		return nil
	})
	if err != nil {
		log.Errorf("walk finished with error: %v", err)
	}

	close(fileCh)
	wg.Wait()
	return count
}
