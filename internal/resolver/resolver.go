// Package resolver maps between file URIs and paths and resolves the
// targets of include and bibliography directives.
package resolver

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

type Resolver struct {
	root string
}

// New returns a resolver for the project rooted at root. An empty root
// resolves targets relative to the including file only.
func New(root string) *Resolver {
	if root != "" {
		root = filepath.Clean(root)
	}
	return &Resolver{root: root}
}

func (r *Resolver) Root() string {
	return r.root
}

// URIToPath returns the local path of a file URI.
func URIToPath(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("invalid uri %q: %w", uri, err)
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("not a file uri: %q", uri)
	}
	return filepath.FromSlash(u.Path), nil
}

// PathToURI returns the file URI of a local path.
func PathToURI(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   filepath.ToSlash(filepath.Clean(path)),
	}
	return u.String()
}

// Candidates returns the URIs that target may refer to when it appears in
// the document source, in the order they should be tried: relative to the
// directory of source, then relative to the root. A target without the
// default extension is also tried with it appended, after the literal name
// when that has an extension of its own.
func (r *Resolver) Candidates(source, target, extension string) []string {
	target = strings.TrimSpace(target)
	if target == "" || strings.HasSuffix(target, "/") {
		return nil
	}
	target = filepath.FromSlash(target)

	var names []string
	switch ext := filepath.Ext(target); {
	case ext == "":
		names = []string{target + extension}
	case ext == extension || extension == "":
		names = []string{target}
	default:
		names = []string{target, target + extension}
	}

	var uris []string
	seen := make(map[string]bool)
	add := func(path string) {
		uri := PathToURI(path)
		if !seen[uri] {
			seen[uri] = true
			uris = append(uris, uri)
		}
	}

	if filepath.IsAbs(target) {
		for _, name := range names {
			add(name)
		}
		return uris
	}

	var bases []string
	if path, err := URIToPath(source); err == nil {
		bases = append(bases, filepath.Dir(path))
	}
	if r.root != "" {
		bases = append(bases, r.root)
	}
	for _, base := range bases {
		for _, name := range names {
			add(filepath.Join(base, name))
		}
	}
	return uris
}
