package logger

import (
	"reflect"
	"strings"
	"sync"

	"github.com/globalmentor/globalmentor-log/core"
)

// Category identifies a logging context: a named type or a package,
// plus the explicit, ordered list of parent categories it falls back
// to when no logger is registered for it directly. Parents are supplied
// at construction rather than discovered by walking a type graph, so
// resolution order is stable and repeatable.
type Category struct {
	name    string
	pkg     string
	parents []*Category

	once      sync.Once
	ancestors []*Category
}

// NewCategory returns a category for a fully qualified type name such
// as "example.com/app/store.Repo", with the given fallback parents in
// order of decreasing affinity.
func NewCategory(name string, parents ...*Category) *Category {
	return &Category{
		name:    name,
		pkg:     packageOf(name),
		parents: parents,
	}
}

// PackageCategory returns a category identifying a whole package.
func PackageCategory(path string, parents ...*Category) *Category {
	return &Category{
		name:    path,
		pkg:     path,
		parents: parents,
	}
}

// CategoryOf returns the category of a value's dynamic type. Pointer
// types are unwrapped so *Repo and Repo share a category.
func CategoryOf(v any, parents ...*Category) *Category {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.PkgPath() == "" {
		return NewCategory("", parents...)
	}
	return &Category{
		name:    t.PkgPath() + "." + t.Name(),
		pkg:     t.PkgPath(),
		parents: parents,
	}
}

// Name returns the category's fully qualified name.
func (c *Category) Name() string { return c.name }

// Package returns the import path portion of the category's name.
func (c *Category) Package() string { return c.pkg }

// Ancestors returns the fallback chain in resolution order, closest
// parent first, breadth-first across the parent lists, each category
// appearing once. The chain is computed on first use and cached.
func (c *Category) Ancestors() []*Category {
	c.once.Do(func() {
		seen := map[*Category]bool{c: true}
		queue := append([]*Category(nil), c.parents...)
		for len(queue) > 0 {
			a := queue[0]
			queue = queue[1:]
			if a == nil || seen[a] {
				continue
			}
			seen[a] = true
			c.ancestors = append(c.ancestors, a)
			queue = append(queue, a.parents...)
		}
	})
	return c.ancestors
}

// packageOf returns the import path portion of a qualified name, using
// the first dot after the last slash as the boundary.
func packageOf(name string) string {
	slash := strings.LastIndexByte(name, '/')
	dot := strings.IndexByte(name[slash+1:], '.')
	if dot < 0 {
		return name
	}
	return name[:slash+1+dot]
}

// callerCategory derives a category from a resolved call site: the
// qualified function or method receiver acts as the type name. Methods
// like "example.com/app/store.(*Repo).Load" map to the receiver type
// "example.com/app/store.(*Repo)".
func callerCategory(site core.CallerInfo) *Category {
	if !site.Defined {
		return NewCategory("")
	}
	pkg := site.PackagePath()
	rest := strings.TrimPrefix(site.Function, pkg)
	rest = strings.TrimPrefix(rest, ".")
	// Keep only the first segment after the package: the receiver for
	// methods, the function name otherwise.
	if i := segmentEnd(rest); i >= 0 {
		rest = rest[:i]
	}
	name := pkg
	if rest != "" {
		name = pkg + "." + rest
	}
	return &Category{name: name, pkg: pkg}
}

// segmentEnd returns the index of the dot terminating the first name
// segment, treating a parenthesized receiver as a single segment, or -1
// if the whole string is one segment.
func segmentEnd(s string) int {
	if strings.HasPrefix(s, "(") {
		if i := strings.IndexByte(s, ')'); i >= 0 {
			return i + 1
		}
		return -1
	}
	return strings.IndexByte(s, '.')
}
