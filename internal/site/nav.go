// Package site builds navigation and writes the package and home index pages
// that tie the per-module documentation together.
package site

import (
	"github.com/dn-m/documentarian/internal/layout"
	"github.com/dn-m/documentarian/internal/manifest"
)

// Entry is one navigation link.
type Entry struct {
	Label string
	Link  string
}

// Group is a named collection of entries. Link is empty for an unlinked heading.
type Group struct {
	Label   string
	Link    string
	ID      string
	Entries []Entry
}

// Navigation is the ordered set of groups rendered in a page's side bar.
type Navigation struct {
	Groups []Group
}

// PackageNavigation lists the modules of pkg, in declaration order, under a single "Modules" heading.
func PackageNavigation(pkg manifest.Package) Navigation {
	entries := make([]Entry, 0, len(pkg.Products))
	for _, mod := range pkg.Products {
		entries = append(entries, Entry{Label: mod.Name, Link: layout.ModuleLinkFromPackage(mod)})
	}
	return Navigation{Groups: []Group{{Label: "Modules", ID: "Modules", Entries: entries}}}
}

// HomeNavigation emits one group per package, linked to the package page.
// A package without modules still gets a group, with no entries.
func HomeNavigation(pkgs []manifest.Package) Navigation {
	groups := make([]Group, 0, len(pkgs))
	for _, pkg := range pkgs {
		entries := make([]Entry, 0, len(pkg.Products))
		for _, mod := range pkg.Products {
			entries = append(entries, Entry{Label: mod.Name, Link: layout.ModuleLinkFromHome(mod, pkg)})
		}
		groups = append(groups, Group{
			Label:   pkg.Name,
			Link:    layout.PackageLink(pkg),
			ID:      pkg.Name,
			Entries: entries,
		})
	}
	return Navigation{Groups: groups}
}
