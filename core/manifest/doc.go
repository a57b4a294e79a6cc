// Package manifest reads the ordered section list of a composition.
//
// A manifest is a markdown file; only bullet lines ("- name" or "* name") are
// significant. Headings, prose and bullets inside HTML comments are ignored. The
// order of the bullets is the page order of the composed document.
package manifest
