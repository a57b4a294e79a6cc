// Package report summarizes resolution results for people and machines.
//
// Build counts exact, fuzzy and unmatched entries and attaches the nearest
// library names to every miss. Render prints the summary to a terminal; the
// Summary itself marshals to JSON for the --json flag and the HTTP API.
package report
