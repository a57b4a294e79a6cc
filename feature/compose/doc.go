// Package compose turns a markdown manifest into an assembled document.
//
// A run has three stages:
//
//  1. Plan parses the manifest and resolves every entry against a library
//     snapshot.
//  2. Select asks a Confirmer about each fuzzy match and applies the
//     rejection and unresolved-entry policies.
//  3. Assemble merges the selected pages onto the master template.
//
// Compose chains the stages for the CLI; the HTTP handler exposes them as
// GET /library, POST /resolve and POST /compose.
package compose
