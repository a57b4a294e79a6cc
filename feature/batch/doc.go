// Package batch composes several documents from one YAML job file.
//
//	master: templates/corporate.docx
//	workers: 4
//	accept_fuzzy: true
//	jobs:
//	  - name: q3
//	    manifest: manifests/q3.md
//	    output: output/q3.docx
//
// Jobs share one library snapshot and run on a bounded worker pool.
// Nobody is asked to confirm fuzzy matches: accept_fuzzy decides for all jobs.
package batch
