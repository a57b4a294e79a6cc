// Package docx reads, merges and writes WordprocessingML (.docx) packages.
//
// A Document keeps every part of the package in memory, in package order,
// so that unchanged parts are written back byte for byte.
//
// # Merging
//
// Merge appends page documents onto a master template:
//
//	master, err := docx.OpenFile("templates/corporate.docx")
//	report, err := docx.Merge(master, pages)
//	err = master.Write(out)
//
// The master keeps its headers, footers and page setup. Each page
// contributes its body content only. Style definitions the master lacks are
// copied from the page, and the images and hyperlinks a page references
// are re-keyed into the master's relationships. Anything that could not be
// carried over is listed in MergeReport.Warnings.
package docx
