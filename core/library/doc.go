// Package library lists the documents a manifest can refer to.
//
// A Library is an ordered set of sources. Each source contributes items to one
// merged key index; the earlier a source is declared, the higher its priority
// when two sources define the same normalized name.
//
// # Sources
//
//   - DirSource: a local directory of .docx files (non-recursive).
//   - BucketSource: objects under a prefix of an S3/MinIO bucket.
//   - CatalogSource: rows of a database table mapping names to locations.
//
// # Caching
//
// The HTTP server keeps a Cache of the latest Snapshot. Rebuilds are protected
// against stampedes with singleflight, and a Watcher invalidates the cache when
// files change in a watched directory.
//
// # Usage
//
//	lib := library.New(library.NewDirSource("./library", ""), library.NewBucketSource(client, "documents", "library/", ""))
//	snap, err := lib.Load(ctx)
//	r, err := resolve.New(snap.Index, 0.6)
package library
