// Package chromem implements store.SearchIndex over chromem-go, a
// pure-Go embedded vector database. One collection holds one entry per
// document, keyed by the document id, with filename/vendor/total
// carried as string metadata for equality filtering.
package chromem
