// Package fetch acquires the embeddable Python runtime and the pip
// bootstrap script.
//
// Downloads land in a persistent cache shared across builds and projects,
// keyed by (version, architecture). Cache entries are written atomically:
// the stream goes to a ".partial" temporary which is renamed into place
// only after completing, so an interrupted download never poisons the
// cache. Entries are reused indefinitely; the only eviction path is
// deleting the cache directory.
package fetch
