// Package docdb provides the catalog types shared by database implementations.
package docdb

// DatabaseSummary describes one database on the server.
type DatabaseSummary struct {
	Name       string `json:"name"`
	SizeOnDisk int64  `json:"sizeOnDisk"`
	Empty      bool   `json:"empty"`
}

// CollectionSummary describes one collection or view in a database.
type CollectionSummary struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// StorageStats holds the counters reported by the collection statistics command.
type StorageStats struct {
	Count          int64
	AvgObjSize     float64
	Size           int64
	StorageSize    int64
	IndexCount     int64
	TotalIndexSize int64
}

// FindOptions bounds a Find. A zero Limit returns every document.
type FindOptions struct {
	Limit int64
}
