package main

import (
	"os"
	"path/filepath"

	"github.com/asdine/storm"
)

// openDb opens the bolt file backing local API users, creating its
// directory if needed.
func openDb(dbFile string) (db *storm.DB, err error) {
	dir := filepath.Dir(dbFile)
	if _, serr := os.Stat(dir); os.IsNotExist(serr) {
		if err = os.MkdirAll(dir, 0755); err != nil {
			return
		}
	}

	return storm.Open(dbFile)
}
