package cmdutil

import (
	"fmt"
	"log/slog"

	"github.com/lepinkainen/marquee/internal/datastore"
	"github.com/spf13/viper"
)

// DatastoreName is the database name used for remote Datasette inserts.
const DatastoreName = "marquee"

// OpenDatastore connects to the export target selected by datasette.mode:
// "local" writes to the SQLite file in datasette.dbfile, "remote" posts to the
// Datasette instance in datasette.remote_url.
func OpenDatastore() (datastore.Store, error) {
	mode := viper.GetString("datasette.mode")

	var store datastore.Store
	switch mode {
	case "", "local":
		store = datastore.NewSQLiteStore(viper.GetString("datasette.dbfile"))
	case "remote":
		store = datastore.NewDatasetteClient(
			viper.GetString("datasette.remote_url"),
			viper.GetString("datasette.api_token"),
		)
	default:
		return nil, fmt.Errorf("invalid datasette mode %q (expected local or remote)", mode)
	}

	if err := store.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to %s datastore: %w", mode, err)
	}
	return store, nil
}

// WriteToDatastore replaces the rows of table with records, creating the table
// from schema if needed.
func WriteToDatastore[T any](store datastore.Store, records []T, schema, table, description string, mapper func(T) map[string]any) error {
	if err := store.CreateTable(schema); err != nil {
		return err
	}
	if err := store.ResetTable(table); err != nil {
		return err
	}

	rows := make([]map[string]any, len(records))
	for i, record := range records {
		rows[i] = mapper(record)
	}

	if err := store.BatchInsert(DatastoreName, table, rows); err != nil {
		return fmt.Errorf("failed to write %s: %w", description, err)
	}

	slog.Info("Wrote records to datastore", "table", table, "description", description, "count", len(rows))
	return nil
}
