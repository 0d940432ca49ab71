// Package datarecording stores structured records in a SQLite database.
package datarecording

import (
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/structs"

	// SQLite driver.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

// DataRecorder is a backend that records and stores data.
type DataRecorder interface {
	// CreateTable creates a table shaped like the sample entry.
	CreateTable(tableName string, sampleEntry any)

	// InsertData buffers one entry for a table that already exists.
	InsertData(tableName string, entry any)

	// ListTables returns the names of all tables.
	ListTables() []string

	// Flush writes all buffered entries to the database.
	Flush()
}

// New creates a DataRecorder backed by a SQLite file at path. An empty
// path picks a fresh generated name.
func New(path string) DataRecorder {
	w := NewSQLiteWriter(path)
	w.Init()

	return w
}

// SQLiteWriter implements DataRecorder on a SQLite database.
type SQLiteWriter struct {
	*sql.DB

	path      string
	batchSize int
	tables    map[string]*tableBuf
}

type tableBuf struct {
	columns []string
	pending []any
}

// NewSQLiteWriter creates a writer. Init must run before use.
func NewSQLiteWriter(path string) *SQLiteWriter {
	return &SQLiteWriter{
		path:      path,
		batchSize: 4096,
		tables:    make(map[string]*tableBuf),
	}
}

// Init opens the database file and arranges a flush at exit.
func (w *SQLiteWriter) Init() {
	if w.path == "" {
		w.path = "mali_recording_" + xid.New().String()
	}

	filename := w.path + ".sqlite3"
	if _, err := os.Stat(filename); err == nil {
		panic(fmt.Errorf("file %s already exists", filename))
	}

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		panic(err)
	}

	w.DB = db

	fmt.Fprintf(os.Stderr, "Recording to %s\n", filename)

	atexit.Register(func() { w.Flush() })
}

// CreateTable creates a table whose columns are the sample entry's
// fields. Only flat structs of scalar fields are accepted.
func (w *SQLiteWriter) CreateTable(tableName string, sampleEntry any) {
	if _, ok := w.tables[tableName]; ok {
		panic(fmt.Sprintf("table %s already exists", tableName))
	}

	columns := structs.Names(sampleEntry)
	for _, f := range structs.Fields(sampleEntry) {
		if !scalarKind(f.Kind().String()) {
			panic(fmt.Sprintf("table %s: field %s is not a scalar",
				tableName, f.Name()))
		}
	}

	w.mustExec("CREATE TABLE " + tableName +
		" (\n\t" + strings.Join(columns, ",\n\t") + "\n);")

	w.tables[tableName] = &tableBuf{columns: columns}
}

// InsertData buffers one entry. Buffers are written out once they reach
// the batch size or on Flush.
func (w *SQLiteWriter) InsertData(tableName string, entry any) {
	buf, ok := w.tables[tableName]
	if !ok {
		panic(fmt.Sprintf("table %s does not exist", tableName))
	}

	buf.pending = append(buf.pending, entry)

	if len(buf.pending) >= w.batchSize {
		w.flushTable(tableName, buf)
	}
}

// ListTables returns the names of all tables.
func (w *SQLiteWriter) ListTables() []string {
	names := make([]string, 0, len(w.tables))
	for name := range w.tables {
		names = append(names, name)
	}

	return names
}

// Flush writes all buffered entries.
func (w *SQLiteWriter) Flush() {
	for name, buf := range w.tables {
		w.flushTable(name, buf)
	}
}

func (w *SQLiteWriter) flushTable(tableName string, buf *tableBuf) {
	if len(buf.pending) == 0 {
		return
	}

	placeholders := "(" +
		strings.TrimSuffix(strings.Repeat("?, ", len(buf.columns)), ", ") +
		")"

	w.mustExec("BEGIN TRANSACTION")
	defer w.mustExec("COMMIT TRANSACTION")

	stmt, err := w.Prepare(
		"INSERT INTO " + tableName + " VALUES " + placeholders)
	if err != nil {
		panic(err)
	}
	defer stmt.Close()

	for _, entry := range buf.pending {
		if _, err := stmt.Exec(structs.Values(entry)...); err != nil {
			panic(err)
		}
	}

	buf.pending = nil
}

func (w *SQLiteWriter) mustExec(query string) {
	if _, err := w.Exec(query); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to execute: %s\n", query)
		panic(err)
	}
}

func scalarKind(kind string) bool {
	switch kind {
	case "bool", "string",
		"int", "int8", "int16", "int32", "int64",
		"uint", "uint8", "uint16", "uint32", "uint64",
		"float32", "float64":
		return true
	}

	return false
}
