package exporter

import (
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prodscrape/record"
)

func sampleRecords() []*record.Record {
	r1 := record.New()
	r1.Set("title", "Widget A")
	r1.Set("price", "1.00")

	r2 := record.New()
	r2.Set("title", "Widget B")
	r2.SetMissing("price")
	r2.Set("color", "red")

	return []*record.Record{r1, r2}
}

// TestHeaderFields_FirstSeenOrder verifies the union header ordering
func TestHeaderFields_FirstSeenOrder(t *testing.T) {
	header := headerFields(sampleRecords())

	assert.Equal(t, []string{"title", "price", "color"}, header)
}

// TestCSV_Export verifies header, rows, and empty cells
func TestCSV_Export(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "products.csv")

	err := NewCSV(path).Export(sampleRecords())
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"title", "price", "color"}, rows[0])
	assert.Equal(t, []string{"Widget A", "1.00", ""}, rows[1])
	assert.Equal(t, []string{"Widget B", "", "red"}, rows[2])
}

// TestCSV_ExportEmpty verifies a zero-record export creates an empty file
func TestCSV_ExportEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.csv")

	err := NewCSV(path).Export(nil)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)
}

// TestJSON_Export verifies the array-of-objects shape with nulls
func TestJSON_Export(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")

	err := NewJSON(path).Export(sampleRecords())
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var objects []map[string]*string
	require.NoError(t, json.Unmarshal(data, &objects))
	require.Len(t, objects, 2)

	require.NotNil(t, objects[0]["title"])
	assert.Equal(t, "Widget A", *objects[0]["title"])

	price, present := objects[1]["price"]
	require.True(t, present, "missing field should still be a key")
	assert.Nil(t, price, "missing field should render as null")
}

// TestJSON_ExportEmpty verifies an empty array export
func TestJSON_ExportEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")

	err := NewJSON(path).Export(nil)
	require.NoError(t, err)

	var objects []map[string]*string
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &objects))
	assert.Empty(t, objects)
}

// TestSQLite_Export verifies dynamic table creation and null handling
func TestSQLite_Export(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.db")

	err := NewSQLite(path, "").Export(sampleRecords())
	require.NoError(t, err)

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	rows, err := db.Query(`SELECT title, price, color FROM "products"`)
	require.NoError(t, err)
	defer rows.Close()

	type row struct {
		title, price, color sql.NullString
	}
	var got []row
	for rows.Next() {
		var r row
		require.NoError(t, rows.Scan(&r.title, &r.price, &r.color))
		got = append(got, r)
	}
	require.NoError(t, rows.Err())
	require.Len(t, got, 2)

	assert.Equal(t, "Widget A", got[0].title.String)
	assert.True(t, got[0].price.Valid)
	assert.False(t, got[0].color.Valid, "absent field should be NULL")

	assert.Equal(t, "Widget B", got[1].title.String)
	assert.False(t, got[1].price.Valid, "valueless field should be NULL")
	assert.Equal(t, "red", got[1].color.String)
}

// TestSQLite_ReExportReplacesTable verifies a second export drops old rows
func TestSQLite_ReExportReplacesTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.db")
	exp := NewSQLite(path, "items")

	require.NoError(t, exp.Export(sampleRecords()))

	fresh := record.New()
	fresh.Set("title", "Only One")
	require.NoError(t, exp.Export([]*record.Record{fresh}))

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM "items"`).Scan(&count))
	assert.Equal(t, 1, count)
}
