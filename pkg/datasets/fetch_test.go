package datasets_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/giordanoDaloisio/demv/pkg/datasets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/syndtr/goleveldb/leveldb"
)

const csvBody = "a,y\n0,1\n1,0\n"

func TestLoadLocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(csvBody), 0644))

	d, err := datasets.Load(nil, nil, path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "y"}, d.Columns)
	assert.Equal(t, 2, d.Len())
}

func TestLoadOverHTTP(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(csvBody))
	}))
	defer server.Close()

	db, err := leveldb.OpenFile(filepath.Join(t.TempDir(), "cache"), nil)
	require.NoError(t, err)
	defer db.Close()

	d, err := datasets.Load(db, nil, server.URL)
	require.NoError(t, err)
	assert.Equal(t, 2, d.Len())
	assert.Equal(t, 1, hits)

	// The second load is served from the cache.
	d, err = datasets.Load(db, nil, server.URL)
	require.NoError(t, err)
	assert.Equal(t, 2, d.Len())
	assert.Equal(t, 1, hits)
}

func TestLoadHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	_, err := datasets.Load(nil, nil, server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}
