// Package datasets loads benchmark datasets from local files or over HTTP,
// caching downloaded CSVs so repeated experiment runs stay offline.
package datasets

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/giordanoDaloisio/demv/pkg/dataset"
	"github.com/go-resty/resty/v2"
	"github.com/jedib0t/go-pretty/v6/progress"
	"github.com/syndtr/goleveldb/leveldb"
)

var (
	apiClient = resty.New()
)

// Load reads a dataset from a local CSV path or an http(s) URL. Downloads
// are cached in the supplied store keyed by URL; pass a nil store to skip
// caching.
func Load(db *leveldb.DB, pw progress.Writer, source string) (*dataset.Dataset, error) {
	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		return dataset.LoadCSV(source)
	}

	body, err := fetch(db, pw, source)
	if err != nil {
		return nil, err
	}
	return dataset.ReadCSV(bytes.NewReader(body))
}

func fetch(db *leveldb.DB, pw progress.Writer, url string) ([]byte, error) {
	key := []byte("csv-" + url)
	if db != nil {
		if cached, err := db.Get(key, nil); err == nil {
			return cached, nil
		}
	}

	var tracker *progress.Tracker
	if pw != nil {
		tracker = &progress.Tracker{
			Message: "Fetching dataset",
			Total:   1,
			Units:   progress.UnitsDefault,
		}
		pw.AppendTracker(tracker)
		tracker.Start()
	}

	resp, err := apiClient.R().Get(url)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetching %s: %s", url, resp.Status())
	}

	body := resp.Body()
	if db != nil {
		if err := db.Put(key, body, nil); err != nil {
			return nil, err
		}
	}

	if tracker != nil {
		tracker.MarkAsDone()
	}
	return body, nil
}
