package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/ivlev/pdfshowcase/internal/storage"
)

// ObjectStore fetches objects for s3:// locators.
type ObjectStore interface {
	Get(ctx context.Context, bucket, key string) (io.ReadCloser, error)
}

// Opener resolves a locator (local path, file://, http(s):// or s3://) to a
// Source. Remote locators must point at a PDF.
type Opener struct {
	Store  ObjectStore
	Client *http.Client
}

// Open fetches and opens the document behind locator.
func (o *Opener) Open(ctx context.Context, locator string) (Source, error) {
	switch {
	case storage.IsURI(locator):
		if o.Store == nil {
			return nil, fmt.Errorf("no object store configured for %s", locator)
		}
		bucket, key, err := storage.ParseURI(locator)
		if err != nil {
			return nil, err
		}
		body, err := o.Store.Get(ctx, bucket, key)
		if err != nil {
			return nil, err
		}
		defer body.Close()
		return openRemote(body)

	case strings.HasPrefix(locator, "http://"), strings.HasPrefix(locator, "https://"):
		return o.fetch(ctx, locator)

	case strings.HasPrefix(locator, "file://"):
		u, err := url.Parse(locator)
		if err != nil {
			return nil, err
		}
		return openLocal(u.Path)
	}
	return openLocal(locator)
}

func (o *Opener) fetch(ctx context.Context, locator string) (Source, error) {
	client := o.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, locator, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: %s", locator, resp.Status)
	}
	return openRemote(resp.Body)
}

func openRemote(r io.Reader) (Source, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		return nil, fmt.Errorf("remote document is not a PDF")
	}
	return NewFitzPDFSourceFromMemory(data)
}

func openLocal(path string) (Source, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if fi.IsDir() || IsImage(path) {
		return NewImageSource(path)
	}
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return nil, fmt.Errorf("unsupported document type: %s", path)
	}
	return NewFitzPDFSource(path)
}
