// Package source opens showcase documents and turns their pages into
// bitmaps. Documents and page bitmaps are cached and loaded at most once per
// key, however many goroutines ask for them.
package source

import (
	"image"
	"sync"

	"github.com/gen2brain/go-fitz"
)

// Source is an opened document. Page indices are 0-based.
type Source interface {
	PageCount() int
	GetPageDimensions(index int) (width, height float64, err error)
	RenderPage(index int, dpi int) (image.Image, error)
	Close() error
}

// FitzPDFSource reads PDF pages through MuPDF. Each render opens its own
// document handle, so renders may run concurrently.
type FitzPDFSource struct {
	mu   sync.Mutex
	doc  *fitz.Document
	path string
	data []byte
}

// NewFitzPDFSource opens a PDF on disk.
func NewFitzPDFSource(path string) (*FitzPDFSource, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, err
	}
	return &FitzPDFSource{doc: doc, path: path}, nil
}

// NewFitzPDFSourceFromMemory opens a PDF already fetched into memory.
func NewFitzPDFSourceFromMemory(data []byte) (*FitzPDFSource, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, err
	}
	return &FitzPDFSource{doc: doc, data: data}, nil
}

func (f *FitzPDFSource) PageCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.doc.NumPage()
}

// GetPageDimensions returns the page size in points.
func (f *FitzPDFSource) GetPageDimensions(index int) (float64, float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rect, err := f.doc.Bound(index)
	if err != nil {
		return 0, 0, err
	}
	return float64(rect.Dx()), float64(rect.Dy()), nil
}

func (f *FitzPDFSource) RenderPage(index int, dpi int) (image.Image, error) {
	workerDoc, err := f.open()
	if err != nil {
		return nil, err
	}
	defer workerDoc.Close()
	return workerDoc.ImageDPI(index, float64(dpi))
}

func (f *FitzPDFSource) open() (*fitz.Document, error) {
	if f.data != nil {
		return fitz.NewFromMemory(f.data)
	}
	return fitz.New(f.path)
}

func (f *FitzPDFSource) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.doc.Close()
}
