package source

import (
	"errors"
	"fmt"
)

// ErrAssetLoad matches every *AssetError.
var ErrAssetLoad = errors.New("asset load failed")

// AssetError reports a document or page that could not be loaded. Page is
// 1-based; 0 means the document itself.
type AssetError struct {
	Locator string
	Page    int
	Err     error
}

func (e *AssetError) Error() string {
	if e.Page > 0 {
		return fmt.Sprintf("asset load: %s page %d: %v", e.Locator, e.Page, e.Err)
	}
	return fmt.Sprintf("asset load: %s: %v", e.Locator, e.Err)
}

func (e *AssetError) Unwrap() error { return e.Err }

func (e *AssetError) Is(target error) bool { return target == ErrAssetLoad }
