package fetch

import (
	"errors"
	"fmt"
)

// Common batch construction errors.
var (
	ErrNegativeStart = errors.New("start number cannot be negative")
	ErrNoURLs        = errors.New("url list cannot be empty")
)

// Batch is an ordered list of photo URLs numbered from StartNum upward.
type Batch struct {
	// StartNum is the photo number assigned to the first URL.
	StartNum int

	// URLs are downloaded strictly in the order given.
	URLs []string
}

// NewBatch builds a batch, validating the numbering and the URL list.
func NewBatch(startNum int, urls []string) (*Batch, error) {
	if startNum < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrNegativeStart, startNum)
	}
	if len(urls) == 0 {
		return nil, ErrNoURLs
	}

	return &Batch{StartNum: startNum, URLs: urls}, nil
}

// Size returns the number of photos in the batch.
func (b *Batch) Size() int {
	return len(b.URLs)
}

// IDFor returns the photo ID for the URL at position i.
func (b *Batch) IDFor(i int) PhotoID {
	return FormatPhotoID(b.StartNum + i)
}
