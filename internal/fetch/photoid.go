package fetch

import "fmt"

// photoIDFormat zero-pads photo numbers to four digits, matching the
// archive's file naming scheme.
const photoIDFormat = "%04d"

// jpegExt is the extension written regardless of the source URL's suffix.
const jpegExt = ".jpg"

// PhotoID identifies one photo in a batch by its zero-padded number.
type PhotoID string

// FormatPhotoID renders n as a photo ID, e.g. 7 becomes "0007". Numbers
// wider than four digits keep their natural width.
func FormatPhotoID(n int) PhotoID {
	return PhotoID(fmt.Sprintf(photoIDFormat, n))
}

// String returns the ID as a plain string.
func (id PhotoID) String() string {
	return string(id)
}

// Filename returns the on-disk name for the photo.
func (id PhotoID) Filename() string {
	return string(id) + jpegExt
}
