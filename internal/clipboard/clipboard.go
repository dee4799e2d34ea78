// Package clipboard moves images between the editor and the system clipboard.
package clipboard

import "errors"

// ErrEmpty is returned when the clipboard holds no image data.
var ErrEmpty = errors.New("clipboard does not contain image data")
