package models

import "errors"

// ErrBadgeMissing is returned by page drivers when an operation targets a
// badge that is not in the DOM.
var ErrBadgeMissing = errors.New("badge not in document")
