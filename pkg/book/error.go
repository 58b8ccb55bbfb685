package book

import "errors"

// ErrOverfill reports a fill larger than the order's remaining quantity.
// Well-formed matching never produces it; seeing it means the indices are
// corrupt.
var ErrOverfill = errors.New("fill exceeds remaining quantity")
