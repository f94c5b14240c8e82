package zalopay

import "errors"

// ErrInvalidSignature is returned when a callback MAC does not verify
var ErrInvalidSignature = errors.New("zalopay: invalid callback signature")
