package application

import "errors"

var ErrClosed = errors.New("application closed")
