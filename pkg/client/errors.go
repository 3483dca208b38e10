package client

import "errors"

var ErrNoStore = errors.New("no store connected")
