package database

import "errors"

// ErrStore marks any failure talking to the destination store. A load that
// returns it has been rolled back.
var ErrStore = errors.New("store error")
