package domain

import "errors"

// ErrLayoutNotFound is reported when no layout strategy recognizes the rendered tree.
var ErrLayoutNotFound = errors.New("no supported category layout found")

// ErrUnknownStrategy is returned when a layout strategy name is not registered.
var ErrUnknownStrategy = errors.New("unknown layout strategy")

// ErrUnknownRemoval is returned when a removal mode name is not recognized.
var ErrUnknownRemoval = errors.New("unknown removal mode")

// ErrStaleRoute is reported when a scheduled run fires after the host navigated away.
var ErrStaleRoute = errors.New("route changed before run")
