package qr

import "errors"

var (
	ErrNotFound           = errors.New("qr code not found")
	ErrPaused             = errors.New("qr code is paused")
	ErrLogoRequiresHighEC = errors.New("a logo requires error correction level H")
	ErrNoLogo             = errors.New("qr code has no logo")
	ErrConflict           = errors.New("qr code was changed by another request")
	ErrDuplicateID        = errors.New("qr code id already exists")
)
