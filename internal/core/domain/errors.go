package domain

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrForbidden      = errors.New("forbidden")
	ErrInvalidMove    = errors.New("invalid stop move")
	ErrInvalidDate    = errors.New("invalid delivery date")
	ErrInvalidStatus  = errors.New("invalid delivery status")
	ErrNoDraft        = errors.New("no route draft for this driver and date")
	ErrNothingToSave  = errors.New("route has no stops to save")
	ErrTemplateAbsent = errors.New("no active message template")
	ErrNoRecipient    = errors.New("notice has no recipient")
	ErrInvalidRequest = errors.New("invalid request")
)
