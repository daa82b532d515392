package services

import (
	"errors"

	"github.com/AtRiskMedia/pagebuilder-go/internal/domain/services/editor"
	"github.com/AtRiskMedia/pagebuilder-go/internal/infrastructure/storage"
)

var (
	ErrPageNotFound         = errors.New("page not found")
	ErrSessionNotFound      = errors.New("editor session not found")
	ErrSessionClosed        = errors.New("editor session closed")
	ErrTooManySessions      = errors.New("too many open editor sessions")
	ErrVersionNotFound      = errors.New("version not found")
	ErrConfirmationRequired = errors.New("replacing a non-empty canvas requires confirmation")
	ErrInvalidDescriptors   = errors.New("invalid layout descriptors")
	ErrInvalidPage          = errors.New("invalid page")
	ErrUnknownIntent        = editor.ErrUnknownIntent
	ErrNullNode             = editor.ErrNullNode
	ErrCommandPanicked      = errors.New("editor command failed")
	ErrStorageNotConfigured = storage.ErrStorageNotConfigured
)
