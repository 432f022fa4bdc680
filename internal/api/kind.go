package api

import (
	"errors"

	"github.com/rickgao/arbwatch/internal/model"
)

// FailureKind classifies a fetch error.
type FailureKind string

const (
	KindNone     FailureKind = ""
	KindNetwork  FailureKind = "network"
	KindResponse FailureKind = "response"
	KindShape    FailureKind = "shape"
	KindUnknown  FailureKind = "unknown"
)

// Kind returns the failure class of err.
func Kind(err error) FailureKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, model.ErrInvalidShape):
		return KindShape
	case errors.Is(err, ErrResponse):
		return KindResponse
	case errors.Is(err, ErrNetwork):
		return KindNetwork
	default:
		return KindUnknown
	}
}
