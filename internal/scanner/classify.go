package scanner

import (
	"errors"
	"fmt"

	"github.com/mkravets/pantry-backend/internal/domain"
)

// ClassifyCameraError maps the error name reported by the client runtime
// (DOMException names from the capture API) to the domain camera errors,
// each carrying a distinct user-facing message. Anything unrecognized keeps
// the raw detail.
func ClassifyCameraError(name, detail string) error {
	switch name {
	case "NotAllowedError", "PermissionDeniedError":
		return domain.ErrCameraPermission
	case "NotFoundError", "DevicesNotFoundError":
		return domain.ErrNoCamera
	case "NotReadableError", "TrackStartError":
		return domain.ErrCameraInUse
	case "OverconstrainedError", "ConstraintNotSatisfiedError":
		return domain.ErrCameraConstraint
	default:
		if detail == "" {
			detail = name
		}
		return fmt.Errorf("camera error: %s", detail)
	}
}

func causeLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrCameraPermission):
		return "permission"
	case errors.Is(err, domain.ErrNoCamera):
		return "no_camera"
	case errors.Is(err, domain.ErrCameraInUse):
		return "in_use"
	case errors.Is(err, domain.ErrCameraConstraint):
		return "constraint"
	default:
		return "unknown"
	}
}
