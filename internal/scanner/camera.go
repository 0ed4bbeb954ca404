package scanner

import (
	"strings"

	"github.com/mkravets/pantry-backend/internal/domain"
)

// CameraInfo describes one camera device as enumerated by the client runtime.
type CameraInfo struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Platform carries the capability flags detected once at session start.
type Platform struct {
	// BrokenEnumeration is set for platforms whose device enumeration is
	// known to be unreliable; they get the environment-facing camera by
	// capability instead of by enumerated device id.
	BrokenEnumeration bool `json:"brokenEnumeration"`
}

// backLabelHints mark labels that usually belong to the rear camera.
var backLabelHints = []string{"back", "rear", "environment", "main", "primary"}

type cameraSelection struct {
	cameraID   string
	facingMode string
}

// selectCamera picks the capture target. The strategy is chosen once from
// the platform flag: capability-based facing mode when enumeration is
// broken, otherwise label heuristics over the enumerated list with the
// first camera as fallback.
func selectCamera(cameras []CameraInfo, platform Platform) (cameraSelection, error) {
	if platform.BrokenEnumeration {
		return cameraSelection{facingMode: "environment"}, nil
	}

	if len(cameras) == 0 {
		return cameraSelection{}, domain.ErrNoCamera
	}

	for _, cam := range cameras {
		label := strings.ToLower(cam.Label)
		for _, hint := range backLabelHints {
			if strings.Contains(label, hint) {
				return cameraSelection{cameraID: cam.ID}, nil
			}
		}
	}

	return cameraSelection{cameraID: cameras[0].ID}, nil
}
