package model

// RotateOffset maps a hard macro pin's as-authored ("N" baseline) offset to
// its offset under the given orientation. The sign table mirrors the
// original plc_client's per-orientation pin offset remap exactly: each
// orientation is read from xOffsetOrg/yOffsetOrg (never from the
// previously-rotated value), so repeated SetOrientation calls never
// compound error.
func RotateOffset(o Orientation, xOrg, yOrg float64) (x, y float64) {
	switch o {
	case OrientationN, OrientationNone:
		return xOrg, yOrg
	case OrientationFN:
		return -xOrg, yOrg
	case OrientationS:
		return -xOrg, -yOrg
	case OrientationFS:
		return xOrg, -yOrg
	case OrientationE:
		return yOrg, -xOrg
	case OrientationFE:
		return -yOrg, -xOrg
	case OrientationW:
		return -yOrg, xOrg
	case OrientationFW:
		return yOrg, xOrg
	default:
		return xOrg, yOrg
	}
}

// ValidOrientation reports whether o is one of the eight recognized D4
// states or the unset empty orientation.
func ValidOrientation(o Orientation) bool {
	switch o {
	case OrientationNone, OrientationN, OrientationS, OrientationE, OrientationW,
		OrientationFN, OrientationFS, OrientationFE, OrientationFW:
		return true
	default:
		return false
	}
}
