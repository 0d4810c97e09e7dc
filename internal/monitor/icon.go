package monitor

// IconVariant identifies which status icon should be displayed.
type IconVariant int

const (
	IconNormal IconVariant = iota
	IconLow
	IconCritical
)

// String returns the variant name used on the wire and in logs.
func (v IconVariant) String() string {
	switch v {
	case IconCritical:
		return "critical"
	case IconLow:
		return "low"
	default:
		return "normal"
	}
}

// SelectIcon maps a battery reading to an icon variant. A charging
// device always shows the normal icon regardless of level.
func SelectIcon(level int, charging bool) IconVariant {
	switch {
	case level <= criticalThreshold && !charging:
		return IconCritical
	case level <= lowThreshold && !charging:
		return IconLow
	default:
		return IconNormal
	}
}
