package monitor

// PollNotice is the outcome of evaluating the notification policy for
// one successful poll. At most one notice is produced per poll.
type PollNotice int

const (
	NoticeNone PollNotice = iota
	NoticeBatteryLow
	NoticeBatteryFull
)

// EvaluateNotification decides whether a freshly updated record
// warrants a notice. Pure function; callers evaluate it exactly once
// per successful poll, immediately after the record update.
//
// The two low-battery branches behave differently on purpose. At or
// below criticalThreshold the notice repeats on every discharging poll.
// At or below lowThreshold it fires only on the poll where the level
// crosses down through the threshold, using PreviousBatteryLevel to
// detect the edge. The asymmetry is long-standing observed behavior;
// keep it until stakeholders agree on a unified rule.
//
// Battery-full is edge-triggered the same way: it needs a charging
// reading of exactly fullLevel with the previous reading below it.
func EvaluateNotification(rec DeviceRecord) PollNotice {
	if rec.BatteryLevel == levelUnknown {
		return NoticeNone
	}

	if !rec.IsCharging {
		if rec.BatteryLevel <= criticalThreshold {
			return NoticeBatteryLow
		}
		if rec.PreviousBatteryLevel > lowThreshold && rec.BatteryLevel <= lowThreshold {
			return NoticeBatteryLow
		}
	}

	if rec.IsCharging && rec.BatteryLevel == fullLevel && rec.PreviousBatteryLevel <= fullLevel-1 {
		return NoticeBatteryFull
	}

	return NoticeNone
}
