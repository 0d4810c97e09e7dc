// Package monitor implements the battery monitoring core: device
// discovery and diffing, per-device battery state, the notification
// policy, icon selection, and the two loops that drive them.
//
// Two long-lived flows cooperate. The Scheduler runs in the background
// and owns cadence: every poll interval it re-enumerates the bus,
// applies connect/disconnect diffs to the Tracker, and dispatches
// refresh events. The Consumer runs in the foreground and owns all
// device I/O and sink calls: for each dispatched event it queries
// battery and charging state, updates the Tracker, and drives the
// Notifier and IconSink.
//
// The flows share exactly two things: the Tracker (one mutex-guarded
// record per device) and the Registry's connected-device map. Neither
// lock is ever held across a hardware query. Events travel one way,
// scheduler to consumer, over an ordered buffered channel.
//
// Notification semantics are deliberately uneven: the critical
// threshold repeats on every qualifying poll, the low threshold fires
// once per downward crossing. See EvaluateNotification.
package monitor
