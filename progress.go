package leadscout

// ProgressSink receives human-readable status messages. Delivery is best
// effort: a panicking sink must not affect the operation reporting to it.
type ProgressSink func(message string)
