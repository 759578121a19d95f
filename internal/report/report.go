// internal/report/report.go
package report

// Report layout constants.
// These values define the message shape and MUST NOT be configurable.

// Capacity is the fixed number of channel slots per report.
const Capacity = 12

// UnusedChannel marks a report slot that carries no sample.
// It is distinct from every valid channel id.
const UnusedChannel int16 = -1

// Report is the fixed-shape message published once per cycle.
// RawData is meaningful only at indices where ChannelID is not the
// unused sentinel.
type Report struct {
	DeviceID   uint32           `json:"device_id"`
	ChannelID  [Capacity]int16  `json:"channel_id"`
	RawData    [Capacity]uint32 `json:"raw_data"`
	VRef       float32          `json:"v_ref"`
	Resolution int              `json:"resolution"`
	Timestamp  int64            `json:"timestamp"` // microseconds, monotonic
}

// Meta carries the per-instance constants stamped into every report.
type Meta struct {
	DeviceID   uint32
	VRef       float32
	Resolution int
}

// Sample is one channel reading in resolver order.
type Sample struct {
	Channel int
	Raw     uint32
}

// Assemble packs samples into a report, truncating past Capacity and
// marking the remaining slots unused.
// No IO. No side effects.
func Assemble(samples []Sample, meta Meta, timestamp int64) Report {
	r := Report{
		DeviceID:   meta.DeviceID,
		VRef:       meta.VRef,
		Resolution: meta.Resolution,
		Timestamp:  timestamp,
	}

	n := len(samples)
	if n > Capacity {
		n = Capacity
	}

	i := 0
	for ; i < n; i++ {
		r.ChannelID[i] = int16(samples[i].Channel)
		r.RawData[i] = samples[i].Raw
	}
	for ; i < Capacity; i++ {
		r.ChannelID[i] = UnusedChannel
	}

	return r
}
