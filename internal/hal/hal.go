// internal/hal/hal.go
package hal

// TotalChannels is the size of the channel index space.
// Every channel id handled by the sampler is in [0, TotalChannels).
const TotalChannels = 32

// TimeoutValue is the reserved all-bits-set reading returned by a
// converter when a conversion did not complete in time.
const TimeoutValue = ^uint32(0)

// Converter abstracts one analog-to-digital conversion unit.
// The sampler depends on this contract only; it never sees transport
// or register details.
type Converter interface {
	// Init powers up the converter. Failure is fatal to startup.
	Init() error

	// Sample performs one blocking conversion on the given channel.
	// On timeout it returns TimeoutValue instead of an error: the
	// sentinel travels through the report like any other reading.
	Sample(channel int) uint32

	// ReferenceVoltage reports the hardware reference voltage.
	ReferenceVoltage() float32

	// FullScaleCount reports the full-scale digital count
	// (resolution) of the converter.
	FullScaleCount() int

	// TemperatureChannelMask reports the bitmask of the always-on
	// temperature sense channel(s).
	TemperatureChannelMask() uint32

	// Uninit releases the hardware. Safe to call after a failed Init.
	Uninit()
}
