package rgb

import "fmt"

// Defines the record sizes expected by the firmware
const (
	ModeRecordSize = 16
	ZoneRecordSize = 4
)

// MaxZones is the number of zones addressable by the zone mask
const MaxZones = 8

// Defines the byte index of each field in a ModeRecord
const (
	modeByteIndex       = 0
	speedByteIndex      = 1
	brightnessByteIndex = 2
	reservedByteIndex   = 3 // always 0
	directionByteIndex  = 4
	colorByteIndex      = 5
	applyByteIndex      = 9 // 1 makes the firmware apply the record now
)

// Defaults for fields not set by a write
const (
	DefaultSpeed      = 2  // 1 <--> 9
	DefaultBrightness = 90 // 0 <--> 100
	DefaultDirection  = 1  // 1 -->, 2 <--
)

// DefaultColor is the color of a ModeRecord without a color command
var DefaultColor = Color{R: 64, G: 128, B: 255}

// Color is an RGB triplet
type Color struct {
	R uint8
	G uint8
	B uint8
}

func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ModeRecord is the keyboard backlight record for SetGamingKBBL
type ModeRecord [ModeRecordSize]byte

var defaultModeRecord = ModeRecord{
	modeByteIndex:       0,
	speedByteIndex:      DefaultSpeed,
	brightnessByteIndex: DefaultBrightness,
	directionByteIndex:  DefaultDirection,
	colorByteIndex:      DefaultColor.R,
	colorByteIndex + 1:  DefaultColor.G,
	colorByteIndex + 2:  DefaultColor.B,
}

// DefaultModeRecord returns a copy of the default template
func DefaultModeRecord() ModeRecord {
	return defaultModeRecord
}

// fieldByteIndex maps a command letter to the byte it sets in a ModeRecord
func fieldByteIndex(command byte) (int, bool) {
	switch command {
	case 'm': // Mode
		return modeByteIndex, true
	case 'v': // Velocity
		return speedByteIndex, true
	case 'b': // Brightness
		return brightnessByteIndex, true
	case 'd': // Direction
		return directionByteIndex, true
	}
	return 0, false
}

func (m ModeRecord) Mode() uint8       { return m[modeByteIndex] }
func (m ModeRecord) Speed() uint8      { return m[speedByteIndex] }
func (m ModeRecord) Brightness() uint8 { return m[brightnessByteIndex] }
func (m ModeRecord) Direction() uint8  { return m[directionByteIndex] }

// Color returns the color bytes of the record
func (m ModeRecord) Color() Color {
	return Color{
		R: m[colorByteIndex],
		G: m[colorByteIndex+1],
		B: m[colorByteIndex+2],
	}
}

// SetColor overwrites the color bytes of the record
func (m *ModeRecord) SetColor(c Color) {
	m[colorByteIndex] = c.R
	m[colorByteIndex+1] = c.G
	m[colorByteIndex+2] = c.B
}

// Applied reports whether the record carries the apply flag
func (m ModeRecord) Applied() bool {
	return m[applyByteIndex] == 1
}

func (m *ModeRecord) finalize() {
	m[applyByteIndex] = 1
}

// Bytes returns the wire form of the record
func (m ModeRecord) Bytes() []byte {
	buf := make([]byte, ModeRecordSize)
	copy(buf, m[:])
	return buf
}

// ZoneRecord sets the static color of the zones selected by Mask
type ZoneRecord struct {
	Mask  uint8
	Color Color
}

// zoneMask returns the mask for a 1-based zone index in [1, MaxZones]
func zoneMask(index uint8) uint8 {
	return 1 << (index - 1)
}

// Bytes returns the wire form of the record
func (z ZoneRecord) Bytes() []byte {
	return []byte{z.Mask, z.Color.R, z.Color.G, z.Color.B}
}
