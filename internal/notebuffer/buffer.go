// Package notebuffer implements the structure-of-arrays note storage (C4):
// a fixed-capacity, track-ordered buffer with a stable id-to-slot mapping and
// a binary frame serializer consumed by the renderer.
package notebuffer

import (
	"encoding/binary"
	"math"
)

// MaxNotes is the fixed capacity of the buffer.
const MaxNotes = 2048

const (
	frameMagic       uint32 = 0x544E4D44 // "DMNT" little-endian
	frameHeaderBytes        = 24
)

// MessageType classifies the most salient change a buffer mutation produced,
// and doubles as the wire msg_type byte in a serialized frame.
type MessageType uint8

const (
	MessageSync MessageType = iota
	MessageAdd
	MessageFinalize
	MessageCleanup
	MessageClear
)

// Layout carries the per-track visual parameters a new note inherits at
// allocation time. Colors are linear; Buffer re-companded them to sRGB only
// at serialization.
type Layout struct {
	TrackIndex      float32
	TrackX          float32
	TrackBottomY    float32
	Width           float32
	ColorTop        [3]float32
	ColorBottom     [3]float32
	OpacityTop      float32
	OpacityBottom   float32
	BorderRadius    float32
	GlowSize        float32
	GlowOpacityTop  float32
	GlowOpacityBot  float32
	GlowColorTop    [3]float32
	GlowColorBottom [3]float32
}

// Buffer is the structure-of-arrays note store. The zero value is not usable;
// construct with New.
type Buffer struct {
	noteInfo         []float32 // 3n: start_ms, end_ms, x
	noteSize         []float32 // 2n: width, track_bottom_y
	noteColorTop     []float32 // 4n: r,g,b,a (linear)
	noteColorBottom  []float32 // 4n
	noteRadius       []float32 // n
	trackIndex       []float32 // n
	noteGlow         []float32 // 3n: size, top_alpha, bottom_alpha
	noteGlowColorTop []float32 // 3n
	noteGlowColorBot []float32 // 3n
	noteIDByIndex    []uint64  // n

	indexByNoteID map[uint64]int
	keyByNoteID   map[uint64]string

	activeCount int
	version     uint32
}

// New allocates a zeroed buffer at full capacity.
func New() *Buffer {
	return &Buffer{
		noteInfo:         make([]float32, MaxNotes*3),
		noteSize:         make([]float32, MaxNotes*2),
		noteColorTop:     make([]float32, MaxNotes*4),
		noteColorBottom:  make([]float32, MaxNotes*4),
		noteRadius:       make([]float32, MaxNotes),
		trackIndex:       make([]float32, MaxNotes),
		noteGlow:         make([]float32, MaxNotes*3),
		noteGlowColorTop: make([]float32, MaxNotes*3),
		noteGlowColorBot: make([]float32, MaxNotes*3),
		noteIDByIndex:    make([]uint64, MaxNotes),
		indexByNoteID:    make(map[uint64]int),
		keyByNoteID:      make(map[uint64]string),
	}
}

// ActiveCount returns the number of live entries.
func (b *Buffer) ActiveCount() int { return b.activeCount }

// Version returns the current wrapping mutation counter.
func (b *Buffer) Version() uint32 { return b.version }

// Allocate finds the leftmost slot whose existing track index is strictly
// greater than layout.TrackIndex (or active_count, if none), shifts the
// tail right by one, and writes the new entry. Returns the slot index, or
// -1 if the buffer is at capacity.
func (b *Buffer) Allocate(noteID uint64, trackKey string, startTimeMs float32, layout Layout) int {
	if b.activeCount >= MaxNotes {
		return -1
	}

	insertIndex := b.activeCount
	for i := 0; i < b.activeCount; i++ {
		if b.trackIndex[i] > layout.TrackIndex {
			insertIndex = i
			break
		}
	}

	oldCount := b.activeCount
	if insertIndex < oldCount {
		shiftRight3(b.noteInfo, insertIndex, oldCount)
		shiftRight2(b.noteSize, insertIndex, oldCount)
		shiftRight4(b.noteColorTop, insertIndex, oldCount)
		shiftRight4(b.noteColorBottom, insertIndex, oldCount)
		shiftRight1f(b.noteRadius, insertIndex, oldCount)
		shiftRight1f(b.trackIndex, insertIndex, oldCount)
		shiftRight3(b.noteGlow, insertIndex, oldCount)
		shiftRight3(b.noteGlowColorTop, insertIndex, oldCount)
		shiftRight3(b.noteGlowColorBot, insertIndex, oldCount)
		shiftRight1u(b.noteIDByIndex, insertIndex, oldCount)

		for i := insertIndex + 1; i <= oldCount; i++ {
			movedID := b.noteIDByIndex[i]
			if movedID != 0 {
				b.indexByNoteID[movedID] = i
			}
		}
	}

	b.activeCount = oldCount + 1

	infoOff := insertIndex * 3
	b.noteInfo[infoOff] = startTimeMs
	b.noteInfo[infoOff+1] = 0
	b.noteInfo[infoOff+2] = layout.TrackX

	sizeOff := insertIndex * 2
	b.noteSize[sizeOff] = layout.Width
	b.noteSize[sizeOff+1] = layout.TrackBottomY

	colorOff := insertIndex * 4
	b.noteColorTop[colorOff] = layout.ColorTop[0]
	b.noteColorTop[colorOff+1] = layout.ColorTop[1]
	b.noteColorTop[colorOff+2] = layout.ColorTop[2]
	b.noteColorTop[colorOff+3] = layout.OpacityTop

	b.noteColorBottom[colorOff] = layout.ColorBottom[0]
	b.noteColorBottom[colorOff+1] = layout.ColorBottom[1]
	b.noteColorBottom[colorOff+2] = layout.ColorBottom[2]
	b.noteColorBottom[colorOff+3] = layout.OpacityBottom

	b.noteRadius[insertIndex] = layout.BorderRadius
	b.trackIndex[insertIndex] = layout.TrackIndex

	glowOff := insertIndex * 3
	b.noteGlow[glowOff] = layout.GlowSize
	b.noteGlow[glowOff+1] = layout.GlowOpacityTop
	b.noteGlow[glowOff+2] = layout.GlowOpacityBot

	b.noteGlowColorTop[glowOff] = layout.GlowColorTop[0]
	b.noteGlowColorTop[glowOff+1] = layout.GlowColorTop[1]
	b.noteGlowColorTop[glowOff+2] = layout.GlowColorTop[2]

	b.noteGlowColorBot[glowOff] = layout.GlowColorBottom[0]
	b.noteGlowColorBot[glowOff+1] = layout.GlowColorBottom[1]
	b.noteGlowColorBot[glowOff+2] = layout.GlowColorBottom[2]

	b.noteIDByIndex[insertIndex] = noteID
	b.indexByNoteID[noteID] = insertIndex
	b.keyByNoteID[noteID] = trackKey
	b.version++
	return insertIndex
}

// Finalize writes end_time_ms for the note's slot. Returns -1 on unknown id.
func (b *Buffer) Finalize(noteID uint64, endTimeMs float32) int {
	index, ok := b.indexByNoteID[noteID]
	if !ok {
		return -1
	}
	b.noteInfo[index*3+1] = endTimeMs
	b.version++
	return index
}

// Release left-shifts the tail over the freed slot, zeroes the newly-empty
// tail entry, and removes the id from both maps. Returns -1 on unknown id.
func (b *Buffer) Release(noteID uint64) int {
	index, ok := b.indexByNoteID[noteID]
	if !ok {
		return -1
	}
	if b.activeCount == 0 {
		return -1
	}
	last := b.activeCount - 1

	if index < last {
		next := index + 1
		shiftLeft3(b.noteInfo, next, b.activeCount, index)
		shiftLeft2(b.noteSize, next, b.activeCount, index)
		shiftLeft4(b.noteColorTop, next, b.activeCount, index)
		shiftLeft4(b.noteColorBottom, next, b.activeCount, index)
		shiftLeft1f(b.noteRadius, next, b.activeCount, index)
		shiftLeft1f(b.trackIndex, next, b.activeCount, index)
		shiftLeft3(b.noteGlow, next, b.activeCount, index)
		shiftLeft3(b.noteGlowColorTop, next, b.activeCount, index)
		shiftLeft3(b.noteGlowColorBot, next, b.activeCount, index)
		shiftLeft1u(b.noteIDByIndex, next, b.activeCount, index)

		for i := index; i < last; i++ {
			movedID := b.noteIDByIndex[i]
			if movedID != 0 {
				b.indexByNoteID[movedID] = i
			}
		}
	}

	b.noteIDByIndex[last] = 0
	delete(b.indexByNoteID, noteID)
	delete(b.keyByNoteID, noteID)
	b.activeCount = last

	zeroRange(b.noteInfo, last*3, 3)
	zeroRange(b.noteSize, last*2, 2)
	zeroRange(b.noteColorTop, last*4, 4)
	zeroRange(b.noteColorBottom, last*4, 4)
	b.noteRadius[last] = 0
	b.trackIndex[last] = 0
	zeroRange(b.noteGlow, last*3, 3)
	zeroRange(b.noteGlowColorTop, last*3, 3)
	zeroRange(b.noteGlowColorBot, last*3, 3)

	b.version++
	return index
}

// IDAtIndex returns the note id stored at a live slot, or 0 if out of range.
func (b *Buffer) IDAtIndex(index int) uint64 {
	if index < 0 || index >= b.activeCount {
		return 0
	}
	return b.noteIDByIndex[index]
}

// EndTimeAtIndex returns the end_time_ms field of a live slot.
func (b *Buffer) EndTimeAtIndex(index int) float32 {
	return b.noteInfo[index*3+1]
}

// Clear zeroes every array, clears both maps, and resets active_count to 0.
func (b *Buffer) Clear() {
	b.activeCount = 0
	b.version++
	for k := range b.indexByNoteID {
		delete(b.indexByNoteID, k)
	}
	for k := range b.keyByNoteID {
		delete(b.keyByNoteID, k)
	}
	for i := range b.noteIDByIndex {
		b.noteIDByIndex[i] = 0
	}
	zeroAll(b.noteInfo)
	zeroAll(b.noteSize)
	zeroAll(b.noteColorTop)
	zeroAll(b.noteColorBottom)
	zeroAll(b.noteRadius)
	zeroAll(b.trackIndex)
	zeroAll(b.noteGlow)
	zeroAll(b.noteGlowColorTop)
	zeroAll(b.noteGlowColorBot)
}

// SerializeActive produces a self-describing frame: a 24-byte header
// followed by the concatenated SoA arrays for exactly active_count entries,
// with note_color_top/bottom's RGB components inverse-companded from linear
// to sRGB (alpha stays linear).
func (b *Buffer) SerializeActive(msgType MessageType) []byte {
	active := b.activeCount
	if active > MaxNotes {
		active = MaxNotes
	}
	bodyBytes := active * 24 * 4
	out := make([]byte, 0, frameHeaderBytes+bodyBytes)

	var hdr [frameHeaderBytes]byte
	binary.LittleEndian.PutUint32(hdr[0:4], frameMagic)
	hdr[4] = byte(msgType)
	binary.LittleEndian.PutUint32(hdr[8:12], b.version)
	binary.LittleEndian.PutUint32(hdr[12:16], uint32(active))
	binary.LittleEndian.PutUint32(hdr[16:20], uint32(MaxNotes))
	out = append(out, hdr[:]...)

	if active == 0 {
		return out
	}

	out = appendF32(out, b.noteInfo[:active*3])
	out = appendF32(out, b.noteSize[:active*2])
	out = appendF32(out, companded(b.noteColorTop[:active*4]))
	out = appendF32(out, companded(b.noteColorBottom[:active*4]))
	out = appendF32(out, b.noteRadius[:active])
	out = appendF32(out, b.noteGlow[:active*3])
	out = appendF32(out, b.noteGlowColorTop[:active*3])
	out = appendF32(out, b.noteGlowColorBot[:active*3])
	out = appendF32(out, b.trackIndex[:active])

	return out
}

// companded returns a copy of an RGBA-quad slice with the RGB components
// inverse-sRGB-companded; alpha (every 4th value) passes through unchanged.
func companded(rgba []float32) []float32 {
	out := make([]float32, len(rgba))
	for i := 0; i < len(rgba); i += 4 {
		out[i] = linearToSRGB(rgba[i])
		out[i+1] = linearToSRGB(rgba[i+1])
		out[i+2] = linearToSRGB(rgba[i+2])
		out[i+3] = rgba[i+3]
	}
	return out
}

func linearToSRGB(c float32) float32 {
	if c <= 0.0031308 {
		return c * 12.92
	}
	return float32(1.055*math.Pow(float64(c), 1.0/2.4) - 0.055)
}

func appendF32(dst []byte, values []float32) []byte {
	for _, v := range values {
		var buf [4]byte
		binary.LittleEndian.PutUint32(buf[:], math.Float32bits(v))
		dst = append(dst, buf[:]...)
	}
	return dst
}

func shiftRight1f(s []float32, insert, oldCount int) {
	copy(s[insert+1:oldCount+1], s[insert:oldCount])
}
func shiftRight1u(s []uint64, insert, oldCount int) {
	copy(s[insert+1:oldCount+1], s[insert:oldCount])
}
func shiftRight2(s []float32, insert, oldCount int) {
	copy(s[(insert+1)*2:(oldCount+1)*2], s[insert*2:oldCount*2])
}
func shiftRight3(s []float32, insert, oldCount int) {
	copy(s[(insert+1)*3:(oldCount+1)*3], s[insert*3:oldCount*3])
}
func shiftRight4(s []float32, insert, oldCount int) {
	copy(s[(insert+1)*4:(oldCount+1)*4], s[insert*4:oldCount*4])
}

func shiftLeft1f(s []float32, next, activeCount, index int) {
	copy(s[index:activeCount], s[next:activeCount])
}
func shiftLeft1u(s []uint64, next, activeCount, index int) {
	copy(s[index:activeCount], s[next:activeCount])
}
func shiftLeft2(s []float32, next, activeCount, index int) {
	copy(s[index*2:activeCount*2], s[next*2:activeCount*2])
}
func shiftLeft3(s []float32, next, activeCount, index int) {
	copy(s[index*3:activeCount*3], s[next*3:activeCount*3])
}
func shiftLeft4(s []float32, next, activeCount, index int) {
	copy(s[index*4:activeCount*4], s[next*4:activeCount*4])
}

func zeroRange(s []float32, offset, n int) {
	for i := offset; i < offset+n; i++ {
		s[i] = 0
	}
}

func zeroAll(s []float32) {
	for i := range s {
		s[i] = 0
	}
}
