package audio

import (
	"bytes"
	"fmt"
)

// MPEG audio versions as coded in frame header.
const (
	mpeg25 = 0
	mpeg2  = 2
	mpeg1  = 3
)

// MPEG layers as coded in frame header.
const (
	layer3 = 1
	layer2 = 2
	layer1 = 3
)

// kbps, index 0 is free format and 15 is invalid
var bitrates = map[[2]int][16]int{
	{mpeg1, layer1}: {0, 32, 64, 96, 128, 160, 192, 224, 256, 288, 320, 352, 384, 416, 448, -1},
	{mpeg1, layer2}: {0, 32, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, 384, -1},
	{mpeg1, layer3}: {0, 32, 40, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, -1},
	{mpeg2, layer1}: {0, 32, 48, 56, 64, 80, 96, 112, 128, 144, 160, 176, 192, 224, 256, -1},
	{mpeg2, layer2}: {0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160, -1},
	{mpeg2, layer3}: {0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160, -1},
}

var sampleRates = map[int][3]int{
	mpeg1:  {44100, 48000, 32000},
	mpeg2:  {22050, 24000, 16000},
	mpeg25: {11025, 12000, 8000},
}

type frameHeader struct {
	version, layer int
	bitrate        int // bits per second
	sampleRate     int
	padding        int
}

func parseFrameHeader(b []byte) (frameHeader, bool) {
	if len(b) < 4 || b[0] != 0xFF || b[1]&0xE0 != 0xE0 {
		return frameHeader{}, false
	}
	h := frameHeader{
		version: int(b[1]>>3) & 3,
		layer:   int(b[1]>>1) & 3,
		padding: int(b[2]>>1) & 1,
	}
	if h.version == 1 || h.layer == 0 {
		return frameHeader{}, false
	}
	tableVersion := h.version
	if tableVersion == mpeg25 {
		tableVersion = mpeg2
	}
	br := bitrates[[2]int{tableVersion, h.layer}][b[2]>>4]
	srIdx := int(b[2]>>2) & 3
	if br <= 0 || srIdx == 3 {
		return frameHeader{}, false
	}
	h.bitrate = br * 1000
	h.sampleRate = sampleRates[h.version][srIdx]
	return h, true
}

func (h frameHeader) samples() int {
	switch {
	case h.layer == layer1:
		return 384
	case h.layer == layer3 && h.version != mpeg1:
		return 576
	}
	return 1152
}

func (h frameHeader) length() int {
	if h.layer == layer1 {
		return (12*h.bitrate/h.sampleRate + h.padding) * 4
	}
	return h.samples()/8*h.bitrate/h.sampleRate + h.padding
}

// id3v2Size returns size of ID3v2 tag at the start of data, 0 when there is
// none.
func id3v2Size(data []byte) int {
	if len(data) < 10 || !bytes.HasPrefix(data, []byte("ID3")) {
		return 0
	}
	size := int(data[6]&0x7F)<<21 | int(data[7]&0x7F)<<14 | int(data[8]&0x7F)<<7 | int(data[9]&0x7F)
	size += 10
	if data[5]&0x10 != 0 {
		size += 10
	}
	return size
}

// Duration walks MPEG frames of the data and sums their durations. Data
// between frames is skipped, data without a single pair of consecutive
// frames (or single frame filling the whole data) is not mp3.
func Duration(data []byte) (float64, error) {
	pos := id3v2Size(data)
	var (
		seconds float64
		frames  int
		synced  bool
	)
	for pos+4 <= len(data) {
		if bytes.HasPrefix(data[pos:], []byte("TAG")) && len(data)-pos == 128 {
			break
		}
		h, ok := parseFrameHeader(data[pos:])
		if !ok {
			pos++
			continue
		}
		next := pos + h.length()
		if next > len(data) {
			break
		}
		// accept frame when it is followed by another one or ends the data
		if _, ok := parseFrameHeader(data[next:]); !ok && next != len(data) && !synced {
			pos++
			continue
		}
		synced = true
		frames++
		seconds += float64(h.samples()) / float64(h.sampleRate)
		pos = next
	}
	if frames == 0 {
		return 0, fmt.Errorf("%w: no audio frames", ErrInvalidAudio)
	}
	return seconds, nil
}
