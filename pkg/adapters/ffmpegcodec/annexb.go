package ffmpegcodec

import (
	"bytes"

	"github.com/Eyevinn/mp4ff/avc"
)

var (
	startCode4 = []byte{0, 0, 0, 1}
	audPrefix  = []byte{0, 0, 1, byte(avc.NALU_AUD)}
)

// auSplitter cuts an Annex B byte stream into access units at access unit delimiters.
type auSplitter struct {
	buf []byte
}

// push appends stream bytes and returns every access unit completed by them.
func (s *auSplitter) push(data []byte) [][]byte {
	s.buf = append(s.buf, data...)

	var units [][]byte
	for {
		cut := nextAUD(s.buf)
		if cut < 0 {
			break
		}
		units = append(units, append([]byte(nil), s.buf[:cut]...))
		s.buf = s.buf[cut:]
	}

	// Keep the pending unit at the front of the buffer.
	if len(units) > 0 {
		s.buf = append([]byte(nil), s.buf...)
	}
	return units
}

// flush returns the final, possibly incomplete, access unit.
func (s *auSplitter) flush() []byte {
	if len(s.buf) == 0 {
		return nil
	}
	last := s.buf
	s.buf = nil
	return last
}

// nextAUD returns the offset of the first delimiter start code that does not open buf,
// or -1 when there is none yet.
func nextAUD(buf []byte) int {
	if len(buf) < 2 {
		return -1
	}
	i := bytes.Index(buf[2:], audPrefix)
	if i < 0 {
		return -1
	}
	pos := i + 2
	if buf[pos-1] == 0 {
		pos--
	}
	return pos
}

// accessUnit is one access unit sorted into parameter sets and picture data.
type accessUnit struct {
	sps    [][]byte
	pps    [][]byte
	nalus  [][]byte // Everything except parameter sets, in stream order
	hasVCL bool
	isIDR  bool
}

func parseAccessUnit(data []byte) accessUnit {
	var au accessUnit
	for _, nalu := range avc.ExtractNalusFromByteStream(data) {
		if len(nalu) == 0 {
			continue
		}
		switch avc.GetNaluType(nalu[0]) {
		case avc.NALU_SPS:
			au.sps = append(au.sps, nalu)
		case avc.NALU_PPS:
			au.pps = append(au.pps, nalu)
		case avc.NALU_IDR:
			au.isIDR = true
			au.hasVCL = true
			au.nalus = append(au.nalus, nalu)
		case avc.NALU_NON_IDR:
			au.hasVCL = true
			au.nalus = append(au.nalus, nalu)
		default:
			au.nalus = append(au.nalus, nalu)
		}
	}
	return au
}

// annexB joins NAL units with four-byte start codes.
func annexB(groups ...[][]byte) []byte {
	size := 0
	for _, g := range groups {
		for _, n := range g {
			size += len(startCode4) + len(n)
		}
	}
	out := make([]byte, 0, size)
	for _, g := range groups {
		for _, n := range g {
			out = append(out, startCode4...)
			out = append(out, n...)
		}
	}
	return out
}
