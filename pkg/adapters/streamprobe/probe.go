// Package streamprobe inspects encoded video files: raw H.264 elementary streams and, for
// comparison, MP4 containers.
package streamprobe

import (
	"bytes"
	"errors"
	"fmt"
	"sort"

	"github.com/Eyevinn/mp4ff/avc"
	"github.com/Eyevinn/mp4ff/mp4"
)

// Format is the detected file layout.
type Format string

const (
	FormatAnnexB  Format = "h264-annexb"
	FormatMP4     Format = "mp4"
	FormatUnknown Format = "unknown"
)

// ErrUnknownFormat is returned for data that is neither an Annex B stream nor an MP4 file.
var ErrUnknownFormat = errors.New("streamprobe: unknown format")

// NALUCount is one row of the NAL unit histogram.
type NALUCount struct {
	Type  avc.NaluType
	Count int
}

// Report summarizes a probed file.
type Report struct {
	Format Format
	Bytes  int

	// Annex B
	AccessUnits int // Access unit delimiters
	Pictures    int // Coded slices
	IDRFrames   int
	NALUs       []NALUCount // Sorted by NAL unit type
	Width       int         // From the first SPS
	Height      int
	Profile     int
	Level       int

	// MP4
	Codec string // Sample entry type of the first video track, e.g. "avc1"
}

// Probe detects the format of data and summarizes it.
func Probe(data []byte) (Report, error) {
	switch DetectFormat(data) {
	case FormatAnnexB:
		return probeAnnexB(data)
	case FormatMP4:
		return probeMP4(data)
	default:
		return Report{Format: FormatUnknown, Bytes: len(data)}, ErrUnknownFormat
	}
}

// DetectFormat looks at the first bytes of data.
func DetectFormat(data []byte) Format {
	if bytes.HasPrefix(data, []byte{0, 0, 0, 1}) || bytes.HasPrefix(data, []byte{0, 0, 1}) {
		return FormatAnnexB
	}
	if len(data) >= 8 && string(data[4:8]) == "ftyp" {
		return FormatMP4
	}
	return FormatUnknown
}

func probeAnnexB(data []byte) (Report, error) {
	r := Report{Format: FormatAnnexB, Bytes: len(data)}
	counts := make(map[avc.NaluType]int)

	for _, nalu := range avc.ExtractNalusFromByteStream(data) {
		if len(nalu) == 0 {
			continue
		}
		t := avc.GetNaluType(nalu[0])
		counts[t]++

		switch t {
		case avc.NALU_AUD:
			r.AccessUnits++
		case avc.NALU_IDR:
			r.IDRFrames++
			r.Pictures++
		case avc.NALU_NON_IDR:
			r.Pictures++
		case avc.NALU_SPS:
			if r.Width == 0 {
				sps, err := avc.ParseSPSNALUnit(nalu, false)
				if err != nil {
					return r, fmt.Errorf("parse SPS: %w", err)
				}
				r.Width = int(sps.Width)
				r.Height = int(sps.Height)
				r.Profile = int(sps.Profile)
				r.Level = int(sps.Level)
			}
		}
	}

	for t, n := range counts {
		r.NALUs = append(r.NALUs, NALUCount{Type: t, Count: n})
	}
	sort.Slice(r.NALUs, func(i, j int) bool { return r.NALUs[i].Type < r.NALUs[j].Type })
	return r, nil
}

func probeMP4(data []byte) (Report, error) {
	r := Report{Format: FormatMP4, Bytes: len(data)}

	file, err := mp4.DecodeFile(bytes.NewReader(data))
	if err != nil {
		return r, fmt.Errorf("decode mp4: %w", err)
	}

	var traks []*mp4.TrakBox
	if file.IsFragmented() && file.Init != nil && file.Init.Moov != nil {
		traks = append(traks, file.Init.Moov.Traks...)
	}
	if file.Moov != nil {
		traks = append(traks, file.Moov.Traks...)
	}

	for _, trak := range traks {
		if codec := videoSampleEntry(trak); codec != "" {
			r.Codec = codec
			return r, nil
		}
	}
	return r, fmt.Errorf("no video track found")
}

func videoSampleEntry(trak *mp4.TrakBox) string {
	if trak.Mdia == nil || trak.Mdia.Hdlr == nil || trak.Mdia.Hdlr.HandlerType != "vide" {
		return ""
	}
	if trak.Mdia.Minf == nil || trak.Mdia.Minf.Stbl == nil || trak.Mdia.Minf.Stbl.Stsd == nil {
		return ""
	}
	if entries := trak.Mdia.Minf.Stbl.Stsd.Children; len(entries) > 0 {
		return entries[0].Type()
	}
	return ""
}
