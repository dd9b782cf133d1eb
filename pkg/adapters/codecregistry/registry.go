// Package codecregistry discovers encoder implementations and selects one by codec family.
package codecregistry

import (
	"errors"
	"fmt"
	"strings"

	"github.com/user/yuvenc/pkg/adapters/ffmpegcodec"
	"github.com/user/yuvenc/pkg/adapters/rawcodec"
	"github.com/user/yuvenc/pkg/ports"
)

var (
	// ErrCodecUnavailable is returned when no encoder supports the requested mime type.
	ErrCodecUnavailable = errors.New("codecregistry: no encoder available")

	// ErrUnknownCodec is returned by CreateByName for an unregistered name.
	ErrUnknownCodec = errors.New("codecregistry: unknown codec")
)

// Factory creates a fresh codec instance.
type Factory func(logger ports.Logger) ports.Codec

type entry struct {
	info    ports.CodecInfo
	factory Factory
}

// Registry is a ports.CodecList of registered factories in preference order.
type Registry struct {
	entries []entry
	logger  ports.Logger
}

// Options configures the default registry.
type Options struct {
	// FFmpegPath is an optional custom path to the ffmpeg binary.
	FFmpegPath string
}

// New creates an empty registry.
func New(logger ports.Logger) *Registry {
	return &Registry{logger: logger}
}

// Default returns a registry with every encoder usable on this system.
//
// The ffmpeg H.264 encoder is registered only when an ffmpeg binary is found.
// The raw passthrough encoder is always registered.
func Default(opts Options, logger ports.Logger) *Registry {
	if opts.FFmpegPath != "" {
		ffmpegcodec.SetFFmpegPath(opts.FFmpegPath)
	}

	r := New(logger)
	if path, err := ffmpegcodec.FindFFmpeg(); err == nil {
		r.Register(ports.CodecInfo{
			Name:           ffmpegcodec.Name,
			IsEncoder:      true,
			SupportedTypes: []string{ports.MimeAVC},
			Description:    "libx264 via " + path,
		}, func(l ports.Logger) ports.Codec { return ffmpegcodec.New(l) })
	} else {
		logger.Debug("ffmpeg not found, H.264 encoding unavailable: %s", err)
	}

	r.Register(ports.CodecInfo{
		Name:           rawcodec.Name,
		IsEncoder:      true,
		SupportedTypes: []string{ports.MimeRaw},
		Description:    "NV12 passthrough",
	}, func(l ports.Logger) ports.Codec { return rawcodec.New(l) })

	return r
}

// Register appends a codec. Earlier registrations are preferred.
func (r *Registry) Register(info ports.CodecInfo, factory Factory) {
	r.entries = append(r.entries, entry{info: info, factory: factory})
}

// Codecs returns the registered codecs in preference order.
func (r *Registry) Codecs() []ports.CodecInfo {
	infos := make([]ports.CodecInfo, len(r.entries))
	for i, e := range r.entries {
		infos[i] = e.info
	}
	return infos
}

// CreateByName instantiates the named codec.
func (r *Registry) CreateByName(name string) (ports.Codec, error) {
	for _, e := range r.entries {
		if e.info.Name == name {
			return e.factory(r.logger), nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownCodec, name)
}

var _ ports.CodecList = (*Registry)(nil)

// SelectCodec returns the first encoder in list that supports mime. Decoders are skipped and
// mime types compare case-insensitively.
func SelectCodec(list ports.CodecList, mime string) (ports.CodecInfo, error) {
	for _, info := range list.Codecs() {
		if !info.IsEncoder {
			continue
		}
		for _, t := range info.SupportedTypes {
			if strings.EqualFold(t, mime) {
				return info, nil
			}
		}
	}
	return ports.CodecInfo{}, fmt.Errorf("%w: %s", ErrCodecUnavailable, mime)
}

// Open selects an encoder for mime and instantiates it.
func Open(list ports.CodecList, mime string) (ports.Codec, ports.CodecInfo, error) {
	info, err := SelectCodec(list, mime)
	if err != nil {
		return nil, ports.CodecInfo{}, err
	}
	codec, err := list.CreateByName(info.Name)
	if err != nil {
		return nil, info, fmt.Errorf("%w: %w", ErrCodecUnavailable, err)
	}
	return codec, info, nil
}
