// Package audio handles in-process decoding: resolving a clip's playable
// duration at import time and opening streams for the speaker output.
package audio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/vorbis"
	beepwav "github.com/faiface/beep/wav"
	gowav "github.com/go-audio/wav"
)

// ErrUnsupportedFormat marks files the decoder cannot handle. Import treats
// it as a per-file recoverable error: the file is skipped and reported,
// siblings in the same batch proceed.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

var audioExts = map[string]string{
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".flac": "audio/flac",
	".ogg":  "audio/ogg",
	".oga":  "audio/ogg",
}

// IsAudioFile reports whether the file name carries a supported extension.
func IsAudioFile(name string) bool {
	_, ok := audioExts[strings.ToLower(filepath.Ext(name))]
	return ok
}

// MimeTypeFor returns the mime type for a supported file name, or empty.
func MimeTypeFor(name string) string {
	return audioExts[strings.ToLower(filepath.Ext(name))]
}

// DecodeStream opens a seekable decoded stream for the given file. The name
// decides the decoder; the file position must be at the start.
func DecodeStream(f *os.File, name string) (beep.StreamSeekCloser, beep.Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".mp3":
		return mp3.Decode(f)
	case ".wav":
		return beepwav.Decode(f)
	case ".flac":
		return flac.Decode(f)
	case ".ogg", ".oga":
		return vorbis.Decode(f)
	}
	return nil, beep.Format{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(name))
}

// ProbeDuration resolves the playable duration of an audio file in seconds.
// WAV files are read at the container level without decoding samples; other
// formats go through their decoder.
func ProbeDuration(path string) (float64, error) {
	if !IsAudioFile(path) {
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	if strings.ToLower(filepath.Ext(path)) == ".wav" {
		d := gowav.NewDecoder(f)
		dur, err := d.Duration()
		if err != nil {
			return 0, fmt.Errorf("failed to read wav duration: %w", err)
		}
		return dur.Seconds(), nil
	}

	stream, format, err := DecodeStream(f, path)
	if err != nil {
		return 0, err
	}
	defer stream.Close()

	if stream.Len() <= 0 || format.SampleRate <= 0 {
		return 0, fmt.Errorf("%w: cannot determine length", ErrUnsupportedFormat)
	}
	return float64(stream.Len()) / float64(format.SampleRate), nil
}
