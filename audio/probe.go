// Package audio reads facts about narration files: duration and content
// checksum.
package audio

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"time"

	"github.com/h2non/filetype"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"sbc/common"
)

// ErrInvalidAudio is returned for files which are not mp3.
var ErrInvalidAudio = errors.New("not a valid mp3 file")

// Info describes audio file.
type Info struct {
	// Duration in seconds.
	Duration float64
	// MD5 is hex encoded checksum of the file content.
	MD5 string
}

// FormatDuration formats seconds the way they are stored in the book.
func FormatDuration(d float64) string {
	return strconv.FormatFloat(d, 'f', 6, 64)
}

// Prober reads audio file facts.
type Prober interface {
	Probe(ctx context.Context, path string) (Info, error)
}

// NewProber returns prober of the kind wrapped into results cache. Cache is
// keyed by path, size and modification time so edited files are probed
// again.
func NewProber(kind common.AudioProbe, ffprobe string, ttl time.Duration, log *zap.Logger) Prober {
	var p Prober = FrameScanner{}
	if kind == common.AudioProbeFfprobe {
		p = &FFProbe{Path: ffprobe}
	}
	if ttl <= 0 {
		return p
	}
	return &cachedProber{
		next:  p,
		cache: cache.New(ttl, 2*ttl),
		log:   log.Named("audio"),
	}
}

type cachedProber struct {
	next  Prober
	cache *cache.Cache
	log   *zap.Logger
}

func (c *cachedProber) Probe(ctx context.Context, path string) (Info, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return Info{}, err
	}
	key := fmt.Sprintf("%s|%d|%d", path, fi.Size(), fi.ModTime().UnixNano())
	if v, ok := c.cache.Get(key); ok {
		return v.(Info), nil
	}
	info, err := c.next.Probe(ctx, path)
	if err != nil {
		return Info{}, err
	}
	c.log.Debug("Audio probed", zap.String("path", path), zap.Float64("duration", info.Duration))
	c.cache.Set(key, info, cache.DefaultExpiration)
	return info, nil
}

func checksum(data []byte) string {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}

// sniff rejects content recognized as some other file type.
func sniff(data []byte) error {
	kind, err := filetype.Match(data)
	if err != nil || kind == filetype.Unknown || kind.Extension == "mp3" {
		return nil
	}
	return fmt.Errorf("%w: content is %s", ErrInvalidAudio, kind.MIME.Value)
}

// FrameScanner computes duration by walking MPEG audio frames.
type FrameScanner struct{}

func (FrameScanner) Probe(ctx context.Context, path string) (Info, error) {
	if err := ctx.Err(); err != nil {
		return Info{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Info{}, err
	}
	if err := sniff(data); err != nil {
		return Info{}, err
	}
	d, err := Duration(data)
	if err != nil {
		return Info{}, err
	}
	return Info{Duration: d, MD5: checksum(data)}, nil
}

// FFProbe asks external ffprobe program.
type FFProbe struct {
	Path string
}

type ffprobeOutput struct {
	Format struct {
		Name     string `json:"format_name"`
		Duration string `json:"duration"`
	} `json:"format"`
}

func (p *FFProbe) Probe(ctx context.Context, path string) (Info, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Info{}, err
	}
	if err := sniff(data); err != nil {
		return Info{}, err
	}

	cmd := exec.CommandContext(ctx, p.Path,
		"-v", "error",
		"-show_entries", "format=format_name,duration",
		"-of", "json",
		path,
	)
	out, err := cmd.Output()
	if err != nil {
		return Info{}, fmt.Errorf("%w: ffprobe failed: %w", ErrInvalidAudio, err)
	}
	var probe ffprobeOutput
	if err := json.Unmarshal(out, &probe); err != nil {
		return Info{}, fmt.Errorf("unable to parse ffprobe output: %w", err)
	}
	if probe.Format.Name != "mp3" {
		return Info{}, fmt.Errorf("%w: format is %q", ErrInvalidAudio, probe.Format.Name)
	}
	d, err := strconv.ParseFloat(probe.Format.Duration, 64)
	if err != nil {
		return Info{}, fmt.Errorf("%w: bad duration %q", ErrInvalidAudio, probe.Format.Duration)
	}
	return Info{Duration: d, MD5: checksum(data)}, nil
}
