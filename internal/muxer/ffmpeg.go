// Package muxer merges split DASH tracks with an external ffmpeg binary.
package muxer

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/famomatic/bilidown/internal/types"
)

// Muxer combines one video and one audio file.
type Muxer interface {
	Available() bool
	Merge(ctx context.Context, videoPath, audioPath, outputPath string, meta types.Metadata) error
}

// FFmpegMuxer stream-copies both inputs into one container.
type FFmpegMuxer struct {
	Path string
	// KeepInputs leaves the split track files in place after a successful merge.
	KeepInputs bool
}

// NewFFmpegMuxer looks up "ffmpeg" in PATH when path is empty.
func NewFFmpegMuxer(path string) *FFmpegMuxer {
	if path == "" {
		path = "ffmpeg"
	}
	return &FFmpegMuxer{Path: path}
}

func (f *FFmpegMuxer) Available() bool {
	_, err := exec.LookPath(f.Path)
	return err == nil
}

func (f *FFmpegMuxer) Merge(ctx context.Context, videoPath, audioPath, outputPath string, meta types.Metadata) error {
	cmd := exec.CommandContext(ctx, f.Path, mergeArgs(videoPath, audioPath, outputPath, meta)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg merge failed: %w: %s", err, lastLine(stderr.String()))
	}
	if !f.KeepInputs {
		_ = os.Remove(videoPath)
		_ = os.Remove(audioPath)
	}
	return nil
}

func mergeArgs(videoPath, audioPath, outputPath string, meta types.Metadata) []string {
	args := []string{
		"-hide_banner", "-loglevel", "error",
		"-i", videoPath,
		"-i", audioPath,
		"-map", "0:v:0", "-map", "1:a:0",
		"-c", "copy",
	}
	if meta.Title != "" {
		args = append(args, "-metadata", "title="+meta.Title)
	}
	if meta.Artist != "" {
		args = append(args, "-metadata", "artist="+meta.Artist)
	}
	if meta.Description != "" {
		args = append(args, "-metadata", "comment="+meta.Description)
	}
	return append(args, "-y", outputPath)
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return lines[len(lines)-1]
}
