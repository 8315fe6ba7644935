// Package sinks hosts the fire-and-forget side-effect collaborators:
// audio cues keyed by event kind and spoken commentary. Real playback
// lives outside this module; these implementations log the cue so the
// engine's contract can be exercised end to end.
package sinks

import (
	"context"

	"github.com/okian/sportscast/internal/domain/model"
	"github.com/okian/sportscast/pkg/logger"
)

// LogAudioSink records audio cues on the debug log.
type LogAudioSink struct {
	Log logger.Logger
}

// Play emits one cue for the event kind.
func (s *LogAudioSink) Play(ctx context.Context, kind model.Kind) error {
	if s.Log != nil {
		s.Log.Debug(ctx, "audio cue", logger.String("kind", string(kind)))
	}
	return nil
}

// LogSpeechSink records spoken commentary on the debug log.
type LogSpeechSink struct {
	Log logger.Logger
}

// Speak emits the commentary line.
func (s *LogSpeechSink) Speak(ctx context.Context, text string) error {
	if s.Log != nil {
		s.Log.Debug(ctx, "speech", logger.String("text", text))
	}
	return nil
}
