package worker

import (
	"fmt"
	"os/exec"
)

// ExecSpeaker shells out to a TTS command (espeak-ng, say, ...) with the
// utterance as its argument.
type ExecSpeaker struct {
	Command string
	Args    []string
}

func (s ExecSpeaker) Speak(text string) error {
	if s.Command == "" {
		return fmt.Errorf("no tts command configured")
	}
	args := append(append([]string(nil), s.Args...), text)
	cmd := exec.Command(s.Command, args...)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("tts command failed: %w", err)
	}
	return nil
}
