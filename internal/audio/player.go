// Package audio invokes the operating system's audio player for generated
// speech files.
package audio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// ErrNoPlayer is returned when no usable system audio player is found.
var ErrNoPlayer = errors.New("no system audio player found")

// unixPlayers are probed in order on non-Windows systems.
var unixPlayers = []string{"aplay", "paplay", "afplay", "play"}

// Player runs a system audio player as a subprocess.
type Player struct {
	command string
	windows bool
}

// FindPlayer probes the system for an available audio player.
func FindPlayer() (*Player, error) {
	if runtime.GOOS == "windows" {
		if _, err := exec.LookPath("powershell"); err == nil {
			return &Player{command: "powershell", windows: true}, nil
		}
		return nil, ErrNoPlayer
	}

	for _, candidate := range unixPlayers {
		if _, err := exec.LookPath(candidate); err == nil {
			return &Player{command: candidate}, nil
		}
	}
	return nil, ErrNoPlayer
}

// Command returns the resolved player executable.
func (p *Player) Command() string {
	return p.command
}

// Play plays an audio file and waits for playback to finish. The context
// cancels playback.
func (p *Player) Play(ctx context.Context, path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("audio file not found: %w", err)
	}

	cmd := p.buildCommand(ctx, path)
	cmd.Stdout = nil
	cmd.Stderr = nil

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s failed: %w", p.command, err)
	}
	return nil
}

func (p *Player) buildCommand(ctx context.Context, path string) *exec.Cmd {
	if p.windows {
		script := fmt.Sprintf("(New-Object Media.SoundPlayer '%s').PlaySync()", path)
		return exec.CommandContext(ctx, p.command, "-c", script)
	}
	return exec.CommandContext(ctx, p.command, path)
}
