package utils

import (
	"log/slog"

	"github.com/eiannone/keyboard"
)

type KeyAction int

const (
	ToggleMode KeyAction = iota
	MoreCars
	FewerCars
	SetLoad
	TogglePause
	Quit
)

// KeyCommand is a keyboard request. Level is only set for SetLoad.
type KeyCommand struct {
	Action KeyAction
	Level  int
}

// ParseKey maps a key press to a command:
//   - m toggles control mode, + and - change the active car count
//   - 0 to 6 set the passenger load, p pauses, q or Ctrl-C quits
func ParseKey(char rune, key keyboard.Key) (KeyCommand, bool) {
	if key == keyboard.KeyCtrlC {
		return KeyCommand{Action: Quit}, true
	}
	switch {
	case char == 'm' || char == 'M':
		return KeyCommand{Action: ToggleMode}, true
	case char == '+' || char == '=':
		return KeyCommand{Action: MoreCars}, true
	case char == '-' || char == '_':
		return KeyCommand{Action: FewerCars}, true
	case char >= '0' && char <= '6':
		return KeyCommand{Action: SetLoad, Level: int(char - '0')}, true
	case char == 'p' || char == 'P':
		return KeyCommand{Action: TogglePause}, true
	case char == 'q' || char == 'Q':
		return KeyCommand{Action: Quit}, true
	}
	return KeyCommand{}, false
}

// ReadKeys reads single key presses until quit is pressed or the terminal
// fails, sending each recognised command on cmdCh. It closes cmdCh on return.
func ReadKeys(cmdCh chan<- KeyCommand) {
	defer close(cmdCh)
	for {
		char, key, err := keyboard.GetSingleKey()
		if err != nil {
			slog.Error("Keyboard input failed", "error", err)
			return
		}
		cmd, ok := ParseKey(char, key)
		if !ok {
			continue
		}
		cmdCh <- cmd
		if cmd.Action == Quit {
			return
		}
	}
}
