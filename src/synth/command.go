package synth

import (
	"fmt"
	"strconv"
)

// update executes one control command. This is the text surface the REPL and
// the command channel speak; every branch validates before mutating.
func (e *Engine) update(command []string) error {
	if len(command) == 0 {
		return fmt.Errorf("empty command")
	}
	switch command[0] {
	case "note_on":
		if len(command) < 2 || len(command) > 3 {
			return fmt.Errorf("usage: note_on <note> [velocity]")
		}
		note, err := strconv.ParseInt(command[1], 10, 32)
		if err != nil {
			return err
		}
		velocity := int64(100)
		if len(command) == 3 {
			velocity, err = strconv.ParseInt(command[2], 10, 32)
			if err != nil {
				return err
			}
		}
		return e.NoteOn(int(note), int(velocity))
	case "note_off":
		if len(command) != 2 {
			return fmt.Errorf("usage: note_off <note>")
		}
		note, err := strconv.ParseInt(command[1], 10, 32)
		if err != nil {
			return err
		}
		return e.NoteOff(int(note))
	case "stop":
		e.StopAll()
		return nil
	case "set":
		if len(command) != 3 {
			return fmt.Errorf("usage: set <path> <value>")
		}
		if command[1] == "synthesis.wave" {
			e.SetWave(command[2])
			return nil
		}
		value, err := strconv.ParseFloat(command[2], 64)
		if err != nil {
			return err
		}
		return e.SetParameter(command[1], value)
	case "preset_load":
		if len(command) != 2 {
			return fmt.Errorf("usage: preset_load <name>")
		}
		return e.LoadPreset(command[1])
	case "preset_save":
		if len(command) != 2 {
			return fmt.Errorf("usage: preset_save <name>")
		}
		return e.SavePreset(command[1])
	default:
		return fmt.Errorf("unknown command %v", command[0])
	}
}
