package robot

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidCommand       = errors.New("invalid command")
	ErrInvalidColor         = errors.New("invalid color")
	ErrInvalidBatteryAction = errors.New("invalid battery action")
)

// Command is a drive or mode command accepted by POST /move.
type Command string

const (
	Forward        Command = "forward"
	Backward       Command = "backward"
	Left           Command = "left"
	Right          Command = "right"
	Stop           Command = "stop"
	SwitchToAuto   Command = "switch_to_auto"
	SwitchToManual Command = "switch_to_manual"
)

// AllCommands returns every command the controller understands.
func AllCommands() []Command {
	return []Command{Forward, Backward, Left, Right, Stop, SwitchToAuto, SwitchToManual}
}

func (c Command) Valid() bool {
	for _, cmd := range AllCommands() {
		if cmd == c {
			return true
		}
	}
	return false
}

// ParseCommand converts user input into a Command.
func ParseCommand(s string) (Command, error) {
	c := Command(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCommand, s)
	}
	return c, nil
}

// Color is an indicator color accepted by POST /color.
type Color string

const (
	Red    Color = "red"
	Yellow Color = "yellow"
	Blue   Color = "blue"
	Green  Color = "green"
	Purple Color = "purple"
)

// AllColors returns every indicator color.
func AllColors() []Color {
	return []Color{Red, Yellow, Blue, Green, Purple}
}

func (c Color) Valid() bool {
	for _, color := range AllColors() {
		if color == c {
			return true
		}
	}
	return false
}

// ParseColor converts user input into a Color.
func ParseColor(s string) (Color, error) {
	c := Color(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return c, nil
}

// BatteryAction selects how the controller resets its charge estimate.
type BatteryAction string

const (
	ResetToFull         BatteryAction = "reset_to_full"
	ResetBasedOnVoltage BatteryAction = "reset_based_on_voltage"
)

// AllBatteryActions returns every battery reset action.
func AllBatteryActions() []BatteryAction {
	return []BatteryAction{ResetToFull, ResetBasedOnVoltage}
}

func (a BatteryAction) Valid() bool {
	return a == ResetToFull || a == ResetBasedOnVoltage
}

// ParseBatteryAction converts user input into a BatteryAction.
func ParseBatteryAction(s string) (BatteryAction, error) {
	a := BatteryAction(strings.ToLower(strings.TrimSpace(s)))
	if !a.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidBatteryAction, s)
	}
	return a, nil
}
