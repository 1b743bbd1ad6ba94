package reader

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Bounds of the adjustable reader controls.
const (
	MinFontSize     = 12
	MaxFontSize     = 32
	FontSizeStep    = 2
	DefaultFontSize = 18

	MinWordSpacing     = 0.0
	MaxWordSpacing     = 1.0
	DefaultWordSpacing = 0.25

	MaxVolume     = 100
	DefaultVolume = 70

	DefaultProgress = 35
)

// Speed is the narration pace.
type Speed string

const (
	SpeedSlow     Speed = "slow"
	SpeedNormal   Speed = "normal"
	SpeedFast     Speed = "fast"
	SpeedVeryFast Speed = "very-fast"
)

// LineSpacing is the paragraph density.
type LineSpacing string

const (
	LineSpacingCompact LineSpacing = "compact"
	LineSpacingNormal  LineSpacing = "normal"
	LineSpacingRelaxed LineSpacing = "relaxed"
	LineSpacingLoose   LineSpacing = "loose"
)

// Command names a single reader interaction.
type Command string

const (
	CommandTogglePlay     Command = "toggle_play"
	CommandFontLarger     Command = "font_larger"
	CommandFontSmaller    Command = "font_smaller"
	CommandSetFontSize    Command = "set_font_size"
	CommandSetWordSpacing Command = "set_word_spacing"
	CommandSetVolume      Command = "set_volume"
	CommandSetProgress    Command = "set_progress"
	CommandToggleGesture  Command = "toggle_gesture"
	CommandSetSpeed       Command = "set_speed"
	CommandSetLineSpacing Command = "set_line_spacing"
)

// Command errors.
var (
	ErrUnknownCommand = errors.New("unknown reader command")
	ErrInvalidValue   = errors.New("invalid command value")
)

// Settings is the reader view's state. Gesture mode is only a visual toggle.
type Settings struct {
	Playing     bool        `json:"playing"`
	FontSize    int         `json:"font_size" binding:"min=12,max=32"`
	WordSpacing float64     `json:"word_spacing" binding:"min=0,max=1"`
	Volume      int         `json:"volume" binding:"min=0,max=100"`
	Progress    int         `json:"progress" binding:"min=0,max=100"`
	GestureMode bool        `json:"gesture_mode"`
	Speed       Speed       `json:"speed" binding:"required,oneof=slow normal fast very-fast"`
	LineSpacing LineSpacing `json:"line_spacing" binding:"required,oneof=compact normal relaxed loose"`
}

// Defaults returns the settings a fresh reader view starts with.
func Defaults() Settings {
	return Settings{
		FontSize:    DefaultFontSize,
		WordSpacing: DefaultWordSpacing,
		Volume:      DefaultVolume,
		Progress:    DefaultProgress,
		Speed:       SpeedNormal,
		LineSpacing: LineSpacingNormal,
	}
}

// Apply returns s with cmd applied. Numeric values are clamped to their
// bounds; font sizes snap to the nearest step.
func Apply(s Settings, cmd Command, value string) (Settings, error) {
	next := s
	switch cmd {
	case CommandTogglePlay:
		next.Playing = !s.Playing
	case CommandToggleGesture:
		next.GestureMode = !s.GestureMode
	case CommandFontLarger:
		next.FontSize = snapFont(s.FontSize + FontSizeStep)
	case CommandFontSmaller:
		next.FontSize = snapFont(s.FontSize - FontSizeStep)
	case CommandSetFontSize:
		n, err := parseNumber(value)
		if err != nil {
			return s, err
		}
		next.FontSize = snapFont(int(math.Round(n)))
	case CommandSetWordSpacing:
		n, err := parseNumber(value)
		if err != nil {
			return s, err
		}
		next.WordSpacing = math.Min(MaxWordSpacing, math.Max(MinWordSpacing, n))
	case CommandSetVolume:
		n, err := parseNumber(value)
		if err != nil {
			return s, err
		}
		next.Volume = clampInt(int(math.Round(n)), 0, MaxVolume)
	case CommandSetProgress:
		n, err := parseNumber(value)
		if err != nil {
			return s, err
		}
		next.Progress = clampInt(int(math.Round(n)), 0, 100)
	case CommandSetSpeed:
		switch sp := Speed(value); sp {
		case SpeedSlow, SpeedNormal, SpeedFast, SpeedVeryFast:
			next.Speed = sp
		default:
			return s, fmt.Errorf("speed %q: %w", value, ErrInvalidValue)
		}
	case CommandSetLineSpacing:
		switch ls := LineSpacing(value); ls {
		case LineSpacingCompact, LineSpacingNormal, LineSpacingRelaxed, LineSpacingLoose:
			next.LineSpacing = ls
		default:
			return s, fmt.Errorf("line spacing %q: %w", value, ErrInvalidValue)
		}
	default:
		return s, ErrUnknownCommand
	}
	return next, nil
}

func parseNumber(value string) (float64, error) {
	n, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, fmt.Errorf("number %q: %w", value, ErrInvalidValue)
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, fmt.Errorf("number %q: %w", value, ErrInvalidValue)
	}
	return n, nil
}

func snapFont(size int) int {
	size = clampInt(size, MinFontSize, MaxFontSize)
	offset := size - MinFontSize
	snapped := MinFontSize + int(math.Round(float64(offset)/FontSizeStep))*FontSizeStep
	return clampInt(snapped, MinFontSize, MaxFontSize)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
