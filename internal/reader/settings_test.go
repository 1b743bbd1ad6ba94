package reader

import (
	"errors"
	"testing"
)

func TestApply(t *testing.T) {
	base := Defaults()

	testCases := []struct {
		name  string
		start Settings
		cmd   Command
		value string
		check func(Settings) bool
	}{
		{"toggle play", base, CommandTogglePlay, "", func(s Settings) bool { return s.Playing }},
		{"toggle gesture", base, CommandToggleGesture, "", func(s Settings) bool { return s.GestureMode }},
		{"font larger", base, CommandFontLarger, "", func(s Settings) bool { return s.FontSize == 20 }},
		{"font smaller", base, CommandFontSmaller, "", func(s Settings) bool { return s.FontSize == 16 }},
		{"font larger clamps", Settings{FontSize: 32}, CommandFontLarger, "", func(s Settings) bool { return s.FontSize == 32 }},
		{"font smaller clamps", Settings{FontSize: 12}, CommandFontSmaller, "", func(s Settings) bool { return s.FontSize == 12 }},
		{"set font snaps to step", base, CommandSetFontSize, "21", func(s Settings) bool { return s.FontSize == 22 }},
		{"set font clamps high", base, CommandSetFontSize, "99", func(s Settings) bool { return s.FontSize == 32 }},
		{"word spacing clamps", base, CommandSetWordSpacing, "1.7", func(s Settings) bool { return s.WordSpacing == 1 }},
		{"word spacing set", base, CommandSetWordSpacing, "0.5", func(s Settings) bool { return s.WordSpacing == 0.5 }},
		{"volume clamps low", base, CommandSetVolume, "-5", func(s Settings) bool { return s.Volume == 0 }},
		{"volume set", base, CommandSetVolume, "42", func(s Settings) bool { return s.Volume == 42 }},
		{"progress clamps", base, CommandSetProgress, "150", func(s Settings) bool { return s.Progress == 100 }},
		{"speed", base, CommandSetSpeed, "very-fast", func(s Settings) bool { return s.Speed == SpeedVeryFast }},
		{"line spacing", base, CommandSetLineSpacing, "loose", func(s Settings) bool { return s.LineSpacing == LineSpacingLoose }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Apply(tc.start, tc.cmd, tc.value)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.check(got) {
				t.Errorf("unexpected settings: %+v", got)
			}
		})
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	s := Defaults()
	_, _ = Apply(s, CommandTogglePlay, "")
	if s.Playing {
		t.Error("Apply must not modify its argument")
	}
}

func TestApplyRejects(t *testing.T) {
	s := Defaults()

	if _, err := Apply(s, Command("rewind"), ""); !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("expected ErrUnknownCommand, got %v", err)
	}
	if _, err := Apply(s, CommandSetSpeed, "ludicrous"); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("expected ErrInvalidValue for bad speed, got %v", err)
	}
	for _, v := range []string{"", "abc", "18px", "NaN"} {
		got, err := Apply(s, CommandSetVolume, v)
		if err == nil {
			t.Errorf("expected error for volume %q", v)
		}
		if got != s {
			t.Errorf("rejected command changed settings for %q", v)
		}
	}
}
