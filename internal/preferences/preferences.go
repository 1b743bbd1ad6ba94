package preferences

import (
	"errors"
	"fmt"

	"github.com/stemsi/folio-backend/internal/reader"
)

// Voice is the narration voice.
type Voice string

const (
	VoiceFemale1 Voice = "female1"
	VoiceFemale2 Voice = "female2"
	VoiceMale1   Voice = "male1"
	VoiceMale2   Voice = "male2"
)

// Language is an ISO 639-1 code from the supported set.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageSpanish Language = "es"
	LanguageFrench  Language = "fr"
	LanguageGerman  Language = "de"
	LanguageHindi   Language = "hi"
	LanguageArabic  Language = "ar"
)

// Command names a single preferences interaction.
type Command string

const (
	CommandToggleVoiceNavigation    Command = "toggle_voice_navigation"
	CommandToggleGestureControl     Command = "toggle_gesture_control"
	CommandToggleHighContrast       Command = "toggle_high_contrast"
	CommandToggleScreenReader       Command = "toggle_screen_reader"
	CommandToggleSentimentAdaptive  Command = "toggle_sentiment_adaptive"
	CommandToggleAutoTranslate      Command = "toggle_auto_translate"
	CommandToggleReadingReminders   Command = "toggle_reading_reminders"
	CommandToggleAchievementNotices Command = "toggle_achievement_notifications"
	CommandToggleQuizNotifications  Command = "toggle_quiz_notifications"
	CommandToggleUsageAnalytics     Command = "toggle_usage_analytics"
	CommandToggleCameraAccess       Command = "toggle_camera_access"
	CommandSetVoice                 Command = "set_voice"
	CommandSetAppLanguage           Command = "set_app_language"
	CommandSetReadingLanguage       Command = "set_reading_language"
	CommandSetFontSize              Command = "set_font_size"
	CommandSetSpeed                 Command = "set_speed"
	CommandSetLineSpacing           Command = "set_line_spacing"
	CommandSetVolume                Command = "set_volume"
)

// ErrUnknownCommand is returned for a command Apply does not know.
var ErrUnknownCommand = errors.New("unknown preferences command")

// Preferences are the learner's app-wide settings. They are held by the
// client; toggles only record the choice, no feature behind them runs here.
type Preferences struct {
	VoiceNavigation          bool `json:"voice_navigation"`
	GestureControl           bool `json:"gesture_control"`
	HighContrast             bool `json:"high_contrast"`
	ScreenReader             bool `json:"screen_reader"`
	SentimentAdaptive        bool `json:"sentiment_adaptive"`
	AutoTranslate            bool `json:"auto_translate"`
	ReadingReminders         bool `json:"reading_reminders"`
	AchievementNotifications bool `json:"achievement_notifications"`
	QuizNotifications        bool `json:"quiz_notifications"`
	UsageAnalytics           bool `json:"usage_analytics"`
	CameraAccess             bool `json:"camera_access"`

	Voice           Voice              `json:"voice" binding:"required,oneof=female1 female2 male1 male2"`
	AppLanguage     Language           `json:"app_language" binding:"required,oneof=en es fr de hi ar"`
	ReadingLanguage Language           `json:"reading_language" binding:"required,oneof=en es fr de hi ar"`
	FontSize        int                `json:"font_size" binding:"min=12,max=32"`
	Speed           reader.Speed       `json:"speed" binding:"required,oneof=slow normal fast very-fast"`
	LineSpacing     reader.LineSpacing `json:"line_spacing" binding:"required,oneof=compact normal relaxed loose"`
	Volume          int                `json:"volume" binding:"min=0,max=100"`
}

// Defaults returns the preferences of a new learner.
func Defaults() Preferences {
	rd := reader.Defaults()
	return Preferences{
		VoiceNavigation:          true,
		GestureControl:           true,
		ScreenReader:             true,
		SentimentAdaptive:        true,
		AutoTranslate:            true,
		ReadingReminders:         true,
		AchievementNotifications: true,
		UsageAnalytics:           true,
		CameraAccess:             true,
		Voice:                    VoiceFemale1,
		AppLanguage:              LanguageEnglish,
		ReadingLanguage:          LanguageEnglish,
		FontSize:                 rd.FontSize,
		Speed:                    rd.Speed,
		LineSpacing:              rd.LineSpacing,
		Volume:                   rd.Volume,
	}
}

// ReaderDefaults returns the reader settings a book opens with under p.
func (p Preferences) ReaderDefaults() reader.Settings {
	s := reader.Defaults()
	s.FontSize = p.FontSize
	s.Speed = p.Speed
	s.LineSpacing = p.LineSpacing
	s.Volume = p.Volume
	s.GestureMode = p.GestureControl
	return s
}

// readerCommands maps the reading-default commands onto the reader's own.
var readerCommands = map[Command]reader.Command{
	CommandSetFontSize:    reader.CommandSetFontSize,
	CommandSetSpeed:       reader.CommandSetSpeed,
	CommandSetLineSpacing: reader.CommandSetLineSpacing,
	CommandSetVolume:      reader.CommandSetVolume,
}

// Apply returns p with cmd applied. Reading defaults follow the same
// clamping as the reader view. Invalid values wrap reader.ErrInvalidValue.
func Apply(p Preferences, cmd Command, value string) (Preferences, error) {
	next := p
	switch cmd {
	case CommandToggleVoiceNavigation:
		next.VoiceNavigation = !p.VoiceNavigation
	case CommandToggleGestureControl:
		next.GestureControl = !p.GestureControl
	case CommandToggleHighContrast:
		next.HighContrast = !p.HighContrast
	case CommandToggleScreenReader:
		next.ScreenReader = !p.ScreenReader
	case CommandToggleSentimentAdaptive:
		next.SentimentAdaptive = !p.SentimentAdaptive
	case CommandToggleAutoTranslate:
		next.AutoTranslate = !p.AutoTranslate
	case CommandToggleReadingReminders:
		next.ReadingReminders = !p.ReadingReminders
	case CommandToggleAchievementNotices:
		next.AchievementNotifications = !p.AchievementNotifications
	case CommandToggleQuizNotifications:
		next.QuizNotifications = !p.QuizNotifications
	case CommandToggleUsageAnalytics:
		next.UsageAnalytics = !p.UsageAnalytics
	case CommandToggleCameraAccess:
		next.CameraAccess = !p.CameraAccess
	case CommandSetVoice:
		switch v := Voice(value); v {
		case VoiceFemale1, VoiceFemale2, VoiceMale1, VoiceMale2:
			next.Voice = v
		default:
			return p, fmt.Errorf("voice %q: %w", value, reader.ErrInvalidValue)
		}
	case CommandSetAppLanguage, CommandSetReadingLanguage:
		lang, err := parseLanguage(value)
		if err != nil {
			return p, err
		}
		if cmd == CommandSetAppLanguage {
			next.AppLanguage = lang
		} else {
			next.ReadingLanguage = lang
		}
	case CommandSetFontSize, CommandSetSpeed, CommandSetLineSpacing, CommandSetVolume:
		rs, err := reader.Apply(p.ReaderDefaults(), readerCommands[cmd], value)
		if err != nil {
			return p, err
		}
		next.FontSize = rs.FontSize
		next.Speed = rs.Speed
		next.LineSpacing = rs.LineSpacing
		next.Volume = rs.Volume
	default:
		return p, ErrUnknownCommand
	}
	return next, nil
}

func parseLanguage(value string) (Language, error) {
	switch l := Language(value); l {
	case LanguageEnglish, LanguageSpanish, LanguageFrench, LanguageGerman, LanguageHindi, LanguageArabic:
		return l, nil
	}
	return "", fmt.Errorf("language %q: %w", value, reader.ErrInvalidValue)
}
