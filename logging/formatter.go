package logging

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
)

var (
	componentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	levelStyles    = map[logrus.Level]lipgloss.Style{
		logrus.WarnLevel:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		logrus.ErrorLevel: lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		logrus.FatalLevel: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		logrus.PanicLevel: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	}
)

// TextFormatter renders entries as
// "<time> [LEVEL] [component] message key=value ...".
type TextFormatter struct {
	Config FormatConfig
}

// Format renders a single log entry.
func (f *TextFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b strings.Builder

	if !f.Config.DisableTimestamp {
		b.WriteString(entry.Time.Format("2006-01-02 15:04:05"))
		b.WriteString(" ")
	}

	levelStr := entry.Level.String()
	if levelStr == "warning" {
		levelStr = "warn"
	}
	level := "[" + strings.ToUpper(levelStr) + "]"
	if style, ok := levelStyles[entry.Level]; ok {
		level = style.Render(level)
	}
	b.WriteString(level)

	if component, ok := entry.Data["component"]; ok && !f.Config.DisableComponent {
		b.WriteString(" [" + componentStyle.Render(fmt.Sprint(component)) + "]")
	}

	if entry.HasCaller() {
		fmt.Fprintf(&b, " [%s:%d %s]",
			filepath.Base(entry.Caller.File), entry.Caller.Line, filepath.Base(entry.Caller.Function))
	}

	b.WriteString(" ")
	b.WriteString(entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for key := range entry.Data {
		if key != "component" {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	for _, key := range keys {
		b.WriteString(" " + key + "=" + formatValue(entry.Data[key]))
	}

	b.WriteString("\n")
	return []byte(b.String()), nil
}

// formatValue quotes values that would otherwise split into several fields,
// such as game names with spaces.
func formatValue(v interface{}) string {
	s := fmt.Sprint(v)
	if s == "" || strings.ContainsAny(s, " \t\n\"=") {
		return fmt.Sprintf("%q", s)
	}
	return s
}
