package ui

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	domainErrors "github.com/childrens-bti/ticket-tracker-app/internal/errors"
	"github.com/childrens-bti/ticket-tracker-app/internal/fields"
	"github.com/childrens-bti/ticket-tracker-app/internal/i18n"
	"github.com/childrens-bti/ticket-tracker-app/internal/vcs/github"
)

var (
	// Colors for different message types
	Success = color.New(color.FgGreen, color.Bold)
	Error   = color.New(color.FgRed, color.Bold)
	Warning = color.New(color.FgYellow, color.Bold)
	Info    = color.New(color.FgCyan, color.Bold)
	Accent  = color.New(color.FgMagenta, color.Bold)
	Dim     = color.New(color.FgHiBlack)

	TicketEmoji  = "🎫"
	SuccessEmoji = Success.Sprint("✅")
	WarningEmoji = Warning.Sprint("⚠️")
	InfoEmoji    = Info.Sprint("ℹ️")
	RocketEmoji  = Accent.Sprint("🚀")
)

var activeSpinner *SmartSpinner
var suspendedSpinner *SmartSpinner

// SmartSpinner wraps a terminal spinner that can be suspended while the
// user answers a prompt.
type SmartSpinner struct {
	spinner *spinner.Spinner
}

func NewSmartSpinner(initialMessage string) *SmartSpinner {
	return NewSpinner().WithMessage(initialMessage).Build()
}

// Start starts the spinner and registers it as the globally active spinner.
func (s *SmartSpinner) Start() {
	activeSpinner = s
	s.spinner.Start()
}

func (s *SmartSpinner) Stop() {
	s.spinner.Stop()
	if activeSpinner == s {
		activeSpinner = nil
	}
	if suspendedSpinner == s {
		suspendedSpinner = nil
	}
}

func StopActiveSpinner() {
	if activeSpinner != nil {
		activeSpinner.Stop()
	}
}

// SuspendActiveSpinner stops the active spinner but keeps it around so
// ResumeSuspendedSpinner can start it again.
func SuspendActiveSpinner() {
	if activeSpinner != nil {
		suspendedSpinner = activeSpinner
		activeSpinner.spinner.Stop()
		activeSpinner = nil
	}
}

func ResumeSuspendedSpinner() {
	if suspendedSpinner != nil {
		activeSpinner = suspendedSpinner
		activeSpinner.spinner.Start()
		suspendedSpinner = nil
	}
}

func (s *SmartSpinner) UpdateMessage(msg string) {
	s.spinner.Suffix = " " + TicketEmoji + " " + msg
}

func (s *SmartSpinner) Success(msg string) {
	s.Stop()
	PrintSuccess(os.Stdout, msg)
}

func (s *SmartSpinner) Error(msg string) {
	s.Stop()
	PrintError(os.Stdout, msg)
}

func (s *SmartSpinner) Warning(msg string) {
	s.Stop()
	PrintWarning(os.Stdout, msg)
}

// SpinnerBuilder allows building spinners with flexible configuration
type SpinnerBuilder struct {
	message string
	charset int
	color   string
	speed   time.Duration
	writer  io.Writer
}

func NewSpinner() *SpinnerBuilder {
	return &SpinnerBuilder{
		charset: 14,
		color:   "cyan",
		speed:   100 * time.Millisecond,
	}
}

func (b *SpinnerBuilder) WithMessage(msg string) *SpinnerBuilder {
	b.message = msg
	return b
}

func (b *SpinnerBuilder) WithColor(color string) *SpinnerBuilder {
	b.color = color
	return b
}

func (b *SpinnerBuilder) WithSpeed(speed time.Duration) *SpinnerBuilder {
	b.speed = speed
	return b
}

func (b *SpinnerBuilder) WithCharset(charset int) *SpinnerBuilder {
	b.charset = charset
	return b
}

// WithWriter sends the spinner somewhere other than stdout.
func (b *SpinnerBuilder) WithWriter(w io.Writer) *SpinnerBuilder {
	b.writer = w
	return b
}

func (b *SpinnerBuilder) Build() *SmartSpinner {
	opts := []spinner.Option{
		spinner.WithColor(b.color),
		spinner.WithSuffix(" " + TicketEmoji + " " + b.message),
	}
	if b.writer != nil {
		opts = append(opts, spinner.WithWriter(b.writer))
	}
	return &SmartSpinner{spinner: spinner.New(spinner.CharSets[b.charset], b.speed, opts...)}
}

func PrintSuccess(w io.Writer, msg string) {
	_, _ = fmt.Fprintf(w, "%s %s\n", SuccessEmoji, Success.Sprint(msg))
}

func PrintError(w io.Writer, msg string) {
	_, _ = fmt.Fprintf(w, "%s %s\n", Error.Sprint("❌"), Error.Sprint(msg))
}

func PrintWarning(w io.Writer, msg string) {
	_, _ = fmt.Fprintf(w, "%s %s\n", WarningEmoji, Warning.Sprint(msg))
}

func PrintInfo(w io.Writer, msg string) {
	_, _ = fmt.Fprintf(w, "%s %s\n", InfoEmoji, Info.Sprint(msg))
}

func PrintSectionBanner(w io.Writer, title string) {
	separator := color.New(color.FgCyan).Sprint("━━━━━━━━━━━━━━━━━━━━━━━")
	_, _ = fmt.Fprintf(w, "\n%s\n", separator)
	_, _ = fmt.Fprintf(w, "%s %s\n", RocketEmoji, Accent.Sprint(title))
	_, _ = fmt.Fprintf(w, "%s\n\n", separator)
}

func PrintKeyValue(w io.Writer, key, value string) {
	keyColored := Dim.Sprint(key + ":")
	valueColored := color.New(color.FgWhite, color.Bold).Sprint(value)
	_, _ = fmt.Fprintf(w, "   %s %s\n", keyColored, valueColored)
}

// PrintList prints a header followed by one bullet per item.
func PrintList(w io.Writer, header string, items []string) {
	if len(items) == 0 {
		return
	}
	_, _ = fmt.Fprintf(w, "%s %s\n", WarningEmoji, Warning.Sprint(header))
	for _, item := range items {
		_, _ = fmt.Fprintf(w, "   • %s\n", item)
	}
}

// PrintValidationErrors lists the fields that block a submission.
func PrintValidationErrors(w io.Writer, verrs fields.ValidationErrors, t *i18n.Translations) {
	header := fmt.Sprintf("%d field(s) need attention before the ticket can be submitted:", len(verrs))
	if t != nil {
		header = t.GetMessage("validation_failed_header", len(verrs), map[string]interface{}{"Count": len(verrs)})
	}
	_, _ = fmt.Fprintf(w, "\n%s %s\n", Error.Sprint("❌"), Error.Sprint(header))
	for _, e := range verrs {
		name := e.Label
		if name == "" {
			name = e.FieldID
		}
		reason := e.Reason
		if reason == "" {
			reason = e.Outcome.String()
		}
		_, _ = fmt.Fprintf(w, "   • %s %s\n", color.New(color.FgWhite, color.Bold).Sprint(name), Dim.Sprintf("(%s)", reason))
	}
	_, _ = fmt.Fprintln(w)
}

// HandleAppError prints err in a friendly way. If translations is nil,
// English defaults are used.
func HandleAppError(err error, translations ...*i18n.Translations) {
	handleAppError(os.Stdout, err, translations...)
}

func handleAppError(w io.Writer, err error, translations ...*i18n.Translations) {
	if err == nil {
		return
	}

	var t *i18n.Translations
	if len(translations) > 0 && translations[0] != nil {
		t = translations[0]
	}

	var verrs fields.ValidationErrors
	if errors.As(err, &verrs) {
		PrintValidationErrors(w, verrs, t)
		return
	}

	var subErr *github.SubmissionError
	if errors.As(err, &subErr) && subErr.StatusCode != 0 {
		defer printResponseBody(w, subErr, t)
	}

	var appErr *domainErrors.AppError
	if errors.As(err, &appErr) {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintf(w, "%s\n", Error.Sprintf("❌ %s: %s", appErr.Type, appErr.Message))

		if appErr.Err != nil {
			_, _ = fmt.Fprintf(w, "%s\n", Dim.Sprintf("   Details: %v", appErr.Err))
		}
		if detail, ok := appErr.Context["detail"]; ok {
			_, _ = fmt.Fprintf(w, "%s\n", Dim.Sprintf("   %v", detail))
		}

		if appErr.Suggestion != "" {
			_, _ = fmt.Fprintln(w)
			tryPrefix := "💡 Try: "
			if t != nil {
				tryPrefix = t.GetMessage("ui_error.try_suggestion", 0, nil)
			}
			_, _ = fmt.Fprint(w, color.New(color.FgCyan).Sprint(tryPrefix))
			lines := strings.Split(appErr.Suggestion, "\n")
			for i, line := range lines {
				if i == 0 {
					_, _ = fmt.Fprintln(w, line)
				} else {
					_, _ = fmt.Fprintf(w, "       %s\n", line)
				}
			}
		}
		_, _ = fmt.Fprintln(w)
		return
	}

	PrintError(w, err.Error())
}

func printResponseBody(w io.Writer, subErr *github.SubmissionError, t *i18n.Translations) {
	if subErr.Body == "" {
		return
	}
	header := fmt.Sprintf("GitHub answered with status %d:", subErr.StatusCode)
	if t != nil {
		header = t.GetMessage("submission_failed_status", 0, map[string]interface{}{"Status": subErr.StatusCode})
	}
	_, _ = fmt.Fprintf(w, "%s\n%s\n\n", Dim.Sprint(header), subErr.Body)
}

func WithSpinner(message string, fn func() error) error {
	s := NewSmartSpinner(message)
	s.Start()

	if err := fn(); err != nil {
		s.Stop()
		return err
	}

	s.Stop()
	return nil
}
