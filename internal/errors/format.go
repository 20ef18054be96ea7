package errors

import (
	"fmt"
	"log/slog"
	"strings"
)

// FormatForCLI formats an error for stderr.
// The first line carries the full message chain so a caller that only reads
// one line still sees the root cause.
func FormatForCLI(err error) string {
	if err == nil {
		return ""
	}

	var e *Error
	if !As(err, &e) {
		e = Wrap(ErrCodeInternal, err)
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Error: %s\n", messageChain(err)))

	if e.Suggestion != "" {
		sb.WriteString(fmt.Sprintf("  Hint: %s\n", e.Suggestion))
	}

	sb.WriteString(fmt.Sprintf("  Code: %s\n", e.Code))

	return sb.String()
}

// messageChain joins the messages of every *Error in the chain with ": ",
// ending with the first non-structured cause.
func messageChain(err error) string {
	var parts []string
	for err != nil {
		e, ok := err.(*Error)
		if !ok {
			parts = append(parts, err.Error())
			break
		}
		if len(parts) == 0 || parts[len(parts)-1] != e.Message {
			parts = append(parts, e.Message)
		}
		if e.Cause != nil && e.Cause.Error() == e.Message {
			break
		}
		err = e.Cause
	}
	return strings.Join(parts, ": ")
}

// LogAttrs returns slog attributes describing err.
func LogAttrs(err error) []any {
	if err == nil {
		return nil
	}

	var e *Error
	if !As(err, &e) {
		return []any{slog.String("error", err.Error())}
	}

	attrs := []any{
		slog.String("error_code", e.Code),
		slog.String("message", e.Message),
		slog.String("category", string(e.Category)),
	}
	if e.Cause != nil {
		attrs = append(attrs, slog.String("cause", e.Cause.Error()))
	}
	for k, v := range e.Details {
		attrs = append(attrs, slog.String("detail_"+k, v))
	}
	return attrs
}
