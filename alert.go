package zalert

import "context"

// Alert is the raw text of one listing-alert message body.
type Alert struct {
	// HTML is the decoded message body. Extraction operates on this text
	// and nothing else.
	HTML string

	// Subject labels the alert in logs and diagnostics. It plays no part
	// in extraction.
	Subject string

	// UID identifies the source message to the mailbox, so the caller can
	// mark it processed after extraction. Zero for alerts that did not
	// come from a mailbox (e.g. a saved file).
	UID uint32

	// BodyHash is a content hash of HTML, filled in by the alert source.
	// The pipeline uses it to skip bodies it has already processed.
	BodyHash string
}

// AlertSource supplies unread alert messages from a mailbox.
type AlertSource interface {
	// FetchUnread returns the decoded bodies of all unread alert
	// messages, oldest first.
	FetchUnread(ctx context.Context) ([]Alert, error)

	// MarkProcessed flags a message as seen so it is not fetched again.
	MarkProcessed(ctx context.Context, uid uint32) error
}

// Converter renders an alert body as a readable digest.
type Converter interface {
	// Convert transforms alert HTML into Markdown. The digest is for human
	// review only; extraction never reads it.
	Convert(html string) (string, error)
}

// AlertLog records which alert bodies have been processed, keyed by body
// hash. It guards against re-delivered messages whose unread flags were
// reset.
type AlertLog interface {
	// LogAlert records a processed alert body and how many listings it
	// yielded.
	LogAlert(ctx context.Context, bodyHash, subject string, listings int) error

	// SeenAlert reports whether a body hash has been logged before.
	SeenAlert(ctx context.Context, bodyHash string) (bool, error)
}
