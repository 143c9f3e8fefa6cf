// Package imap implements zalert.AlertSource against an IMAP mailbox using
// the go-imap client.
package imap

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
	"github.com/emersion/go-message/mail"
	"github.com/kmathews/zalert"
)

// DefaultMailbox is selected when Config.Mailbox is empty.
const DefaultMailbox = "INBOX"

// Config carries the connection settings for a Source.
type Config struct {
	// Addr is the IMAP server address with port, e.g. "imap.gmail.com:993".
	Addr     string
	Username string
	Password string

	// Mailbox to select. Defaults to DefaultMailbox.
	Mailbox string

	// Sender restricts the unread search to messages from this address.
	// Empty fetches all unread messages in the mailbox.
	Sender string
}

// Source fetches listing-alert messages over IMAP. It holds one connection;
// callers Open it before use and Close it when done.
type Source struct {
	cfg    Config
	client *imapclient.Client
}

// NewSource returns an unconnected Source for the given mailbox settings.
func NewSource(cfg Config) *Source {
	if cfg.Mailbox == "" {
		cfg.Mailbox = DefaultMailbox
	}
	return &Source{cfg: cfg}
}

// Open dials the server over TLS, logs in, and selects the mailbox.
func (s *Source) Open(ctx context.Context) error {
	if s.cfg.Addr == "" {
		return zalert.Errorf(zalert.EINVALID, "imap address required")
	}
	if s.cfg.Username == "" || s.cfg.Password == "" {
		return zalert.Errorf(zalert.EINVALID, "imap credentials required")
	}

	client, err := imapclient.DialTLS(s.cfg.Addr, nil)
	if err != nil {
		return zalert.Errorf(zalert.EUNAVAILABLE, "imap dial %s: %v", s.cfg.Addr, err)
	}
	if err := client.Login(s.cfg.Username, s.cfg.Password).Wait(); err != nil {
		client.Close()
		return zalert.Errorf(zalert.EUNAVAILABLE, "imap login: %v", err)
	}
	if _, err := client.Select(s.cfg.Mailbox, nil).Wait(); err != nil {
		client.Close()
		return zalert.Errorf(zalert.EUNAVAILABLE, "imap select %s: %v", s.cfg.Mailbox, err)
	}
	s.client = client
	return nil
}

// Close logs out and drops the connection. Safe to call when never opened.
func (s *Source) Close() error {
	if s.client == nil {
		return nil
	}
	defer s.client.Close()
	if err := s.client.Logout().Wait(); err != nil {
		return zalert.Errorf(zalert.EINTERNAL, "imap logout: %v", err)
	}
	return nil
}

// FetchUnread implements zalert.AlertSource. It returns the decoded HTML body
// of every unread message matching the sender filter, oldest first. Messages
// without an HTML part are skipped.
func (s *Source) FetchUnread(ctx context.Context) ([]zalert.Alert, error) {
	if s.client == nil {
		return nil, zalert.Errorf(zalert.EINTERNAL, "imap source not opened")
	}

	criteria := &imap.SearchCriteria{
		NotFlag: []imap.Flag{imap.FlagSeen},
	}
	if s.cfg.Sender != "" {
		criteria.Header = []imap.SearchCriteriaHeaderField{
			{Key: "From", Value: s.cfg.Sender},
		}
	}

	search, err := s.client.UIDSearch(criteria, nil).Wait()
	if err != nil {
		return nil, zalert.Errorf(zalert.EUNAVAILABLE, "imap search: %v", err)
	}
	uids := search.AllUIDs()
	if len(uids) == 0 {
		return nil, nil
	}

	var uidSet imap.UIDSet
	uidSet.AddNum(uids...)

	fetchOptions := &imap.FetchOptions{
		UID:         true,
		Envelope:    true,
		BodySection: []*imap.FetchItemBodySection{{}},
	}
	msgs, err := s.client.Fetch(uidSet, fetchOptions).Collect()
	if err != nil {
		return nil, zalert.Errorf(zalert.EUNAVAILABLE, "imap fetch: %v", err)
	}

	var alerts []zalert.Alert
	for _, msg := range msgs {
		raw := msg.FindBodySection(&imap.FetchItemBodySection{})
		if len(raw) == 0 {
			continue
		}
		html, err := HTMLBody(raw)
		if err != nil || html == "" {
			continue
		}
		var subject string
		if msg.Envelope != nil {
			subject = msg.Envelope.Subject
		}
		alerts = append(alerts, zalert.Alert{
			HTML:     html,
			Subject:  subject,
			UID:      uint32(msg.UID),
			BodyHash: BodyHash(html),
		})
	}
	return alerts, nil
}

// MarkProcessed implements zalert.AlertSource by adding the \Seen flag.
func (s *Source) MarkProcessed(ctx context.Context, uid uint32) error {
	if s.client == nil {
		return zalert.Errorf(zalert.EINTERNAL, "imap source not opened")
	}
	store := &imap.StoreFlags{
		Op:     imap.StoreFlagsAdd,
		Flags:  []imap.Flag{imap.FlagSeen},
		Silent: true,
	}
	if err := s.client.Store(imap.UIDSetNum(imap.UID(uid)), store, nil).Close(); err != nil {
		return zalert.Errorf(zalert.EUNAVAILABLE, "imap store uid %d: %v", uid, err)
	}
	return nil
}

// HTMLBody extracts the decoded text/html part from a raw RFC 5322 message.
// It returns the first HTML part found, or "" when the message carries none.
// Also used by the CLI to read saved .eml files.
func HTMLBody(raw []byte) (string, error) {
	mr, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil {
		return "", zalert.Errorf(zalert.EINVALID, "parse message: %v", err)
	}

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		} else if err != nil {
			return "", zalert.Errorf(zalert.EINVALID, "read message part: %v", err)
		}

		header, ok := part.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}
		contentType, _, err := header.ContentType()
		if err != nil {
			continue
		}
		if !strings.EqualFold(contentType, "text/html") {
			continue
		}
		body, err := io.ReadAll(part.Body)
		if err != nil {
			return "", zalert.Errorf(zalert.EINVALID, "read html part: %v", err)
		}
		return string(body), nil
	}
	return "", nil
}

// BodyHash returns the content hash used to deduplicate alert bodies.
func BodyHash(html string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(html))
}
