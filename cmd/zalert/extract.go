package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kmathews/zalert"
	"github.com/kmathews/zalert/imap"
)

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	var alerts []zalert.Alert
	for _, path := range c.Paths {
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		html := string(raw)
		if isMessage(raw) {
			html, err = imap.HTMLBody(raw)
			if err != nil {
				return fmt.Errorf("parse %s: %w", path, err)
			}
			if html == "" {
				fmt.Fprintf(deps.Stderr, "%s: no HTML part, skipping\n", path)
				continue
			}
		}

		alerts = append(alerts, zalert.Alert{
			HTML:     html,
			Subject:  filepath.Base(path),
			BodyHash: imap.BodyHash(html),
		})
	}

	if c.Digest {
		for _, alert := range alerts {
			md, err := deps.Converter.Convert(alert.HTML)
			if err != nil {
				return fmt.Errorf("render %s: %w", alert.Subject, err)
			}
			fmt.Fprintf(deps.Stdout, "# %s\n\n%s\n", alert.Subject, md)
		}
		return nil
	}

	listings, err := deps.Extractor.ExtractAll(alerts)
	if err != nil {
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(listings)
	}

	if len(listings) == 0 {
		fmt.Fprintln(deps.Stdout, "No listings found.")
		return nil
	}
	for _, l := range listings {
		address := l.Address
		if address == "" {
			address = "(no address)"
		}
		fmt.Fprintf(deps.Stdout, "%s  $%s  %s  %s\n", l.ZPID, formatPrice(l.Price), address, l.URL)
	}
	return nil
}

// isMessage reports whether raw looks like an RFC 5322 message rather than a
// bare HTML body.
func isMessage(raw []byte) bool {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	return !bytes.HasPrefix(trimmed, []byte("<"))
}
