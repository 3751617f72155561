package helpers

import (
	"net/url"
	"strings"
)

// MailtoLink builds the link behind the "send a message" button on a listing:
// the landlord's address with a "Regarding <listing>" subject and the
// visitor's message as body.
func MailtoLink(recipient, listingName, message string) string {
	query := "subject=" + mailtoEscape("Regarding "+listingName)
	if body := strings.TrimSpace(message); body != "" {
		query += "&body=" + mailtoEscape(body)
	}
	return "mailto:" + recipient + "?" + query
}

// mail clients do not decode '+' as a space
func mailtoEscape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
