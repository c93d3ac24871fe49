// File: internal/mailer/wish_email_test.go
package mailer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderWishEmail(t *testing.T) {
	subject, htmlBody, textBody, err := RenderWishEmail(WishEmailData{
		SantaName:      "Alice",
		GroupTitle:     "Family",
		DisplayName:    "Bob",
		FavoriteColor:  "green",
		FavoriteSnacks: "pretzels",
		Hobbies:        "chess",
		ThingsLove:     []string{"books", "coffee"},
		ThingsNoNeed:   []string{"candles"},
	})
	require.NoError(t, err)

	assert.Contains(t, subject, "Family")
	for _, want := range []string{"Alice", "Bob", "green", "pretzels", "chess", "books", "coffee", "candles"} {
		assert.Contains(t, htmlBody, want)
		assert.Contains(t, textBody, want)
	}
}

func TestRenderWishEmail_EscapesHTMLInput(t *testing.T) {
	_, htmlBody, _, err := RenderWishEmail(WishEmailData{
		SantaName:      "Alice",
		GroupTitle:     "Family",
		DisplayName:    `<script>alert("x")</script>`,
		FavoriteColor:  "green",
		FavoriteSnacks: "pretzels",
		Hobbies:        "chess",
	})
	require.NoError(t, err)
	assert.NotContains(t, htmlBody, "<script>")
}

func TestRenderWishEmail_OmitsEmptyLists(t *testing.T) {
	_, htmlBody, textBody, err := RenderWishEmail(WishEmailData{
		SantaName:      "Alice",
		GroupTitle:     "Family",
		DisplayName:    "Bob",
		FavoriteColor:  "green",
		FavoriteSnacks: "pretzels",
		Hobbies:        "chess",
	})
	require.NoError(t, err)
	assert.NotContains(t, htmlBody, "Things they would love")
	assert.NotContains(t, textBody, "Things they would love")
}

func TestRenderReminderEmail(t *testing.T) {
	subject, htmlBody, textBody, err := RenderReminderEmail(ReminderEmailData{
		MemberName: "Carol",
		GroupTitle: "Family",
		GroupCode:  "AB12CD",
	})
	require.NoError(t, err)
	assert.Contains(t, subject, "Family")
	assert.Contains(t, htmlBody, "Carol")
	assert.Contains(t, htmlBody, "AB12CD")
	assert.Contains(t, textBody, "AB12CD")
}

func TestSMTPMailer_EncodeMultipart(t *testing.T) {
	m := &SMTPMailer{from: "santa@example.com", fromName: "Secret Santa"}
	raw := string(m.encode(Message{
		To:      "alice@example.com",
		Subject: "Hello",
		HTML:    "<p>hi</p>",
		Text:    "hi",
	}))

	assert.True(t, strings.HasPrefix(raw, "From: "))
	assert.Contains(t, raw, "To: alice@example.com")
	assert.Contains(t, raw, "multipart/alternative")
	assert.Contains(t, raw, "text/plain")
	assert.Contains(t, raw, "text/html")
	assert.Contains(t, raw, "<p>hi</p>")
}
