// File: internal/mailer/wish_email.go
package mailer

import (
	"fmt"
	"html/template"
	"strings"
)

// WishEmailData carries everything the assignment email needs. SantaName is
// the member receiving the email; the remaining fields describe the wishlist
// they were assigned.
type WishEmailData struct {
	SantaName      string
	GroupTitle     string
	DisplayName    string
	FavoriteColor  string
	FavoriteSnacks string
	Hobbies        string
	ThingsLove     []string
	ThingsNoNeed   []string
}

var wishEmailTemplate = template.Must(template.New("wishEmail").Parse(`<!DOCTYPE html>
<html>
<body style="margin:0;padding:0;background-color:#f4f4f7;font-family:Arial,Helvetica,sans-serif;">
  <div style="max-width:560px;margin:24px auto;background:#ffffff;border-radius:8px;overflow:hidden;">
    <div style="background:#b3000c;color:#ffffff;padding:20px 28px;">
      <h1 style="margin:0;font-size:22px;">&#127877; Your Secret Santa Assignment</h1>
    </div>
    <div style="padding:24px 28px;color:#333333;font-size:15px;line-height:1.6;">
      <p>Hi {{.SantaName}},</p>
      <p>The wishlist below was submitted in <strong>{{.GroupTitle}}</strong> and you have been
      picked as its Secret Santa. Keep it to yourself!</p>
      <table style="width:100%;border-collapse:collapse;margin:16px 0;">
        <tr><td style="padding:6px 0;color:#888888;width:160px;">Goes by</td><td style="padding:6px 0;"><strong>{{.DisplayName}}</strong></td></tr>
        <tr><td style="padding:6px 0;color:#888888;">Favorite color</td><td style="padding:6px 0;">{{.FavoriteColor}}</td></tr>
        <tr><td style="padding:6px 0;color:#888888;">Favorite snacks</td><td style="padding:6px 0;">{{.FavoriteSnacks}}</td></tr>
        <tr><td style="padding:6px 0;color:#888888;">Hobbies</td><td style="padding:6px 0;">{{.Hobbies}}</td></tr>
      </table>
      {{if .ThingsLove}}<p style="margin-bottom:4px;"><strong>Things they would love:</strong></p>
      <ul style="margin-top:4px;">{{range .ThingsLove}}<li>{{.}}</li>{{end}}</ul>{{end}}
      {{if .ThingsNoNeed}}<p style="margin-bottom:4px;"><strong>Things they do not need:</strong></p>
      <ul style="margin-top:4px;">{{range .ThingsNoNeed}}<li>{{.}}</li>{{end}}</ul>{{end}}
      <p style="margin-top:24px;">Happy gifting!<br>The Secret Santa elves</p>
    </div>
  </div>
</body>
</html>`))

// RenderWishEmail produces the HTML and plain-text bodies plus the subject
// line for an assignment email.
func RenderWishEmail(data WishEmailData) (subject, htmlBody, textBody string, err error) {
	var b strings.Builder
	if err := wishEmailTemplate.Execute(&b, data); err != nil {
		return "", "", "", fmt.Errorf("render wish email: %w", err)
	}

	var t strings.Builder
	fmt.Fprintf(&t, "Hi %s,\n\n", data.SantaName)
	fmt.Fprintf(&t, "You have been picked as a Secret Santa in %q. Keep it to yourself!\n\n", data.GroupTitle)
	fmt.Fprintf(&t, "Goes by: %s\n", data.DisplayName)
	fmt.Fprintf(&t, "Favorite color: %s\n", data.FavoriteColor)
	fmt.Fprintf(&t, "Favorite snacks: %s\n", data.FavoriteSnacks)
	fmt.Fprintf(&t, "Hobbies: %s\n", data.Hobbies)
	if len(data.ThingsLove) > 0 {
		t.WriteString("\nThings they would love:\n")
		for _, item := range data.ThingsLove {
			fmt.Fprintf(&t, "  - %s\n", item)
		}
	}
	if len(data.ThingsNoNeed) > 0 {
		t.WriteString("\nThings they do not need:\n")
		for _, item := range data.ThingsNoNeed {
			fmt.Fprintf(&t, "  - %s\n", item)
		}
	}
	t.WriteString("\nHappy gifting!\n")

	subject = fmt.Sprintf("🎅 A Secret Santa wishlist is waiting for you in %s", data.GroupTitle)
	return subject, b.String(), t.String(), nil
}
