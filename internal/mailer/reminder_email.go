// File: internal/mailer/reminder_email.go
package mailer

import (
	"fmt"
	"html/template"
	"strings"
)

// ReminderEmailData describes a nudge for a member who has not submitted a
// wishlist in a started group.
type ReminderEmailData struct {
	MemberName string
	GroupTitle string
	GroupCode  string
}

var reminderEmailTemplate = template.Must(template.New("reminderEmail").Parse(`<!DOCTYPE html>
<html>
<body style="margin:0;padding:0;background-color:#f4f4f7;font-family:Arial,Helvetica,sans-serif;">
  <div style="max-width:560px;margin:24px auto;background:#ffffff;border-radius:8px;overflow:hidden;">
    <div style="background:#14532d;color:#ffffff;padding:20px 28px;">
      <h1 style="margin:0;font-size:22px;">&#127876; Your wishlist is missing</h1>
    </div>
    <div style="padding:24px 28px;color:#333333;font-size:15px;line-height:1.6;">
      <p>Hi {{.MemberName}},</p>
      <p>The exchange in <strong>{{.GroupTitle}}</strong> has started but you have not submitted
      a wishlist yet. Nobody can be your Secret Santa until you do.</p>
      <p>Open the app, join code <strong>{{.GroupCode}}</strong>, and fill it in.</p>
      <p style="margin-top:24px;">See you there,<br>The Secret Santa elves</p>
    </div>
  </div>
</body>
</html>`))

// RenderReminderEmail produces the subject and bodies for a missing-wishlist
// reminder.
func RenderReminderEmail(data ReminderEmailData) (subject, htmlBody, textBody string, err error) {
	var b strings.Builder
	if err := reminderEmailTemplate.Execute(&b, data); err != nil {
		return "", "", "", fmt.Errorf("render reminder email: %w", err)
	}

	var t strings.Builder
	fmt.Fprintf(&t, "Hi %s,\n\n", data.MemberName)
	fmt.Fprintf(&t, "The exchange in %q has started but you have not submitted a wishlist yet.\n", data.GroupTitle)
	fmt.Fprintf(&t, "Open the app, join code %s, and fill it in.\n", data.GroupCode)

	subject = fmt.Sprintf("🎄 Reminder: submit your wishlist for %s", data.GroupTitle)
	return subject, b.String(), t.String(), nil
}
