package emails

import (
	"fmt"
	"strings"
	"time"
)

const (
	themePrimary = "#B45309"
	themeBgBody  = "#FAF7F2"
	themeWhite   = "#FFFFFF"
)

// EmailLayout wraps content in the trust's transactional email frame.
func EmailLayout(contentHTML string) string {
	year := time.Now().Year()
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Seva Trust</title>
  <style>
    body { margin: 0; padding: 0; width: 100%% !important; background-color: %s; }
    body, td, p, a { font-family: Georgia, 'Times New Roman', serif; color: #1F2937; }
    .content-body p { margin: 0 0 20px 0; font-size: 16px; line-height: 1.6; }
    .content-body h1 { color: %s; font-size: 22px; margin: 0 0 20px 0; }
  </style>
</head>
<body style="margin: 0; padding: 0; background-color: %s;">
  <table role="presentation" width="100%%" border="0" cellspacing="0" cellpadding="0">
    <tr>
      <td align="center" style="padding: 40px 0;">
        <table role="presentation" width="600" border="0" cellspacing="0" cellpadding="0" style="width: 600px; background-color: %s; border-radius: 8px;">
          <tr>
            <td align="center" style="padding: 36px 48px 12px 48px;">
              <h2 style="color: %s; margin: 0;">Seva Trust</h2>
            </td>
          </tr>
          <tr>
            <td class="content-body" style="padding: 12px 48px 30px 48px;">%s</td>
          </tr>
          <tr>
            <td align="center" style="padding: 0 48px 36px 48px;">
              <p style="font-size: 12px; color: #6B7280; margin: 0;">
                &copy; %d Seva Trust. Questions? Write to
                <a href="mailto:support@sevatrust.org">support@sevatrust.org</a>.
              </p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>`, themeBgBody, themePrimary, themeBgBody, themeWhite, themePrimary, contentHTML, year)
}

// EscapeHTML escapes user-provided strings interpolated into email HTML.
func EscapeHTML(s string) string {
	r := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
	)
	return r.Replace(s)
}
