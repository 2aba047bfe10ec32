package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

const resetOTPSubject = "Password Reset OTP - FindMyRoom"

var resetOTPHTML = template.Must(template.New("reset_otp").Parse(`
<div style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto;">
  <div style="background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); padding: 30px; text-align: center;">
    <h1 style="color: white; margin: 0;">Password Reset Request</h1>
  </div>
  <div style="padding: 30px; background-color: #f9f9f9;">
    <p style="font-size: 16px;">Hello,</p>
    <p style="font-size: 16px;">You requested to reset your password. Use the OTP below to proceed:</p>
    <div style="background-color: white; padding: 20px; border-radius: 10px; text-align: center; margin: 30px 0; border: 2px solid #667eea;">
      <h1 style="color: #667eea; letter-spacing: 8px; font-size: 36px; margin: 0;">{{.OTP}}</h1>
    </div>
    <p style="font-size: 14px; color: #666;">This OTP is valid for <strong>{{.ExpiryMinutes}} minutes</strong>.</p>
    <p style="font-size: 14px; color: #666;">If you didn't request this, please ignore this email and your password will remain unchanged.</p>
  </div>
  <div style="background-color: #333; padding: 20px; text-align: center;">
    <p style="color: #999; margin: 0; font-size: 12px;">FindMyRoom - Room Rental Service</p>
  </div>
</div>
`))

// RenderResetOTP renders the subject, plain-text, and HTML bodies for a
// password-reset OTP email.
func RenderResetOTP(otp string, ttl time.Duration) (subject, text, html string, err error) {
	minutes := int(ttl.Minutes())
	var buf bytes.Buffer
	if err = resetOTPHTML.Execute(&buf, map[string]any{
		"OTP":           otp,
		"ExpiryMinutes": minutes,
	}); err != nil {
		return "", "", "", err
	}
	text = fmt.Sprintf("Password Reset Request\n\nYour OTP for password reset is: %s\n\nThis OTP is valid for %d minutes.\n\nIf you didn't request this, please ignore this email.", otp, minutes)
	return resetOTPSubject, text, buf.String(), nil
}
