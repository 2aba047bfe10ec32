package mailer

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// For OTP mail only To and OTP are required; the worker renders the body.
type EmailJob struct {
	To       string `json:"to"`
	Subject  string `json:"subject,omitempty"`
	Text     string `json:"text,omitempty"`
	HTML     string `json:"html,omitempty"`
	Template string `json:"template,omitempty"` // e.g. "reset_otp"
	OTP      string `json:"otp,omitempty"`
}

const TemplateResetOTP = "reset_otp"
