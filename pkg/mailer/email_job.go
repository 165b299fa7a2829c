package mailer

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// It is transient: its only durability is queue-level. HTML is optional;
// Text is the plain fallback.
type EmailJob struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text,omitempty"`
	HTML    string `json:"html,omitempty"`
}
