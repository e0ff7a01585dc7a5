package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"blogrig-server/email"
	"blogrig-server/shared"
)

const testEmailSubject = "Test Email from API"

func (h *Handler) SendSESEmailHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("Received a request for SendSESEmailHandler")
	h.sendTestEmail(w, r, h.ses, h.config.Ses.From, h.config.Ses.To, "/api/email-sdk")
}

func (h *Handler) SendSMTPEmailHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("Received a request for SendSMTPEmailHandler")
	h.sendTestEmail(w, r, h.smtp, h.config.Smtp.From, h.config.Smtp.To, "/api/email-smtp")
}

func testMessage(from, to, route string, sentAt string) email.Message {
	return email.Message{
		From:    from,
		To:      to,
		Subject: testEmailSubject,
		Text:    fmt.Sprintf("This test email was sent automatically from %s at %s.", route, sentAt),
		HTML: fmt.Sprintf(`<h2>Test Email from API</h2>
<p>This test email was sent automatically from <strong>%s</strong>.</p>
<p>Sent at: %s</p>`, route, sentAt),
	}
}

func emailErrorStatus(kind email.Kind) (int, string) {
	switch kind {
	case email.KindAuth:
		return http.StatusUnauthorized, "Email provider authentication failed. Check the username and password."
	case email.KindRejected:
		return http.StatusBadRequest, "Email was rejected. Check the addresses and content."
	case email.KindConnection:
		return http.StatusInternalServerError, "Could not connect to the email server. Check the host and port."
	case email.KindTimeout:
		return http.StatusInternalServerError, "Connection to the email server timed out."
	case email.KindConfig:
		return http.StatusInternalServerError, "Email provider is not configured correctly."
	}
	return http.StatusInternalServerError, "Error sending email"
}

func (h *Handler) sendTestEmail(w http.ResponseWriter, r *http.Request, sender email.Sender, from, to, route string) {
	if h.authorize(w, r, shared.RoleAdmin) == nil {
		return
	}

	if sender == nil {
		status, msg := emailErrorStatus(email.KindConfig)
		writeJson(w, status, shared.SendEmailErrorResponse{
			Message: msg,
			Error:   "email provider not configured",
		})
		return
	}

	msg := testMessage(from, to, route, h.now().Format("2006-01-02 15:04:05 MST"))

	messageId, err := sender.Send(r.Context(), msg)
	if err != nil {
		log.Printf("Error sending email via %s: %v\n", sender.Name(), err)

		kind := email.KindUnknown
		var emailErr *email.Error
		if errors.As(err, &emailErr) {
			kind = emailErr.Kind
		}

		status, text := emailErrorStatus(kind)
		writeJson(w, status, shared.SendEmailErrorResponse{
			Message:  text,
			Error:    err.Error(),
			Provider: sender.Name(),
		})
		return
	}

	log.Printf("Successfully sent test email via %s\n", sender.Name())

	writeJson(w, http.StatusOK, shared.SendEmailResponse{
		Success:   true,
		Message:   "Email sent successfully",
		MessageId: messageId,
		SentEmail: shared.SentEmail{From: msg.From, To: msg.To, Subject: msg.Subject},
		Provider:  sender.Name(),
	})
}
