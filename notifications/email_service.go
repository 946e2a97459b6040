package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"time"

	config "github.com/fitplan/fitplan_backend/configs"
	"github.com/fitplan/fitplan_backend/logger"
	"go.uber.org/zap"
)

const brevoURL = "https://api.brevo.com/v3/smtp/email"

type BrevoService struct {
	APIKey      string
	SenderEmail string
	SenderName  string
	endpoint    string
	client      *http.Client
}

var EmailClient *BrevoService

type brevoPayload struct {
	Sender      map[string]string   `json:"sender"`
	To          []map[string]string `json:"to"`
	Subject     string              `json:"subject"`
	HTMLContent string              `json:"htmlContent"`
}

func InitEmailService(cfg *config.Config) {
	if !cfg.EmailEnabled() {
		logger.Log.Warn("email service not configured, notifications disabled")
		EmailClient = nil
		return
	}

	EmailClient = NewBrevoService(cfg.BrevoAPIKey, cfg.EmailSender, cfg.EmailSenderName)
	logger.Log.Info("email service initialized", zap.String("sender", cfg.EmailSender))
}

func NewBrevoService(apiKey, senderEmail, senderName string) *BrevoService {
	return &BrevoService{
		APIKey:      apiKey,
		SenderEmail: senderEmail,
		SenderName:  senderName,
		endpoint:    brevoURL,
		client:      &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *BrevoService) send(ctx context.Context, toEmail, toName, subject, htmlContent string) error {
	if toEmail == "" || !strings.Contains(toEmail, "@") {
		return fmt.Errorf("invalid recipient email: %s", toEmail)
	}

	recipientName := toName
	if recipientName == "" {
		recipientName = toEmail[:strings.Index(toEmail, "@")]
	}

	payload := brevoPayload{
		Sender:      map[string]string{"name": s.SenderName, "email": s.SenderEmail},
		To:          []map[string]string{{"email": toEmail, "name": recipientName}},
		Subject:     subject,
		HTMLContent: htmlContent,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("api-key", s.APIKey)
	req.Header.Set("content-type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("brevo returned %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

// SendEmail delivers a message in the background of a request. Failures are
// logged, never returned.
func SendEmail(ctx context.Context, toName, toEmail, subject, htmlContent string) {
	if EmailClient == nil {
		logger.Log.Debug("email client not initialized, skipping", zap.String("to", toEmail))
		return
	}

	if err := EmailClient.send(ctx, toEmail, toName, subject, htmlContent); err != nil {
		logger.Log.Error("failed to send email", zap.String("to", toEmail), zap.String("subject", subject), zap.Error(err))
		return
	}
	logger.Log.Info("email sent", zap.String("to", toEmail), zap.String("subject", subject))
}

// SendRequestAnswered tells a user their coach answered a meal or exercise request.
func SendRequestAnswered(ctx context.Context, name, email, kind string, requestID uint) {
	subject := fmt.Sprintf("Your %s request has been answered", kind)
	SendEmail(ctx, name, email, subject, requestAnsweredBody(name, kind, requestID))
}

func requestAnsweredBody(name, kind string, requestID uint) string {
	return fmt.Sprintf(
		"<p>Hi %s,</p><p>Your coach has answered %s request #%d. Open FitPlan to see your new program.</p>",
		html.EscapeString(name), html.EscapeString(kind), requestID,
	)
}
