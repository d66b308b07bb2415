// Package messaging sends templated customer notices through a Solapi-style
// messaging gateway.
package messaging

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/samirrijal/routedesk/internal/core/domain"
)

const sendPath = "/messages/v4/send"

// Config holds gateway credentials.
type Config struct {
	BaseURL   string
	APIKey    string
	APISecret string
	// Sender is the registered outbound number.
	Sender string
	// ProfileID is the business channel the templates belong to.
	ProfileID string
}

// Sender implements ports.MessageSender.
type Sender struct {
	cfg     Config
	session *http.Client
	now     func() time.Time
	salt    func() string
}

// NewSender creates a gateway client.
func NewSender(cfg Config) *Sender {
	return &Sender{
		cfg:     cfg,
		session: &http.Client{Timeout: 10 * time.Second},
		now:     time.Now,
		salt:    func() string { return strings.ReplaceAll(uuid.NewString(), "-", "") },
	}
}

type kakaoOptions struct {
	PfID       string            `json:"pfId"`
	TemplateID string            `json:"templateId"`
	Variables  map[string]string `json:"variables"`
}

type message struct {
	To           string       `json:"to"`
	From         string       `json:"from"`
	KakaoOptions kakaoOptions `json:"kakaoOptions"`
}

type sendRequest struct {
	Message message `json:"message"`
}

// Send posts one templated message.
func (s *Sender) Send(ctx context.Context, msg domain.CustomerMessage) error {
	body, err := json.Marshal(sendRequest{Message: message{
		To:   msg.To,
		From: s.cfg.Sender,
		KakaoOptions: kakaoOptions{
			PfID:       s.cfg.ProfileID,
			TemplateID: msg.TemplateID,
			Variables:  msg.Variables,
		},
	}})
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(s.cfg.BaseURL, "/")+sendPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", s.authorization())

	resp, err := s.session.Do(req)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("send message: status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	return nil
}

// authorization builds the HMAC-SHA256 header: the signature covers the
// request date followed by a random salt.
func (s *Sender) authorization() string {
	date := s.now().UTC().Format(time.RFC3339)
	salt := s.salt()
	return fmt.Sprintf("HMAC-SHA256 apiKey=%s, date=%s, salt=%s, signature=%s",
		s.cfg.APIKey, date, salt, Sign(s.cfg.APISecret, date, salt))
}

// Sign returns the hex HMAC-SHA256 of date+salt keyed by secret.
func Sign(secret, date, salt string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(date + salt))
	return hex.EncodeToString(mac.Sum(nil))
}
