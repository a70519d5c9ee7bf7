package email

import (
	"fmt"
	"net/http"

	"github.com/brightmind-app/brightmind/internal/config"
	"github.com/brightmind-app/brightmind/internal/domain"
)

// NewEmailService creates and returns an email sender based on the configuration.
func NewEmailService(cfg *config.Config) (domain.EmailSender, error) {
	switch cfg.EmailProvider {
	case "log":
		return &LogSender{senderAddress: cfg.EmailSender}, nil
	case "resend":
		if cfg.EmailAPIKey == "" {
			return nil, fmt.Errorf("email provider is 'resend' but EMAIL_API_KEY is not set")
		}
		return &ResendSender{
			apiKey:        cfg.EmailAPIKey,
			senderAddress: cfg.EmailSender,
			client:        &http.Client{},
		}, nil
	default:
		return nil, fmt.Errorf("unknown email provider: %s", cfg.EmailProvider)
	}
}
