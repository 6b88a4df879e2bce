package notifier

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"
	"time"

	"freegamewatch/config"
	"freegamewatch/internal/listing"
	"freegamewatch/logger"
	apperrors "freegamewatch/pkg/errors"
)

var platformIcons = map[listing.Platform]string{
	listing.PlatformPC:      "🖥️",
	listing.PlatformXbox:    "🎮",
	listing.PlatformSwitch:  "🕹️",
	listing.PlatformAndroid: "📱",
}

const defaultPlatformIcon = "🖥️"

// EmailNotifier sends an HTML digest over SMTP with STARTTLS.
type EmailNotifier struct {
	host     string
	port     int
	sender   string
	password string
	log      *logger.Logger
}

func NewEmailNotifier(cfg *config.Config) *EmailNotifier {
	return &EmailNotifier{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		sender:   cfg.EmailSender,
		password: cfg.EmailSecret,
		log:      logger.ForNotifier(),
	}
}

type digestCard struct {
	Icon          string
	Storefront    string
	Platform      string
	ImageURL      string
	Title         string
	OriginalPrice string
	Description   string
	Expiry        string
	ListingURL    string
	Last          bool
}

// expiryLine renders a listing's expiry for display. ISO timestamps become
// a friendly date; free-text phrases pass through as-is.
func expiryLine(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return "⏰ Available until: " + ts.Format("January 2, 2006")
		}
	}
	return "⏰ " + raw
}

func buildCards(listings []listing.Listing) []digestCard {
	cards := make([]digestCard, 0, len(listings))
	for i, l := range listings {
		icon, ok := platformIcons[l.Platform]
		if !ok {
			icon = defaultPlatformIcon
		}
		cards = append(cards, digestCard{
			Icon:          icon,
			Storefront:    string(l.Storefront),
			Platform:      string(l.Platform),
			ImageURL:      l.ImageURL,
			Title:         l.Title,
			OriginalPrice: l.OriginalPrice,
			Description:   l.Description,
			Expiry:        expiryLine(l.ExpiresAt),
			ListingURL:    l.ListingURL,
			Last:          i == len(listings)-1,
		})
	}
	return cards
}

// renderDigest produces the HTML body for a batch of listings.
func renderDigest(listings []listing.Listing) (string, error) {
	var buf bytes.Buffer
	err := digestTemplate.Execute(&buf, struct {
		Cards []digestCard
	}{Cards: buildCards(listings)})
	if err != nil {
		return "", apperrors.NewNotification("failed to render digest", err)
	}
	return buf.String(), nil
}

// SendDigest sends the digest to every recipient in a single message.
func (n *EmailNotifier) SendDigest(recipients []string, listings []listing.Listing) error {
	if len(listings) == 0 {
		n.log.Info().Msg("No listings to send")
		return nil
	}
	if len(recipients) == 0 {
		n.log.Info().Msg("No recipients configured")
		return nil
	}
	if n.sender == "" {
		return apperrors.NewNotification("no sender address configured", nil)
	}

	body, err := renderDigest(listings)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("🎮 %d Free Games Available This Week!", len(listings))
	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", n.sender)
	fmt.Fprintf(&msg, "To: %s\r\n", strings.Join(recipients, ", "))
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	addr := fmt.Sprintf("%s:%d", n.host, n.port)
	auth := smtp.PlainAuth("", n.sender, n.password, n.host)
	if err := smtp.SendMail(addr, auth, n.sender, recipients, msg.Bytes()); err != nil {
		return apperrors.NewNotification("failed to send digest", err)
	}

	n.log.Info().
		Int("recipients", len(recipients)).
		Int("listings", len(listings)).
		Msg("Digest sent")
	return nil
}

var digestTemplate = template.Must(template.New("digest").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<style>
body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; background-color: #f4f4f4; margin: 0; padding: 20px; }
.container { max-width: 600px; margin: 0 auto; background-color: #ffffff; border-radius: 10px; overflow: hidden; box-shadow: 0 4px 6px rgba(0,0,0,0.1); }
.header { background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: white; padding: 30px; text-align: center; }
.header h1 { margin: 0; font-size: 28px; }
.header p { margin: 10px 0 0 0; opacity: 0.9; }
.game-card { border-bottom: 1px solid #e0e0e0; padding: 20px; }
.game-card:last-child { border-bottom: none; }
.game-image { width: 100%; height: auto; border-radius: 8px; margin-bottom: 15px; }
.store-badge { display: inline-block; background-color: #667eea; color: white; padding: 5px 15px; border-radius: 20px; font-size: 14px; font-weight: bold; margin-bottom: 10px; }
.platform-info { color: #666; font-size: 13px; margin-bottom: 10px; }
.game-title { font-size: 22px; font-weight: bold; color: #333; margin: 10px 0; }
.price-info { color: #e74c3c; font-weight: bold; font-size: 18px; margin: 10px 0; }
.price-original { text-decoration: line-through; color: #999; margin-right: 10px; }
.price-free { color: #27ae60; }
.game-description { color: #666; line-height: 1.6; margin: 10px 0; }
.expiry { color: #e67e22; font-size: 14px; margin: 10px 0; }
.claim-button { display: inline-block; background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: white; padding: 12px 30px; text-decoration: none; border-radius: 25px; font-weight: bold; margin-top: 15px; }
.footer { background-color: #f4f4f4; padding: 20px; text-align: center; color: #666; font-size: 12px; }
.divider { height: 2px; background: linear-gradient(to right, transparent, #667eea, transparent); margin: 20px 0; }
</style>
</head>
<body>
<div class="container">
<div class="header">
<h1>🎮 Free Games Available!</h1>
<p>Your weekly roundup of free games</p>
</div>
{{range .Cards}}<div class="game-card">
<span class="store-badge">{{.Icon}} {{.Storefront}}</span>
<div class="platform-info">Platform: {{.Platform}}</div>
{{if .ImageURL}}<img src="{{.ImageURL}}" alt="{{.Title}}" class="game-image">
{{end}}<div class="game-title">{{.Title}}</div>
<div class="price-info">
<span class="price-original">{{.OriginalPrice}}</span>
<span class="price-free">FREE</span>
</div>
<div class="game-description">{{.Description}}</div>
{{if .Expiry}}<div class="expiry">{{.Expiry}}</div>
{{end}}<a href="{{.ListingURL}}" class="claim-button">🔗 Claim Now</a>
</div>
{{if not .Last}}<div class="divider"></div>
{{end}}{{end}}<div class="footer">
<p>You're receiving this email because you subscribed to the free games digest</p>
<p>Happy gaming! 🎮</p>
</div>
</div>
</body>
</html>
`))
