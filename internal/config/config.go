package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

func Load() {
	err := godotenv.Load(".env")
	if err != nil {
		log.Println("⚠️  Aucun fichier .env trouvé — on continue avec les variables d'environnement du système")
	} else {
		log.Println("✅ Fichier .env chargé avec succès")
	}
}

// Config regroupe les identifiants chargés une seule fois au démarrage.
// Le secret webhook et la clé Stripe sont injectés dans les handlers qui en
// ont besoin plutôt que lus à la volée depuis l'environnement.
type Config struct {
	Port                string
	JWTSecret           string
	StripeSecretKey     string
	StripeWebhookSecret string
	FrontendInvoiceURL  string
	MailFrom            string
	SMTPHost            string
	SMTPUsername        string
	SMTPPassword        string
}

func New() *Config {
	cfg := &Config{
		Port:                os.Getenv("PORT"),
		JWTSecret:           os.Getenv("JWT_SECRET"),
		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		FrontendInvoiceURL:  os.Getenv("FRONTEND_INVOICE_URL"),
		MailFrom:            os.Getenv("MAIL_FROM"),
		SMTPHost:            os.Getenv("SMTP_HOST"),
		SMTPUsername:        os.Getenv("SMTP_USERNAME"),
		SMTPPassword:        os.Getenv("SMTP_PASSWORD"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.FrontendInvoiceURL == "" {
		// fallback local dev
		cfg.FrontendInvoiceURL = "http://localhost:3000/invoice"
	}
	if cfg.MailFrom == "" {
		cfg.MailFrom = "noreply@storefront.dev"
	}

	return cfg
}
