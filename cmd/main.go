package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/Vtdarling/student-sympo/api"
	"github.com/Vtdarling/student-sympo/dynamo"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
)

func main() {
	ctx := context.Background()

	// A missing .env file is fine, prod gets everything from real env vars
	_ = godotenv.Load()

	settings := getServerSettingsFromEnv()
	logger := newLogger(settings.Env)

	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading AWS config: %s\n", err)
		os.Exit(1)
	}

	dynamoClient := dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if settings.DynamoEndpoint != "" {
			o.BaseEndpoint = aws.String(settings.DynamoEndpoint)
		}
	})
	db := dynamo.NewDB(dynamoClient, settings.TableName)

	sessionSecret, err := getSessionSecret(ctx, settings.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error getting session secret: %s\n", err)
		os.Exit(1)
	}
	sessions := api.NewSessionManager(sessionSecret, settings.SessionTTL)

	emailSender, err := createEmailSender(ctx, logger, settings.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating email sender: %s\n", err)
		os.Exit(1)
	}

	// TODO: wire up a Turnstile validator once the site key is provisioned
	logger.Warn("captcha validation is disabled")

	sympoAPI := api.NewAPI(
		db,
		logger,
		settings.Env,
		sessions,
		nil,
		emailSender,
		settings.FromEmail,
		settings.AdminEmails,
	)

	s := &http.Server{
		Handler: sympoAPI.Handler(),
		Addr:    net.JoinHostPort(settings.Host, settings.Port),
	}

	logger.Info("server listening", slog.String("addr", s.Addr))
	log.Fatal(s.ListenAndServe())
}

type ServerSettings struct {
	Host           string
	Port           string
	Env            api.Environment
	TableName      string
	DynamoEndpoint string
	FromEmail      string
	AdminEmails    []string
	SessionTTL     time.Duration
}

func getServerSettingsFromEnv() ServerSettings {
	return ServerSettings{
		Host:           getEnvOrDefault("HOST", "0.0.0.0"),
		Port:           getEnvOrDefault("PORT", "8080"),
		Env:            api.Environment(getEnvOrDefault("ENV", string(api.LOCAL))),
		TableName:      getEnvOrDefault("TABLE_NAME", "StudentSympo"),
		DynamoEndpoint: os.Getenv("DYNAMO_ENDPOINT"),
		FromEmail:      getEnvOrDefault("FROM_EMAIL", "passes@studentsympo.in"),
		AdminEmails:    splitEmails(os.Getenv("ADMIN_EMAILS")),
		SessionTTL:     getDurationOrDefault("SESSION_TTL", 24*time.Hour),
	}
}

func newLogger(env api.Environment) *slog.Logger {
	level := slog.LevelInfo
	if v, ok := os.LookupEnv("LOG_LEVEL"); ok {
		if err := level.UnmarshalText([]byte(v)); err != nil {
			level = slog.LevelInfo
		}
	}

	if env == api.PROD {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	}

	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: level}))
}

func splitEmails(s string) []string {
	if s == "" {
		return nil
	}

	emails := strings.Split(s, ",")
	for i := range emails {
		emails[i] = strings.ToLower(strings.TrimSpace(emails[i]))
	}
	return emails
}

func getEnvOrDefault(key string, defaultVal string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}

	return defaultVal
}

func getDurationOrDefault(key string, defaultVal time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok {
		return defaultVal
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
