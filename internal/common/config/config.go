package config

import (
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

type Database struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslmode"`
}

type Rabbit struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	VHost    string `yaml:"vhost"`
}

type HTTP struct {
	Port int `yaml:"port"`
}

// Notifications configures the outbound staff-chat channel. An empty
// WebhookURL is not an error: it means the channel is disabled and the
// dispatcher skips delivery without recording a status.
type Notifications struct {
	WebhookURL string `yaml:"webhook_url"`
	Currency   string `yaml:"currency"`
}

type App struct {
	Database      Database      `yaml:"database"`
	Rabbit        Rabbit        `yaml:"rabbitmq"`
	HTTP          HTTP          `yaml:"http"`
	Notifications Notifications `yaml:"notifications"`
}

func Load(path string) (App, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return App{}, err
	}
	a := App{
		Database:      Database{Port: 5432, SSLMode: "disable"},
		Rabbit:        Rabbit{Port: 5672, VHost: "/"},
		HTTP:          HTTP{Port: 3000},
		Notifications: Notifications{Currency: "ILS"},
	}
	if err := yaml.Unmarshal(b, &a); err != nil {
		return App{}, fmt.Errorf("parse %s: %w", path, err)
	}
	// env wins over the file so deployments can inject the secret URL
	if v := os.Getenv("SLACK_WEBHOOK_URL"); v != "" {
		a.Notifications.WebhookURL = v
	}
	if a.Database.Host == "" || a.Database.User == "" || a.Database.Database == "" {
		return App{}, fmt.Errorf("invalid config: database section incomplete")
	}
	if a.Rabbit.Host == "" || a.Rabbit.User == "" {
		return App{}, fmt.Errorf("invalid config: rabbitmq section incomplete")
	}
	return a, nil
}

func FindConfig() (string, error) {
	candidates := []string{"config.yaml", "deploy/config.example.yaml"}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fs.ErrNotExist
}
