package config

import (
	"os"
	"strconv"
	"strings"
)

type EmailConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string

	// NotifyAddresses receive a copy of every reset code and every contact
	// form submission.
	NotifyAddresses []string
}

func LoadEmailConfig() EmailConfig {

	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil || port <= 0 {
		port = 587
	}

	var notify []string
	for _, addr := range strings.Split(os.Getenv("NOTIFY_EMAILS"), ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			notify = append(notify, addr)
		}
	}

	return EmailConfig{
		Host:            os.Getenv("SMTP_HOST"),
		Port:            port,
		Username:        os.Getenv("SMTP_USERNAME"),
		Password:        os.Getenv("SMTP_PASSWORD"),
		FromAddress:     os.Getenv("SMTP_FROM"),
		NotifyAddresses: notify,
	}
}
