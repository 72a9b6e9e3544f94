// Package main prints a service token for callers of the email relay.
//
// Usage:
//
//	RELAY_JWT_SECRET=... servicetoken -subject account-service -ttl 720h
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/etuni/notify-service/internal/auth"
	"github.com/etuni/notify-service/internal/config"
)

func main() {
	subject := flag.String("subject", "", "calling system name stored in the sub claim (required)")
	ttl := flag.Duration("ttl", 30*24*time.Hour, "token lifetime; 0 issues a token without expiry")
	flag.Parse()

	secret := config.GetSecret("RELAY_JWT_SECRET", "")
	if secret == "" {
		fmt.Fprintln(os.Stderr, "RELAY_JWT_SECRET (or RELAY_JWT_SECRET_FILE) must be set")
		os.Exit(2)
	}
	if *subject == "" {
		flag.Usage()
		os.Exit(2)
	}

	token, err := auth.NewJWTService(secret).GenerateServiceToken(*subject, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to generate token: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(token)
}
