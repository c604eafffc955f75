package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/iliyamo/room-booking/internal/utils"
)

// mktoken signs a development access token with the server's JWT
// secret.  Production tokens come from the identity service; this is
// for local testing only.
func main() {
	_ = godotenv.Load()

	userID := flag.Uint64("user", 1, "user ID for the sub claim")
	role := flag.String("role", "USER", "role claim (USER or ADMIN)")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET is not set")
		os.Exit(1)
	}

	tok, err := utils.NewAccessToken(secret, *userID, *role, *ttl)
	if err != nil {
		fmt.Fprintln(os.Stderr, "sign token:", err)
		os.Exit(1)
	}
	fmt.Println(tok.Token)
}
