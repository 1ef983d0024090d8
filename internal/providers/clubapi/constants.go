package clubapi

import "time"

const (
	providerName       = "clubapi"
	defaultBaseURL     = "https://api.hc-club.example/wp-json/club/v1"
	defaultHTTPTimeout = 10 * time.Second
	errorBodyLimit     = 512
)
