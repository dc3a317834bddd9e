// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package httperrors provides user-friendly error handling for HTTP requests.
package httperrors

import (
	"errors"
	"net"
	"net/url"
	"strings"
	"syscall"

	apperrors "mg/cli/internal/errors"
	"mg/cli/internal/logging"

	"github.com/pterm/pterm"
)

// Category is the user-facing class of a network failure.
type Category int

const (
	Generic Category = iota
	Timeout
	DNS
	ConnectionRefused
	TLS
	Server
)

// Present prints a user-friendly explanation of err. Network errors and 5xx
// responses get troubleshooting hints per Category; other failures are handed
// to logging.PresentFailure.
func Present(err error, context, baseURL string) {
	if err == nil {
		return
	}
	if !apperrors.IsKind(err, apperrors.Network) && !isServerError(err) {
		logging.PresentFailure(context, err)
		return
	}

	host := ExtractHostFromURL(baseURL)
	switch Classify(err) {
	case Timeout:
		showTimeoutError(context)
	case DNS:
		showDNSError(context, host)
	case ConnectionRefused:
		showConnectionRefusedError(context, host)
	case TLS:
		showSSLError(context)
	case Server:
		showServerError(context, err)
	default:
		showGenericError(context, host, logging.Mask(err.Error()))
	}
}

// Classify detects the common failure types of a transport error or a 5xx response.
func Classify(err error) Category {
	switch {
	case err == nil:
		return Generic
	case isServerError(err):
		return Server
	case isTimeoutError(err):
		return Timeout
	case isDNSError(err):
		return DNS
	case isConnectionRefusedError(err):
		return ConnectionRefused
	case isSSLError(err):
		return TLS
	default:
		return Generic
	}
}

// isTimeoutError checks if the error is a timeout error.
func isTimeoutError(err error) bool {
	// Check for net.Error with Timeout()
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "deadline exceeded")
}

// isDNSError checks if the error is a DNS resolution error.
func isDNSError(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

// isConnectionRefusedError checks if the error is a connection refused error.
func isConnectionRefusedError(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "connection refused")
}

// isSSLError checks if the error is an SSL/TLS error.
func isSSLError(err error) bool {
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "tls") ||
		strings.Contains(errStr, "x509") ||
		strings.Contains(errStr, "certificate") ||
		strings.Contains(errStr, "handshake")
}

// isServerError reports whether the auth service answered with a 5xx status.
func isServerError(err error) bool {
	var e *apperrors.E
	return errors.As(err, &e) && e.Kind == apperrors.Authentication && e.Status >= 500
}

// showTimeoutError displays a user-friendly timeout error message.
func showTimeoutError(context string) {
	pterm.Printf("⏱️  Connection timeout while %s\n", context)
	pterm.Println()
	pterm.Println("The server took too long to respond. This could mean:")
	pterm.Println("  • Slow internet connection")
	pterm.Println("  • Server is under heavy load")
	pterm.Println("  • Network firewall is blocking the connection")
	pterm.Println()
	pterm.Println("Please try again in a few moments.")
	pterm.Println()
}

// showDNSError displays a user-friendly DNS error message.
func showDNSError(context, host string) {
	pterm.Printf("🌐 Cannot resolve server address while %s\n", context)
	pterm.Println()
	pterm.Printf("Unable to look up %s. Please check:\n", host)
	pterm.Println("  • Your internet connection is working")
	pterm.Println("  • base_url in 'mg config show' is spelled correctly")
	pterm.Println("  • No DNS-level blocking (corporate firewall, parental controls)")
	pterm.Println()
}

// showConnectionRefusedError displays a user-friendly connection refused error message.
func showConnectionRefusedError(context, host string) {
	pterm.Printf("🚫 Connection refused while %s\n", context)
	pterm.Println()
	pterm.Printf("%s is not accepting connections. This could mean:\n", host)
	pterm.Println("  • The auth service is not running (for local development: mg devserver)")
	pterm.Println("  • Firewall is blocking the connection")
	pterm.Println("  • Wrong server address or port")
	pterm.Println()
}

// showSSLError displays a user-friendly SSL/TLS error message.
func showSSLError(context string) {
	pterm.Printf("🔒 Secure connection failed while %s\n", context)
	pterm.Println()
	pterm.Println("Cannot establish a secure HTTPS connection. This could mean:")
	pterm.Println("  • SSL/TLS certificate issue")
	pterm.Println("  • Network proxy interfering with HTTPS")
	pterm.Println("  • System clock is incorrect")
	pterm.Println()
}

// showServerError displays a user-friendly server error message.
func showServerError(context string, err error) {
	var e *apperrors.E
	_ = errors.As(err, &e)
	pterm.Printf("⚠️  Server error while %s (HTTP %d)\n", context, e.Status)
	pterm.Println()
	pterm.Println("The auth service encountered an internal error.")
	if msg := strings.TrimSpace(e.Message); msg != "" {
		pterm.Println("Server said: " + logging.Mask(msg))
	}
	pterm.Println("Please try again in a few minutes.")
	pterm.Println()
}

// showGenericError displays a generic error message for unrecognized errors.
func showGenericError(context, host, errDetails string) {
	pterm.Printf("❌ Cannot connect to %s while %s\n", host, context)
	pterm.Println()
	pterm.Println("Please check:")
	pterm.Println("  • Your internet connection")
	pterm.Println("  • Firewall settings that might block HTTP requests")
	pterm.Println()

	// Show abbreviated error details for debugging
	if errDetails != "" {
		shortErr := errDetails
		if len(shortErr) > 100 {
			shortErr = shortErr[:100] + "..."
		}
		pterm.Debug.Printf("Technical details: %s\n", shortErr)
		pterm.Println()
	}
}

// ExtractHostFromURL extracts the hostname from a URL for error messages.
func ExtractHostFromURL(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil || u.Host == "" {
		return "server"
	}
	return u.Host
}
