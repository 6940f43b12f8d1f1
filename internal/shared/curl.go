// Utilities for importing a session token from a copied cURL command.
package shared

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// CurlSession represents headers parsed from a cURL command copied out of a
// browser's network inspector, with the bearer token extracted if present.
type CurlSession struct {
	Headers map[string]string
	Token   string
}

// ParseCurlFile reads a .sh file containing a cURL command and extracts the session token.
func ParseCurlFile(filepath string) (*CurlSession, error) {
	content, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read curl file: %w", err)
	}

	return ParseCurlCommand(content)
}

// ParseCurlCommand parses a cURL command string and extracts headers and the bearer token.
func ParseCurlCommand(data []byte) (*CurlSession, error) {
	curlCmd := string(data)
	curlCmd = strings.ReplaceAll(curlCmd, "\\\n", " ")
	curlCmd = strings.ReplaceAll(curlCmd, "\\", "")

	headers := make(map[string]string)
	var token string

	headerRegex := regexp.MustCompile(`-H\s+'([^']+)'|-H\s+"([^"]+)"`)
	matches := headerRegex.FindAllStringSubmatch(curlCmd, -1)

	for _, match := range matches {
		headerLine := match[1]
		if headerLine == "" {
			headerLine = match[2]
		}

		parts := strings.SplitN(headerLine, ":", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		headers[key] = value

		if strings.EqualFold(key, "authorization") {
			token = strings.TrimSpace(strings.TrimPrefix(value, "Bearer"))
		}
	}

	if token == "" {
		return nil, fmt.Errorf("no Authorization header found in curl command")
	}

	return &CurlSession{Headers: headers, Token: token}, nil
}
