package sessionware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	auth "github.com/campuslink/go-auth"
)

type tokenExtractor func(c *fiber.Ctx) (string, error)

// buildExtractors parses a lookup expression such as
// "header:Authorization,cookie:campus_session,query:token" into an ordered
// extractor chain.
func buildExtractors(tokenLookup, authScheme string) []tokenExtractor {
	extractors := make([]tokenExtractor, 0, 2)

	for _, rootPart := range strings.Split(tokenLookup, ",") {
		parts := strings.SplitN(strings.TrimSpace(rootPart), ":", 2)
		if len(parts) != 2 {
			continue
		}
		source := strings.TrimSpace(parts[0])
		name := strings.TrimSpace(parts[1])

		switch source {
		case "header":
			extractors = append(extractors, tokenFromHeader(name, authScheme))
		case "cookie":
			extractors = append(extractors, tokenFromCookie(name))
		case "query":
			extractors = append(extractors, tokenFromQuery(name))
		}
	}

	return extractors
}

func extractRawToken(c *fiber.Ctx, extractors []tokenExtractor) (string, error) {
	for _, extractor := range extractors {
		if raw, err := extractor(c); err == nil && raw != "" {
			return raw, nil
		}
	}
	return "", auth.ErrNoCredential
}

// tokenFromHeader extracts the credential from a request header, requiring
// the configured auth scheme prefix ("Bearer <token>").
func tokenFromHeader(header, authScheme string) tokenExtractor {
	return func(c *fiber.Ctx) (string, error) {
		value := c.Get(header)
		scheme := strings.TrimSpace(authScheme)
		if scheme == "" {
			if value == "" {
				return "", auth.ErrNoCredential
			}
			return strings.TrimSpace(value), nil
		}

		l := len(scheme)
		if len(value) > l+1 && strings.EqualFold(value[:l], scheme) {
			return strings.TrimSpace(value[l:]), nil
		}
		return "", auth.ErrNoCredential
	}
}

func tokenFromCookie(name string) tokenExtractor {
	return func(c *fiber.Ctx) (string, error) {
		if token := c.Cookies(name); token != "" {
			return token, nil
		}
		return "", auth.ErrNoCredential
	}
}

func tokenFromQuery(param string) tokenExtractor {
	return func(c *fiber.Ctx) (string, error) {
		if token := c.Query(param); token != "" {
			return token, nil
		}
		return "", auth.ErrNoCredential
	}
}
