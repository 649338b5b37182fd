// Package gateway runs function handlers behind Fiber by translating each request into
// an API Gateway REST proxy event and the handler's response back into HTTP.
package gateway

import (
	"encoding/base64"
	"unicode/utf8"

	"github.com/aws/aws-lambda-go/events"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/smartgolf/smartgolf-api/internal/apigw"
	"github.com/smartgolf/smartgolf-api/internal/middleware"
)

// Stage is reported as the API Gateway stage of locally served requests.
const Stage = "local"

// Adapt mounts h on a Fiber route.
func Adapt(h apigw.Handler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		resp, err := h(c.UserContext(), Event(c))
		if err != nil {
			return err
		}

		for k, v := range resp.Headers {
			c.Set(k, v)
		}
		for k, vs := range resp.MultiValueHeaders {
			for _, v := range vs {
				c.Response().Header.Add(k, v)
			}
		}

		body := []byte(resp.Body)
		if resp.IsBase64Encoded {
			if body, err = base64.StdEncoding.DecodeString(resp.Body); err != nil {
				return fiber.NewError(fiber.StatusBadGateway, "invalid base64 response body")
			}
		}
		return c.Status(resp.StatusCode).Send(body)
	}
}

// Event builds the proxy event API Gateway would send for c. Claims stored by
// middleware.Auth appear under requestContext.authorizer.claims.
func Event(c *fiber.Ctx) events.APIGatewayProxyRequest {
	ev := events.APIGatewayProxyRequest{
		Resource:                        c.Route().Path,
		Path:                            c.Path(),
		HTTPMethod:                      c.Method(),
		Headers:                         map[string]string{},
		MultiValueHeaders:               map[string][]string{},
		QueryStringParameters:           map[string]string{},
		MultiValueQueryStringParameters: map[string][]string{},
		RequestContext: events.APIGatewayProxyRequestContext{
			RequestID:  uuid.NewString(),
			Stage:      Stage,
			HTTPMethod: c.Method(),
			Path:       c.Path(),
			Identity: events.APIGatewayRequestIdentity{
				SourceIP:  c.IP(),
				UserAgent: c.Get(fiber.HeaderUserAgent),
			},
		},
	}

	for name, values := range c.GetReqHeaders() {
		for _, v := range values {
			ev.Headers[name] = v
			ev.MultiValueHeaders[name] = append(ev.MultiValueHeaders[name], v)
		}
	}
	c.Context().QueryArgs().VisitAll(func(key, value []byte) {
		k, v := string(key), string(value)
		ev.QueryStringParameters[k] = v
		ev.MultiValueQueryStringParameters[k] = append(ev.MultiValueQueryStringParameters[k], v)
	})

	if claims := middleware.Claims(c); claims != nil {
		ev.RequestContext.Authorizer = map[string]interface{}{"claims": claims}
	}

	body := c.Body()
	if utf8.Valid(body) {
		ev.Body = string(body)
	} else {
		ev.Body = base64.StdEncoding.EncodeToString(body)
		ev.IsBase64Encoded = true
	}
	return ev
}
