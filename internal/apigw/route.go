package apigw

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"
)

// Handler is the signature lambda.Start accepts for REST API proxy integrations.
type Handler func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// Result is what a method handler produces; Route turns it into a proxy response.
type Result struct {
	Status int
	Body   any
}

// StatusBody is the {status, message} shape most responses use.
type StatusBody struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// MessageBody is the bare {message} shape used for 405s and upload-url errors.
type MessageBody struct {
	Message string `json:"message"`
}

// JSON returns a result with the given status and body.
func JSON(status int, body any) Result { return Result{Status: status, Body: body} }

// Success returns 200 {"status":"success"} with an optional message.
func Success(message string) Result {
	return Result{Status: http.StatusOK, Body: StatusBody{Status: "success", Message: message}}
}

// Fail returns {"status":"error","message":...} with the given status.
func Fail(status int, message string) Result {
	return Result{Status: status, Body: StatusBody{Status: "error", Message: message}}
}

// Message returns {"message":...} with the given status.
func Message(status int, message string) Result {
	return Result{Status: status, Body: MessageBody{Message: message}}
}

// MethodFunc handles one HTTP method. A returned error becomes a 500 whose message is
// the error text; handlers return a Result for every failure they expect.
type MethodFunc func(ctx context.Context, req Request) (Result, error)

// Methods maps an HTTP method ("GET", "POST") to its handler.
type Methods map[string]MethodFunc

// Route builds a Handler that checks the origin, answers preflight requests and
// dispatches on the HTTP method. A rejected origin never reaches a method handler.
func Route(cors CORS, methods Methods, log *zap.Logger) Handler {
	allow := allowedMethods(methods)

	return func(ctx context.Context, ev events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		req := Request{ev}
		method := strings.ToUpper(ev.HTTPMethod)

		// --- Step 1: Check the origin against the allow-list ---
		origin, ok := cors.Resolve(req)
		headers := corsHeaders(origin, allow)
		if !ok {
			log.Warn("origin rejected", zap.String("origin", req.Header("Origin")), zap.String("path", ev.Path))
			return respond(headers, Fail(http.StatusBadRequest, "Invalid origin")), nil
		}

		log.Info("request received",
			zap.String("method", method),
			zap.String("path", ev.Path),
			zap.String("request_id", ev.RequestContext.RequestID),
		)

		// --- Step 2: Answer CORS preflight requests ---
		if method == http.MethodOptions {
			return respond(headers, JSON(http.StatusOK, StatusBody{Status: "ok"})), nil
		}

		// --- Step 3: Dispatch on the HTTP method ---
		fn, ok := methods[method]
		if !ok {
			return respond(headers, Message(http.StatusMethodNotAllowed, "Method Not Allowed")), nil
		}

		result, err := invoke(ctx, fn, req)
		if err != nil {
			log.Error("request failed", zap.String("method", method), zap.String("path", ev.Path), zap.Error(err))
			result = Fail(http.StatusInternalServerError, err.Error())
		}
		return respond(headers, result), nil
	}
}

// invoke runs fn, turning a panic into an error so one bad request cannot kill a warm
// Lambda container.
func invoke(ctx context.Context, fn MethodFunc, req Request) (result Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	return fn(ctx, req)
}

func respond(headers map[string]string, result Result) events.APIGatewayProxyResponse {
	body, err := json.Marshal(result.Body)
	if err != nil {
		body, _ = json.Marshal(StatusBody{Status: "error", Message: err.Error()})
		result.Status = http.StatusInternalServerError
	}
	return events.APIGatewayProxyResponse{
		StatusCode: result.Status,
		Headers:    headers,
		Body:       string(body),
	}
}

func allowedMethods(methods Methods) string {
	names := []string{http.MethodOptions}
	for m := range methods {
		names = append(names, strings.ToUpper(m))
	}
	sort.Strings(names[1:])
	return strings.Join(names, ",")
}
