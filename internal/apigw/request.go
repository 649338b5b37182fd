// Package apigw is the plumbing every Smart Golf function shares: reading API Gateway
// proxy events, the CORS allow-list check, method dispatch and JSON responses.
//
// A function is assembled as
//
//	apigw.Route(cors, apigw.Methods{
//	    http.MethodGet:  handlers.SearchCourses(courses),
//	    http.MethodPost: handlers.CheckOrCreateCourse(courses, api),
//	}, log)
//
// and the resulting Handler is passed to lambda.Start, or mounted on the local gateway.
package apigw

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
)

// Request wraps the proxy event with lookup helpers.
type Request struct {
	events.APIGatewayProxyRequest
}

// Header returns the first value of the named header. API Gateway passes header names
// through as the client sent them, so the lookup ignores case.
func (r Request) Header(name string) string {
	for k, v := range r.Headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	for k, vs := range r.MultiValueHeaders {
		if strings.EqualFold(k, name) && len(vs) > 0 {
			return vs[0]
		}
	}
	return ""
}

// Query returns a query string parameter, or "" if absent.
func (r Request) Query(name string) string {
	return r.QueryStringParameters[name]
}

// Subject returns the Cognito user id ("sub" claim) placed on the request by the
// API Gateway authorizer, or "" for unauthenticated requests.
func (r Request) Subject() string {
	claims, ok := r.RequestContext.Authorizer["claims"].(map[string]interface{})
	if !ok {
		return ""
	}
	sub, _ := claims["sub"].(string)
	return sub
}

// FieldError reports a missing or malformed body field by its JSON name.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	if e.Field == "" {
		return "invalid request body"
	}
	return fmt.Sprintf("Missing or invalid field %s", e.Field)
}

func (e *FieldError) Unwrap() error { return e.Err }

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by the name the client uses, not the Go field name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// RawBody returns the decoded JSON body as a generic map. An empty body is treated as {}.
func (r Request) RawBody() (map[string]any, error) {
	body := r.Body
	if r.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return nil, &FieldError{Err: err}
		}
		body = string(decoded)
	}
	if strings.TrimSpace(body) == "" {
		return map[string]any{}, nil
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return nil, &FieldError{Err: err}
	}
	return raw, nil
}

// DecodeBody decodes the JSON body into dst (a pointer to a struct with mapstructure
// tags) and validates it. Decoding is weakly typed: the web client posts form values, so
// "4" and 4 are both accepted for an int field, and 12345 for a string field.
// Failures are returned as *FieldError.
func (r Request) DecodeBody(dst any) error {
	raw, err := r.RawBody()
	if err != nil {
		return err
	}
	return DecodeMap(raw, dst)
}

// DecodeMap applies the same weak decoding and validation to an already parsed body.
func DecodeMap(raw map[string]any, dst any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           dst,
		TagName:          "mapstructure",
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(raw); err != nil {
		var mErr *mapstructure.Error
		if errors.As(err, &mErr) && len(mErr.Errors) > 0 {
			return &FieldError{Field: fieldFromDecodeError(mErr.Errors[0]), Err: err}
		}
		return &FieldError{Err: err}
	}

	if err := validate.Struct(dst); err != nil {
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) && len(vErrs) > 0 {
			return &FieldError{Field: vErrs[0].Field(), Err: err}
		}
		return &FieldError{Err: err}
	}
	return nil
}

// fieldFromDecodeError pulls the field name out of mapstructure messages, which quote it
// first: "cannot parse 'Hole3Score' as int: ..." or "'userId' expected type 'string', ...".
func fieldFromDecodeError(msg string) string {
	start := strings.Index(msg, "'")
	if start < 0 {
		return ""
	}
	end := strings.Index(msg[start+1:], "'")
	if end < 0 {
		return ""
	}
	return msg[start+1 : start+1+end]
}
