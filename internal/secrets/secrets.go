// Package secrets reads API keys from AWS Secrets Manager.
package secrets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// API is the subset of the Secrets Manager client used here.
type API interface {
	GetSecretValue(ctx context.Context, in *secretsmanager.GetSecretValueInput, opts ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// Reader returns secret strings by name.
type Reader interface {
	Get(ctx context.Context, name string) (string, error)
}

// Manager implements Reader on top of Secrets Manager.
type Manager struct {
	client API
}

// New returns a Manager using client.
func New(client API) *Manager {
	return &Manager{client: client}
}

// Get returns the SecretString of the named secret.
func (m *Manager) Get(ctx context.Context, name string) (string, error) {
	out, err := m.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(name),
	})
	if err != nil {
		return "", fmt.Errorf("get secret %s: %w", name, err)
	}
	if out.SecretString == nil {
		return "", fmt.Errorf("secret %s has no string value", name)
	}
	return *out.SecretString, nil
}

// ErrFieldMissing is returned by Field when the secret JSON lacks the requested key.
var ErrFieldMissing = errors.New("secret field missing")

// Field reads a JSON secret and returns one string field of it.
func Field(ctx context.Context, r Reader, name, field string) (string, error) {
	raw, err := r.Get(ctx, name)
	if err != nil {
		return "", err
	}
	var doc map[string]any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return "", fmt.Errorf("secret %s is not JSON: %w", name, err)
	}
	v, ok := doc[field].(string)
	if !ok || v == "" {
		return "", fmt.Errorf("secret %s: %w: %s", name, ErrFieldMissing, field)
	}
	return v, nil
}
