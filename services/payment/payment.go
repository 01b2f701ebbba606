package payment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-resty/resty/v2"

	"musfit/services/enrollment"
)

// Authorizer requests charge authorizations from the payment provider over
// HTTP. It implements enrollment.PaymentAuthorizer.
type Authorizer struct {
	http   *resty.Client
	apiKey string
}

var _ enrollment.PaymentAuthorizer = (*Authorizer)(nil)

func NewAuthorizer(client *resty.Client, apiKey string) *Authorizer {
	return &Authorizer{
		http:   client,
		apiKey: apiKey,
	}
}

type providerError struct {
	ErrorType    string `json:"error"`
	ErrorMessage string `json:"error_description"`
}

func (e providerError) Error() string {
	return fmt.Sprintf("%s: %s", e.ErrorType, e.ErrorMessage)
}

func (a *Authorizer) Authorize(ctx context.Context, charge enrollment.Charge) (*enrollment.Authorization, error) {
	response := &enrollment.Authorization{}
	responseError := &providerError{}

	resp, err := a.http.R().
		SetContext(ctx).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", a.apiKey)).
		SetHeader("Idempotency-Key", charge.IdempotencyKey).
		SetBody(charge).
		SetResult(&response).
		SetError(&responseError).
		Post("/charges/authorize")

	if err != nil {
		slog.With("error", err.Error()).Error("Error requesting charge authorization")
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("error requesting charge authorization: %s", responseError.Error())
	}
	return response, nil
}

// Noop approves every charge without calling anyone. Wired in dev
// environments where no payment provider is configured.
type Noop struct{}

var _ enrollment.PaymentAuthorizer = Noop{}

func (Noop) Authorize(_ context.Context, charge enrollment.Charge) (*enrollment.Authorization, error) {
	return &enrollment.Authorization{
		Reference: "noop-" + charge.IdempotencyKey,
		Approved:  true,
	}, nil
}
